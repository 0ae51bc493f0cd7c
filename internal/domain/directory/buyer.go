package directory

import (
	"time"

	"gorm.io/gorm"
)

// Buyer is the counterparty entity, registered under exactly one
// business owner.
type Buyer struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessOwnerID uint           `gorm:"column:business_owner_id;not null;index" json:"business_owner_id"`
	CompanyName     string         `gorm:"column:company_name;not null" json:"company_name"`
	ContactName     string         `gorm:"column:contact_name;not null" json:"contact_name"`
	ContactEmail    string         `gorm:"column:contact_email;not null" json:"contact_email"`
	Phone           string         `gorm:"column:phone" json:"phone,omitempty"`
	Country         string         `gorm:"column:country" json:"country,omitempty"`
	Status          string         `gorm:"column:status;not null;default:active;index" json:"status"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Buyer) TableName() string { return "buyer" }
