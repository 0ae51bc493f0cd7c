package directory

import (
	"time"

	"gorm.io/gorm"
)

const (
	OwnerStatusActive   = "active"
	OwnerStatusInactive = "inactive"
)

// BusinessOwner is the tenant-level seller entity. It owns offers, buyers
// and the subscription plan. Managed by the external account system; the
// negotiation core treats it as a read-mostly reference.
type BusinessOwner struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyName  string         `gorm:"column:company_name;not null" json:"company_name"`
	OwnerName    string         `gorm:"column:owner_name;not null" json:"owner_name"`
	Email        string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Phone        string         `gorm:"column:phone" json:"phone,omitempty"`
	Country      string         `gorm:"column:country" json:"country,omitempty"`
	Status       string         `gorm:"column:status;not null;default:active;index" json:"status"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BusinessOwner) TableName() string { return "business_owner" }

func (o *BusinessOwner) IsActive() bool {
	return o != nil && o.Status == OwnerStatusActive
}
