package billing

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription binds a business owner to a plan. Checkout and renewal run
// through the external card processor; this row tracks only the outcome
// the limit guard needs.
type Subscription struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessOwnerID uint       `gorm:"column:business_owner_id;not null;index" json:"business_owner_id"`
	PlanID          uint       `gorm:"column:plan_id;not null;index" json:"plan_id"`
	Status          string     `gorm:"column:status;not null;default:active;index" json:"status"`
	StartedAt       time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	ExpiresAt       *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscription" }
