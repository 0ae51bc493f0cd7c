package trade

import (
	"time"

	"github.com/google/uuid"
)

const (
	ThreadStatusOpen     = "open"
	ThreadStatusAccepted = "accepted"
	ThreadStatusRejected = "rejected"
)

// OfferBuyer is the negotiation thread between one offer and one buyer.
// At most one row exists per (offer_id, buyer_id); it is created lazily on
// the first send and reused afterwards, never deleted. OwnerID is
// denormalized from the offer for fast authorization checks.
//
// The row also serves as the lock anchor for version allocation: writers
// take it FOR UPDATE before computing the next version number.
type OfferBuyer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OfferID   uint      `gorm:"column:offer_id;not null;uniqueIndex:idx_offer_buyer_thread" json:"offer_id"`
	BuyerID   uint      `gorm:"column:buyer_id;not null;uniqueIndex:idx_offer_buyer_thread" json:"buyer_id"`
	OwnerID   uint      `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Status    string    `gorm:"column:status;not null;default:open;index" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (OfferBuyer) TableName() string { return "offer_buyer" }

// IsTerminal reports whether the thread reached accept or reject. Terminal
// threads refuse further versions and responses.
func (t *OfferBuyer) IsTerminal() bool {
	return t != nil && (t.Status == ThreadStatusAccepted || t.Status == ThreadStatusRejected)
}
