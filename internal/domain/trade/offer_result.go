package trade

import "time"

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// OfferResult records one accept/reject decision against a specific
// version. It is a log, not a mutable status field: one row per responded
// version, never updated. Exactly one of IsAccepted/IsRejected is true.
// Party display names are snapshotted at write time so later renames do
// not corrupt history.
type OfferResult struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OfferVersionID uint   `gorm:"column:offer_version_id;not null;index" json:"offer_version_id"`
	OfferID        uint   `gorm:"column:offer_id;not null;index" json:"offer_id"`
	OwnerID        uint   `gorm:"column:owner_id;not null;index" json:"owner_id"`
	BuyerID        uint   `gorm:"column:buyer_id;not null;index" json:"buyer_id"`
	OfferName      string `gorm:"column:offer_name;not null" json:"offer_name"`

	IsAccepted *bool  `gorm:"column:is_accepted" json:"is_accepted,omitempty"`
	AcceptedBy string `gorm:"column:accepted_by" json:"accepted_by,omitempty"`
	IsRejected *bool  `gorm:"column:is_rejected" json:"is_rejected,omitempty"`
	RejectedBy string `gorm:"column:rejected_by" json:"rejected_by,omitempty"`

	OwnerCompanyName string `gorm:"column:owner_company_name" json:"owner_company_name"`
	OwnerName        string `gorm:"column:owner_name" json:"owner_name"`
	BuyerCompanyName string `gorm:"column:buyer_company_name" json:"buyer_company_name"`
	BuyerName        string `gorm:"column:buyer_name" json:"buyer_name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (OfferResult) TableName() string { return "offer_result" }
