package trade

import (
	"time"

	"gorm.io/datatypes"
)

// OfferVersion is one immutable snapshot of negotiated terms within a
// thread. Rows are append-only: corrections are new versions, and for a
// fixed (offer_id, buyer_id) the version numbers are exactly 1..k with no
// gaps. The composite unique index backs the application-level lock as a
// last line of defense against duplicate allocation.
type OfferVersion struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OfferID   uint   `gorm:"column:offer_id;not null;uniqueIndex:idx_offer_version_no" json:"offer_id"`
	BuyerID   uint   `gorm:"column:buyer_id;not null;uniqueIndex:idx_offer_version_no" json:"buyer_id"`
	VersionNo int    `gorm:"column:version_no;not null;uniqueIndex:idx_offer_version_no" json:"version_no"`
	OfferName string `gorm:"column:offer_name;not null" json:"offer_name"`
	FromParty string `gorm:"column:from_party" json:"from_party"`
	ToParty   string `gorm:"column:to_party" json:"to_party"`

	ProductName         string         `gorm:"column:product_name" json:"product_name"`
	SpeciesName         string         `gorm:"column:species_name" json:"species_name"`
	Brand               string         `gorm:"column:brand" json:"brand"`
	PlantApprovalNumber string         `gorm:"column:plant_approval_number" json:"plant_approval_number"`
	Quantity            float64        `gorm:"column:quantity" json:"quantity"`
	Tolerance           string         `gorm:"column:tolerance" json:"tolerance"`
	PaymentTerms        string         `gorm:"column:payment_terms" json:"payment_terms"`
	SizeBreakups        datatypes.JSON `gorm:"column:size_breakups;type:jsonb" json:"size_breakups"`
	GrandTotal          float64        `gorm:"column:grand_total" json:"grand_total"`
	ShipmentDate        *time.Time     `gorm:"column:shipment_date" json:"shipment_date,omitempty"`
	Remark              string         `gorm:"column:remark" json:"remark,omitempty"`

	Status    string    `gorm:"column:status;not null;default:open" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (OfferVersion) TableName() string { return "offer_version" }
