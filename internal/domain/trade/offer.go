package trade

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OfferStatusOpen  = "open"
	OfferStatusClose = "close"
)

// SizeBreakup is one per-size price line of an offer. The list is stored as
// a JSON column so version snapshots stay self-contained.
type SizeBreakup struct {
	Size         string  `json:"size"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Total        float64 `json:"total"`
}

func MarshalSizeBreakups(rows []SizeBreakup) (datatypes.JSON, error) {
	if rows == nil {
		rows = []SizeBreakup{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func UnmarshalSizeBreakups(raw datatypes.JSON) ([]SizeBreakup, error) {
	if len(raw) == 0 {
		return []SizeBreakup{}, nil
	}
	var rows []SizeBreakup
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Offer is a single trade proposal owned by one business owner, optionally
// pre-bound to one buyer. OfferName is unique per owner (case-insensitive)
// among non-deleted offers; the uniqueness check runs in the creation
// transaction against lower(offer_name).
type Offer struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessOwnerID uint   `gorm:"column:business_owner_id;not null;index" json:"business_owner_id"`
	BuyerID         *uint  `gorm:"column:buyer_id;index" json:"buyer_id,omitempty"`
	OfferName       string `gorm:"column:offer_name;not null" json:"offer_name"`
	FromParty       string `gorm:"column:from_party" json:"from_party"`
	ToParty         string `gorm:"column:to_party" json:"to_party"`

	ProductName         string         `gorm:"column:product_name" json:"product_name"`
	SpeciesName         string         `gorm:"column:species_name" json:"species_name"`
	Brand               string         `gorm:"column:brand" json:"brand"`
	Origin              string         `gorm:"column:origin" json:"origin"`
	PlantApprovalNumber string         `gorm:"column:plant_approval_number" json:"plant_approval_number"`
	Quantity            float64        `gorm:"column:quantity" json:"quantity"`
	Tolerance           string         `gorm:"column:tolerance" json:"tolerance"`
	PaymentTerms        string         `gorm:"column:payment_terms" json:"payment_terms"`
	SizeBreakups        datatypes.JSON `gorm:"column:size_breakups;type:jsonb" json:"size_breakups"`
	GrandTotal          float64        `gorm:"column:grand_total" json:"grand_total"`
	ShipmentDate        *time.Time     `gorm:"column:shipment_date" json:"shipment_date,omitempty"`
	ValidityDate        *time.Time     `gorm:"column:validity_date" json:"validity_date,omitempty"`
	Remark              string         `gorm:"column:remark" json:"remark,omitempty"`

	Status    string         `gorm:"column:status;not null;default:open;index" json:"status"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Offer) TableName() string { return "offer" }

// IsActive reports whether the offer accepts further negotiation writes.
func (o *Offer) IsActive() bool {
	return o != nil && o.Status != OfferStatusClose && !o.DeletedAt.Valid
}
