package trade

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OfferDraft is a reusable template of offer terms not yet turned into a
// live offer. A draft is consumed at most once; ConsumedAt marks it spent.
type OfferDraft struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessOwnerID uint       `gorm:"column:business_owner_id;not null;index" json:"business_owner_id"`
	DraftName       string     `gorm:"column:draft_name;not null" json:"draft_name"`
	FromParty       string     `gorm:"column:from_party" json:"from_party"`
	ToParty         string     `gorm:"column:to_party" json:"to_party"`
	PaymentTerms    string     `gorm:"column:payment_terms" json:"payment_terms"`
	ShipmentDate    *time.Time `gorm:"column:shipment_date" json:"shipment_date,omitempty"`
	ValidityDate    *time.Time `gorm:"column:validity_date" json:"validity_date,omitempty"`
	Remark          string     `gorm:"column:remark" json:"remark,omitempty"`
	ConsumedAt      *time.Time `gorm:"column:consumed_at" json:"consumed_at,omitempty"`

	Products []OfferDraftProduct `gorm:"foreignKey:OfferDraftID" json:"products,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OfferDraft) TableName() string { return "offer_draft" }

// OfferDraftProduct is one product line authored into a draft. The converter
// merges these with request-side overrides field by field (request wins).
type OfferDraftProduct struct {
	ID                  uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OfferDraftID        uint           `gorm:"column:offer_draft_id;not null;index" json:"offer_draft_id"`
	ProductName         string         `gorm:"column:product_name;not null" json:"product_name"`
	SpeciesName         string         `gorm:"column:species_name" json:"species_name"`
	Brand               string         `gorm:"column:brand" json:"brand"`
	Origin              string         `gorm:"column:origin" json:"origin"`
	PlantApprovalNumber string         `gorm:"column:plant_approval_number" json:"plant_approval_number"`
	Quantity            float64        `gorm:"column:quantity" json:"quantity"`
	Tolerance           string         `gorm:"column:tolerance" json:"tolerance"`
	SizeBreakups        datatypes.JSON `gorm:"column:size_breakups;type:jsonb" json:"size_breakups"`
	GrandTotal          float64        `gorm:"column:grand_total" json:"grand_total"`
	CreatedAt           time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (OfferDraftProduct) TableName() string { return "offer_draft_product" }
