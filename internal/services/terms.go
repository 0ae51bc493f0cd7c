package services

import (
	"strings"
	"time"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
)

// TermsDelta carries request-side term changes. Nil fields mean "keep the
// current value"; set fields win over whatever they overlay (a draft row on
// conversion, the offer base on a counter-offer).
type TermsDelta struct {
	FromParty           *string             `json:"fromParty,omitempty"`
	ToParty             *string             `json:"toParty,omitempty"`
	ProductName         *string             `json:"productName,omitempty"`
	SpeciesName         *string             `json:"speciesName,omitempty"`
	Brand               *string             `json:"brand,omitempty"`
	Origin              *string             `json:"origin,omitempty"`
	PlantApprovalNumber *string             `json:"plantApprovalNumber,omitempty"`
	Quantity            *float64            `json:"quantity,omitempty"`
	Tolerance           *string             `json:"tolerance,omitempty"`
	PaymentTerms        *string             `json:"paymentTerms,omitempty"`
	SizeBreakups        []types.SizeBreakup `json:"sizeBreakups,omitempty"`
	GrandTotal          *float64            `json:"grandTotal,omitempty"`
	ShipmentDate        *time.Time          `json:"shipmentDate,omitempty"`
	Remark              *string             `json:"remark,omitempty"`
}

func overlayString(base string, override *string) string {
	if override != nil {
		return *override
	}
	return base
}

func overlayFloat(base float64, override *float64) float64 {
	if override != nil {
		return *override
	}
	return base
}

func overlayTime(base, override *time.Time) *time.Time {
	if override != nil {
		return override
	}
	return base
}

// offerFromDraft builds the live offer from a draft header plus its first
// product row, then applies the request delta on top (request wins field
// by field).
func offerFromDraft(draft *types.OfferDraft, offerName string, delta TermsDelta, ownerID uint) (*types.Offer, error) {
	if len(draft.Products) == 0 {
		return nil, apperr.Validation("draft_empty", "draft %d has no product rows", draft.ID)
	}
	p := draft.Products[0]

	sizeRaw := p.SizeBreakups
	if delta.SizeBreakups != nil {
		raw, err := types.MarshalSizeBreakups(delta.SizeBreakups)
		if err != nil {
			return nil, apperr.Validation("invalid_size_breakups", "size breakups are not serializable: %v", err)
		}
		sizeRaw = raw
	}

	return &types.Offer{
		BusinessOwnerID:     ownerID,
		OfferName:           strings.TrimSpace(offerName),
		FromParty:           overlayString(draft.FromParty, delta.FromParty),
		ToParty:             overlayString(draft.ToParty, delta.ToParty),
		ProductName:         overlayString(p.ProductName, delta.ProductName),
		SpeciesName:         overlayString(p.SpeciesName, delta.SpeciesName),
		Brand:               overlayString(p.Brand, delta.Brand),
		Origin:              overlayString(p.Origin, delta.Origin),
		PlantApprovalNumber: overlayString(p.PlantApprovalNumber, delta.PlantApprovalNumber),
		Quantity:            overlayFloat(p.Quantity, delta.Quantity),
		Tolerance:           overlayString(p.Tolerance, delta.Tolerance),
		PaymentTerms:        overlayString(draft.PaymentTerms, delta.PaymentTerms),
		SizeBreakups:        sizeRaw,
		GrandTotal:          overlayFloat(p.GrandTotal, delta.GrandTotal),
		ShipmentDate:        overlayTime(draft.ShipmentDate, delta.ShipmentDate),
		ValidityDate:        draft.ValidityDate,
		Remark:              overlayString(draft.Remark, delta.Remark),
		Status:              types.OfferStatusOpen,
	}, nil
}

// versionSnapshot freezes the offer terms plus a delta into one immutable
// version row for a thread.
func versionSnapshot(offer *types.Offer, buyerID uint, versionNo int, delta TermsDelta) (*types.OfferVersion, error) {
	sizeRaw := offer.SizeBreakups
	if delta.SizeBreakups != nil {
		raw, err := types.MarshalSizeBreakups(delta.SizeBreakups)
		if err != nil {
			return nil, apperr.Validation("invalid_size_breakups", "size breakups are not serializable: %v", err)
		}
		sizeRaw = raw
	}
	return &types.OfferVersion{
		OfferID:             offer.ID,
		BuyerID:             buyerID,
		VersionNo:           versionNo,
		OfferName:           offer.OfferName,
		FromParty:           overlayString(offer.FromParty, delta.FromParty),
		ToParty:             overlayString(offer.ToParty, delta.ToParty),
		ProductName:         overlayString(offer.ProductName, delta.ProductName),
		SpeciesName:         overlayString(offer.SpeciesName, delta.SpeciesName),
		Brand:               overlayString(offer.Brand, delta.Brand),
		PlantApprovalNumber: overlayString(offer.PlantApprovalNumber, delta.PlantApprovalNumber),
		Quantity:            overlayFloat(offer.Quantity, delta.Quantity),
		Tolerance:           overlayString(offer.Tolerance, delta.Tolerance),
		PaymentTerms:        overlayString(offer.PaymentTerms, delta.PaymentTerms),
		SizeBreakups:        sizeRaw,
		GrandTotal:          overlayFloat(offer.GrandTotal, delta.GrandTotal),
		ShipmentDate:        overlayTime(offer.ShipmentDate, delta.ShipmentDate),
		Remark:              overlayString(offer.Remark, delta.Remark),
		Status:              types.OfferStatusOpen,
	}, nil
}
