package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tradebridge/tradebridge-backend/internal/data/repos"
	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type DraftProductInput struct {
	ProductName         string              `json:"productName"`
	SpeciesName         string              `json:"speciesName"`
	Brand               string              `json:"brand"`
	Origin              string              `json:"origin"`
	PlantApprovalNumber string              `json:"plantApprovalNumber"`
	Quantity            float64             `json:"quantity"`
	Tolerance           string              `json:"tolerance"`
	SizeBreakups        []types.SizeBreakup `json:"sizeBreakups"`
	GrandTotal          float64             `json:"grandTotal"`
}

type CreateDraftInput struct {
	DraftName    string              `json:"draftName"`
	FromParty    string              `json:"fromParty"`
	ToParty      string              `json:"toParty"`
	PaymentTerms string              `json:"paymentTerms"`
	ShipmentDate *time.Time          `json:"shipmentDate,omitempty"`
	ValidityDate *time.Time          `json:"validityDate,omitempty"`
	Remark       string              `json:"remark"`
	Products     []DraftProductInput `json:"products"`
}

type DraftService interface {
	CreateDraft(ctx context.Context, in CreateDraftInput) (*types.OfferDraft, error)
	GetDraft(ctx context.Context, draftID uint) (*types.OfferDraft, error)
	ListDrafts(ctx context.Context) ([]*types.OfferDraft, error)
}

type draftService struct {
	db        *gorm.DB
	draftRepo repos.OfferDraftRepo
	ownerRepo repos.BusinessOwnerRepo
	log       *logger.Logger
}

func NewDraftService(db *gorm.DB, draftRepo repos.OfferDraftRepo, ownerRepo repos.BusinessOwnerRepo, baseLog *logger.Logger) DraftService {
	return &draftService{
		db:        db,
		draftRepo: draftRepo,
		ownerRepo: ownerRepo,
		log:       baseLog.With("service", "DraftService"),
	}
}

func (s *draftService) CreateDraft(ctx context.Context, in CreateDraftInput) (*types.OfferDraft, error) {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.DraftName) == "" {
		return nil, apperr.Validation("missing_draft_name", "draftName is required")
	}
	if len(in.Products) == 0 {
		return nil, apperr.Validation("draft_empty", "a draft needs at least one product row")
	}

	products := make([]types.OfferDraftProduct, 0, len(in.Products))
	for i, p := range in.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			return nil, apperr.Validation("missing_product_name", "product row %d has no productName", i+1)
		}
		raw, err := types.MarshalSizeBreakups(p.SizeBreakups)
		if err != nil {
			return nil, apperr.Validation("invalid_size_breakups", "product row %d: %v", i+1, err)
		}
		products = append(products, types.OfferDraftProduct{
			ProductName:         strings.TrimSpace(p.ProductName),
			SpeciesName:         p.SpeciesName,
			Brand:               p.Brand,
			Origin:              p.Origin,
			PlantApprovalNumber: p.PlantApprovalNumber,
			Quantity:            p.Quantity,
			Tolerance:           p.Tolerance,
			SizeBreakups:        raw,
			GrandTotal:          p.GrandTotal,
		})
	}

	draft := &types.OfferDraft{
		BusinessOwnerID: actor.OwnerID(),
		DraftName:       strings.TrimSpace(in.DraftName),
		FromParty:       in.FromParty,
		ToParty:         in.ToParty,
		PaymentTerms:    in.PaymentTerms,
		ShipmentDate:    in.ShipmentDate,
		ValidityDate:    in.ValidityDate,
		Remark:          in.Remark,
		Products:        products,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := ensureActiveOwner(dbc, s.ownerRepo, actor.OwnerID()); err != nil {
			return err
		}
		_, err := s.draftRepo.Create(dbc, []*types.OfferDraft{draft})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("draft created", "draft_id", draft.ID, "owner_id", actor.OwnerID(), "products", len(products))
	return draft, nil
}

func (s *draftService) GetDraft(ctx context.Context, draftID uint) (*types.OfferDraft, error) {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return nil, err
	}
	draft, err := s.draftRepo.GetByID(dbctx.Context{Ctx: ctx}, draftID)
	if err != nil {
		return nil, err
	}
	// Draft absence is a bad request, not a 404: the draft id comes from
	// the caller's own prior create.
	if draft == nil || draft.BusinessOwnerID != actor.OwnerID() {
		return nil, apperr.Validation("draft_not_found", "draft %d not found", draftID)
	}
	return draft, nil
}

func (s *draftService) ListDrafts(ctx context.Context) ([]*types.OfferDraft, error) {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.draftRepo.ListByOwner(dbctx.Context{Ctx: ctx}, actor.OwnerID())
}
