package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tradebridge/tradebridge-backend/internal/data/repos"
	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

type RegisterBuyerInput struct {
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
}

type DirectoryService interface {
	RegisterBuyer(ctx context.Context, in RegisterBuyerInput) (*types.Buyer, error)
	GetBuyer(ctx context.Context, buyerID uint) (*types.Buyer, error)
	ListBuyers(ctx context.Context) ([]*types.Buyer, error)
	// CurrentOwner returns the business-owner row behind the principal.
	CurrentOwner(ctx context.Context) (*types.BusinessOwner, error)
}

type directoryService struct {
	db        *gorm.DB
	ownerRepo repos.BusinessOwnerRepo
	buyerRepo repos.BuyerRepo
	billing   BillingService
	log       *logger.Logger
}

func NewDirectoryService(
	db *gorm.DB,
	ownerRepo repos.BusinessOwnerRepo,
	buyerRepo repos.BuyerRepo,
	billing BillingService,
	baseLog *logger.Logger,
) DirectoryService {
	return &directoryService{
		db:        db,
		ownerRepo: ownerRepo,
		buyerRepo: buyerRepo,
		billing:   billing,
		log:       baseLog.With("service", "DirectoryService"),
	}
}

func (s *directoryService) RegisterBuyer(ctx context.Context, in RegisterBuyerInput) (*types.Buyer, error) {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, apperr.Validation("missing_company_name", "companyName is required")
	}
	if strings.TrimSpace(in.ContactEmail) == "" {
		return nil, apperr.Validation("missing_contact_email", "contactEmail is required")
	}

	buyer := &types.Buyer{
		BusinessOwnerID: actor.OwnerID(),
		CompanyName:     strings.TrimSpace(in.CompanyName),
		ContactName:     strings.TrimSpace(in.ContactName),
		ContactEmail:    strings.TrimSpace(in.ContactEmail),
		Phone:           in.Phone,
		Country:         in.Country,
		Status:          "active",
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := ensureActiveOwner(dbc, s.ownerRepo, actor.OwnerID()); err != nil {
			return err
		}
		if err := s.billing.CheckBuyerQuota(dbc, actor.OwnerID()); err != nil {
			return err
		}
		_, err := s.buyerRepo.Create(dbc, []*types.Buyer{buyer})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("buyer registered", "buyer_id", buyer.ID, "owner_id", actor.OwnerID())
	return buyer, nil
}

func (s *directoryService) GetBuyer(ctx context.Context, buyerID uint) (*types.Buyer, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	buyers, err := actor.ResolveBuyers(dbctx.Context{Ctx: ctx}, s.buyerRepo, []uint{buyerID})
	if err != nil {
		return nil, err
	}
	return buyers[0], nil
}

func (s *directoryService) ListBuyers(ctx context.Context) ([]*types.Buyer, error) {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.buyerRepo.ListByOwner(dbctx.Context{Ctx: ctx}, actor.OwnerID())
}

func (s *directoryService) CurrentOwner(ctx context.Context) (*types.BusinessOwner, error) {
	p := principal.Get(ctx)
	if p == nil || p.BusinessOwnerID == 0 {
		return nil, apperr.Authorization("unauthorized", "missing principal")
	}
	owner, err := s.ownerRepo.GetByID(dbctx.Context{Ctx: ctx}, p.BusinessOwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("owner_not_found", "business owner %d not found", p.BusinessOwnerID)
	}
	return owner, nil
}
