package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/tradebridge/tradebridge-backend/internal/data/repos"
	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

// DefaultPlanCode is the tier applied to owners with no active
// subscription.
const DefaultPlanCode = "free"

type BillingService interface {
	// SyncCatalog loads the YAML plan catalog and upserts it by code.
	// Called once on boot.
	SyncCatalog(ctx context.Context, path string) error
	ListPlans(ctx context.Context) ([]*types.Plan, error)
	Subscribe(ctx context.Context, planCode string) (*types.Subscription, error)
	CurrentSubscription(ctx context.Context) (*types.Subscription, *types.Plan, error)

	// Quota checks run inside the caller's transaction.
	CheckOfferQuota(dbc dbctx.Context, ownerID uint) error
	CheckBuyerQuota(dbc dbctx.Context, ownerID uint) error
}

type planCatalog struct {
	Plans []planSpec `yaml:"plans"`
}

type planSpec struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	PriceCents  int    `yaml:"price_cents"`
	Currency    string `yaml:"currency"`
	MaxSeats    int    `yaml:"max_seats"`
	MaxProducts int    `yaml:"max_products"`
	MaxOffers   int    `yaml:"max_offers"`
	MaxBuyers   int    `yaml:"max_buyers"`
}

type billingService struct {
	db        *gorm.DB
	planRepo  repos.PlanRepo
	subRepo   repos.SubscriptionRepo
	offerRepo repos.OfferRepo
	buyerRepo repos.BuyerRepo
	log       *logger.Logger
}

func NewBillingService(
	db *gorm.DB,
	planRepo repos.PlanRepo,
	subRepo repos.SubscriptionRepo,
	offerRepo repos.OfferRepo,
	buyerRepo repos.BuyerRepo,
	baseLog *logger.Logger,
) BillingService {
	return &billingService{
		db:        db,
		planRepo:  planRepo,
		subRepo:   subRepo,
		offerRepo: offerRepo,
		buyerRepo: buyerRepo,
		log:       baseLog.With("service", "BillingService"),
	}
}

func (s *billingService) SyncCatalog(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plan catalog %s: %w", path, err)
	}
	var catalog planCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return fmt.Errorf("parse plan catalog %s: %w", path, err)
	}
	if len(catalog.Plans) == 0 {
		return fmt.Errorf("plan catalog %s contains no plans", path)
	}
	rows := make([]*types.Plan, 0, len(catalog.Plans))
	for _, p := range catalog.Plans {
		if p.Code == "" {
			return fmt.Errorf("plan catalog %s: plan without code", path)
		}
		currency := p.Currency
		if currency == "" {
			currency = "USD"
		}
		rows = append(rows, &types.Plan{
			Code:        p.Code,
			Name:        p.Name,
			PriceCents:  p.PriceCents,
			Currency:    currency,
			MaxSeats:    p.MaxSeats,
			MaxProducts: p.MaxProducts,
			MaxOffers:   p.MaxOffers,
			MaxBuyers:   p.MaxBuyers,
		})
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.planRepo.UpsertByCode(dbc, rows); err != nil {
		return fmt.Errorf("sync plan catalog: %w", err)
	}
	s.log.Info("plan catalog synced", "path", path, "plans", len(rows))
	return nil
}

func (s *billingService) ListPlans(ctx context.Context) ([]*types.Plan, error) {
	return s.planRepo.List(dbctx.Context{Ctx: ctx})
}

func (s *billingService) Subscribe(ctx context.Context, planCode string) (*types.Subscription, error) {
	p := principal.Get(ctx)
	if p == nil || !p.IsOwner() {
		return nil, apperr.Authorization("owner_only", "only a business owner may subscribe")
	}
	if planCode == "" {
		return nil, apperr.Validation("missing_plan_code", "planCode is required")
	}
	var created *types.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		plan, err := s.planRepo.GetByCode(dbc, planCode)
		if err != nil {
			return err
		}
		if plan == nil {
			return apperr.NotFound("plan_not_found", "plan %q not found", planCode)
		}
		// One active subscription per owner: the previous one is
		// canceled in the same transaction.
		current, err := s.subRepo.GetActiveByOwner(dbc, p.BusinessOwnerID)
		if err != nil {
			return err
		}
		if current != nil {
			if current.PlanID == plan.ID {
				return apperr.StateConflict("already_subscribed", "owner already subscribed to plan %q", planCode)
			}
			if err := s.subRepo.UpdateStatus(dbc, current.ID, types.SubscriptionStatusCanceled); err != nil {
				return err
			}
		}
		rows, err := s.subRepo.Create(dbc, []*types.Subscription{{
			BusinessOwnerID: p.BusinessOwnerID,
			PlanID:          plan.ID,
			Status:          types.SubscriptionStatusActive,
			StartedAt:       time.Now().UTC(),
		}})
		if err != nil {
			return err
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *billingService) CurrentSubscription(ctx context.Context) (*types.Subscription, *types.Plan, error) {
	p := principal.Get(ctx)
	if p == nil || p.BusinessOwnerID == 0 {
		return nil, nil, apperr.Authorization("unauthorized", "missing principal")
	}
	dbc := dbctx.Context{Ctx: ctx}
	sub, err := s.subRepo.GetActiveByOwner(dbc, p.BusinessOwnerID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		plan, err := s.planRepo.GetByCode(dbc, DefaultPlanCode)
		if err != nil {
			return nil, nil, err
		}
		return nil, plan, nil
	}
	plan, err := s.planRepo.GetByID(dbc, sub.PlanID)
	if err != nil {
		return nil, nil, err
	}
	return sub, plan, nil
}

// effectivePlan resolves the plan the limit guard enforces: the active
// subscription's plan, else the default tier, else nil (no limits).
func (s *billingService) effectivePlan(dbc dbctx.Context, ownerID uint) (*types.Plan, error) {
	sub, err := s.subRepo.GetActiveByOwner(dbc, ownerID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		if sub.ExpiresAt == nil || sub.ExpiresAt.After(time.Now().UTC()) {
			return s.planRepo.GetByID(dbc, sub.PlanID)
		}
	}
	return s.planRepo.GetByCode(dbc, DefaultPlanCode)
}

func (s *billingService) CheckOfferQuota(dbc dbctx.Context, ownerID uint) error {
	plan, err := s.effectivePlan(dbc, ownerID)
	if err != nil {
		return err
	}
	if plan == nil || plan.MaxOffers <= 0 {
		return nil
	}
	count, err := s.offerRepo.CountByOwner(dbc, ownerID)
	if err != nil {
		return err
	}
	if count >= int64(plan.MaxOffers) {
		return apperr.StateConflict("offer_limit_reached", "plan %q allows at most %d offers", plan.Code, plan.MaxOffers)
	}
	return nil
}

func (s *billingService) CheckBuyerQuota(dbc dbctx.Context, ownerID uint) error {
	plan, err := s.effectivePlan(dbc, ownerID)
	if err != nil {
		return err
	}
	if plan == nil || plan.MaxBuyers <= 0 {
		return nil
	}
	count, err := s.buyerRepo.CountByOwner(dbc, ownerID)
	if err != nil {
		return err
	}
	if count >= int64(plan.MaxBuyers) {
		return apperr.StateConflict("buyer_limit_reached", "plan %q allows at most %d buyers", plan.Code, plan.MaxBuyers)
	}
	return nil
}
