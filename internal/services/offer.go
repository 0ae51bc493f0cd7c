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
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

type CreateOfferInput struct {
	DraftID   uint       `json:"draftId"`
	OfferName string     `json:"offerName"`
	BuyerIDs  []uint     `json:"buyerIds"`
	Terms     TermsDelta `json:"terms"`
}

type CreateOfferResult struct {
	Offer         *types.Offer          `json:"offer"`
	Versions      []*types.OfferVersion `json:"versions"`
	EmailFailures []EmailFailure        `json:"emailFailures,omitempty"`
}

type UpdateOfferInput struct {
	OfferName *string    `json:"offerName,omitempty"`
	Terms     TermsDelta `json:"terms"`
}

type OfferService interface {
	// CreateOffer converts a draft into a live offer in one transaction:
	// ownership and activity guards, one-time draft consumption,
	// case-insensitive name uniqueness, plan quota, then one open thread
	// and its version-1 snapshot per resolved buyer. Buyer emails go out
	// after the commit; their failures ride along in the result.
	CreateOffer(ctx context.Context, in CreateOfferInput) (*CreateOfferResult, error)
	GetOffer(ctx context.Context, offerID uint) (*types.Offer, error)
	ListOffers(ctx context.Context) ([]*types.Offer, error)
	UpdateOffer(ctx context.Context, offerID uint, in UpdateOfferInput) (*types.Offer, error)
	CloseOffer(ctx context.Context, offerID uint) error
	ReopenOffer(ctx context.Context, offerID uint) error
	DeleteOffer(ctx context.Context, offerID uint) error
}

type offerService struct {
	db          *gorm.DB
	offerRepo   repos.OfferRepo
	draftRepo   repos.OfferDraftRepo
	ownerRepo   repos.BusinessOwnerRepo
	buyerRepo   repos.BuyerRepo
	threadRepo  repos.OfferBuyerRepo
	versionRepo repos.OfferVersionRepo
	billing     BillingService
	notifier    Notifier
	log         *logger.Logger
}

func NewOfferService(
	db *gorm.DB,
	offerRepo repos.OfferRepo,
	draftRepo repos.OfferDraftRepo,
	ownerRepo repos.BusinessOwnerRepo,
	buyerRepo repos.BuyerRepo,
	threadRepo repos.OfferBuyerRepo,
	versionRepo repos.OfferVersionRepo,
	billing BillingService,
	notifier Notifier,
	baseLog *logger.Logger,
) OfferService {
	return &offerService{
		db:          db,
		offerRepo:   offerRepo,
		draftRepo:   draftRepo,
		ownerRepo:   ownerRepo,
		buyerRepo:   buyerRepo,
		threadRepo:  threadRepo,
		versionRepo: versionRepo,
		billing:     billing,
		notifier:    notifier,
		log:         baseLog.With("service", "OfferService"),
	}
}

// ownerActorFrom is used by owner-only operations.
func ownerActorFrom(ctx context.Context) (*OwnerActor, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	owner, ok := actor.(*OwnerActor)
	if !ok {
		return nil, apperr.Authorization("owner_only", "only a business owner may perform this operation")
	}
	return owner, nil
}

func (s *offerService) CreateOffer(ctx context.Context, in CreateOfferInput) (*CreateOfferResult, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.OfferName)
	if name == "" {
		return nil, apperr.Validation("missing_offer_name", "offerName is required")
	}
	if in.DraftID == 0 {
		return nil, apperr.Validation("missing_draft_id", "draftId is required")
	}

	var (
		created  *types.Offer
		versions []*types.OfferVersion
		emails   []OfferEmail
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		owner, err := ensureActiveOwner(dbc, s.ownerRepo, actor.OwnerID())
		if err != nil {
			return err
		}

		draft, err := s.draftRepo.GetByID(dbc, in.DraftID)
		if err != nil {
			return err
		}
		// Draft absence reads as a bad request: the id comes from the
		// caller's own prior create, unlike offer lookups.
		if draft == nil || draft.BusinessOwnerID != actor.OwnerID() {
			return apperr.Validation("draft_not_found", "draft %d not found", in.DraftID)
		}
		if draft.ConsumedAt != nil {
			return apperr.StateConflict("draft_consumed", "draft %d was already converted", in.DraftID)
		}

		exists, err := s.offerRepo.NameExists(dbc, actor.OwnerID(), name, 0)
		if err != nil {
			return err
		}
		if exists {
			return apperr.StateConflict("duplicate_offer_name", "offer name %q is already in use", name)
		}

		if err := s.billing.CheckOfferQuota(dbc, actor.OwnerID()); err != nil {
			return err
		}

		offer, err := offerFromDraft(draft, name, in.Terms, actor.OwnerID())
		if err != nil {
			return err
		}
		buyers, err := actor.ResolveBuyers(dbc, s.buyerRepo, in.BuyerIDs)
		if err != nil {
			return err
		}
		if len(buyers) == 1 {
			offer.BuyerID = &buyers[0].ID
		}

		if _, err := s.offerRepo.Create(dbc, []*types.Offer{offer}); err != nil {
			return err
		}
		// A brand-new offer has no threads yet, so every buyer gets a
		// fresh thread with its version-1 snapshot.
		versions, _, emails, err = fanOutVersions(dbc, s.threadRepo, s.versionRepo, offer, owner, buyers, in.Terms)
		if err != nil {
			return err
		}
		if err := s.draftRepo.MarkConsumed(dbc, draft.ID, time.Now().UTC()); err != nil {
			return err
		}
		created = offer
		return nil
	})
	if err != nil {
		return nil, err
	}

	failures := s.notifier.NotifyOfferSent(ctx, emails)
	s.log.Info("offer created",
		"offer_id", created.ID,
		"owner_id", actor.OwnerID(),
		"draft_id", in.DraftID,
		"threads", len(versions),
		"email_failures", len(failures),
	)
	return &CreateOfferResult{Offer: created, Versions: versions, EmailFailures: failures}, nil
}

func (s *offerService) GetOffer(ctx context.Context, offerID uint) (*types.Offer, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	offer, err := s.offerRepo.GetByID(dbc, offerID)
	if err != nil {
		return nil, err
	}
	if err := actor.AuthorizeOffer(offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *offerService) ListOffers(ctx context.Context) ([]*types.Offer, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	return s.offerRepo.ListByOwner(dbctx.Context{Ctx: ctx}, actor.OwnerID())
}

func (s *offerService) UpdateOffer(ctx context.Context, offerID uint, in UpdateOfferInput) (*types.Offer, error) {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return nil, err
	}
	var updated *types.Offer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		offer, err := s.offerRepo.GetByID(dbc, offerID)
		if err != nil {
			return err
		}
		if err := actor.AuthorizeOffer(offer); err != nil {
			return err
		}
		if err := ensureActiveOffer(offer); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.OfferName != nil {
			name := strings.TrimSpace(*in.OfferName)
			if name == "" {
				return apperr.Validation("missing_offer_name", "offerName must not be empty")
			}
			exists, err := s.offerRepo.NameExists(dbc, actor.OwnerID(), name, offer.ID)
			if err != nil {
				return err
			}
			if exists {
				return apperr.StateConflict("duplicate_offer_name", "offer name %q is already in use", name)
			}
			updates["offer_name"] = name
		}
		applyTermsUpdates(updates, in.Terms)
		if len(updates) == 0 {
			return apperr.Validation("empty_update", "no fields to update")
		}
		if err := s.offerRepo.UpdateFields(dbc, offer.ID, updates); err != nil {
			return err
		}
		updated, err = s.offerRepo.GetByID(dbc, offer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyTermsUpdates translates set delta fields into column updates on the
// offer base. Version snapshots already written are untouched.
func applyTermsUpdates(updates map[string]interface{}, d TermsDelta) {
	if d.FromParty != nil {
		updates["from_party"] = *d.FromParty
	}
	if d.ToParty != nil {
		updates["to_party"] = *d.ToParty
	}
	if d.ProductName != nil {
		updates["product_name"] = *d.ProductName
	}
	if d.SpeciesName != nil {
		updates["species_name"] = *d.SpeciesName
	}
	if d.Brand != nil {
		updates["brand"] = *d.Brand
	}
	if d.Origin != nil {
		updates["origin"] = *d.Origin
	}
	if d.PlantApprovalNumber != nil {
		updates["plant_approval_number"] = *d.PlantApprovalNumber
	}
	if d.Quantity != nil {
		updates["quantity"] = *d.Quantity
	}
	if d.Tolerance != nil {
		updates["tolerance"] = *d.Tolerance
	}
	if d.PaymentTerms != nil {
		updates["payment_terms"] = *d.PaymentTerms
	}
	if d.SizeBreakups != nil {
		if raw, err := types.MarshalSizeBreakups(d.SizeBreakups); err == nil {
			updates["size_breakups"] = raw
		}
	}
	if d.GrandTotal != nil {
		updates["grand_total"] = *d.GrandTotal
	}
	if d.ShipmentDate != nil {
		updates["shipment_date"] = *d.ShipmentDate
	}
	if d.Remark != nil {
		updates["remark"] = *d.Remark
	}
}

func (s *offerService) CloseOffer(ctx context.Context, offerID uint) error {
	return s.setStatus(ctx, offerID, types.OfferStatusClose)
}

func (s *offerService) ReopenOffer(ctx context.Context, offerID uint) error {
	return s.setStatus(ctx, offerID, types.OfferStatusOpen)
}

func (s *offerService) setStatus(ctx context.Context, offerID uint, status string) error {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		offer, err := s.offerRepo.GetByID(dbc, offerID)
		if err != nil {
			return err
		}
		if err := actor.AuthorizeOffer(offer); err != nil {
			return err
		}
		if offer.Status == status {
			return apperr.StateConflict("offer_status_unchanged", "offer %d is already %s", offerID, status)
		}
		return s.offerRepo.UpdateFields(dbc, offer.ID, map[string]interface{}{"status": status})
	})
}

func (s *offerService) DeleteOffer(ctx context.Context, offerID uint) error {
	actor, err := ownerActorFrom(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		offer, err := s.offerRepo.GetByID(dbc, offerID)
		if err != nil {
			return err
		}
		if err := actor.AuthorizeOffer(offer); err != nil {
			return err
		}
		return s.offerRepo.SoftDeleteByID(dbc, offer.ID)
	})
}
