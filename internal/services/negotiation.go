package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradebridge/tradebridge-backend/internal/data/repos"
	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

type SendOfferInput struct {
	OfferID  uint       `json:"offerId"`
	BuyerIDs []uint     `json:"buyerIds"`
	Terms    TermsDelta `json:"terms"`
}

type SendOfferResult struct {
	Versions        []*types.OfferVersion `json:"versions"`
	SkippedBuyerIDs []uint                `json:"skippedBuyerIds,omitempty"`
	EmailFailures   []EmailFailure        `json:"emailFailures,omitempty"`
}

type RespondInput struct {
	OfferID uint   `json:"offerId"`
	BuyerID uint   `json:"buyerId"`
	Action  string `json:"action"`
}

type NegotiationService interface {
	// SendOffer appends one version per addressed open thread, creating
	// missing threads lazily. Version numbers are allocated under the
	// thread row lock, so each thread's history stays gapless. Terminal
	// threads are skipped; if no thread accepts a version the call fails.
	SendOffer(ctx context.Context, in SendOfferInput) (*SendOfferResult, error)
	LatestVersion(ctx context.Context, offerID, buyerID uint) (*types.OfferVersion, error)
	// VersionHistory returns the thread timeline ascending; upTo <= 0
	// means the full history.
	VersionHistory(ctx context.Context, offerID, buyerID uint, upTo int) ([]*types.OfferVersion, error)
	// Respond records an accept/reject against the thread's latest
	// version and moves the thread to its terminal state.
	Respond(ctx context.Context, in RespondInput) (*types.OfferResult, error)
	ListResults(ctx context.Context, offerID uint) ([]*types.OfferResult, error)
	// ListThreadResults narrows the decision log to one (offer, buyer)
	// thread; buyers may only read their own.
	ListThreadResults(ctx context.Context, offerID, buyerID uint) ([]*types.OfferResult, error)
}

type negotiationService struct {
	db          *gorm.DB
	offerRepo   repos.OfferRepo
	ownerRepo   repos.BusinessOwnerRepo
	buyerRepo   repos.BuyerRepo
	threadRepo  repos.OfferBuyerRepo
	versionRepo repos.OfferVersionRepo
	resultRepo  repos.OfferResultRepo
	notifier    Notifier
	log         *logger.Logger
}

func NewNegotiationService(
	db *gorm.DB,
	offerRepo repos.OfferRepo,
	ownerRepo repos.BusinessOwnerRepo,
	buyerRepo repos.BuyerRepo,
	threadRepo repos.OfferBuyerRepo,
	versionRepo repos.OfferVersionRepo,
	resultRepo repos.OfferResultRepo,
	notifier Notifier,
	baseLog *logger.Logger,
) NegotiationService {
	return &negotiationService{
		db:          db,
		offerRepo:   offerRepo,
		ownerRepo:   ownerRepo,
		buyerRepo:   buyerRepo,
		threadRepo:  threadRepo,
		versionRepo: versionRepo,
		resultRepo:  resultRepo,
		notifier:    notifier,
		log:         baseLog.With("service", "NegotiationService"),
	}
}

func (s *negotiationService) SendOffer(ctx context.Context, in SendOfferInput) (*SendOfferResult, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}

	var (
		versions []*types.OfferVersion
		skipped  []uint
		emails   []OfferEmail
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		offer, err := s.offerRepo.GetByID(dbc, in.OfferID)
		if err != nil {
			return err
		}
		if err := actor.AuthorizeOffer(offer); err != nil {
			return err
		}
		if err := ensureActiveOffer(offer); err != nil {
			return err
		}
		owner, err := ensureActiveOwner(dbc, s.ownerRepo, offer.BusinessOwnerID)
		if err != nil {
			return err
		}

		buyerIDs := in.BuyerIDs
		if len(buyerIDs) == 0 && offer.BuyerID != nil {
			buyerIDs = []uint{*offer.BuyerID}
		}
		buyers, err := actor.ResolveBuyers(dbc, s.buyerRepo, buyerIDs)
		if err != nil {
			return err
		}

		versions, skipped, emails, err = fanOutVersions(dbc, s.threadRepo, s.versionRepo, offer, owner, buyers, in.Terms)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			return apperr.StateConflict("no_open_thread", "all addressed threads are already accepted or rejected")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Email dispatch only after the transaction committed; failures are
	// reported, never rolled back.
	failures := s.notifier.NotifyOfferSent(ctx, emails)
	s.log.Info("offer sent",
		"offer_id", in.OfferID,
		"versions", len(versions),
		"skipped", len(skipped),
		"email_failures", len(failures),
	)
	return &SendOfferResult{Versions: versions, SkippedBuyerIDs: skipped, EmailFailures: failures}, nil
}

// fanOutVersions appends the next version to every addressed thread,
// creating missing threads, and persists the batch. It must run inside
// the transaction that owns the thread row locks. Terminal threads are
// reported in skipped, not written to.
func fanOutVersions(
	dbc dbctx.Context,
	threadRepo repos.OfferBuyerRepo,
	versionRepo repos.OfferVersionRepo,
	offer *types.Offer,
	owner *types.BusinessOwner,
	buyers []*types.Buyer,
	delta TermsDelta,
) (versions []*types.OfferVersion, skipped []uint, emails []OfferEmail, err error) {
	for _, buyer := range buyers {
		thread, err := threadRepo.LockByOfferAndBuyer(dbc, offer.ID, buyer.ID)
		if err != nil {
			return nil, nil, nil, err
		}
		last := 0
		if thread == nil {
			// First contact with this buyer: the thread row is born
			// inside this transaction, so no other writer can race us
			// to version 1.
			rows, err := threadRepo.Create(dbc, []*types.OfferBuyer{{
				ID:      uuid.New(),
				OfferID: offer.ID,
				BuyerID: buyer.ID,
				OwnerID: offer.BusinessOwnerID,
				Status:  types.ThreadStatusOpen,
			}})
			if err != nil {
				return nil, nil, nil, err
			}
			thread = rows[0]
		} else {
			if thread.IsTerminal() {
				skipped = append(skipped, buyer.ID)
				continue
			}
			last, err = versionRepo.LastVersionNo(dbc, offer.ID, buyer.ID)
			if err != nil {
				return nil, nil, nil, err
			}
		}

		version, err := versionSnapshot(offer, buyer.ID, last+1, delta)
		if err != nil {
			return nil, nil, nil, err
		}
		versions = append(versions, version)
		emails = append(emails, OfferEmail{
			BuyerID:      buyer.ID,
			BuyerName:    buyer.ContactName,
			Email:        buyer.ContactEmail,
			OfferName:    offer.OfferName,
			OwnerCompany: owner.CompanyName,
			VersionNo:    version.VersionNo,
			GrandTotal:   version.GrandTotal,
		})
	}
	if len(versions) > 0 {
		if _, err := versionRepo.Create(dbc, versions); err != nil {
			return nil, nil, nil, err
		}
	}
	return versions, skipped, emails, nil
}

// authorizeThreadRead checks the actor may see the (offer, buyer) thread.
func (s *negotiationService) authorizeThreadRead(dbc dbctx.Context, actor Actor, offerID, buyerID uint) (*types.Offer, error) {
	offer, err := s.offerRepo.GetByID(dbc, offerID)
	if err != nil {
		return nil, err
	}
	if err := actor.AuthorizeOffer(offer); err != nil {
		return nil, err
	}
	if _, err := actor.ResolveBuyers(dbc, s.buyerRepo, []uint{buyerID}); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *negotiationService) LatestVersion(ctx context.Context, offerID, buyerID uint) (*types.OfferVersion, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.authorizeThreadRead(dbc, actor, offerID, buyerID); err != nil {
		return nil, err
	}
	return s.versionRepo.GetLatest(dbc, offerID, buyerID)
}

func (s *negotiationService) VersionHistory(ctx context.Context, offerID, buyerID uint, upTo int) ([]*types.OfferVersion, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.authorizeThreadRead(dbc, actor, offerID, buyerID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListUpTo(dbc, offerID, buyerID, upTo)
}

func (s *negotiationService) Respond(ctx context.Context, in RespondInput) (*types.OfferResult, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	if in.Action != types.ActionAccept && in.Action != types.ActionReject {
		return nil, apperr.Validation("invalid_action", "action must be %q or %q", types.ActionAccept, types.ActionReject)
	}

	var result *types.OfferResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		offer, err := s.offerRepo.GetByID(dbc, in.OfferID)
		if err != nil {
			return err
		}
		if err := actor.AuthorizeOffer(offer); err != nil {
			return err
		}
		if err := ensureActiveOffer(offer); err != nil {
			return err
		}
		owner, err := ensureActiveOwner(dbc, s.ownerRepo, offer.BusinessOwnerID)
		if err != nil {
			return err
		}
		buyers, err := actor.ResolveBuyers(dbc, s.buyerRepo, []uint{in.BuyerID})
		if err != nil {
			return err
		}
		buyer := buyers[0]

		thread, err := s.threadRepo.LockByOfferAndBuyer(dbc, offer.ID, buyer.ID)
		if err != nil {
			return err
		}
		if thread == nil {
			return apperr.Validation("thread_not_found", "no negotiation thread between offer %d and buyer %d", offer.ID, buyer.ID)
		}
		if thread.IsTerminal() {
			return apperr.StateConflict("thread_closed", "thread is already %s", thread.Status)
		}
		latest, err := s.versionRepo.GetLatest(dbc, offer.ID, buyer.ID)
		if err != nil {
			return err
		}
		if latest == nil {
			return apperr.StateConflict("thread_empty", "thread has no version to respond to")
		}

		row := &types.OfferResult{
			OfferVersionID:   latest.ID,
			OfferID:          offer.ID,
			OwnerID:          offer.BusinessOwnerID,
			BuyerID:          buyer.ID,
			OfferName:        offer.OfferName,
			OwnerCompanyName: owner.CompanyName,
			OwnerName:        owner.OwnerName,
			BuyerCompanyName: buyer.CompanyName,
			BuyerName:        buyer.ContactName,
		}
		threadStatus := types.ThreadStatusRejected
		flag := true
		if in.Action == types.ActionAccept {
			row.IsAccepted = &flag
			row.AcceptedBy = actor.Role()
			threadStatus = types.ThreadStatusAccepted
		} else {
			row.IsRejected = &flag
			row.RejectedBy = actor.Role()
		}

		if _, err := s.resultRepo.Create(dbc, []*types.OfferResult{row}); err != nil {
			return err
		}
		if err := s.threadRepo.UpdateStatus(dbc, thread.ID, threadStatus); err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("offer response recorded",
		"offer_id", in.OfferID,
		"buyer_id", in.BuyerID,
		"action", in.Action,
		"version_id", result.OfferVersionID,
	)
	return result, nil
}

func (s *negotiationService) ListResults(ctx context.Context, offerID uint) ([]*types.OfferResult, error) {
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
	return s.resultRepo.ListByOffer(dbc, offerID)
}

func (s *negotiationService) ListThreadResults(ctx context.Context, offerID, buyerID uint) ([]*types.OfferResult, error) {
	actor, err := ActorFor(principal.Get(ctx))
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.authorizeThreadRead(dbc, actor, offerID, buyerID); err != nil {
		return nil, err
	}
	return s.resultRepo.ListByThread(dbc, offerID, buyerID)
}
