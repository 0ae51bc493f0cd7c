package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

type testEnv struct {
	db       *gorm.DB
	owners   *fakeOwnerRepo
	buyers   *fakeBuyerRepo
	offers   *fakeOfferRepo
	drafts   *fakeDraftRepo
	threads  *fakeThreadRepo
	versions *fakeVersionRepo
	results  *fakeResultRepo
	plans    *fakePlanRepo
	subs     *fakeSubRepo
	notifier *recordingNotifier

	billing     BillingService
	offerSvc    OfferService
	negotiation NegotiationService
	draftSvc    DraftService
	directory   DirectoryService
}

// newTestEnv seeds two active owners: owner 1 with buyers 1 and 2, owner 2
// with buyer 3.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db:       testDB(t),
		owners:   newFakeOwnerRepo(),
		buyers:   newFakeBuyerRepo(),
		offers:   newFakeOfferRepo(),
		drafts:   newFakeDraftRepo(),
		threads:  newFakeThreadRepo(),
		versions: newFakeVersionRepo(),
		results:  newFakeResultRepo(),
		plans:    newFakePlanRepo(),
		subs:     newFakeSubRepo(),
		notifier: &recordingNotifier{},
	}
	log := testLog(t)
	env.billing = NewBillingService(env.db, env.plans, env.subs, env.offers, env.buyers, log)
	env.offerSvc = NewOfferService(env.db, env.offers, env.drafts, env.owners, env.buyers, env.threads, env.versions, env.billing, env.notifier, log)
	env.negotiation = NewNegotiationService(env.db, env.offers, env.owners, env.buyers, env.threads, env.versions, env.results, env.notifier, log)
	env.draftSvc = NewDraftService(env.db, env.drafts, env.owners, log)
	env.directory = NewDirectoryService(env.db, env.owners, env.buyers, env.billing, log)

	dbc := dbctx.Context{Ctx: context.Background()}
	_, _ = env.owners.Create(dbc, []*types.BusinessOwner{
		{ID: 1, CompanyName: "Oceanic Exports", OwnerName: "Mira Calloway", Email: "mira@oceanic.test", Status: types.OwnerStatusActive},
		{ID: 2, CompanyName: "Highland Trading", OwnerName: "Jon Reyes", Email: "jon@highland.test", Status: types.OwnerStatusActive},
	})
	_, _ = env.buyers.Create(dbc, []*types.Buyer{
		{ID: 1, BusinessOwnerID: 1, CompanyName: "Nordsee Imports", ContactName: "Anke Voss", ContactEmail: "anke@nordsee.test", Status: "active"},
		{ID: 2, BusinessOwnerID: 1, CompanyName: "Porto Atlantico", ContactName: "Rui Faria", ContactEmail: "rui@portoatl.test", Status: "active"},
		{ID: 3, BusinessOwnerID: 2, CompanyName: "Kyushu Foods", ContactName: "Aya Tanaka", ContactEmail: "aya@kyushu.test", Status: "active"},
	})
	return env
}

func dbcBG() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }

func ownerCtx(ownerID uint, businessName string) context.Context {
	return principal.With(context.Background(), &principal.Principal{
		UserID:          uuid.New(),
		Role:            principal.RoleBusinessOwner,
		BusinessOwnerID: ownerID,
		BusinessName:    businessName,
	})
}

func buyerCtx(ownerID, buyerID uint, businessName string) context.Context {
	return principal.With(context.Background(), &principal.Principal{
		UserID:          uuid.New(),
		Role:            principal.RoleBuyer,
		BusinessOwnerID: ownerID,
		BuyerID:         buyerID,
		BusinessName:    businessName,
	})
}

// seedOffer inserts an open offer for owner 1 without going through the
// draft converter.
func (env *testEnv) seedOffer(t *testing.T, ownerID uint, name string) *types.Offer {
	t.Helper()
	offer := &types.Offer{
		BusinessOwnerID: ownerID,
		OfferName:       name,
		ProductName:     "Atlantic Salmon",
		Quantity:        1000,
		PaymentTerms:    "30% advance",
		GrandTotal:      52000,
		Status:          types.OfferStatusOpen,
	}
	if _, err := env.offers.Create(dbctx.Context{Ctx: context.Background()}, []*types.Offer{offer}); err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	return offer
}
