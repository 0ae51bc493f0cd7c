package services

import (
	"os"
	"path/filepath"
	"testing"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
)

const testCatalog = `
plans:
  - code: free
    name: Free
    price_cents: 0
    max_offers: 2
    max_buyers: 2
  - code: growth
    name: Growth
    price_cents: 9900
    currency: EUR
    max_offers: 0
    max_buyers: 0
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestSyncCatalog_UpsertsPlans(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(1, "Oceanic Exports")

	if err := env.billing.SyncCatalog(ctx, writeCatalog(t, testCatalog)); err != nil {
		t.Fatalf("SyncCatalog: %v", err)
	}
	plans, err := env.billing.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	growth, _ := env.plans.GetByCode(dbcBG(), "growth")
	if growth.Currency != "EUR" || growth.PriceCents != 9900 {
		t.Fatalf("plan fields not synced: %+v", growth)
	}
	free, _ := env.plans.GetByCode(dbcBG(), "free")
	if free.Currency != "USD" {
		t.Fatalf("default currency not applied: %+v", free)
	}

	// A second sync updates in place instead of duplicating.
	if err := env.billing.SyncCatalog(ctx, writeCatalog(t, testCatalog)); err != nil {
		t.Fatalf("re-sync: %v", err)
	}
	plans, _ = env.billing.ListPlans(ctx)
	if len(plans) != 2 {
		t.Fatalf("re-sync duplicated plans: %d", len(plans))
	}
}

func TestSyncCatalog_RejectsEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	if err := env.billing.SyncCatalog(ownerCtx(1, "Oceanic Exports"), writeCatalog(t, "plans: []\n")); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestSubscribe_SwitchCancelsPrevious(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(1, "Oceanic Exports")
	if err := env.billing.SyncCatalog(ctx, writeCatalog(t, testCatalog)); err != nil {
		t.Fatalf("SyncCatalog: %v", err)
	}

	first, err := env.billing.Subscribe(ctx, "free")
	if err != nil {
		t.Fatalf("Subscribe free: %v", err)
	}
	second, err := env.billing.Subscribe(ctx, "growth")
	if err != nil {
		t.Fatalf("Subscribe growth: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected a new subscription row")
	}
	for _, s := range env.subs.subs {
		if s.ID == first.ID && s.Status != types.SubscriptionStatusCanceled {
			t.Fatalf("previous subscription not canceled: %+v", s)
		}
	}

	sub, plan, err := env.billing.CurrentSubscription(ctx)
	if err != nil {
		t.Fatalf("CurrentSubscription: %v", err)
	}
	if sub == nil || plan == nil || plan.Code != "growth" {
		t.Fatalf("expected active growth subscription, got %+v / %+v", sub, plan)
	}
}

func TestSubscribe_SamePlanConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(1, "Oceanic Exports")
	if err := env.billing.SyncCatalog(ctx, writeCatalog(t, testCatalog)); err != nil {
		t.Fatalf("SyncCatalog: %v", err)
	}
	if _, err := env.billing.Subscribe(ctx, "free"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	_, err := env.billing.Subscribe(ctx, "free")
	if !apperr.IsKind(err, apperr.KindStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubscribe_UnknownPlan(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.billing.Subscribe(ownerCtx(1, "Oceanic Exports"), "platinum")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckBuyerQuota_DefaultTierApplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(1, "Oceanic Exports")
	if err := env.billing.SyncCatalog(ctx, writeCatalog(t, testCatalog)); err != nil {
		t.Fatalf("SyncCatalog: %v", err)
	}

	// Owner 1 already has 2 buyers and no subscription: the free tier's
	// max_buyers of 2 is exhausted.
	_, err := env.directory.RegisterBuyer(ctx, RegisterBuyerInput{
		CompanyName:  "Baltic Fresh",
		ContactName:  "Ola Nowak",
		ContactEmail: "ola@baltic.test",
	})
	if !apperr.IsKind(err, apperr.KindStateConflict) {
		t.Fatalf("expected quota conflict, got %v", err)
	}

	// An unlimited plan lifts the cap.
	if _, err := env.billing.Subscribe(ctx, "growth"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := env.directory.RegisterBuyer(ctx, RegisterBuyerInput{
		CompanyName:  "Baltic Fresh",
		ContactName:  "Ola Nowak",
		ContactEmail: "ola@baltic.test",
	}); err != nil {
		t.Fatalf("RegisterBuyer after upgrade: %v", err)
	}
}

func TestQuota_NoCatalogMeansNoLimits(t *testing.T) {
	env := newTestEnv(t)
	if err := env.billing.CheckOfferQuota(dbcBG(), 1); err != nil {
		t.Fatalf("missing catalog must not block: %v", err)
	}
}
