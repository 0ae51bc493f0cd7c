package trade

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

// testTx opens the database named by TEST_POSTGRES_DSN and hands the test a
// transaction that is rolled back on cleanup, so runs never leak rows.
func testTx(t *testing.T) dbctx.Context {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	handle, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := handle.AutoMigrate(
		&types.Offer{},
		&types.OfferBuyer{},
		&types.OfferVersion{},
		&types.OfferResult{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	tx := handle.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return dbctx.Context{Ctx: context.Background(), Tx: tx}
}

// testHandle opens the database named by TEST_POSTGRES_DSN without wrapping
// the test in a transaction, for tests that need genuinely concurrent
// transactions. Callers clean their own rows.
func testHandle(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	handle, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := handle.AutoMigrate(
		&types.Offer{},
		&types.OfferBuyer{},
		&types.OfferVersion{},
		&types.OfferResult{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return handle
}

func testRepoLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestOfferRepo_NameExistsIsCaseInsensitive(t *testing.T) {
	dbc := testTx(t)
	repo := NewOfferRepo(dbc.Tx, testRepoLog(t))

	offers, err := repo.Create(dbc, []*types.Offer{
		{BusinessOwnerID: 901, OfferName: "Salmon Q3", Status: types.OfferStatusOpen},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := repo.NameExists(dbc, 901, "  SALMON q3 ", 0)
	if err != nil {
		t.Fatalf("NameExists: %v", err)
	}
	if !exists {
		t.Fatalf("expected case-insensitive match")
	}

	// Excluding the offer itself frees its own name for renames.
	exists, err = repo.NameExists(dbc, 901, "Salmon Q3", offers[0].ID)
	if err != nil {
		t.Fatalf("NameExists exclude: %v", err)
	}
	if exists {
		t.Fatalf("own name must not count against rename")
	}

	// Other owners are unaffected.
	exists, err = repo.NameExists(dbc, 902, "Salmon Q3", 0)
	if err != nil {
		t.Fatalf("NameExists other owner: %v", err)
	}
	if exists {
		t.Fatalf("name check leaked across owners")
	}
}

func TestOfferRepo_SoftDeleteHidesRow(t *testing.T) {
	dbc := testTx(t)
	repo := NewOfferRepo(dbc.Tx, testRepoLog(t))

	offers, err := repo.Create(dbc, []*types.Offer{
		{BusinessOwnerID: 901, OfferName: "Salmon Q3", Status: types.OfferStatusOpen},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SoftDeleteByID(dbc, offers[0].ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := repo.GetByID(dbc, offers[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("soft-deleted offer still readable: %+v", got)
	}
	exists, err := repo.NameExists(dbc, 901, "Salmon Q3", 0)
	if err != nil {
		t.Fatalf("NameExists: %v", err)
	}
	if exists {
		t.Fatalf("soft-deleted offer must free its name")
	}
}

func TestOfferBuyerRepo_LockRequiresTransaction(t *testing.T) {
	dbc := testTx(t)
	repo := NewOfferBuyerRepo(dbc.Tx, testRepoLog(t))

	if _, err := repo.LockByOfferAndBuyer(dbctx.Context{Ctx: context.Background()}, 1, 1); err == nil {
		t.Fatalf("lock outside a transaction must fail")
	}

	locked, err := repo.LockByOfferAndBuyer(dbc, 12345, 678)
	if err != nil {
		t.Fatalf("lock absent row: %v", err)
	}
	if locked != nil {
		t.Fatalf("expected nil for absent thread, got %+v", locked)
	}

	created, err := repo.Create(dbc, []*types.OfferBuyer{{
		ID: uuid.New(), OfferID: 12345, BuyerID: 678, OwnerID: 901, Status: types.ThreadStatusOpen,
	}})
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	locked, err = repo.LockByOfferAndBuyer(dbc, 12345, 678)
	if err != nil {
		t.Fatalf("lock existing: %v", err)
	}
	if locked == nil || locked.ID != created[0].ID {
		t.Fatalf("lock did not return the thread row: %+v", locked)
	}
}

func TestOfferVersionRepo_OrderingAndLastNo(t *testing.T) {
	dbc := testTx(t)
	repo := NewOfferVersionRepo(dbc.Tx, testRepoLog(t))

	last, err := repo.LastVersionNo(dbc, 500, 600)
	if err != nil {
		t.Fatalf("LastVersionNo empty: %v", err)
	}
	if last != 0 {
		t.Fatalf("expected 0 for fresh thread, got %d", last)
	}

	for n := 1; n <= 3; n++ {
		if _, err := repo.Create(dbc, []*types.OfferVersion{{
			OfferID: 500, BuyerID: 600, VersionNo: n, OfferName: "Salmon Q3", GrandTotal: float64(50000 + n),
		}}); err != nil {
			t.Fatalf("create v%d: %v", n, err)
		}
	}

	latest, err := repo.GetLatest(dbc, 500, 600)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest.VersionNo != 3 {
		t.Fatalf("expected latest v3, got %d", latest.VersionNo)
	}

	upTo, err := repo.ListUpTo(dbc, 500, 600, 2)
	if err != nil {
		t.Fatalf("ListUpTo: %v", err)
	}
	if len(upTo) != 2 || upTo[0].VersionNo != 1 || upTo[1].VersionNo != 2 {
		t.Fatalf("expected ascending 1..2, got %+v", upTo)
	}

	// The composite unique index refuses a duplicate allocation.
	if _, err := repo.Create(dbc, []*types.OfferVersion{{
		OfferID: 500, BuyerID: 600, VersionNo: 3, OfferName: "Salmon Q3",
	}}); err == nil {
		t.Fatalf("duplicate (offer, buyer, version_no) must violate the unique index")
	}
}

// Races several committed transactions through the lock-allocate-insert
// sequence and checks the thread's history comes out exactly 1..k.
func TestOfferVersionRepo_ConcurrentAllocationStaysGapless(t *testing.T) {
	handle := testHandle(t)
	log := testRepoLog(t)
	threadRepo := NewOfferBuyerRepo(handle, log)
	versionRepo := NewOfferVersionRepo(handle, log)

	const offerID, buyerID = 77001, 77002
	ctx := context.Background()
	t.Cleanup(func() {
		handle.Where("offer_id = ?", offerID).Delete(&types.OfferVersion{})
		handle.Where("offer_id = ?", offerID).Delete(&types.OfferBuyer{})
	})

	if _, err := threadRepo.Create(dbctx.Context{Ctx: ctx}, []*types.OfferBuyer{{
		ID: uuid.New(), OfferID: offerID, BuyerID: buyerID, OwnerID: 901, Status: types.ThreadStatusOpen,
	}}); err != nil {
		t.Fatalf("create thread: %v", err)
	}

	const writers = 6
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- handle.Transaction(func(tx *gorm.DB) error {
				dbc := dbctx.Context{Ctx: ctx, Tx: tx}
				if _, err := threadRepo.LockByOfferAndBuyer(dbc, offerID, buyerID); err != nil {
					return err
				}
				last, err := versionRepo.LastVersionNo(dbc, offerID, buyerID)
				if err != nil {
					return err
				}
				_, err = versionRepo.Create(dbc, []*types.OfferVersion{{
					OfferID: offerID, BuyerID: buyerID, VersionNo: last + 1, OfferName: "Salmon Q3",
				}})
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent allocation: %v", err)
		}
	}

	rows, err := versionRepo.ListUpTo(dbctx.Context{Ctx: ctx}, offerID, buyerID, 0)
	if err != nil {
		t.Fatalf("ListUpTo: %v", err)
	}
	if len(rows) != writers {
		t.Fatalf("expected %d versions, got %d", writers, len(rows))
	}
	for i, v := range rows {
		if v.VersionNo != i+1 {
			t.Fatalf("history has a gap or duplicate at position %d: %+v", i, rows)
		}
	}
}

func TestOfferResultRepo_ListByThread(t *testing.T) {
	dbc := testTx(t)
	repo := NewOfferResultRepo(dbc.Tx, testRepoLog(t))

	accepted := true
	if _, err := repo.Create(dbc, []*types.OfferResult{
		{OfferVersionID: 1, OfferID: 500, OwnerID: 901, BuyerID: 600, OfferName: "Salmon Q3", IsAccepted: &accepted, AcceptedBy: "buyer"},
		{OfferVersionID: 2, OfferID: 500, OwnerID: 901, BuyerID: 601, OfferName: "Salmon Q3", IsRejected: &accepted, RejectedBy: "buyer"},
	}); err != nil {
		t.Fatalf("create results: %v", err)
	}

	byOffer, err := repo.ListByOffer(dbc, 500)
	if err != nil {
		t.Fatalf("ListByOffer: %v", err)
	}
	if len(byOffer) != 2 {
		t.Fatalf("expected 2 results, got %d", len(byOffer))
	}

	byThread, err := repo.ListByThread(dbc, 500, 600)
	if err != nil {
		t.Fatalf("ListByThread: %v", err)
	}
	if len(byThread) != 1 || byThread[0].BuyerID != 600 {
		t.Fatalf("unexpected thread results: %+v", byThread)
	}
}
