package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

// testDB opens a throwaway in-memory handle. The fakes below hold the data;
// the handle only provides transaction scoping for the services under test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	handle, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return handle
}

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

type fakeOwnerRepo struct {
	owners map[uint]*types.BusinessOwner
}

func newFakeOwnerRepo() *fakeOwnerRepo {
	return &fakeOwnerRepo{owners: map[uint]*types.BusinessOwner{}}
}

func (r *fakeOwnerRepo) Create(_ dbctx.Context, rows []*types.BusinessOwner) ([]*types.BusinessOwner, error) {
	for _, o := range rows {
		if o.ID == 0 {
			o.ID = uint(len(r.owners) + 1)
		}
		r.owners[o.ID] = o
	}
	return rows, nil
}

func (r *fakeOwnerRepo) GetByIDs(_ dbctx.Context, ids []uint) ([]*types.BusinessOwner, error) {
	var out []*types.BusinessOwner
	for _, id := range ids {
		if o, ok := r.owners[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOwnerRepo) GetByID(dbc dbctx.Context, id uint) (*types.BusinessOwner, error) {
	rows, _ := r.GetByIDs(dbc, []uint{id})
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

type fakeBuyerRepo struct {
	buyers map[uint]*types.Buyer
	nextID uint
}

func newFakeBuyerRepo() *fakeBuyerRepo {
	return &fakeBuyerRepo{buyers: map[uint]*types.Buyer{}, nextID: 1}
}

func (r *fakeBuyerRepo) Create(_ dbctx.Context, rows []*types.Buyer) ([]*types.Buyer, error) {
	for _, b := range rows {
		if b.ID == 0 {
			b.ID = r.nextID
			r.nextID++
		} else if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
		r.buyers[b.ID] = b
	}
	return rows, nil
}

func (r *fakeBuyerRepo) GetByIDs(_ dbctx.Context, ids []uint) ([]*types.Buyer, error) {
	var out []*types.Buyer
	for _, id := range ids {
		if b, ok := r.buyers[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBuyerRepo) GetByID(dbc dbctx.Context, id uint) (*types.Buyer, error) {
	rows, _ := r.GetByIDs(dbc, []uint{id})
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fakeBuyerRepo) ListByOwner(_ dbctx.Context, ownerID uint) ([]*types.Buyer, error) {
	var out []*types.Buyer
	for _, b := range r.buyers {
		if b.BusinessOwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBuyerRepo) CountByOwner(dbc dbctx.Context, ownerID uint) (int64, error) {
	rows, _ := r.ListByOwner(dbc, ownerID)
	return int64(len(rows)), nil
}

type fakeOfferRepo struct {
	offers map[uint]*types.Offer
	nextID uint
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: map[uint]*types.Offer{}, nextID: 1}
}

func (r *fakeOfferRepo) Create(_ dbctx.Context, rows []*types.Offer) ([]*types.Offer, error) {
	for _, o := range rows {
		if o.ID == 0 {
			o.ID = r.nextID
			r.nextID++
		} else if o.ID >= r.nextID {
			r.nextID = o.ID + 1
		}
		r.offers[o.ID] = o
	}
	return rows, nil
}

func (r *fakeOfferRepo) GetByID(_ dbctx.Context, id uint) (*types.Offer, error) {
	o, ok := r.offers[id]
	if !ok || o.DeletedAt.Valid {
		return nil, nil
	}
	return o, nil
}

func (r *fakeOfferRepo) ListByOwner(_ dbctx.Context, ownerID uint) ([]*types.Offer, error) {
	var out []*types.Offer
	for _, o := range r.offers {
		if o.BusinessOwnerID == ownerID && !o.DeletedAt.Valid {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) CountByOwner(dbc dbctx.Context, ownerID uint) (int64, error) {
	rows, _ := r.ListByOwner(dbc, ownerID)
	return int64(len(rows)), nil
}

func (r *fakeOfferRepo) NameExists(_ dbctx.Context, ownerID uint, offerName string, excludeID uint) (bool, error) {
	want := strings.ToLower(strings.TrimSpace(offerName))
	for _, o := range r.offers {
		if o.DeletedAt.Valid || o.BusinessOwnerID != ownerID || o.ID == excludeID {
			continue
		}
		if strings.ToLower(o.OfferName) == want {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOfferRepo) UpdateFields(_ dbctx.Context, id uint, updates map[string]interface{}) error {
	o, ok := r.offers[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "offer_name":
			o.OfferName = v.(string)
		case "status":
			o.Status = v.(string)
		case "grand_total":
			o.GrandTotal = v.(float64)
		case "quantity":
			o.Quantity = v.(float64)
		case "product_name":
			o.ProductName = v.(string)
		case "payment_terms":
			o.PaymentTerms = v.(string)
		case "remark":
			o.Remark = v.(string)
		}
	}
	return nil
}

func (r *fakeOfferRepo) SoftDeleteByID(_ dbctx.Context, id uint) error {
	if o, ok := r.offers[id]; ok {
		o.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
	}
	return nil
}

type fakeDraftRepo struct {
	drafts map[uint]*types.OfferDraft
	nextID uint
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: map[uint]*types.OfferDraft{}, nextID: 1}
}

func (r *fakeDraftRepo) Create(_ dbctx.Context, rows []*types.OfferDraft) ([]*types.OfferDraft, error) {
	for _, d := range rows {
		if d.ID == 0 {
			d.ID = r.nextID
			r.nextID++
		} else if d.ID >= r.nextID {
			r.nextID = d.ID + 1
		}
		r.drafts[d.ID] = d
	}
	return rows, nil
}

func (r *fakeDraftRepo) GetByID(_ dbctx.Context, id uint) (*types.OfferDraft, error) {
	d, ok := r.drafts[id]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (r *fakeDraftRepo) ListByOwner(_ dbctx.Context, ownerID uint) ([]*types.OfferDraft, error) {
	var out []*types.OfferDraft
	for _, d := range r.drafts {
		if d.BusinessOwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDraftRepo) MarkConsumed(_ dbctx.Context, id uint, at time.Time) error {
	if d, ok := r.drafts[id]; ok {
		d.ConsumedAt = &at
	}
	return nil
}

type fakeThreadRepo struct {
	threads map[uuid.UUID]*types.OfferBuyer
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{threads: map[uuid.UUID]*types.OfferBuyer{}}
}

func (r *fakeThreadRepo) Create(_ dbctx.Context, rows []*types.OfferBuyer) ([]*types.OfferBuyer, error) {
	for _, th := range rows {
		r.threads[th.ID] = th
	}
	return rows, nil
}

func (r *fakeThreadRepo) GetByOfferAndBuyers(_ dbctx.Context, offerID uint, buyerIDs []uint) ([]*types.OfferBuyer, error) {
	var out []*types.OfferBuyer
	for _, th := range r.threads {
		if th.OfferID != offerID {
			continue
		}
		for _, id := range buyerIDs {
			if th.BuyerID == id {
				out = append(out, th)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeThreadRepo) LockByOfferAndBuyer(_ dbctx.Context, offerID, buyerID uint) (*types.OfferBuyer, error) {
	for _, th := range r.threads {
		if th.OfferID == offerID && th.BuyerID == buyerID {
			return th, nil
		}
	}
	return nil, nil
}

func (r *fakeThreadRepo) UpdateStatus(_ dbctx.Context, id uuid.UUID, status string) error {
	if th, ok := r.threads[id]; ok {
		th.Status = status
	}
	return nil
}

type fakeVersionRepo struct {
	versions []*types.OfferVersion
	nextID   uint
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{nextID: 1}
}

func (r *fakeVersionRepo) Create(_ dbctx.Context, rows []*types.OfferVersion) ([]*types.OfferVersion, error) {
	for _, v := range rows {
		if v.ID == 0 {
			v.ID = r.nextID
			r.nextID++
		}
		r.versions = append(r.versions, v)
	}
	return rows, nil
}

func (r *fakeVersionRepo) GetLatest(_ dbctx.Context, offerID, buyerID uint) (*types.OfferVersion, error) {
	var latest *types.OfferVersion
	for _, v := range r.versions {
		if v.OfferID == offerID && v.BuyerID == buyerID {
			if latest == nil || v.VersionNo > latest.VersionNo {
				latest = v
			}
		}
	}
	return latest, nil
}

func (r *fakeVersionRepo) ListUpTo(_ dbctx.Context, offerID, buyerID uint, upTo int) ([]*types.OfferVersion, error) {
	var out []*types.OfferVersion
	for _, v := range r.versions {
		if v.OfferID == offerID && v.BuyerID == buyerID && (upTo <= 0 || v.VersionNo <= upTo) {
			out = append(out, v)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].VersionNo < out[i].VersionNo {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) LastVersionNo(dbc dbctx.Context, offerID, buyerID uint) (int, error) {
	latest, _ := r.GetLatest(dbc, offerID, buyerID)
	if latest == nil {
		return 0, nil
	}
	return latest.VersionNo, nil
}

type fakeResultRepo struct {
	results []*types.OfferResult
	nextID  uint
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{nextID: 1}
}

func (r *fakeResultRepo) Create(_ dbctx.Context, rows []*types.OfferResult) ([]*types.OfferResult, error) {
	for _, res := range rows {
		if res.ID == 0 {
			res.ID = r.nextID
			r.nextID++
		}
		r.results = append(r.results, res)
	}
	return rows, nil
}

func (r *fakeResultRepo) ListByOffer(_ dbctx.Context, offerID uint) ([]*types.OfferResult, error) {
	var out []*types.OfferResult
	for _, res := range r.results {
		if res.OfferID == offerID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeResultRepo) ListByThread(_ dbctx.Context, offerID, buyerID uint) ([]*types.OfferResult, error) {
	var out []*types.OfferResult
	for _, res := range r.results {
		if res.OfferID == offerID && res.BuyerID == buyerID {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakePlanRepo struct {
	plans  map[string]*types.Plan
	nextID uint
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*types.Plan{}, nextID: 1}
}

func (r *fakePlanRepo) UpsertByCode(_ dbctx.Context, rows []*types.Plan) error {
	for _, p := range rows {
		if existing, ok := r.plans[p.Code]; ok {
			p.ID = existing.ID
		} else {
			p.ID = r.nextID
			r.nextID++
		}
		r.plans[p.Code] = p
	}
	return nil
}

func (r *fakePlanRepo) GetByID(_ dbctx.Context, id uint) (*types.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) GetByCode(_ dbctx.Context, code string) (*types.Plan, error) {
	p, ok := r.plans[code]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakePlanRepo) List(_ dbctx.Context) ([]*types.Plan, error) {
	var out []*types.Plan
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

type fakeSubRepo struct {
	subs   []*types.Subscription
	nextID uint
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{nextID: 1}
}

func (r *fakeSubRepo) Create(_ dbctx.Context, rows []*types.Subscription) ([]*types.Subscription, error) {
	for _, s := range rows {
		if s.ID == 0 {
			s.ID = r.nextID
			r.nextID++
		}
		r.subs = append(r.subs, s)
	}
	return rows, nil
}

func (r *fakeSubRepo) GetActiveByOwner(_ dbctx.Context, ownerID uint) (*types.Subscription, error) {
	var latest *types.Subscription
	for _, s := range r.subs {
		if s.BusinessOwnerID == ownerID && s.Status == types.SubscriptionStatusActive {
			if latest == nil || s.StartedAt.After(latest.StartedAt) {
				latest = s
			}
		}
	}
	return latest, nil
}

func (r *fakeSubRepo) UpdateStatus(_ dbctx.Context, id uint, status string) error {
	for _, s := range r.subs {
		if s.ID == id {
			s.Status = status
		}
	}
	return nil
}

// recordingNotifier captures post-commit dispatches.
type recordingNotifier struct {
	sent     [][]OfferEmail
	failures []EmailFailure
}

func (n *recordingNotifier) NotifyOfferSent(_ context.Context, emails []OfferEmail) []EmailFailure {
	n.sent = append(n.sent, emails)
	return n.failures
}
