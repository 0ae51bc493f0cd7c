package trade

import (
	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type OfferVersionRepo interface {
	Create(dbc dbctx.Context, rows []*types.OfferVersion) ([]*types.OfferVersion, error)
	GetLatest(dbc dbctx.Context, offerID, buyerID uint) (*types.OfferVersion, error)
	// ListUpTo returns versions with version_no <= upTo in ascending order,
	// reconstructing the negotiation timeline up to that point.
	ListUpTo(dbc dbctx.Context, offerID, buyerID uint, upTo int) ([]*types.OfferVersion, error)
	// LastVersionNo returns 0 when the thread has no versions yet. Callers
	// allocating the next number must hold the thread row lock.
	LastVersionNo(dbc dbctx.Context, offerID, buyerID uint) (int, error)
}

type offerVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferVersionRepo(db *gorm.DB, baseLog *logger.Logger) OfferVersionRepo {
	return &offerVersionRepo{db: db, log: baseLog.With("repo", "OfferVersionRepo")}
}

func (r *offerVersionRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *offerVersionRepo) Create(dbc dbctx.Context, rows []*types.OfferVersion) ([]*types.OfferVersion, error) {
	if len(rows) == 0 {
		return []*types.OfferVersion{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *offerVersionRepo) GetLatest(dbc dbctx.Context, offerID, buyerID uint) (*types.OfferVersion, error) {
	var out []*types.OfferVersion
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("offer_id = ? AND buyer_id = ?", offerID, buyerID).
		Order("version_no DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *offerVersionRepo) ListUpTo(dbc dbctx.Context, offerID, buyerID uint, upTo int) ([]*types.OfferVersion, error) {
	var out []*types.OfferVersion
	q := r.handle(dbc).WithContext(dbc.Ctx).
		Where("offer_id = ? AND buyer_id = ?", offerID, buyerID)
	if upTo > 0 {
		q = q.Where("version_no <= ?", upTo)
	}
	if err := q.Order("version_no ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *offerVersionRepo) LastVersionNo(dbc dbctx.Context, offerID, buyerID uint) (int, error) {
	latest, err := r.GetLatest(dbc, offerID, buyerID)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.VersionNo, nil
}
