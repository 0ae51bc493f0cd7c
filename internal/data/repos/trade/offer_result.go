package trade

import (
	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type OfferResultRepo interface {
	Create(dbc dbctx.Context, rows []*types.OfferResult) ([]*types.OfferResult, error)
	ListByOffer(dbc dbctx.Context, offerID uint) ([]*types.OfferResult, error)
	ListByThread(dbc dbctx.Context, offerID, buyerID uint) ([]*types.OfferResult, error)
}

type offerResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferResultRepo(db *gorm.DB, baseLog *logger.Logger) OfferResultRepo {
	return &offerResultRepo{db: db, log: baseLog.With("repo", "OfferResultRepo")}
}

func (r *offerResultRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *offerResultRepo) Create(dbc dbctx.Context, rows []*types.OfferResult) ([]*types.OfferResult, error) {
	if len(rows) == 0 {
		return []*types.OfferResult{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *offerResultRepo) ListByOffer(dbc dbctx.Context, offerID uint) ([]*types.OfferResult, error) {
	var out []*types.OfferResult
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("offer_id = ?", offerID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *offerResultRepo) ListByThread(dbc dbctx.Context, offerID, buyerID uint) ([]*types.OfferResult, error) {
	var out []*types.OfferResult
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("offer_id = ? AND buyer_id = ?", offerID, buyerID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
