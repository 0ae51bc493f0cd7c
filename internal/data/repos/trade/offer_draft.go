package trade

import (
	"time"

	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type OfferDraftRepo interface {
	Create(dbc dbctx.Context, rows []*types.OfferDraft) ([]*types.OfferDraft, error)
	GetByID(dbc dbctx.Context, id uint) (*types.OfferDraft, error)
	ListByOwner(dbc dbctx.Context, ownerID uint) ([]*types.OfferDraft, error)
	MarkConsumed(dbc dbctx.Context, id uint, at time.Time) error
}

type offerDraftRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferDraftRepo(db *gorm.DB, baseLog *logger.Logger) OfferDraftRepo {
	return &offerDraftRepo{db: db, log: baseLog.With("repo", "OfferDraftRepo")}
}

func (r *offerDraftRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *offerDraftRepo) Create(dbc dbctx.Context, rows []*types.OfferDraft) ([]*types.OfferDraft, error) {
	if len(rows) == 0 {
		return []*types.OfferDraft{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *offerDraftRepo) GetByID(dbc dbctx.Context, id uint) (*types.OfferDraft, error) {
	var out []*types.OfferDraft
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Preload("Products").
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *offerDraftRepo) ListByOwner(dbc dbctx.Context, ownerID uint) ([]*types.OfferDraft, error) {
	var out []*types.OfferDraft
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Preload("Products").
		Where("business_owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *offerDraftRepo) MarkConsumed(dbc dbctx.Context, id uint, at time.Time) error {
	return r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.OfferDraft{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"consumed_at": at,
			"updated_at":  time.Now().UTC(),
		}).Error
}
