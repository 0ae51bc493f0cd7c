package trade

import (
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type OfferRepo interface {
	Create(dbc dbctx.Context, rows []*types.Offer) ([]*types.Offer, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Offer, error)
	ListByOwner(dbc dbctx.Context, ownerID uint) ([]*types.Offer, error)
	CountByOwner(dbc dbctx.Context, ownerID uint) (int64, error)
	NameExists(dbc dbctx.Context, ownerID uint, offerName string, excludeID uint) (bool, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	SoftDeleteByID(dbc dbctx.Context, id uint) error
}

type offerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferRepo(db *gorm.DB, baseLog *logger.Logger) OfferRepo {
	return &offerRepo{db: db, log: baseLog.With("repo", "OfferRepo")}
}

func (r *offerRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *offerRepo) Create(dbc dbctx.Context, rows []*types.Offer) ([]*types.Offer, error) {
	if len(rows) == 0 {
		return []*types.Offer{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *offerRepo) GetByID(dbc dbctx.Context, id uint) (*types.Offer, error) {
	var out []*types.Offer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
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

func (r *offerRepo) ListByOwner(dbc dbctx.Context, ownerID uint) ([]*types.Offer, error) {
	var out []*types.Offer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("business_owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *offerRepo) CountByOwner(dbc dbctx.Context, ownerID uint) (int64, error) {
	var count int64
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Offer{}).
		Where("business_owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NameExists checks offer-name uniqueness case-insensitively among the
// owner's non-deleted offers. excludeID skips the offer being renamed.
func (r *offerRepo) NameExists(dbc dbctx.Context, ownerID uint, offerName string, excludeID uint) (bool, error) {
	q := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Offer{}).
		Where("business_owner_id = ? AND LOWER(offer_name) = ?", ownerID, strings.ToLower(strings.TrimSpace(offerName)))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *offerRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Offer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *offerRepo) SoftDeleteByID(dbc dbctx.Context, id uint) error {
	return r.handle(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Offer{}).Error
}
