package billing

import (
	"time"

	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type SubscriptionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Subscription) ([]*types.Subscription, error)
	GetActiveByOwner(dbc dbctx.Context, ownerID uint) (*types.Subscription, error)
	UpdateStatus(dbc dbctx.Context, id uint, status string) error
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *subscriptionRepo) Create(dbc dbctx.Context, rows []*types.Subscription) ([]*types.Subscription, error) {
	if len(rows) == 0 {
		return []*types.Subscription{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *subscriptionRepo) GetActiveByOwner(dbc dbctx.Context, ownerID uint) (*types.Subscription, error) {
	var out []*types.Subscription
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("business_owner_id = ? AND status = ?", ownerID, types.SubscriptionStatusActive).
		Order("started_at DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *subscriptionRepo) UpdateStatus(dbc dbctx.Context, id uint, status string) error {
	return r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
