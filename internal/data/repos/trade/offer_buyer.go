package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type OfferBuyerRepo interface {
	Create(dbc dbctx.Context, rows []*types.OfferBuyer) ([]*types.OfferBuyer, error)
	GetByOfferAndBuyers(dbc dbctx.Context, offerID uint, buyerIDs []uint) ([]*types.OfferBuyer, error)
	// LockByOfferAndBuyer takes the thread row FOR UPDATE. It requires a
	// transaction: the lock is what serializes version-number allocation.
	LockByOfferAndBuyer(dbc dbctx.Context, offerID, buyerID uint) (*types.OfferBuyer, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
}

type offerBuyerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferBuyerRepo(db *gorm.DB, baseLog *logger.Logger) OfferBuyerRepo {
	return &offerBuyerRepo{db: db, log: baseLog.With("repo", "OfferBuyerRepo")}
}

func (r *offerBuyerRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *offerBuyerRepo) Create(dbc dbctx.Context, rows []*types.OfferBuyer) ([]*types.OfferBuyer, error) {
	if len(rows) == 0 {
		return []*types.OfferBuyer{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *offerBuyerRepo) GetByOfferAndBuyers(dbc dbctx.Context, offerID uint, buyerIDs []uint) ([]*types.OfferBuyer, error) {
	var out []*types.OfferBuyer
	if len(buyerIDs) == 0 {
		return out, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("offer_id = ? AND buyer_id IN ?", offerID, buyerIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *offerBuyerRepo) LockByOfferAndBuyer(dbc dbctx.Context, offerID, buyerID uint) (*types.OfferBuyer, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByOfferAndBuyer requires dbc.Tx")
	}
	var out []*types.OfferBuyer
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("offer_id = ? AND buyer_id = ?", offerID, buyerID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *offerBuyerRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing thread id")
	}
	return r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.OfferBuyer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
