package directory

import (
	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type BuyerRepo interface {
	Create(dbc dbctx.Context, rows []*types.Buyer) ([]*types.Buyer, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Buyer, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Buyer, error)
	ListByOwner(dbc dbctx.Context, ownerID uint) ([]*types.Buyer, error)
	CountByOwner(dbc dbctx.Context, ownerID uint) (int64, error)
}

type buyerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBuyerRepo(db *gorm.DB, baseLog *logger.Logger) BuyerRepo {
	return &buyerRepo{db: db, log: baseLog.With("repo", "BuyerRepo")}
}

func (r *buyerRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *buyerRepo) Create(dbc dbctx.Context, rows []*types.Buyer) ([]*types.Buyer, error) {
	if len(rows) == 0 {
		return []*types.Buyer{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *buyerRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Buyer, error) {
	var out []*types.Buyer
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *buyerRepo) GetByID(dbc dbctx.Context, id uint) (*types.Buyer, error) {
	rows, err := r.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *buyerRepo) ListByOwner(dbc dbctx.Context, ownerID uint) ([]*types.Buyer, error) {
	var out []*types.Buyer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("business_owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *buyerRepo) CountByOwner(dbc dbctx.Context, ownerID uint) (int64, error) {
	var count int64
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Buyer{}).
		Where("business_owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
