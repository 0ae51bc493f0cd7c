package directory

import (
	"gorm.io/gorm"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type BusinessOwnerRepo interface {
	Create(dbc dbctx.Context, rows []*types.BusinessOwner) ([]*types.BusinessOwner, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.BusinessOwner, error)
	GetByID(dbc dbctx.Context, id uint) (*types.BusinessOwner, error)
}

type businessOwnerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBusinessOwnerRepo(db *gorm.DB, baseLog *logger.Logger) BusinessOwnerRepo {
	return &businessOwnerRepo{db: db, log: baseLog.With("repo", "BusinessOwnerRepo")}
}

func (r *businessOwnerRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *businessOwnerRepo) Create(dbc dbctx.Context, rows []*types.BusinessOwner) ([]*types.BusinessOwner, error) {
	if len(rows) == 0 {
		return []*types.BusinessOwner{}, nil
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *businessOwnerRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.BusinessOwner, error) {
	var out []*types.BusinessOwner
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

func (r *businessOwnerRepo) GetByID(dbc dbctx.Context, id uint) (*types.BusinessOwner, error) {
	rows, err := r.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
