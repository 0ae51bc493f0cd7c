package billing

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type PlanRepo interface {
	// UpsertByCode syncs the YAML catalog into the table, keyed on code.
	UpsertByCode(dbc dbctx.Context, rows []*types.Plan) error
	GetByID(dbc dbctx.Context, id uint) (*types.Plan, error)
	GetByCode(dbc dbctx.Context, code string) (*types.Plan, error)
	List(dbc dbctx.Context) ([]*types.Plan, error)
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func (r *planRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *planRepo) UpsertByCode(dbc dbctx.Context, rows []*types.Plan) error {
	if len(rows) == 0 {
		return nil
	}
	return r.handle(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "price_cents", "currency",
				"max_seats", "max_products", "max_offers", "max_buyers",
				"updated_at",
			}),
		}).
		Create(&rows).Error
}

func (r *planRepo) GetByID(dbc dbctx.Context, id uint) (*types.Plan, error) {
	var out []*types.Plan
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

func (r *planRepo) GetByCode(dbc dbctx.Context, code string) (*types.Plan, error) {
	var out []*types.Plan
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("code = ?", code).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *planRepo) List(dbc dbctx.Context) ([]*types.Plan, error) {
	var out []*types.Plan
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Order("price_cents ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
