package repos

import (
	"gorm.io/gorm"

	"github.com/tradebridge/tradebridge-backend/internal/data/repos/billing"
	"github.com/tradebridge/tradebridge-backend/internal/data/repos/directory"
	"github.com/tradebridge/tradebridge-backend/internal/data/repos/trade"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

type BusinessOwnerRepo = directory.BusinessOwnerRepo
type BuyerRepo = directory.BuyerRepo

type OfferRepo = trade.OfferRepo
type OfferDraftRepo = trade.OfferDraftRepo
type OfferBuyerRepo = trade.OfferBuyerRepo
type OfferVersionRepo = trade.OfferVersionRepo
type OfferResultRepo = trade.OfferResultRepo

type PlanRepo = billing.PlanRepo
type SubscriptionRepo = billing.SubscriptionRepo

func NewBusinessOwnerRepo(db *gorm.DB, baseLog *logger.Logger) BusinessOwnerRepo {
	return directory.NewBusinessOwnerRepo(db, baseLog)
}
func NewBuyerRepo(db *gorm.DB, baseLog *logger.Logger) BuyerRepo {
	return directory.NewBuyerRepo(db, baseLog)
}

func NewOfferRepo(db *gorm.DB, baseLog *logger.Logger) OfferRepo {
	return trade.NewOfferRepo(db, baseLog)
}
func NewOfferDraftRepo(db *gorm.DB, baseLog *logger.Logger) OfferDraftRepo {
	return trade.NewOfferDraftRepo(db, baseLog)
}
func NewOfferBuyerRepo(db *gorm.DB, baseLog *logger.Logger) OfferBuyerRepo {
	return trade.NewOfferBuyerRepo(db, baseLog)
}
func NewOfferVersionRepo(db *gorm.DB, baseLog *logger.Logger) OfferVersionRepo {
	return trade.NewOfferVersionRepo(db, baseLog)
}
func NewOfferResultRepo(db *gorm.DB, baseLog *logger.Logger) OfferResultRepo {
	return trade.NewOfferResultRepo(db, baseLog)
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return billing.NewPlanRepo(db, baseLog)
}
func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return billing.NewSubscriptionRepo(db, baseLog)
}
