package db

import (
	types "github.com/tradebridge/tradebridge-backend/internal/domain"
)

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Running auto migration")
	return s.db.AutoMigrate(
		&types.BusinessOwner{},
		&types.Buyer{},

		&types.OfferDraft{},
		&types.OfferDraftProduct{},
		&types.Offer{},
		&types.OfferBuyer{},
		&types.OfferVersion{},
		&types.OfferResult{},

		&types.Plan{},
		&types.Subscription{},
	)
}
