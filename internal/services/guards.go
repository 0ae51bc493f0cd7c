package services

import (
	"github.com/tradebridge/tradebridge-backend/internal/data/repos"
	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
)

// ensureActiveOwner loads the business owner and rejects inactive accounts.
func ensureActiveOwner(dbc dbctx.Context, ownerRepo repos.BusinessOwnerRepo, ownerID uint) (*types.BusinessOwner, error) {
	owner, err := ownerRepo.GetByID(dbc, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("owner_not_found", "business owner %d not found", ownerID)
	}
	if !owner.IsActive() {
		return nil, apperr.StateConflict("owner_inactive", "business owner %d is inactive", ownerID)
	}
	return owner, nil
}

// ensureActiveOffer rejects missing, closed, and soft-deleted offers.
func ensureActiveOffer(offer *types.Offer) error {
	if offer == nil {
		return apperr.NotFound("offer_not_found", "offer not found")
	}
	if !offer.IsActive() {
		return apperr.StateConflict("offer_inactive", "offer %d is closed or deleted", offer.ID)
	}
	return nil
}
