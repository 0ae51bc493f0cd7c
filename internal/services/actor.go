package services

import (
	"github.com/tradebridge/tradebridge-backend/internal/data/repos"
	types "github.com/tradebridge/tradebridge-backend/internal/domain"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/dbctx"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

// Actor is the acting party of a negotiation request. The two variants
// replace role string branching inside the services: the actor is selected
// once at entry and every ownership decision goes through it.
type Actor interface {
	// OwnerID is the business-owner scope every write is checked against.
	OwnerID() uint
	// AuthorizeOffer fails unless the actor may operate on the offer.
	AuthorizeOffer(offer *types.Offer) error
	// ResolveBuyers validates and loads the buyer set the actor may
	// address: an owner may address any of its own buyers, a buyer only
	// itself.
	ResolveBuyers(dbc dbctx.Context, buyerRepo repos.BuyerRepo, buyerIDs []uint) ([]*types.Buyer, error)
	// Role is the principal's role string, recorded as the responding
	// party on result rows.
	Role() string
}

// ActorFor builds the acting party from the trusted authorization payload.
func ActorFor(p *principal.Principal) (Actor, error) {
	if p == nil {
		return nil, apperr.Authorization("unauthorized", "missing principal")
	}
	if p.BusinessOwnerID == 0 {
		return nil, apperr.Validation("missing_business_owner", "businessOwnerId not present in token")
	}
	if p.BusinessName == "" {
		return nil, apperr.Validation("missing_business_name", "businessName not present in token")
	}
	switch {
	case p.IsOwner():
		return &OwnerActor{p: p}, nil
	case p.IsBuyer():
		if p.BuyerID == 0 {
			return nil, apperr.Validation("missing_buyer_id", "buyerId not present in token")
		}
		return &BuyerActor{p: p}, nil
	default:
		return nil, apperr.Authorization("role_not_allowed", "role %q may not negotiate offers", p.Role)
	}
}

type OwnerActor struct {
	p *principal.Principal
}

func (a *OwnerActor) OwnerID() uint { return a.p.BusinessOwnerID }
func (a *OwnerActor) Role() string  { return a.p.Role }

func (a *OwnerActor) AuthorizeOffer(offer *types.Offer) error {
	if offer == nil {
		return apperr.NotFound("offer_not_found", "offer not found")
	}
	if offer.BusinessOwnerID != a.p.BusinessOwnerID {
		return apperr.Authorization("offer_not_owned", "offer does not belong to the acting business owner")
	}
	return nil
}

func (a *OwnerActor) ResolveBuyers(dbc dbctx.Context, buyerRepo repos.BuyerRepo, buyerIDs []uint) ([]*types.Buyer, error) {
	if len(buyerIDs) == 0 {
		return nil, apperr.Validation("missing_buyer_id", "no buyer id resolvable from the request")
	}
	buyers, err := buyerRepo.GetByIDs(dbc, buyerIDs)
	if err != nil {
		return nil, err
	}
	if len(buyers) != len(buyerIDs) {
		return nil, apperr.Validation("buyer_not_found", "one or more buyers do not exist")
	}
	for _, b := range buyers {
		if b.BusinessOwnerID != a.p.BusinessOwnerID {
			return nil, apperr.Validation("buyer_not_owned", "buyer %d does not belong to the acting business owner", b.ID)
		}
	}
	return buyers, nil
}

type BuyerActor struct {
	p *principal.Principal
}

func (a *BuyerActor) OwnerID() uint { return a.p.BusinessOwnerID }
func (a *BuyerActor) Role() string  { return a.p.Role }

func (a *BuyerActor) AuthorizeOffer(offer *types.Offer) error {
	if offer == nil {
		return apperr.NotFound("offer_not_found", "offer not found")
	}
	if offer.BusinessOwnerID != a.p.BusinessOwnerID {
		return apperr.Authorization("offer_not_owned", "offer does not belong to the buyer's business owner")
	}
	return nil
}

func (a *BuyerActor) ResolveBuyers(dbc dbctx.Context, buyerRepo repos.BuyerRepo, buyerIDs []uint) ([]*types.Buyer, error) {
	// A buyer may only act about itself.
	if len(buyerIDs) == 0 {
		buyerIDs = []uint{a.p.BuyerID}
	}
	if len(buyerIDs) != 1 || buyerIDs[0] != a.p.BuyerID {
		return nil, apperr.Authorization("buyer_self_only", "a buyer may only negotiate on its own behalf")
	}
	buyers, err := buyerRepo.GetByIDs(dbc, buyerIDs)
	if err != nil {
		return nil, err
	}
	if len(buyers) == 0 {
		return nil, apperr.Validation("buyer_not_found", "buyer %d does not exist", a.p.BuyerID)
	}
	// The token's owner claim must agree with the buyer's directory row;
	// a stale claim must not reach another tenant's offers.
	if buyers[0].BusinessOwnerID != a.p.BusinessOwnerID {
		return nil, apperr.Authorization("buyer_not_owned", "buyer %d does not belong to the acting business owner", a.p.BuyerID)
	}
	return buyers, nil
}
