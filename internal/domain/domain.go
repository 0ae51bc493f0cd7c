package domain

import (
	"github.com/tradebridge/tradebridge-backend/internal/domain/billing"
	"github.com/tradebridge/tradebridge-backend/internal/domain/directory"
	"github.com/tradebridge/tradebridge-backend/internal/domain/trade"
)

// Aggregated aliases so callers can import one package as `types`.

type BusinessOwner = directory.BusinessOwner
type Buyer = directory.Buyer

type Offer = trade.Offer
type OfferDraft = trade.OfferDraft
type OfferDraftProduct = trade.OfferDraftProduct
type OfferBuyer = trade.OfferBuyer
type OfferVersion = trade.OfferVersion
type OfferResult = trade.OfferResult
type SizeBreakup = trade.SizeBreakup

type Plan = billing.Plan
type Subscription = billing.Subscription

const (
	OwnerStatusActive   = directory.OwnerStatusActive
	OwnerStatusInactive = directory.OwnerStatusInactive

	OfferStatusOpen  = trade.OfferStatusOpen
	OfferStatusClose = trade.OfferStatusClose

	ThreadStatusOpen     = trade.ThreadStatusOpen
	ThreadStatusAccepted = trade.ThreadStatusAccepted
	ThreadStatusRejected = trade.ThreadStatusRejected

	ActionAccept = trade.ActionAccept
	ActionReject = trade.ActionReject

	SubscriptionStatusActive   = billing.SubscriptionStatusActive
	SubscriptionStatusCanceled = billing.SubscriptionStatusCanceled
)

var (
	MarshalSizeBreakups   = trade.MarshalSizeBreakups
	UnmarshalSizeBreakups = trade.UnmarshalSizeBreakups
)
