package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
	"github.com/tradebridge/tradebridge-backend/internal/platform/sendgrid"
)

const notifyConcurrency = 4

// OfferEmail is a post-commit notification for one buyer. Services return
// these from their transactional cores; dispatch happens only after the
// transaction has committed.
type OfferEmail struct {
	BuyerID      uint
	BuyerName    string
	Email        string
	OfferName    string
	OwnerCompany string
	VersionNo    int
	GrandTotal   float64
}

// EmailFailure reports a single failed delivery. Email failures never fail
// the request itself.
type EmailFailure struct {
	BuyerID uint   `json:"buyerId"`
	Email   string `json:"email"`
	Reason  string `json:"reason"`
}

type Notifier interface {
	NotifyOfferSent(ctx context.Context, emails []OfferEmail) []EmailFailure
}

type sendgridNotifier struct {
	mail sendgrid.Client
	log  *logger.Logger
}

func NewNotifier(mail sendgrid.Client, baseLog *logger.Logger) Notifier {
	return &sendgridNotifier{mail: mail, log: baseLog.With("component", "notifier")}
}

func (n *sendgridNotifier) NotifyOfferSent(ctx context.Context, emails []OfferEmail) []EmailFailure {
	if len(emails) == 0 {
		return nil
	}
	var (
		mu       sync.Mutex
		failures []EmailFailure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)
	for _, em := range emails {
		em := em
		g.Go(func() error {
			if em.Email == "" {
				mu.Lock()
				failures = append(failures, EmailFailure{BuyerID: em.BuyerID, Reason: "buyer has no contact email"})
				mu.Unlock()
				return nil
			}
			req := sendgrid.SendEmailRequest{
				To:      []sendgrid.EmailAddress{{Email: em.Email, Name: em.BuyerName}},
				Subject: fmt.Sprintf("Offer %q from %s (v%d)", em.OfferName, em.OwnerCompany, em.VersionNo),
				HTML:    offerEmailBody(em),
			}
			if _, err := n.mail.Send(gctx, req); err != nil {
				n.log.Warn("offer email failed", "buyer_id", em.BuyerID, "email", em.Email, "error", err)
				mu.Lock()
				failures = append(failures, EmailFailure{BuyerID: em.BuyerID, Email: em.Email, Reason: err.Error()})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

func offerEmailBody(em OfferEmail) string {
	return fmt.Sprintf(
		`<p>Hello %s,</p>
<p>%s has sent you offer <strong>%s</strong> (version %d).</p>
<p>Grand total: %.2f</p>
<p>Sent %s.</p>`,
		em.BuyerName, em.OwnerCompany, em.OfferName, em.VersionNo, em.GrandTotal,
		time.Now().UTC().Format(time.RFC1123),
	)
}

// noopNotifier is used when no mail provider is configured.
type noopNotifier struct{}

func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) NotifyOfferSent(context.Context, []OfferEmail) []EmailFailure { return nil }
