// Package campaign selects eligible recipients, renders the message and
// records outcomes.
package campaign

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/delivery"
	"github.com/nborstad/outreach/internal/prospect"
	"github.com/nborstad/outreach/internal/telemetry"
)

// Store is the slice of the persistence layer the dispatcher needs.
type Store interface {
	SelectSendable(ctx context.Context, limit int) ([]prospect.Company, error)
	IsUnsubscribed(ctx context.Context, email string) (bool, error)
	RecordSent(ctx context.Context, email, orgnr string) error
}

// Waiter gates successive delivery calls.
type Waiter interface {
	Wait(ctx context.Context)
}

// Sender identifies the campaign originator.
type Sender struct {
	FromName       string
	FromEmail      string
	ReplyTo        string
	UnsubscribeURL string
}

// Dispatcher drives one campaign batch: at most one live send per
// recipient per run, with the opt-out list re-checked at send time.
type Dispatcher struct {
	store     Store
	deliverer delivery.Deliverer
	gate      Waiter
	sender    Sender
	logger    *zap.Logger
}

// New creates a Dispatcher.
func New(store Store, deliverer delivery.Deliverer, gate Waiter, sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		deliverer: deliverer,
		gate:      gate,
		sender:    sender,
		logger:    logger,
	}
}

// Run sends at most limit messages and returns how many were accepted.
// A single delivery failure is logged and never aborts the batch; only a
// store failure is fatal.
func (d *Dispatcher) Run(ctx context.Context, subject string, renderer *Renderer, limit int) (int, error) {
	log := d.logger.With(zap.String("run_id", uuid.NewString()))

	candidates, err := d.store.SelectSendable(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("select sendable: %w", err)
	}
	log.Info("Campaign batch selected", zap.Int("candidates", len(candidates)))

	sent := 0
	for i, c := range candidates {
		if i > 0 {
			d.gate.Wait(ctx)
		}
		if ctx.Err() != nil {
			break
		}

		// The selection may be stale; the opt-out list is authoritative
		// at send time.
		unsub, err := d.store.IsUnsubscribed(ctx, c.Email)
		if err != nil {
			return sent, fmt.Errorf("check unsubscribe for %s: %w", c.Email, err)
		}
		if unsub {
			telemetry.SendsSkippedUnsubscribed.Inc()
			log.Info("Skipping unsubscribed recipient", zap.String("email", c.Email))
			continue
		}

		body, err := renderer.Render(map[string]string{
			"company_name":    c.Name,
			"municipality":    c.Municipality,
			"website":         c.Website,
			"email":           c.Email,
			"unsubscribe_url": unsubscribeLink(d.sender.UnsubscribeURL, c.Email),
		})
		if err != nil {
			log.Error("Template render failed",
				zap.String("email", c.Email),
				zap.Error(err),
			)
			continue
		}

		telemetry.SendsAttempted.Inc()
		err = d.deliverer.Send(ctx, delivery.Message{
			To:        c.Email,
			Subject:   subject,
			HTMLBody:  body,
			FromName:  d.sender.FromName,
			FromEmail: d.sender.FromEmail,
			ReplyTo:   d.sender.ReplyTo,
		})
		if err != nil {
			telemetry.SendsFailed.Inc()
			log.Error("Delivery failed",
				zap.String("email", c.Email),
				zap.String("company", c.Name),
				zap.Error(err),
			)
			continue
		}

		if err := d.store.RecordSent(ctx, c.Email, c.OrgNr); err != nil {
			return sent, fmt.Errorf("record sent for %s: %w", c.Email, err)
		}
		telemetry.SendsSucceeded.Inc()
		sent++
		log.Info("Sent",
			zap.String("email", c.Email),
			zap.String("company", c.Name),
		)
	}
	return sent, nil
}
