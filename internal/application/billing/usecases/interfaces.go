package usecases

import (
	"context"
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
)

// EventApplier applies one verified event to local state.
type EventApplier interface {
	Apply(ctx context.Context, event billing.Event) error
}

// TransactionRunner runs fn in one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// WebhookMetrics records webhook outcomes.
type WebhookMetrics interface {
	WebhookProcessed(eventType, outcome string, elapsed time.Duration)
}

type nopWebhookMetrics struct{}

func (nopWebhookMetrics) WebhookProcessed(string, string, time.Duration) {}

var _ EventApplier = (*Reconciler)(nil)
