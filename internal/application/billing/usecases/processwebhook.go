package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// Webhook outcomes, shared with the metrics labels.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

type ProcessWebhookCommand struct {
	Payload         []byte
	SignatureHeader string
}

type ProcessWebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Outcome   string `json:"outcome"`
}

// ProcessWebhookUseCase authenticates a delivery, drops redeliveries and
// applies the event together with its ledger entry in one transaction.
type ProcessWebhookUseCase struct {
	verifier   paymentgateway.WebhookVerifier
	ledger     billing.EventLedger
	reconciler EventApplier
	txManager  TransactionRunner
	metrics    WebhookMetrics
	logger     logger.Interface
}

func NewProcessWebhookUseCase(
	verifier paymentgateway.WebhookVerifier,
	ledger billing.EventLedger,
	reconciler EventApplier,
	txManager TransactionRunner,
	metrics WebhookMetrics,
	logger logger.Interface,
) *ProcessWebhookUseCase {
	if metrics == nil {
		metrics = nopWebhookMetrics{}
	}
	return &ProcessWebhookUseCase{
		verifier:   verifier,
		ledger:     ledger,
		reconciler: reconciler,
		txManager:  txManager,
		metrics:    metrics,
		logger:     logger,
	}
}

func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, cmd ProcessWebhookCommand) (*ProcessWebhookResult, error) {
	start := time.Now()

	event, err := uc.verifier.VerifyAndParse(cmd.Payload, cmd.SignatureHeader)
	if err != nil {
		uc.metrics.WebhookProcessed("unknown", OutcomeRejected, time.Since(start))
		if errors.Is(err, paymentgateway.ErrInvalidSignature) {
			uc.logger.Warnw("webhook signature rejected", "error", err)
			return nil, apperrors.NewInvalidSignatureError("Invalid signature")
		}
		uc.logger.Warnw("webhook payload rejected", "error", err)
		return nil, apperrors.NewBadRequestError("Invalid webhook payload", err.Error())
	}

	meta := event.EventMeta()
	result := &ProcessWebhookResult{EventID: meta.ID, EventType: meta.Type}

	uc.logger.Infow("executing process webhook use case", "event_id", meta.ID, "event_type", meta.Type)

	processed, err := uc.ledger.IsProcessed(ctx, meta.ID)
	if err != nil {
		uc.metrics.WebhookProcessed(meta.Type, OutcomeFailed, time.Since(start))
		return nil, fmt.Errorf("failed to check webhook ledger: %w", err)
	}
	if processed {
		uc.logger.Infow("webhook event already processed", "event_id", meta.ID, "event_type", meta.Type)
		result.Outcome = OutcomeDuplicate
		uc.metrics.WebhookProcessed(meta.Type, OutcomeDuplicate, time.Since(start))
		return result, nil
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.reconciler.Apply(txCtx, event); err != nil {
			return err
		}
		return uc.ledger.MarkProcessed(txCtx, meta.ID, meta.Type)
	})
	if err != nil {
		uc.logger.Errorw("failed to process webhook event",
			"event_id", meta.ID,
			"event_type", meta.Type,
			"error", err)
		// outside the rolled back transaction so the failure survives
		if markErr := uc.ledger.MarkFailed(ctx, meta.ID, meta.Type, err); markErr != nil {
			uc.logger.Errorw("failed to record webhook failure", "event_id", meta.ID, "error", markErr)
		}
		uc.metrics.WebhookProcessed(meta.Type, OutcomeFailed, time.Since(start))
		return nil, fmt.Errorf("failed to process webhook event %s: %w", meta.ID, err)
	}

	result.Outcome = OutcomeProcessed
	if _, ok := event.(billing.Unhandled); ok {
		result.Outcome = OutcomeIgnored
	}
	uc.metrics.WebhookProcessed(meta.Type, result.Outcome, time.Since(start))

	uc.logger.Infow("webhook event processed",
		"event_id", meta.ID,
		"event_type", meta.Type,
		"outcome", result.Outcome,
		"elapsed", time.Since(start),
	)
	return result, nil
}
