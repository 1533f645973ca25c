package billing

import "context"

// EventLedger records provider deliveries so redeliveries are acknowledged
// without being applied twice.
type EventLedger interface {
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// MarkProcessed joins the caller's transaction when ctx carries one.
	MarkProcessed(ctx context.Context, eventID, eventType string) error
	MarkFailed(ctx context.Context, eventID, eventType string, cause error) error
}
