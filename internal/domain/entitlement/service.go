package entitlement

import (
	"context"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
)

// Service loads a principal's billing records and evaluates the resolver.
// The load is the only I/O on the entitlement path.
type Service interface {
	// HasFeature returns false for a nil principal
	HasFeature(ctx context.Context, principal *user.User, feature string) (bool, error)

	// Evaluate resolves several features against a single load of the facts
	Evaluate(ctx context.Context, principal *user.User, features ...string) (map[string]Result, error)
}
