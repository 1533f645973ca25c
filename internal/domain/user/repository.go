package user

import "context"

// Repository defines the interface for user data operations.
// Lookups return (nil, nil) when no user matches.
type Repository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByUUID retrieves a user by the public id carried in access tokens
	GetByUUID(ctx context.Context, uuid string) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByStripeCustomerID correlates provider events back to a user
	GetByStripeCustomerID(ctx context.Context, customerID string) (*User, error)

	GetByAPIKeyHash(ctx context.Context, hash string) (*User, error)

	Update(ctx context.Context, user *User) error
}

// FavoriteRepository stores the bidding package signups a user has starred.
type FavoriteRepository interface {
	// ListSignupIDs returns the user's favorites, most recent first
	ListSignupIDs(ctx context.Context, userID uint) ([]string, error)

	// Add is a no-op when the favorite already exists
	Add(ctx context.Context, userID uint, signupID string) error

	Remove(ctx context.Context, userID uint, signupID string) error
}
