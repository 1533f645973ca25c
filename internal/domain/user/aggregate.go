package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
)

// User represents the principal aggregate root. Billing state lives in the
// subscription tables; the legacy projection is a derived copy.
type User struct {
	id               uint
	uuid             string
	email            *vo.Email
	firstName        string
	lastName         string
	isActive         bool
	isSuperuser      bool
	stripeCustomerID *string
	apiKeyHash       *string
	legacy           vo.LegacyBilling
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewUser creates a new user aggregate with initial values
func NewUser(email *vo.Email, firstName, lastName string) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}

	now := time.Now().UTC()
	return &User{
		uuid:      uuid.NewString(),
		email:     email,
		firstName: firstName,
		lastName:  lastName,
		isActive:  true,
		legacy:    vo.DefaultLegacyBilling(),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructParams holds the persisted state of a user.
type ReconstructParams struct {
	ID               uint
	UUID             string
	Email            *vo.Email
	FirstName        string
	LastName         string
	IsActive         bool
	IsSuperuser      bool
	StripeCustomerID *string
	APIKeyHash       *string
	Legacy           vo.LegacyBilling
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(p ReconstructParams) (*User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if p.Email == nil {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		id:               p.ID,
		uuid:             p.UUID,
		email:            p.Email,
		firstName:        p.FirstName,
		lastName:         p.LastName,
		isActive:         p.IsActive,
		isSuperuser:      p.IsSuperuser,
		stripeCustomerID: p.StripeCustomerID,
		apiKeyHash:       p.APIKeyHash,
		legacy:           p.Legacy,
		version:          p.Version,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}, nil
}

// ID returns the user ID
func (u *User) ID() uint {
	return u.id
}

func (u *User) UUID() string {
	return u.uuid
}

// Email returns the user's email
func (u *User) Email() *vo.Email {
	return u.email
}

func (u *User) FirstName() string {
	return u.firstName
}

func (u *User) LastName() string {
	return u.lastName
}

// DisplayName joins first and last name, falling back to the email.
func (u *User) DisplayName() string {
	switch {
	case u.firstName != "" && u.lastName != "":
		return u.firstName + " " + u.lastName
	case u.firstName != "":
		return u.firstName
	default:
		return u.email.String()
	}
}

func (u *User) IsActive() bool {
	return u.isActive
}

// IsSuperuser marks the administrative override for every feature check.
func (u *User) IsSuperuser() bool {
	return u.isSuperuser
}

func (u *User) StripeCustomerID() *string {
	return u.stripeCustomerID
}

func (u *User) HasBillingRelationship() bool {
	return u.stripeCustomerID != nil && *u.stripeCustomerID != ""
}

func (u *User) APIKeyHash() *string {
	return u.apiKeyHash
}

// LegacyBilling returns the denormalized billing projection.
func (u *User) LegacyBilling() vo.LegacyBilling {
	return u.legacy
}

func (u *User) Version() int {
	return u.version
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// AssignStripeCustomer stores the provider customer id created on first checkout.
func (u *User) AssignStripeCustomer(customerID string) error {
	if customerID == "" {
		return fmt.Errorf("stripe customer ID cannot be empty")
	}
	if u.stripeCustomerID != nil && *u.stripeCustomerID == customerID {
		return nil
	}
	if u.HasBillingRelationship() {
		return fmt.Errorf("user already has stripe customer %s", *u.stripeCustomerID)
	}

	u.stripeCustomerID = &customerID
	u.touch()
	return nil
}

// SetAPIKeyHash stores the digest of a newly issued API key.
func (u *User) SetAPIKeyHash(hash string) {
	u.apiKeyHash = &hash
	u.touch()
}

// RevokeAPIKey removes the stored digest. It reports whether a key existed.
func (u *User) RevokeAPIKey() bool {
	if u.apiKeyHash == nil {
		return false
	}
	u.apiKeyHash = nil
	u.touch()
	return true
}

// ProjectLegacyBilling replaces the projection and reports whether it changed.
func (u *User) ProjectLegacyBilling(next vo.LegacyBilling) bool {
	if u.legacy.Equal(next) {
		return false
	}
	u.legacy = next
	u.touch()
	return true
}

func (u *User) Deactivate() {
	if !u.isActive {
		return
	}
	u.isActive = false
	u.touch()
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
	u.version++
}
