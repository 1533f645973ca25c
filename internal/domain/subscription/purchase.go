package subscription

import (
	"fmt"
	"time"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/id"
)

// Purchase is a one-time payment for a plan. A user holds at most one row per plan.
type Purchase struct {
	id                    uint
	sid                   string
	userID                uint
	planID                uint
	stripePaymentIntentID *string
	stripeCheckoutSession *string
	status                vo.PurchaseStatus
	amount                vo.Money
	purchasedAt           *time.Time
	refundedAt            *time.Time
	metadata              map[string]interface{}
	version               int
	createdAt             time.Time
	updatedAt             time.Time
}

// NewPendingPurchase creates the row written when a checkout session is opened.
func NewPendingPurchase(userID uint, plan *Plan, checkoutSessionID string) (*Purchase, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if plan == nil || plan.ID() == 0 {
		return nil, fmt.Errorf("plan is required")
	}
	if !plan.PlanType().IsOneTime() {
		return nil, fmt.Errorf("plan %s is not a one_time plan", plan.SID())
	}
	if checkoutSessionID == "" {
		return nil, fmt.Errorf("checkout session ID is required")
	}

	sid, err := id.NewPurchaseSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate purchase SID: %w", err)
	}

	now := time.Now().UTC()
	return &Purchase{
		sid:                   sid,
		userID:                userID,
		planID:                plan.ID(),
		stripeCheckoutSession: &checkoutSessionID,
		status:                vo.PurchaseStatusPending,
		amount:                plan.Price(),
		metadata:              make(map[string]interface{}),
		version:               1,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

// PurchaseReconstructParams holds the persisted state of a purchase.
type PurchaseReconstructParams struct {
	ID                    uint
	SID                   string
	UserID                uint
	PlanID                uint
	StripePaymentIntentID *string
	StripeCheckoutSession *string
	Status                vo.PurchaseStatus
	AmountCents           int64
	Currency              string
	PurchasedAt           *time.Time
	RefundedAt            *time.Time
	Metadata              map[string]interface{}
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func ReconstructPurchase(p PurchaseReconstructParams) (*Purchase, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("purchase ID cannot be zero")
	}
	if !vo.ValidPurchaseStatuses[p.Status] {
		return nil, fmt.Errorf("invalid purchase status: %s", p.Status)
	}

	amount, err := vo.NewMoney(p.AmountCents, p.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase amount: %w", err)
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Purchase{
		id:                    p.ID,
		sid:                   p.SID,
		userID:                p.UserID,
		planID:                p.PlanID,
		stripePaymentIntentID: p.StripePaymentIntentID,
		stripeCheckoutSession: p.StripeCheckoutSession,
		status:                p.Status,
		amount:                amount,
		purchasedAt:           p.PurchasedAt,
		refundedAt:            p.RefundedAt,
		metadata:              metadata,
		version:               p.Version,
		createdAt:             p.CreatedAt,
		updatedAt:             p.UpdatedAt,
	}, nil
}

func (p *Purchase) ID() uint {
	return p.id
}

func (p *Purchase) SID() string {
	return p.sid
}

func (p *Purchase) UserID() uint {
	return p.userID
}

func (p *Purchase) PlanID() uint {
	return p.planID
}

func (p *Purchase) StripePaymentIntentID() *string {
	return p.stripePaymentIntentID
}

func (p *Purchase) StripeCheckoutSessionID() *string {
	return p.stripeCheckoutSession
}

func (p *Purchase) Status() vo.PurchaseStatus {
	return p.status
}

func (p *Purchase) Amount() vo.Money {
	return p.amount
}

func (p *Purchase) PurchasedAt() *time.Time {
	return p.purchasedAt
}

func (p *Purchase) RefundedAt() *time.Time {
	return p.refundedAt
}

func (p *Purchase) Metadata() map[string]interface{} {
	return p.metadata
}

func (p *Purchase) Version() int {
	return p.version
}

func (p *Purchase) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Purchase) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Purchase) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("purchase ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("purchase ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Purchase) IsCompleted() bool {
	return p.status == vo.PurchaseStatusCompleted
}

// RearmCheckout points an abandoned pending (or failed) purchase at a new
// checkout session so the (user, plan) row is reused.
func (p *Purchase) RearmCheckout(checkoutSessionID string, amount vo.Money) error {
	if p.status != vo.PurchaseStatusPending && p.status != vo.PurchaseStatusFailed {
		return ErrInvalidTransition(p.status.String(), vo.PurchaseStatusPending.String())
	}
	if checkoutSessionID == "" {
		return fmt.Errorf("checkout session ID is required")
	}

	p.stripeCheckoutSession = &checkoutSessionID
	p.status = vo.PurchaseStatusPending
	p.amount = amount
	p.touch()
	return nil
}

// Complete records a successful checkout. Completing twice is a no-op.
func (p *Purchase) Complete(paymentIntentID string, amount *vo.Money, at time.Time) (bool, error) {
	if p.status == vo.PurchaseStatusCompleted {
		return false, nil
	}
	if !p.status.CanTransitionTo(vo.PurchaseStatusCompleted) {
		return false, ErrInvalidTransition(p.status.String(), vo.PurchaseStatusCompleted.String())
	}

	purchasedAt := at.UTC()
	p.status = vo.PurchaseStatusCompleted
	p.purchasedAt = &purchasedAt
	if paymentIntentID != "" {
		p.stripePaymentIntentID = &paymentIntentID
	}
	if amount != nil {
		p.amount = *amount
	}
	p.touch()
	return true, nil
}

// MarkRefunded records a provider refund. Refunding twice is a no-op.
func (p *Purchase) MarkRefunded(at time.Time) (bool, error) {
	if p.status == vo.PurchaseStatusRefunded {
		return false, nil
	}
	if !p.status.CanTransitionTo(vo.PurchaseStatusRefunded) {
		return false, ErrInvalidTransition(p.status.String(), vo.PurchaseStatusRefunded.String())
	}

	refundedAt := at.UTC()
	p.status = vo.PurchaseStatusRefunded
	p.refundedAt = &refundedAt
	p.touch()
	return true, nil
}

func (p *Purchase) MarkFailed() (bool, error) {
	if p.status == vo.PurchaseStatusFailed {
		return false, nil
	}
	if !p.status.CanTransitionTo(vo.PurchaseStatusFailed) {
		return false, ErrInvalidTransition(p.status.String(), vo.PurchaseStatusFailed.String())
	}

	p.status = vo.PurchaseStatusFailed
	p.touch()
	return true, nil
}

func (p *Purchase) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}
