package subscription

import (
	"fmt"
	"time"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/id"
)

// Plan is a purchasable offering. Everything except the active flag, the
// description and the sort order is fixed once subscriptions reference it.
type Plan struct {
	id              uint
	sid             string
	stripePriceID   string
	stripeProductID string
	name            string
	description     string
	planType        vo.PlanType
	interval        *vo.BillingInterval
	price           vo.Money
	capabilities    vo.Capabilities
	isActive        bool
	sortOrder       int
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPlanParams holds the inputs for creating a plan.
type NewPlanParams struct {
	StripePriceID   string
	StripeProductID string
	Name            string
	Description     string
	PlanType        vo.PlanType
	Interval        *vo.BillingInterval
	PriceCents      int64
	Currency        string
	Capabilities    map[string]bool
	SortOrder       int
}

func NewPlan(p NewPlanParams) (*Plan, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if len(p.Name) > 100 {
		return nil, fmt.Errorf("plan name too long (max 100 characters)")
	}
	if p.StripePriceID == "" {
		return nil, fmt.Errorf("stripe price ID is required")
	}
	if err := validatePlanShape(p.PlanType, p.Interval); err != nil {
		return nil, err
	}

	price, err := vo.NewMoney(p.PriceCents, p.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid plan price: %w", err)
	}

	sid, err := id.NewPlanSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan SID: %w", err)
	}

	now := time.Now().UTC()
	return &Plan{
		sid:             sid,
		stripePriceID:   p.StripePriceID,
		stripeProductID: p.StripeProductID,
		name:            p.Name,
		description:     p.Description,
		planType:        p.PlanType,
		interval:        p.Interval,
		price:           price,
		capabilities:    vo.NewCapabilities(p.Capabilities),
		isActive:        true,
		sortOrder:       p.SortOrder,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// PlanReconstructParams holds the persisted state of a plan.
type PlanReconstructParams struct {
	ID              uint
	SID             string
	StripePriceID   string
	StripeProductID string
	Name            string
	Description     string
	PlanType        vo.PlanType
	Interval        *vo.BillingInterval
	PriceCents      int64
	Currency        string
	Capabilities    map[string]bool
	IsActive        bool
	SortOrder       int
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructPlan(p PlanReconstructParams) (*Plan, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if err := validatePlanShape(p.PlanType, p.Interval); err != nil {
		return nil, err
	}

	price, err := vo.NewMoney(p.PriceCents, p.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid plan price: %w", err)
	}

	return &Plan{
		id:              p.ID,
		sid:             p.SID,
		stripePriceID:   p.StripePriceID,
		stripeProductID: p.StripeProductID,
		name:            p.Name,
		description:     p.Description,
		planType:        p.PlanType,
		interval:        p.Interval,
		price:           price,
		capabilities:    vo.NewCapabilities(p.Capabilities),
		isActive:        p.IsActive,
		sortOrder:       p.SortOrder,
		version:         p.Version,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

// validatePlanShape enforces that only subscription plans carry an interval.
func validatePlanShape(planType vo.PlanType, interval *vo.BillingInterval) error {
	if !planType.IsValid() {
		return fmt.Errorf("invalid plan type: %s", planType)
	}
	if planType.IsOneTime() && interval != nil {
		return fmt.Errorf("one_time plan cannot have a billing interval")
	}
	if !planType.IsOneTime() {
		if interval == nil {
			return fmt.Errorf("subscription plan requires a billing interval")
		}
		if !interval.IsValid() {
			return fmt.Errorf("invalid billing interval: %s", *interval)
		}
	}
	return nil
}

func (p *Plan) ID() uint {
	return p.id
}

func (p *Plan) SID() string {
	return p.sid
}

func (p *Plan) StripePriceID() string {
	return p.stripePriceID
}

func (p *Plan) StripeProductID() string {
	return p.stripeProductID
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Description() string {
	return p.description
}

func (p *Plan) PlanType() vo.PlanType {
	return p.planType
}

// Interval is nil for one_time plans.
func (p *Plan) Interval() *vo.BillingInterval {
	return p.interval
}

func (p *Plan) Price() vo.Money {
	return p.price
}

func (p *Plan) Capabilities() vo.Capabilities {
	return p.capabilities
}

func (p *Plan) IsActive() bool {
	return p.isActive
}

func (p *Plan) SortOrder() int {
	return p.sortOrder
}

func (p *Plan) Version() int {
	return p.version
}

func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

// Activate makes the plan visible in listings again.
func (p *Plan) Activate() {
	if p.isActive {
		return
	}
	p.isActive = true
	p.touch()
}

// Deactivate hides the plan from listings. Existing subscriptions keep it.
func (p *Plan) Deactivate() {
	if !p.isActive {
		return
	}
	p.isActive = false
	p.touch()
}

// UpdateCatalogDetails changes the fields that stay mutable after launch.
func (p *Plan) UpdateCatalogDetails(description string, sortOrder int) {
	if p.description == description && p.sortOrder == sortOrder {
		return
	}
	p.description = description
	p.sortOrder = sortOrder
	p.touch()
}

func (p *Plan) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}
