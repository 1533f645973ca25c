package subscription

import (
	"fmt"
	"time"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/id"
)

// Subscription represents a recurring billing relationship between a user and a plan.
type Subscription struct {
	id                   uint
	sid                  string
	userID               uint
	planID               uint
	stripeSubscriptionID *string
	status               vo.SubscriptionStatus
	currentPeriodStart   *time.Time
	currentPeriodEnd     *time.Time
	cancelAtPeriodEnd    bool
	canceledAt           *time.Time
	endedAt              *time.Time
	trialStart           *time.Time
	trialEnd             *time.Time
	metadata             map[string]interface{}
	version              int
	createdAt            time.Time
	updatedAt            time.Time
}

// ProviderState is the subset of a provider subscription the local row mirrors.
type ProviderState struct {
	Status             vo.SubscriptionStatus
	PlanID             uint
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	EndedAt            *time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	// ObservedAt is when the provider emitted the state; used for ended_at
	// when the provider does not report one.
	ObservedAt time.Time
}

// NewSubscriptionFromProvider creates a row for a subscription first seen in a
// provider event. The row starts in whatever status the provider reports.
func NewSubscriptionFromProvider(userID uint, stripeSubscriptionID string, state ProviderState) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if state.PlanID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if stripeSubscriptionID == "" {
		return nil, fmt.Errorf("stripe subscription ID is required")
	}
	if !vo.ValidStatuses[state.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", state.Status)
	}

	sid, err := id.NewSubscriptionSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription SID: %w", err)
	}

	now := time.Now().UTC()
	s := &Subscription{
		sid:                  sid,
		userID:               userID,
		planID:               state.PlanID,
		stripeSubscriptionID: &stripeSubscriptionID,
		status:               state.Status,
		currentPeriodStart:   state.CurrentPeriodStart,
		currentPeriodEnd:     state.CurrentPeriodEnd,
		cancelAtPeriodEnd:    state.CancelAtPeriodEnd,
		canceledAt:           state.CanceledAt,
		trialStart:           state.TrialStart,
		trialEnd:             state.TrialEnd,
		metadata:             make(map[string]interface{}),
		version:              1,
		createdAt:            now,
		updatedAt:            now,
	}
	if state.Status == vo.StatusCanceled {
		s.endedAt = endedAtFor(state)
	}

	return s, nil
}

// SubscriptionReconstructParams holds the persisted state of a subscription.
type SubscriptionReconstructParams struct {
	ID                   uint
	SID                  string
	UserID               uint
	PlanID               uint
	StripeSubscriptionID *string
	Status               vo.SubscriptionStatus
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool
	CanceledAt           *time.Time
	EndedAt              *time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	Metadata             map[string]interface{}
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ReconstructSubscription reconstructs a subscription from persistence
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if p.PlanID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Subscription{
		id:                   p.ID,
		sid:                  p.SID,
		userID:               p.UserID,
		planID:               p.PlanID,
		stripeSubscriptionID: p.StripeSubscriptionID,
		status:               p.Status,
		currentPeriodStart:   p.CurrentPeriodStart,
		currentPeriodEnd:     p.CurrentPeriodEnd,
		cancelAtPeriodEnd:    p.CancelAtPeriodEnd,
		canceledAt:           p.CanceledAt,
		endedAt:              p.EndedAt,
		trialStart:           p.TrialStart,
		trialEnd:             p.TrialEnd,
		metadata:             metadata,
		version:              p.Version,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) SID() string {
	return s.sid
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) StripeSubscriptionID() *string {
	return s.stripeSubscriptionID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) CurrentPeriodStart() *time.Time {
	return s.currentPeriodStart
}

func (s *Subscription) CurrentPeriodEnd() *time.Time {
	return s.currentPeriodEnd
}

func (s *Subscription) CancelAtPeriodEnd() bool {
	return s.cancelAtPeriodEnd
}

func (s *Subscription) CanceledAt() *time.Time {
	return s.canceledAt
}

func (s *Subscription) EndedAt() *time.Time {
	return s.endedAt
}

func (s *Subscription) TrialStart() *time.Time {
	return s.trialStart
}

func (s *Subscription) TrialEnd() *time.Time {
	return s.trialEnd
}

func (s *Subscription) Metadata() map[string]interface{} {
	return s.metadata
}

func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsEntitling reports whether the subscription currently grants its plan.
func (s *Subscription) IsEntitling() bool {
	return s.status.IsEntitling()
}

// ApplyProviderState overwrites the provider-controlled fields and reports
// whether anything changed. A terminal row is left untouched. A provider
// status that is not a legal edge from the current status (e.g. an active row
// reported as incomplete) keeps the current status but still takes the rest
// of the state.
func (s *Subscription) ApplyProviderState(state ProviderState) bool {
	if s.status.IsTerminal() {
		return false
	}

	changed := false

	if state.Status != s.status && s.status.CanTransitionTo(state.Status) {
		s.status = state.Status
		if state.Status == vo.StatusCanceled {
			s.endedAt = endedAtFor(state)
		}
		changed = true
	}
	if state.PlanID != 0 && state.PlanID != s.planID {
		s.planID = state.PlanID
		changed = true
	}
	if !timePtrEqual(s.currentPeriodStart, state.CurrentPeriodStart) {
		s.currentPeriodStart = state.CurrentPeriodStart
		changed = true
	}
	if !timePtrEqual(s.currentPeriodEnd, state.CurrentPeriodEnd) {
		s.currentPeriodEnd = state.CurrentPeriodEnd
		changed = true
	}
	if s.cancelAtPeriodEnd != state.CancelAtPeriodEnd {
		s.cancelAtPeriodEnd = state.CancelAtPeriodEnd
		changed = true
	}
	if state.CanceledAt != nil && !timePtrEqual(s.canceledAt, state.CanceledAt) {
		s.canceledAt = state.CanceledAt
		changed = true
	}
	if !timePtrEqual(s.trialStart, state.TrialStart) {
		s.trialStart = state.TrialStart
		changed = true
	}
	if !timePtrEqual(s.trialEnd, state.TrialEnd) {
		s.trialEnd = state.TrialEnd
		changed = true
	}

	if changed {
		s.touch()
	}
	return changed
}

// MarkPastDue moves the subscription to past_due without touching the period.
func (s *Subscription) MarkPastDue() (bool, error) {
	if s.status == vo.StatusPastDue {
		return false, nil
	}
	if s.status.IsTerminal() {
		return false, nil
	}
	if !s.status.CanTransitionTo(vo.StatusPastDue) {
		return false, ErrInvalidTransition(s.status.String(), vo.StatusPastDue.String())
	}

	s.status = vo.StatusPastDue
	s.touch()
	return true, nil
}

// Cancel ends the subscription. Cancelling a terminal row is a no-op.
func (s *Subscription) Cancel(endedAt time.Time) bool {
	if s.status.IsTerminal() {
		return false
	}

	ended := endedAt.UTC()
	s.status = vo.StatusCanceled
	s.endedAt = &ended
	if s.canceledAt == nil {
		s.canceledAt = &ended
	}
	s.touch()
	return true
}

// ScheduleCancellation flags the subscription to end with the current period.
func (s *Subscription) ScheduleCancellation(at time.Time) error {
	if s.status.IsTerminal() {
		return ErrInvalidTransition(s.status.String(), "cancel_at_period_end")
	}
	if s.cancelAtPeriodEnd {
		return nil
	}

	requested := at.UTC()
	s.cancelAtPeriodEnd = true
	s.canceledAt = &requested
	s.touch()
	return nil
}

// SetMetadata records a provider metadata value on the row.
func (s *Subscription) SetMetadata(key, value string) {
	if current, ok := s.metadata[key]; ok && current == value {
		return
	}
	s.metadata[key] = value
	s.touch()
}

func (s *Subscription) touch() {
	s.updatedAt = time.Now().UTC()
	s.version++
}

func endedAtFor(state ProviderState) *time.Time {
	if state.EndedAt != nil {
		return state.EndedAt
	}
	observed := state.ObservedAt
	if observed.IsZero() {
		observed = time.Now().UTC()
	}
	return &observed
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
