package valueobjects

// SubscriptionStatus is the local lifecycle state of a recurring subscription.
type SubscriptionStatus string

const (
	StatusPending  SubscriptionStatus = "pending"
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusExpired  SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsEntitling reports whether the status grants the plan's capabilities.
func (s SubscriptionStatus) IsEntitling() bool {
	return s == StatusActive || s == StatusTrialing
}

// IsTerminal reports whether no further transition is possible.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCanceled || s == StatusExpired
}

// CanTransitionTo reports whether moving from s to target is a legal edge.
// Pending is an entry state only; canceled and expired are terminal.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPending:  {StatusActive, StatusTrialing, StatusPastDue, StatusCanceled, StatusExpired},
		StatusTrialing: {StatusActive, StatusPastDue, StatusCanceled, StatusExpired},
		StatusActive:   {StatusTrialing, StatusPastDue, StatusCanceled, StatusExpired},
		StatusPastDue:  {StatusActive, StatusTrialing, StatusCanceled, StatusExpired},
		StatusCanceled: {},
		StatusExpired:  {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:  true,
	StatusActive:   true,
	StatusTrialing: true,
	StatusPastDue:  true,
	StatusCanceled: true,
	StatusExpired:  true,
}

// EntitlingStatuses lists the statuses that grant plan capabilities.
var EntitlingStatuses = []SubscriptionStatus{StatusActive, StatusTrialing}

// FromProviderStatus maps a payment provider subscription status onto the
// local lifecycle. Statuses the provider may add later fall back to pending.
func FromProviderStatus(providerStatus string) SubscriptionStatus {
	switch providerStatus {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled":
		return StatusCanceled
	default:
		// incomplete, incomplete_expired, paused and anything unknown
		return StatusPending
	}
}
