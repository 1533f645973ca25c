// Package entitlement decides whether a principal may use a gated feature.
// The resolver is pure: callers load the principal's billing records first and
// pass them in as Facts.
package entitlement

// Decision is the outcome of evaluating a single entitlement source.
type Decision int

const (
	// NotApplicable means the source says nothing about the feature
	NotApplicable Decision = iota
	// Denied means the source knows the feature and does not grant it
	Denied
	// Granted means the source grants the feature
	Granted
)

// String returns the string representation of the decision
func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "not_applicable"
	}
}

// Source identifies where a decision came from
type Source string

const (
	// SourceAdmin is the administrative override
	SourceAdmin Source = "admin"
	// SourceSubscription is an active or trialing subscription
	SourceSubscription Source = "subscription"
	// SourcePurchase is a completed one-time purchase
	SourcePurchase Source = "purchase"
	// SourceLegacy is the denormalized projection on the user row
	SourceLegacy Source = "legacy"
)

// SourceDecision pairs a source with its decision
type SourceDecision struct {
	Source   Source
	Decision Decision
}

// Result is the full evaluation of one feature key
type Result struct {
	Feature   string
	Granted   bool
	GrantedBy Source
	Decisions []SourceDecision
}
