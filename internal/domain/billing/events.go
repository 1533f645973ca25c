// Package billing defines the internal schema for payment provider events.
// The provider boundary parses raw payloads into these variants; the
// reconciler only ever switches over them.
package billing

import "time"

// Meta is carried by every event.
type Meta struct {
	// ID is the provider event id, used as the idempotency key
	ID      string
	Type    string
	Created time.Time
}

// Event is a sealed union over the event types the reconciler understands.
type Event interface {
	EventMeta() Meta
	sealed()
}

// CheckoutMode mirrors the checkout session mode.
type CheckoutMode string

const (
	CheckoutModePayment      CheckoutMode = "payment"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

// CheckoutCompleted is checkout.session.completed.
type CheckoutCompleted struct {
	Meta
	SessionID            string
	Mode                 CheckoutMode
	CustomerID           string
	SubscriptionID       string
	PaymentIntentID      string
	AmountTotal          int64
	Currency             string
	ProductType          string
	ClientReferenceEmail string
	Metadata             map[string]string
}

// SubscriptionSnapshot is the provider's view of a subscription at event time.
type SubscriptionSnapshot struct {
	ID                 string
	CustomerID         string
	Status             string
	PriceID            string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	CancelAt           *time.Time
	CanceledAt         *time.Time
	EndedAt            *time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	Metadata           map[string]string
}

// SubscriptionChangeKind distinguishes created from updated.
type SubscriptionChangeKind string

const (
	SubscriptionCreated SubscriptionChangeKind = "created"
	SubscriptionUpdated SubscriptionChangeKind = "updated"
	// SubscriptionSynced marks a snapshot pulled on demand rather than pushed
	SubscriptionSynced SubscriptionChangeKind = "synced"
)

// SubscriptionChanged is customer.subscription.created or .updated.
type SubscriptionChanged struct {
	Meta
	Kind         SubscriptionChangeKind
	Subscription SubscriptionSnapshot
}

// SubscriptionDeleted is customer.subscription.deleted.
type SubscriptionDeleted struct {
	Meta
	Subscription SubscriptionSnapshot
}

// InvoiceSnapshot is the subset of an invoice the reconciler records.
type InvoiceSnapshot struct {
	ID               string
	CustomerID       string
	SubscriptionID   string
	PaymentIntentID  string
	ChargeID         string
	AmountPaid       int64
	AmountDue        int64
	Currency         string
	HostedInvoiceURL string
	InvoicePDF       string
	FailureReason    string
	BillingReason    string
}

// InvoicePaid is invoice.paid / invoice.payment_succeeded.
type InvoicePaid struct {
	Meta
	Invoice InvoiceSnapshot
}

// InvoicePaymentFailed is invoice.payment_failed.
type InvoicePaymentFailed struct {
	Meta
	Invoice InvoiceSnapshot
}

// ChargeRefunded is charge.refunded.
type ChargeRefunded struct {
	Meta
	ChargeID        string
	CustomerID      string
	PaymentIntentID string
	AmountRefunded  int64
	Currency        string
	Reason          string
	ReceiptURL      string
	FullyRefunded   bool
}

// Unhandled is any event type the reconciler does not model.
type Unhandled struct {
	Meta
}

func (m Meta) EventMeta() Meta { return m }

func (CheckoutCompleted) sealed()    {}
func (SubscriptionChanged) sealed()  {}
func (SubscriptionDeleted) sealed()  {}
func (InvoicePaid) sealed()          {}
func (InvoicePaymentFailed) sealed() {}
func (ChargeRefunded) sealed()       {}
func (Unhandled) sealed()            {}

// Provider event type names.
const (
	TypeCheckoutSessionCompleted = "checkout.session.completed"
	TypeSubscriptionCreated      = "customer.subscription.created"
	TypeSubscriptionUpdated      = "customer.subscription.updated"
	TypeSubscriptionDeleted      = "customer.subscription.deleted"
	TypeInvoicePaid              = "invoice.paid"
	TypeInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	TypeInvoicePaymentFailed     = "invoice.payment_failed"
	TypeChargeRefunded           = "charge.refunded"
)

// Metadata keys written on checkout sessions and subscriptions.
const (
	MetadataUserID      = "user_id"
	MetadataPlanID      = "plan_id"
	MetadataPlanType    = "plan_type"
	MetadataProductType = "product_type"
)

// ProductTypeBiddingPackage tags one-time checkouts for the bidding package.
const ProductTypeBiddingPackage = "bidding_package"
