package valueobjects

// PurchaseStatus is the lifecycle state of a one-time purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusRefunded  PurchaseStatus = "refunded"
	PurchaseStatusFailed    PurchaseStatus = "failed"
)

func (s PurchaseStatus) String() string {
	return string(s)
}

func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusPending:
		return target == PurchaseStatusCompleted || target == PurchaseStatusFailed
	case PurchaseStatusCompleted:
		return target == PurchaseStatusRefunded
	default:
		return false
	}
}

var ValidPurchaseStatuses = map[PurchaseStatus]bool{
	PurchaseStatusPending:   true,
	PurchaseStatusCompleted: true,
	PurchaseStatusRefunded:  true,
	PurchaseStatusFailed:    true,
}

// PaymentEventType labels a payment history row.
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "payment_succeeded"
	PaymentEventFailed    PaymentEventType = "payment_failed"
	PaymentEventRefund    PaymentEventType = "refund"
)

// PaymentStatus is the outcome recorded on a payment history row.
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)
