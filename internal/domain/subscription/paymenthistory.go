package subscription

import (
	"fmt"
	"time"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/id"
)

// PaymentHistory is an append-only record of a monetary billing event.
type PaymentHistory struct {
	id                    uint
	sid                   string
	userID                uint
	subscriptionID        *uint
	purchaseID            *uint
	stripeInvoiceID       *string
	stripePaymentIntentID *string
	stripeChargeID        *string
	eventType             vo.PaymentEventType
	amount                vo.Money
	status                vo.PaymentStatus
	failureReason         *string
	refundReason          *string
	invoiceURL            *string
	receiptURL            *string
	metadata              map[string]interface{}
	eventAt               time.Time
	createdAt             time.Time
}

// PaymentRecord carries the fields of a new history row.
type PaymentRecord struct {
	UserID                uint
	SubscriptionID        *uint
	PurchaseID            *uint
	StripeInvoiceID       *string
	StripePaymentIntentID *string
	StripeChargeID        *string
	EventType             vo.PaymentEventType
	AmountCents           int64
	Currency              string
	Status                vo.PaymentStatus
	FailureReason         *string
	RefundReason          *string
	InvoiceURL            *string
	ReceiptURL            *string
	Metadata              map[string]interface{}
	EventAt               time.Time
}

func NewPaymentHistory(r PaymentRecord) (*PaymentHistory, error) {
	if r.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if r.EventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	if r.Status == "" {
		return nil, fmt.Errorf("payment status is required")
	}

	currency := r.Currency
	if currency == "" {
		currency = "usd"
	}
	amount, err := vo.NewMoney(r.AmountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid payment amount: %w", err)
	}

	sid, err := id.NewPaymentSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment SID: %w", err)
	}

	metadata := r.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	now := time.Now().UTC()
	eventAt := r.EventAt
	if eventAt.IsZero() {
		eventAt = now
	}

	return &PaymentHistory{
		sid:                   sid,
		userID:                r.UserID,
		subscriptionID:        r.SubscriptionID,
		purchaseID:            r.PurchaseID,
		stripeInvoiceID:       r.StripeInvoiceID,
		stripePaymentIntentID: r.StripePaymentIntentID,
		stripeChargeID:        r.StripeChargeID,
		eventType:             r.EventType,
		amount:                amount,
		status:                r.Status,
		failureReason:         r.FailureReason,
		refundReason:          r.RefundReason,
		invoiceURL:            r.InvoiceURL,
		receiptURL:            r.ReceiptURL,
		metadata:              metadata,
		eventAt:               eventAt.UTC(),
		createdAt:             now,
	}, nil
}

// ReconstructPaymentHistory rebuilds a stored row. id and createdAt come from persistence.
func ReconstructPaymentHistory(id uint, sid string, r PaymentRecord, createdAt time.Time) (*PaymentHistory, error) {
	if id == 0 {
		return nil, fmt.Errorf("payment history ID cannot be zero")
	}
	amount, err := vo.NewMoney(r.AmountCents, r.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid payment amount: %w", err)
	}

	metadata := r.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &PaymentHistory{
		id:                    id,
		sid:                   sid,
		userID:                r.UserID,
		subscriptionID:        r.SubscriptionID,
		purchaseID:            r.PurchaseID,
		stripeInvoiceID:       r.StripeInvoiceID,
		stripePaymentIntentID: r.StripePaymentIntentID,
		stripeChargeID:        r.StripeChargeID,
		eventType:             r.EventType,
		amount:                amount,
		status:                r.Status,
		failureReason:         r.FailureReason,
		refundReason:          r.RefundReason,
		invoiceURL:            r.InvoiceURL,
		receiptURL:            r.ReceiptURL,
		metadata:              metadata,
		eventAt:               r.EventAt,
		createdAt:             createdAt,
	}, nil
}

func (h *PaymentHistory) ID() uint                         { return h.id }
func (h *PaymentHistory) SID() string                      { return h.sid }
func (h *PaymentHistory) UserID() uint                     { return h.userID }
func (h *PaymentHistory) SubscriptionID() *uint            { return h.subscriptionID }
func (h *PaymentHistory) PurchaseID() *uint                { return h.purchaseID }
func (h *PaymentHistory) StripeInvoiceID() *string         { return h.stripeInvoiceID }
func (h *PaymentHistory) StripePaymentIntentID() *string   { return h.stripePaymentIntentID }
func (h *PaymentHistory) StripeChargeID() *string          { return h.stripeChargeID }
func (h *PaymentHistory) EventType() vo.PaymentEventType   { return h.eventType }
func (h *PaymentHistory) Amount() vo.Money                 { return h.amount }
func (h *PaymentHistory) Status() vo.PaymentStatus         { return h.status }
func (h *PaymentHistory) FailureReason() *string           { return h.failureReason }
func (h *PaymentHistory) RefundReason() *string            { return h.refundReason }
func (h *PaymentHistory) InvoiceURL() *string              { return h.invoiceURL }
func (h *PaymentHistory) ReceiptURL() *string              { return h.receiptURL }
func (h *PaymentHistory) Metadata() map[string]interface{} { return h.metadata }
func (h *PaymentHistory) EventAt() time.Time               { return h.eventAt }
func (h *PaymentHistory) CreatedAt() time.Time             { return h.createdAt }

func (h *PaymentHistory) SetID(id uint) error {
	if h.id != 0 {
		return fmt.Errorf("payment history ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("payment history ID cannot be zero")
	}
	h.id = id
	return nil
}
