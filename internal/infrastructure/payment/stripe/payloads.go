package stripe

import (
	"bytes"
	"encoding/json"
)

// objectID decodes a field the provider sends either as a bare id or, when
// expanded, as an object carrying one.
type objectID string

func (o *objectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = objectID(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*o = objectID(obj.ID)
	return nil
}

func (o objectID) String() string {
	return string(o)
}

type checkoutSessionPayload struct {
	ID              string   `json:"id"`
	Mode            string   `json:"mode"`
	Customer        objectID `json:"customer"`
	Subscription    objectID `json:"subscription"`
	PaymentIntent   objectID `json:"payment_intent"`
	AmountTotal     int64    `json:"amount_total"`
	Currency        string   `json:"currency"`
	CustomerEmail   string   `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
}

// subscriptionPayload accepts both the pre-2025 layout (period on the
// subscription) and the current one (period on each item).
type subscriptionPayload struct {
	ID                 string   `json:"id"`
	Customer           objectID `json:"customer"`
	Status             string   `json:"status"`
	CurrentPeriodStart int64    `json:"current_period_start"`
	CurrentPeriodEnd   int64    `json:"current_period_end"`
	CancelAtPeriodEnd  bool     `json:"cancel_at_period_end"`
	CancelAt           int64    `json:"cancel_at"`
	CanceledAt         int64    `json:"canceled_at"`
	EndedAt            int64    `json:"ended_at"`
	TrialStart         int64    `json:"trial_start"`
	TrialEnd           int64    `json:"trial_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
		} `json:"data"`
	} `json:"items"`
	Metadata map[string]string `json:"metadata"`
}

type invoicePayload struct {
	ID               string   `json:"id"`
	Customer         objectID `json:"customer"`
	Subscription     objectID `json:"subscription"`
	PaymentIntent    objectID `json:"payment_intent"`
	Charge           objectID `json:"charge"`
	AmountPaid       int64    `json:"amount_paid"`
	AmountDue        int64    `json:"amount_due"`
	Currency         string   `json:"currency"`
	HostedInvoiceURL string   `json:"hosted_invoice_url"`
	InvoicePDF       string   `json:"invoice_pdf"`
	BillingReason    string   `json:"billing_reason"`
	Parent           struct {
		SubscriptionDetails struct {
			Subscription objectID `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
	LastFinalizationError *struct {
		Message string `json:"message"`
	} `json:"last_finalization_error"`
}

type chargePayload struct {
	ID             string   `json:"id"`
	Customer       objectID `json:"customer"`
	PaymentIntent  objectID `json:"payment_intent"`
	Amount         int64    `json:"amount"`
	AmountRefunded int64    `json:"amount_refunded"`
	Currency       string   `json:"currency"`
	Refunded       bool     `json:"refunded"`
	ReceiptURL     string   `json:"receipt_url"`
	Refunds        struct {
		Data []struct {
			Reason string `json:"reason"`
		} `json:"data"`
	} `json:"refunds"`
}
