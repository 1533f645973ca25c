package stripe

import (
	"encoding/json"
	"fmt"
	"time"

	stripego "github.com/stripe/stripe-go/v82"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
)

// ParseEvent converts a verified provider event into the internal schema.
// Types the reconciler does not model come back as billing.Unhandled.
func ParseEvent(event stripego.Event) (billing.Event, error) {
	meta := billing.Meta{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: unixTime(event.Created),
	}

	var raw json.RawMessage
	if event.Data != nil {
		raw = event.Data.Raw
	}

	switch meta.Type {
	case billing.TypeCheckoutSessionCompleted:
		var p checkoutSessionPayload
		if err := decode(raw, &p, "checkout.session"); err != nil {
			return nil, err
		}
		return checkoutCompleted(meta, p), nil

	case billing.TypeSubscriptionCreated, billing.TypeSubscriptionUpdated:
		snapshot, err := ParseSubscription(raw)
		if err != nil {
			return nil, err
		}
		kind := billing.SubscriptionUpdated
		if meta.Type == billing.TypeSubscriptionCreated {
			kind = billing.SubscriptionCreated
		}
		return billing.SubscriptionChanged{Meta: meta, Kind: kind, Subscription: *snapshot}, nil

	case billing.TypeSubscriptionDeleted:
		snapshot, err := ParseSubscription(raw)
		if err != nil {
			return nil, err
		}
		return billing.SubscriptionDeleted{Meta: meta, Subscription: *snapshot}, nil

	case billing.TypeInvoicePaid, billing.TypeInvoicePaymentSucceeded:
		var p invoicePayload
		if err := decode(raw, &p, "invoice"); err != nil {
			return nil, err
		}
		return billing.InvoicePaid{Meta: meta, Invoice: invoiceSnapshot(p)}, nil

	case billing.TypeInvoicePaymentFailed:
		var p invoicePayload
		if err := decode(raw, &p, "invoice"); err != nil {
			return nil, err
		}
		return billing.InvoicePaymentFailed{Meta: meta, Invoice: invoiceSnapshot(p)}, nil

	case billing.TypeChargeRefunded:
		var p chargePayload
		if err := decode(raw, &p, "charge"); err != nil {
			return nil, err
		}
		return chargeRefunded(meta, p), nil

	default:
		return billing.Unhandled{Meta: meta}, nil
	}
}

// ParseSubscription decodes a subscription object, either from an event or
// from an API response body.
func ParseSubscription(raw []byte) (*billing.SubscriptionSnapshot, error) {
	var p subscriptionPayload
	if err := decode(raw, &p, "subscription"); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, fmt.Errorf("decode subscription: missing id")
	}

	snapshot := &billing.SubscriptionSnapshot{
		ID:                 p.ID,
		CustomerID:         p.Customer.String(),
		Status:             p.Status,
		CurrentPeriodStart: unixTimePtr(p.CurrentPeriodStart),
		CurrentPeriodEnd:   unixTimePtr(p.CurrentPeriodEnd),
		CancelAtPeriodEnd:  p.CancelAtPeriodEnd,
		CancelAt:           unixTimePtr(p.CancelAt),
		CanceledAt:         unixTimePtr(p.CanceledAt),
		EndedAt:            unixTimePtr(p.EndedAt),
		TrialStart:         unixTimePtr(p.TrialStart),
		TrialEnd:           unixTimePtr(p.TrialEnd),
		Metadata:           p.Metadata,
	}
	if len(p.Items.Data) > 0 {
		item := p.Items.Data[0]
		snapshot.PriceID = item.Price.ID
		if snapshot.CurrentPeriodStart == nil {
			snapshot.CurrentPeriodStart = unixTimePtr(item.CurrentPeriodStart)
		}
		if snapshot.CurrentPeriodEnd == nil {
			snapshot.CurrentPeriodEnd = unixTimePtr(item.CurrentPeriodEnd)
		}
	}
	if snapshot.Metadata == nil {
		snapshot.Metadata = map[string]string{}
	}
	return snapshot, nil
}

func checkoutCompleted(meta billing.Meta, p checkoutSessionPayload) billing.CheckoutCompleted {
	email := p.CustomerDetails.Email
	if email == "" {
		email = p.CustomerEmail
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return billing.CheckoutCompleted{
		Meta:                 meta,
		SessionID:            p.ID,
		Mode:                 billing.CheckoutMode(p.Mode),
		CustomerID:           p.Customer.String(),
		SubscriptionID:       p.Subscription.String(),
		PaymentIntentID:      p.PaymentIntent.String(),
		AmountTotal:          p.AmountTotal,
		Currency:             p.Currency,
		ProductType:          metadata[billing.MetadataProductType],
		ClientReferenceEmail: email,
		Metadata:             metadata,
	}
}

func invoiceSnapshot(p invoicePayload) billing.InvoiceSnapshot {
	subscriptionID := p.Subscription.String()
	if subscriptionID == "" {
		subscriptionID = p.Parent.SubscriptionDetails.Subscription.String()
	}
	var failure string
	if p.LastFinalizationError != nil {
		failure = p.LastFinalizationError.Message
	}
	return billing.InvoiceSnapshot{
		ID:               p.ID,
		CustomerID:       p.Customer.String(),
		SubscriptionID:   subscriptionID,
		PaymentIntentID:  p.PaymentIntent.String(),
		ChargeID:         p.Charge.String(),
		AmountPaid:       p.AmountPaid,
		AmountDue:        p.AmountDue,
		Currency:         p.Currency,
		HostedInvoiceURL: p.HostedInvoiceURL,
		InvoicePDF:       p.InvoicePDF,
		FailureReason:    failure,
		BillingReason:    p.BillingReason,
	}
}

func chargeRefunded(meta billing.Meta, p chargePayload) billing.ChargeRefunded {
	var reason string
	if len(p.Refunds.Data) > 0 {
		reason = p.Refunds.Data[0].Reason
	}
	return billing.ChargeRefunded{
		Meta:            meta,
		ChargeID:        p.ID,
		CustomerID:      p.Customer.String(),
		PaymentIntentID: p.PaymentIntent.String(),
		AmountRefunded:  p.AmountRefunded,
		Currency:        p.Currency,
		Reason:          reason,
		ReceiptURL:      p.ReceiptURL,
		FullyRefunded:   p.Refunded || (p.Amount > 0 && p.AmountRefunded >= p.Amount),
	}
}

func decode(raw []byte, into interface{}, object string) error {
	if len(raw) == 0 {
		return fmt.Errorf("decode %s: empty payload", object)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode %s: %w", object, err)
	}
	return nil
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func unixTimePtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
