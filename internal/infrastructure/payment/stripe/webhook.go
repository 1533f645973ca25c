package stripe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
)

// WebhookVerifier checks the Stripe-Signature header and parses the event.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: strings.TrimSpace(secret)}
}

// VerifyAndParse rejects payloads whose signature does not match the
// configured endpoint secret. API version mismatches are ignored since only
// a handful of stable fields are read.
func (v *WebhookVerifier) VerifyAndParse(payload []byte, signatureHeader string) (billing.Event, error) {
	if v.secret == "" {
		return nil, errors.New("stripe webhook secret is not configured")
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, fmt.Errorf("%w: missing signature header", paymentgateway.ErrInvalidSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentgateway.ErrInvalidSignature, err)
	}

	return ParseEvent(event)
}
