package stripe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
)

const testSecret = "whsec_test_secret"

func sign(t *testing.T, secret, payload string) (string, []byte) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Header, signed.Payload
}

func TestWebhookVerifier_CheckoutCompleted(t *testing.T) {
	payload := `{"id":"evt_1","object":"event","type":"checkout.session.completed","created":1735689600,
		"data":{"object":{"id":"cs_1","mode":"payment","customer":"cus_1","payment_intent":"pi_1",
		"amount_total":1999,"currency":"usd","customer_details":{"email":"a@example.com"},
		"metadata":{"user_id":"7","plan_id":"2","plan_type":"one_time","product_type":"bidding_package"}}}}`
	header, body := sign(t, testSecret, payload)

	event, err := NewWebhookVerifier(testSecret).VerifyAndParse(body, header)
	require.NoError(t, err)

	checkout, ok := event.(billing.CheckoutCompleted)
	require.True(t, ok, "got %T", event)
	assert.Equal(t, "evt_1", checkout.ID)
	assert.Equal(t, billing.TypeCheckoutSessionCompleted, checkout.Type)
	assert.Equal(t, time.Unix(1735689600, 0).UTC(), checkout.Created)
	assert.Equal(t, billing.CheckoutModePayment, checkout.Mode)
	assert.Equal(t, "cus_1", checkout.CustomerID)
	assert.Equal(t, "pi_1", checkout.PaymentIntentID)
	assert.Equal(t, int64(1999), checkout.AmountTotal)
	assert.Equal(t, billing.ProductTypeBiddingPackage, checkout.ProductType)
	assert.Equal(t, "a@example.com", checkout.ClientReferenceEmail)
	assert.Equal(t, "2", checkout.Metadata[billing.MetadataPlanID])
}

func TestWebhookVerifier_RejectsBadSignatures(t *testing.T) {
	payload := `{"id":"evt_1","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`

	t.Run("wrong secret", func(t *testing.T) {
		header, body := sign(t, "whsec_other", payload)
		_, err := NewWebhookVerifier(testSecret).VerifyAndParse(body, header)
		assert.True(t, errors.Is(err, paymentgateway.ErrInvalidSignature))
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := NewWebhookVerifier(testSecret).VerifyAndParse([]byte(payload), "")
		assert.True(t, errors.Is(err, paymentgateway.ErrInvalidSignature))
	})

	t.Run("tampered body", func(t *testing.T) {
		header, _ := sign(t, testSecret, payload)
		_, err := NewWebhookVerifier(testSecret).VerifyAndParse([]byte(payload+" "), header)
		assert.True(t, errors.Is(err, paymentgateway.ErrInvalidSignature))
	})

	t.Run("no secret configured", func(t *testing.T) {
		header, body := sign(t, testSecret, payload)
		_, err := NewWebhookVerifier("").VerifyAndParse(body, header)
		require.Error(t, err)
		assert.False(t, errors.Is(err, paymentgateway.ErrInvalidSignature))
	})
}

func TestWebhookVerifier_UnhandledType(t *testing.T) {
	header, body := sign(t, testSecret, `{"id":"evt_9","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)

	event, err := NewWebhookVerifier(testSecret).VerifyAndParse(body, header)
	require.NoError(t, err)

	unhandled, ok := event.(billing.Unhandled)
	require.True(t, ok)
	assert.Equal(t, "customer.created", unhandled.Type)
	assert.Equal(t, "evt_9", unhandled.EventMeta().ID)
}
