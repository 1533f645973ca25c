package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventMeta(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	meta := Meta{ID: "evt_1", Type: TypeInvoicePaid, Created: created}

	events := []Event{
		CheckoutCompleted{Meta: meta},
		SubscriptionChanged{Meta: meta},
		SubscriptionDeleted{Meta: meta},
		InvoicePaid{Meta: meta},
		InvoicePaymentFailed{Meta: meta},
		ChargeRefunded{Meta: meta},
		Unhandled{Meta: meta},
	}

	for _, e := range events {
		assert.Equal(t, meta, e.EventMeta())
	}
}
