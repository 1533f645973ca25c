package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WebhookProcessed("invoice.paid", OutcomeProcessed, 10*time.Millisecond)
	m.WebhookProcessed("invoice.paid", OutcomeProcessed, 0)
	m.WebhookProcessed("", OutcomeRejected, 0)
	m.CheckoutStarted("payment", "created")
	m.DatasetRead("player_cards", "free")
	m.ObserveHTTP("GET", "/api/v1/:dataset/cards", 200, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("invoice.paid", OutcomeProcessed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("unknown", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues("payment", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.datasetReads.WithLabelValues("player_cards", "free")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/:dataset/cards", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.webhookDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.WebhookProcessed("invoice.paid", OutcomeFailed, time.Second)
		m.CheckoutStarted("subscription", "failed")
		m.DatasetRead("team_cards", "premium")
		m.ObserveHTTP("GET", "/", 500, time.Second)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.CheckoutStarted("subscription", "created")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tsapi_billing_checkout_sessions_total{mode="subscription",outcome="created"} 1`)
}
