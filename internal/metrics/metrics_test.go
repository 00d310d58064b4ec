package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printcost/internal/margin"
)

func TestCollector_Counts(t *testing.T) {
	c := NewCollector()

	c.ObserveQuote(margin.Good, 2*time.Millisecond)
	c.ObserveQuote(margin.Good, time.Millisecond)
	c.ObserveQuote(margin.HeavyLoss, time.Millisecond)
	c.ObserveRecorded()
	c.ObserveValidationFailure()
	c.ObserveValidationFailure()

	assert.Equal(t, 3.0, testutil.ToFloat64(c.quotes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobsRecorded))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.validationFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.tiers.WithLabelValues("good")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tiers.WithLabelValues("heavy_loss")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveQuote(margin.Excellent, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `printcost_margin_tier_total{tier="excellent"} 1`), body)
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestCollectors_AreIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector()
		NewCollector()
	})
}
