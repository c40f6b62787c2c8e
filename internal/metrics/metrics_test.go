package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsCount(t *testing.T) {
	c := New()

	c.RecordPayoffFailure("long-call")
	c.RecordPayoffFailure("long-call")
	c.RecordCurve("long-put")
	c.RecordGreeks()
	c.RecordValidation(true)
	c.RecordValidation(false)
	c.RecordValidation(false)

	if got := testutil.ToFloat64(c.PayoffFailuresCounter("long-call")); got != 2 {
		t.Errorf("payoff failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.CurvesCounter("long-put")); got != 1 {
		t.Errorf("curves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.greeks); got != 1 {
		t.Errorf("greeks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.validations.WithLabelValues("invalid")); got != 2 {
		t.Errorf("invalid validations = %v, want 2", got)
	}
}

func TestCollectorsArePrivate(t *testing.T) {
	// Two sets of collectors must not clash on registration.
	a, b := New(), New()
	a.RecordGreeks()

	if got := testutil.ToFloat64(b.greeks); got != 0 {
		t.Errorf("second registry saw %v greeks, want 0", got)
	}
}

func TestHandlerExposition(t *testing.T) {
	c := New()
	c.RecordCurve("covered-call")
	c.ObserveRequest("/api/v1/greeks", "200", 0.01)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`options_lab_payoff_curves_total{strategy="covered-call"} 1`,
		`options_lab_http_request_duration_seconds_count{code="200",route="/api/v1/greeks"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
