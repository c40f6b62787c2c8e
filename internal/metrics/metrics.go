// Package metrics provides the Prometheus collectors used to observe calculations.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "options_lab"

// Collectors groups the application metrics behind a private registry.
type Collectors struct {
	registry *prom.Registry

	payoffFailures *prom.CounterVec
	curves         *prom.CounterVec
	greeks         prom.Counter
	validations    *prom.CounterVec
	requests       *prom.SummaryVec
}

// New creates and registers the collectors on a fresh registry.
func New() *Collectors {
	c := &Collectors{
		registry: prom.NewRegistry(),
		payoffFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "payoff_failures_total",
			Help:      "Payoff samples that failed and were replaced with zero.",
		}, []string{"strategy"}),
		curves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "payoff_curves_total",
			Help:      "Payoff curves generated.",
		}, []string{"strategy"}),
		greeks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "greeks_estimates_total",
			Help:      "Greeks estimates computed.",
		}),
		validations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Parameter validations by outcome.",
		}, []string{"result"}),
		requests: prom.NewSummaryVec(prom.SummaryOpts{
			Namespace:  namespace,
			Name:       "http_request_duration_seconds",
			Help:       "HTTP request latency.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"route", "code"}),
	}

	c.registry.MustRegister(c.payoffFailures, c.curves, c.greeks, c.validations, c.requests)
	return c
}

// RecordPayoffFailure counts one failed payoff sample.
func (c *Collectors) RecordPayoffFailure(strategyID string) {
	c.payoffFailures.WithLabelValues(strategyID).Inc()
}

// RecordCurve counts one generated curve.
func (c *Collectors) RecordCurve(strategyID string) {
	c.curves.WithLabelValues(strategyID).Inc()
}

// RecordGreeks counts one Greeks estimate.
func (c *Collectors) RecordGreeks() {
	c.greeks.Inc()
}

// RecordValidation counts a validation outcome.
func (c *Collectors) RecordValidation(ok bool) {
	result := "valid"
	if !ok {
		result = "invalid"
	}
	c.validations.WithLabelValues(result).Inc()
}

// ObserveRequest records the latency of an HTTP request in seconds.
func (c *Collectors) ObserveRequest(route, code string, seconds float64) {
	c.requests.WithLabelValues(route, code).Observe(seconds)
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collectors) Registry() *prom.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// CurvesCounter returns the curve counter for one strategy.
func (c *Collectors) CurvesCounter(strategyID string) prom.Counter {
	return c.curves.WithLabelValues(strategyID)
}

// PayoffFailuresCounter returns the failure counter for one strategy.
func (c *Collectors) PayoffFailuresCounter(strategyID string) prom.Counter {
	return c.payoffFailures.WithLabelValues(strategyID)
}
