// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics exposes the Prometheus metrics of the flights
// aggregation, namely the supplier calls outcomes and latencies and
// the state of their circuit breakers.
package metrics

import (
	"net/http"
	"time"

	"github.com/momeni/flightagg/pkg/core/repo"
	"github.com/momeni/flightagg/pkg/core/resilience"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the metrics of one application instance. It uses its
// own prometheus registry, so instances are independent of each other
// and of the global prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	SupplierCalls   *prometheus.CounterVec   // by supplier and outcome
	SupplierLatency *prometheus.HistogramVec // by supplier
	SupplierFlights *prometheus.CounterVec   // by supplier
	BreakerState    *prometheus.GaugeVec     // by supplier, 0/1/2
}

// NewRegistry creates a Registry and registers all of its metrics.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightagg_supplier_calls_total",
		Help: "Number of supplier searches by their outcome.",
	}, []string{"supplier", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flightagg_supplier_latency_seconds",
		Help:    "Duration of supplier searches.",
		Buckets: []float64{.01, .025, .05, .1, .2, .3, .5, 1},
	}, []string{"supplier"})
	flights := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightagg_supplier_flights_total",
		Help: "Number of flights which are returned by suppliers.",
	}, []string{"supplier"})
	breaker := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "flightagg_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open.",
	}, []string{"supplier"})

	r.MustRegister(calls, latency, flights, breaker)
	return &Registry{
		reg:             r,
		SupplierCalls:   calls,
		SupplierLatency: latency,
		SupplierFlights: flights,
		BreakerState:    breaker,
	}
}

// SupplierSearched records the outcome of one supplier search.
// It implements the flightsuc.Observer interface.
func (r *Registry) SupplierSearched(
	supplier string, flights int, elapsed time.Duration, err error,
) {
	r.SupplierCalls.WithLabelValues(supplier, repo.FailureKind(err)).Inc()
	r.SupplierLatency.WithLabelValues(supplier).Observe(elapsed.Seconds())
	r.SupplierFlights.WithLabelValues(supplier).Add(float64(flights))
}

// BreakerStateChanged returns a listener which tracks the state of the
// circuit breaker of the given supplier. The gauge is initialized as
// closed, so it is exposed before the first transition.
func (r *Registry) BreakerStateChanged(
	supplier string,
) func(from, to resilience.State) {
	g := r.BreakerState.WithLabelValues(supplier)
	g.Set(stateValue(resilience.StateClosed))
	return func(_, to resilience.State) {
		g.Set(stateValue(to))
	}
}

func stateValue(s resilience.State) float64 {
	switch s {
	case resilience.StateOpen:
		return 1
	case resilience.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// Handler returns an HTTP handler which exposes the metrics in the
// Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
