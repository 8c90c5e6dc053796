// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package metrics_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momeni/flightagg/pkg/adapter/metrics"
	"github.com/momeni/flightagg/pkg/core/repo"
	"github.com/momeni/flightagg/pkg/core/resilience"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierSearched(t *testing.T) {
	r := metrics.NewRegistry()
	r.SupplierSearched("CrazyAir", 3, 20*time.Millisecond, nil)
	r.SupplierSearched("CrazyAir", 2, 30*time.Millisecond, nil)
	r.SupplierSearched("CrazyAir", 0, 300*time.Millisecond,
		fmt.Errorf("%w: slow", repo.ErrTimeout))
	r.SupplierSearched("ToughJet", 0, time.Millisecond, repo.ErrCircuitOpen)

	calls := r.SupplierCalls
	assert.Equal(t, 2.0, testutil.ToFloat64(calls.WithLabelValues("CrazyAir", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(calls.WithLabelValues("CrazyAir", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(calls.WithLabelValues("ToughJet", "circuit_open")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.SupplierFlights.WithLabelValues("CrazyAir")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.SupplierLatency))
}

func TestBreakerStateChanged(t *testing.T) {
	r := metrics.NewRegistry()
	listener := r.BreakerStateChanged("ToughJet")
	g := r.BreakerState.WithLabelValues("ToughJet")
	assert.Equal(t, 0.0, testutil.ToFloat64(g))

	listener(resilience.StateClosed, resilience.StateOpen)
	assert.Equal(t, 1.0, testutil.ToFloat64(g))
	listener(resilience.StateOpen, resilience.StateHalfOpen)
	assert.Equal(t, 2.0, testutil.ToFloat64(g))
	listener(resilience.StateHalfOpen, resilience.StateClosed)
	assert.Equal(t, 0.0, testutil.ToFloat64(g))
}

func TestBreakerGaugeFollowsBreaker(t *testing.T) {
	r := metrics.NewRegistry()
	s := resilience.DefaultBreakerSettings()
	s.FailureThreshold, s.FailureWindow = 1, 1
	b, err := resilience.NewBreaker(
		s, resilience.WithStateListener(r.BreakerStateChanged("CrazyAir")),
	)
	require.NoError(t, err)
	done, err := b.Allow()
	require.NoError(t, err)
	done(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(
		r.BreakerState.WithLabelValues("CrazyAir"),
	))
}

func TestHandler(t *testing.T) {
	r := metrics.NewRegistry()
	r.SupplierSearched("CrazyAir", 1, time.Millisecond, nil)
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body),
		`flightagg_supplier_calls_total{outcome="ok",supplier="CrazyAir"} 1`)
}
