// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/momeni/flightagg/pkg/adapter/config/settings"
	"github.com/momeni/flightagg/pkg/adapter/metrics"
	"github.com/momeni/flightagg/pkg/adapter/supplier"
	"github.com/momeni/flightagg/pkg/adapter/supplier/crazyair"
	"github.com/momeni/flightagg/pkg/adapter/supplier/toughjet"
	"github.com/momeni/flightagg/pkg/core/log"
	"github.com/momeni/flightagg/pkg/core/repo"
	"github.com/momeni/flightagg/pkg/core/resilience"
	"github.com/momeni/flightagg/pkg/core/usecase/flightsuc"
)

// Acceptable range of the timeouts and intervals, inclusive.
var (
	minDuration = ptr(settings.Duration(time.Millisecond))
	maxDuration = ptr(settings.Duration(10 * time.Minute))
)

// HTTPClient contains the connection pool settings which are used for
// each supplier HTTP client.
type HTTPClient struct {
	ConnectTimeout    *settings.Duration `yaml:"connect-timeout"`
	ResponseTimeout   *settings.Duration `yaml:"response-timeout"`
	KeepAlive         *settings.Duration `yaml:"keep-alive"`
	IdleTimeout       *settings.Duration `yaml:"idle-timeout"`
	IdleSweepInterval *settings.Duration `yaml:"idle-sweep-interval"`
	MaxIdleConns      *int               `yaml:"max-idle-conns"`
	MaxConnsPerHost   *int               `yaml:"max-conns-per-host"`
}

// ValidateAndNormalize fills the missing settings by the values of the
// supplier.DefaultClientSettings and checks their ranges.
func (h *HTTPClient) ValidateAndNormalize() error {
	d := supplier.DefaultClientSettings()
	for _, s := range []struct {
		name string
		val  **settings.Duration
		def  time.Duration
	}{
		{"connect-timeout", &h.ConnectTimeout, d.ConnectTimeout},
		{"response-timeout", &h.ResponseTimeout, d.ResponseTimeout},
		{"keep-alive", &h.KeepAlive, d.KeepAlive},
		{"idle-timeout", &h.IdleTimeout, d.IdleTimeout},
		{"idle-sweep-interval", &h.IdleSweepInterval, 5 * time.Second},
	} {
		settings.OverwriteNil(s.val, ptr(settings.Duration(s.def)))
		if err := settings.VerifyRange(
			s.val, minDuration, maxDuration,
		); err != nil {
			return fmt.Errorf("%s=%v: %w", s.name, err.Value, err)
		}
	}
	settings.OverwriteNil(&h.MaxIdleConns, ptr(d.MaxIdleConns))
	settings.OverwriteNil(&h.MaxConnsPerHost, ptr(d.MaxConnsPerHost))
	if err := settings.VerifyRange(
		&h.MaxIdleConns, ptr(1), ptr(100_000),
	); err != nil {
		return fmt.Errorf("max-idle-conns=%v: %w", *err.Value, err)
	}
	if err := settings.VerifyRange(
		&h.MaxConnsPerHost, ptr(1), h.MaxIdleConns,
	); err != nil {
		return fmt.Errorf("max-conns-per-host=%v: %w", *err.Value, err)
	}
	return nil
}

// ClientSettings converts `h` to the supplier.ClientSettings.
func (h HTTPClient) ClientSettings() supplier.ClientSettings {
	return supplier.ClientSettings{
		ConnectTimeout:  time.Duration(*h.ConnectTimeout),
		ResponseTimeout: time.Duration(*h.ResponseTimeout),
		KeepAlive:       time.Duration(*h.KeepAlive),
		IdleTimeout:     time.Duration(*h.IdleTimeout),
		MaxIdleConns:    *h.MaxIdleConns,
		MaxConnsPerHost: *h.MaxConnsPerHost,
	}
}

// Suppliers contains the settings of all known supplier adapters.
// Suppliers are searched in the order of their fields.
type Suppliers struct {
	CrazyAir Supplier `yaml:"crazy-air"`
	ToughJet Supplier `yaml:"tough-jet"`
}

// ValidateAndNormalize validates the settings of each supplier.
func (s *Suppliers) ValidateAndNormalize() error {
	if err := s.CrazyAir.ValidateAndNormalize(crazyair.DefaultURL); err != nil {
		return fmt.Errorf("crazy-air: %w", err)
	}
	if err := s.ToughJet.ValidateAndNormalize(toughjet.DefaultURL); err != nil {
		return fmt.Errorf("tough-jet: %w", err)
	}
	return nil
}

// Supplier contains the settings of one supplier adapter and its
// resilience wrapper.
type Supplier struct {
	Enabled *bool              `yaml:"enabled"`
	URL     *string            `yaml:"url"`
	Timeout *settings.Duration `yaml:"timeout"`
	Breaker Breaker            `yaml:"breaker"`
}

// ValidateAndNormalize fills the missing supplier settings, so a
// supplier is enabled by default and uses defaultURL.
func (s *Supplier) ValidateAndNormalize(defaultURL string) error {
	settings.OverwriteNil(&s.Enabled, ptr(true))
	settings.OverwriteNil(&s.URL, &defaultURL)
	if *s.URL == "" {
		return errors.New("url is empty")
	}
	settings.OverwriteNil(
		&s.Timeout, ptr(settings.Duration(resilience.DefaultTimeout)),
	)
	if err := settings.VerifyRange(
		&s.Timeout, minDuration, maxDuration,
	); err != nil {
		return fmt.Errorf("timeout=%v: %w", err.Value, err)
	}
	if err := s.Breaker.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("breaker: %w", err)
	}
	return nil
}

// Breaker contains the circuit breaker thresholds of one supplier.
// See resilience.BreakerSettings for their semantics.
type Breaker struct {
	FailureThreshold *int               `yaml:"failure-threshold"`
	FailureWindow    *int               `yaml:"failure-window"`
	SuccessThreshold *int               `yaml:"success-threshold"`
	SuccessWindow    *int               `yaml:"success-window"`
	Delay            *settings.Duration `yaml:"delay"`
}

// ValidateAndNormalize fills the missing thresholds by the values of
// resilience.DefaultBreakerSettings and validates the result.
func (b *Breaker) ValidateAndNormalize() error {
	d := resilience.DefaultBreakerSettings()
	settings.OverwriteNil(&b.FailureThreshold, &d.FailureThreshold)
	settings.OverwriteNil(&b.FailureWindow, &d.FailureWindow)
	settings.OverwriteNil(&b.SuccessThreshold, &d.SuccessThreshold)
	settings.OverwriteNil(&b.SuccessWindow, &d.SuccessWindow)
	settings.OverwriteNil(&b.Delay, ptr(settings.Duration(d.Delay)))
	return b.Settings().Validate()
}

// Settings converts `b` to the resilience.BreakerSettings.
func (b Breaker) Settings() resilience.BreakerSettings {
	return resilience.BreakerSettings{
		FailureThreshold: *b.FailureThreshold,
		FailureWindow:    *b.FailureWindow,
		SuccessThreshold: *b.SuccessThreshold,
		SuccessWindow:    *b.SuccessWindow,
		Delay:            time.Duration(*b.Delay),
	}
}

// NewSuppliers instantiates the enabled supplier adapters, each one
// with its own HTTP client, wrapped by its timeout and circuit breaker.
// Idle connections of the clients are closed periodically until ctx is
// done. Breaker transitions are logged and, if m is not nil, reported
// to its BreakerState gauge.
func (c *Config) NewSuppliers(
	ctx context.Context, m *metrics.Registry,
) ([]repo.FlightSupplier, error) {
	type candidate struct {
		s   Supplier
		build func(*http.Client, string) (repo.FlightSupplier, error)
	}
	candidates := []candidate{
		{c.Suppliers.CrazyAir, func(hc *http.Client, url string) (repo.FlightSupplier, error) {
			return crazyair.New(hc, crazyair.WithURL(url))
		}},
		{c.Suppliers.ToughJet, func(hc *http.Client, url string) (repo.FlightSupplier, error) {
			return toughjet.New(hc, toughjet.WithURL(url))
		}},
	}
	suppliers := make([]repo.FlightSupplier, 0, len(candidates))
	for _, cand := range candidates {
		if !*cand.s.Enabled {
			continue
		}
		hc := supplier.NewHTTPClient(c.HTTPClient.ClientSettings())
		adapter, err := cand.build(hc, *cand.s.URL)
		if err != nil {
			return nil, fmt.Errorf("creating supplier adapter: %w", err)
		}
		b, err := resilience.NewBreaker(
			cand.s.Breaker.Settings(),
			resilience.WithStateListener(
				breakerListener(adapter.Name(), m),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("creating %s breaker: %w", adapter.Name(), err)
		}
		wrapped, err := resilience.Wrap(
			adapter,
			resilience.WithTimeout(time.Duration(*cand.s.Timeout)),
			resilience.WithBreaker(b),
		)
		if err != nil {
			return nil, fmt.Errorf("wrapping %s: %w", adapter.Name(), err)
		}
		go supplier.SweepIdle(
			ctx, hc, time.Duration(*c.HTTPClient.IdleSweepInterval),
		)
		suppliers = append(suppliers, wrapped)
	}
	return suppliers, nil
}

func breakerListener(
	name string, m *metrics.Registry,
) func(from, to resilience.State) {
	var gauge func(from, to resilience.State)
	if m != nil {
		gauge = m.BreakerStateChanged(name)
	}
	return func(from, to resilience.State) {
		log.Warn(context.Background(), "circuit breaker state changed",
			log.Supplier(name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
		if gauge != nil {
			gauge(from, to)
		}
	}
}

// NewFlightsUseCase instantiates the flights use case with the
// suppliers which are created by the NewSuppliers method. If m is not
// nil, supplier calls are reported to it too.
func (c *Config) NewFlightsUseCase(
	ctx context.Context, m *metrics.Registry,
) (*flightsuc.UseCase, error) {
	suppliers, err := c.NewSuppliers(ctx, m)
	if err != nil {
		return nil, err
	}
	opts := make([]flightsuc.Option, 0, 1)
	if m != nil {
		opts = append(opts, flightsuc.WithObserver(m))
	}
	return flightsuc.New(suppliers, opts...)
}
