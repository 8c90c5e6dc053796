// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package resilience provides a decorator for repo.FlightSupplier
// instances which bounds each call by a timeout and guards the wrapped
// supplier by a circuit breaker. The decorator implements the
// repo.FlightSupplier interface itself, so use cases may not notice
// whether a supplier is or is not guarded.
// No call is retried. Each Search is at most one call to the wrapped
// supplier.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/momeni/flightagg/pkg/core/repo"
)

// DefaultTimeout is the per call timeout of a Supplier when no
// WithTimeout option is given.
const DefaultTimeout = 300 * time.Millisecond

// Supplier wraps a repo.FlightSupplier with a timeout and a circuit
// breaker. It must be created using the Wrap function.
type Supplier struct {
	next    repo.FlightSupplier
	timeout time.Duration
	breaker *Breaker
}

// Wrap instantiates a Supplier decorating the next supplier.
// Optional parameters are passed as a series of functional options.
// Without options, the DefaultTimeout and a fresh Breaker with the
// DefaultBreakerSettings are used.
func Wrap(next repo.FlightSupplier, opts ...Option) (*Supplier, error) {
	s := &Supplier{next: next}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if s.timeout == 0 {
		s.timeout = DefaultTimeout
	}
	if s.breaker == nil {
		b, err := NewBreaker(DefaultBreakerSettings())
		if err != nil {
			return nil, err
		}
		s.breaker = b
	}
	return s, nil
}

// Name returns the name of the wrapped supplier.
func (s *Supplier) Name() string {
	return s.next.Name()
}

// Breaker returns the circuit breaker which guards this supplier.
func (s *Supplier) Breaker() *Breaker {
	return s.breaker
}

// Search asks the circuit breaker for a permission and then calls
// the wrapped supplier with a context which is bounded by the timeout.
// If the circuit is open, the wrapped supplier is not called and an
// error wrapping repo.ErrCircuitOpen is returned. If the timeout
// elapses, Search returns an error wrapping repo.ErrTimeout without
// waiting for the wrapped supplier (which sees a cancelled context).
// All errors, including a panic of the wrapped supplier, are counted
// as failures by the breaker.
func (s *Supplier) Search(
	ctx context.Context, req *model.FlightSearchRequest,
) ([]model.Flight, error) {
	done, err := s.breaker.Allow()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	flights, err := s.call(ctx, req)
	done(err != nil)
	return flights, err
}

type outcome struct {
	flights []model.Flight
	err     error
}

func (s *Supplier) call(
	ctx context.Context, req *model.FlightSearchRequest,
) ([]model.Flight, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ch := make(chan outcome, 1) // buffered, so an abandoned call can exit
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("%s panicked: %v", s.Name(), r)}
			}
		}()
		flights, err := s.next.Search(ctx, req)
		ch <- outcome{flights: flights, err: err}
	}()
	select {
	case o := <-ch:
		if o.err != nil && !errors.Is(o.err, repo.ErrTimeout) &&
			errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf(
				"%s: %w after %v: %w", s.Name(), repo.ErrTimeout, s.timeout, o.err,
			)
		}
		return o.flights, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf(
				"%s: %w after %v", s.Name(), repo.ErrTimeout, s.timeout,
			)
		}
		return nil, fmt.Errorf("%s: %w", s.Name(), ctx.Err())
	}
}
