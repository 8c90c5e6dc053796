// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package flightsuc contains the flights UseCase which aggregates the
// flight offers of several suppliers. A search is fanned out to all
// suppliers concurrently (scatter-gather), failures of each supplier
// are isolated and logged, and the successful results are merged into
// one list which is sorted by fare.
package flightsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/momeni/flightagg/pkg/core/cerr"
	"github.com/momeni/flightagg/pkg/core/log"
	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/momeni/flightagg/pkg/core/repo"
)

// UseCase represents the flights search use case. It holds a fixed
// list of suppliers which is given during its instantiation.
// Suppliers are expected to be guarded (e.g., by the resilience
// package), so each one of them returns in a bounded time.
type UseCase struct {
	suppliers []repo.FlightSupplier
	observer  Observer
}

// Observer is notified about the outcome of each supplier call, e.g.,
// in order to update metrics. It is called concurrently.
type Observer interface {
	SupplierSearched(
		supplier string, flights int, elapsed time.Duration, err error,
	)
}

type nopObserver struct{}

func (nopObserver) SupplierSearched(string, int, time.Duration, error) {}

// New instantiates a flights use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
// The suppliers slice is copied, so it may be reused by the caller.
// An empty list of suppliers is acceptable.
func New(suppliers []repo.FlightSupplier, opts ...Option) (*UseCase, error) {
	for i, s := range suppliers {
		if s == nil {
			return nil, fmt.Errorf("supplier #%d is nil", i)
		}
	}
	uc := &UseCase{suppliers: slices.Clone(suppliers)}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.observer == nil {
		uc.observer = nopObserver{}
	}
	return uc, nil
}

// Suppliers returns the names of the suppliers, in their search order.
func (uc *UseCase) Suppliers() []string {
	names := make([]string, len(uc.suppliers))
	for i, s := range uc.suppliers {
		names[i] = s.Name()
	}
	return names
}

// Search use case validates its arguments, creating a search request,
// and runs SearchFlights for it. Invalid arguments are reported as
// a cerr.BadRequest error and no supplier is called for them.
func (uc *UseCase) Search(
	ctx context.Context,
	origin, destination model.IATACode,
	departureDate, returnDate model.Date,
	passengers int,
) ([]model.Flight, error) {
	req, err := model.NewFlightSearchRequest(
		origin, destination, departureDate, returnDate, passengers,
	)
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	return uc.SearchFlights(ctx, req), nil
}

// SearchFlights asks all suppliers for the req search concurrently and
// waits for all of them. Each failing supplier is logged and has no
// contribution in the result, but it can not affect other suppliers.
// Successful results are concatenated in the suppliers order and then
// sorted by fare with a stable sort, so flights with equal fares keep
// their supplier order. The result is never nil.
//
// Cancellation of ctx is not propagated to the suppliers because they
// are bounded by their own timeouts, but its values (such as the
// request identifier) are kept for logging.
func (uc *UseCase) SearchFlights(
	ctx context.Context, req *model.FlightSearchRequest,
) []model.Flight {
	ctx = context.WithoutCancel(ctx)
	results := make([][]model.Flight, len(uc.suppliers))
	var wg sync.WaitGroup
	wg.Add(len(uc.suppliers))
	for i, s := range uc.suppliers {
		go func(i int, s repo.FlightSupplier) {
			defer wg.Done()
			results[i] = uc.search(ctx, s, req)
		}(i, s)
	}
	wg.Wait()

	n := 0
	for _, r := range results {
		n += len(r)
	}
	flights := make([]model.Flight, 0, n)
	for _, r := range results {
		flights = append(flights, r...)
	}
	slices.SortStableFunc(flights, func(a, b model.Flight) int {
		return a.Fare.Cmp(b.Fare)
	})
	return flights
}

// search calls one supplier, converting its errors and panics to an
// empty result.
func (uc *UseCase) search(
	ctx context.Context, s repo.FlightSupplier, req *model.FlightSearchRequest,
) (flights []model.Flight) {
	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", s.Name(), r)
		}
		if err != nil {
			flights = nil
		}
		uc.observer.SupplierSearched(
			s.Name(), len(flights), time.Since(start), err,
		)
		switch {
		case err == nil:
			log.Debug(ctx, "supplier search succeeded",
				log.Supplier(s.Name()),
				slog.Int("flights", len(flights)),
				log.Elapsed(start),
			)
		case errors.Is(err, repo.ErrCircuitOpen):
			log.Warn(ctx, "supplier skipped",
				log.Supplier(s.Name()),
				slog.String("kind", repo.FailureKind(err)),
				log.Err("error", err),
			)
		default:
			log.Error(ctx, "supplier search failed",
				log.Supplier(s.Name()),
				slog.String("kind", repo.FailureKind(err)),
				log.Err("error", err),
				log.Elapsed(start),
			)
		}
	}()
	flights, err = s.Search(ctx, req)
	return flights
}
