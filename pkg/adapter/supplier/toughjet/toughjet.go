// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package toughjet implements the repo.FlightSupplier interface for the
// ToughJet flights API. ToughJet reports a base price together with its
// tax and discount percentages, and its times as UTC instants.
package toughjet

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/momeni/flightagg/pkg/adapter/supplier"
	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/momeni/flightagg/pkg/core/repo"
)

const (
	// Name is the identifier of ToughJet supplier.
	Name = "ToughJet"

	// DefaultURL is the search endpoint which is used when no URL
	// is configured explicitly.
	DefaultURL = "https://api.toughjet.com/flights"
)

// Supplier is the ToughJet adapter. It is safe for concurrent use.
type Supplier struct {
	client *http.Client
	url    string
}

// Option is a functional option for the New function.
type Option func(s *Supplier) error

// WithURL option makes the adapter to send its search requests to url
// instead of the DefaultURL.
func WithURL(url string) Option {
	return func(s *Supplier) error {
		if url == "" {
			return errors.New("url is empty")
		}
		if s.url != "" {
			return errors.New("url is already configured")
		}
		s.url = url
		return nil
	}
}

// New instantiates a ToughJet adapter which uses the client for its
// outbound calls.
func New(client *http.Client, opts ...Option) (*Supplier, error) {
	if client == nil {
		return nil, errors.New("http client is nil")
	}
	s := &Supplier{client: client}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if s.url == "" {
		s.url = DefaultURL
	}
	return s, nil
}

// Name returns "ToughJet".
func (s *Supplier) Name() string {
	return Name
}

// URL returns the search endpoint of this adapter.
func (s *Supplier) URL() string {
	return s.url
}

// Search posts req to the ToughJet search endpoint and maps its
// results to flights. See Fare for the fare computation.
func (s *Supplier) Search(
	ctx context.Context, req *model.FlightSearchRequest,
) ([]model.Flight, error) {
	var results []searchResult
	if err := supplier.PostJSON(
		ctx, s.client, s.url, newSearchRequest(req), &results,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", Name, err)
	}
	flights := make([]model.Flight, 0, len(results))
	for i, r := range results {
		f, err := r.flight()
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w: result #%d: %w", Name, repo.ErrMapping, i, err,
			)
		}
		flights = append(flights, *f)
	}
	return flights, nil
}
