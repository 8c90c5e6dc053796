// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package toughjet_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momeni/flightagg/pkg/adapter/supplier"
	"github.com/momeni/flightagg/pkg/adapter/supplier/toughjet"
	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/momeni/flightagg/pkg/core/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFare(t *testing.T) {
	cases := []struct {
		base, tax, discount string
		expected            string
	}{
		{"100", "20", "10", "108.00"},
		{"99.99", "0", "0", "99.99"},
		{"1.005", "0", "0", "1.01"},
		{"33.33", "10", "5", "34.83"},
		{"200", "15.5", "100", "0.00"},
		{"0", "20", "10", "0.00"},
	}
	for _, tc := range cases {
		fare := toughjet.Fare(
			decimal.RequireFromString(tc.base),
			decimal.RequireFromString(tc.tax),
			decimal.RequireFromString(tc.discount),
		)
		assert.Equal(
			t, tc.expected, fare.StringFixed(2),
			"base=%s tax=%s discount=%s", tc.base, tc.tax, tc.discount,
		)
	}
}

func newSupplier(
	t *testing.T, status int, body string, got *string,
) *toughjet.Supplier {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			if got != nil {
				*got = string(b)
			}
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		},
	))
	t.Cleanup(srv.Close)
	s, err := toughjet.New(
		supplier.NewHTTPClient(supplier.DefaultClientSettings()),
		toughjet.WithURL(srv.URL),
	)
	require.NoError(t, err)
	return s
}

func searchRequest(t *testing.T) *model.FlightSearchRequest {
	t.Helper()
	dep := model.NewDate(2025, time.May, 10)
	req, err := model.NewFlightSearchRequest("LHR", "AMS", dep, dep.AddDays(7), 3)
	require.NoError(t, err)
	return req
}

func TestSearchMapsResults(t *testing.T) {
	var got string
	s := newSupplier(t, http.StatusOK, `[{
		"carrier":"KLM","basePrice":100,"tax":20,"discount":10,
		"departureAirportName":"LHR","arrivalAirportName":"AMS",
		"outboundDateTime":"2025-05-10T23:30:00-02:00",
		"inboundDateTime":"2025-05-12T08:00:00Z"
	}]`, &got)

	flights, err := s.Search(context.Background(), searchRequest(t))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"from":"LHR","to":"AMS",
		"inboundDate":"2025-05-10","outboundDate":"2025-05-17",
		"numberOfAdults":3
	}`, got)
	require.Len(t, flights, 1)

	f := flights[0]
	assert.Equal(t, "KLM", f.Airline)
	assert.Equal(t, toughjet.Name, f.Supplier)
	assert.Equal(t, "108.00", f.Fare.StringFixed(2))
	assert.Equal(t, model.IATACode("LHR"), f.DepartureAirportCode)
	assert.Equal(t, model.IATACode("AMS"), f.DestinationAirportCode)
	assert.Equal(
		t, model.NewDate(2025, time.May, 11), f.DepartureDate,
		"instants are converted to UTC dates",
	)
	assert.Equal(t, model.NewDate(2025, time.May, 12), f.ArrivalDate)
}

func TestSearchEmptyResponses(t *testing.T) {
	for _, body := range []string{"", "null", "[]"} {
		s := newSupplier(t, http.StatusOK, body, nil)
		flights, err := s.Search(context.Background(), searchRequest(t))
		assert.NoError(t, err, "body: %q", body)
		assert.NotNil(t, flights)
		assert.Empty(t, flights)
	}
}

func TestSearchFailures(t *testing.T) {
	const codes = `"carrier":"X","departureAirportName":"LHR",` +
		`"arrivalAirportName":"AMS"`
	cases := map[string]struct {
		status int
		body   string
		kind   error
	}{
		"bad gateway": {http.StatusBadGateway, "", repo.ErrTransport},
		"malformed":   {http.StatusOK, "<html>", repo.ErrMapping},
		"bad instant": {
			http.StatusOK, `[{"basePrice":1,` + codes +
				`,"outboundDateTime":"2025-05-10 10:00",` +
				`"inboundDateTime":"2025-05-10T12:00:00Z"}]`,
			repo.ErrMapping,
		},
		"missing instant": {
			http.StatusOK, `[{"basePrice":1,` + codes +
				`,"outboundDateTime":"2025-05-10T10:00:00Z"}]`,
			repo.ErrMapping,
		},
		"negative fare": {
			http.StatusOK, `[{"basePrice":10,"discount":150,` + codes +
				`,"outboundDateTime":"2025-05-10T10:00:00Z",` +
				`"inboundDateTime":"2025-05-10T12:00:00Z"}]`,
			repo.ErrMapping,
		},
		"bad code": {
			http.StatusOK, `[{"basePrice":1,"carrier":"X",` +
				`"departureAirportName":"Heathrow","arrivalAirportName":"AMS",` +
				`"outboundDateTime":"2025-05-10T10:00:00Z",` +
				`"inboundDateTime":"2025-05-10T12:00:00Z"}]`,
			repo.ErrMapping,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := newSupplier(t, tc.status, tc.body, nil)
			flights, err := s.Search(context.Background(), searchRequest(t))
			assert.ErrorIs(t, err, tc.kind)
			assert.ErrorContains(t, err, toughjet.Name)
			assert.Nil(t, flights)
		})
	}
}

func TestNew(t *testing.T) {
	c := supplier.NewHTTPClient(supplier.DefaultClientSettings())
	s, err := toughjet.New(c)
	require.NoError(t, err)
	assert.Equal(t, toughjet.DefaultURL, s.URL())
	assert.Equal(t, "ToughJet", s.Name())

	_, err = toughjet.New(nil)
	assert.Error(t, err)
	_, err = toughjet.New(c, toughjet.WithURL(""))
	assert.Error(t, err)
}
