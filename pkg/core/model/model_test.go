// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIATACode(t *testing.T) {
	for _, code := range []string{"BCN", "MAD", "LHR", "A1B", "123"} {
		c, err := model.ParseIATACode(code)
		assert.NoError(t, err, code)
		assert.Equal(t, code, c.String())
	}
	for _, code := range []string{
		"", "NY", "Barcelona", "bcn", "Bcn", "BCNX", "B-N", "B N", " BCN",
	} {
		_, err := model.ParseIATACode(code)
		require.Error(t, err, "code %q", code)
		assert.True(t, errors.Is(err, model.ErrInvalidInput), code)
		assert.Equal(t, "IATA CODE must match ^[A-Z0-9]{3}$", err.Error())
	}
}

func mustIATA(t *testing.T, code string) model.IATACode {
	t.Helper()
	c, err := model.ParseIATACode(code)
	require.NoError(t, err)
	return c
}

func TestNewFlightSearchRequestPassengers(t *testing.T) {
	dep := model.NewDate(2025, time.May, 10)
	ret := dep.AddDays(1)
	for _, tc := range []struct {
		passengers int
		ok         bool
	}{
		{0, false}, {1, true}, {2, true}, {4, true}, {5, false}, {-1, false},
	} {
		t.Run(fmt.Sprint(tc.passengers), func(t *testing.T) {
			req, err := model.NewFlightSearchRequest(
				mustIATA(t, "BCN"), mustIATA(t, "MAD"),
				dep, ret, tc.passengers,
			)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.passengers, req.Passengers)
				return
			}
			assert.Nil(t, req)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			assert.EqualError(
				t, err, "Number of passengers must be between 1 and 4",
			)
		})
	}
}

func TestNewFlightSearchRequestDates(t *testing.T) {
	dep := model.NewDate(2025, time.May, 10)
	for name, ret := range map[string]model.Date{
		"same day":   dep,
		"day before": dep.AddDays(-1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := model.NewFlightSearchRequest(
				mustIATA(t, "BCN"), mustIATA(t, "MAD"), dep, ret, 2,
			)
			var iie *model.InvalidInputError
			require.ErrorAs(t, err, &iie)
			assert.Equal(t, "departureDate", iie.Field)
			assert.Equal(
				t, "Departure date must be before the return date",
				iie.Reason,
			)
		})
	}
}

func TestNewFlight(t *testing.T) {
	day := model.NewDate(2025, time.May, 10)
	bcn, mad := mustIATA(t, "BCN"), mustIATA(t, "MAD")

	f, err := model.NewFlight(
		"Vueling", "CrazyAir", decimal.RequireFromString("41.005"),
		bcn, mad, day, day,
	)
	require.NoError(t, err, "same departure and arrival day is fine")
	assert.Equal(t, "41.01", f.Fare.StringFixed(2))

	_, err = model.NewFlight(
		"Vueling", "CrazyAir", decimal.Zero, bcn, mad, day, day.AddDays(2),
	)
	assert.NoError(t, err, "zero fare is fine")

	_, err = model.NewFlight(
		"Vueling", "CrazyAir", decimal.NewFromInt(10),
		bcn, mad, day.AddDays(1), day,
	)
	assert.EqualError(t, err, "Departure date cannot be after the arrival date")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = model.NewFlight(
		"Vueling", "CrazyAir", decimal.RequireFromString("-0.01"),
		bcn, mad, day, day,
	)
	assert.EqualError(t, err, "Fare must be bigger or equal than zero")
}

func TestParseDate(t *testing.T) {
	d, err := model.ParseDate("2025-05-10")
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2025, time.May, 10), d)
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.After(d))

	_, err = model.ParseDate("10/05/2025")
	assert.Error(t, err)

	loc := time.FixedZone("UTC+5", 5*3600)
	late := time.Date(2025, time.May, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-05-11", model.DateOf(late.In(loc)).String())
}

func TestFlightJSON(t *testing.T) {
	day := model.NewDate(2025, time.May, 10)
	f, err := model.NewFlight(
		"Iberia", "ToughJet", decimal.NewFromInt(150),
		mustIATA(t, "BCN"), mustIATA(t, "MAD"), day, day.AddDays(1),
	)
	require.NoError(t, err)
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"airline": "Iberia",
		"supplier": "ToughJet",
		"fare": 150.00,
		"departureAirportCode": "BCN",
		"destinationAirportCode": "MAD",
		"departureDate": "2025-05-10",
		"arrivalDate": "2025-05-11"
	}`, string(b))
	assert.Contains(t, string(b), `"fare":150.00`)

	var back model.Flight
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, f.Fare.Equal(back.Fare))
	assert.Equal(t, f.ArrivalDate, back.ArrivalDate)
}
