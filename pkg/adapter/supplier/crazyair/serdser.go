// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package crazyair

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/shopspring/decimal"
)

// searchRequest is the CrazyAir request body.
type searchRequest struct {
	Origin         model.IATACode `json:"origin"`
	Destination    model.IATACode `json:"destination"`
	DepartureDate  model.Date     `json:"departureDate"`
	ReturnDate     model.Date     `json:"returnDate"`
	PassengerCount int            `json:"passengerCount"`
}

func newSearchRequest(req *model.FlightSearchRequest) searchRequest {
	return searchRequest{
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureDate:  req.DepartureDate,
		ReturnDate:     req.ReturnDate,
		PassengerCount: req.Passengers,
	}
}

// searchResult is one element of the CrazyAir response array.
type searchResult struct {
	Airline                string          `json:"airline"`
	Price                  decimal.Decimal `json:"price"`
	DepartureAirportCode   string          `json:"departureAirportCode"`
	DestinationAirportCode string          `json:"destinationAirportCode"`
	DepartureDate          localDateTime   `json:"departureDate"`
	ArrivalDate            localDateTime   `json:"arrivalDate"`
}

func (r searchResult) flight() (*model.Flight, error) {
	dep, err := model.ParseIATACode(r.DepartureAirportCode)
	if err != nil {
		return nil, fmt.Errorf("departureAirportCode: %w", err)
	}
	dst, err := model.ParseIATACode(r.DestinationAirportCode)
	if err != nil {
		return nil, fmt.Errorf("destinationAirportCode: %w", err)
	}
	if r.DepartureDate.t.IsZero() || r.ArrivalDate.t.IsZero() {
		return nil, errors.New("departureDate and arrivalDate are required")
	}
	return model.NewFlight(
		r.Airline, Name, r.Price, dep, dst,
		model.DateOf(r.DepartureDate.t), model.DateOf(r.ArrivalDate.t),
	)
}

// Local date-times are sent with or without their seconds. Fractional
// seconds are accepted by both layouts while parsing.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// localDateTime is a date-time without a zone, like 2025-05-10T10:15:30.
type localDateTime struct {
	t time.Time
}

func (ldt *localDateTime) UnmarshalText(text []byte) error {
	var err error
	for _, layout := range localDateTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, string(text)); err == nil {
			ldt.t = t
			return nil
		}
	}
	return fmt.Errorf("invalid local date-time %q: %w", text, err)
}
