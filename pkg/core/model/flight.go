// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by the JSON
// encoders) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
//
// Each model is built by a constructor function (e.g., NewFlight) which
// enforces its invariants and reports violations as InvalidInputError
// instances. Models are immutable after their construction, so they
// may be shared among goroutines freely.
package model

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// FareScale is the number of fraction digits which are kept for a fare.
const FareScale = 2

// Flight models one flight offer, as returned by a supplier and
// normalized into the canonical format. The Supplier field names the
// supplier adapter which produced it.
// Flight instances should be created using the NewFlight function,
// so their invariants may be verified.
type Flight struct {
	Airline                string          `json:"airline"`
	Supplier               string          `json:"supplier"`
	Fare                   decimal.Decimal `json:"fare"`
	DepartureAirportCode   IATACode        `json:"departureAirportCode"`
	DestinationAirportCode IATACode        `json:"destinationAirportCode"`
	DepartureDate          Date            `json:"departureDate"`
	ArrivalDate            Date            `json:"arrivalDate"`
}

// NewFlight validates the given fields and creates a Flight.
// The fare is rounded (half away from zero) to FareScale fraction
// digits before being stored. A negative fare or a departure date
// which comes after the arrival date are rejected with an
// InvalidInputError. The same departure and arrival date is accepted.
func NewFlight(
	airline, supplier string,
	fare decimal.Decimal,
	departure, destination IATACode,
	departureDate, arrivalDate Date,
) (*Flight, error) {
	if departureDate.After(arrivalDate) {
		return nil, &InvalidInputError{
			Field:  "departureDate",
			Reason: "Departure date cannot be after the arrival date",
		}
	}
	if fare.IsNegative() {
		return nil, &InvalidInputError{
			Field:  "fare",
			Reason: "Fare must be bigger or equal than zero",
		}
	}
	return &Flight{
		Airline:                airline,
		Supplier:               supplier,
		Fare:                   fare.Round(FareScale),
		DepartureAirportCode:   departure,
		DestinationAirportCode: destination,
		DepartureDate:          departureDate,
		ArrivalDate:            arrivalDate,
	}, nil
}

// fixedFare renders a fare as a JSON number with exactly FareScale
// fraction digits, e.g., 108.00 instead of "108".
type fixedFare decimal.Decimal

func (f fixedFare) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(f).StringFixed(FareScale)), nil
}

// MarshalJSON implements the json.Marshaler interface. It encodes all
// fields with their tag names, but replaces the default string
// representation of the fare with a fixed-scale JSON number.
func (f Flight) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Airline                string    `json:"airline"`
		Supplier               string    `json:"supplier"`
		Fare                   fixedFare `json:"fare"`
		DepartureAirportCode   IATACode  `json:"departureAirportCode"`
		DestinationAirportCode IATACode  `json:"destinationAirportCode"`
		DepartureDate          Date      `json:"departureDate"`
		ArrivalDate            Date      `json:"arrivalDate"`
	}{
		Airline:                f.Airline,
		Supplier:               f.Supplier,
		Fare:                   fixedFare(f.Fare),
		DepartureAirportCode:   f.DepartureAirportCode,
		DestinationAirportCode: f.DestinationAirportCode,
		DepartureDate:          f.DepartureDate,
		ArrivalDate:            f.ArrivalDate,
	})
}
