// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Acceptable range of passengers in one search.
const (
	MinPassengers = 1
	MaxPassengers = 4
)

// FlightSearchRequest describes one logical search, as asked by a
// client, which is fanned out to all suppliers. It is created once per
// inbound request by NewFlightSearchRequest and never mutated.
type FlightSearchRequest struct {
	Origin        IATACode
	Destination   IATACode
	DepartureDate Date
	ReturnDate    Date
	Passengers    int
}

// NewFlightSearchRequest validates its arguments and creates a search
// request. The number of passengers must be in the
// [MinPassengers, MaxPassengers] range and the departure date must be
// strictly before the return date, otherwise an InvalidInputError is
// returned (the passengers count is checked first).
func NewFlightSearchRequest(
	origin, destination IATACode,
	departureDate, returnDate Date,
	passengers int,
) (*FlightSearchRequest, error) {
	if passengers < MinPassengers || passengers > MaxPassengers {
		return nil, &InvalidInputError{
			Field:  "numberOfPassengers",
			Reason: "Number of passengers must be between 1 and 4",
		}
	}
	if !departureDate.Before(returnDate) {
		return nil, &InvalidInputError{
			Field:  "departureDate",
			Reason: "Departure date must be before the return date",
		}
	}
	return &FlightSearchRequest{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		ReturnDate:    returnDate,
		Passengers:    passengers,
	}, nil
}
