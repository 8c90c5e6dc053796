// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package toughjet

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/shopspring/decimal"
)

// searchRequest is the ToughJet request body. ToughJet names the
// departure date as inbound and the return date as outbound.
type searchRequest struct {
	From           model.IATACode `json:"from"`
	To             model.IATACode `json:"to"`
	InboundDate    model.Date     `json:"inboundDate"`
	OutboundDate   model.Date     `json:"outboundDate"`
	NumberOfAdults int            `json:"numberOfAdults"`
}

func newSearchRequest(req *model.FlightSearchRequest) searchRequest {
	return searchRequest{
		From:           req.Origin,
		To:             req.Destination,
		InboundDate:    req.DepartureDate,
		OutboundDate:   req.ReturnDate,
		NumberOfAdults: req.Passengers,
	}
}

// searchResult is one element of the ToughJet response array.
// Despite their names, the airport name fields carry IATA codes.
type searchResult struct {
	Carrier              string          `json:"carrier"`
	BasePrice            decimal.Decimal `json:"basePrice"`
	Tax                  decimal.Decimal `json:"tax"`
	Discount             decimal.Decimal `json:"discount"`
	DepartureAirportName string          `json:"departureAirportName"`
	ArrivalAirportName   string          `json:"arrivalAirportName"`
	OutboundDateTime     time.Time       `json:"outboundDateTime"`
	InboundDateTime      time.Time       `json:"inboundDateTime"`
}

func (r searchResult) flight() (*model.Flight, error) {
	dep, err := model.ParseIATACode(r.DepartureAirportName)
	if err != nil {
		return nil, fmt.Errorf("departureAirportName: %w", err)
	}
	arr, err := model.ParseIATACode(r.ArrivalAirportName)
	if err != nil {
		return nil, fmt.Errorf("arrivalAirportName: %w", err)
	}
	if r.OutboundDateTime.IsZero() || r.InboundDateTime.IsZero() {
		return nil, errors.New(
			"outboundDateTime and inboundDateTime are required",
		)
	}
	return model.NewFlight(
		r.Carrier, Name, Fare(r.BasePrice, r.Tax, r.Discount), dep, arr,
		model.DateOf(r.OutboundDateTime.UTC()),
		model.DateOf(r.InboundDateTime.UTC()),
	)
}
