// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package flightsrs realizes the flights resource, allowing the flights
// search REST API to be accepted and delegated to the flights use case.
package flightsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flightagg/pkg/core/usecase/flightsuc"
)

type resource struct {
	flights *flightsuc.UseCase
}

// Register instantiates a resource adapting the flights use case
// instance with the relevant REST APIs including:
//  1. POST request to /flights
//     in order to search all suppliers for flights.
func Register(r *gin.RouterGroup, flights *flightsuc.UseCase) {
	rs := &resource{flights: flights}
	r.POST("flights", rs.SearchFlights)
}

func (rs *resource) SearchFlights(c *gin.Context) {
	req := rs.DserSearchReq(c)
	if req == nil {
		return
	}
	flights, err := rs.flights.Search(
		c.Request.Context(),
		req.Origin, req.Destination,
		req.DepartureDate, req.ReturnDate,
		req.Passengers,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}
