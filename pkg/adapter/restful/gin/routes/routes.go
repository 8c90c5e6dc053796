// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all supplier adapters, use case,
// and resource packages based on the user provided configuration
// settings.
package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/flightagg/pkg/adapter/config"
	"github.com/momeni/flightagg/pkg/adapter/metrics"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin/flightsrs"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin/healthrs"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin/serdser"
)

// Register instantiates the supplier adapters and the flights use case
// based on the c configuration settings and registers their resources
// using the e gin-gonic engine instance. The m registry collects the
// supplier metrics and is exposed as GET /metrics. The ctx bounds the
// background routines of supplier HTTP clients, so it should be
// cancelled when e is not serving anymore.
// Unknown paths and methods are answered with problem documents.
func Register(
	ctx context.Context, e *gin.Engine, cfg *config.Config, m *metrics.Registry,
) error {
	flightsUseCase, err := cfg.NewFlightsUseCase(ctx, m)
	if err != nil {
		return fmt.Errorf("creating flights use case: %w", err)
	}
	e.NoRoute(func(c *gin.Context) {
		serdser.Abort(c, serdser.NewProblem(
			http.StatusNotFound, "No resource at "+c.Request.URL.Path,
		))
	})
	e.NoMethod(func(c *gin.Context) {
		serdser.Abort(c, serdser.NewProblem(
			http.StatusMethodNotAllowed,
			"Method "+c.Request.Method+" is not supported",
		))
	})
	r := &e.RouterGroup
	healthrs.Register(r)
	flightsrs.Register(r, flightsUseCase)
	r.GET("metrics", gin.WrapH(m.Handler()))
	return nil
}
