// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"log/slog"

	"github.com/momeni/flightagg/pkg/adapter/config/settings"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin"
)

// Gin contains the gin-gonic related configuration settings.
type Gin struct {
	Logger   *bool // Whether to register the access logger middleware
	Recovery *bool // Whether to register the panic recovery middleware
}

func (g *Gin) normalize() {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. The request identifier middleware is registered
// unconditionally and access logs are written to l.
func (g Gin) NewEngine(l *slog.Logger) *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, gin.RequestID())
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger(l))
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}
