// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package healthrs realizes the health resource which reports that
// the web server is up, so it may be used as a liveness probe.
package healthrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type health struct {
	Status string `json:"status"`
}

// Register adds the GET /health API to r.
func Register(r *gin.RouterGroup) {
	r.GET("health", func(c *gin.Context) {
		c.JSON(http.StatusOK, health{Status: "UP"})
	})
}
