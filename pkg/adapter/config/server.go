// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/flightagg/pkg/adapter/config/settings"
)

// Server contains the web server settings.
type Server struct {
	// Address is the TCP address to listen on, e.g., :8080.
	Address *string `yaml:"address"`
	// ShutdownTimeout bounds the graceful shutdown which waits for the
	// in-flight requests after receiving a termination signal.
	ShutdownTimeout *settings.Duration `yaml:"shutdown-timeout"`
}

// ValidateAndNormalize fills the missing server settings and checks
// the shutdown timeout range.
func (s *Server) ValidateAndNormalize() error {
	settings.OverwriteNil(&s.Address, ptr(":8080"))
	if *s.Address == "" {
		return errors.New("address is empty")
	}
	settings.OverwriteNil(
		&s.ShutdownTimeout, ptr(settings.Duration(10*time.Second)),
	)
	if err := settings.VerifyRange(
		&s.ShutdownTimeout, ptr(settings.Duration(0)), nil,
	); err != nil {
		return fmt.Errorf("shutdown-timeout=%v: %w", err.Value, err)
	}
	return nil
}

func ptr[T any](t T) *T {
	return &t
}
