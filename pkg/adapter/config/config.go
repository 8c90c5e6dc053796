// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the flightweb to instantiate
// different components, from the adapter or use cases layers, using
// those loaded configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items), so they
// are validated again by the end-component (such as a UseCase
// instance) independent of this package.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. Config is implemented
// with primitive fields or structs which are defined locally, not
// models or structs which are defined in lower layers, so the file
// format can be kept intact while other layers change freely.
//
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. Missing items are filled with their
// default values by the ValidateAndNormalize method.
type Config struct {
	Server     Server     `yaml:"server"`      // Web server settings
	Gin        Gin        `yaml:"gin"`         // Gin-Gonic instantiation settings
	Logging    Logging    `yaml:"logging"`     // Default slog logger settings
	HTTPClient HTTPClient `yaml:"http-client"` // Outbound connection pools
	Suppliers  Suppliers  `yaml:"suppliers"`   // Flight supplier adapters
}

// Load function reads the configuration file from the given path and
// parses it using the Parse function.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice as a Config instance. Extra
// items in the data will be ignored and missing items will take their
// default values. The LOG_LEVEL and LOG_FORMAT environment variables,
// if set, override the logging settings. Thereafter, the Config will
// be validated and normalized in order to ensure that provided settings
// are acceptable.
func Parse(data []byte) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	c.Logging.overrideFromEnv()
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It also replaces the
// missing settings with their default values.
func (c *Config) ValidateAndNormalize() error {
	if err := c.Server.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating server settings: %w", err)
	}
	c.Gin.normalize()
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	if err := c.HTTPClient.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating http-client settings: %w", err)
	}
	if err := c.Suppliers.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating suppliers settings: %w", err)
	}
	return nil
}
