// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/momeni/flightagg/pkg/adapter/config/settings"
)

// Supported values of the logging format setting.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Logging contains the settings of the default slog logger.
type Logging struct {
	Level  *string `yaml:"level"`  // debug, info, warn, or error
	Format *string `yaml:"format"` // json or text
}

func (l *Logging) overrideFromEnv() {
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		l.Level = &v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		l.Format = &v
	}
}

// ValidateAndNormalize fills the missing logging settings, converts
// them to lower case, and checks that they are supported.
func (l *Logging) ValidateAndNormalize() error {
	settings.OverwriteNil(&l.Level, ptr("info"))
	settings.OverwriteNil(&l.Format, ptr(FormatText))
	*l.Level = strings.ToLower(*l.Level)
	*l.Format = strings.ToLower(*l.Format)
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*l.Level)); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	switch *l.Format {
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("unsupported format %q", *l.Format)
	}
	return nil
}

// NewLogger creates a slog logger which writes to w based on the
// `l` settings. Records carry their source file and line.
func (l Logging) NewLogger(w io.Writer) *slog.Logger {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(*l.Level)) // validated before
	opts := &slog.HandlerOptions{AddSource: true, Level: lvl}
	if *l.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
