// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic helpers and value types which
// are used by the config package for parsing, defaulting, and range
// checking of individual configuration settings.
package settings

import (
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is read from and written to YAML
// files in the time.ParseDuration format, such as 300ms or 1h30m.
type Duration time.Duration

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// The receiver is updated only if data could be parsed.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// Marshal returns the string representation of `d` without its zero
// trailing units, so 1h0m0s is written as 1h and 5m0s as 5m.
// A nil d gives a nil string, so optional settings can be skipped.
func (d *Duration) Marshal() *string {
	if d == nil {
		return nil
	}
	s := (*time.Duration)(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return &s
}

// MarshalText implements the encoding.TextMarshaler interface, so
// durations are written like their Marshal representation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(*d.Marshal()), nil
}

func (d Duration) String() string {
	return *d.Marshal()
}

// LogValue implements slog.LogValuer.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
