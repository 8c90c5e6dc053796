// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"time"
)

// DateLayout is the textual format of a Date.
const DateLayout = time.DateOnly

// Date represents a calendar day with no time of day and no time zone.
// It is kept as a time.Time at midnight UTC, so two Date values for
// the same day are equal with the == operator.
type Date struct {
	t time.Time
}

// NewDate returns the Date of the given year, month, and day.
// Out of range values are normalized like time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses s according to the DateLayout (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// AddDays returns the date which is n days after d (or before it when
// n is negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// IsZero reports whether d is the zero Date (January 1, year 1).
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String formats d using the DateLayout.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MarshalText implements the encoding.TextMarshaler interface, so
// a Date is serialized as a YYYY-MM-DD string.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Date) UnmarshalText(text []byte) error {
	dd, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = dd
	return nil
}
