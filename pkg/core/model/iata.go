// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "regexp"

var iataPattern = regexp.MustCompile(`^[A-Z0-9]{3}$`)

// IATACode is a three characters airport code, consisting of upper
// case letters and digits. The zero value is not a valid code, so
// instances should be created by the ParseIATACode function.
type IATACode string

// ParseIATACode validates the code string and returns it as an
// IATACode. An InvalidInputError is returned if code does not match
// the ^[A-Z0-9]{3}$ pattern. No case folding or trimming is performed.
func ParseIATACode(code string) (IATACode, error) {
	if !iataPattern.MatchString(code) {
		return "", &InvalidInputError{
			Field:  "iata",
			Reason: "IATA CODE must match ^[A-Z0-9]{3}$",
		}
	}
	return IATACode(code), nil
}

// String returns the code itself.
func (c IATACode) String() string {
	return string(c)
}
