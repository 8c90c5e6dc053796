// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// ErrInvalidInput is the category of all validation errors which are
// reported by the model constructors. Callers should use errors.Is in
// order to check for it, since the actual errors are instances of the
// InvalidInputError type.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError indicates that a model could not be created
// because one of its invariants was violated. The Field names the
// offending argument (using its external name) and the Reason is
// a human readable description which is reported to clients as is.
type InvalidInputError struct {
	Field  string
	Reason string
}

// Error returns the Reason, so it may be shown to end-users directly.
func (e *InvalidInputError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrInvalidInput) to hold for all
// InvalidInputError instances.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
