// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package flightsuc

import "errors"

// Option is a functional option for the flights use case.
type Option func(uc *UseCase) error

// WithObserver option configures a flights UseCase instance in order
// to report the outcome of each supplier call to o. This option may be
// passed to the New() function at most once.
func WithObserver(o Observer) Option {
	return func(uc *UseCase) error {
		if o == nil {
			return errors.New("observer is nil")
		}
		if uc.observer != nil {
			return errors.New("observer is already configured")
		}
		uc.observer = o
		return nil
	}
}
