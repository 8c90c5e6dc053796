// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the Wrap function.
type Option func(s *Supplier) error

// WithTimeout option bounds each call of the wrapped supplier by the
// given timeout. It may be passed to the Wrap function at most once.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Supplier) error {
		if d := int64(timeout); d <= 0 {
			return fmt.Errorf("timeout (%d) is not positive", d)
		}
		if s.timeout != 0 {
			return errors.New("timeout is already configured")
		}
		s.timeout = timeout
		return nil
	}
}

// WithBreaker option makes the wrapped supplier to be guarded by b.
// A breaker must not be shared among suppliers, otherwise failures of
// one supplier may open the circuit of another one.
func WithBreaker(b *Breaker) Option {
	return func(s *Supplier) error {
		if b == nil {
			return errors.New("breaker is nil")
		}
		if s.breaker != nil {
			return errors.New("breaker is already configured")
		}
		s.breaker = b
		return nil
	}
}
