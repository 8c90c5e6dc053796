// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/momeni/flightagg/pkg/core/repo"
)

// State is the state of a circuit Breaker.
type State int

// Valid values for the State enum.
const (
	StateClosed   State = iota // calls pass, outcomes are counted
	StateOpen                  // calls are rejected until the delay passes
	StateHalfOpen              // a limited number of trial calls pass
)

// String returns the lower case name of s, suitable for logs and
// metric labels.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// BreakerSettings contains the thresholds of a Breaker.
type BreakerSettings struct {
	// FailureThreshold is the number of failures among the last
	// FailureWindow calls which opens a closed circuit.
	FailureThreshold int
	FailureWindow    int

	// SuccessThreshold is the number of successful trial calls which
	// close a half-open circuit. At most SuccessWindow trial calls are
	// admitted while the circuit is half-open.
	SuccessThreshold int
	SuccessWindow    int

	// Delay is how long an open circuit rejects calls before it
	// admits trial calls again.
	Delay time.Duration
}

// DefaultBreakerSettings returns the settings which are used when no
// explicit settings are configured: 5 failures of the last 10 calls
// open the circuit, 3 successes of 10 trials close it, and an open
// circuit waits for 5 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 5,
		FailureWindow:    10,
		SuccessThreshold: 3,
		SuccessWindow:    10,
		Delay:            5 * time.Second,
	}
}

// Validate returns an error if s thresholds are not positive or if a
// threshold is greater than its window.
func (s BreakerSettings) Validate() error {
	switch {
	case s.FailureWindow <= 0 || s.SuccessWindow <= 0:
		return errors.New("windows must be positive")
	case s.FailureThreshold <= 0 || s.FailureThreshold > s.FailureWindow:
		return fmt.Errorf(
			"failure threshold (%d) is not in [1, %d]",
			s.FailureThreshold, s.FailureWindow,
		)
	case s.SuccessThreshold <= 0 || s.SuccessThreshold > s.SuccessWindow:
		return fmt.Errorf(
			"success threshold (%d) is not in [1, %d]",
			s.SuccessThreshold, s.SuccessWindow,
		)
	case s.Delay <= 0:
		return fmt.Errorf("delay (%v) is not positive", s.Delay)
	}
	return nil
}

// Breaker is a count based circuit breaker. It is safe for concurrent
// use and is supposed to be shared by all requests which reach one
// supplier, so its state reflects the supplier health as a whole.
type Breaker struct {
	settings BreakerSettings
	now      func() time.Time
	listener func(from, to State)

	mu    sync.Mutex
	state State
	// gen is incremented on each transition, so outcomes of calls
	// which were admitted in an older state are ignored.
	gen uint64

	window   []bool // ring buffer of outcomes, true means failure
	next     int
	filled   int
	failures int

	openedAt  time.Time
	trials    int
	successes int
}

// BreakerOption is a functional option for the NewBreaker function.
type BreakerOption func(b *Breaker)

// WithClock makes the breaker to use now instead of time.Now when it
// needs to know whether the open state delay has passed.
func WithClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) {
		b.now = now
	}
}

// WithStateListener registers the listener function which is called
// after each state transition. It is called without holding the
// breaker lock, so it may call the breaker methods.
func WithStateListener(listener func(from, to State)) BreakerOption {
	return func(b *Breaker) {
		b.listener = listener
	}
}

// NewBreaker creates a closed Breaker with the given settings.
func NewBreaker(s BreakerSettings, opts ...BreakerOption) (*Breaker, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid breaker settings: %w", err)
	}
	b := &Breaker{
		settings: s,
		now:      time.Now,
		window:   make([]bool, s.FailureWindow),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// State returns the current state of b. An open breaker which its
// delay has passed is still reported as open until the next Allow.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow asks for a permission to make one call. If the circuit is
// open (or all half-open trial permits are taken) an error wrapping
// repo.ErrCircuitOpen is returned. Otherwise, the returned done
// function must be called exactly once with the call outcome.
func (b *Breaker) Allow() (done func(failed bool), err error) {
	b.mu.Lock()
	from := b.state
	gen, err := b.allow()
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
	if err != nil {
		return nil, err
	}
	var once sync.Once
	return func(failed bool) {
		once.Do(func() {
			b.record(gen, failed)
		})
	}, nil
}

func (b *Breaker) allow() (uint64, error) {
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.settings.Delay {
			return 0, repo.ErrCircuitOpen
		}
		b.transition(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if b.trials >= b.settings.SuccessWindow {
			return 0, fmt.Errorf(
				"%w: no trial permit is left", repo.ErrCircuitOpen,
			)
		}
		b.trials++
	}
	return b.gen, nil
}

func (b *Breaker) record(gen uint64, failed bool) {
	b.mu.Lock()
	from := b.state
	if gen == b.gen {
		switch b.state {
		case StateClosed:
			b.push(failed)
			if b.failures >= b.settings.FailureThreshold {
				b.transition(StateOpen)
			}
		case StateHalfOpen:
			if failed {
				b.transition(StateOpen)
				break
			}
			b.successes++
			if b.successes >= b.settings.SuccessThreshold {
				b.transition(StateClosed)
			}
		}
	}
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

// push adds an outcome to the closed state rolling window, evicting
// the oldest outcome when the window is full.
func (b *Breaker) push(failed bool) {
	if b.filled == len(b.window) {
		if b.window[b.next] {
			b.failures--
		}
	} else {
		b.filled++
	}
	b.window[b.next] = failed
	if failed {
		b.failures++
	}
	b.next = (b.next + 1) % len(b.window)
}

// transition must be called while holding the b.mu lock.
func (b *Breaker) transition(to State) {
	b.state = to
	b.gen++
	switch to {
	case StateClosed:
		clear(b.window)
		b.next, b.filled, b.failures = 0, 0, 0
	case StateOpen:
		b.openedAt = b.now()
	case StateHalfOpen:
		b.trials, b.successes = 0, 0
	}
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.listener != nil {
		b.listener(from, to)
	}
}
