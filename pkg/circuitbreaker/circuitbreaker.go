// Package circuitbreaker guards outbound calls to the weather and mandi
// collaborators. After too many failures inside the window the breaker opens
// and callers go straight to their fallback (mock data) until the cooldown
// elapses; a single half-open probe then decides whether to close again.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var ErrOpen = errors.New("circuit breaker is open")

type CircuitBreaker struct {
	mu sync.Mutex

	maxFailures int
	cooldown    time.Duration
	window      time.Duration

	state       State
	failures    []time.Time
	lastFailure time.Time
}

func New(maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return NewWithWindow(maxFailures, cooldown, time.Minute)
}

func NewWithWindow(maxFailures int, cooldown, window time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		window:      window,
		state:       StateClosed,
	}
}

// Execute runs fn unless the breaker is open, in which case fallback runs
// instead (or ErrOpen is returned when there is no fallback). A failing fn
// counts toward opening the breaker; the fallback's outcome does not.
func (cb *CircuitBreaker) Execute(fn func() error, fallback func() error) error {
	if !cb.allow() {
		if fallback != nil {
			return fallback()
		}
		return ErrOpen
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if time.Since(cb.lastFailure) < cb.cooldown {
			return false
		}
		cb.state = StateHalfOpen
		cb.failures = cb.failures[:0]
	}
	return true
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	if err == nil {
		cb.prune(now)
		if cb.state == StateHalfOpen {
			cb.state = StateClosed
			cb.failures = cb.failures[:0]
		}
		return
	}

	cb.lastFailure = now
	cb.failures = append(cb.failures, now)
	cb.prune(now)
	if cb.state == StateHalfOpen || len(cb.failures) > cb.maxFailures {
		cb.state = StateOpen
	}
}

// prune drops failures older than the window.
func (cb *CircuitBreaker) prune(now time.Time) {
	cutoff := now.Add(-cb.window)
	kept := cb.failures[:0]
	for _, t := range cb.failures {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	cb.failures = kept
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
