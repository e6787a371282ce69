// Package circuit implements a consecutive-failure circuit breaker for calls
// to optional infrastructure that has a local fallback.
package circuit

import "sync"

type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

const (
	defaultFailureThreshold = 5
	defaultSuccessThreshold = 3
)

// Change reports a transition caused by the recorded outcome.
type Change struct {
	Opened bool
	Closed bool
}

// Breaker opens after FailureThreshold consecutive failures and closes again
// after SuccessThreshold consecutive successes while open.
type Breaker struct {
	name             string
	failureThreshold int
	successThreshold int

	mu        sync.Mutex
	state     State
	failures  int
	successes int
}

type Option func(*Breaker)

func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: defaultFailureThreshold,
		successThreshold: defaultSuccessThreshold,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) IsOpen() bool { return b.State() == StateOpen }

// RecordFailure counts a failed primary call. useFallback is true while the
// circuit is open.
func (b *Breaker) RecordFailure() (useFallback bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.successes = 0
	if b.state == StateOpen {
		return true, change
	}
	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = StateOpen
		change.Opened = true
		return true, change
	}
	return false, change
}

// RecordSuccess counts a successful primary call. usePrimary is false until
// enough successes closed an open circuit.
func (b *Breaker) RecordSuccess() (usePrimary bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateClosed {
		b.failures = 0
		return true, change
	}
	b.successes++
	if b.successes < b.successThreshold {
		return false, change
	}
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	change.Closed = true
	return true, change
}

// Reset closes the circuit and clears both counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
}
