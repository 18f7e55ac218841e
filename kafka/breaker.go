package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/mini-erp/pkg/logger"
)

// ErrCircuitOpen is returned while the breaker is rejecting publishes
var ErrCircuitOpen = errors.New("kafka circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// BreakingPublisher stops calling a failing broker for a cool-down period so
// that order transitions do not each wait out the producer timeout.
type BreakingPublisher struct {
	next          EventPublisher
	maxFailures   int
	coolDown      time.Duration
	probesToClose int

	mu       sync.Mutex
	state    CircuitState
	failures int
	probes   int
	openedAt time.Time
	now      func() time.Time
}

// NewBreakingPublisher opens after maxFailures consecutive failures and
// retries after coolDown
func NewBreakingPublisher(next EventPublisher, maxFailures int, coolDown time.Duration) *BreakingPublisher {
	return &BreakingPublisher{
		next:          next,
		maxFailures:   maxFailures,
		coolDown:      coolDown,
		probesToClose: 3,
		state:         StateClosed,
		now:           time.Now,
	}
}

func (b *BreakingPublisher) Publish(ctx context.Context, event PurchaseOrderEvent) error {
	if !b.allow() {
		return ErrCircuitOpen
	}

	err := b.next.Publish(ctx, event)
	b.record(ctx, err)
	return err
}

func (b *BreakingPublisher) Close() error {
	return b.next.Close()
}

// State returns the current breaker state
func (b *BreakingPublisher) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Healthy reports an error while the breaker is not closed; used as an
// optional health probe
func (b *BreakingPublisher) Healthy(context.Context) error {
	if state := b.State(); state != StateClosed {
		return errors.New("kafka publisher circuit is " + string(state))
	}
	return nil
}

func (b *BreakingPublisher) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.coolDown {
		b.state = StateHalfOpen
		b.probes = 0
	}
	return b.state != StateOpen
}

func (b *BreakingPublisher) record(ctx context.Context, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.maxFailures {
			if b.state != StateOpen {
				logger.Error(ctx).
					Int("failures", b.failures).
					Dur("cool_down", b.coolDown).
					Msg("Kafka circuit breaker opened")
			}
			b.state = StateOpen
			b.openedAt = b.now()
		}
		return
	}

	switch b.state {
	case StateHalfOpen:
		b.probes++
		if b.probes >= b.probesToClose {
			b.state = StateClosed
			b.failures = 0
			logger.Info(ctx).Msg("Kafka circuit breaker closed after recovery")
		}
	case StateClosed:
		b.failures = 0
	}
}
