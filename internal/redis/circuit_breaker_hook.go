package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// CircuitBreakerHook implements redis.Hook to add circuit-breaker protection
// to all Redis operations. When the store is down every request would
// otherwise eat a full connection timeout before the webhook can reply; the
// open breaker fails them immediately instead and the handler falls back to
// its empty-reply policy.
type CircuitBreakerHook struct {
	cb *gobreaker.CircuitBreaker
}

var _ goredis.Hook = (*CircuitBreakerHook)(nil)

// NewCircuitBreakerHook creates a hook that opens after 5 consecutive
// failures and probes again after 30 seconds.
func NewCircuitBreakerHook() *CircuitBreakerHook {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "redis",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return &CircuitBreakerHook{cb: cb}
}

// DialHook wraps connection establishment with the circuit breaker.
func (h *CircuitBreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := h.cb.Execute(func() (any, error) {
			return next(ctx, network, addr)
		})
		if err != nil {
			return nil, fmt.Errorf("redis dial: %w", err)
		}
		return conn.(net.Conn), nil
	}
}

// ProcessHook wraps command execution with the circuit breaker. A key miss
// (redis.Nil) is a successful round trip, not a failure.
func (h *CircuitBreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		_, err := h.cb.Execute(func() (any, error) {
			if err := next(ctx, cmd); err != nil && !errors.Is(err, goredis.Nil) {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			return fmt.Errorf("redis process: %w", err)
		}
		return cmd.Err()
	}
}

// ProcessPipelineHook wraps pipeline execution with the circuit breaker.
func (h *CircuitBreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		_, err := h.cb.Execute(func() (any, error) {
			return nil, next(ctx, cmds)
		})
		if err != nil {
			return fmt.Errorf("redis pipeline: %w", err)
		}
		return nil
	}
}

// State returns the breaker state, for tests and health checks.
func (h *CircuitBreakerHook) State() gobreaker.State {
	return h.cb.State()
}
