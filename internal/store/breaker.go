package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ticket-storefront/internal/status"
	"ticket-storefront/monitoring"
	"ticket-storefront/utils"
)

type breakerCollection[T Record] struct {
	next    Collection[T]
	breaker *utils.CircuitBreaker
}

// WithBreaker guards a backend with a circuit breaker. Backend failures and
// open-breaker rejections come back wrapped in status.ErrPersistence; errors
// returned by a Mutate callback pass through untouched and do not count
// against the breaker.
func WithBreaker[T Record](next Collection[T], breaker *utils.CircuitBreaker) Collection[T] {
	return &breakerCollection[T]{next: next, breaker: breaker}
}

func (b *breakerCollection[T]) LoadAll(ctx context.Context, userID string) ([]T, error) {
	res, err := b.breaker.Execute(ctx, func() (any, error) {
		return b.next.LoadAll(ctx, userID)
	})
	if err != nil {
		return nil, b.fail("load", err)
	}
	items, _ := res.([]T)
	return items, nil
}

func (b *breakerCollection[T]) Mutate(ctx context.Context, userID string, fn func([]T) ([]T, error)) error {
	var callbackErr error
	_, err := b.breaker.Execute(ctx, func() (any, error) {
		err := b.next.Mutate(ctx, userID, func(cur []T) ([]T, error) {
			next, err := fn(cur)
			callbackErr = err
			return next, err
		})
		if callbackErr != nil {
			return nil, nil
		}
		return nil, err
	})
	if callbackErr != nil {
		return callbackErr
	}
	if err != nil {
		return b.fail("mutate", err)
	}
	return nil
}

func (b *breakerCollection[T]) fail(op string, err error) error {
	monitoring.TrackPersistenceFailure(b.breaker.Name(), op)
	slog.Error("Store operation failed", "store", b.breaker.Name(), "op", op, "error", err)

	if errors.Is(err, status.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", status.ErrPersistence, err)
}
