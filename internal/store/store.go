// Package store persists per-user collections of tickets and payment cards.
package store

import (
	"context"
	"fmt"

	"ticket-storefront/internal/status"
)

// Record is anything stored in a collection under a stable id.
type Record interface {
	RecordID() string
}

// Collection is a user-scoped list of records. Mutate is an atomic
// read-modify-write: either fn's result is stored in full or nothing changes.
type Collection[T Record] interface {
	LoadAll(ctx context.Context, userID string) ([]T, error)
	Mutate(ctx context.Context, userID string, fn func([]T) ([]T, error)) error
}

func Append[T Record](ctx context.Context, c Collection[T], userID string, items ...T) error {
	return c.Mutate(ctx, userID, func(cur []T) ([]T, error) {
		return append(cur, items...), nil
	})
}

// UpdateByID replaces records by id. Every id must already exist.
func UpdateByID[T Record](ctx context.Context, c Collection[T], userID string, items ...T) error {
	return c.Mutate(ctx, userID, func(cur []T) ([]T, error) {
		for _, item := range items {
			i := indexOf(cur, item.RecordID())
			if i < 0 {
				return nil, fmt.Errorf("%w: %s", status.ErrRecordNotFound, item.RecordID())
			}
			cur[i] = item
		}
		return cur, nil
	})
}

func RemoveByID[T Record](ctx context.Context, c Collection[T], userID, id string) error {
	return c.Mutate(ctx, userID, func(cur []T) ([]T, error) {
		i := indexOf(cur, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", status.ErrRecordNotFound, id)
		}
		return append(cur[:i], cur[i+1:]...), nil
	})
}

func FindByID[T Record](ctx context.Context, c Collection[T], userID, id string) (T, error) {
	var zero T
	items, err := c.LoadAll(ctx, userID)
	if err != nil {
		return zero, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return zero, fmt.Errorf("%w: %s", status.ErrRecordNotFound, id)
}

func indexOf[T Record](items []T, id string) int {
	for i, item := range items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}
