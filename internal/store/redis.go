package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const maxWatchRetries = 3

// Redis stores each user's collection as one JSON array under
// "{prefix}:{userID}" and rewrites it whole on every change.
type Redis[T Record] struct {
	client *redis.Client
	prefix string
}

func NewRedis[T Record](client *redis.Client, prefix string) *Redis[T] {
	return &Redis[T]{client: client, prefix: prefix}
}

func (r *Redis[T]) key(userID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, userID)
}

func (r *Redis[T]) LoadAll(ctx context.Context, userID string) ([]T, error) {
	return r.load(ctx, r.client, r.key(userID))
}

func (r *Redis[T]) Mutate(ctx context.Context, userID string, fn func([]T) ([]T, error)) error {
	key := r.key(userID)

	txf := func(tx *redis.Tx) error {
		cur, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(data), 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxWatchRetries; i++ {
		err = r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("update %s: %w", key, err)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis[T]) load(ctx context.Context, c getter, key string) ([]T, error) {
	raw, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}
