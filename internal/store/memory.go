package store

import (
	"context"
	"sync"
)

// Memory keeps collections in process. A failure set with FailWith is
// returned by every call until cleared.
type Memory[T Record] struct {
	mu   sync.Mutex
	data map[string][]T
	err  error
}

func NewMemory[T Record]() *Memory[T] {
	return &Memory[T]{data: make(map[string][]T)}
}

func (m *Memory[T]) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory[T]) LoadAll(_ context.Context, userID string) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return clone(m.data[userID]), nil
}

func (m *Memory[T]) Mutate(_ context.Context, userID string, fn func([]T) ([]T, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	next, err := fn(clone(m.data[userID]))
	if err != nil {
		return err
	}
	m.data[userID] = clone(next)
	return nil
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
