package store

import (
	"context"
	"sync"
)

type MemoryRepository[T any] struct {
	mu    sync.Mutex
	value *T
	saves int
}

func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{}
}

func (m *MemoryRepository[T]) Load(c context.Context) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.value == nil {
		return zero, ErrNotFound
	}
	return *m.value, nil
}

func (m *MemoryRepository[T]) Save(c context.Context, value T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = &value
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryRepository[T]) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
