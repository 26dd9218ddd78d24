package countermock

import (
	"context"
	"sync"

	domain "invoice-approval-service/internal/domain/counter"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository. When no
// function fields are set it behaves as a correct in-memory atomic counter,
// which is what most allocator tests want.
type Repo struct {
	IncrementAndGetFn func(ctx context.Context, key string) (int64, error)
	CurrentFn         func(ctx context.Context, key string) (*int64, error)
	ResetFn           func(ctx context.Context, key string, value int64) error

	mu   sync.Mutex
	seqs map[string]int64
}

func (m *Repo) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	if m.IncrementAndGetFn != nil {
		return m.IncrementAndGetFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	m.seqs[key]++
	return m.seqs[key], nil
}

func (m *Repo) Current(ctx context.Context, key string) (*int64, error) {
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		return nil, nil
	}
	v, ok := m.seqs[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *Repo) Reset(ctx context.Context, key string, value int64) error {
	if m.ResetFn != nil {
		return m.ResetFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	m.seqs[key] = value
	return nil
}
