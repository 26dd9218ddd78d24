package auditmock

import (
	"context"
	"sync"

	domain "invoice-approval-service/internal/domain/audit"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository. Without
// overrides it records appends in memory so tests can inspect the trail.
type Repo struct {
	AppendFn         func(ctx context.Context, e *domain.Entry) error
	ListByResourceFn func(ctx context.Context, resourceType, resourceID string) ([]domain.Entry, error)

	mu      sync.Mutex
	Entries []domain.Entry
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Repo) ListByResource(ctx context.Context, resourceType, resourceID string) ([]domain.Entry, error) {
	if m.ListByResourceFn != nil {
		return m.ListByResourceFn(ctx, resourceType, resourceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Entry
	for _, e := range m.Entries {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out, nil
}
