package audit

import "context"

type Repository interface {
	// Append writes one entry; entries are never edited afterwards
	Append(ctx context.Context, e *Entry) error

	// ListByResource returns the trail for one resource, oldest first
	ListByResource(ctx context.Context, resourceType, resourceID string) ([]Entry, error)
}
