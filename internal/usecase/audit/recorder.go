package audit

import (
	"context"
	"log"

	domain "invoice-approval-service/internal/domain/audit"
	"invoice-approval-service/pkg/id"
)

// Recorder is the append-only audit sink. Record is called after the main
// transaction has committed and must never fail the caller: sink errors are
// logged and swallowed.
type Recorder struct {
	repo domain.Repository
}

func NewRecorder(repo domain.Repository) *Recorder { return &Recorder{repo: repo} }

func (r *Recorder) Record(ctx context.Context, e domain.Entry) {
	if e.EntryID == "" {
		e.EntryID = id.NewID32()
	}
	if err := r.repo.Append(ctx, &e); err != nil {
		log.Printf("audit: dropped entry action=%s resource=%s/%s: %v",
			e.Action, e.ResourceType, e.ResourceID, err)
	}
}

func (r *Recorder) Trail(ctx context.Context, resourceType, resourceID string) ([]domain.Entry, error) {
	return r.repo.ListByResource(ctx, resourceType, resourceID)
}
