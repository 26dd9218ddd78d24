package invoicemock

import (
	"context"

	domain "invoice-approval-service/internal/domain/invoice"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the methods a test needs; the rest return zero values.
type Repo struct {
	CreateFn                  func(ctx context.Context, inv *domain.Invoice) error
	GetByInvoiceIDFn          func(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	GetByInvoiceIDForUpdateFn func(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	AppendEventFn             func(ctx context.Context, ev *domain.ApprovalEvent) error
	SaveTransitionFn          func(ctx context.Context, inv *domain.Invoice) error
	ListBySubmitterFn         func(ctx context.Context, submittedBy string) ([]domain.Invoice, error)
}

func (m *Repo) Create(ctx context.Context, inv *domain.Invoice) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}

func (m *Repo) GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	if m.GetByInvoiceIDFn != nil {
		return m.GetByInvoiceIDFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	if m.GetByInvoiceIDForUpdateFn != nil {
		return m.GetByInvoiceIDForUpdateFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}

func (m *Repo) AppendEvent(ctx context.Context, ev *domain.ApprovalEvent) error {
	if m.AppendEventFn != nil {
		return m.AppendEventFn(ctx, ev)
	}
	return nil
}

func (m *Repo) SaveTransition(ctx context.Context, inv *domain.Invoice) error {
	if m.SaveTransitionFn != nil {
		return m.SaveTransitionFn(ctx, inv)
	}
	return nil
}

func (m *Repo) ListBySubmitter(ctx context.Context, submittedBy string) ([]domain.Invoice, error) {
	if m.ListBySubmitterFn != nil {
		return m.ListBySubmitterFn(ctx, submittedBy)
	}
	return nil, nil
}
