package invoice

import "context"

type Repository interface {
	// Create a new invoice (DB uniqueness guards the public invoice_id)
	Create(ctx context.Context, inv *Invoice) error

	// Get by public invoice_id, history loaded in decision order
	GetByInvoiceID(ctx context.Context, invoiceID string) (*Invoice, error)

	// Same, but locks the row for the enclosing transaction
	GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*Invoice, error)

	// AppendEvent writes one immutable history row
	AppendEvent(ctx context.Context, ev *ApprovalEvent) error

	// SaveTransition persists status/pending_role mutated by the engine.
	// The write is guarded on the stored row still being PENDING; a row
	// already terminal (or advanced by a concurrent writer) yields
	// ErrAlreadyFinalized and the caller must re-load and re-validate.
	SaveTransition(ctx context.Context, inv *Invoice) error

	// ListBySubmitter returns a submitter's invoices, newest first
	ListBySubmitter(ctx context.Context, submittedBy string) ([]Invoice, error)
}
