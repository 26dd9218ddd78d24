package uow

import (
	"context"

	"invoice-approval-service/internal/domain/audit"
	"invoice-approval-service/internal/domain/counter"
	"invoice-approval-service/internal/domain/invoice"
)

type Repos struct {
	Invoices invoice.Repository
	Counters counter.Repository
	Audits   audit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the invoice row first, then pass it in
	WithinInvoiceTx(ctx context.Context, invoiceID string, fn func(r Repos, inv *invoice.Invoice) error) error
}
