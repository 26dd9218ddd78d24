package mysql

import (
	"context"

	invoiceDomain "invoice-approval-service/internal/domain/invoice"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository { return &InvoiceRepository{db: db} }

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoiceDomain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*invoiceDomain.Invoice, error) {
	return r.get(ctx, invoiceID, false)
}

func (r *InvoiceRepository) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*invoiceDomain.Invoice, error) {
	return r.get(ctx, invoiceID, true)
}

func (r *InvoiceRepository) get(ctx context.Context, invoiceID string, lock bool) (*invoiceDomain.Invoice, error) {
	q := r.db.WithContext(ctx)
	if lock && r.db.Dialector.Name() == "mysql" {
		// sqlite (tests) has no SELECT ... FOR UPDATE; its writes are
		// serialized anyway
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var out invoiceDomain.Invoice
	if err := q.Where("invoice_id = ?", invoiceID).First(&out).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("invoice_ref = ?", out.ID).
		Order("id ASC").
		Find(&out.History).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *InvoiceRepository) AppendEvent(ctx context.Context, ev *invoiceDomain.ApprovalEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

// SaveTransition writes the engine's mutation (status, pending_role) back,
// guarded on the stored row still being PENDING. Zero rows affected means a
// concurrent writer finalized or advanced the invoice first.
func (r *InvoiceRepository) SaveTransition(ctx context.Context, inv *invoiceDomain.Invoice) error {
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("id = ? AND status = ?", inv.ID, invoiceDomain.StatusPending).
		Updates(map[string]any{
			"status":            inv.Status,
			"pending_role":      inv.PendingRole,
			"status_updated_at": inv.StatusUpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invoiceDomain.ErrAlreadyFinalized
	}
	return nil
}

func (r *InvoiceRepository) ListBySubmitter(ctx context.Context, submittedBy string) ([]invoiceDomain.Invoice, error) {
	var out []invoiceDomain.Invoice
	err := r.db.WithContext(ctx).
		Where("submitted_by = ?", submittedBy).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
