package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	auditDomain "invoice-approval-service/internal/domain/audit"
	counterDomain "invoice-approval-service/internal/domain/counter"
	invoiceDomain "invoice-approval-service/internal/domain/invoice"
	"invoice-approval-service/internal/domain/uow"
	"invoice-approval-service/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openUowTestDB migrates every table, so the UoW can orchestrate all repos.
func openUowTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&invoiceSQLite{}, &eventSQLite{}, &counterDomain.Counter{}, &auditDomain.Entry{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	invRepo := NewInvoiceRepository(db)
	auditRepo := NewAuditRepository(db)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		inv := makeInvoice("INV-2026-000100", "emp-1")
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		if inv.ID == 0 {
			t.Fatalf("invoice auto ID not set")
		}
		return r.Audits.Append(ctx, &auditDomain.Entry{
			EntryID: id.NewID32(), Action: "INVOICE_SUBMITTED",
			ActorID: "emp-1", ActorRole: "employee",
			ResourceType: "invoice", ResourceID: inv.InvoiceID,
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	// Verify post-commit visibility
	if _, err := invRepo.GetByInvoiceID(ctx, "INV-2026-000100"); err != nil {
		t.Fatalf("invoice not visible after commit: %v", err)
	}
	trail, err := auditRepo.ListByResource(ctx, "invoice", "INV-2026-000100")
	if err != nil || len(trail) != 1 {
		t.Fatalf("audit trail not visible after commit: %v (%d entries)", err, len(trail))
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	invRepo := NewInvoiceRepository(db)

	sentinel := errors.New("boom")

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Invoices.Create(ctx, makeInvoice("INV-2026-000101", "emp-1")); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel, got %v", err)
	}

	if _, err := invRepo.GetByInvoiceID(ctx, "INV-2026-000101"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("invoice visible after rollback: %v", err)
	}
}

func TestGormUoW_WithinInvoiceTx_LoadsAggregate(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	invRepo := NewInvoiceRepository(db)

	seeded := makeInvoice("INV-2026-000102", "emp-1")
	if err := invRepo.Create(ctx, seeded); err != nil {
		t.Fatalf("seed Create: %v", err)
	}
	if err := invRepo.AppendEvent(ctx, &invoiceDomain.ApprovalEvent{
		InvoiceRef: seeded.ID, Decision: invoiceDomain.DecisionApproved,
		ActorID: "mgr-1", ActorRole: invoiceDomain.RoleManager, ActedAs: invoiceDomain.RoleManager,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed AppendEvent: %v", err)
	}

	err := guow.WithinInvoiceTx(ctx, "INV-2026-000102", func(r uow.Repos, inv *invoiceDomain.Invoice) error {
		if inv.InvoiceID != "INV-2026-000102" {
			t.Fatalf("wrong invoice passed in: %+v", inv)
		}
		if len(inv.History) != 1 {
			t.Fatalf("history not loaded: %+v", inv.History)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinInvoiceTx: %v", err)
	}
}

func TestGormUoW_WithinInvoiceTx_UnknownInvoice(t *testing.T) {
	db := openUowTestDB(t)
	guow := NewGormUoW(db)

	err := guow.WithinInvoiceTx(context.Background(), "INV-2026-404404", func(r uow.Repos, inv *invoiceDomain.Invoice) error {
		t.Fatalf("fn must not run for missing invoice")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}
