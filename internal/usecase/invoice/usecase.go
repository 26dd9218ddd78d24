package invoice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	auditDomain "invoice-approval-service/internal/domain/audit"
	domain "invoice-approval-service/internal/domain/invoice"
	"invoice-approval-service/internal/domain/uow"
	"invoice-approval-service/internal/notify"
	"invoice-approval-service/internal/usecase/audit"
	"invoice-approval-service/internal/usecase/sequence"

	"gorm.io/gorm"
)

var (
	ErrInvalidSubmission = errors.New("invalid invoice submission")
	// ErrIDExhausted surfaces only after the bounded retry loop loses the
	// identifier race repeatedly; callers should tell the user to retry.
	ErrIDExhausted = errors.New("could not allocate a unique invoice id")
)

// Identifier races between the counter increment and the invoices unique
// index are rare; three fresh allocations is plenty.
const submitRetries = 3

const resourceTypeInvoice = "invoice"

type Usecase struct {
	invoices  domain.Repository
	uow       uow.UnitOfWork
	allocator *sequence.Allocator
	recorder  *audit.Recorder
	sender    notify.Sender

	idPrefix  string // e.g. "INV"; the period is appended per allocation
	idPadding int
}

func NewUsecase(
	invoices domain.Repository,
	tx uow.UnitOfWork,
	allocator *sequence.Allocator,
	recorder *audit.Recorder,
	sender notify.Sender,
	idPrefix string,
	idPadding int,
) *Usecase {
	return &Usecase{
		invoices:  invoices,
		uow:       tx,
		allocator: allocator,
		recorder:  recorder,
		sender:    sender,
		idPrefix:  idPrefix,
		idPadding: idPadding,
	}
}

// Submit allocates an identifier and creates a PENDING invoice. On a
// uniqueness conflict it re-allocates and rebuilds the aggregate from
// scratch, bounded at submitRetries; it never drops the submission silently.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*InvoiceDTO, error) {
	if in.SubmittedBy == "" || !in.SubmitterRole.Valid() || in.Amount <= 0 || in.EffectiveDate.IsZero() {
		return nil, ErrInvalidSubmission
	}

	period := time.Now().UTC().Format("2006")
	prefix := u.idPrefix + "-" + period

	for attempt := 1; attempt <= submitRetries; attempt++ {
		invoiceID, err := u.allocator.NextID(ctx, period, prefix, u.idPadding)
		if err != nil {
			// allocator misuse is a wiring bug, not a transient condition
			return nil, err
		}

		inv := &domain.Invoice{
			InvoiceID:       invoiceID,
			Amount:          in.Amount,
			EffectiveDate:   in.EffectiveDate.UTC(),
			Description:     in.Description,
			SubmittedBy:     in.SubmittedBy,
			Status:          domain.StatusPending,
			StatusUpdatedAt: time.Now().UTC(),
		}

		err = u.invoices.Create(ctx, inv)
		if err == nil {
			u.recorder.Record(ctx, auditDomain.Entry{
				Action:       "INVOICE_SUBMITTED",
				ActorID:      in.SubmittedBy,
				ActorRole:    string(in.SubmitterRole),
				ResourceType: resourceTypeInvoice,
				ResourceID:   inv.InvoiceID,
				Metadata:     fmt.Sprintf(`{"amount":%.2f,"degraded_id":%t}`, inv.Amount, sequence.IsDegradedID(inv.InvoiceID)),
			})
			u.notify(ctx, "invoice.submitted", inv, domain.Actor{ID: in.SubmittedBy, Role: in.SubmitterRole})
			return toDTO(inv), nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("invoice: id %s lost uniqueness race (attempt %d/%d), reallocating", invoiceID, attempt, submitRetries)
			continue
		}
		return nil, err
	}
	return nil, ErrIDExhausted
}

// Decide applies one APPROVE/REJECT decision inside a row-locked transaction:
// re-load, run the engine, persist the appended event and the guarded status
// update together. Audit and notification run only after commit.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*InvoiceDTO, error) {
	if u.uow == nil {
		return nil, domain.ErrInvalidInput
	}

	var decided *domain.Invoice
	err := u.uow.WithinInvoiceTx(ctx, in.InvoiceID, func(r uow.Repos, inv *domain.Invoice) error {
		if err := domain.ApplyAction(inv, in.Actor, in.Action, in.Comment); err != nil {
			return err
		}
		ev := &inv.History[len(inv.History)-1]
		ev.InvoiceRef = inv.ID
		if err := r.Invoices.AppendEvent(ctx, ev); err != nil {
			return err
		}
		if err := r.Invoices.SaveTransition(ctx, inv); err != nil {
			return err
		}
		decided = inv
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	ev := decided.History[len(decided.History)-1]
	u.recorder.Record(ctx, auditDomain.Entry{
		Action:       "INVOICE_" + string(ev.Decision),
		ActorID:      ev.ActorID,
		ActorRole:    string(ev.ActorRole),
		ResourceType: resourceTypeInvoice,
		ResourceID:   decided.InvoiceID,
		Metadata:     fmt.Sprintf(`{"acted_as":%q,"status":%q}`, ev.ActedAs, decided.Status),
	})
	u.notify(ctx, "invoice."+eventName(decided.Status), decided, in.Actor)

	return toDTO(decided), nil
}

func (u *Usecase) Get(ctx context.Context, invoiceID string) (*InvoiceDTO, error) {
	inv, err := u.invoices.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(inv), nil
}

// History returns just the decision trail of one invoice.
func (u *Usecase) History(ctx context.Context, invoiceID string) ([]EventDTO, error) {
	dto, err := u.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return dto.History, nil
}

func (u *Usecase) ListBySubmitter(ctx context.Context, submittedBy string) ([]InvoiceDTO, error) {
	invs, err := u.invoices.ListBySubmitter(ctx, submittedBy)
	if err != nil {
		return nil, err
	}
	out := make([]InvoiceDTO, 0, len(invs))
	for i := range invs {
		out = append(out, *toDTO(&invs[i]))
	}
	return out, nil
}

func (u *Usecase) AuditTrail(ctx context.Context, invoiceID string) ([]auditDomain.Entry, error) {
	return u.recorder.Trail(ctx, resourceTypeInvoice, invoiceID)
}

// notify is fire-and-forget; a failed or missing sender never affects the
// committed decision.
func (u *Usecase) notify(ctx context.Context, event string, inv *domain.Invoice, actor domain.Actor) {
	if u.sender == nil {
		return
	}
	if err := u.sender.Notify(ctx, event, inv, actor); err != nil {
		log.Printf("notify: %s for %s failed: %v", event, inv.InvoiceID, err)
	}
}

func eventName(s domain.Status) string {
	switch s {
	case domain.StatusApproved:
		return "approved"
	case domain.StatusRejected:
		return "rejected"
	default:
		return "stage_advanced"
	}
}

func toDTO(inv *domain.Invoice) *InvoiceDTO {
	dto := &InvoiceDTO{
		InvoiceID:     inv.InvoiceID,
		Amount:        inv.Amount,
		EffectiveDate: inv.EffectiveDate,
		Description:   inv.Description,
		SubmittedBy:   inv.SubmittedBy,
		Status:        string(inv.Status),
		DegradedID:    sequence.IsDegradedID(inv.InvoiceID),
		History:       make([]EventDTO, 0, len(inv.History)),
		CreatedAt:     inv.CreatedAt,
	}
	if role, ok := domain.ExpectedRole(inv); ok {
		dto.ExpectedRole = string(role)
	}
	for _, ev := range inv.History {
		dto.History = append(dto.History, EventDTO{
			Decision:  string(ev.Decision),
			ActorID:   ev.ActorID,
			ActorRole: string(ev.ActorRole),
			ActedAs:   string(ev.ActedAs),
			Comment:   ev.Comment,
			CreatedAt: ev.CreatedAt,
		})
	}
	return dto
}
