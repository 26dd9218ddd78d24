package invoice

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Terminal reports whether the workflow accepts no further transitions.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleFinance  Role = "finance"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleFinance, RoleAdmin:
		return true
	}
	return false
}

// Action is what a caller requests; Decision is what history records.
type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

func (a Action) Valid() bool { return a == ActionApprove || a == ActionReject }

type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

var (
	ErrNotFound           = errors.New("invoice not found")
	ErrInvalidInput       = errors.New("invalid workflow input")
	ErrAlreadyFinalized   = errors.New("invoice already finalized")
	ErrConflictOfInterest = errors.New("submitter cannot decide own invoice")
	ErrNoActionExpected   = errors.New("no action expected for invoice state")
	ErrWrongStage         = errors.New("actor role does not match expected stage")
	ErrUnhandledState     = errors.New("unhandled workflow state")
)

// WrongStageError carries the role the workflow expects next so clients can
// render a useful message. errors.Is(err, ErrWrongStage) matches it.
type WrongStageError struct {
	Expected Role
}

func (e *WrongStageError) Error() string {
	return fmt.Sprintf("wrong stage: expected role %q", e.Expected)
}

func (e *WrongStageError) Unwrap() error { return ErrWrongStage }

// Table: invoices. Status and History are owned by the workflow engine;
// everything else is set once at submission.
type Invoice struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier, e.g. INV-2026-000042 (or a degraded-mode variant)
	InvoiceID     string    `gorm:"column:invoice_id;size:64;not null;uniqueIndex:ux_invoices_invoice_id_active" json:"invoice_id"`
	Amount        float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	EffectiveDate time.Time `gorm:"column:effective_date;type:date;not null" json:"effective_date"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	SubmittedBy   string    `gorm:"column:submitted_by;size:32;not null;index:idx_invoices_submitter" json:"submitted_by"`
	Status        Status    `gorm:"column:status;type:enum('PENDING','APPROVED','REJECTED');default:'PENDING'" json:"status"`
	// Role expected to act next; nil once the invoice is terminal.
	PendingRole     *Role          `gorm:"column:pending_role;size:16" json:"pending_role,omitempty"`
	StatusUpdatedAt time.Time      `gorm:"column:status_updated_at;autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`

	// Ordered decision history, loaded by the repository. Not a gorm
	// association: rows are append-only and written one at a time.
	History []ApprovalEvent `gorm:"-" json:"history,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// Table: approval_events. Rows are immutable once written; insertion order
// is decision order.
type ApprovalEvent struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// FK to invoices.id (numeric)
	InvoiceRef uint64   `gorm:"column:invoice_ref;not null;index:idx_events_invoice" json:"-"`
	Decision   Decision `gorm:"column:decision;size:16;not null" json:"decision"`
	ActorID    string   `gorm:"column:actor_id;size:32;not null" json:"actor_id"`
	// Real role of the actor, kept for audit fidelity.
	ActorRole Role `gorm:"column:actor_role;size:16;not null" json:"actor_role"`
	// Stage slot the actor occupied; differs from ActorRole on admin override.
	ActedAs   Role      `gorm:"column:acted_as;size:16;not null" json:"acted_as"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ApprovalEvent) TableName() string { return "approval_events" }

// Actor is whoever calls into the workflow.
type Actor struct {
	ID   string
	Role Role
}
