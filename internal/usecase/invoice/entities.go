package invoice

import (
	"time"

	domain "invoice-approval-service/internal/domain/invoice"
)

type SubmitInput struct {
	SubmittedBy   string
	SubmitterRole domain.Role
	Amount        float64
	EffectiveDate time.Time // date-only is fine; stored .UTC()
	Description   string
}

type DecideInput struct {
	InvoiceID string
	Actor     domain.Actor
	Action    domain.Action
	Comment   string
}

type EventDTO struct {
	Decision  string    `json:"decision"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	ActedAs   string    `json:"acted_as"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type InvoiceDTO struct {
	InvoiceID     string     `json:"invoice_id"`
	Amount        float64    `json:"amount"`
	EffectiveDate time.Time  `json:"effective_date"`
	Description   string     `json:"description,omitempty"`
	SubmittedBy   string     `json:"submitted_by"`
	Status        string     `json:"status"`
	ExpectedRole  string     `json:"expected_role,omitempty"`
	DegradedID    bool       `json:"degraded_id,omitempty"`
	History       []EventDTO `json:"history"`
	CreatedAt     time.Time  `json:"created_at"`
}
