package notify

import (
	"context"
	"log"

	"invoice-approval-service/internal/domain/invoice"
)

// Sender delivers workflow notifications. Delivery is best-effort and
// fire-and-forget: callers never block on it and never propagate its errors.
type Sender interface {
	Notify(ctx context.Context, event string, inv *invoice.Invoice, actor invoice.Actor) error
}

// LogSender writes notifications to the process log. Stands in for a real
// mail/chat integration, which is outside this service.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (s *LogSender) Notify(_ context.Context, event string, inv *invoice.Invoice, actor invoice.Actor) error {
	log.Printf("notify: event=%s invoice=%s status=%s actor=%s role=%s",
		event, inv.InvoiceID, inv.Status, actor.ID, actor.Role)
	return nil
}
