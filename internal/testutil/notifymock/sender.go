package notifymock

import (
	"context"
	"sync"

	"invoice-approval-service/internal/domain/invoice"
	"invoice-approval-service/internal/notify"
)

// Ensure compile-time compliance
var _ notify.Sender = (*Sender)(nil)

type Sent struct {
	Event     string
	InvoiceID string
	Actor     invoice.Actor
}

// Sender records every notification; NotifyFn overrides the behavior.
type Sender struct {
	NotifyFn func(ctx context.Context, event string, inv *invoice.Invoice, actor invoice.Actor) error

	mu   sync.Mutex
	Sent []Sent
}

func (m *Sender) Notify(ctx context.Context, event string, inv *invoice.Invoice, actor invoice.Actor) error {
	if m.NotifyFn != nil {
		return m.NotifyFn(ctx, event, inv, actor)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Sent{Event: event, InvoiceID: inv.InvoiceID, Actor: actor})
	return nil
}
