package invoice

import "time"

// The approval workflow is fixed at two sequential stages: a manager-slot
// decision, then a finance-slot decision. REJECT at either stage terminates.
// Admins may act in either slot; the event then records the slot in ActedAs
// and the real role in ActorRole.

// ExpectedRole returns the role required to act next on inv. ok is false when
// the workflow accepts no further action: the invoice is terminal, or its
// history is in a shape the engine does not recognize (defensive no-op).
func ExpectedRole(inv *Invoice) (Role, bool) {
	if inv == nil || inv.Status.Terminal() {
		return "", false
	}
	if len(inv.History) == 0 {
		return RoleManager, true
	}
	last := inv.History[len(inv.History)-1]
	if last.Decision == DecisionApproved && last.ActedAs == RoleManager {
		return RoleFinance, true
	}
	return "", false
}

// ApplyAction validates and applies one APPROVE/REJECT decision to the
// in-memory aggregate: it appends a history event and advances Status. It
// performs no I/O; persisting (or discarding) the mutation is the caller's
// job. Precondition failures are returned in a fixed order so callers can
// rely on the specific kind.
func ApplyAction(inv *Invoice, actor Actor, action Action, comment string) error {
	if inv == nil || actor.ID == "" || !actor.Role.Valid() || !action.Valid() {
		return ErrInvalidInput
	}
	if inv.Status.Terminal() {
		return ErrAlreadyFinalized
	}
	// Segregation of duties: submitters never decide their own invoice,
	// admin being the only exception. Checked before stage validation.
	if actor.ID == inv.SubmittedBy && actor.Role != RoleAdmin {
		return ErrConflictOfInterest
	}
	expected, ok := ExpectedRole(inv)
	if !ok {
		return ErrNoActionExpected
	}
	if actor.Role != expected && actor.Role != RoleAdmin {
		return &WrongStageError{Expected: expected}
	}

	effective := actor.Role
	if actor.Role == RoleAdmin {
		effective = expected
	}

	decision := DecisionApproved
	if action == ActionReject {
		decision = DecisionRejected
	}
	inv.History = append(inv.History, ApprovalEvent{
		InvoiceRef: inv.ID,
		Decision:   decision,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		ActedAs:    effective,
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	})

	if action == ActionReject {
		inv.Status = StatusRejected
		inv.PendingRole = nil
		inv.StatusUpdatedAt = time.Now().UTC()
		return nil
	}

	switch effective {
	case RoleManager:
		// First stage cleared; invoice stays pending, awaiting finance.
		next := RoleFinance
		inv.PendingRole = &next
		inv.StatusUpdatedAt = time.Now().UTC()
		return nil
	case RoleFinance:
		inv.Status = StatusApproved
		inv.PendingRole = nil
		inv.StatusUpdatedAt = time.Now().UTC()
		return nil
	default:
		// Unreachable given the stage check above; kept so a regression
		// surfaces loudly instead of silently corrupting state.
		return ErrUnhandledState
	}
}
