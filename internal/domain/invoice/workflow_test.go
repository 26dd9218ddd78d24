package invoice

import (
	"errors"
	"testing"
	"time"
)

func pendingInvoice(submittedBy string) *Invoice {
	return &Invoice{
		ID:            42,
		InvoiceID:     "INV-2026-000042",
		Amount:        1250.50,
		EffectiveDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		SubmittedBy:   submittedBy,
		Status:        StatusPending,
	}
}

func managerApproved(submittedBy string) *Invoice {
	inv := pendingInvoice(submittedBy)
	inv.History = append(inv.History, ApprovalEvent{
		InvoiceRef: inv.ID,
		Decision:   DecisionApproved,
		ActorID:    "mgr-1",
		ActorRole:  RoleManager,
		ActedAs:    RoleManager,
		CreatedAt:  time.Now().UTC(),
	})
	next := RoleFinance
	inv.PendingRole = &next
	return inv
}

func TestExpectedRole(t *testing.T) {
	tests := []struct {
		name     string
		inv      *Invoice
		wantRole Role
		wantOK   bool
	}{
		{
			name:     "empty history expects manager",
			inv:      pendingInvoice("emp-1"),
			wantRole: RoleManager,
			wantOK:   true,
		},
		{
			name:     "manager-approved expects finance",
			inv:      managerApproved("emp-1"),
			wantRole: RoleFinance,
			wantOK:   true,
		},
		{
			name: "admin override in manager slot still expects finance",
			inv: func() *Invoice {
				inv := pendingInvoice("emp-1")
				inv.History = append(inv.History, ApprovalEvent{
					Decision:  DecisionApproved,
					ActorID:   "adm-1",
					ActorRole: RoleAdmin,
					ActedAs:   RoleManager,
				})
				return inv
			}(),
			wantRole: RoleFinance,
			wantOK:   true,
		},
		{
			name: "approved is terminal",
			inv: func() *Invoice {
				inv := managerApproved("emp-1")
				inv.Status = StatusApproved
				return inv
			}(),
			wantOK: false,
		},
		{
			name: "rejected is terminal",
			inv: func() *Invoice {
				inv := pendingInvoice("emp-1")
				inv.Status = StatusRejected
				return inv
			}(),
			wantOK: false,
		},
		{
			name: "unrecognized history shape is a no-op",
			inv: func() *Invoice {
				// Last entry rejected but status still pending: defensive nil.
				inv := pendingInvoice("emp-1")
				inv.History = append(inv.History, ApprovalEvent{
					Decision: DecisionRejected, ActorID: "mgr-1",
					ActorRole: RoleManager, ActedAs: RoleManager,
				})
				return inv
			}(),
			wantOK: false,
		},
		{
			name:   "nil invoice",
			inv:    nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			role, ok := ExpectedRole(tt.inv)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && role != tt.wantRole {
				t.Fatalf("role = %q, want %q", role, tt.wantRole)
			}
		})
	}
}

func TestApplyAction_ManagerApprove(t *testing.T) {
	inv := pendingInvoice("emp-1")

	err := ApplyAction(inv, Actor{ID: "mgr-1", Role: RoleManager}, ActionApprove, "")
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}
	if inv.Status != StatusPending {
		t.Fatalf("status = %s, want PENDING", inv.Status)
	}
	if len(inv.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(inv.History))
	}
	ev := inv.History[0]
	if ev.Decision != DecisionApproved || ev.ActorRole != RoleManager || ev.ActedAs != RoleManager {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if inv.PendingRole == nil || *inv.PendingRole != RoleFinance {
		t.Fatalf("pending role = %v, want finance", inv.PendingRole)
	}
}

func TestApplyAction_FinanceApproveFinalizes(t *testing.T) {
	inv := managerApproved("emp-1")

	err := ApplyAction(inv, Actor{ID: "fin-1", Role: RoleFinance}, ActionApprove, "looks good")
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}
	if inv.Status != StatusApproved {
		t.Fatalf("status = %s, want APPROVED", inv.Status)
	}
	if len(inv.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(inv.History))
	}
	if inv.PendingRole != nil {
		t.Fatalf("pending role not cleared: %v", *inv.PendingRole)
	}
}

func TestApplyAction_RejectTerminatesAtEitherStage(t *testing.T) {
	t.Run("manager rejects", func(t *testing.T) {
		inv := pendingInvoice("emp-1")
		err := ApplyAction(inv, Actor{ID: "mgr-1", Role: RoleManager}, ActionReject, "bad vendor")
		if err != nil {
			t.Fatalf("ApplyAction: %v", err)
		}
		if inv.Status != StatusRejected {
			t.Fatalf("status = %s, want REJECTED", inv.Status)
		}
		if len(inv.History) != 1 {
			t.Fatalf("history length = %d, want 1", len(inv.History))
		}
		if inv.History[0].Comment != "bad vendor" {
			t.Fatalf("comment = %q, want verbatim", inv.History[0].Comment)
		}
		if inv.PendingRole != nil {
			t.Fatalf("pending role not cleared")
		}
	})

	t.Run("finance rejects", func(t *testing.T) {
		inv := managerApproved("emp-1")
		err := ApplyAction(inv, Actor{ID: "fin-1", Role: RoleFinance}, ActionReject, "over budget")
		if err != nil {
			t.Fatalf("ApplyAction: %v", err)
		}
		if inv.Status != StatusRejected {
			t.Fatalf("status = %s, want REJECTED", inv.Status)
		}
		if inv.History[1].Decision != DecisionRejected {
			t.Fatalf("last event = %+v, want rejected", inv.History[1])
		}
	})
}

func TestApplyAction_PreconditionFailures(t *testing.T) {
	tests := []struct {
		name    string
		inv     *Invoice
		actor   Actor
		action  Action
		wantErr error
	}{
		{
			name:    "nil invoice",
			inv:     nil,
			actor:   Actor{ID: "mgr-1", Role: RoleManager},
			action:  ActionApprove,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing actor id",
			inv:     pendingInvoice("emp-1"),
			actor:   Actor{Role: RoleManager},
			action:  ActionApprove,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown role",
			inv:     pendingInvoice("emp-1"),
			actor:   Actor{ID: "x", Role: Role("auditor")},
			action:  ActionApprove,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown action",
			inv:     pendingInvoice("emp-1"),
			actor:   Actor{ID: "mgr-1", Role: RoleManager},
			action:  Action("ESCALATE"),
			wantErr: ErrInvalidInput,
		},
		{
			name: "already approved",
			inv: func() *Invoice {
				inv := pendingInvoice("emp-1")
				inv.Status = StatusApproved
				return inv
			}(),
			actor:   Actor{ID: "adm-1", Role: RoleAdmin},
			action:  ActionApprove,
			wantErr: ErrAlreadyFinalized,
		},
		{
			name: "already rejected",
			inv: func() *Invoice {
				inv := pendingInvoice("emp-1")
				inv.Status = StatusRejected
				return inv
			}(),
			actor:   Actor{ID: "mgr-1", Role: RoleManager},
			action:  ActionReject,
			wantErr: ErrAlreadyFinalized,
		},
		{
			// Self-approval check precedes stage validation: an employee
			// submitter fails with conflict-of-interest, not wrong-stage.
			name:    "submitter self-approval",
			inv:     pendingInvoice("emp-1"),
			actor:   Actor{ID: "emp-1", Role: RoleEmployee},
			action:  ActionApprove,
			wantErr: ErrConflictOfInterest,
		},
		{
			name:    "submitter self-approval as manager",
			inv:     pendingInvoice("mgr-1"),
			actor:   Actor{ID: "mgr-1", Role: RoleManager},
			action:  ActionApprove,
			wantErr: ErrConflictOfInterest,
		},
		{
			name: "unrecognized history shape",
			inv: func() *Invoice {
				inv := pendingInvoice("emp-1")
				inv.History = append(inv.History, ApprovalEvent{
					Decision: DecisionRejected, ActorID: "mgr-1",
					ActorRole: RoleManager, ActedAs: RoleManager,
				})
				return inv
			}(),
			actor:   Actor{ID: "fin-1", Role: RoleFinance},
			action:  ActionApprove,
			wantErr: ErrNoActionExpected,
		},
		{
			name:    "employee at manager stage",
			inv:     pendingInvoice("emp-1"),
			actor:   Actor{ID: "emp-2", Role: RoleEmployee},
			action:  ActionApprove,
			wantErr: ErrWrongStage,
		},
		{
			name:    "finance at manager stage",
			inv:     pendingInvoice("emp-1"),
			actor:   Actor{ID: "fin-1", Role: RoleFinance},
			action:  ActionApprove,
			wantErr: ErrWrongStage,
		},
		{
			name:    "manager at finance stage",
			inv:     managerApproved("emp-1"),
			actor:   Actor{ID: "mgr-2", Role: RoleManager},
			action:  ActionApprove,
			wantErr: ErrWrongStage,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var before int
			if tt.inv != nil {
				before = len(tt.inv.History)
			}
			err := ApplyAction(tt.inv, tt.actor, tt.action, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.inv != nil && len(tt.inv.History) != before {
				t.Fatalf("history mutated on failure: %d -> %d", before, len(tt.inv.History))
			}
		})
	}
}

func TestApplyAction_WrongStageCarriesExpectedRole(t *testing.T) {
	inv := managerApproved("emp-1")

	err := ApplyAction(inv, Actor{ID: "emp-2", Role: RoleEmployee}, ActionApprove, "")
	var wse *WrongStageError
	if !errors.As(err, &wse) {
		t.Fatalf("err = %v, want *WrongStageError", err)
	}
	if wse.Expected != RoleFinance {
		t.Fatalf("expected role = %q, want finance", wse.Expected)
	}
}

func TestApplyAction_AdminOverrideRecording(t *testing.T) {
	// Admin acting in the manager slot: event keeps the real role for audit
	// and the slot role for the next-stage computation.
	inv := pendingInvoice("emp-1")
	if err := ApplyAction(inv, Actor{ID: "adm-1", Role: RoleAdmin}, ActionApprove, ""); err != nil {
		t.Fatalf("admin approve (manager slot): %v", err)
	}
	ev := inv.History[0]
	if ev.ActorRole != RoleAdmin || ev.ActedAs != RoleManager {
		t.Fatalf("event roles = actor:%s acted_as:%s, want admin/manager", ev.ActorRole, ev.ActedAs)
	}

	role, ok := ExpectedRole(inv)
	if !ok || role != RoleFinance {
		t.Fatalf("after admin override expected role = %q (ok=%v), want finance", role, ok)
	}

	// Admin can close out the finance slot too.
	if err := ApplyAction(inv, Actor{ID: "adm-1", Role: RoleAdmin}, ActionApprove, ""); err != nil {
		t.Fatalf("admin approve (finance slot): %v", err)
	}
	if inv.Status != StatusApproved {
		t.Fatalf("status = %s, want APPROVED", inv.Status)
	}
	if got := inv.History[1]; got.ActorRole != RoleAdmin || got.ActedAs != RoleFinance {
		t.Fatalf("event roles = actor:%s acted_as:%s, want admin/finance", got.ActorRole, got.ActedAs)
	}
}

func TestApplyAction_AdminSubmitterMayDecide(t *testing.T) {
	// Segregation of duties has exactly one exception: admin.
	inv := pendingInvoice("adm-1")
	if err := ApplyAction(inv, Actor{ID: "adm-1", Role: RoleAdmin}, ActionApprove, ""); err != nil {
		t.Fatalf("admin self-decision should pass: %v", err)
	}
}

func TestApplyAction_SecondTerminalCallFailsOnce(t *testing.T) {
	// The terminal transition happens exactly once; a repeat fails with
	// AlreadyFinalized and leaves history untouched.
	inv := pendingInvoice("emp-1")
	if err := ApplyAction(inv, Actor{ID: "mgr-1", Role: RoleManager}, ActionReject, "dup"); err != nil {
		t.Fatalf("first reject: %v", err)
	}
	if err := ApplyAction(inv, Actor{ID: "mgr-1", Role: RoleManager}, ActionReject, "dup"); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("second reject err = %v, want ErrAlreadyFinalized", err)
	}
	if len(inv.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(inv.History))
	}
}

func TestApplyAction_UnhandledStateUnreachableForValidRoles(t *testing.T) {
	// Every valid role either passes the stage check and lands in the
	// manager/finance switch arms, or fails earlier. The default arm must
	// never fire.
	for _, role := range []Role{RoleEmployee, RoleManager, RoleFinance, RoleAdmin} {
		for _, inv := range []*Invoice{pendingInvoice("emp-1"), managerApproved("emp-1")} {
			err := ApplyAction(inv, Actor{ID: "actor-x", Role: role}, ActionApprove, "")
			if errors.Is(err, ErrUnhandledState) {
				t.Fatalf("role %s reached unhandled state", role)
			}
		}
	}
}
