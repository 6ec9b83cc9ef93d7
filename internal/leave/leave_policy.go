package leave

import (
	leaveerrors "go-workforce/internal/leave/errors"
	"go-workforce/internal/rbac"
)

// Actor is the authenticated principal attempting an operation.
type Actor struct {
	EmployeeID string
	Role       string
}

type Action string

const (
	ActionEdit   Action = "edit"
	ActionDecide Action = "decide"
	ActionCancel Action = "cancel"
	ActionDelete Action = "delete"
)

// CanMutate is the single ownership-or-admin predicate behind every write.
// Decisions belong to decision-makers only; everything else belongs to the
// owning requester or a decision-maker.
func CanMutate(actor Actor, rec *LeaveRequest, action Action) bool {
	admin := rbac.IsDecisionMaker(actor.Role)

	switch action {
	case ActionDecide:
		return admin
	case ActionEdit, ActionCancel, ActionDelete:
		return admin || actor.EmployeeID == rec.EmployeeID.String()
	}
	return false
}

// canTransition is the full lifecycle table. Only PENDING has outgoing
// transitions; APPROVED, REJECTED and CANCELLED are terminal.
func canTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// guard runs authorization then lifecycle-state checks for a mutation,
// in that order, so an unauthorized caller sees Forbidden and an
// authorized caller on a settled record sees the state conflict.
func guard(actor Actor, rec *LeaveRequest, action Action) error {
	if !CanMutate(actor, rec, action) {
		return leaveerrors.ErrLeaveForbidden
	}
	if rec.Status != StatusPending {
		return leaveerrors.ErrLeaveStateConflict
	}
	return nil
}
