package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeAnnual    = "ANNUAL"
	TypeSick      = "SICK"
	TypeMaternity = "MATERNITY"
	TypePaternity = "PATERNITY"
	TypeEmergency = "EMERGENCY"
	TypeOther     = "OTHER"
)

const (
	ArrangementNoCoverage        = "NO_COVERAGE"
	ArrangementColleagueCoverage = "COLLEAGUE_COVERAGE"
	ArrangementPostponed         = "POSTPONED"
)

// LeaveRequest is a single request for time off. EmployeeID never changes
// after creation; TotalDays is always derived from the date span, never
// taken from the caller.
type LeaveRequest struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID

	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	TotalDays int
	Reason    string

	Status          string
	WorkArrangement string

	CoveringEmployeeID    *uuid.UUID
	EmergencyContactName  *string
	EmergencyContactPhone *string

	AppliedAt       time.Time
	DecidedAt       *time.Time
	DecidedBy       *uuid.UUID
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the request still occupies its calendar days.
// Rejected and cancelled requests release their interval.
func (l *LeaveRequest) Active() bool {
	return l.Status == StatusPending || l.Status == StatusApproved
}

func validLeaveType(v string) bool {
	switch v {
	case TypeAnnual, TypeSick, TypeMaternity, TypePaternity, TypeEmergency, TypeOther:
		return true
	}
	return false
}

func validArrangement(v string) bool {
	switch v {
	case ArrangementNoCoverage, ArrangementColleagueCoverage, ArrangementPostponed:
		return true
	}
	return false
}
