package leave

import (
	"fmt"
	"time"

	"go-workforce/internal/shared/apperror"

	"github.com/google/uuid"
)

const (
	reasonMinLen = 10
	reasonMaxLen = 500
)

// createFields carries the parsed values of a validated create request so
// the service never re-parses.
type createFields struct {
	startDate   time.Time
	endDate     time.Time
	arrangement string
	coveringID  *uuid.UUID
}

// validateCreate checks the whole create payload and reports every
// violation at once. Domain logic runs only on a clean input.
func validateCreate(req CreateLeaveRequest) (createFields, []apperror.FieldViolation) {
	var out createFields
	var violations []apperror.FieldViolation

	if !validLeaveType(req.LeaveType) {
		violations = append(violations, apperror.FieldViolation{
			Field: "leave_type", Message: "must be one of ANNUAL, SICK, MATERNITY, PATERNITY, EMERGENCY, OTHER",
		})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		violations = append(violations, apperror.FieldViolation{
			Field: "start_date", Message: "must be a date in YYYY-MM-DD format",
		})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		violations = append(violations, apperror.FieldViolation{
			Field: "end_date", Message: "must be a date in YYYY-MM-DD format",
		})
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		violations = append(violations, apperror.FieldViolation{
			Field: "end_date", Message: "must not be before start_date",
		})
	}
	out.startDate = start
	out.endDate = end

	if v := reasonViolation(req.Reason); v != nil {
		violations = append(violations, *v)
	}

	out.arrangement = req.WorkArrangement
	if out.arrangement == "" {
		out.arrangement = ArrangementNoCoverage
	}
	if !validArrangement(out.arrangement) {
		violations = append(violations, apperror.FieldViolation{
			Field: "work_arrangement", Message: "must be one of NO_COVERAGE, COLLEAGUE_COVERAGE, POSTPONED",
		})
	}

	coveringID, vs := coveringViolations(out.arrangement, req.CoveringEmployeeID)
	out.coveringID = coveringID
	violations = append(violations, vs...)

	return out, violations
}

// validateMerged re-checks a pending record after a partial edit has been
// applied, so an edit can never leave the record in a shape a create
// would have refused.
func validateMerged(rec *LeaveRequest) []apperror.FieldViolation {
	var violations []apperror.FieldViolation

	if !validLeaveType(rec.LeaveType) {
		violations = append(violations, apperror.FieldViolation{
			Field: "leave_type", Message: "must be one of ANNUAL, SICK, MATERNITY, PATERNITY, EMERGENCY, OTHER",
		})
	}
	if rec.EndDate.Before(rec.StartDate) {
		violations = append(violations, apperror.FieldViolation{
			Field: "end_date", Message: "must not be before start_date",
		})
	}
	if v := reasonViolation(rec.Reason); v != nil {
		violations = append(violations, *v)
	}
	if !validArrangement(rec.WorkArrangement) {
		violations = append(violations, apperror.FieldViolation{
			Field: "work_arrangement", Message: "must be one of NO_COVERAGE, COLLEAGUE_COVERAGE, POSTPONED",
		})
	}
	if rec.WorkArrangement == ArrangementColleagueCoverage && rec.CoveringEmployeeID == nil {
		violations = append(violations, apperror.FieldViolation{
			Field: "covering_employee_id", Message: "is required for COLLEAGUE_COVERAGE",
		})
	}

	return violations
}

func reasonViolation(reason string) *apperror.FieldViolation {
	if len(reason) < reasonMinLen {
		return &apperror.FieldViolation{
			Field: "reason", Message: fmt.Sprintf("must be at least %d characters", reasonMinLen),
		}
	}
	if len(reason) > reasonMaxLen {
		return &apperror.FieldViolation{
			Field: "reason", Message: fmt.Sprintf("must be at most %d characters", reasonMaxLen),
		}
	}
	return nil
}

func coveringViolations(arrangement string, coveringEmployeeID *string) (*uuid.UUID, []apperror.FieldViolation) {
	if arrangement != ArrangementColleagueCoverage {
		if coveringEmployeeID != nil && *coveringEmployeeID != "" {
			return nil, []apperror.FieldViolation{{
				Field: "covering_employee_id", Message: "is only allowed with COLLEAGUE_COVERAGE",
			}}
		}
		return nil, nil
	}

	if coveringEmployeeID == nil || *coveringEmployeeID == "" {
		return nil, []apperror.FieldViolation{{
			Field: "covering_employee_id", Message: "is required for COLLEAGUE_COVERAGE",
		}}
	}
	id, err := uuid.Parse(*coveringEmployeeID)
	if err != nil {
		return nil, []apperror.FieldViolation{{
			Field: "covering_employee_id", Message: "must be a valid uuid",
		}}
	}
	return &id, nil
}
