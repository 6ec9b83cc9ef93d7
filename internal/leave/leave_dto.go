package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`

	WorkArrangement       string  `json:"work_arrangement"`
	CoveringEmployeeID    *string `json:"covering_employee_id"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

// UpdateLeaveRequest is a partial edit: nil fields are left untouched.
// Status is never edited here; decisions go through their own endpoints.
type UpdateLeaveRequest struct {
	LeaveType *string `json:"leave_type"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason"`

	WorkArrangement       *string `json:"work_arrangement"`
	CoveringEmployeeID    *string `json:"covering_employee_id"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type ListLeaveQuery struct {
	EmployeeID string
	Status     string
	LeaveType  string
	Page       int
	Limit      int
}

type StatsQuery struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

type LeaveResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	TotalDays  int    `json:"total_days"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`

	WorkArrangement       string  `json:"work_arrangement"`
	CoveringEmployeeID    *string `json:"covering_employee_id,omitempty"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`

	AppliedAt       string  `json:"applied_at"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// LeaveStatsResponse is the aggregation summary. A query matching nothing
// yields the zero value, never an absent result.
type LeaveStatsResponse struct {
	TotalRequests int `json:"total_requests"`
	Approved      int `json:"approved"`
	Pending       int `json:"pending"`
	Rejected      int `json:"rejected"`
	TotalDays     int `json:"total_days"`
	ApprovedDays  int `json:"approved_days"`
	PendingDays   int `json:"pending_days"`
}
