package attendance

type ClockInRequest struct {
	Source string  `json:"source"`
	Notes  *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        *string `json:"clock_in,omitempty"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	LeaveID        *string `json:"leave_id,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}
