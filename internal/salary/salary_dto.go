package salary

type CreateSalaryRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Period     string `json:"period" binding:"required"`
	BaseSalary string `json:"base_salary" binding:"required"`
	Allowance  string `json:"allowance"`
	Deduction  string `json:"deduction"`
}

type UpdateSalaryRequest struct {
	BaseSalary string `json:"base_salary" binding:"required"`
	Allowance  string `json:"allowance"`
	Deduction  string `json:"deduction"`
}

type SalaryResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Period     string  `json:"period"`
	BaseSalary string  `json:"base_salary"`
	Allowance  string  `json:"allowance"`
	Deduction  string  `json:"deduction"`
	NetAmount  string  `json:"net_amount"`
	Status     string  `json:"status"`
	PaidAt     *string `json:"paid_at,omitempty"`
}

type PeriodSummaryResponse struct {
	Period      string `json:"period"`
	RecordCount int    `json:"record_count"`
	TotalNet    string `json:"total_net"`
	TotalPaid   string `json:"total_paid"`
}
