package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
)

// SalaryRecord is one employee-month of salary bookkeeping. Amounts are
// exact decimals, never floats.
type SalaryRecord struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;uniqueIndex:uq_salary_employee_period,priority:1"`
	Period     string          `gorm:"type:varchar(7);uniqueIndex:uq_salary_employee_period,priority:2"`
	BaseSalary decimal.Decimal `gorm:"type:numeric(14,2)"`
	Allowance  decimal.Decimal `gorm:"type:numeric(14,2)"`
	Deduction  decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status     string          `gorm:"type:varchar(20);default:PENDING"`
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}

// NetAmount is base plus allowance minus deduction.
func (s *SalaryRecord) NetAmount() decimal.Decimal {
	return s.BaseSalary.Add(s.Allowance).Sub(s.Deduction)
}
