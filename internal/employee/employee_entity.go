package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ACTIVE"
	StatusOnLeave  = "ON_LEAVE"
	StatusResigned = "RESIGNED"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName       string
	Email          string `gorm:"uniqueIndex:uq_employees_email"`
	EmployeeNumber string `gorm:"uniqueIndex:uq_employees_number"`
	Phone          string
	Position       string
	HireDate       time.Time
	Status         string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
