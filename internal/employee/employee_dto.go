package employee

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	EmployeeNumber string `json:"employee_number"`
	Phone          string `json:"phone"`
	Position       string `json:"position" binding:"required"`
	HireDate       string `json:"hire_date" binding:"required"`
	Role           string `json:"role" binding:"omitempty,oneof=EMPLOYEE HR ADMIN"`
}

type UpdateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	EmployeeNumber string `json:"employee_number" binding:"required"`
	Phone          string `json:"phone"`
	Position       string `json:"position" binding:"required"`
	HireDate       string `json:"hire_date" binding:"required"`
	Status         string `json:"status" binding:"omitempty,oneof=ACTIVE ON_LEAVE RESIGNED"`
	Role           string `json:"role" binding:"omitempty,oneof=EMPLOYEE HR ADMIN"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	EmployeeNumber string `json:"employee_number"`
	Phone          string `json:"phone,omitempty"`
	Position       string `json:"position"`
	HireDate       string `json:"hire_date"`
	Status         string `json:"status"`
	Role           string `json:"role"`
}

// EmployeeOption is the trimmed shape used by pickers, e.g. choosing a
// covering colleague on a leave request.
type EmployeeOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
}
