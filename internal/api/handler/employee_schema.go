package handler

import "time"

// --- Request types ---

type createEmployeeRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role" validate:"omitempty,oneof=admin user"`
	Department string `json:"department" validate:"required,max=100"`
}

// updateEmployeeRequest is a partial update; absent fields stay unchanged.
type updateEmployeeRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
}

// --- Response types ---

type employeeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type deleteEmployeeResponse struct {
	Message string           `json:"message"`
	Result  employeeResponse `json:"result"`
}
