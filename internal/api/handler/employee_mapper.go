package handler

import (
	"github.com/staffdesk/employee-directory/internal/core/domain"
	"github.com/staffdesk/employee-directory/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createEmployeeRequest) ports.CreateEmployeeInput {
	return ports.CreateEmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
	}
}

func toPatch(req updateEmployeeRequest) ports.EmployeePatch {
	return ports.EmployeePatch{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
	}
}

// --- Service result → HTTP response ---

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Role:       string(e.Role),
		Department: e.Department,
		CreatedAt:  e.CreatedAt.UTC(),
		UpdatedAt:  e.UpdatedAt.UTC(),
	}
}

func toEmployeeListResponse(list []*domain.Employee) []employeeResponse {
	out := make([]employeeResponse, len(list))
	for i, e := range list {
		out[i] = toEmployeeResponse(e)
	}
	return out
}
