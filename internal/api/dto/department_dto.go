package dto

import "github.com/spec-kit/complaint-desk/internal/domain"

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// DepartmentResponse representation.
type DepartmentResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// NewDepartmentResponse maps a department to its wire shape.
func NewDepartmentResponse(d domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, Email: d.Email}
}
