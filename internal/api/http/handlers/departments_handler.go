package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/service"
	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

// DepartmentsHandler serves department endpoints.
type DepartmentsHandler struct {
	registry *service.Registry
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(registry *service.Registry) *DepartmentsHandler {
	return &DepartmentsHandler{registry: registry}
}

// ListDepartments GET /api/departments.
func (h *DepartmentsHandler) ListDepartments(c *fiber.Ctx) error {
	depts := h.registry.Departments()
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		items = append(items, dto.NewDepartmentResponse(d))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateDepartment POST /api/departments.
func (h *DepartmentsHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	dept, err := h.registry.AddDepartment(c.UserContext(), service.AddDepartmentInput{Name: req.Name, Email: req.Email})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    dto.NewDepartmentResponse(dept),
		"message": service.DepartmentNotice(dept),
	})
}
