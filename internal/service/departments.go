package service

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

// AddDepartmentInput describes a new department.
type AddDepartmentInput struct {
	Name  string
	Email string
}

// AddDepartment registers a department. Names are unique ignoring case.
func (r *Registry) AddDepartment(ctx context.Context, input AddDepartmentInput) (domain.Department, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Department{}, apperrors.NewValidationError("department name required", map[string]any{"name": "required"})
	}
	dept := domain.Department{
		ID:    domain.DepartmentID(name),
		Name:  name,
		Email: strings.TrimSpace(input.Email),
	}

	r.mu.Lock()
	if existing, ok := r.conflictingDepartment(dept); ok {
		r.mu.Unlock()
		return domain.Department{}, apperrors.NewDuplicate("department already exists", map[string]any{
			"name":          name,
			"department_id": existing.ID,
		})
	}
	r.departments = append(r.departments, dept)
	r.handoff()

	r.dispatch(ctx, nil, events.Event{
		Type:  events.EventDepartmentAdded,
		Actor: domain.ActorAdministrator,
		Payload: events.DepartmentAddedPayload{
			DepartmentID: dept.ID,
			Name:         dept.Name,
			HasEmail:     dept.HasEmail(),
		},
	})
	return dept, nil
}

func (r *Registry) conflictingDepartment(candidate domain.Department) (domain.Department, bool) {
	return findConflict(r.departments, candidate)
}

// findConflict finds a department whose name matches candidate
// case-insensitively or whose id equals candidate's id.
func findConflict(departments []domain.Department, candidate domain.Department) (domain.Department, bool) {
	folder := cases.Fold()
	folded := folder.String(candidate.Name)
	for _, d := range departments {
		if folder.String(d.Name) == folded || d.ID == candidate.ID {
			return d, true
		}
	}
	return domain.Department{}, false
}

// DepartmentNotice is the operator message for a newly added department.
func DepartmentNotice(dept domain.Department) string {
	return "Department '" + dept.Name + "' added."
}
