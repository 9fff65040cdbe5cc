package service

import (
	"context"
	"strings"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

// CreateComplaintInput describes complaint creation payload.
type CreateComplaintInput struct {
	Title        string
	Description  string
	Location     string
	DepartmentID string
	ImageURL     string
}

// Validate checks required fields.
func (i CreateComplaintInput) Validate() error {
	missing := map[string]any{}
	if strings.TrimSpace(i.Title) == "" {
		missing["title"] = "required"
	}
	if strings.TrimSpace(i.Description) == "" {
		missing["description"] = "required"
	}
	if strings.TrimSpace(i.Location) == "" {
		missing["location"] = "required"
	}
	if strings.TrimSpace(i.DepartmentID) == "" {
		missing["department_id"] = "required"
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("title, description, location and department_id are required", missing)
	}
	return nil
}

// AddActionInput describes a new history entry.
type AddActionInput struct {
	Description string
	AssignedTo  string
}

// Validate checks required fields.
func (i AddActionInput) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return apperrors.NewValidationError("description required", map[string]any{"description": "required"})
	}
	return nil
}

// CreateComplaint registers a new complaint and notifies its department.
func (r *Registry) CreateComplaint(ctx context.Context, input CreateComplaintInput) (ComplaintChange, error) {
	if err := input.Validate(); err != nil {
		return ComplaintChange{}, err
	}

	r.mu.Lock()
	dept, ok := r.findDepartment(input.DepartmentID)
	if !ok {
		r.mu.Unlock()
		return ComplaintChange{}, apperrors.NewNotFound("department", map[string]any{"department_id": input.DepartmentID})
	}

	now := r.now()
	complaint := &domain.Complaint{
		ID:           r.uniqueComplaintID(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Location:     strings.TrimSpace(input.Location),
		DepartmentID: dept.ID,
		Status:       domain.StatusNew,
		CreatedAt:    now,
		History: []domain.Action{{
			Timestamp:   now,
			Description: domain.CreatedActionDescription,
			Actor:       domain.ActorCitizen,
		}},
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	r.complaints = append([]*domain.Complaint{complaint}, r.complaints...)
	r.byID[complaint.ID] = complaint

	snapshot := complaint.Clone()
	notification := composeCreated(dept, snapshot)
	r.handoff()

	r.dispatch(ctx, &notification, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: snapshot.ID,
		Actor:       domain.ActorCitizen,
		Timestamp:   now,
		Payload: events.ComplaintCreatedPayload{
			DepartmentID: snapshot.DepartmentID,
			Title:        snapshot.Title,
			HasImage:     snapshot.ImageURL != "",
		},
	})
	return ComplaintChange{Complaint: snapshot, Notification: &notification, Changed: true}, nil
}

// AddAction appends an operator action. A complaint that is still New moves
// to InProgress as part of the same operation.
func (r *Registry) AddAction(ctx context.Context, complaintID string, input AddActionInput) (ComplaintChange, error) {
	if err := input.Validate(); err != nil {
		return ComplaintChange{}, err
	}

	r.mu.Lock()
	complaint, ok := r.byID[complaintID]
	if !ok {
		r.mu.Unlock()
		return ComplaintChange{}, complaintNotFound(complaintID)
	}

	action := domain.Action{
		Timestamp:   r.stamp(complaint),
		Description: strings.TrimSpace(input.Description),
		Actor:       domain.ActorAdministrator,
		AssignedTo:  strings.TrimSpace(input.AssignedTo),
	}
	oldStatus := complaint.Status
	complaint.History = append(complaint.History, action)
	if complaint.Status == domain.StatusNew {
		complaint.Status = domain.StatusInProgress
	}

	snapshot := complaint.Clone()
	dept, _ := r.findDepartment(snapshot.DepartmentID)
	notification := composeActionAdded(dept, snapshot, action)
	r.handoff()

	r.dispatch(ctx, &notification, events.Event{
		Type:        events.EventComplaintActionAdded,
		ComplaintID: snapshot.ID,
		Actor:       domain.ActorAdministrator,
		Timestamp:   action.Timestamp,
		Payload: events.ComplaintActionAddedPayload{
			Description: action.Description,
			AssignedTo:  action.AssignedTo,
			OldStatus:   oldStatus,
			NewStatus:   snapshot.Status,
		},
	})
	return ComplaintChange{Complaint: snapshot, Notification: &notification, Changed: true}, nil
}

// SetStatus applies an operator-directed status. Any status may follow any
// other; setting the current status again is a no-op.
func (r *Registry) SetStatus(ctx context.Context, complaintID string, newStatus domain.Status) (ComplaintChange, error) {
	if !newStatus.Valid() {
		return ComplaintChange{}, apperrors.NewValidationError("unknown status", map[string]any{
			"status":  string(newStatus),
			"allowed": domain.AllStatuses,
		})
	}

	r.mu.Lock()
	complaint, ok := r.byID[complaintID]
	if !ok {
		r.mu.Unlock()
		return ComplaintChange{}, complaintNotFound(complaintID)
	}
	if complaint.Status == newStatus {
		snapshot := complaint.Clone()
		r.mu.Unlock()
		return ComplaintChange{Complaint: snapshot}, nil
	}

	oldStatus := complaint.Status
	action := domain.Action{
		Timestamp:   r.stamp(complaint),
		Description: domain.StatusTransitionDescription(oldStatus, newStatus),
		Actor:       domain.ActorAdministrator,
	}
	complaint.Status = newStatus
	complaint.History = append(complaint.History, action)

	snapshot := complaint.Clone()
	dept, _ := r.findDepartment(snapshot.DepartmentID)
	notification := composeStatusChanged(dept, snapshot, oldStatus)
	r.handoff()

	r.dispatch(ctx, &notification, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: snapshot.ID,
		Actor:       domain.ActorAdministrator,
		Timestamp:   action.Timestamp,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ComplaintChange{Complaint: snapshot, Notification: &notification, Changed: true}, nil
}
