package events

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintActionAdded   EventType = "complaint_action_added"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventDepartmentAdded        EventType = "department_added"
)

// Event represents a state change emitted by the registry.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id,omitempty"`
	Actor       string      `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	DepartmentID string `json:"department_id"`
	Title        string `json:"title"`
	HasImage     bool   `json:"has_image"`
}

// ComplaintActionAddedPayload payload.
type ComplaintActionAddedPayload struct {
	Description string        `json:"description"`
	AssignedTo  string        `json:"assigned_to,omitempty"`
	OldStatus   domain.Status `json:"old_status"`
	NewStatus   domain.Status `json:"new_status"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// DepartmentAddedPayload payload.
type DepartmentAddedPayload struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	HasEmail     bool   `json:"has_email"`
}
