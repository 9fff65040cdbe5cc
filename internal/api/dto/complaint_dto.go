package dto

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// CreateComplaintRequest payload. Accepted as JSON or multipart form; a
// multipart request may carry the image as an "image" file part instead of
// image_url.
type CreateComplaintRequest struct {
	Title        string `json:"title" form:"title" validate:"required"`
	Description  string `json:"description" form:"description" validate:"required"`
	Location     string `json:"location" form:"location" validate:"required"`
	DepartmentID string `json:"department_id" form:"department_id" validate:"required"`
	ImageURL     string `json:"image_url" form:"image_url" validate:"omitempty,max=8388608"`
}

// AddActionRequest payload.
type AddActionRequest struct {
	Description string `json:"description" validate:"required"`
	AssignedTo  string `json:"assigned_to"`
}

// SetStatusRequest payload. Status is matched case-insensitively.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ComplaintListQuery captures list filters.
type ComplaintListQuery struct {
	Status       string `query:"status" validate:"omitempty,oneof=New InProgress Completed"`
	DepartmentID string `query:"department_id"`
}

// ActionResponse is one history entry.
type ActionResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
}

// ComplaintResponse is the full complaint with its department resolved.
type ComplaintResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Location       string           `json:"location"`
	DepartmentID   string           `json:"department_id"`
	DepartmentName string           `json:"department_name"`
	Status         domain.Status    `json:"status"`
	StatusLabel    string           `json:"status_label"`
	CreatedAt      time.Time        `json:"created_at"`
	ImageURL       string           `json:"image_url,omitempty"`
	History        []ActionResponse `json:"history"`
}

// NewComplaintResponse maps a complaint; departmentName may be empty.
func NewComplaintResponse(c domain.Complaint, departmentName string) ComplaintResponse {
	history := make([]ActionResponse, 0, len(c.History))
	for _, a := range c.History {
		history = append(history, ActionResponse{
			Timestamp:   a.Timestamp,
			Description: a.Description,
			Actor:       a.Actor,
			AssignedTo:  a.AssignedTo,
		})
	}
	return ComplaintResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Location:       c.Location,
		DepartmentID:   c.DepartmentID,
		DepartmentName: departmentName,
		Status:         c.Status,
		StatusLabel:    c.Status.Label(),
		CreatedAt:      c.CreatedAt,
		ImageURL:       c.ImageURL,
		History:        history,
	}
}

// NotificationResponse summarizes the notification a mutation produced.
type NotificationResponse struct {
	Kind      domain.NotificationKind `json:"kind"`
	Recipient string                  `json:"recipient,omitempty"`
	Subject   string                  `json:"subject"`
	Emailed   bool                    `json:"emailed"`
}

// NewNotificationResponse returns nil when no notification was produced.
func NewNotificationResponse(n *domain.NotificationRequest) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		Kind:      n.Kind,
		Recipient: n.RecipientEmail,
		Subject:   n.Subject,
		Emailed:   n.Deliverable(),
	}
}
