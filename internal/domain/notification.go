package domain

import "strings"

// NotificationKind identifies the mutation that produced a notification.
type NotificationKind string

const (
	NotificationComplaintCreated NotificationKind = "complaint_created"
	NotificationActionAdded      NotificationKind = "action_added"
	NotificationStatusChanged    NotificationKind = "status_changed"
)

// NotificationRequest is a fully composed message for the notifier.
// An empty RecipientEmail marks the request as informational only.
type NotificationRequest struct {
	Kind           NotificationKind `json:"kind"`
	RecipientEmail string           `json:"recipient_email,omitempty"`
	Subject        string           `json:"subject"`
	Body           string           `json:"body"`
	ComplaintID    string           `json:"complaint_id"`
	Notice         string           `json:"notice"`
}

// Deliverable reports whether the request has a recipient.
func (n NotificationRequest) Deliverable() bool {
	return strings.TrimSpace(n.RecipientEmail) != ""
}
