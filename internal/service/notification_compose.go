package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

const signature = "Municipal Complaint Management System"

func composeCreated(dept domain.Department, c domain.Complaint) domain.NotificationRequest {
	req := domain.NotificationRequest{
		Kind:        domain.NotificationComplaintCreated,
		ComplaintID: c.ID,
		Subject:     fmt.Sprintf("New complaint: #%s", c.ID),
		Body: letter(dept,
			"A new complaint has been registered. Details:",
			[]string{
				"Complaint ID: " + c.ID,
				"Title: " + c.Title,
				"Location: " + c.Location,
				"Description: " + c.Description,
			},
			"Please take the necessary action."),
		Notice: fmt.Sprintf("Complaint created and routed to %s.", dept.Name),
	}
	if dept.HasEmail() {
		req.RecipientEmail = dept.Email
		req.Notice = fmt.Sprintf("%s has been notified by e-mail.", dept.Name)
	}
	return req
}

func composeActionAdded(dept domain.Department, c domain.Complaint, action domain.Action) domain.NotificationRequest {
	assignee := action.AssignedTo
	if assignee == "" {
		assignee = "not specified"
	}
	req := domain.NotificationRequest{
		Kind:        domain.NotificationActionAdded,
		ComplaintID: c.ID,
		Subject:     fmt.Sprintf("Complaint update: #%s", c.ID),
		Body: letter(dept,
			fmt.Sprintf("A new action was recorded on complaint #%s:", c.ID),
			[]string{
				"Title: " + c.Title,
				"Action: " + action.Description,
				"Assigned to: " + assignee,
				"Current status: " + string(c.Status),
			},
			""),
		Notice: "Action added.",
	}
	if dept.HasEmail() {
		req.RecipientEmail = dept.Email
		req.Notice = fmt.Sprintf("Action added. %s has been notified by e-mail.", dept.Name)
	}
	return req
}

func composeStatusChanged(dept domain.Department, c domain.Complaint, previous domain.Status) domain.NotificationRequest {
	req := domain.NotificationRequest{
		Kind:        domain.NotificationStatusChanged,
		ComplaintID: c.ID,
		Subject:     fmt.Sprintf("Complaint status update: #%s", c.ID),
		Body: letter(dept,
			fmt.Sprintf("The status of complaint #%s has changed:", c.ID),
			[]string{
				"Title: " + c.Title,
				"Previous status: " + string(previous),
				"New status: " + string(c.Status),
			},
			""),
		Notice: fmt.Sprintf("Status updated to '%s'.", c.Status),
	}
	if dept.HasEmail() {
		req.RecipientEmail = dept.Email
		req.Notice = fmt.Sprintf("Status updated and %s has been notified by e-mail.", dept.Name)
	}
	return req
}

func letter(dept domain.Department, intro string, lines []string, closing string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s officer,\n\n%s\n\n", dept.Name, intro)
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if closing != "" {
		b.WriteString(closing)
		b.WriteByte('\n')
	}
	b.WriteString(signature)
	return b.String()
}
