package domain

import "strings"

// Status enumerates lifecycle states for complaints.
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// AllStatuses lists statuses in display order.
var AllStatuses = []Status{StatusNew, StatusInProgress, StatusCompleted}

var statusLabels = map[Status]string{
	StatusNew:        "New",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label used by the panel.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus accepts the wire value in any letter case.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range AllStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return "", false
}
