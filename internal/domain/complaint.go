package domain

import "time"

// Fixed history texts.
const (
	ActorCitizen       = "citizen"
	ActorAdministrator = "administrator"

	CreatedActionDescription = "complaint created"
)

// Action is an immutable history entry.
type Action struct {
	Timestamp   time.Time
	Description string
	Actor       string
	AssignedTo  string
}

// Complaint is a citizen-reported issue tracked through to resolution.
type Complaint struct {
	ID           string
	Title        string
	Description  string
	Location     string
	DepartmentID string
	Status       Status
	CreatedAt    time.Time
	History      []Action
	ImageURL     string
}

// Clone returns a copy that shares no history storage with c.
func (c *Complaint) Clone() Complaint {
	out := *c
	out.History = make([]Action, len(c.History))
	copy(out.History, c.History)
	return out
}

// LastAction returns the most recent history entry.
func (c *Complaint) LastAction() (Action, bool) {
	if len(c.History) == 0 {
		return Action{}, false
	}
	return c.History[len(c.History)-1], true
}

// StatusTransitionDescription documents an operator status change.
func StatusTransitionDescription(from, to Status) string {
	return "status changed: " + string(from) + " → " + string(to)
}
