package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Department is an organizational unit that complaints are routed to.
type Department struct {
	ID    string
	Name  string
	Email string
}

// HasEmail reports whether the department can receive e-mail notifications.
func (d Department) HasEmail() bool {
	return strings.TrimSpace(d.Email) != ""
}

// DepartmentID derives the stable identifier for a department name:
// full Unicode lowercase (so "İ" becomes "i" plus a combining dot), with
// every run of characters outside [a-z0-9] collapsed to "_".
func DepartmentID(name string) string {
	lowered := cases.Lower(language.Und).String(name)
	var b strings.Builder
	b.Grow(len(lowered))
	inRun := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('_')
			inRun = true
		}
	}
	return b.String()
}
