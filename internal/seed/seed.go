// Package seed provides the demo departments and complaints loaded at start-up.
package seed

import (
	"time"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// Departments returns the demo departments.
func Departments() []domain.Department {
	return []domain.Department{
		{ID: "zabita", Name: "Zabıta", Email: "zabita@belediye.gov.tr"},
		{ID: "temizlik", Name: "Temizlik İşleri", Email: "temizlik@belediye.gov.tr"},
		{ID: "park_bahce", Name: "Park ve Bahçeler", Email: "parkbahceler@belediye.gov.tr"},
		{ID: "fen_isleri", Name: "Fen İşleri", Email: "fenisleri@belediye.gov.tr"},
	}
}

// Complaints returns the demo complaints in display order.
func Complaints() []domain.Complaint {
	return []domain.Complaint{
		{
			ID:           "S001",
			Title:        "Overflowing rubbish container on the pavement",
			Description:  "The rubbish container on the main street is completely full and overflowing. Urgent cleaning is needed.",
			DepartmentID: "temizlik",
			Status:       domain.StatusNew,
			Location:     "Atatürk Cd. No: 15",
			CreatedAt:    at("2024-07-28T10:30:00Z"),
			History: []domain.Action{
				created("2024-07-28T10:30:00Z"),
			},
		},
		{
			ID:           "S002",
			Title:        "Broken swing in the park",
			Description:  "The chain of one of the swings in the playground has snapped and is dangerous.",
			DepartmentID: "park_bahce",
			Status:       domain.StatusInProgress,
			Location:     "Children's Park, Demokrasi Meydanı",
			CreatedAt:    at("2024-07-27T15:00:00Z"),
			History: []domain.Action{
				created("2024-07-27T15:00:00Z"),
				{Timestamp: at("2024-07-27T16:00:00Z"), Description: "Assigned to a team.", Actor: "Parks and Gardens Directorate", AssignedTo: "Maintenance Team A"},
			},
		},
		{
			ID:           "S003",
			Title:        "Large pothole in the road",
			Description:  "A pothole big enough to damage car tyres has formed on the road in front of the school.",
			DepartmentID: "fen_isleri",
			Status:       domain.StatusCompleted,
			Location:     "Eğitim Sk. No: 8",
			CreatedAt:    at("2024-07-26T09:00:00Z"),
			History: []domain.Action{
				created("2024-07-26T09:00:00Z"),
				{Timestamp: at("2024-07-26T11:00:00Z"), Description: "Asphalt crew dispatched.", Actor: "Public Works Supervisor", AssignedTo: "Asphalt Crew"},
				{Timestamp: at("2024-07-26T14:30:00Z"), Description: "Pothole repaired, issue resolved.", Actor: "Crew Leader"},
			},
		},
		{
			ID:           "S004",
			Title:        "Street vendor",
			Description:  "A street vendor is selling loudly in front of the hospital.",
			DepartmentID: "zabita",
			Status:       domain.StatusInProgress,
			Location:     "State Hospital Emergency Entrance",
			CreatedAt:    at("2024-07-28T11:00:00Z"),
			History: []domain.Action{
				created("2024-07-28T11:00:00Z"),
				{Timestamp: at("2024-07-28T11:05:00Z"), Description: "Municipal police team dispatched.", Actor: "Municipal Police Chief", AssignedTo: "Patrol Team 3"},
			},
		},
	}
}

func created(ts string) domain.Action {
	return domain.Action{Timestamp: at(ts), Description: domain.CreatedActionDescription, Actor: domain.ActorCitizen}
}

func at(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return t
}
