package dashboard

import (
	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

type Stats struct {
	TotalRevenue  float64 `json:"total_revenue"`
	ActiveCourses int     `json:"active_courses"`
	Enrollments   int     `json:"enrollments"`
	PaidCount     int     `json:"paid"`
	OpenCount     int     `json:"open_payments"`
	Instructors   int     `json:"instructors"`
	Participants  int     `json:"participants"`
	Rooms         int     `json:"rooms"`
}

// Stats derives the dashboard figures from the current collections. Nothing
// is cached; every call recomputes.
func (s *Snapshot) Stats() Stats {
	kurse := s.Records(catalog.Kurse)
	anmeldungen := s.Records(catalog.Anmeldungen)

	paid := PaidCount(anmeldungen)
	return Stats{
		TotalRevenue:  TotalRevenue(kurse, anmeldungen),
		ActiveCourses: len(kurse),
		Enrollments:   len(anmeldungen),
		PaidCount:     paid,
		OpenCount:     len(anmeldungen) - paid,
		Instructors:   len(s.Records(catalog.Dozenten)),
		Participants:  len(s.Records(catalog.Teilnehmer)),
		Rooms:         len(s.Records(catalog.Raeume)),
	}
}

// TotalRevenue sums enrollments per course times the course price. A course
// without price counts as 0; enrollments of unknown courses count nothing.
func TotalRevenue(kurse, anmeldungen []livingapps.Record) float64 {
	perCourse := make(map[string]int, len(kurse))
	for _, a := range anmeldungen {
		if id := livingapps.ExtractRecordID(a.String("kurs")); id != "" {
			perCourse[id]++
		}
	}

	var total float64
	for _, k := range kurse {
		total += float64(perCourse[k.RecordID]) * floatField(k, "preis")
	}
	return total
}

func PaidCount(anmeldungen []livingapps.Record) int {
	n := 0
	for _, a := range anmeldungen {
		if boolField(a, "bezahlt") {
			n++
		}
	}
	return n
}
