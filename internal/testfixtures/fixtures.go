package testfixtures

import (
	"github.com/gdg-garage/kursverwaltung/internal/catalog"
)

// Course data used across package tests.
type Course struct {
	Dozent, Raum, Teilnehmer1, Teilnehmer2 string
	Kurs1, Kurs2                           string
}

// SeedCourses stores two courses priced 100 and 200 with three enrollments
// on the first and one on the second. Only the second enrollment of the
// first course is paid.
func SeedCourses(g *Gateway, cat *catalog.Catalog) Course {
	app := func(key string) string { return cat.MustLookup(key).AppID }

	c := Course{
		Dozent:      g.Seed(app(catalog.Dozenten), ID(1), map[string]any{"name": "Dr. Anna Berg", "email": "anna@example.de", "fachgebiet": "Informatik"}),
		Raum:        g.Seed(app(catalog.Raeume), ID(2), map[string]any{"raumname": "A101", "gebaeude": "Hauptgebäude", "kapazitaet": float64(30)}),
		Teilnehmer1: g.Seed(app(catalog.Teilnehmer), ID(3), map[string]any{"name": "Max Müller", "email": "max@example.de"}),
		Teilnehmer2: g.Seed(app(catalog.Teilnehmer), ID(4), map[string]any{"name": "Lena Schmidt", "email": "lena@example.de"}),
	}
	c.Kurs1 = g.Seed(app(catalog.Kurse), ID(10), map[string]any{
		"titel": "Go Grundlagen", "startdatum": "2025-03-01", "enddatum": "2025-03-31",
		"max_teilnehmer": float64(20), "preis": float64(100),
		"dozent": Ref(cat, catalog.Dozenten, c.Dozent), "raum": Ref(cat, catalog.Raeume, c.Raum),
	})
	c.Kurs2 = g.Seed(app(catalog.Kurse), ID(11), map[string]any{
		"titel": "Go Fortgeschritten", "startdatum": "2025-04-01", "enddatum": "2025-04-30",
		"max_teilnehmer": float64(12), "preis": float64(200),
		"dozent": Ref(cat, catalog.Dozenten, c.Dozent), "raum": Ref(cat, catalog.Raeume, c.Raum),
	})

	enroll := func(n int, tn, kurs string, paid bool) {
		g.Seed(app(catalog.Anmeldungen), ID(n), map[string]any{
			"teilnehmer":   Ref(cat, catalog.Teilnehmer, tn),
			"kurs":         Ref(cat, catalog.Kurse, kurs),
			"anmeldedatum": "2025-02-01",
			"bezahlt":      paid,
		})
	}
	enroll(20, c.Teilnehmer1, c.Kurs1, false)
	enroll(21, c.Teilnehmer2, c.Kurs1, true)
	enroll(22, c.Teilnehmer1, c.Kurs1, false)
	enroll(23, c.Teilnehmer2, c.Kurs2, false)
	return c
}
