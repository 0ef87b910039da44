package dashboard

import (
	"fmt"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

// Row is one rendered table line.
type Row struct {
	RecordID string
	Cells    []string
	// Paid is set for enrollments only.
	Paid *bool
}

// Option is one entry of a reference select.
type Option struct {
	Value string
	Label string
}

// Rows renders the table of one entity.
func (s *Snapshot) Rows(key string) []Row {
	records := s.Records(key)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, s.row(key, rec))
	}
	return rows
}

func (s *Snapshot) row(key string, rec livingapps.Record) Row {
	r := Row{RecordID: rec.RecordID}
	switch key {
	case catalog.Dozenten:
		r.Cells = []string{rec.String("name"), rec.String("email"), orPlaceholder(rec.String("telefon")), orPlaceholder(rec.String("fachgebiet"))}
	case catalog.Raeume:
		r.Cells = []string{rec.String("raumname"), rec.String("gebaeude"), FormatNumber(floatField(rec, "kapazitaet")) + " Plätze"}
	case catalog.Teilnehmer:
		r.Cells = []string{rec.String("name"), rec.String("email"), orPlaceholder(rec.String("telefon")), FormatDate(rec.String("geburtsdatum"))}
	case catalog.Kurse:
		r.Cells = []string{
			rec.String("titel"),
			FormatDate(rec.String("startdatum")) + " - " + FormatDate(rec.String("enddatum")),
			s.Label(catalog.Dozenten, rec.String("dozent")),
			s.Label(catalog.Raeume, rec.String("raum")),
			FormatNumber(floatField(rec, "max_teilnehmer")),
			FormatEuro(floatField(rec, "preis")),
		}
	case catalog.Anmeldungen:
		paid := boolField(rec, "bezahlt")
		r.Paid = &paid
		status := "Offen"
		if paid {
			status = "Bezahlt"
		}
		r.Cells = []string{
			s.Label(catalog.Teilnehmer, rec.String("teilnehmer")),
			s.Label(catalog.Kurse, rec.String("kurs")),
			FormatDate(rec.String("anmeldedatum")),
			status,
		}
	}
	return r
}

// Options lists the records of an entity for a reference select.
func (s *Snapshot) Options(key string) []Option {
	records := s.Records(key)
	opts := make([]Option, 0, len(records))
	for _, rec := range records {
		opts = append(opts, Option{Value: rec.RecordID, Label: s.RecordLabel(key, rec)})
	}
	return opts
}

// DeletePrompt is the question shown in the delete confirmation dialog.
func (s *Snapshot) DeletePrompt(key string, rec livingapps.Record) string {
	switch key {
	case catalog.Dozenten:
		return fmt.Sprintf("Möchten Sie den Dozenten %q wirklich löschen?", rec.String("name"))
	case catalog.Raeume:
		return fmt.Sprintf("Möchten Sie den Raum %q wirklich löschen?", rec.String("raumname"))
	case catalog.Teilnehmer:
		return fmt.Sprintf("Möchten Sie den Teilnehmer %q wirklich löschen?", rec.String("name"))
	case catalog.Kurse:
		return fmt.Sprintf("Möchten Sie den Kurs %q wirklich löschen?", rec.String("titel"))
	case catalog.Anmeldungen:
		return fmt.Sprintf("Möchten Sie die Anmeldung von %q für den Kurs %q wirklich löschen?",
			s.Label(catalog.Teilnehmer, rec.String("teilnehmer")),
			s.Label(catalog.Kurse, rec.String("kurs")))
	}
	return "Möchten Sie diesen Eintrag wirklich löschen?"
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
