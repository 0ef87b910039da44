package catalog

import (
	"time"

	"github.com/gdg-garage/kursverwaltung/internal/config"
)

func constant(v string) func() string {
	return func() string { return v }
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func definitions(cfg *config.Config) []*Entity {
	return []*Entity{
		{
			Key:        Dozenten,
			Label:      "Dozenten",
			Singular:   "Dozent",
			NewLabel:   "Neuer Dozent",
			AddLabel:   "Dozent hinzufügen",
			EmptyText:  "Noch keine Dozenten vorhanden",
			AppID:      cfg.AppIDDozenten,
			TitleField: "name",
			Columns:    []string{"Name", "E-Mail", "Telefon", "Fachgebiet"},
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindText, Required: true},
				{Name: "email", Label: "E-Mail", Kind: KindEmail, Required: true, Rules: "email"},
				{Name: "telefon", Label: "Telefon", Kind: KindTel},
				{Name: "fachgebiet", Label: "Fachgebiet", Kind: KindText},
			},
		},
		{
			Key:        Raeume,
			Label:      "Räume",
			Singular:   "Raum",
			NewLabel:   "Neuer Raum",
			AddLabel:   "Raum hinzufügen",
			EmptyText:  "Noch keine Räume vorhanden",
			AppID:      cfg.AppIDRaeume,
			TitleField: "raumname",
			Columns:    []string{"Raumname", "Gebäude", "Kapazität"},
			Fields: []Field{
				{Name: "raumname", Label: "Raumname", Kind: KindText, Required: true},
				{Name: "gebaeude", Label: "Gebäude", Kind: KindText, Required: true},
				{Name: "kapazitaet", Label: "Kapazität", Kind: KindNumber, Required: true, Rules: "gte=0", Min: "0", Default: constant("0")},
			},
		},
		{
			Key:        Teilnehmer,
			Label:      "Teilnehmer",
			Singular:   "Teilnehmer",
			NewLabel:   "Neuer Teilnehmer",
			AddLabel:   "Teilnehmer hinzufügen",
			EmptyText:  "Noch keine Teilnehmer vorhanden",
			AppID:      cfg.AppIDTeilnehmer,
			TitleField: "name",
			Columns:    []string{"Name", "E-Mail", "Telefon", "Geburtsdatum"},
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindText, Required: true},
				{Name: "email", Label: "E-Mail", Kind: KindEmail, Required: true, Rules: "email"},
				{Name: "telefon", Label: "Telefon", Kind: KindTel},
				{Name: "geburtsdatum", Label: "Geburtsdatum", Kind: KindDate, Rules: "datetime=2006-01-02"},
			},
		},
		{
			Key:        Kurse,
			Label:      "Kurse",
			Singular:   "Kurs",
			NewLabel:   "Neuer Kurs",
			AddLabel:   "Kurs hinzufügen",
			EmptyText:  "Noch keine Kurse vorhanden",
			AppID:      cfg.AppIDKurse,
			TitleField: "titel",
			Columns:    []string{"Titel", "Zeitraum", "Dozent", "Raum", "Max. TN", "Preis"},
			Fields: []Field{
				{Name: "titel", Label: "Titel", Kind: KindText, Required: true},
				{Name: "beschreibung", Label: "Beschreibung", Kind: KindTextarea},
				{Name: "startdatum", Label: "Startdatum", Kind: KindDate, Required: true, Rules: "datetime=2006-01-02"},
				{Name: "enddatum", Label: "Enddatum", Kind: KindDate, Required: true, Rules: "datetime=2006-01-02"},
				{Name: "max_teilnehmer", Label: "Max. Teilnehmer", Kind: KindNumber, Required: true, Rules: "gte=1", Min: "1", Default: constant("20")},
				{Name: "preis", Label: "Preis (€)", Kind: KindDecimal, Required: true, Rules: "gte=0", Min: "0", Step: "0.01", Default: constant("0")},
				{Name: "dozent", Label: "Dozent", Kind: KindReference, Required: true, Target: Dozenten},
				{Name: "raum", Label: "Raum", Kind: KindReference, Required: true, Target: Raeume},
			},
		},
		{
			Key:       Anmeldungen,
			Label:     "Anmeldungen",
			Singular:  "Anmeldung",
			NewLabel:  "Neue Anmeldung",
			AddLabel:  "Anmeldung hinzufügen",
			EmptyText: "Noch keine Anmeldungen vorhanden",
			AppID:     cfg.AppIDAnmeldungen,
			Columns:   []string{"Teilnehmer", "Kurs", "Anmeldedatum", "Bezahlt"},
			Fields: []Field{
				{Name: "teilnehmer", Label: "Teilnehmer", Kind: KindReference, Required: true, Target: Teilnehmer},
				{Name: "kurs", Label: "Kurs", Kind: KindReference, Required: true, Target: Kurse},
				{Name: "anmeldedatum", Label: "Anmeldedatum", Kind: KindDate, Required: true, Rules: "datetime=2006-01-02", Default: today},
				{Name: "bezahlt", Label: "Bereits bezahlt", Kind: KindBool},
			},
		},
	}
}
