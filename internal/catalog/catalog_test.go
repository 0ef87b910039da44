package catalog

import (
	"errors"
	"testing"

	"github.com/gdg-garage/kursverwaltung/internal/config"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

const (
	dozentID = "65a1b2c3d4e5f60718293a4b"
	raumID   = "65a1b2c3d4e5f60718293a4c"
)

func testCatalog() *Catalog {
	return New(&config.Config{
		LivingAppsBaseURL: "https://my.living-apps.de/rest",
		AppIDDozenten:     "app-dozenten",
		AppIDRaeume:       "app-raeume",
		AppIDTeilnehmer:   "app-teilnehmer",
		AppIDKurse:        "app-kurse",
		AppIDAnmeldungen:  "app-anmeldungen",
	})
}

func TestAllInTabOrder(t *testing.T) {
	c := testCatalog()
	all := c.All()
	if len(all) != len(Keys) {
		t.Fatalf("expected %d entities, got %d", len(Keys), len(all))
	}
	for i, e := range all {
		if e.Key != Keys[i] {
			t.Errorf("position %d: expected %s, got %s", i, Keys[i], e.Key)
		}
	}
}

func TestNormalizeKurs(t *testing.T) {
	c := testCatalog()
	kurse := c.MustLookup(Kurse)

	fields, err := c.Normalize(kurse, map[string]any{
		"titel":          "  Yoga  ",
		"startdatum":     "2025-03-01",
		"enddatum":       "2025-03-31",
		"max_teilnehmer": "15",
		"preis":          "99,50",
		"dozent":         dozentID,
		"raum":           raumID,
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if fields["titel"] != "Yoga" {
		t.Errorf("expected trimmed title, got %v", fields["titel"])
	}
	if fields["max_teilnehmer"] != 15 {
		t.Errorf("expected 15, got %#v", fields["max_teilnehmer"])
	}
	if fields["preis"] != 99.5 {
		t.Errorf("expected 99.5, got %#v", fields["preis"])
	}
	if v, ok := fields["beschreibung"]; !ok || v != nil {
		t.Errorf("expected empty description sent as nil, got %#v (present=%v)", v, ok)
	}
	wantDozent := "https://my.living-apps.de/rest/apps/app-dozenten/records/" + dozentID
	if fields["dozent"] != wantDozent {
		t.Errorf("expected %s, got %v", wantDozent, fields["dozent"])
	}
}

func TestNormalizeAcceptsReferenceStrings(t *testing.T) {
	c := testCatalog()
	anm := c.MustLookup(Anmeldungen)

	ref := livingapps.BuildReference("https://elsewhere.test/rest", "other-app", dozentID)
	fields, err := c.Normalize(anm, map[string]any{
		"teilnehmer":   ref,
		"kurs":         raumID,
		"anmeldedatum": "2025-01-10",
		"bezahlt":      true,
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if fields["teilnehmer"] != "https://my.living-apps.de/rest/apps/app-teilnehmer/records/"+dozentID {
		t.Errorf("reference not rebuilt for target app: %v", fields["teilnehmer"])
	}
	if fields["bezahlt"] != true {
		t.Errorf("expected bezahlt true, got %v", fields["bezahlt"])
	}
}

func TestNormalizeRejectsMissingReference(t *testing.T) {
	c := testCatalog()
	kurse := c.MustLookup(Kurse)

	_, err := c.Normalize(kurse, map[string]any{
		"titel":          "Yoga",
		"startdatum":     "2025-03-01",
		"enddatum":       "2025-03-31",
		"max_teilnehmer": 10,
		"preis":          0,
		"dozent":         dozentID,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "raum" {
		t.Errorf("expected only raum to fail, got %+v", verr.Fields)
	}
}

func TestNormalizeFieldRules(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name   string
		entity string
		input  map[string]any
		field  string
	}{
		{"BadEmail", Dozenten, map[string]any{"name": "A", "email": "nope"}, "email"},
		{"MissingName", Teilnehmer, map[string]any{"email": "a@b.de"}, "name"},
		{"BadDate", Teilnehmer, map[string]any{"name": "A", "email": "a@b.de", "geburtsdatum": "01.02.2000"}, "geburtsdatum"},
		{"NegativeCapacity", Raeume, map[string]any{"raumname": "A", "gebaeude": "B", "kapazitaet": "-1"}, "kapazitaet"},
		{"NotANumber", Raeume, map[string]any{"raumname": "A", "gebaeude": "B", "kapazitaet": "viele"}, "kapazitaet"},
		{"BadReference", Anmeldungen, map[string]any{"teilnehmer": "123", "kurs": raumID, "anmeldedatum": "2025-01-01"}, "teilnehmer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Normalize(c.MustLookup(tt.entity), tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Message(tt.field) == "" {
				t.Errorf("expected error on %s, got %+v", tt.field, verr.Fields)
			}
		})
	}
}

func TestFormValues(t *testing.T) {
	c := testCatalog()
	kurse := c.MustLookup(Kurse)

	values := kurse.FormValues(livingapps.Record{
		RecordID: "x",
		Fields: map[string]any{
			"titel":      "Yoga",
			"startdatum": "2025-03-01T00:00",
			"preis":      float64(49.9),
			"dozent":     "https://my.living-apps.de/rest/apps/app-dozenten/records/" + dozentID,
		},
	})

	if values["startdatum"] != "2025-03-01" {
		t.Errorf("expected date cut to day, got %s", values["startdatum"])
	}
	if values["max_teilnehmer"] != "20" {
		t.Errorf("expected default 20, got %s", values["max_teilnehmer"])
	}
	if values["preis"] != "49.9" {
		t.Errorf("expected 49.9, got %s", values["preis"])
	}
	if values["dozent"] != dozentID {
		t.Errorf("expected record id, got %s", values["dozent"])
	}
	if values["raum"] != "" {
		t.Errorf("expected empty raum, got %s", values["raum"])
	}
}
