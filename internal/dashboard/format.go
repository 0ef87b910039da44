package dashboard

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

var german = message.NewPrinter(language.German)

// FormatNumber renders n with German grouping and up to three decimals.
func FormatNumber(n float64) string {
	return german.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

func FormatEuro(n float64) string {
	return FormatNumber(n) + " €"
}

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339}

// FormatDate renders a gateway date as dd.MM.yyyy. Unparseable input is
// returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02.01.2006")
		}
	}
	return s
}

// RecordLabel is how a record of the given entity is named in tables,
// selects and dialogs.
func (s *Snapshot) RecordLabel(key string, rec livingapps.Record) string {
	switch key {
	case catalog.Raeume:
		name := rec.String("raumname")
		if name == "" {
			return ""
		}
		return name + " (" + rec.String("gebaeude") + ")"
	case catalog.Kurse:
		return rec.String("titel")
	case catalog.Anmeldungen:
		return s.Label(catalog.Teilnehmer, rec.String("teilnehmer")) + " / " + s.Label(catalog.Kurse, rec.String("kurs"))
	default:
		return rec.String("name")
	}
}

func floatField(rec livingapps.Record, name string) float64 {
	return cast.ToFloat64(rec.Fields[name])
}

func boolField(rec livingapps.Record, name string) bool {
	return cast.ToBool(rec.Fields[name])
}
