package catalog

import (
	"strconv"

	"github.com/spf13/cast"

	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

// Defaults returns the form values of an empty create dialog.
func (e *Entity) Defaults() map[string]string {
	values := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if f.Default != nil {
			values[f.Name] = f.Default()
		} else {
			values[f.Name] = ""
		}
	}
	return values
}

// FormValues pre-fills the edit dialog from a stored record. Missing values
// fall back to the create defaults.
func (e *Entity) FormValues(rec livingapps.Record) map[string]string {
	values := e.Defaults()
	for _, f := range e.Fields {
		raw, ok := rec.Fields[f.Name]
		if !ok || raw == nil {
			continue
		}
		switch f.Kind {
		case KindReference:
			values[f.Name] = livingapps.ExtractRecordID(cast.ToString(raw))
		case KindBool:
			values[f.Name] = strconv.FormatBool(cast.ToBool(raw))
		case KindDate:
			s := cast.ToString(raw)
			if len(s) > 10 {
				s = s[:10]
			}
			if s != "" {
				values[f.Name] = s
			}
		case KindNumber, KindDecimal:
			n := cast.ToFloat64(raw)
			if n != 0 {
				values[f.Name] = strconv.FormatFloat(n, 'f', -1, 64)
			}
		default:
			if s := cast.ToString(raw); s != "" {
				values[f.Name] = s
			}
		}
	}
	return values
}

// FormInput converts submitted form values into Normalize input.
func FormInput(values map[string]string) map[string]any {
	input := make(map[string]any, len(values))
	for k, v := range values {
		input[k] = v
	}
	return input
}
