package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

var validate = validator.New()

// FieldError is used to indicate an error with a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the error for one field or "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Normalize turns raw form or JSON input into the field payload sent to the
// gateway. Every field of the entity is present in the result; empty
// optional fields are sent as nil so an edit can clear them. Reference
// inputs are record ids (or full reference strings) and come out as
// reference strings for the target app.
func (c *Catalog) Normalize(e *Entity, input map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(e.Fields))
	var errs []FieldError

	for _, f := range e.Fields {
		value, msg := c.normalizeField(f, input[f.Name])
		if msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
			continue
		}
		out[f.Name] = value
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return out, nil
}

func (c *Catalog) normalizeField(f Field, raw any) (any, string) {
	switch f.Kind {
	case KindBool:
		return toBool(raw)
	case KindNumber, KindDecimal:
		return toNumber(f, raw)
	case KindReference:
		return c.toReference(f, raw)
	default:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return nil, "Ungültiger Wert"
		}
		s = strings.TrimSpace(s)
		if s == "" {
			if f.Required {
				return nil, "Pflichtfeld"
			}
			return nil, ""
		}
		if msg := check(s, f.Rules); msg != "" {
			return nil, msg
		}
		return s, ""
	}
}

func toBool(raw any) (any, string) {
	switch v := raw.(type) {
	case nil:
		return false, ""
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "off":
			return false, ""
		case "on":
			return true, ""
		}
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return nil, "Ungültiger Wert"
	}
	return b, ""
}

func toNumber(f Field, raw any) (any, string) {
	if s, ok := raw.(string); ok {
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	if raw == nil || raw == "" {
		if f.Required {
			return nil, "Pflichtfeld"
		}
		return nil, ""
	}

	var value any
	if f.Kind == KindNumber {
		n, err := cast.ToIntE(raw)
		if err != nil {
			return nil, "Ungültige Zahl"
		}
		value = n
	} else {
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, "Ungültige Zahl"
		}
		value = n
	}
	if msg := check(value, f.Rules); msg != "" {
		return nil, msg
	}
	return value, ""
}

func (c *Catalog) toReference(f Field, raw any) (any, string) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return nil, "Ungültiger Wert"
	}
	s = strings.TrimSpace(s)
	if s == "" {
		if f.Required {
			return nil, "Bitte auswählen"
		}
		return nil, ""
	}

	id := livingapps.ExtractRecordID(s)
	// Plain ids must be ids and nothing else; reference strings may carry a prefix.
	if id == "" || (!strings.Contains(s, "/") && id != s) {
		return nil, "Ungültige Referenz"
	}

	target, ok := c.entities[f.Target]
	if !ok {
		return nil, fmt.Sprintf("Unbekanntes Ziel %q", f.Target)
	}
	return livingapps.BuildReference(c.baseURL, target.AppID, id), ""
}

func check(value any, rules string) string {
	if rules == "" {
		return ""
	}
	err := validate.Var(value, rules)
	if err == nil {
		return ""
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Ungültiger Wert"
	}
	switch verrs[0].Tag() {
	case "email":
		return "Ungültige E-Mail-Adresse"
	case "datetime":
		return "Ungültiges Datum"
	case "gte":
		return "Wert muss mindestens " + verrs[0].Param() + " sein"
	default:
		return "Ungültiger Wert"
	}
}
