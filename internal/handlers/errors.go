package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/tabs"
)

// apiError maps tab and gateway failures onto HTTP errors.
func apiError(err error) error {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]error, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, &huma.ErrorDetail{
				Location: "body.fields." + f.Field,
				Message:  f.Message,
			})
		}
		return huma.Error422UnprocessableEntity("Validation failed", details...)
	case errors.Is(err, tabs.ErrBusy):
		return huma.Error409Conflict("Another change is still in progress")
	case errors.Is(err, tabs.ErrNotFound):
		return huma.Error404NotFound("Record not found")
	case errors.Is(err, tabs.ErrUnsupported):
		return huma.Error400BadRequest("Operation not supported for this entity")
	default:
		return huma.Error502BadGateway("Record gateway request failed: " + err.Error())
	}
}
