package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/dashboard"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
	"github.com/gdg-garage/kursverwaltung/internal/tabs"
)

type RecordHandler struct {
	catalog *catalog.Catalog
	loader  *dashboard.Loader
	tabs    *tabs.Set
}

func NewRecordHandler(cat *catalog.Catalog, loader *dashboard.Loader, set *tabs.Set) *RecordHandler {
	return &RecordHandler{catalog: cat, loader: loader, tabs: set}
}

type ReferenceView struct {
	Field    string `json:"field"`
	Target   string `json:"target"`
	State    string `json:"state" enum:"unset,dangling,resolved" doc:"unset: no reference stored; dangling: referenced record is not loaded"`
	RecordID string `json:"record_id,omitempty"`
	Label    string `json:"label"`
}

type RecordView struct {
	RecordID   string          `json:"record_id"`
	Fields     map[string]any  `json:"fields"`
	Label      string          `json:"label,omitempty"`
	References []ReferenceView `json:"references,omitempty"`
}

type EntityPath struct {
	Entity string `path:"entity" enum:"dozenten,raeume,teilnehmer,kurse,anmeldungen" doc:"Entity collection"`
}

type RecordPath struct {
	EntityPath
	ID string `path:"id" doc:"Record id"`
}

type ListRecordsRequest struct {
	EntityPath
}

type ListRecordsResponse struct {
	Body struct {
		Records   []RecordView `json:"records"`
		LoadError string       `json:"load_error,omitempty" doc:"Set when a referenced collection could not be loaded; its references are not resolved"`
	}
}

type RecordResponse struct {
	Body RecordView
}

type WriteRecordRequest struct {
	RecordPath
	Body struct {
		Fields map[string]any `json:"fields" required:"true" doc:"Field values; references are given as record ids"`
	}
}

type CreateRecordRequest struct {
	EntityPath
	Body struct {
		Fields map[string]any `json:"fields" required:"true" doc:"Field values; references are given as record ids"`
	}
}

type DeleteRecordRequest struct {
	RecordPath
}

type TogglePaidRequest struct {
	ID string `path:"id" doc:"Enrollment record id"`
}

func (h *RecordHandler) tab(key string) (*tabs.Tab, error) {
	t, ok := h.tabs.Get(key)
	if !ok {
		return nil, huma.Error404NotFound("Unknown entity " + key)
	}
	return t, nil
}

func (h *RecordHandler) HandleList(ctx context.Context, input *ListRecordsRequest) (*ListRecordsResponse, error) {
	entity, ok := h.catalog.Lookup(input.Entity)
	if !ok {
		return nil, huma.Error404NotFound("Unknown entity " + input.Entity)
	}

	keys := []string{entity.Key}
	for _, ref := range entity.References() {
		keys = append(keys, ref.Target)
	}
	snap, err := h.loader.LoadOnly(ctx, keys...)
	if primary := snap.Err(entity.Key); primary != nil {
		log.Printf("Error loading %s: %v", entity.Key, primary)
		return nil, apiError(primary)
	}

	res := &ListRecordsResponse{}
	if err != nil {
		log.Printf("Error loading references of %s: %v", entity.Key, err)
		res.Body.LoadError = err.Error()
	}
	records := snap.Records(entity.Key)
	res.Body.Records = make([]RecordView, 0, len(records))
	for _, rec := range records {
		res.Body.Records = append(res.Body.Records, view(snap, entity, rec))
	}
	return res, nil
}

func (h *RecordHandler) HandleCreate(ctx context.Context, input *CreateRecordRequest) (*RecordResponse, error) {
	t, err := h.tab(input.Entity)
	if err != nil {
		return nil, err
	}
	rec, err := t.Create(ctx, input.Body.Fields)
	if err != nil {
		return nil, apiError(err)
	}
	return &RecordResponse{Body: RecordView{RecordID: rec.RecordID, Fields: rec.Fields}}, nil
}

func (h *RecordHandler) HandleUpdate(ctx context.Context, input *WriteRecordRequest) (*RecordResponse, error) {
	t, err := h.tab(input.Entity)
	if err != nil {
		return nil, err
	}
	rec, err := t.Update(ctx, input.ID, input.Body.Fields)
	if err != nil {
		return nil, apiError(err)
	}
	return &RecordResponse{Body: RecordView{RecordID: rec.RecordID, Fields: rec.Fields}}, nil
}

func (h *RecordHandler) HandleDelete(ctx context.Context, input *DeleteRecordRequest) (*struct{}, error) {
	t, err := h.tab(input.Entity)
	if err != nil {
		return nil, err
	}
	if err := t.Delete(ctx, input.ID); err != nil {
		return nil, apiError(err)
	}
	return nil, nil
}

func (h *RecordHandler) HandleTogglePaid(ctx context.Context, input *TogglePaidRequest) (*RecordResponse, error) {
	t, err := h.tab(catalog.Anmeldungen)
	if err != nil {
		return nil, err
	}

	snap, err := h.loader.LoadOnly(ctx, catalog.Anmeldungen)
	if err != nil {
		return nil, apiError(err)
	}
	rec, ok := snap.Find(catalog.Anmeldungen, input.ID)
	if !ok {
		return nil, huma.Error404NotFound("Record not found")
	}

	updated, err := t.TogglePaid(ctx, rec)
	if err != nil {
		return nil, apiError(err)
	}
	return &RecordResponse{Body: RecordView{RecordID: updated.RecordID, Fields: updated.Fields}}, nil
}

func view(snap *dashboard.Snapshot, entity *catalog.Entity, rec livingapps.Record) RecordView {
	v := RecordView{
		RecordID: rec.RecordID,
		Fields:   rec.Fields,
		Label:    snap.RecordLabel(entity.Key, rec),
	}
	for _, ref := range entity.References() {
		raw := rec.String(ref.Name)
		res := snap.Resolve(ref.Target, raw)
		v.References = append(v.References, ReferenceView{
			Field:    ref.Name,
			Target:   ref.Target,
			State:    string(res.State),
			RecordID: res.RecordID,
			Label:    snap.Label(ref.Target, raw),
		})
	}
	return v
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}
