package tabs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/spf13/cast"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/dashboard"
	"github.com/gdg-garage/kursverwaltung/internal/history"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
	"github.com/gdg-garage/kursverwaltung/internal/models"
	"github.com/gdg-garage/kursverwaltung/internal/notifier"
)

var (
	ErrBusy        = errors.New("another change is still in progress")
	ErrNotFound    = errors.New("record not found")
	ErrUnsupported = errors.New("operation not supported for this entity")
)

const paidField = "bezahlt"

// Tab performs the mutations of one entity. Only one mutation per tab runs
// at a time; a second one is rejected with ErrBusy rather than queued.
type Tab struct {
	entity   *catalog.Entity
	catalog  *catalog.Catalog
	gateway  livingapps.Gateway
	recorder *history.Recorder
	notifier notifier.Notifier
	busy     atomic.Bool
}

// Busy reports whether a mutation is in flight.
func (t *Tab) Busy() bool {
	return t.busy.Load()
}

func (t *Tab) acquire() error {
	if !t.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (t *Tab) release() {
	t.busy.Store(false)
}

// Create validates input and creates a record. Invalid input never reaches
// the gateway.
func (t *Tab) Create(ctx context.Context, input map[string]any) (*livingapps.Record, error) {
	fields, err := t.catalog.Normalize(t.entity, input)
	if err != nil {
		return nil, err
	}
	if err := t.acquire(); err != nil {
		return nil, err
	}
	defer t.release()

	rec, err := t.gateway.Create(ctx, t.entity.AppID, fields)
	if err != nil {
		log.Printf("Error saving %s: %v", t.entity.Singular, err)
		return nil, err
	}

	t.after(ctx, rec.RecordID, models.ActionCreate, fields, nil)
	return rec, nil
}

// Update sends the complete field set of the form, changed or not.
func (t *Tab) Update(ctx context.Context, recordID string, input map[string]any) (*livingapps.Record, error) {
	fields, err := t.catalog.Normalize(t.entity, input)
	if err != nil {
		return nil, err
	}
	if err := t.acquire(); err != nil {
		return nil, err
	}
	defer t.release()

	rec, err := t.gateway.Update(ctx, t.entity.AppID, recordID, fields)
	if err != nil {
		log.Printf("Error saving %s %s: %v", t.entity.Singular, recordID, err)
		return nil, translate(err)
	}

	t.after(ctx, recordID, models.ActionUpdate, fields, nil)
	return rec, nil
}

func (t *Tab) Delete(ctx context.Context, recordID string) error {
	if recordID == "" {
		return ErrNotFound
	}
	if err := t.acquire(); err != nil {
		return err
	}
	defer t.release()

	if err := t.gateway.Delete(ctx, t.entity.AppID, recordID); err != nil {
		log.Printf("Error deleting %s %s: %v", t.entity.Singular, recordID, err)
		return translate(err)
	}

	t.after(ctx, recordID, models.ActionDelete, nil, nil)
	return nil
}

// TogglePaid flips the paid flag of rec with a partial update. rec is the
// record as currently loaded; its references are not consulted, so it works
// even if the referenced course is gone.
func (t *Tab) TogglePaid(ctx context.Context, rec livingapps.Record) (*livingapps.Record, error) {
	if f, ok := t.entity.Field(paidField); !ok || f.Kind != catalog.KindBool {
		return nil, ErrUnsupported
	}
	if rec.RecordID == "" {
		return nil, ErrNotFound
	}
	if err := t.acquire(); err != nil {
		return nil, err
	}
	defer t.release()

	paid := !cast.ToBool(rec.Fields[paidField])
	fields := map[string]any{paidField: paid}
	updated, err := t.gateway.Update(ctx, t.entity.AppID, rec.RecordID, fields)
	if err != nil {
		log.Printf("Error updating %s of %s: %v", paidField, rec.RecordID, err)
		return nil, translate(err)
	}

	// The audit entry keeps the whole record, not just the flipped flag.
	snapshot := make(map[string]any, len(rec.Fields)+len(updated.Fields))
	for k, v := range rec.Fields {
		snapshot[k] = v
	}
	for k, v := range updated.Fields {
		snapshot[k] = v
	}
	snapshot[paidField] = paid

	t.after(ctx, rec.RecordID, models.ActionToggle, snapshot, &paid)
	return updated, nil
}

// after writes the audit entry and sends a notification. Neither may fail
// the mutation, which already happened.
func (t *Tab) after(ctx context.Context, recordID, action string, fields map[string]any, paid *bool) {
	if err := t.recorder.Record(ctx, t.entity.Key, recordID, action, fields); err != nil {
		log.Printf("Failed to record %s of %s %s: %v", action, t.entity.Key, recordID, err)
	}

	if t.notifier == nil || !notify(t.entity.Key, action) {
		return
	}
	event := notifier.Event{Entity: t.entity.Singular, Action: action, Summary: t.summary(recordID, fields), Paid: paid}
	if err := t.notifier.Notify(event); err != nil {
		log.Printf("Failed to notify %s of %s %s: %v", action, t.entity.Key, recordID, err)
	}
}

func notify(entity, action string) bool {
	switch action {
	case models.ActionToggle:
		return true
	case models.ActionCreate:
		return entity == catalog.Anmeldungen || entity == catalog.Kurse
	}
	return false
}

func (t *Tab) summary(recordID string, fields map[string]any) string {
	if t.entity.TitleField != "" {
		if title := cast.ToString(fields[t.entity.TitleField]); title != "" {
			return title
		}
	}
	if date := cast.ToString(fields["anmeldedatum"]); date != "" {
		return fmt.Sprintf("%s vom %s", t.entity.Singular, dashboard.FormatDate(date))
	}
	return fmt.Sprintf("%s %s", t.entity.Singular, recordID)
}

func translate(err error) error {
	if livingapps.IsNotFound(err) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
