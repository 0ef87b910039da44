package history

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/gdg-garage/kursverwaltung/internal/models"
	"gorm.io/gorm"
)

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record appends a change. A nil recorder does nothing.
func (r *Recorder) Record(ctx context.Context, entity, recordID, action string, fields map[string]any) error {
	if r == nil || r.db == nil {
		return nil
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	change := models.Change{
		Entity:   entity,
		RecordID: recordID,
		Action:   action,
		Fields:   string(payload),
	}
	return r.db.WithContext(ctx).Create(&change).Error
}

type Filter struct {
	Entity   string
	RecordID string
	Diff     bool
	Limit    int
}

type Entry struct {
	ID        uint           `json:"id"`
	Entity    string         `json:"entity"`
	RecordID  string         `json:"record_id"`
	Action    string         `json:"action"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
}

// List returns changes newest first. With Diff set, every entry only keeps
// the fields that differ from the state of the record before that change.
// The state includes changes older than the Limit window.
func (r *Recorder) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := r.db.WithContext(ctx).Model(&models.Change{})
	if f.Entity != "" {
		query = query.Where("entity = ?", f.Entity)
	}
	if f.RecordID != "" {
		query = query.Where("record_id = ?", f.RecordID)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var changes []models.Change
	if err := query.Order("created_at desc, id desc").Find(&changes).Error; err != nil {
		return nil, err
	}
	window := len(changes)

	if f.Diff && f.Limit > 0 && window == f.Limit {
		earlier, err := r.earlier(ctx, changes)
		if err != nil {
			return nil, err
		}
		changes = append(changes, earlier...)
	}

	entries := make([]Entry, 0, len(changes))
	for _, c := range changes {
		fields := map[string]any{}
		if c.Fields != "" {
			if err := json.Unmarshal([]byte(c.Fields), &fields); err != nil {
				return nil, err
			}
		}
		entries = append(entries, Entry{
			ID:        c.ID,
			Entity:    c.Entity,
			RecordID:  c.RecordID,
			Action:    c.Action,
			Fields:    fields,
			CreatedAt: c.CreatedAt,
		})
	}

	if f.Diff {
		diffEntries(entries)
	}
	return entries[:window], nil
}

// earlier loads the changes older than the oldest one in window that belong
// to records appearing in window, newest first.
func (r *Recorder) earlier(ctx context.Context, window []models.Change) ([]models.Change, error) {
	oldest := window[len(window)-1]
	entities := map[string]bool{}
	recordIDs := map[string]bool{}
	for _, c := range window {
		entities[c.Entity] = true
		recordIDs[c.RecordID] = true
	}

	var older []models.Change
	err := r.db.WithContext(ctx).Model(&models.Change{}).
		Where("created_at < ? OR (created_at = ? AND id < ?)", oldest.CreatedAt, oldest.CreatedAt, oldest.ID).
		Where("entity IN ?", keys(entities)).
		Where("record_id IN ?", keys(recordIDs)).
		Order("created_at desc, id desc").
		Find(&older).Error
	return older, err
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

type recordKey struct {
	entity, recordID string
}

// diffEntries walks oldest to newest, folding every change of a record into
// its current state. Partial payloads such as toggles only update the
// fields they carry. A delete ends the state, so a later create is complete
// again.
func diffEntries(entries []Entry) {
	state := map[recordKey]map[string]any{}
	for i := len(entries) - 1; i >= 0; i-- {
		e := &entries[i]
		key := recordKey{e.Entity, e.RecordID}
		if e.Action == models.ActionDelete {
			delete(state, key)
			continue
		}

		prev, seen := state[key]
		next := make(map[string]any, len(prev)+len(e.Fields))
		for k, v := range prev {
			next[k] = v
		}
		for k, v := range e.Fields {
			next[k] = v
		}
		state[key] = next
		if !seen {
			continue
		}

		changed := map[string]any{}
		for k, v := range e.Fields {
			if old, ok := prev[k]; !ok || !reflect.DeepEqual(old, v) {
				changed[k] = v
			}
		}
		e.Fields = changed
	}
}
