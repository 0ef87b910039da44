package dashboard

import (
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

// Placeholder is displayed for references that do not resolve.
const Placeholder = "-"

type ResolutionState string

const (
	// Unset: the field holds no reference.
	Unset ResolutionState = "unset"
	// Dangling: the reference points at a record that is not loaded,
	// usually because it was deleted.
	Dangling ResolutionState = "dangling"
	Resolved ResolutionState = "resolved"
)

type Resolution struct {
	State    ResolutionState
	RecordID string
	Record   livingapps.Record
}

// Resolve maps a reference string onto a record of the target collection.
// It accepts any input and never fails.
func (s *Snapshot) Resolve(target, ref string) Resolution {
	id := livingapps.ExtractRecordID(ref)
	if id == "" {
		if ref == "" {
			return Resolution{State: Unset}
		}
		return Resolution{State: Dangling}
	}
	rec, ok := s.Find(target, id)
	if !ok {
		return Resolution{State: Dangling, RecordID: id}
	}
	return Resolution{State: Resolved, RecordID: id, Record: rec}
}

// Label is the display text of a resolved record, or the placeholder.
func (s *Snapshot) Label(target, ref string) string {
	res := s.Resolve(target, ref)
	if res.State != Resolved {
		return Placeholder
	}
	label := s.RecordLabel(target, res.Record)
	if label == "" {
		return Placeholder
	}
	return label
}
