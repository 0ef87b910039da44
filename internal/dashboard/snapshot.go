package dashboard

import (
	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

// Snapshot is the state of all collections after one load. It is replaced
// as a whole on every reload and never modified in place.
type Snapshot struct {
	catalog     *catalog.Catalog
	collections map[string][]livingapps.Record
	failed      map[string]error
}

// NewSnapshot builds a snapshot from already fetched collections.
func NewSnapshot(cat *catalog.Catalog, collections map[string][]livingapps.Record) *Snapshot {
	if collections == nil {
		collections = map[string][]livingapps.Record{}
	}
	return &Snapshot{catalog: cat, collections: collections}
}

func (s *Snapshot) Catalog() *catalog.Catalog {
	return s.catalog
}

// Err returns why the collection of an entity could not be loaded, or nil.
func (s *Snapshot) Err(key string) error {
	return s.failed[key]
}

// Records returns the collection of an entity, never nil.
func (s *Snapshot) Records(key string) []livingapps.Record {
	if records := s.collections[key]; records != nil {
		return records
	}
	return []livingapps.Record{}
}

// Find looks a record up by id with a linear scan.
func (s *Snapshot) Find(key, recordID string) (livingapps.Record, bool) {
	if recordID == "" {
		return livingapps.Record{}, false
	}
	for _, r := range s.collections[key] {
		if r.RecordID == recordID {
			return r, true
		}
	}
	return livingapps.Record{}, false
}
