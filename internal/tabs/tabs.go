package tabs

import (
	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/history"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
	"github.com/gdg-garage/kursverwaltung/internal/notifier"
)

// Set holds one Tab per catalog entity.
type Set struct {
	tabs map[string]*Tab
}

// New builds the tabs. recorder and n may be nil.
func New(cat *catalog.Catalog, gateway livingapps.Gateway, recorder *history.Recorder, n notifier.Notifier) *Set {
	s := &Set{tabs: map[string]*Tab{}}
	for _, e := range cat.All() {
		s.tabs[e.Key] = &Tab{
			entity:   e,
			catalog:  cat,
			gateway:  gateway,
			recorder: recorder,
			notifier: n,
		}
	}
	return s
}

func (s *Set) Get(key string) (*Tab, bool) {
	t, ok := s.tabs[key]
	return t, ok
}
