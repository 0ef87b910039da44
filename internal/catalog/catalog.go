package catalog

import (
	"github.com/gdg-garage/kursverwaltung/internal/config"
)

const (
	Dozenten    = "dozenten"
	Raeume      = "raeume"
	Teilnehmer  = "teilnehmer"
	Kurse       = "kurse"
	Anmeldungen = "anmeldungen"
)

// Keys lists the entities in tab order.
var Keys = []string{Kurse, Anmeldungen, Dozenten, Teilnehmer, Raeume}

type Kind string

const (
	KindText      Kind = "text"
	KindTextarea  Kind = "textarea"
	KindEmail     Kind = "email"
	KindTel       Kind = "tel"
	KindDate      Kind = "date"
	KindNumber    Kind = "number"
	KindDecimal   Kind = "decimal"
	KindBool      Kind = "bool"
	KindReference Kind = "reference"
)

type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	// Rules are extra validator tags applied to non-empty values.
	Rules string
	// Target is the entity key a reference points to.
	Target string
	// Default is the pre-filled form value for new records.
	Default func() string
	Min     string
	Step    string
}

// Entity describes one LivingApps app the dashboard manages.
type Entity struct {
	Key       string
	Label     string
	Singular  string
	NewLabel  string
	AddLabel  string
	EmptyText string
	AppID     string
	Fields    []Field
	Columns   []string
	// TitleField names the field used to refer to a record in dialogs.
	TitleField string
}

func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// References returns the reference fields in declaration order.
func (e *Entity) References() []Field {
	var refs []Field
	for _, f := range e.Fields {
		if f.Kind == KindReference {
			refs = append(refs, f)
		}
	}
	return refs
}

type Catalog struct {
	baseURL  string
	entities map[string]*Entity
}

func New(cfg *config.Config) *Catalog {
	c := &Catalog{
		baseURL:  cfg.LivingAppsBaseURL,
		entities: map[string]*Entity{},
	}
	for _, e := range definitions(cfg) {
		c.entities[e.Key] = e
	}
	return c
}

func (c *Catalog) Lookup(key string) (*Entity, bool) {
	e, ok := c.entities[key]
	return e, ok
}

// MustLookup is for the fixed keys declared in this package.
func (c *Catalog) MustLookup(key string) *Entity {
	e, ok := c.entities[key]
	if !ok {
		panic("catalog: unknown entity " + key)
	}
	return e
}

// All returns the entities in tab order.
func (c *Catalog) All() []*Entity {
	out := make([]*Entity, 0, len(c.entities))
	for _, key := range Keys {
		if e, ok := c.entities[key]; ok {
			out = append(out, e)
		}
	}
	return out
}
