// Package testfixtures provides in-memory collaborators for tests.
package testfixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/config"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

const BaseURL = "https://my.living-apps.de/rest"

// Config returns a configuration with one app id per entity.
func Config() *config.Config {
	return &config.Config{
		LivingAppsBaseURL: BaseURL,
		AppIDDozenten:     "app-dozenten",
		AppIDRaeume:       "app-raeume",
		AppIDTeilnehmer:   "app-teilnehmer",
		AppIDKurse:        "app-kurse",
		AppIDAnmeldungen:  "app-anmeldungen",
		CSRFSecret:        "test-secret",
	}
}

func Catalog() *catalog.Catalog {
	return catalog.New(Config())
}

// Ref builds a reference string to a record of the given entity.
func Ref(cat *catalog.Catalog, key, recordID string) string {
	return livingapps.BuildReference(BaseURL, cat.MustLookup(key).AppID, recordID)
}

// ID returns a deterministic 24-hex record id.
func ID(n int) string {
	return fmt.Sprintf("%024x", n)
}

// Gateway is an in-memory livingapps.Gateway.
type Gateway struct {
	mu      sync.Mutex
	apps    map[string]map[string]map[string]any
	next    int
	calls   []string
	failing map[string]error
	// Hook runs inside every call before it is served, without the lock.
	Hook func(op, appID string)
}

var _ livingapps.Gateway = (*Gateway)(nil)

func NewGateway() *Gateway {
	return &Gateway{
		apps:    map[string]map[string]map[string]any{},
		next:    1000,
		failing: map[string]error{},
	}
}

// Seed stores a record directly and returns its id.
func (g *Gateway) Seed(appID string, id string, fields map[string]any) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.apps[appID] == nil {
		g.apps[appID] = map[string]map[string]any{}
	}
	g.apps[appID][id] = copyFields(fields)
	return id
}

// Fail makes every call against appID return err. A nil err clears it.
func (g *Gateway) Fail(appID string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failing, appID)
		return
	}
	g.failing[appID] = err
}

// Calls returns the operations served so far, formatted as "op app".
func (g *Gateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// Get returns the stored fields of a record.
func (g *Gateway) Get(appID, id string) (map[string]any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.apps[appID][id]
	return copyFields(f), ok
}

func (g *Gateway) enter(op, appID string) error {
	if g.Hook != nil {
		g.Hook(op, appID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, op+" "+appID)
	return g.failing[appID]
}

func (g *Gateway) List(ctx context.Context, appID string) ([]livingapps.Record, error) {
	if err := g.enter("list", appID); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]livingapps.Record, 0, len(g.apps[appID]))
	for id, f := range g.apps[appID] {
		records = append(records, livingapps.Record{RecordID: id, Fields: copyFields(f)})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].RecordID < records[j].RecordID })
	return records, nil
}

func (g *Gateway) Create(ctx context.Context, appID string, fields map[string]any) (*livingapps.Record, error) {
	if err := g.enter("create", appID); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	id := ID(g.next)
	if g.apps[appID] == nil {
		g.apps[appID] = map[string]map[string]any{}
	}
	g.apps[appID][id] = copyFields(fields)
	return &livingapps.Record{RecordID: id, Fields: copyFields(fields)}, nil
}

func (g *Gateway) Update(ctx context.Context, appID, recordID string, fields map[string]any) (*livingapps.Record, error) {
	if err := g.enter("update", appID); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	stored, ok := g.apps[appID][recordID]
	if !ok {
		return nil, &livingapps.APIError{Method: "PATCH", URL: appID + "/" + recordID, Status: 404, Body: "not found"}
	}
	for k, v := range fields {
		stored[k] = v
	}
	return &livingapps.Record{RecordID: recordID, Fields: copyFields(stored)}, nil
}

func (g *Gateway) Delete(ctx context.Context, appID, recordID string) error {
	if err := g.enter("delete", appID); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.apps[appID][recordID]; !ok {
		return &livingapps.APIError{Method: "DELETE", URL: appID + "/" + recordID, Status: 404, Body: "not found"}
	}
	delete(g.apps[appID], recordID)
	return nil
}

func copyFields(f map[string]any) map[string]any {
	if f == nil {
		return nil
	}
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
