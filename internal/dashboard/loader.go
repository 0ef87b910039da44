package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
)

type Loader struct {
	gateway livingapps.Gateway
	catalog *catalog.Catalog
}

func NewLoader(gateway livingapps.Gateway, cat *catalog.Catalog) *Loader {
	return &Loader{gateway: gateway, catalog: cat}
}

// Load fetches every collection concurrently and waits for all of them.
// A failed collection stays empty; the returned error joins every failure
// and the snapshot is usable either way.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	return l.LoadOnly(ctx, catalog.Keys...)
}

// LoadOnly is Load restricted to the given entities.
func (l *Loader) LoadOnly(ctx context.Context, keys ...string) (*Snapshot, error) {
	collections := make(map[string][]livingapps.Record, len(keys))
	failed := map[string]error{}

	var (
		mu   sync.Mutex
		errs []error
		wg   conc.WaitGroup
	)
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		e, ok := l.catalog.Lookup(key)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		wg.Go(func() {
			records, err := l.gateway.List(ctx, e.AppID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				failed[key] = err
				records = nil
			}
			collections[key] = records
		})
	}
	wg.Wait()

	snap := NewSnapshot(l.catalog, collections)
	snap.failed = failed
	return snap, errors.Join(errs...)
}
