package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/internal/index"
	"github.com/mesh-intelligence/mdmreg/internal/registry"
)

// openStore loads the registry file into a fresh Store. A missing file is
// an empty registry.
func (a *app) openStore() (*registry.Store, error) {
	entities, err := exchange.LoadRegistryFile(a.registryPath, a.now())
	if err != nil {
		var ie *exchange.ImportError
		if errors.As(err, &ie) {
			return nil, fmt.Errorf("load %s: %w", a.registryPath, err)
		}
		return nil, systemError(fmt.Errorf("load registry: %w", err))
	}

	store := registry.New(registry.WithLogger(a.logger), registry.WithClock(a.now))
	store.Replace(entities)
	a.logger.Debug("registry loaded", "path", a.registryPath, "entities", len(entities))
	return store, nil
}

// saveStore writes the store back to the registry file.
func (a *app) saveStore(store *registry.Store) error {
	if err := exchange.SaveRegistryFile(a.registryPath, store.Entities(), a.now()); err != nil {
		return systemError(fmt.Errorf("save registry: %w", err))
	}
	a.logger.Debug("registry saved", "path", a.registryPath, "entities", store.Len())
	return nil
}

// mutate loads the store, applies fn and saves the result when fn succeeds.
func (a *app) mutate(fn func(*registry.Store) error) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	return a.saveStore(store)
}

// edit runs fn in an editing session over the loaded store and saves the
// result when fn succeeds.
func (a *app) edit(fn func(*registry.Session) error) error {
	return a.mutate(func(s *registry.Store) error {
		return fn(registry.NewSession(s))
	})
}

// openIndex loads the registry and builds a query index over it. The caller
// must Close the index.
func (a *app) openIndex(ctx context.Context) (*index.Index, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	ix, err := index.Open(ctx, store.Entities(), index.WithLogger(a.logger))
	if err != nil {
		return nil, systemError(err)
	}
	return ix, nil
}
