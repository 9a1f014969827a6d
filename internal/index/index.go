package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// Index is a read-only query view over a registry snapshot.
type Index struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used for load diagnostics. The default is
// silent.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// Open creates an in-memory database and loads entities into it. The caller
// must Close the index.
func Open(ctx context.Context, entities []types.Entity, opts ...Option) (*Index, error) {
	ix := &Index{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(ix)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating index schema: %w", err)
		}
	}

	if err := load(ctx, db, entities); err != nil {
		db.Close()
		return nil, err
	}
	ix.db = db
	ix.logger.Debug("index loaded", "entities", len(entities))
	return ix, nil
}

// Close releases the database.
func (ix *Index) Close() error {
	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}

// load inserts every entity in one transaction: all rows land or none do.
func load(ctx context.Context, db *sql.DB, entities []types.Entity) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	insEntity, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (ordinal, entity_id, name, type, status, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entity insert: %w", err)
	}
	defer insEntity.Close()

	insField, err := tx.PrepareContext(ctx,
		`INSERT INTO fields (entity_ordinal, ordinal, field_id, name, field_type, required, multi, target) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing field insert: %w", err)
	}
	defer insField.Close()

	insRel, err := tx.PrepareContext(ctx,
		`INSERT INTO relationships (entity_ordinal, ordinal, relationship_id, name, target, cardinality, required) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing relationship insert: %w", err)
	}
	defer insRel.Close()

	insExt, err := tx.PrepareContext(ctx,
		`INSERT INTO external_ids (entity_ordinal, external_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing external id insert: %w", err)
	}
	defer insExt.Close()

	for i, e := range entities {
		if _, err := insEntity.ExecContext(ctx, i, e.ID, e.Name, e.Type, string(e.Status),
			e.Description, e.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("loading entity %s: %w", e.ID, err)
		}
		for j, f := range e.Fields {
			if _, err := insField.ExecContext(ctx, i, j, f.ID, f.Name, string(f.Type),
				f.Required, f.Multi, f.Target); err != nil {
				return fmt.Errorf("loading field %s of %s: %w", f.ID, e.ID, err)
			}
		}
		for j, r := range e.Relationships {
			if _, err := insRel.ExecContext(ctx, i, j, r.ID, r.Name, r.Target,
				string(r.Cardinality), r.Required); err != nil {
				return fmt.Errorf("loading relationship %s of %s: %w", r.ID, e.ID, err)
			}
		}
		for _, ext := range e.ExternalIDs {
			if _, err := insExt.ExecContext(ctx, i, ext); err != nil {
				return fmt.Errorf("loading external id of %s: %w", e.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
