// Package sync imports catalog configuration into the database.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/catalog"
	"github.com/nemo-from-greece/Mindycalc2/internal/rates/db"
)

// Metadata keys written after each import.
const (
	KeyLastSync  = "catalog_last_sync"
	KeySource    = "catalog_source"
	KeyBlocks    = "catalog_blocks"
	KeyResources = "catalog_resources"
	KeyUnits     = "catalog_units"
)

// DefaultSource is recorded as the source of the bundled catalog.
const DefaultSource = "embedded:default.yaml"

// Syncer handles catalog imports into the database.
type Syncer struct {
	db    *db.DB
	store *db.CatalogStore
}

// NewSyncer creates a new Syncer.
func NewSyncer(database *db.DB) *Syncer {
	return &Syncer{db: database, store: db.NewCatalogStore(database)}
}

// Result summarises one import.
type Result struct {
	Source     string
	Blocks     int
	Resources  int
	Units      int
	Unresolved []string
}

// ImportCatalogFromFile validates a JSON or YAML catalog file and replaces
// the stored catalog with it. Nothing is written if validation fails.
func (s *Syncer) ImportCatalogFromFile(ctx context.Context, path string) (*Result, error) {
	cfg, err := catalog.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return s.ImportConfig(ctx, path, cfg)
}

// ImportDefault replaces the stored catalog with the bundled game data.
func (s *Syncer) ImportDefault(ctx context.Context) (*Result, error) {
	cfg, err := catalog.DefaultConfig()
	if err != nil {
		return nil, err
	}
	return s.ImportConfig(ctx, DefaultSource, cfg)
}

// ImportConfig validates cfg and replaces the stored catalog with it.
func (s *Syncer) ImportConfig(ctx context.Context, source string, cfg catalog.Config) (*Result, error) {
	// Validate before touching the database
	cat, err := catalog.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", source, err)
	}

	if err := s.store.ReplaceConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("storing catalog: %w", err)
	}

	res := &Result{
		Source:     source,
		Blocks:     len(cfg.Blocks),
		Resources:  len(cfg.Resources),
		Units:      len(cfg.Units),
		Unresolved: cat.UnresolvedProducers(),
	}

	// Update sync metadata
	meta := []struct{ key, value string }{
		{KeyLastSync, time.Now().Format(time.RFC3339)},
		{KeySource, source},
		{KeyBlocks, fmt.Sprintf("%d", res.Blocks)},
		{KeyResources, fmt.Sprintf("%d", res.Resources)},
		{KeyUnits, fmt.Sprintf("%d", res.Units)},
	}
	for _, m := range meta {
		if err := s.db.SetSyncMetadata(ctx, m.key, m.value); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// EnsureSeeded imports the bundled catalog when the database holds none.
// It reports whether an import happened.
func (s *Syncer) EnsureSeeded(ctx context.Context) (bool, error) {
	empty, err := s.store.IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}
	if _, err := s.ImportDefault(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// LoadCatalog builds a catalog from the stored configuration.
func (s *Syncer) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return s.store.LoadCatalog(ctx)
}
