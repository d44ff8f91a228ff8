package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/catalog"
	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// CatalogStore reads and replaces a whole catalog configuration.
type CatalogStore struct {
	db        *DB
	resources *ResourceStore
	blocks    *BlockStore
	units     *UnitStore
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{
		db:        db,
		resources: NewResourceStore(db),
		blocks:    NewBlockStore(db),
		units:     NewUnitStore(db),
	}
}

// Resources returns the underlying resource store.
func (s *CatalogStore) Resources() *ResourceStore { return s.resources }

// Blocks returns the underlying block store.
func (s *CatalogStore) Blocks() *BlockStore { return s.blocks }

// Units returns the underlying unit store.
func (s *CatalogStore) Units() *UnitStore { return s.units }

// LoadConfig reads the stored configuration.
func (s *CatalogStore) LoadConfig(ctx context.Context) (catalog.Config, error) {
	var cfg catalog.Config
	var err error

	if cfg.Resources, err = s.resources.GetAllResources(ctx); err != nil {
		return catalog.Config{}, err
	}
	if cfg.Blocks, err = s.blocks.GetAllBlocks(ctx); err != nil {
		return catalog.Config{}, err
	}
	if cfg.Units, err = s.units.GetAllUnits(ctx); err != nil {
		return catalog.Config{}, err
	}
	if cfg.Priorities.Serpulo, err = s.units.GetTiers(ctx, rates.Serpulo); err != nil {
		return catalog.Config{}, err
	}
	if cfg.Priorities.Erekir, err = s.units.GetTiers(ctx, rates.Erekir); err != nil {
		return catalog.Config{}, err
	}

	return cfg, nil
}

// LoadCatalog reads and validates the stored configuration.
func (s *CatalogStore) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg, err := s.LoadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog config: %w", err)
	}
	return catalog.New(cfg)
}

// ReplaceConfig clears the stored catalog and writes cfg in one transaction.
func (s *CatalogStore) ReplaceConfig(ctx context.Context, cfg catalog.Config) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"resource_producers", "resources", "blocks", "units", "priorities"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		if err := insertBlocks(ctx, tx, cfg.Blocks); err != nil {
			return err
		}
		if err := insertResources(ctx, tx, cfg.Resources); err != nil {
			return err
		}
		if err := insertUnits(ctx, tx, cfg.Units); err != nil {
			return err
		}
		if err := insertTiers(ctx, tx, rates.Serpulo, cfg.Priorities.Serpulo); err != nil {
			return err
		}
		return insertTiers(ctx, tx, rates.Erekir, cfg.Priorities.Erekir)
	})
}

// IsEmpty reports whether no blocks or resources are stored.
func (s *CatalogStore) IsEmpty(ctx context.Context) (bool, error) {
	blocks, err := s.blocks.CountBlocks(ctx)
	if err != nil {
		return false, err
	}
	resources, err := s.resources.CountResources(ctx)
	if err != nil {
		return false, err
	}
	return blocks == 0 && resources == 0, nil
}
