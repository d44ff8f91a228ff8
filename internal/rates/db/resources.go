package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// ResourceStore handles resource data access.
type ResourceStore struct {
	db *DB
}

// NewResourceStore creates a new ResourceStore.
func NewResourceStore(db *DB) *ResourceStore {
	return &ResourceStore{db: db}
}

// GetAllResources retrieves every resource in catalog order with its
// configured producer list.
func (s *ResourceStore) GetAllResources(ctx context.Context) ([]rates.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, world, kind, image, minable, all_drills, gas, all_pumps
		FROM resources
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var resources []rates.Resource
	for rows.Next() {
		var r rates.Resource
		var kind string
		if err := rows.Scan(&r.Name, &r.World, &kind, &r.Image, &r.Minable, &r.AllDrills, &r.Gas, &r.AllPumps); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		r.Kind = rates.ResourceKind(kind)
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach producers
	producers, err := s.getAllProducers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		key := resourceKey{resources[i].Name, resources[i].World}
		resources[i].Producers = producers[key]
	}

	return resources, nil
}

type resourceKey struct {
	name  string
	world rates.World
}

// getAllProducers retrieves every producer list keyed by resource identity.
func (s *ResourceStore) getAllProducers(ctx context.Context) (map[resourceKey][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_name, world, block_name
		FROM resource_producers
		ORDER BY resource_name, world, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying resource producers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	producers := make(map[resourceKey][]string)
	for rows.Next() {
		var key resourceKey
		var block string
		if err := rows.Scan(&key.name, &key.world, &block); err != nil {
			return nil, fmt.Errorf("scanning resource producer: %w", err)
		}
		producers[key] = append(producers[key], block)
	}

	return producers, rows.Err()
}

// CountResources returns the number of stored resources.
func (s *ResourceStore) CountResources(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return count, nil
}

// BulkInsertResources inserts multiple resources in a transaction.
func (s *ResourceStore) BulkInsertResources(ctx context.Context, resources []rates.Resource) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		return insertResources(ctx, tx, resources)
	})
}

func insertResources(ctx context.Context, tx *sql.Tx, resources []rates.Resource) error {
	// Prepare statements
	resStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO resources
		(name, world, kind, image, minable, all_drills, gas, all_pumps, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing resource statement: %w", err)
	}
	defer func() { _ = resStmt.Close() }()

	prodStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO resource_producers (resource_name, world, position, block_name)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing producer statement: %w", err)
	}
	defer func() { _ = prodStmt.Close() }()

	for i, r := range resources {
		_, err := resStmt.ExecContext(ctx,
			r.Name, int(r.World), string(r.Kind), r.Image,
			r.Minable, r.AllDrills, r.Gas, r.AllPumps, i,
		)
		if err != nil {
			return fmt.Errorf("inserting resource %s: %w", r.Name, err)
		}

		for j, p := range r.Producers {
			if _, err := prodStmt.ExecContext(ctx, r.Name, int(r.World), j, p); err != nil {
				return fmt.Errorf("inserting producer for %s: %w", r.Name, err)
			}
		}
	}

	return nil
}

// ClearResources removes all resource data (for re-sync).
func (s *ResourceStore) ClearResources(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		// Foreign keys will cascade delete producers
		_, err := tx.ExecContext(ctx, `DELETE FROM resources`)
		return err
	})
}
