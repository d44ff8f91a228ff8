package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// UnitStore handles unit and priority table data access.
type UnitStore struct {
	db *DB
}

// NewUnitStore creates a new UnitStore.
func NewUnitStore(db *DB) *UnitStore {
	return &UnitStore{db: db}
}

// GetAllUnits retrieves every unit in catalog order.
func (s *UnitStore) GetAllUnits(ctx context.Context) ([]rates.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, world, image FROM units ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var units []rates.Unit
	for rows.Next() {
		var u rates.Unit
		if err := rows.Scan(&u.Name, &u.World, &u.Image); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		units = append(units, u)
	}

	return units, rows.Err()
}

// GetTiers retrieves the priority tiers of one world, tier 0 first. Tiers
// with no entries between populated ones come back empty.
func (s *UnitStore) GetTiers(ctx context.Context, world rates.World) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tier, resource FROM priorities
		WHERE world = ?
		ORDER BY tier, position
	`, int(world))
	if err != nil {
		return nil, fmt.Errorf("querying priorities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tiers [][]string
	for rows.Next() {
		var tier int
		var resource string
		if err := rows.Scan(&tier, &resource); err != nil {
			return nil, fmt.Errorf("scanning priority: %w", err)
		}
		for len(tiers) <= tier {
			tiers = append(tiers, []string{})
		}
		tiers[tier] = append(tiers[tier], resource)
	}

	return tiers, rows.Err()
}

// BulkInsertUnits inserts multiple units in a transaction.
func (s *UnitStore) BulkInsertUnits(ctx context.Context, units []rates.Unit) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		return insertUnits(ctx, tx, units)
	})
}

func insertUnits(ctx context.Context, tx *sql.Tx, units []rates.Unit) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO units (name, world, image, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing unit statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, u := range units {
		if _, err := stmt.ExecContext(ctx, u.Name, int(u.World), u.Image, i); err != nil {
			return fmt.Errorf("inserting unit %s: %w", u.Name, err)
		}
	}
	return nil
}

func insertTiers(ctx context.Context, tx *sql.Tx, world rates.World, tiers [][]string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO priorities (world, tier, position, resource)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing priority statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for tier, names := range tiers {
		for pos, name := range names {
			if _, err := stmt.ExecContext(ctx, int(world), tier, pos, name); err != nil {
				return fmt.Errorf("inserting priority %s: %w", name, err)
			}
		}
	}
	return nil
}

// ClearUnits removes all unit and priority data (for re-sync).
func (s *UnitStore) ClearUnits(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM units`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM priorities`)
		return err
	})
}
