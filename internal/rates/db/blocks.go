package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// blockSpec is the kind-specific payload stored as JSON in blocks.spec.
type blockSpec struct {
	Pump        *rates.Pump        `json:"pump,omitempty"`
	Turret      *rates.Turret      `json:"turret,omitempty"`
	Generator   *rates.Generator   `json:"generator,omitempty"`
	Factory     *rates.Factory     `json:"factory,omitempty"`
	Drill       *rates.Drill       `json:"drill,omitempty"`
	UnitFactory *rates.UnitFactory `json:"unit_factory,omitempty"`
}

// BlockStore handles block data access.
type BlockStore struct {
	db *DB
}

// NewBlockStore creates a new BlockStore.
func NewBlockStore(db *DB) *BlockStore {
	return &BlockStore{db: db}
}

// GetBlock retrieves a single block by name.
// Returns nil if the block does not exist.
func (s *BlockStore) GetBlock(ctx context.Context, name string) (*rates.Block, error) {
	b := &rates.Block{Name: name}
	var kind, spec string

	err := s.db.QueryRowContext(ctx, `
		SELECT world, kind, power, image, spec
		FROM blocks WHERE name = ?
	`, name).Scan(&b.World, &kind, &b.Power, &b.Image, &spec)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying block: %w", err)
	}

	b.Kind = rates.BlockKind(kind)
	if err := decodeSpec(b, spec); err != nil {
		return nil, err
	}
	return b, nil
}

// GetAllBlocks retrieves every block in catalog order.
func (s *BlockStore) GetAllBlocks(ctx context.Context) ([]rates.Block, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, world, kind, power, image, spec
		FROM blocks
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []rates.Block
	for rows.Next() {
		var b rates.Block
		var kind, spec string
		if err := rows.Scan(&b.Name, &b.World, &kind, &b.Power, &b.Image, &spec); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		b.Kind = rates.BlockKind(kind)
		if err := decodeSpec(&b, spec); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	return blocks, rows.Err()
}

// ListBlocksByKind returns the names of every block of one kind, in catalog order.
func (s *BlockStore) ListBlocksByKind(ctx context.Context, kind rates.BlockKind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM blocks WHERE kind = ? ORDER BY position
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing blocks by kind: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning block name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// CountBlocks returns the number of stored blocks.
func (s *BlockStore) CountBlocks(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting blocks: %w", err)
	}
	return count, nil
}

// BulkInsertBlocks inserts multiple blocks in a transaction.
func (s *BlockStore) BulkInsertBlocks(ctx context.Context, blocks []rates.Block) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		return insertBlocks(ctx, tx, blocks)
	})
}

func insertBlocks(ctx context.Context, tx *sql.Tx, blocks []rates.Block) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO blocks (name, world, kind, power, image, spec, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing block statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, b := range blocks {
		spec, err := json.Marshal(blockSpec{
			Pump:        b.Pump,
			Turret:      b.Turret,
			Generator:   b.Generator,
			Factory:     b.Factory,
			Drill:       b.Drill,
			UnitFactory: b.UnitFactory,
		})
		if err != nil {
			return fmt.Errorf("encoding block %s: %w", b.Name, err)
		}

		_, err = stmt.ExecContext(ctx, b.Name, int(b.World), string(b.Kind), b.Power, b.Image, string(spec), i)
		if err != nil {
			return fmt.Errorf("inserting block %s: %w", b.Name, err)
		}
	}

	return nil
}

// ClearBlocks removes all block data (for re-sync).
func (s *BlockStore) ClearBlocks(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM blocks`)
		return err
	})
}

func decodeSpec(b *rates.Block, spec string) error {
	var p blockSpec
	if err := json.Unmarshal([]byte(spec), &p); err != nil {
		return fmt.Errorf("decoding block %s: %w", b.Name, err)
	}
	b.Pump = p.Pump
	b.Turret = p.Turret
	b.Generator = p.Generator
	b.Factory = p.Factory
	b.Drill = p.Drill
	b.UnitFactory = p.UnitFactory
	return nil
}
