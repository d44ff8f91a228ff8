// Package engine contains the production-rate business logic: rate
// formulas, the unit upgrade resolver and the input-rate resolver.
package engine

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/catalog"
	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// pathCacheSize bounds the memoised upgrade paths. The default catalog has
// about seventy producible names.
const pathCacheSize = 512

// Engine answers rate queries over one catalog. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	cat   *catalog.Catalog
	paths *lru.Cache[string, rates.UpgradePath]
}

// New creates a new Engine over the given catalog.
func New(cat *catalog.Catalog) *Engine {
	paths, err := lru.New[string, rates.UpgradePath](pathCacheSize)
	if err != nil {
		// Only a non-positive size fails
		panic(fmt.Sprintf("creating path cache: %v", err))
	}
	return &Engine{cat: cat, paths: paths}
}

// Catalog returns the catalog the engine resolves against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// lookupKind returns the named block, failing unless it has the given kind.
func (e *Engine) lookupKind(name string, kinds ...rates.BlockKind) (*rates.Block, error) {
	b, err := e.cat.FindBlock(name)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if b.Kind == k {
			return b, nil
		}
	}
	return nil, fmt.Errorf("block %q is a %s, want %v: %w", name, b.Kind, kinds, rates.ErrWrongKind)
}
