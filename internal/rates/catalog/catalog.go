// Package catalog holds the immutable resource, block and unit records the
// engine resolves against.
package catalog

import (
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/scaling"
	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// Config is the static description a catalog is built from. Records may
// appear in any order.
type Config struct {
	Resources  []rates.Resource `json:"resources" yaml:"resources"`
	Blocks     []rates.Block    `json:"blocks" yaml:"blocks"`
	Units      []rates.Unit     `json:"units" yaml:"units"`
	Priorities Priorities       `json:"priorities" yaml:"priorities"`
}

// Priorities holds the ordered resource tiers of each world, tier 0 first.
type Priorities struct {
	Serpulo [][]string `json:"serpulo" yaml:"serpulo"`
	Erekir  [][]string `json:"erekir" yaml:"erekir"`
}

type resourceKey struct {
	name  string
	world rates.World
}

// Catalog is the read-only view over a validated Config. It is safe for
// concurrent use; nothing in it changes after New returns.
type Catalog struct {
	resources   []*rates.Resource
	resourceIdx map[resourceKey]*rates.Resource

	blocks   []*rates.Block
	blockIdx map[string]*rates.Block

	units   []*rates.Unit
	unitIdx map[string]*rates.Unit

	rules      map[string]*scaling.Rule
	priorities map[rates.World][][]string
	unresolved []string
}

// New validates cfg and builds a catalog from it. All validation problems
// are reported together, wrapped in rates.ErrInvalidCatalog. The catalog
// takes ownership of the maps inside cfg.
func New(cfg Config) (*Catalog, error) {
	c := &Catalog{
		resourceIdx: make(map[resourceKey]*rates.Resource, len(cfg.Resources)),
		blockIdx:    make(map[string]*rates.Block, len(cfg.Blocks)),
		unitIdx:     make(map[string]*rates.Unit, len(cfg.Units)),
		rules:       make(map[string]*scaling.Rule),
		priorities: map[rates.World][][]string{
			rates.Serpulo: cfg.Priorities.Serpulo,
			rates.Erekir:  cfg.Priorities.Erekir,
		},
	}

	v := &validator{}

	// Blocks first: the resource expansions below read them
	for i := range cfg.Blocks {
		b := cfg.Blocks[i]
		normalizeBlock(&b)
		if _, dup := c.blockIdx[b.Name]; dup {
			v.addf("duplicate block %q", b.Name)
			continue
		}
		v.checkBlock(&b)
		if hs := heatScaling(&b); hs != nil {
			rule, err := scaling.Compile(*hs)
			if err != nil {
				v.add(fmt.Errorf("block %q: %w", b.Name, err))
			} else {
				c.rules[b.Name] = rule
			}
		}
		c.blocks = append(c.blocks, &b)
		c.blockIdx[b.Name] = &b
	}

	for i := range cfg.Resources {
		r := cfg.Resources[i]
		key := resourceKey{r.Name, r.World}
		if _, dup := c.resourceIdx[key]; dup {
			v.addf("duplicate resource %q on %s", r.Name, r.World)
			continue
		}
		v.checkResource(&r)
		r.Producers = c.expandProducers(&r)
		c.resources = append(c.resources, &r)
		c.resourceIdx[key] = &r
	}

	for i := range cfg.Units {
		u := cfg.Units[i]
		if _, dup := c.unitIdx[u.Name]; dup {
			v.addf("duplicate unit %q", u.Name)
			continue
		}
		if u.Name == "" {
			v.addf("unit with empty name")
			continue
		}
		c.units = append(c.units, &u)
		c.unitIdx[u.Name] = &u
	}

	v.checkPriorities(cfg.Priorities)

	// The dependency graph is only meaningful once every record is indexed
	if err := c.checkAcyclic(); err != nil {
		v.add(err)
	}

	if err := v.err(); err != nil {
		return nil, err
	}

	c.unresolved = c.findUnresolved()
	return c, nil
}

// normalizeBlock applies the defaults a block record may omit.
func normalizeBlock(b *rates.Block) {
	if t := b.Turret; t != nil {
		if t.Burst == 0 {
			t.Burst = 1
		}
		if t.AmmoUse == 0 {
			t.AmmoUse = 1
		}
		if t.FluidAmmo {
			t.Coolant = nil
		}
	}
}

func heatScaling(b *rates.Block) *rates.HeatScaling {
	switch {
	case b.Turret != nil:
		return b.Turret.HeatScaling
	case b.Factory != nil:
		return b.Factory.HeatScaling
	}
	return nil
}

// expandProducers appends every same-world drill or pump to a resource that
// asks for it.
func (c *Catalog) expandProducers(r *rates.Resource) []string {
	producers := append([]string(nil), r.Producers...)
	var want rates.BlockKind
	switch {
	case r.Kind == rates.KindItem && r.Minable && r.AllDrills:
		want = rates.KindDrill
	case r.Kind == rates.KindFluid && r.AllPumps:
		want = rates.KindPump
	default:
		return producers
	}
	for _, b := range c.blocks {
		if b.Kind == want && b.World == r.World {
			producers = append(producers, b.Name)
		}
	}
	return producers
}

// findUnresolved lists producer names that match no block.
func (c *Catalog) findUnresolved() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range c.resources {
		for _, p := range r.Producers {
			if _, ok := c.blockIdx[p]; ok || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// UnresolvedProducers returns the producer names, in first-seen order, that
// no block in the catalog carries. They are kept on the resource but skipped
// by producer discovery.
func (c *Catalog) UnresolvedProducers() []string {
	return append([]string(nil), c.unresolved...)
}

// Resources returns every resource in catalog order.
func (c *Catalog) Resources() []*rates.Resource {
	return append([]*rates.Resource(nil), c.resources...)
}

// Blocks returns every block in catalog order.
func (c *Catalog) Blocks() []*rates.Block {
	return append([]*rates.Block(nil), c.blocks...)
}

// Units returns every unit in catalog order.
func (c *Catalog) Units() []*rates.Unit {
	return append([]*rates.Unit(nil), c.units...)
}

// Rule returns the compiled heat-scaling rule of a block, or nil.
func (c *Catalog) Rule(block string) *scaling.Rule {
	return c.rules[block]
}

// Config rebuilds the configuration the catalog was constructed from, with
// defaults applied. Producer lists are returned as configured, without the
// drill and pump expansion.
func (c *Catalog) Config() Config {
	cfg := Config{
		Priorities: Priorities{
			Serpulo: c.priorities[rates.Serpulo],
			Erekir:  c.priorities[rates.Erekir],
		},
	}
	for _, b := range c.blocks {
		cfg.Blocks = append(cfg.Blocks, *b)
	}
	for _, r := range c.resources {
		rc := *r
		rc.Producers = c.configuredProducers(r)
		cfg.Resources = append(cfg.Resources, rc)
	}
	for _, u := range c.units {
		cfg.Units = append(cfg.Units, *u)
	}
	return cfg
}

// configuredProducers strips the expansion appended by expandProducers.
func (c *Catalog) configuredProducers(r *rates.Resource) []string {
	probe := *r
	probe.Producers = nil
	expanded := len(c.expandProducers(&probe))
	out := r.Producers[:len(r.Producers)-expanded]
	return append([]string(nil), out...)
}
