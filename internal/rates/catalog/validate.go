package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// validator collects every problem found while building a catalog.
type validator struct {
	errs []error
}

func (v *validator) add(err error) {
	v.errs = append(v.errs, err)
}

func (v *validator) addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", rates.ErrInvalidCatalog, errors.Join(v.errs...))
}

func (v *validator) checkResource(r *rates.Resource) {
	if r.Name == "" {
		v.addf("resource with empty name")
	}
	switch r.World {
	case rates.Serpulo, rates.Erekir:
	default:
		v.addf("resource %q: world must be serpulo or erekir", r.Name)
	}
	switch r.Kind {
	case rates.KindItem, rates.KindFluid:
	default:
		v.addf("resource %q: unknown kind %q", r.Name, r.Kind)
	}
}

// checkBlock verifies a block carries exactly the payload its kind names and
// that its cycle times can divide.
func (v *validator) checkBlock(b *rates.Block) {
	if b.Name == "" {
		v.addf("block with empty name")
		return
	}

	payloads := map[rates.BlockKind]bool{
		rates.KindPump:        b.Pump != nil,
		rates.KindTurret:      b.Turret != nil,
		rates.KindGenerator:   b.Generator != nil,
		rates.KindFactory:     b.Factory != nil,
		rates.KindDrill:       b.Drill != nil,
		rates.KindUnitFactory: b.UnitFactory != nil,
	}
	if _, known := payloads[b.Kind]; !known && b.Kind != rates.KindBlock {
		v.addf("block %q: unknown kind %q", b.Name, b.Kind)
		return
	}
	for kind, set := range payloads {
		if set && kind != b.Kind {
			v.addf("block %q: kind %s carries a %s payload", b.Name, b.Kind, kind)
		}
		if !set && kind == b.Kind {
			v.addf("block %q: kind %s has no %s payload", b.Name, b.Kind, kind)
		}
	}

	switch {
	case b.Factory != nil:
		if b.Factory.Time <= 0 {
			v.addf("factory %q: time must be positive", b.Name)
		}
	case b.Generator != nil:
		if b.Generator.ProductionTime <= 0 {
			v.addf("generator %q: production time must be positive", b.Name)
		}
		if len(b.Generator.Variants) == 0 {
			v.addf("generator %q: no recipe variants", b.Name)
		}
	case b.Turret != nil:
		if b.Turret.ReloadTime < 0 || b.Turret.IntraBurstDelay < 0 || b.Turret.Burst < 0 {
			v.addf("turret %q: negative timing", b.Name)
		}
		for name, a := range b.Turret.Ammo {
			if a.AmmoPerShot <= 0 {
				v.addf("turret %q: ammo %q must give a positive ammo per shot", b.Name, name)
			}
		}
	case b.UnitFactory != nil:
		v.checkUnitFactory(b.Name, b.UnitFactory)
	}
}

func (v *validator) checkUnitFactory(name string, uf *rates.UnitFactory) {
	for _, unit := range sortedKeys(uf.Tree) {
		if _, ok := uf.Recipes[unit]; !ok {
			v.addf("unit factory %q: %q is in the tree but has no recipe", name, unit)
		}
		if uf.TimeFor(unit) <= 0 {
			v.addf("unit factory %q: build time for %q must be positive", name, unit)
		}
	}
	for _, unit := range sortedKeys(uf.Recipes) {
		if _, ok := uf.Tree[unit]; !ok {
			v.addf("unit factory %q: %q has a recipe but is not in the tree", name, unit)
		}
	}
}

func (v *validator) checkPriorities(p Priorities) {
	for world, tiers := range map[rates.World][][]string{rates.Serpulo: p.Serpulo, rates.Erekir: p.Erekir} {
		seen := make(map[string]int)
		for i, tier := range tiers {
			for _, name := range tier {
				if prev, dup := seen[name]; dup {
					v.addf("priorities %s: %q listed in tier %d and tier %d", world, name, prev, i)
					continue
				}
				seen[name] = i
			}
		}
	}
}

// checkAcyclic walks the dependency graph of producible names: each name
// depends on its predecessor in the upgrade tree and on every recipe
// ingredient that is itself producible and not a resource.
func (c *Catalog) checkAcyclic() error {
	var roots []string
	for _, b := range c.blocks {
		if b.UnitFactory != nil {
			roots = append(roots, sortedKeys(b.UnitFactory.Tree)...)
		}
	}

	visited := make(map[string]bool)
	pathStack := make(map[string]bool)

	var dfs func(name string, trail []string) error
	dfs = func(name string, trail []string) error {
		if pathStack[name] {
			return fmt.Errorf("%w: %v -> %s", rates.ErrCyclicDependency, trail, name)
		}
		if visited[name] {
			return nil
		}

		uf, ok := c.FindUnitFactory(name)
		if !ok {
			return nil
		}

		visited[name] = true
		pathStack[name] = true
		trail = append(trail, name)

		if prev := uf.UnitFactory.Tree[name]; prev != "" {
			if err := dfs(prev, trail); err != nil {
				return err
			}
		}
		for _, ing := range uf.UnitFactory.Recipes[name].Names() {
			if c.IsResourceName(ing) {
				continue
			}
			if err := dfs(ing, trail); err != nil {
				return err
			}
		}

		delete(pathStack, name)
		return nil
	}

	for _, name := range roots {
		if err := dfs(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
