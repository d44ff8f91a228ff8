package catalog

import (
	"fmt"
	"strings"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// FindResource returns the resource with the given name on the given world.
func (c *Catalog) FindResource(name string, world rates.World) (*rates.Resource, error) {
	r, ok := c.resourceIdx[resourceKey{name, world}]
	if !ok {
		return nil, fmt.Errorf("resource %q on %s: %w", name, world, rates.ErrNotFound)
	}
	return r, nil
}

// FindResourceByName returns the first resource in catalog order with the
// given name, whatever its world.
func (c *Catalog) FindResourceByName(name string) (*rates.Resource, error) {
	for _, r := range c.resources {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("resource %q: %w", name, rates.ErrNotFound)
}

// FindResourceKind reports whether the first resource named name is an item
// or a fluid.
func (c *Catalog) FindResourceKind(name string) (rates.ResourceKind, error) {
	r, err := c.FindResourceByName(name)
	if err != nil {
		return "", err
	}
	return r.Kind, nil
}

// IsResourceName reports whether any world has a resource with this name.
func (c *Catalog) IsResourceName(name string) bool {
	_, err := c.FindResourceByName(name)
	return err == nil
}

// FindBlock returns the block with the given name.
func (c *Catalog) FindBlock(name string) (*rates.Block, error) {
	b, ok := c.blockIdx[name]
	if !ok {
		return nil, fmt.Errorf("block %q: %w", name, rates.ErrNotFound)
	}
	return b, nil
}

// FindUnit returns the unit with the given name.
func (c *Catalog) FindUnit(name string) (*rates.Unit, error) {
	u, ok := c.unitIdx[name]
	if !ok {
		return nil, fmt.Errorf("unit %q: %w", name, rates.ErrNotFound)
	}
	return u, nil
}

// FindUnitFactory returns the first unit factory, in catalog order, whose
// tree contains name. The second result is false when nothing builds it.
func (c *Catalog) FindUnitFactory(name string) (*rates.Block, bool) {
	for _, b := range c.blocks {
		if b.UnitFactory != nil && b.UnitFactory.Produces(name) {
			return b, true
		}
	}
	return nil, false
}

// FindProducers returns the blocks named in a resource's producer list, in
// block catalog order. With rates.AllWorlds the lists of every resource
// sharing the name are concatenated; duplicates are kept.
func (c *Catalog) FindProducers(resource string, world rates.World) ([]*rates.Block, error) {
	var entries []*rates.Resource
	if world == rates.AllWorlds {
		for _, r := range c.resources {
			if r.Name == resource {
				entries = append(entries, r)
			}
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("resource %q: %w", resource, rates.ErrNotFound)
		}
	} else {
		r, err := c.FindResource(resource, world)
		if err != nil {
			return nil, err
		}
		entries = append(entries, r)
	}

	var out []*rates.Block
	for _, r := range entries {
		names := make(map[string]bool, len(r.Producers))
		for _, p := range r.Producers {
			names[p] = true
		}
		for _, b := range c.blocks {
			if names[b.Name] {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// IsContinuous reports whether a recipe entry is a continuous flow rather
// than a count of discrete items: any fluid, plus heat and power. The
// resource is looked up on world first, then by name alone.
func (c *Catalog) IsContinuous(name string, world rates.World) bool {
	if strings.EqualFold(name, "heat") || strings.EqualFold(name, rates.PowerKey) {
		return true
	}
	if r, ok := c.resourceIdx[resourceKey{name, world}]; ok {
		return r.Kind == rates.KindFluid
	}
	if r, err := c.FindResourceByName(name); err == nil {
		return r.Kind == rates.KindFluid
	}
	return false
}
