package engine

import (
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// FindProducers executes the find_producers tool logic. Each producer is
// annotated with the resource's priority tier on the requested world.
func (e *Engine) FindProducers(req rates.FindProducersRequest) (*rates.FindProducersResponse, error) {
	world, err := rates.ParseWorld(req.World)
	if err != nil {
		return nil, err
	}

	blocks, err := e.cat.FindProducers(req.Resource, world)
	if err != nil {
		return nil, err
	}

	tier := e.cat.TierOf(world, req.Resource)
	resp := &rates.FindProducersResponse{
		Resource:  req.Resource,
		World:     world,
		Producers: make([]rates.ProducerInfo, 0, len(blocks)),
	}
	for _, b := range blocks {
		resp.Producers = append(resp.Producers, rates.ProducerInfo{
			Name:  b.Name,
			World: b.World,
			Kind:  b.Kind,
			Tier:  tier,
		})
	}
	return resp, nil
}

// PriorityTiers executes the priority_tiers tool logic.
func (e *Engine) PriorityTiers(req rates.PriorityTiersRequest) (*rates.PriorityTiersResponse, error) {
	world, err := rates.ParseWorld(req.World)
	if err != nil {
		return nil, err
	}

	resp := &rates.PriorityTiersResponse{
		World: world,
		Tiers: e.cat.Tiers(world),
	}
	if req.Resource != "" {
		tier := e.cat.TierOf(world, req.Resource)
		resp.Tier = &tier
	}
	return resp, nil
}

// CatalogLookup executes the catalog_lookup tool logic. A name may match
// resources, a block and a unit at once; every match is returned.
func (e *Engine) CatalogLookup(req rates.CatalogLookupRequest) (*rates.CatalogLookupResponse, error) {
	world, err := rates.ParseWorld(req.World)
	if err != nil {
		return nil, err
	}

	resp := &rates.CatalogLookupResponse{}

	if world == rates.AllWorlds {
		for _, r := range e.cat.Resources() {
			if r.Name == req.Name {
				resp.Resources = append(resp.Resources, *r)
			}
		}
	} else if r, err := e.cat.FindResource(req.Name, world); err == nil {
		resp.Resources = append(resp.Resources, *r)
	}

	if b, err := e.cat.FindBlock(req.Name); err == nil {
		resp.Block = b
	}
	if u, err := e.cat.FindUnit(req.Name); err == nil {
		resp.Unit = u
	}
	if uf, ok := e.cat.FindUnitFactory(req.Name); ok {
		resp.BuiltBy = uf.Name
	}

	if len(resp.Resources) == 0 && resp.Block == nil && resp.Unit == nil && resp.BuiltBy == "" {
		return nil, fmt.Errorf("%q: %w", req.Name, rates.ErrNotFound)
	}
	return resp, nil
}
