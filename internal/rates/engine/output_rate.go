package engine

import (
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// OutputRate executes the output_rate tool logic.
func (e *Engine) OutputRate(req rates.OutputRateRequest) (*rates.OutputRateResponse, error) {
	b, err := e.lookupKind(req.Block, rates.KindFactory, rates.KindDrill, rates.KindGenerator)
	if err != nil {
		return nil, err
	}

	var sides rates.RateSides
	switch b.Kind {
	case rates.KindFactory:
		sides, err = e.FactoryOutputRate(b, req.Heat)
	case rates.KindDrill:
		sides, err = e.DrillOutputRate(b, req.Coolant)
	case rates.KindGenerator:
		sides, err = e.GeneratorOutputRate(b, req.Variant)
	}
	if err != nil {
		return nil, err
	}

	return &rates.OutputRateResponse{Block: b.Name, RateSides: sides}, nil
}

// FactoryOutputRate scales a factory's recipe to per-second rates. Discrete
// items become items per second; continuous flows are multiplied by the
// heat multiplier.
func (e *Engine) FactoryOutputRate(b *rates.Block, heat float64) (rates.RateSides, error) {
	f := b.Factory
	if f == nil {
		return rates.RateSides{}, fmt.Errorf("block %q is a %s: %w", b.Name, b.Kind, rates.ErrWrongKind)
	}

	multiplier := 1.0
	if f.HeatScaling != nil && heat > 0 {
		m, err := e.heatMultiplier(b, heat)
		if err != nil {
			return rates.RateSides{}, err
		}
		multiplier = m
	}
	return e.scaleSides(b.World, f, multiplier), nil
}

// DrillOutputRate scales a drill's extraction speeds over its fixed cycle.
// A matching coolant multiplies every output by the boost and adds its feed
// to the inputs.
func (e *Engine) DrillOutputRate(b *rates.Block, coolant string) (rates.RateSides, error) {
	d := b.Drill
	if d == nil {
		return rates.RateSides{}, fmt.Errorf("block %q is a %s: %w", b.Name, b.Kind, rates.ErrWrongKind)
	}

	sides := e.scaleSides(b.World, d.AsFactory(), 1)
	if c := d.Coolant; c != nil && coolant != "" && coolant == c.Resource {
		for name, v := range sides.Outputs {
			sides.Outputs[name] = v * c.Boost
		}
		sides.Inputs[c.Resource] += c.FeedRate
	}
	return sides, nil
}

// GeneratorOutputRate scales one fuel variant of a generator over its
// production time.
func (e *Engine) GeneratorOutputRate(b *rates.Block, variant int) (rates.RateSides, error) {
	g := b.Generator
	if g == nil {
		return rates.RateSides{}, fmt.Errorf("block %q is a %s: %w", b.Name, b.Kind, rates.ErrWrongKind)
	}
	if variant < 0 || variant >= len(g.Variants) {
		return rates.RateSides{}, fmt.Errorf("generator %q has %d variants, no variant %d: %w", b.Name, len(g.Variants), variant, rates.ErrNotFound)
	}

	v := g.Variants[variant]
	f := &rates.Factory{Inputs: v.Inputs, Outputs: v.Outputs, Time: g.ProductionTime}
	return e.scaleSides(b.World, f, 1), nil
}

func (e *Engine) scaleSides(world rates.World, f *rates.Factory, multiplier float64) rates.RateSides {
	effectiveTime := f.Time / multiplier
	return rates.RateSides{
		Inputs:  e.scaleRecipe(world, f.Inputs, multiplier, effectiveTime),
		Outputs: e.scaleRecipe(world, f.Outputs, multiplier, effectiveTime),
	}
}

func (e *Engine) scaleRecipe(world rates.World, recipe rates.Recipe, multiplier, effectiveTime float64) rates.Recipe {
	out := make(rates.Recipe, len(recipe))
	for _, name := range recipe.Names() {
		value := recipe[name]
		if e.cat.IsContinuous(name, world) {
			out[name] = value * multiplier
		} else {
			out[name] = TicksPerSecond * value / effectiveTime
		}
	}
	return out
}

// RequiredFactories executes the required_factories tool logic.
func (e *Engine) RequiredFactories(req rates.RequiredFactoriesRequest) (*rates.RequiredFactoriesResponse, error) {
	b, err := e.lookupKind(req.Block, rates.KindFactory, rates.KindDrill)
	if err != nil {
		return nil, err
	}

	resource, count, err := e.FactoryCount(b, req.Rate, req.Resource)
	if err != nil {
		return nil, err
	}

	return &rates.RequiredFactoriesResponse{
		Block:    b.Name,
		Resource: resource,
		Rate:     req.Rate,
		Count:    count,
	}, nil
}

// FactoryCount returns how many instances of a factory or drill sustain the
// target output rate of one resource. The resource may be left empty for a
// single-output block; the resolved name is returned.
func (e *Engine) FactoryCount(b *rates.Block, target float64, resource string) (string, float64, error) {
	var f *rates.Factory
	switch {
	case b.Factory != nil:
		f = b.Factory
	case b.Drill != nil:
		f = b.Drill.AsFactory()
	default:
		return "", 0, fmt.Errorf("block %q is a %s: %w", b.Name, b.Kind, rates.ErrWrongKind)
	}

	outputs := f.Outputs
	if resource == "" {
		if len(outputs) != 1 {
			return "", 0, fmt.Errorf("block %q has %d outputs, name one: %w", b.Name, len(outputs), rates.ErrAmbiguousOutput)
		}
		for name := range outputs {
			resource = name
		}
	}

	perFactory, ok := outputs[resource]
	if !ok {
		return "", 0, fmt.Errorf("%q from block %q: %w", resource, b.Name, rates.ErrNotProduced)
	}
	if perFactory == 0 {
		return "", 0, fmt.Errorf("block %q makes no %q per cycle: %w", b.Name, resource, rates.ErrUndefinedRate)
	}

	if e.cat.IsContinuous(resource, b.World) {
		return resource, target / perFactory, nil
	}
	return resource, target * f.Time / (perFactory * TicksPerSecond), nil
}
