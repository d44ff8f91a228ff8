package engine

import (
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// maxResolveSteps bounds the tiers walked by one resolution. A validated
// catalog never comes close.
const maxResolveSteps = 1 << 12

// pendingWalk is a producible ingredient waiting for its own tier walk.
type pendingWalk struct {
	name      string
	perMinute float64
	ratio     float64
	prevTime  float64
}

// ResolveInputs executes the resolve_inputs tool logic.
func (e *Engine) ResolveInputs(req rates.ResolveInputsRequest) (*rates.ResolveInputsResponse, error) {
	path, err := e.UpgradePath(rates.UpgradePathRequest{Unit: req.Target})
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", req.Target, err)
	}

	ledger, err := e.Resolve(req.Target, req.RatePerMinute)
	if err != nil {
		return nil, err
	}

	return &rates.ResolveInputsResponse{
		Target:        req.Target,
		RatePerMinute: req.RatePerMinute,
		Path:          *path,
		Ledger:        ledger,
	}, nil
}

// Resolve expands a target rate, in units per minute, into the steady-state
// per-second rate of every resource the production network consumes. The
// ledger always carries rates.PowerKey.
//
// The upgrade chain is walked from the target towards its root. Each tier
// after the first scales the running ratio by the previous tier's build
// time over its own. Ingredients that are neither catalog resources nor raw
// leaves are pushed on a stack and walked later with the ratio and build
// time of the tier that consumed them, last pushed first.
func (e *Engine) Resolve(target string, ratePerMinute float64) (rates.Ledger, error) {
	ledger := rates.Ledger{rates.PowerKey: 0}

	stack := []pendingWalk{{name: target, perMinute: ratePerMinute, ratio: 1}}
	steps := 0

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		path, err := e.upgradePath(item.name)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", item.name, err)
		}

		rate := item.perMinute / 60
		ratio := item.ratio
		prevTime := item.prevTime

		for i, name := range path.FactoryNames {
			steps++
			if steps > maxResolveSteps {
				return nil, fmt.Errorf("resolving %q: more than %d tiers: %w", target, maxResolveSteps, rates.ErrCyclicDependency)
			}

			block, err := e.cat.FindBlock(name)
			if err != nil {
				return nil, fmt.Errorf("resolving %q: %w", item.name, err)
			}
			unit := path.Units[i]
			uf := block.UnitFactory
			buildTime := uf.TimeFor(unit)

			if prevTime > 0 {
				ratio *= prevTime / buildTime
			}
			ledger[rates.PowerKey] += block.Power * rate * ratio

			recipe := uf.Recipes[unit]
			for _, ing := range recipe.Names() {
				amount := recipe[ing]

				if e.cat.IsResourceName(ing) {
					divisor := buildTime
					if e.cat.IsContinuous(ing, block.World) {
						divisor = 1
					}
					ledger[ing] += amount * ratio * rate / divisor
					continue
				}

				effective := amount * ratio * rate / buildTime
				if _, ok := e.cat.FindUnitFactory(ing); ok {
					stack = append(stack, pendingWalk{
						name:      ing,
						perMinute: effective * 60,
						ratio:     ratio,
						prevTime:  buildTime,
					})
					continue
				}

				// Raw leaf
				ledger[ing] += effective
			}

			prevTime = buildTime
		}
	}

	return ledger, nil
}
