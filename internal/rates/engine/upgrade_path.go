package engine

import (
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// UpgradePath executes the upgrade_path tool logic. The name must be a
// catalog unit or something a unit factory builds.
func (e *Engine) UpgradePath(req rates.UpgradePathRequest) (*rates.UpgradePath, error) {
	if _, err := e.cat.FindUnit(req.Unit); err != nil {
		if _, ok := e.cat.FindUnitFactory(req.Unit); !ok {
			return nil, err
		}
	}

	path, err := e.upgradePath(req.Unit)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// upgradePath returns a private copy of the memoised path for name.
func (e *Engine) upgradePath(name string) (rates.UpgradePath, error) {
	if p, ok := e.paths.Get(name); ok {
		return clonePath(p), nil
	}

	p, err := e.walkUpgradePath(name)
	if err != nil {
		return rates.UpgradePath{}, err
	}
	e.paths.Add(name, p)
	return clonePath(p), nil
}

// walkUpgradePath follows predecessors from name to the root. Factories[i]
// builds Units[i]. A unit no factory builds ends the walk as an unverified
// root.
func (e *Engine) walkUpgradePath(name string) (rates.UpgradePath, error) {
	p := rates.UpgradePath{Units: []string{name}}
	visited := map[string]bool{name: true}

	current := name
	for {
		uf, ok := e.cat.FindUnitFactory(current)
		if !ok {
			p.End = rates.EndUnverified
			return p, nil
		}
		p.Factories = append(p.Factories, uf.UnitFactory)
		p.FactoryNames = append(p.FactoryNames, uf.Name)

		prev := uf.UnitFactory.Tree[current]
		if prev == "" {
			p.End = rates.EndRoot
			return p, nil
		}
		if visited[prev] {
			return rates.UpgradePath{}, fmt.Errorf("upgrade chain of %q returns to %q: %w", name, prev, rates.ErrCyclicDependency)
		}
		visited[prev] = true
		p.Units = append(p.Units, prev)
		current = prev
	}
}

func clonePath(p rates.UpgradePath) rates.UpgradePath {
	return rates.UpgradePath{
		Units:        append([]string(nil), p.Units...),
		Factories:    append([]*rates.UnitFactory(nil), p.Factories...),
		FactoryNames: append([]string(nil), p.FactoryNames...),
		End:          p.End,
	}
}
