package engine

import (
	"fmt"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// TicksPerSecond converts reload and cycle times to seconds.
const TicksPerSecond = 60

// FireRate executes the fire_rate tool logic.
func (e *Engine) FireRate(req rates.FireRateRequest) (*rates.FireRateResponse, error) {
	b, err := e.lookupKind(req.Turret, rates.KindTurret)
	if err != nil {
		return nil, err
	}

	t := b.Turret
	ammo := req.Ammo
	discrete := t.UsesDiscreteAmmo()
	if discrete && ammo == "" {
		// A single-entry table leaves nothing to choose
		if len(t.Ammo) != 1 {
			return nil, fmt.Errorf("turret %q takes %d ammo types, name one: %w", b.Name, len(t.Ammo), rates.ErrAmbiguousOutput)
		}
		for name := range t.Ammo {
			ammo = name
		}
	}
	if !discrete {
		ammo = ""
	}

	rate, err := e.TurretFireRate(b, ammo, req.Coolant, req.Heat)
	if err != nil {
		return nil, err
	}

	return &rates.FireRateResponse{
		Turret:   b.Name,
		Ammo:     ammo,
		Rate:     rate,
		Discrete: discrete,
	}, nil
}

// TurretFireRate returns the ammo items a turret consumes per second, or for
// turrets without discrete ammo the number of bursts per second. A heat
// rule, when heat is given, takes precedence over coolant.
func (e *Engine) TurretFireRate(b *rates.Block, ammo, coolant string, heat float64) (float64, error) {
	t := b.Turret
	if t == nil {
		return 0, fmt.Errorf("block %q is a %s: %w", b.Name, b.Kind, rates.ErrWrongKind)
	}

	reload := t.ReloadTime
	switch {
	case t.HeatScaling != nil && heat != 0:
		m, err := e.heatMultiplier(b, heat)
		if err != nil {
			return 0, err
		}
		reload /= m
	case coolant != "":
		if c, ok := t.Coolant[coolant]; ok && c.FireRate > 0 {
			reload /= c.FireRate
		}
	}

	burst := t.Burst
	if burst < 1 {
		burst = 1
	}
	burstSeconds := (reload + t.IntraBurstDelay*float64(burst-1)) / TicksPerSecond
	if burstSeconds <= 0 {
		return 0, fmt.Errorf("turret %q fires with a zero-length burst: %w", b.Name, rates.ErrUndefinedRate)
	}

	if !t.UsesDiscreteAmmo() {
		return 1 / burstSeconds, nil
	}

	effect, ok := t.Ammo[ammo]
	if !ok {
		return 0, fmt.Errorf("turret %q does not take %q: %w", b.Name, ammo, rates.ErrNotProduced)
	}

	used := t.AmmoUse
	if used == 0 {
		used = 1
	}
	if t.PerBullet {
		used *= float64(burst)
	}
	return (used * effect.RateMultiplier) / (burstSeconds * effect.AmmoPerShot), nil
}

// heatMultiplier evaluates the compiled heat rule of a block.
func (e *Engine) heatMultiplier(b *rates.Block, heat float64) (float64, error) {
	rule := e.cat.Rule(b.Name)
	if rule == nil {
		return 0, fmt.Errorf("block %q has no compiled heat rule: %w", b.Name, rates.ErrInvalidScalingRule)
	}
	m, err := rule.Multiplier(heat)
	if err != nil {
		return 0, fmt.Errorf("block %q: %w", b.Name, err)
	}
	return m, nil
}
