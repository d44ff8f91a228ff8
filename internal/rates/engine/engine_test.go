package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/catalog"
	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func defaultEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("loading default catalog: %v", err)
	}
	return New(cat)
}

func TestFireRate(t *testing.T) {
	e := defaultEngine(t)

	tests := []struct {
		name string
		req  rates.FireRateRequest
		want float64
	}{
		// (1 * 1.0) / ((20/1.2/60) * 2)
		{"duo water copper", rates.FireRateRequest{Turret: "Duo", Ammo: "Copper", Coolant: "Water"}, 1.8},
		{"duo dry copper", rates.FireRateRequest{Turret: "Duo", Ammo: "Copper"}, 1.5},
		{"duo unknown coolant", rates.FireRateRequest{Turret: "Duo", Ammo: "Copper", Coolant: "Slag"}, 1.5},
		// 4 bullets of ammo per 40-tick burst
		{"salvo per bullet", rates.FireRateRequest{Turret: "Salvo", Ammo: "Graphite"}, 0.9},
		{"foreshadow inferred ammo", rates.FireRateRequest{Turret: "Foreshadow"}, 1.5},
		{"wave fluid ammo", rates.FireRateRequest{Turret: "Wave"}, 20},
		{"arc power only", rates.FireRateRequest{Turret: "Arc"}, 60.0 / 35},
		{"arc with coolant", rates.FireRateRequest{Turret: "Arc", Coolant: "Water"}, 60.0 * 1.2 / 35},
		{"afflict clamped", rates.FireRateRequest{Turret: "Afflict", Heat: 30}, 1.2},
		{"afflict partial", rates.FireRateRequest{Turret: "Afflict", Heat: 5}, 0.3},
		{"afflict cold", rates.FireRateRequest{Turret: "Afflict"}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.FireRate(tt.req)
			if err != nil {
				t.Fatalf("FireRate(%+v) failed: %v", tt.req, err)
			}
			if !approxEqual(resp.Rate, tt.want) {
				t.Errorf("FireRate(%+v) = %v, want %v", tt.req, resp.Rate, tt.want)
			}
		})
	}
}

func TestFireRateGeneric(t *testing.T) {
	for _, reload := range []float64{1, 20, 35, 90} {
		cat, err := catalog.New(catalog.Config{
			Blocks: []rates.Block{{
				Name: "Gun", World: rates.Serpulo, Kind: rates.KindTurret,
				Turret: &rates.Turret{
					ReloadTime: reload, Burst: 1,
					Ammo: map[string]rates.AmmoEffect{"Copper": {RateMultiplier: 1, AmmoPerShot: 1}},
				},
			}},
		})
		if err != nil {
			t.Fatalf("catalog.New failed: %v", err)
		}
		resp, err := New(cat).FireRate(rates.FireRateRequest{Turret: "Gun", Ammo: "Copper"})
		if err != nil {
			t.Fatalf("FireRate failed: %v", err)
		}
		if want := 60 / reload; !approxEqual(resp.Rate, want) {
			t.Errorf("reload %v: rate = %v, want %v", reload, resp.Rate, want)
		}
	}
}

func TestFireRateErrors(t *testing.T) {
	e := defaultEngine(t)

	tests := []struct {
		name    string
		req     rates.FireRateRequest
		wantErr error
	}{
		{"no ammo choice", rates.FireRateRequest{Turret: "Duo"}, rates.ErrAmbiguousOutput},
		{"foreign ammo", rates.FireRateRequest{Turret: "Duo", Ammo: "Lead"}, rates.ErrNotProduced},
		{"zero burst", rates.FireRateRequest{Turret: "Parallax"}, rates.ErrUndefinedRate},
		{"unknown turret", rates.FireRateRequest{Turret: "Nope"}, rates.ErrNotFound},
		{"not a turret", rates.FireRateRequest{Turret: "Graphite Press"}, rates.ErrWrongKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.FireRate(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FireRate(%+v) error = %v, want %v", tt.req, err, tt.wantErr)
			}
		})
	}
}

func TestOutputRate(t *testing.T) {
	e := defaultEngine(t)

	tests := []struct {
		name        string
		req         rates.OutputRateRequest
		wantInputs  rates.Recipe
		wantOutputs rates.Recipe
	}{
		{
			name:        "graphite press",
			req:         rates.OutputRateRequest{Block: "Graphite Press"},
			wantInputs:  rates.Recipe{"Coal": 60.0 * 2 / 90},
			wantOutputs: rates.Recipe{"Graphite": 60.0 / 90},
		},
		{
			name:        "carbide crucible heated",
			req:         rates.OutputRateRequest{Block: "Carbide Crucible", Heat: 20},
			wantInputs:  rates.Recipe{"Graphite": 60.0 * 3 / 67.5, "Tungsten": 60.0 * 2 / 67.5, "Heat": 20},
			wantOutputs: rates.Recipe{"Carbide": 60.0 / 67.5},
		},
		{
			name:        "carbide crucible capped",
			req:         rates.OutputRateRequest{Block: "Carbide Crucible", Heat: 100},
			wantInputs:  rates.Recipe{"Graphite": 60.0 * 3 * 4 / 135, "Tungsten": 60.0 * 2 * 4 / 135, "Heat": 40},
			wantOutputs: rates.Recipe{"Carbide": 60.0 * 4 / 135},
		},
		{
			name:        "fluid output",
			req:         rates.OutputRateRequest{Block: "Cryofluid Mixer"},
			wantInputs:  rates.Recipe{"Titanium": 0.5, "Water": 12},
			wantOutputs: rates.Recipe{"Cryofluid": 12},
		},
		{
			name:        "drill with coolant",
			req:         rates.OutputRateRequest{Block: "Cliff Crusher"},
			wantInputs:  rates.Recipe{},
			wantOutputs: rates.Recipe{"Sand": 1.09},
		},
		{
			name:        "boosted drill",
			req:         rates.OutputRateRequest{Block: "Impact Drill", Coolant: "Ozone"},
			wantInputs:  rates.Recipe{"Water": 10, "Ozone": 3},
			wantOutputs: rates.Recipe{"Beryllium": 2.66 * 1.75, "Tungsten": 1.33 * 1.75},
		},
		{
			name:        "generator variant",
			req:         rates.OutputRateRequest{Block: "Combustion Generator", Variant: 1},
			wantInputs:  rates.Recipe{"Spore pod": 0.5},
			wantOutputs: rates.Recipe{"Power": 69},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.OutputRate(tt.req)
			if err != nil {
				t.Fatalf("OutputRate(%+v) failed: %v", tt.req, err)
			}
			assertRecipe(t, "inputs", resp.Inputs, tt.wantInputs)
			assertRecipe(t, "outputs", resp.Outputs, tt.wantOutputs)
		})
	}
}

func assertRecipe(t *testing.T, side string, got, want rates.Recipe) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", side, got, want)
		return
	}
	for name, w := range want {
		if g, ok := got[name]; !ok || !approxEqual(g, w) {
			t.Errorf("%s[%s] = %v, want %v", side, name, g, w)
		}
	}
}

func TestOutputRateErrors(t *testing.T) {
	e := defaultEngine(t)

	if _, err := e.OutputRate(rates.OutputRateRequest{Block: "Combustion Generator", Variant: 9}); !errors.Is(err, rates.ErrNotFound) {
		t.Errorf("variant 9 error = %v, want ErrNotFound", err)
	}
	if _, err := e.OutputRate(rates.OutputRateRequest{Block: "Duo"}); !errors.Is(err, rates.ErrWrongKind) {
		t.Errorf("turret error = %v, want ErrWrongKind", err)
	}
}

func TestRequiredFactories(t *testing.T) {
	e := defaultEngine(t)

	resp, err := e.RequiredFactories(rates.RequiredFactoriesRequest{Block: "Graphite Press", Rate: 2.0, Resource: "Graphite"})
	if err != nil {
		t.Fatalf("RequiredFactories failed: %v", err)
	}
	if !approxEqual(resp.Count, 3.0) {
		t.Errorf("Graphite Press count = %v, want 3.0", resp.Count)
	}

	resp, err = e.RequiredFactories(rates.RequiredFactoriesRequest{Block: "Graphite Press", Rate: 2.0})
	if err != nil || resp.Resource != "Graphite" {
		t.Errorf("inferred output = %+v, %v, want Graphite", resp, err)
	}

	tests := []struct {
		name    string
		req     rates.RequiredFactoriesRequest
		wantErr error
	}{
		{"multi output", rates.RequiredFactoriesRequest{Block: "Separator", Rate: 1}, rates.ErrAmbiguousOutput},
		{"input named", rates.RequiredFactoriesRequest{Block: "Graphite Press", Rate: 1, Resource: "Coal"}, rates.ErrNotProduced},
		{"unknown block", rates.RequiredFactoriesRequest{Block: "Nope", Rate: 1}, rates.ErrNotFound},
		{"unit factory", rates.RequiredFactoriesRequest{Block: "Ground Factory", Rate: 1}, rates.ErrWrongKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.RequiredFactories(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequiredFactories(%+v) error = %v, want %v", tt.req, err, tt.wantErr)
			}
		})
	}
}

// Every single-output factory sustains exactly its own output rate.
func TestRequiredFactoriesRoundTrip(t *testing.T) {
	e := defaultEngine(t)

	checked := 0
	for _, b := range e.Catalog().Blocks() {
		var sides rates.RateSides
		var err error
		switch {
		case b.Factory != nil && len(b.Factory.Outputs) == 1:
			sides, err = e.FactoryOutputRate(b, 0)
		case b.Drill != nil && len(b.Drill.Drillables) == 1:
			sides, err = e.DrillOutputRate(b, "")
		default:
			continue
		}
		if err != nil {
			t.Fatalf("%s: output rate failed: %v", b.Name, err)
		}

		for resource, rate := range sides.Outputs {
			_, count, err := e.FactoryCount(b, rate, resource)
			if err != nil {
				t.Fatalf("%s: FactoryCount failed: %v", b.Name, err)
			}
			if !approxEqual(count, 1) {
				t.Errorf("%s: count for its own %s rate = %v, want 1", b.Name, resource, count)
			}
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no single-output factories checked")
	}
}
