package scaling

import (
	"errors"
	"math"
	"testing"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		name string
		rule rates.HeatScaling
		heat float64
		want float64
	}{
		{"clamped", rates.HeatScaling{Max: 2.0, Expr: "heat / 10"}, 30, 2.0},
		{"unclamped", rates.HeatScaling{Max: 2.0, Expr: "heat / 10"}, 5, 0.5},
		{"at cap", rates.HeatScaling{Max: 2.0, Expr: "heat / 10"}, 20, 2.0},
		{"no spaces", rates.HeatScaling{Max: 4, Expr: "heat/8"}, 16, 2.0},
		{"integer literal", rates.HeatScaling{Max: 3, Expr: "2"}, 0, 2.0},
		{"parentheses", rates.HeatScaling{Max: 10, Expr: "(heat + 2) * 0.5"}, 4, 3.0},
		{"unary minus", rates.HeatScaling{Max: 10, Expr: "-(-heat) / 2"}, 3, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Compile(tt.rule)
			if err != nil {
				t.Fatalf("Compile(%+v) failed: %v", tt.rule, err)
			}
			got, err := r.Multiplier(tt.heat)
			if err != nil {
				t.Fatalf("Multiplier(%v) failed: %v", tt.heat, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Multiplier(%v) = %v, want %v", tt.heat, got, tt.want)
			}
		})
	}
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name string
		rule rates.HeatScaling
	}{
		{"syntax error", rates.HeatScaling{Max: 2, Expr: "heat /"}},
		{"unknown variable", rates.HeatScaling{Max: 2, Expr: "cold / 10"}},
		{"function call", rates.HeatScaling{Max: 2, Expr: "max(heat, 1)"}},
		{"comparison", rates.HeatScaling{Max: 2, Expr: "heat > 10"}},
		{"modulo", rates.HeatScaling{Max: 2, Expr: "heat % 3"}},
		{"power", rates.HeatScaling{Max: 2, Expr: "heat ** 2"}},
		{"string", rates.HeatScaling{Max: 2, Expr: `"heat"`}},
		{"ternary", rates.HeatScaling{Max: 2, Expr: "heat > 1 ? 2 : 1"}},
		{"zero max", rates.HeatScaling{Max: 0, Expr: "heat / 10"}},
		{"empty", rates.HeatScaling{Max: 2, Expr: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.rule)
			if !errors.Is(err, rates.ErrInvalidScalingRule) {
				t.Errorf("Compile(%q) error = %v, want ErrInvalidScalingRule", tt.rule.Expr, err)
			}
		})
	}
}

func TestMultiplierNonPositive(t *testing.T) {
	r, err := Compile(rates.HeatScaling{Max: 2, Expr: "heat - 10"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := r.Multiplier(5); !errors.Is(err, rates.ErrInvalidScalingRule) {
		t.Errorf("Multiplier(5) error = %v, want ErrInvalidScalingRule", err)
	}
	if _, err := r.Multiplier(10); !errors.Is(err, rates.ErrInvalidScalingRule) {
		t.Errorf("Multiplier(10) error = %v, want ErrInvalidScalingRule", err)
	}
}

func TestMultiplierDivideByZero(t *testing.T) {
	r, err := Compile(rates.HeatScaling{Max: 2, Expr: "10 / heat"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := r.Multiplier(0); !errors.Is(err, rates.ErrInvalidScalingRule) {
		t.Errorf("Multiplier(0) error = %v, want ErrInvalidScalingRule", err)
	}
}
