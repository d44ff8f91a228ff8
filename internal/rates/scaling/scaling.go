// Package scaling compiles heat-scaling rules into restricted arithmetic
// programs over a single variable, heat.
package scaling

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

// Variable is the only identifier a rule may reference.
const Variable = "heat"

// Rule is a compiled heat-scaling rule. It is immutable and safe for
// concurrent use.
type Rule struct {
	max     float64
	source  string
	program *vm.Program
}

// Compile checks and compiles a heat-scaling rule. Only numeric literals,
// the variable heat, parentheses, unary +/- and binary + - * / are accepted.
func Compile(hs rates.HeatScaling) (*Rule, error) {
	if hs.Max <= 0 || math.IsNaN(hs.Max) || math.IsInf(hs.Max, 0) {
		return nil, fmt.Errorf("%w: max multiplier %v must be positive", rates.ErrInvalidScalingRule, hs.Max)
	}

	if strings.TrimSpace(hs.Expr) == "" {
		return nil, fmt.Errorf("%w: empty expression", rates.ErrInvalidScalingRule)
	}

	tree, err := parser.Parse(hs.Expr)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", rates.ErrInvalidScalingRule, hs.Expr, err)
	}

	v := &vetter{}
	ast.Walk(&tree.Node, v)
	if v.err != nil {
		return nil, fmt.Errorf("%w: %q: %v", rates.ErrInvalidScalingRule, hs.Expr, v.err)
	}

	program, err := expr.Compile(hs.Expr,
		expr.Env(map[string]any{Variable: 0.0}),
		expr.AsFloat64(),
		expr.DisableAllBuiltins(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling %q: %v", rates.ErrInvalidScalingRule, hs.Expr, err)
	}

	return &Rule{max: hs.Max, source: hs.Expr, program: program}, nil
}

// Max returns the multiplier cap.
func (r *Rule) Max() float64 { return r.max }

// Source returns the rule text.
func (r *Rule) Source() string { return r.source }

// Multiplier evaluates the rule at the given heat and clamps the result to
// the rule's maximum. A non-positive or non-finite result is an error since
// it cannot divide a cycle time.
func (r *Rule) Multiplier(heat float64) (float64, error) {
	out, err := expr.Run(r.program, map[string]any{Variable: heat})
	if err != nil {
		return 0, fmt.Errorf("%w: evaluating %q at heat=%v: %v", rates.ErrInvalidScalingRule, r.source, heat, err)
	}

	var m float64
	switch n := out.(type) {
	case float64:
		m = n
	case int:
		m = float64(n)
	default:
		return 0, fmt.Errorf("%w: %q returned %T", rates.ErrInvalidScalingRule, r.source, out)
	}

	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return 0, fmt.Errorf("%w: %q gives multiplier %v at heat=%v", rates.ErrInvalidScalingRule, r.source, m, heat)
	}
	return math.Min(m, r.max), nil
}

// vetter rejects every AST node outside the arithmetic subset.
type vetter struct {
	err error
}

func (v *vetter) Visit(node *ast.Node) {
	if v.err != nil {
		return
	}
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if n.Value != Variable {
			v.err = fmt.Errorf("unknown identifier %q", n.Value)
		}
	case *ast.IntegerNode, *ast.FloatNode:
	case *ast.BinaryNode:
		switch n.Operator {
		case "+", "-", "*", "/":
		default:
			v.err = fmt.Errorf("operator %q not allowed", n.Operator)
		}
	case *ast.UnaryNode:
		switch n.Operator {
		case "+", "-":
		default:
			v.err = fmt.Errorf("operator %q not allowed", n.Operator)
		}
	default:
		v.err = fmt.Errorf("unsupported expression %T", n)
	}
}
