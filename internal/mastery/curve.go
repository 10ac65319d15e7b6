package mastery

import (
	"fmt"
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// Curve evaluates mastery, either through the built-in exponential curve
// or through a custom CEL expression from the game configuration. The
// expression sees two variables, `experience` and `coefficient`, and an
// `exp(x)` helper; its result is rounded and clamped into [1,99].
type Curve struct {
	params Params
	prog   cel.Program
}

// NewCurve builds a curve for the given parameters. When expression is
// empty the built-in curve is used; otherwise it is compiled once here so
// a bad expression fails at startup, not at roll time.
func NewCurve(params Params, expression string) (*Curve, error) {
	c := &Curve{params: params}
	if expression == "" {
		return c, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("experience", cel.DoubleType),
		cel.Variable("coefficient", cel.DoubleType),
		cel.Function("exp",
			cel.Overload("exp_double",
				[]*cel.Type{cel.DoubleType},
				cel.DoubleType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					return types.Double(math.Exp(arg.Value().(float64)))
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	ast, iss := env.Compile(expression)
	if iss.Err() != nil {
		return nil, fmt.Errorf("invalid mastery expression: %w", iss.Err())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invalid mastery expression: %w", err)
	}
	c.prog = prog
	return c, nil
}

// Mastery computes the mastery value for the given experience and bonus
// context. A runtime evaluation error of a custom expression falls back to
// the built-in curve and is reported to the caller.
func (c *Curve) Mastery(experience int, ctx Context) (int, error) {
	if c.prog == nil {
		return Compute(experience, ctx, c.params), nil
	}

	out, _, err := c.prog.Eval(map[string]any{
		"experience":  float64(experience),
		"coefficient": Coefficient(c.params, ctx),
	})
	if err != nil {
		return Compute(experience, ctx, c.params), fmt.Errorf("mastery expression failed: %w", err)
	}

	raw, ok := out.Value().(float64)
	if !ok {
		if i, isInt := out.Value().(int64); isInt {
			raw = float64(i)
		} else {
			return Compute(experience, ctx, c.params), fmt.Errorf("mastery expression returned %T, want a number", out.Value())
		}
	}
	return clamp(raw), nil
}
