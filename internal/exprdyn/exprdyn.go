// Package exprdyn compiles caller-supplied boolean expressions into
// dataflow recipes, so a condition can be changed without recompiling the
// program. This is the integration the control plane this engine is
// descended from left as a comment ("For more complex conditions, we can
// integrate expr-lang/expr later") instead of wiring up — here it is wired
// into a recipe body rather than a workflow-engine-internal branch
// matcher, since condition evaluation belongs to a node's body in this
// engine's model.
package exprdyn

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/pts-dfcompu/dfcompu/pkg/dataflow"
)

// NewCondition compiles exprSrc once and returns a recipe that evaluates it
// against named parameters on every invocation, returning a bool. exprSrc
// may reference any of paramNames as a variable, e.g. "a > b" with
// paramNames = []string{"a", "b"}.
func NewCondition(name string, paramNames []string, exprSrc string) (*dataflow.Recipe, error) {
	env := make(map[string]any, len(paramNames))
	for _, p := range paramNames {
		env[p] = nil
	}

	program, err := expr.Compile(exprSrc, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("exprdyn: compiling %q: %w", exprSrc, err)
	}

	return dataflow.NewRecipe(name, paramNames, func(args []any) (any, error) {
		return runCompiled(program, paramNames, args)
	}), nil
}

func runCompiled(program *vm.Program, paramNames []string, args []any) (any, error) {
	env := make(map[string]any, len(paramNames))
	for i, p := range paramNames {
		env[p] = args[i]
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("exprdyn: evaluating: %w", err)
	}
	return out, nil
}
