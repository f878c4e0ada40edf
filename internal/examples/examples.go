// Package examples holds the worked recipes from the dataflow engine's own
// test scenarios (a fibonacci-style chain, a lazy conditional, a short-
// circuiting "or", input-sequence unwrapping, and context-key reading),
// exercised by this package's tests and reused by the demo dashboard's
// catalog.
package examples

import (
	"errors"
	"sort"

	"github.com/pts-dfcompu/dfcompu/pkg/dataflow"
)

// Area multiplies width by height.
var Area = dataflow.NewRecipe("area", []string{"w", "h"}, func(args []any) (any, error) {
	return args[0].(int) * args[1].(int), nil
})

// Circumference computes 2*(w+h), the perimeter of a w-by-h rectangle.
var Circumference = dataflow.NewRecipe("circumference", []string{"w", "h"}, func(args []any) (any, error) {
	return 2 * (args[0].(int) + args[1].(int)), nil
})

// NextFib advances a Fibonacci pair (a, b) to (b, a+b).
var NextFib = dataflow.NewRecipe("next_fib", []string{"a", "b"}, func(args []any) (any, error) {
	a, b := args[0].(int), args[1].(int)
	return []any{b, a + b}, nil
}, dataflow.WithResultNames("a", "b"))

// Cond is a lazy conditional: it reads only its condition argument before
// deciding which branch to forward to, so the branch not taken is never
// stepped at all. This is the engine's StepForward in action — a
// plain-function recipe could compute the same value, but only by
// evaluating both branches eagerly first.
var Cond = dataflow.NewStepRecipe("cond", []string{"condition", "if_true", "if_false"}, func(inputs []dataflow.Input) dataflow.Body {
	return &condBody{inputs: inputs}
})

type condBody struct {
	inputs []dataflow.Input
	phase  int
}

func (b *condBody) Step() (dataflow.Step, error) {
	switch b.phase {
	case 0:
		b.phase = 1
		if !b.inputs[0].Available() {
			return dataflow.WaitStep(b.inputs[0]), nil
		}
		fallthrough
	case 1:
		b.phase = 2
		v, err := b.inputs[0].Get()
		if err != nil {
			return dataflow.Step{}, err
		}
		if truthy(v) {
			return dataflow.ForwardStep(b.inputs[1]), nil
		}
		return dataflow.ForwardStep(b.inputs[2]), nil
	default:
		return dataflow.Step{}, errors.New("cond: stepped after forwarding")
	}
}

// OrAll is a Go-appropriate port of the original's or_all: evaluate
// arguments left to right, waiting on each in turn, and return the first
// truthy one (or the last, if none are). Unlike Cond it is variadic, so it
// must still wait on every non-Node argument it might return, which is
// most naturally expressed as its own hand-written Body rather than the
// single-round plain-function adapter.
var OrAll = dataflow.NewStepRecipe("or_all", []string{"values"}, func(inputs []dataflow.Input) dataflow.Body {
	return &orAllBody{inputs: inputs}
}, dataflow.WithVariadic())

type orAllBody struct {
	inputs []dataflow.Input
	idx    int
}

func (b *orAllBody) Step() (dataflow.Step, error) {
	for b.idx < len(b.inputs) {
		in := b.inputs[b.idx]
		if !in.Available() {
			return dataflow.WaitStep(in), nil
		}
		v, err := in.Get()
		if err != nil {
			return dataflow.Step{}, err
		}
		if b.idx == len(b.inputs)-1 || truthy(v) {
			return dataflow.DoneStep(v), nil
		}
		b.idx++
	}
	return dataflow.DoneStep(nil), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}

// AddTuple concatenates a head sequence with a tail sequence into one
// flattened []any — the recipe used to exercise InputSequence unwrapping.
var AddTuple = dataflow.NewRecipe("add_tuple", []string{"head", "tail"}, func(args []any) (any, error) {
	head, ok := args[0].([]any)
	if !ok {
		return nil, errors.New("add_tuple: head must be a sequence")
	}
	tail, ok := args[1].([]any)
	if !ok {
		return nil, errors.New("add_tuple: tail must be a sequence")
	}
	out := make([]any, 0, len(head)+len(tail))
	out = append(out, head...)
	out = append(out, tail...)
	return out, nil
})

// Cmul multiplies a by its second argument, b_context. When that argument
// is omitted it is auto-wired to the run's context value at key "b".
var Cmul = dataflow.NewRecipe("cmul", []string{"a", "b_context"}, func(args []any) (any, error) {
	return args[0].(int) * args[1].(int), nil
})

// Xkeys returns the context map's keys, sorted.
var Xkeys = dataflow.NewRecipe("xkeys", []string{"context"}, func(args []any) (any, error) {
	ctx := args[0].(map[string]any)
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out, nil
})

// BadLuck always fails; used to exercise exception capture under both
// runners.
var BadLuck = dataflow.NewRecipe("bad_luck", nil, func(args []any) (any, error) {
	return nil, errors.New("bad luck")
})
