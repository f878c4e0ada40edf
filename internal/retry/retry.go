// Package retry demonstrates retrying a flaky call from inside a single
// recipe body. The engine itself never retries a node — a failed step
// fails the whole run (see pkg/dataflow's error handling) — but nothing
// stops a recipe author from retrying their own work before handing back a
// result or a final error; that retry is invisible to the scheduler, which
// only ever sees one Wait round followed by one Done or one error. Grounded
// on the exponential backoff shape in the control plane this engine is
// descended from (internal/workflow/engine.go's executeStep retry loop),
// re-expressed with the backoff library it listed as a dependency but
// never imported directly itself.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pts-dfcompu/dfcompu/pkg/dataflow"
)

// Call is the shape of the possibly-flaky work a recipe wants to retry.
type Call func(args []any) (any, error)

// NewRecipe wraps call with exponential backoff (capped at maxElapsed) and
// exposes it as an ordinary dataflow recipe: from the engine's point of
// view this is just a RecipeFunc that happens to take a while and
// sometimes try more than once before returning.
func NewRecipe(name string, paramNames []string, call Call, maxElapsed time.Duration) *dataflow.Recipe {
	return dataflow.NewRecipe(name, paramNames, func(args []any) (any, error) {
		return callWithBackoff(context.Background(), call, args, maxElapsed)
	})
}

func callWithBackoff(ctx context.Context, call Call, args []any, maxElapsed time.Duration) (any, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed
	withCtx := backoff.WithContext(bo, ctx)

	var result any
	op := func() error {
		v, err := call(args)
		if err != nil {
			return err
		}
		result = v
		return nil
	}

	if err := backoff.Retry(op, withCtx); err != nil {
		return nil, err
	}
	return result, nil
}
