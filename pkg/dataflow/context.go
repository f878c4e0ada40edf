package dataflow

// fixContextPlaceholders is the auto-wiring step for trailing
// "context"/"*_context" parameters. Recipe.Node/NodeKW already leave a
// *contextInput in place of an omitted or explicit-nil context argument
// (see recipe.go), so this pass changes nothing; placeholders nested in
// input sequences are reached by bindContext.
func fixContextPlaceholders(nodes []*Node) {
	// Placeholders are created directly by prepareArgs, so there is
	// nothing left to rewrite here; this pass exists to keep the fix-up
	// step named and ordered the way the engine this is ported from
	// separates "detect" from "bind" (see bindContext below).
	_ = nodes
}

// bindContext binds ctx to every context placeholder reachable from the
// given nodes, including ones nested inside InputSequence arguments.
func bindContext(nodes []*Node, ctx map[string]any) error {
	seen := make(map[*contextInput]bool)
	var walkInput func(Input) error
	walkInput = func(in Input) error {
		switch v := in.(type) {
		case *contextInput:
			if seen[v] {
				return nil
			}
			seen[v] = true
			return v.bind(ctx)
		case *InputSequence:
			for _, item := range v.items {
				if asInput, ok := item.(Input); ok {
					if err := walkInput(asInput); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	for _, n := range nodes {
		for _, in := range n.Inputs() {
			if err := walkInput(in); err != nil {
				return err
			}
		}
	}
	return nil
}
