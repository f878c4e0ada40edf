package dataflow

import "time"

// runConfig collects the options a call to Run can be given.
type runConfig struct {
	context    map[string]any
	runner     Runner
	clock      func() time.Time
	debugNodes *[]*Node
}

// RunOption configures a single call to Run.
type RunOption func(*runConfig)

// WithContext supplies the run's context map, readable through
// ContextInput placeholders. Default is an empty map.
func WithContext(ctx map[string]any) RunOption {
	return func(c *runConfig) { c.context = ctx }
}

// WithRunner selects the scheduling strategy. Default is SimpleRunner.
func WithRunner(r Runner) RunOption {
	return func(c *runConfig) { c.runner = r }
}

// WithClock overrides the time source used to stamp node start/end times,
// chiefly for deterministic tests of instrumentation ordering.
func WithClock(clock func() time.Time) RunOption {
	return func(c *runConfig) { c.clock = clock }
}

// WithDebugNodes requests instrumentation: every node discovered during
// this run is appended, in discovery order, to *nodes. When this option is
// supplied the run driver does not sever node.inputs after wiring, so the
// discovered graph's edges remain inspectable — at the cost of delaying
// reclamation of intermediate results until the whole result set is
// unreachable instead of as each consumer finishes reading its input.
func WithDebugNodes(nodes *[]*Node) RunOption {
	return func(c *runConfig) { c.debugNodes = nodes }
}

// Run brings every element of inputs to Available, discovering and
// scheduling whatever graph of Nodes stands between them and their
// Constant/Context leaves. On success it returns inputs, now all
// available; on failure it returns the first error raised by any node's
// recipe body.
func Run(inputs []Input, opts ...RunOption) ([]Input, error) {
	cfg := &runConfig{
		context: map[string]any{},
		runner:  SimpleRunner,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var pending []*Node
	for _, in := range inputs {
		if in == nil {
			return nil, newWiringError("nil input passed to Run")
		}
		if in.Available() {
			continue
		}
		n, ok := rootNodeOf(in)
		if !ok {
			return nil, newWiringError("unavailable input of kind %T has no node to schedule", in)
		}
		pending = append(pending, n)
	}

	nodes := discover(pending)
	rename(nodes)
	fixContextPlaceholders(nodes)
	if err := bindContext(nodes, cfg.context); err != nil {
		return nil, err
	}

	for _, n := range nodes {
		n.setClock(cfg.clock)
	}

	if cfg.debugNodes != nil {
		*cfg.debugNodes = append(*cfg.debugNodes, nodes...)
	} else {
		for _, n := range nodes {
			n.clearInputs()
		}
	}

	if err := cfg.runner(pending); err != nil {
		return nil, err
	}

	return inputs, nil
}

// rootNodeOf resolves an unavailable Input down to the Node that must be
// scheduled to make it available: itself if it already is a Node, or its
// parent if it's a sub-result projection.
func rootNodeOf(in Input) (*Node, bool) {
	switch v := in.(type) {
	case *Node:
		return v, true
	case *subresultInput:
		return rootNodeOf(v.parent)
	default:
		return nil, false
	}
}
