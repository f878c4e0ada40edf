package dataflow

// Input is the uniform handle for "a value, eventually". Every recipe
// argument that isn't a bare Go value is wired through one of the concrete
// variants below: constantInput, contextInput, *Node, subresultInput, and
// InputSequence.
type Input interface {
	// Available reports whether Get would currently succeed.
	Available() bool

	// Get returns the final value. It is only valid to call once Available
	// reports true; calling it earlier returns an error.
	Get() (any, error)

	// blockingNodes lists the Nodes whose completion would make this Input
	// available. It may be called at any time, available or not; an
	// already-available Input returns nil.
	blockingNodes() []*Node
}

// constantInput is available from birth.
type constantInput struct {
	value any
}

// ConstantInput wraps a plain Go value as an Input that is available
// immediately. Recipe.Node and Recipe.Call apply this wrapping
// automatically to any argument that isn't already an Input.
func ConstantInput(value any) Input {
	return &constantInput{value: value}
}

func (c *constantInput) Available() bool         { return true }
func (c *constantInput) Get() (any, error)       { return c.value, nil }
func (c *constantInput) blockingNodes() []*Node  { return nil }

// contextInput reads a key (or the whole map, if key is empty) out of the
// run's context dict. It becomes available only once bindContext has
// attached a context map to it; binding a map with the same key set a
// second time is a no-op, and binding a map with a different key set is a
// construction error since a placeholder belongs to exactly one run.
type contextInput struct {
	key   string
	bound bool
	ctx   map[string]any
}

// ContextInput returns a placeholder for the run's context map. An empty
// key resolves to the whole map; any other key resolves to that entry and
// fails at Get time if the key is absent.
func ContextInput(key string) Input {
	return &contextInput{key: key}
}

func (c *contextInput) Available() bool { return c.bound }

func (c *contextInput) Get() (any, error) {
	if !c.bound {
		return nil, newWiringError("context input %q read before a context was bound", c.key)
	}
	if c.key == "" {
		return c.ctx, nil
	}
	v, ok := c.ctx[c.key]
	if !ok {
		return nil, newWiringError("missing context key %q", c.key)
	}
	return v, nil
}

func (c *contextInput) blockingNodes() []*Node { return nil }

// bind attaches ctx to this placeholder. A second map with the same key set
// is treated as the same context and leaves the first binding in place; a
// second map with a different key set is rejected.
func (c *contextInput) bind(ctx map[string]any) error {
	if c.bound {
		// Compare by key set: the same dict rebound is idempotent.
		same := len(c.ctx) == len(ctx)
		if same {
			for k := range ctx {
				if _, ok := c.ctx[k]; !ok {
					same = false
					break
				}
			}
		}
		if !same {
			return newConstructionError("context input %q already bound to a different context", c.key)
		}
		return nil
	}
	c.ctx = ctx
	c.bound = true
	return nil
}

// subresultInput projects the i-th component out of a multi-result Node.
// It is created on demand by Node.At and holds only the parent pointer and
// an index, never duplicating the parent's own bookkeeping.
type subresultInput struct {
	parent *Node
	index  int
}

func (s *subresultInput) Available() bool { return s.parent.Available() }

func (s *subresultInput) Get() (any, error) {
	v, err := s.parent.Get()
	if err != nil {
		return nil, err
	}
	tuple, ok := v.([]any)
	if !ok {
		if s.index == 0 {
			return v, nil
		}
		return nil, newWiringError("node %q has a single result, no component %d", s.parent.Name(), s.index)
	}
	if s.index < 0 || s.index >= len(tuple) {
		return nil, newWiringError("node %q result has no component %d", s.parent.Name(), s.index)
	}
	return tuple[s.index], nil
}

func (s *subresultInput) blockingNodes() []*Node { return s.parent.blockingNodes() }

// InputSequence bundles several Inputs (or plain values) into a single
// positional argument. It is itself an Input — available only once every
// member is — so Get unwraps it to a plain []any of resolved values,
// letting the walker and argument-preparation code discover the real
// dependencies hiding inside it.
type InputSequence struct {
	items []any
}

// NewInputSequence wraps items (each either an Input or a plain value) as
// a single sequence-valued argument.
func NewInputSequence(items ...any) *InputSequence {
	return &InputSequence{items: items}
}

func (s *InputSequence) Available() bool {
	for _, it := range s.items {
		if inp, ok := it.(Input); ok && !inp.Available() {
			return false
		}
	}
	return true
}

func (s *InputSequence) Get() (any, error) {
	out := make([]any, len(s.items))
	for i, it := range s.items {
		if inp, ok := it.(Input); ok {
			v, err := inp.Get()
			if err != nil {
				return nil, err
			}
			out[i] = v
			continue
		}
		out[i] = it
	}
	return out, nil
}

func (s *InputSequence) blockingNodes() []*Node {
	var nodes []*Node
	for _, it := range s.items {
		if inp, ok := it.(Input); ok && !inp.Available() {
			nodes = append(nodes, inp.blockingNodes()...)
		}
	}
	return nodes
}

// asInput wraps v as an Input, leaving it untouched if it already is one.
func asInput(v any) Input {
	if inp, ok := v.(Input); ok {
		return inp
	}
	return &constantInput{value: v}
}
