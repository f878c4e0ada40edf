package dataflow

import (
	"fmt"
	"sync"
	"time"
)

// StepKind tags the three shapes a Body can yield, mirroring the original
// generator protocol's three message kinds.
type StepKind int

const (
	// StepWait announces a set of Inputs the body needs before it can make
	// progress. The scheduler resumes the body only once every listed
	// Input is available.
	StepWait StepKind = iota
	// StepForward declares the node's result to be exactly some other
	// Input's value, once that Input becomes available. A body must not
	// be stepped again after yielding this.
	StepForward
	// StepDone carries the body's final value.
	StepDone
)

// Step is the tagged message a Body yields on each call to Step.
type Step struct {
	Kind    StepKind
	Wait    []Input // valid when Kind == StepWait
	Forward Input   // valid when Kind == StepForward
	Value   any     // valid when Kind == StepDone
}

// WaitStep builds a StepWait message.
func WaitStep(inputs ...Input) Step { return Step{Kind: StepWait, Wait: inputs} }

// ForwardStep builds a StepForward message.
func ForwardStep(in Input) Step { return Step{Kind: StepForward, Forward: in} }

// DoneStep builds a StepDone message.
func DoneStep(value any) Step { return Step{Kind: StepDone, Value: value} }

// Body is the state machine driving one Node. NewRecipe's plain-function
// adapter builds one automatically; NewStepRecipe lets the recipe author
// hand-write one for bodies that need to wait in more than one round (a
// conditional that must read its condition before it knows which branch to
// forward to, for instance).
type Body interface {
	// Step advances the body by exactly one unit and returns the next
	// message. It is only called again after a StepWait once every Input
	// in that Wait is available. It must not be called again after a
	// StepForward or StepDone.
	Step() (Step, error)
}

// Node is a bound invocation of a Recipe: concrete inputs, a live Body
// driving it, and a one-shot result slot.
type Node struct {
	recipe *Recipe
	inputs []Input
	name   string

	clock func() time.Time

	mu         sync.Mutex
	body       Body
	forwarded  bool
	pending    Input // set when a StepForward's target isn't available yet
	hasResult  bool
	result     any
	err        error
	startTime  time.Time
	endTime    time.Time
	lastWait   []Input
}

func newNode(recipe *Recipe, inputs []Input, body Body) *Node {
	return &Node{
		recipe: recipe,
		inputs: inputs,
		name:   recipe.Name,
		body:   body,
		clock:  time.Now,
	}
}

// Name returns the node's display name, unique within a discovered graph
// after Rename has run.
func (n *Node) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.name
}

func (n *Node) setName(name string) {
	n.mu.Lock()
	n.name = name
	n.mu.Unlock()
}

// Inputs exposes the node's current input list. It is nil once Run has
// severed it for early reclamation (see WithDebugNodes).
func (n *Node) Inputs() []Input {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inputs
}

func (n *Node) clearInputs() {
	n.mu.Lock()
	n.inputs = nil
	n.mu.Unlock()
}

// StartTime is the zero time if the node was never stepped.
func (n *Node) StartTime() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.startTime
}

// EndTime is the zero time if the node never completed.
func (n *Node) EndTime() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.endTime
}

// Available reports whether the node's result slot is filled.
func (n *Node) Available() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hasResult
}

// Get returns the node's result, or the error stored there (either an
// ExceptionResult from a failed body or a not-yet-available error).
func (n *Node) Get() (any, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.hasResult {
		return nil, newProtocolError("node %q read before it completed", n.name)
	}
	if exc, ok := n.result.(ExceptionResult); ok {
		return nil, exc
	}
	return n.result, nil
}

// Result returns the raw result slot (an ExceptionResult on failure) along
// with whether the slot has been filled at all — used by instrumentation,
// which wants to see failures without treating them as Go errors.
func (n *Node) Result() (any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.result, n.hasResult
}

func (n *Node) blockingNodes() []*Node {
	if n.Available() {
		return nil
	}
	return []*Node{n}
}

// At returns a sub-result projection onto the i-th component of a
// multi-result node.
func (n *Node) At(i int) (Input, error) {
	if i < 0 || i >= len(n.recipe.ResultNames) {
		return nil, newConstructionError("node %q has %d results, no component %d", n.name, len(n.recipe.ResultNames), i)
	}
	return &subresultInput{parent: n, index: i}, nil
}

// Run is shorthand for running the one-node graph rooted at n and
// returning its resolved value.
func (n *Node) Run(opts ...RunOption) (any, error) {
	results, err := Run([]Input{n}, opts...)
	if err != nil {
		return nil, err
	}
	return results[0].Get()
}

func (n *Node) setClock(clock func() time.Time) {
	n.mu.Lock()
	n.clock = clock
	n.mu.Unlock()
}

func (n *Node) setResult(v any) {
	n.mu.Lock()
	if n.hasResult {
		n.mu.Unlock()
		panic(newProtocolError("node %q result set more than once", n.name))
	}
	n.result = v
	n.hasResult = true
	n.endTime = n.clock()
	n.body = nil
	n.mu.Unlock()
}

func (n *Node) setException(err error) {
	n.setResult(ExceptionResult{Err: err})
}

// step advances the node exactly once. A non-nil error means the step
// failed (the error is also stored as an ExceptionResult). On nil, either
// the node has completed (n.Available() becomes true) or the caller should
// wait for every Node returned by waitBlockers before stepping again.
func (n *Node) step() error {
	n.mu.Lock()
	if n.startTime.IsZero() {
		n.startTime = n.clock()
	}
	pending := n.pending
	n.mu.Unlock()

	if pending != nil {
		if !pending.Available() {
			return newProtocolError("node %q stepped while its forward target is still unavailable", n.name)
		}
		v, err := pending.Get()
		if err != nil {
			n.setException(err)
			return err
		}
		n.setResult(v)
		return nil
	}

	n.mu.Lock()
	forwarded := n.forwarded
	n.mu.Unlock()
	if forwarded {
		return newProtocolError("node %q body stepped again after yielding a forward", n.name)
	}

	st, err := func() (st Step, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("node %q body panicked: %v", n.name, r)
			}
		}()
		return n.body.Step()
	}()
	if err != nil {
		n.setException(err)
		return err
	}

	switch st.Kind {
	case StepWait:
		n.mu.Lock()
		n.lastWait = st.Wait
		n.mu.Unlock()
		return nil
	case StepForward:
		n.mu.Lock()
		n.forwarded = true
		n.mu.Unlock()
		if st.Forward == nil {
			err := newProtocolError("node %q forwarded to a nil input", n.name)
			n.setException(err)
			return err
		}
		if st.Forward.Available() {
			v, err := st.Forward.Get()
			if err != nil {
				n.setException(err)
				return err
			}
			n.setResult(v)
			return nil
		}
		n.mu.Lock()
		n.pending = st.Forward
		n.lastWait = []Input{st.Forward}
		n.mu.Unlock()
		return nil
	case StepDone:
		if err := n.checkResultArity(st.Value); err != nil {
			n.setException(err)
			return err
		}
		n.setResult(st.Value)
		return nil
	default:
		err := newProtocolError("node %q body yielded no recognizable step", n.name)
		n.setException(err)
		return err
	}
}

// checkResultArity enforces that a multi-result recipe's body actually
// returned a tuple of the declared length. A recipe with a single declared
// result name (the default) is exempt — its body is free to return any
// scalar value.
func (n *Node) checkResultArity(v any) error {
	want := len(n.recipe.ResultNames)
	if want <= 1 {
		return nil
	}
	tuple, ok := v.([]any)
	if !ok || len(tuple) != want {
		return newProtocolError("node %q recipe %q declares %d results, body returned %d", n.name, n.recipe.Name, want, tupleLen(v))
	}
	return nil
}

func tupleLen(v any) int {
	tuple, ok := v.([]any)
	if !ok {
		return -1
	}
	return len(tuple)
}

// waitBlockers returns the non-available Nodes the last Wait/Forward step
// asked this node to wait on, already flattened through sub-results and
// input sequences.
func (n *Node) waitBlockers() []*Node {
	n.mu.Lock()
	wait := n.lastWait
	n.mu.Unlock()

	var blockers []*Node
	seen := make(map[*Node]bool)
	for _, in := range wait {
		if in.Available() {
			continue
		}
		for _, b := range in.blockingNodes() {
			if !seen[b] {
				seen[b] = true
				blockers = append(blockers, b)
			}
		}
	}
	return blockers
}
