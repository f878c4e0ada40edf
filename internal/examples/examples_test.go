package examples

import (
	"testing"
	"time"

	"github.com/pts-dfcompu/dfcompu/pkg/dataflow"
)

func TestFibonacciChain(t *testing.T) {
	step1, err := NextFib.Node(5, 7)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	a1, _ := step1.At(0)
	b1, _ := step1.At(1)
	step2, err := NextFib.Node(a1, b1)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	a2, _ := step2.At(0)
	b2, _ := step2.At(1)
	step3, err := NextFib.Node(a2, b2)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}

	v, err := step3.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tuple := v.([]any)
	if tuple[0].(int) != 19 || tuple[1].(int) != 31 {
		t.Fatalf("want (19, 31), got %v", tuple)
	}
}

func TestFibonacciSecondProjection(t *testing.T) {
	step1, _ := NextFib.Node(20, 30)
	b1, _ := step1.At(1)
	results, err := dataflow.Run([]dataflow.Input{b1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	v, _ := results[0].Get()
	if v.(int) != 50 {
		t.Fatalf("want 50, got %v", v)
	}
}

func TestConditionalPicksArea(t *testing.T) {
	fib, _ := NextFib.Node(5, 7)
	c, _ := fib.At(1)
	area, _ := Area.Node(5, 7)
	circ, _ := Circumference.Node(5, 7)
	cond, err := Cond.Node(c, area, circ)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}

	v, err := cond.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.(int) != 35 {
		t.Fatalf("want 35, got %v", v)
	}
	if circ.Available() {
		t.Fatalf("circumference should never have been stepped on the untaken branch")
	}
}

func TestOrAllFirstTruthy(t *testing.T) {
	n, err := OrAll.Node(false, 33, 0, 44, 0.0)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	v, err := n.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.(int) != 33 {
		t.Fatalf("want 33, got %v", v)
	}
}

func TestInputSequenceUnwrapping(t *testing.T) {
	area, _ := Area.Node(2, 3)
	seq := dataflow.NewInputSequence(5, area)
	n, err := AddTuple.Node(seq, []any{7})
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	v, err := n.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := v.([]any)
	want := []any{5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestContextKeysSorted(t *testing.T) {
	n, err := Xkeys.Node()
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	v, err := n.Run(dataflow.WithContext(map[string]any{"Jan": 0, "Feb": 1}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := v.([]any)
	if len(got) != 2 || got[0] != "Feb" || got[1] != "Jan" {
		t.Fatalf("want [Feb Jan], got %v", got)
	}
}

func TestContextMultiplyExplicitKey(t *testing.T) {
	n, err := Cmul.Node(5, dataflow.ContextInput("x"))
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	v, err := n.Run(dataflow.WithContext(map[string]any{"x": 8}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.(int) != 40 {
		t.Fatalf("want 40, got %v", v)
	}
}

func TestContextMultiplyAutoWired(t *testing.T) {
	n, err := Cmul.Node(5)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	v, err := n.Run(dataflow.WithContext(map[string]any{"b": 8}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.(int) != 40 {
		t.Fatalf("want 40, got %v", v)
	}
}

func TestBadLuckException(t *testing.T) {
	n1, _ := BadLuck.Node()
	n2, _ := BadLuck.Node()
	top, _ := Area.Node(n1, n2)

	var nodes []*dataflow.Node
	_, err := dataflow.Run([]dataflow.Input{top}, dataflow.WithDebugNodes(&nodes))
	if err == nil {
		t.Fatalf("expected an error")
	}

	pool, err := dataflow.ThreadPoolRunner(3)
	if err != nil {
		t.Fatalf("ThreadPoolRunner: %v", err)
	}
	n3, _ := BadLuck.Node()
	n4, _ := BadLuck.Node()
	top2, _ := Area.Node(n3, n4)
	if _, err := dataflow.Run([]dataflow.Input{top2}, dataflow.WithRunner(pool)); err == nil {
		t.Fatalf("expected an error under the pool runner")
	}
}

// TestInstrumentationOrdering reconstructs scenario 2's graph (next_fib,
// area, circumference, cond) extended with a second next_fib call feeding a
// new condition: _, d = nextFib(b, c), cond(d, area, circ). Discovery order,
// stepping-schedule timestamps, and the untaken circumference branch's zero
// start/end all follow from this exact shape.
func TestInstrumentationOrdering(t *testing.T) {
	fib1, err := NextFib.Node(5, 7)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	b, _ := fib1.At(0)
	c, _ := fib1.At(1)

	fib2, err := NextFib.Node(b, c)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	d, _ := fib2.At(1)

	area, _ := Area.Node(5, 7)
	circ, _ := Circumference.Node(5, 7)
	top, err := Cond.Node(d, area, circ)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}

	tick := time.Unix(0, 0)
	fakeClock := func() time.Time {
		tick = tick.Add(10 * time.Millisecond)
		return tick
	}

	var nodes []*dataflow.Node
	v, err := top.Run(dataflow.WithDebugNodes(&nodes), dataflow.WithClock(fakeClock))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.(int) != 35 {
		t.Fatalf("want 35 (area branch, d=19 is truthy), got %v", v)
	}

	wantOrder := []string{"cond", "next_fib#1", "area", "circumference", "next_fib#2"}
	if len(nodes) != len(wantOrder) {
		t.Fatalf("discovery order: want %v, got %d nodes", wantOrder, len(nodes))
	}
	for i, name := range wantOrder {
		if nodes[i].Name() != name {
			t.Fatalf("discovery order: want %v, got %v", wantOrder, namesOf(nodes))
		}
	}

	var circumference *dataflow.Node
	for _, n := range nodes {
		if n.Name() == "circumference" {
			circumference = n
		}
	}
	if circumference == nil {
		t.Fatalf("circumference node not found among discovered nodes")
	}
	if !circumference.StartTime().IsZero() || !circumference.EndTime().IsZero() {
		t.Fatalf("circumference is the untaken branch: want zero start/end, got start=%v end=%v",
			circumference.StartTime(), circumference.EndTime())
	}

	for _, n := range nodes {
		if n.Name() == "circumference" {
			continue
		}
		if n.StartTime().IsZero() {
			t.Fatalf("node %s: expected a start time stamped by the fake clock", n.Name())
		}
		if n.EndTime().IsZero() {
			t.Fatalf("node %s: expected an end time stamped by the fake clock", n.Name())
		}
	}
}

func namesOf(nodes []*dataflow.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	return names
}
