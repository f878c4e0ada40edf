// Package demo wires the worked recipes in internal/examples into the
// small set of named scenarios the dashboard can list and trigger.
package demo

import (
	"errors"
	"time"

	"github.com/pts-dfcompu/dfcompu/internal/examples"
	"github.com/pts-dfcompu/dfcompu/internal/exprdyn"
	"github.com/pts-dfcompu/dfcompu/internal/retry"
	"github.com/pts-dfcompu/dfcompu/pkg/dataflow"
)

// Scenario is one demo graph the dashboard can build and run on request.
type Scenario struct {
	Name        string                         `json:"name"`
	Description string                         `json:"description"`
	Context     map[string]any                 `json:"-"`
	Build       func() (*dataflow.Node, error) `json:"-"`
}

// Catalog is the fixed set of scenarios exposed by the demo dashboard.
type Catalog struct {
	scenarios []Scenario
	byName    map[string]Scenario
}

// NewCatalog builds the catalog of built-in scenarios.
func NewCatalog() *Catalog {
	scenarios := []Scenario{
		{
			Name:        "fibonacci",
			Description: "three applications of next_fib starting from (5, 7)",
			Build: func() (*dataflow.Node, error) {
				step1, err := examples.NextFib.Node(5, 7)
				if err != nil {
					return nil, err
				}
				a1, err := step1.At(0)
				if err != nil {
					return nil, err
				}
				b1, err := step1.At(1)
				if err != nil {
					return nil, err
				}
				step2, err := examples.NextFib.Node(a1, b1)
				if err != nil {
					return nil, err
				}
				a2, err := step2.At(0)
				if err != nil {
					return nil, err
				}
				b2, err := step2.At(1)
				if err != nil {
					return nil, err
				}
				return examples.NextFib.Node(a2, b2)
			},
		},
		{
			Name:        "conditional",
			Description: "a lazy cond() choosing between area and circumference based on next_fib's second component",
			Build: func() (*dataflow.Node, error) {
				fib, err := examples.NextFib.Node(5, 7)
				if err != nil {
					return nil, err
				}
				c, err := fib.At(1)
				if err != nil {
					return nil, err
				}
				area, err := examples.Area.Node(5, 7)
				if err != nil {
					return nil, err
				}
				circ, err := examples.Circumference.Node(5, 7)
				if err != nil {
					return nil, err
				}
				return examples.Cond.Node(c, area, circ)
			},
		},
		{
			Name:        "or_all",
			Description: "first truthy value among false, 33, 0, 44, 0.0",
			Build: func() (*dataflow.Node, error) {
				return examples.OrAll.Node(false, 33, 0, 44, 0.0)
			},
		},
		{
			Name:        "input_sequence",
			Description: "add_tuple unwrapping an InputSequence holding a constant and an area node",
			Build: func() (*dataflow.Node, error) {
				area, err := examples.Area.Node(2, 3)
				if err != nil {
					return nil, err
				}
				seq := dataflow.NewInputSequence(5, area)
				return examples.AddTuple.Node(seq, []any{7})
			},
		},
		{
			Name:        "context_keys",
			Description: "xkeys() sorting the run's context keys, with context {Jan:0, Feb:1}",
			Context:     map[string]any{"Jan": 0, "Feb": 1},
			Build: func() (*dataflow.Node, error) {
				return examples.Xkeys.Node()
			},
		},
		{
			Name:        "context_multiply",
			Description: "cmul(5) reading its second argument from context key b",
			Context:     map[string]any{"b": 8},
			Build: func() (*dataflow.Node, error) {
				return examples.Cmul.Node(5)
			},
		},
		{
			Name:        "exception",
			Description: "area() fed by two bad_luck() nodes that always fail",
			Build: func() (*dataflow.Node, error) {
				n1, err := examples.BadLuck.Node()
				if err != nil {
					return nil, err
				}
				n2, err := examples.BadLuck.Node()
				if err != nil {
					return nil, err
				}
				return examples.Area.Node(n1, n2)
			},
		},
		{
			Name:        "expr_condition",
			Description: "cond() whose condition is an expr-lang expression (a > b) compiled each time the scenario is built",
			Build: func() (*dataflow.Node, error) {
				greater, err := exprdyn.NewCondition("a_gt_b", []string{"a", "b"}, "a > b")
				if err != nil {
					return nil, err
				}
				area, err := examples.Area.Node(5, 7)
				if err != nil {
					return nil, err
				}
				circ, err := examples.Circumference.Node(5, 7)
				if err != nil {
					return nil, err
				}
				c, err := greater.Node(3, 9)
				if err != nil {
					return nil, err
				}
				return examples.Cond.Node(c, area, circ)
			},
		},
		{
			Name:        "flaky_retry",
			Description: "a node that fails twice before succeeding, wrapped in exponential backoff",
			Build: func() (*dataflow.Node, error) {
				attempt := 0
				flaky := retry.NewRecipe("flaky_double", []string{"x"}, func(args []any) (any, error) {
					attempt++
					if attempt < 3 {
						return nil, errors.New("transient failure")
					}
					return args[0].(int) * 2, nil
				}, 5*time.Second)
				return flaky.Node(21)
			},
		},
	}

	byName := make(map[string]Scenario, len(scenarios))
	for _, s := range scenarios {
		byName[s.Name] = s
	}
	return &Catalog{scenarios: scenarios, byName: byName}
}

// List returns every scenario's name and description.
func (c *Catalog) List() []Scenario {
	out := make([]Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// Get looks up a scenario by name.
func (c *Catalog) Get(name string) (Scenario, bool) {
	s, ok := c.byName[name]
	return s, ok
}
