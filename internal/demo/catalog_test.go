package demo

import "testing"

func TestCatalogListAndGet(t *testing.T) {
	c := NewCatalog()

	scenarios := c.List()
	if len(scenarios) == 0 {
		t.Fatalf("expected at least one scenario")
	}

	for _, s := range scenarios {
		got, ok := c.Get(s.Name)
		if !ok {
			t.Fatalf("Get(%q): not found", s.Name)
		}
		if got.Build == nil {
			t.Fatalf("scenario %q has no Build func", s.Name)
		}
	}

	if _, ok := c.Get("does-not-exist"); ok {
		t.Fatalf("expected unknown scenario to be absent")
	}
}

func TestScenariosBuildAndRun(t *testing.T) {
	c := NewCatalog()
	for _, s := range c.List() {
		node, err := s.Build()
		if err != nil {
			t.Fatalf("scenario %q: Build: %v", s.Name, err)
		}
		if node == nil {
			t.Fatalf("scenario %q: Build returned a nil node", s.Name)
		}
	}
}
