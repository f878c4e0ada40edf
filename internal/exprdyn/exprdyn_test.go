package exprdyn

import "testing"

func TestNewConditionEvaluatesExpression(t *testing.T) {
	r, err := NewCondition("a_gt_b", []string{"a", "b"}, "a > b")
	if err != nil {
		t.Fatalf("NewCondition: %v", err)
	}

	got, err := r.Call(9, 3)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != true {
		t.Fatalf("want true, got %v", got)
	}

	got, err = r.Call(3, 9)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != false {
		t.Fatalf("want false, got %v", got)
	}
}

func TestNewConditionRejectsInvalidExpression(t *testing.T) {
	if _, err := NewCondition("broken", []string{"a"}, "a +"); err == nil {
		t.Fatalf("expected a compile error")
	}
}

func TestNewConditionRejectsNonBoolExpression(t *testing.T) {
	if _, err := NewCondition("not_bool", []string{"a"}, "a + 1"); err == nil {
		t.Fatalf("expected a compile error for a non-bool expression")
	}
}
