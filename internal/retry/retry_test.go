package retry

import (
	"errors"
	"testing"
	"time"
)

func TestNewRecipeRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	r := NewRecipe("flaky", []string{"x"}, func(args []any) (any, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient")
		}
		return args[0].(int) * 2, nil
	}, 5*time.Second)

	got, err := r.Call(21)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got.(int) != 42 {
		t.Fatalf("want 42, got %v", got)
	}
	if attempts != 3 {
		t.Fatalf("want 3 attempts, got %d", attempts)
	}
}

func TestNewRecipeGivesUpAfterMaxElapsed(t *testing.T) {
	r := NewRecipe("always_fails", []string{"x"}, func(args []any) (any, error) {
		return nil, errors.New("permanent")
	}, 20*time.Millisecond)

	if _, err := r.Call(1); err == nil {
		t.Fatalf("expected an error once the backoff budget is exhausted")
	}
}
