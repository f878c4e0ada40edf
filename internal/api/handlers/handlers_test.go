package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pts-dfcompu/dfcompu/internal/demo"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	return New(demo.NewCatalog())
}

func requestWithChiParam(method, target, param, value string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListScenarios(t *testing.T) {
	h := newTestHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/scenarios", nil)
	rec := httptest.NewRecorder()

	h.ListScenarios(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var scenarios []demo.Scenario
	if err := json.Unmarshal(rec.Body.Bytes(), &scenarios); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("expected at least one scenario")
	}
}

func TestRunScenarioSuccess(t *testing.T) {
	h := newTestHandlers(t)
	req := requestWithChiParam(http.MethodPost, "/api/v1/scenarios/fibonacci/run", "name", "fibonacci")
	rec := httptest.NewRecorder()

	h.RunScenario(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if len(resp.Nodes) == 0 {
		t.Fatalf("expected discovered nodes in the instrumentation")
	}
}

func TestRunScenarioUnknown(t *testing.T) {
	h := newTestHandlers(t)
	req := requestWithChiParam(http.MethodPost, "/api/v1/scenarios/nope/run", "name", "nope")
	rec := httptest.NewRecorder()

	h.RunScenario(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestRunScenarioException(t *testing.T) {
	h := newTestHandlers(t)
	req := requestWithChiParam(http.MethodPost, "/api/v1/scenarios/exception/run", "name", "exception")
	rec := httptest.NewRecorder()

	h.RunScenario(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", rec.Code)
	}
	var resp runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected an error message")
	}
}
