// Package handlers implements the HTTP handlers for the dataflow demo
// dashboard: listing the built-in recipe catalog and triggering a run of
// one, with the discovered node timeline returned as instrumentation.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pts-dfcompu/dfcompu/internal/demo"
	"github.com/pts-dfcompu/dfcompu/pkg/dataflow"
)

// Handlers holds the demo recipe catalog used to serve requests.
type Handlers struct {
	Catalog *demo.Catalog
}

// New builds a Handlers bound to the given catalog.
func New(catalog *demo.Catalog) *Handlers {
	return &Handlers{Catalog: catalog}
}

// ListScenarios returns the names and descriptions of every demo scenario.
func (h *Handlers) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.List())
}

// nodeView is the JSON shape of one instrumented node.
type nodeView struct {
	Name      string `json:"name"`
	StartedAt string `json:"started_at,omitempty"`
	EndedAt   string `json:"ended_at,omitempty"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

type runResponse struct {
	Scenario string     `json:"scenario"`
	Result   any        `json:"result,omitempty"`
	Error    string     `json:"error,omitempty"`
	Nodes    []nodeView `json:"nodes"`
}

// RunScenario builds and runs one named demo scenario, optionally using
// the thread-pool runner (?pool=<size>), and returns its result plus the
// discovered node timeline.
func (h *Handlers) RunScenario(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	scenario, ok := h.Catalog.Get(name)
	if !ok {
		http.Error(w, "unknown scenario: "+name, http.StatusNotFound)
		return
	}

	node, err := scenario.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	opts := []dataflow.RunOption{dataflow.WithContext(scenario.Context)}
	var debug []*dataflow.Node
	opts = append(opts, dataflow.WithDebugNodes(&debug))

	if poolSize := r.URL.Query().Get("pool"); poolSize != "" {
		n, perr := parsePositiveInt(poolSize)
		if perr == nil && n > 0 {
			if runner, rerr := dataflow.ThreadPoolRunner(n); rerr == nil {
				opts = append(opts, dataflow.WithRunner(runner))
			}
		}
	}

	resp := runResponse{Scenario: name}
	value, runErr := node.Run(opts...)
	if runErr != nil {
		resp.Error = runErr.Error()
	} else {
		resp.Result = value
	}
	for _, n := range debug {
		resp.Nodes = append(resp.Nodes, describeNode(n))
	}

	status := http.StatusOK
	if runErr != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func describeNode(n *dataflow.Node) nodeView {
	v := nodeView{Name: n.Name()}
	if !n.StartTime().IsZero() {
		v.StartedAt = n.StartTime().Format(time.RFC3339Nano)
	}
	if !n.EndTime().IsZero() {
		v.EndedAt = n.EndTime().Format(time.RFC3339Nano)
	}
	if result, ok := n.Result(); ok {
		if exc, isExc := result.(dataflow.ExceptionResult); isExc {
			v.Error = exc.Error()
		} else {
			v.Result = result
		}
	}
	return v
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, &dataflow.ConstructionError{Msg: "not a number: " + s}
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
