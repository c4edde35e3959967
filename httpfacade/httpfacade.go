// Package httpfacade exposes the ExecutionFacade over a thin go-chi/chi
// HTTP surface for external collaborators: run endpoints for agents and
// workflows plus a health check. It has no session registration endpoints.
package httpfacade

import (
	"encoding/json"
	"net/http"

	"github.com/agentrt/hostcore/facade"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type runRequest struct {
	SessionKey string `json:"session_key"`
	Input      string `json:"input"`
}

// NewRouter builds the HTTP mux: POST /agents/{name}/run and
// POST /workflows/{name}/run, both delegating straight to fac.
func NewRouter(fac *facade.Facade) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Post("/agents/{name}/run", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		var body runRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, err := fac.RunAgent(req.Context(), name, body.SessionKey, body.Input)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"output": out})
	})

	r.Post("/workflows/{name}/run", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		var body runRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, err := fac.RunWorkflow(req.Context(), name, body.Input)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, result)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
