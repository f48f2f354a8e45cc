package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// LivenessHandler returns an HTTP handler for liveness probes.
// It only shows that the process is serving requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler reports the registry's overall state as plain text.
// Down is served as 503; Healthy and Degraded as 200.
func ReadinessHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := reg.OverallHealth()

		w.Header().Set("Content-Type", "text/plain")
		switch status {
		case StateHealthy:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		case StateDegraded:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("DOWN"))
		}
	}
}

// HealthResponse is the JSON body of the detailed endpoint.
type HealthResponse struct {
	Status      string                       `json:"status"`
	Timestamp   string                       `json:"timestamp"`
	LastChecked string                       `json:"last_checked,omitempty"`
	Components  map[string]ComponentResponse `json:"components"`
}

// ComponentResponse is the JSON body for one component.
type ComponentResponse struct {
	State      string `json:"state"`
	ObservedAt string `json:"observed_at"`
	Message    string `json:"message,omitempty"`
}

func componentResponse(s ComponentStatus) ComponentResponse {
	return ComponentResponse{
		State:      s.State.String(),
		ObservedAt: s.ObservedAt.UTC().Format(time.RFC3339Nano),
		Message:    s.Message,
	}
}

// DetailedHandler serves the full snapshot as JSON.
func DetailedHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := reg.Snapshot()
		status := reg.Policy().Aggregate(snap.Components)

		resp := HealthResponse{
			Status:     status.String(),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Components: make(map[string]ComponentResponse, len(snap.Components)),
		}
		if !snap.LastChecked.IsZero() {
			resp.LastChecked = snap.LastChecked.UTC().Format(time.RFC3339Nano)
		}
		for name, c := range snap.Components {
			resp.Components[name] = componentResponse(c)
		}

		code := http.StatusOK
		if status == StateDown {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	}
}

// ComponentHandler serves GET /health/{name}.
func ComponentHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		s, ok := reg.Status(name)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "component not found"})
			return
		}
		writeJSON(w, http.StatusOK, componentResponse(s))
	}
}

// ReportRequest is the JSON body accepted by ReportHandler.
type ReportRequest struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

// ReportHandler serves PUT /health/{name}, recording a pushed status.
func ReportHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReportRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed body"})
			return
		}

		state, err := ParseState(req.State)
		if err == nil {
			err = reg.ReportStatus(r.Context(), ComponentStatus{
				Name:    r.PathValue("name"),
				State:   state,
				Message: req.Message,
			})
		}
		switch {
		case errors.Is(err, ErrInvalidState), errors.Is(err, ErrEmptyName):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		s, _ := reg.Status(r.PathValue("name"))
		writeJSON(w, http.StatusOK, componentResponse(s))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterHandlers registers all health handlers on mux.
func RegisterHandlers(mux *http.ServeMux, reg *Registry) {
	mux.HandleFunc("GET /healthz", LivenessHandler())
	mux.HandleFunc("GET /readyz", ReadinessHandler(reg))
	mux.HandleFunc("GET /health", DetailedHandler(reg))
	mux.HandleFunc("GET /health/{name}", ComponentHandler(reg))
	mux.HandleFunc("PUT /health/{name}", ReportHandler(reg))
}
