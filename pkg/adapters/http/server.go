package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/sanitize"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/go-chi/chi/v5"
)

// RunRequest is the body of POST /runs.
type RunRequest struct {
	// Definition is either a definition object or a YAML/JSON document string.
	Definition any    `json:"definition"`
	Input      string `json:"input"`
	// Steps lowers the server step limit for this run.
	Steps int `json:"steps,omitempty"`
}

// ErrorResponse is returned for every non-2xx answer.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Issues []string `json:"issues,omitempty"`
}

// DefaultMaxBodyBytes caps request bodies: a full-size input plus a generous definition.
const DefaultMaxBodyBytes = 1 << 20

// Server exposes the engine over HTTP.
type Server struct {
	Engine       *turing.Engine
	Metrics      http.Handler
	Logger       *slog.Logger
	MaxBodyBytes int64
}

// HandlerOption configures the HTTP handler.
type HandlerOption func(*Server)

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) HandlerOption {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMaxBodyBytes rejects request bodies larger than n bytes with 413.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(s *Server) {
		if n > 0 {
			s.MaxBodyBytes = n
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *turing.Engine, opts ...HandlerOption) http.Handler {
	server := &Server{
		Engine:       engine,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": turing.Version})
	})
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	r.Route("/runs", func(r chi.Router) {
		r.Post("/", server.CreateRun)
		r.Get("/", server.ListRuns)
		r.Get("/{id}", server.GetRun)
		r.Delete("/{id}", server.DeleteRun)
	})
	r.Post("/validate", server.Validate)

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateRun handles POST /runs.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	if err := sanitize.Input(body.Input); err != nil {
		writeError(w, http.StatusBadRequest, "Input rejected", err)
		s.Logger.Warn("CreateRun: Input rejected", "error", err, "size", len(body.Input))
		return
	}

	machine, err := schema.FromValue(body.Definition)
	if err != nil {
		writeDefinitionError(w, err)
		return
	}

	record, err := s.Engine.Limited(body.Steps).Run(r.Context(), machine, body.Input)
	switch {
	case errors.Is(err, domain.ErrMalformedMachine):
		writeError(w, http.StatusUnprocessableEntity, "Machine cannot start", err)
		return
	case err != nil && record == nil:
		writeError(w, http.StatusInternalServerError, "Run failed", err)
		s.Logger.Error("CreateRun failed", "error", err)
		return
	case err != nil:
		// The run finished but could not be stored.
		s.Logger.Error("CreateRun: store failed", "run_id", record.ID, "error", err)
	}

	s.Logger.Info("run finished", "run_id", record.ID, "machine", record.Machine, "succeeded", record.Outcome.Succeeded)
	writeJSON(w, http.StatusCreated, record)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	store := s.Engine.Store()
	if store == nil {
		writeError(w, http.StatusNotImplemented, "Run store not configured", nil)
		return
	}

	ids, err := store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "List failed", err)
		s.Logger.Error("ListRuns failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	store := s.Engine.Store()
	if store == nil {
		writeError(w, http.StatusNotImplemented, "Run store not configured", nil)
		return
	}

	id := chi.URLParam(r, "id")
	record, err := store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Run %s not found", id), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Load failed", err)
		s.Logger.Error("GetRun failed", "run_id", id, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	store := s.Engine.Store()
	if store == nil {
		writeError(w, http.StatusNotImplemented, "Run store not configured", nil)
		return
	}

	if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Validate handles POST /validate. The body is a RunRequest; only the definition is read.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	machine, err := schema.FromValue(body.Definition)
	if err != nil {
		writeDefinitionError(w, err)
		return
	}

	issues := validator.ValidateMachine(machine)
	lines := make([]string, 0, len(issues))
	for _, i := range issues {
		lines = append(lines, i.String())
	}
	if err := validator.Err(issues); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "Machine has errors", Issues: lines})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "issues": lines})
}

// decodeBody reads a JSON body of at most MaxBodyBytes into v and writes the
// error response itself when it cannot.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", err)
	} else {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
	}
	s.Logger.Warn("rejected request body", "path", r.URL.Path, "error", err)
	return false
}

func writeDefinitionError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: "Invalid machine definition"}
	for _, e := range schema.ValidationErrors(err) {
		resp.Issues = append(resp.Issues, e.Error())
	}
	if len(resp.Issues) == 0 {
		resp.Issues = []string{err.Error()}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Issues = []string{err.Error()}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
