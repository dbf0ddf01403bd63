package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/sanitize"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunResponse is the structured result of run_machine.
type RunResponse struct {
	ID        string              `json:"id,omitempty" jsonschema_description:"Identifier of the recorded run"`
	Succeeded bool                `json:"succeeded" jsonschema_description:"True when the machine reached a final state"`
	Output    string              `json:"output" jsonschema_description:"Final tape, or the failure diagnostic"`
	Steps     int                 `json:"steps" jsonschema_description:"Number of executed transitions"`
	Trace     []domain.TraceEntry `json:"trace,omitempty" jsonschema_description:"Per-step snapshots, only when requested"`
}

// ValidateResponse is the structured result of validate_machine.
type ValidateResponse struct {
	Valid  bool     `json:"valid" jsonschema_description:"False when any error-level issue was found"`
	Issues []string `json:"issues" jsonschema_description:"Errors and warnings found in the definition"`
}

// Server wraps the Turing Engine and exposes it as an MCP Server.
type Server struct {
	engine    *turing.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *turing.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a single-tape Turing machine on an input and return the final tape or the failure diagnostic."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Machine definition as a YAML or JSON document")),
		mcp.WithString("input", mcp.Description("Initial tape contents (defaults to empty)")),
		mcp.WithNumber("steps", mcp.Description("Maximum number of steps (optional, capped by the server limit)")),
		mcp.WithBoolean("trace", mcp.Description("Include the per-step trace in the result")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunMachine))

	// TOOL: validate_machine
	validateTool := mcp.NewTool("validate_machine",
		mcp.WithDescription("Check a machine definition for structural errors and unreachable states."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Machine definition as a YAML or JSON document")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidateMachine))
}

func (s *Server) handleRunMachine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	def, _ := args["definition"].(string)
	input, _ := args["input"].(string)
	steps, _ := args["steps"].(float64)
	withTrace, _ := args["trace"].(bool)

	if err := sanitize.Input(input); err != nil {
		slog.Warn("MCP run_machine: Input rejected", "error", err, "size", len(input))
		return RunResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	machine, err := schema.FromValue(def)
	if err != nil {
		return RunResponse{}, fmt.Errorf("invalid definition: %w", err)
	}

	record, err := s.engine.Limited(int(steps)).Run(ctx, machine, input)
	if err != nil && record == nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}
	if err != nil {
		slog.Error("MCP run_machine: store failed", "run_id", record.ID, "error", err)
	}

	resp := RunResponse{
		ID:        record.ID,
		Succeeded: record.Outcome.Succeeded,
		Output:    record.Outcome.Output(),
		Steps:     record.Outcome.Steps,
	}
	if withTrace {
		resp.Trace = record.Outcome.Trace
	}
	return resp, nil
}

func (s *Server) handleValidateMachine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	def, _ := args["definition"].(string)

	machine, err := schema.FromValue(def)
	if err != nil {
		resp := ValidateResponse{Issues: []string{}}
		for _, e := range schema.ValidationErrors(err) {
			resp.Issues = append(resp.Issues, e.Error())
		}
		if len(resp.Issues) == 0 {
			resp.Issues = append(resp.Issues, err.Error())
		}
		return resp, nil
	}

	issues := validator.ValidateMachine(machine)
	resp := ValidateResponse{
		Valid:  validator.Err(issues) == nil,
		Issues: make([]string, 0, len(issues)),
	}
	for _, i := range issues {
		resp.Issues = append(resp.Issues, i.String())
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: turing://runs
	s.mcpServer.AddResource(mcp.NewResource("turing://runs", "Recorded Runs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.listRuns(ctx)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://runs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

var errNoStore = errors.New("run store not configured")

func (s *Server) listRuns(ctx context.Context) ([]string, error) {
	store := s.engine.Store()
	if store == nil {
		return nil, errNoStore
	}
	ids, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
