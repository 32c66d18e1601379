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

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// resourcePrefix addresses grammar documents, e.g. arbor://grammars/plant.
const resourcePrefix = "arbor://grammars/"

// GrammarSummary is a list entry returned by list_presets.
type GrammarSummary struct {
	Name        string `json:"name" jsonschema_description:"Grammar name"`
	Description string `json:"description,omitempty" jsonschema_description:"Human readable description"`
	Iterations  int    `json:"iterations" jsonschema_description:"Default number of rewriting passes"`
}

// ListResponse is the result of list_presets.
type ListResponse struct {
	Grammars []GrammarSummary `json:"grammars" jsonschema_description:"Every grammar served by the engine"`
}

// ExpandArgs are the arguments of expand_grammar.
type ExpandArgs struct {
	Grammar    string `json:"grammar"`
	Iterations *int   `json:"iterations,omitempty"`
}

// ExpandResponse is the result of expand_grammar.
type ExpandResponse struct {
	Grammar    string `json:"grammar" jsonschema_description:"Grammar name"`
	Iterations int    `json:"iterations" jsonschema_description:"Rewriting passes applied"`
	Length     int    `json:"length" jsonschema_description:"Number of symbols"`
	Sequence   string `json:"sequence" jsonschema_description:"The expanded sequence"`
}

// BuildArgs are the arguments of build_tree.
type BuildArgs struct {
	Grammar    string `json:"grammar"`
	Iterations *int   `json:"iterations,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
	Format     string `json:"format,omitempty"`
}

// BuildResponse is the result of build_tree.
type BuildResponse struct {
	Grammar  string       `json:"grammar" jsonschema_description:"Grammar name"`
	Sequence int          `json:"sequence_length" jsonschema_description:"Number of symbols interpreted"`
	Stats    domain.Stats `json:"stats" jsonschema_description:"Branch count, leaves and depth"`
	Tree     *domain.Tree `json:"tree,omitempty" jsonschema_description:"Flat branch list (format=json)"`
	Mermaid  string       `json:"mermaid,omitempty" jsonschema_description:"Mermaid flowchart (format=mermaid)"`
}

// Server wraps the arbor Engine and exposes it as an MCP Server.
type Server struct {
	engine        *arbor.Engine
	logger        *slog.Logger
	mcpServer     *server.MCPServer
	maxIterations int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxIterations caps the rewriting passes a tool call may ask for.
// Zero or less removes the cap. The default is validator.LargeIterations.
func WithMaxIterations(n int) Option {
	return func(s *Server) {
		s.maxIterations = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *arbor.Engine, opts ...Option) *Server {
	s := &Server{
		engine:        engine,
		logger:        engine.Logger(),
		mcpServer:     server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
		maxIterations: validator.LargeIterations,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_presets
	s.mcpServer.AddTool(mcp.NewTool("list_presets",
		mcp.WithDescription("List the L-system grammars available to the engine."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleListPresets))

	// TOOL: expand_grammar
	s.mcpServer.AddTool(mcp.NewTool("expand_grammar",
		mcp.WithDescription("Rewrite a grammar's axiom and return the resulting symbol sequence."),
		mcp.WithString("grammar", mcp.Required(), mcp.Description("Grammar name, see list_presets")),
		mcp.WithNumber("iterations", mcp.Description("Rewriting passes; defaults to the grammar's own count")),
		mcp.WithOutputSchema[ExpandResponse](),
	), mcp.NewStructuredToolHandler(s.handleExpand))

	// TOOL: build_tree
	s.mcpServer.AddTool(mcp.NewTool("build_tree",
		mcp.WithDescription("Expand a grammar and interpret it into a 3D branch tree."),
		mcp.WithString("grammar", mcp.Required(), mcp.Description("Grammar name, see list_presets")),
		mcp.WithNumber("iterations", mcp.Description("Rewriting passes; defaults to the grammar's own count")),
		mcp.WithNumber("seed", mcp.Description("Seed for ranged turns; omit for a random tree")),
		mcp.WithString("format", mcp.Enum("summary", "json", "mermaid"), mcp.Description("Include the branch list or a Mermaid chart")),
		mcp.WithOutputSchema[BuildResponse](),
	), mcp.NewStructuredToolHandler(s.handleBuild))
}

func (s *Server) handleListPresets(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (ListResponse, error) {
	names, err := s.engine.Grammars()
	if err != nil {
		return ListResponse{}, fmt.Errorf("failed to list grammars: %w", err)
	}
	resp := ListResponse{Grammars: make([]GrammarSummary, 0, len(names))}
	for _, name := range names {
		g, err := s.engine.Grammar(name)
		if err != nil {
			s.logger.Warn("MCP: skipping unparsable grammar", "grammar", name, "err", err)
			continue
		}
		resp.Grammars = append(resp.Grammars, GrammarSummary{
			Name:        name,
			Description: g.Description,
			Iterations:  g.Iterations,
		})
	}
	return resp, nil
}

func (s *Server) handleExpand(ctx context.Context, request mcp.CallToolRequest, args ExpandArgs) (ExpandResponse, error) {
	g, err := s.engine.Grammar(args.Grammar)
	if err != nil {
		return ExpandResponse{}, err
	}
	if args.Iterations != nil {
		g.Iterations = *args.Iterations
	}
	if err := s.checkIterations(g.Iterations); err != nil {
		return ExpandResponse{}, err
	}
	seq, err := s.engine.Expand(ctx, g)
	if err != nil {
		return ExpandResponse{}, fmt.Errorf("expand failed: %w", err)
	}
	return ExpandResponse{
		Grammar:    g.Name,
		Iterations: g.Iterations,
		Length:     len(seq),
		Sequence:   seq.String(),
	}, nil
}

func (s *Server) handleBuild(ctx context.Context, request mcp.CallToolRequest, args BuildArgs) (BuildResponse, error) {
	g, err := s.engine.Grammar(args.Grammar)
	if err != nil {
		return BuildResponse{}, err
	}
	if args.Iterations != nil {
		g.Iterations = *args.Iterations
	}
	if err := s.checkIterations(g.Iterations); err != nil {
		return BuildResponse{}, err
	}

	engine := s.engine
	if args.Seed != 0 {
		engine = engine.Seeded(args.Seed)
	}
	res, err := engine.Generate(ctx, g)
	if err != nil {
		return BuildResponse{}, fmt.Errorf("build failed: %w", err)
	}

	resp := BuildResponse{
		Grammar:  res.Grammar,
		Sequence: len(res.Sequence),
		Stats:    res.Tree.Stats(),
	}
	switch args.Format {
	case "", "summary":
	case "json":
		resp.Tree = res.Tree
	case "mermaid":
		resp.Mermaid = graph.GenerateMermaid(res.Tree, graph.Options{})
	default:
		return BuildResponse{}, fmt.Errorf("unknown format %q", args.Format)
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://grammars/{name}
	tmpl := mcp.NewResourceTemplate(resourcePrefix+"{name}", "Grammar Document",
		mcp.WithTemplateDescription("A grammar normalised to its JSON document form"),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.mcpServer.AddResourceTemplate(tmpl, s.readGrammar)
}

func (s *Server) readGrammar(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	name := strings.TrimPrefix(uri, resourcePrefix)
	if name == uri || name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrammarNotFound, uri)
	}

	g, err := s.engine.Grammar(name)
	if err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(compiler.ToMetadata(g))
	if err != nil {
		return nil, fmt.Errorf("failed to encode grammar: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) checkIterations(n int) error {
	if s.maxIterations > 0 && n > s.maxIterations {
		return fmt.Errorf("%w: %d passes requested, at most %d allowed", domain.ErrIterationLimit, n, s.maxIterations)
	}
	return nil
}
