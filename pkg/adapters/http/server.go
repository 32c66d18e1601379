package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/runner"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/go-chi/chi/v5"
	oapiruntime "github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies; grammar documents are small.
const maxBodyBytes = 1 << 20

// Server exposes an arbor engine and its growth sessions over HTTP.
type Server struct {
	Engine   *arbor.Engine
	Sessions *session.Manager
	Streams  *StreamManager

	gatherer      prometheus.Gatherer
	parser        *compiler.Parser
	logger        *slog.Logger
	maxIterations int
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves the given registry at /metrics.
// Without it the default Prometheus registry is used.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMaxIterations caps the rewriting passes a request may ask for.
// Sequences grow geometrically with the pass count, so the cap bounds the
// memory a single request can take. Zero or less removes the cap.
// The default is validator.LargeIterations.
func WithMaxIterations(n int) Option {
	return func(s *Server) {
		s.maxIterations = n
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer wires the engine and the session manager.
func NewServer(engine *arbor.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:        engine,
		Sessions:      sessions,
		gatherer:      prometheus.DefaultGatherer,
		parser:        compiler.NewParser(),
		logger:        engine.Logger(),
		maxIterations: validator.LargeIterations,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *arbor.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetSpec)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/presets", func(r chi.Router) {
		r.Get("/", s.ListPresets)
		r.Get("/{name}", s.GetPreset)
		r.Get("/{name}/sequence", s.ExpandPreset)
	})
	r.Post("/generate", s.Generate)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.StartSession)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Post("/{id}/tick", s.TickSession)
		r.Get("/{id}/events", s.SubscribeSession)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "arbor-http",
		"version":     strings.TrimSpace(arbor.Version),
		"api_version": apiVersion,
		"library":     s.Engine.Name,
	})
}

// GetSpec serves the embedded OpenAPI document.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	if _, err := GetSwagger(); err != nil {
		s.logger.Error("failed to load OpenAPI document", "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(rawSpec)
}

// GrammarSummary is a list entry of GET /presets.
type GrammarSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Iterations  int    `json:"iterations"`
}

// ListPresets handles the GET /presets request.
func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.Grammars()
	if err != nil {
		s.fail(w, "ListPresets", err)
		return
	}
	out := make([]GrammarSummary, 0, len(names))
	for _, name := range names {
		g, err := s.Engine.Grammar(name)
		if err != nil {
			// A broken document must not hide the rest of the library.
			s.logger.Warn("skipping unparsable grammar", "grammar", name, "err", err)
			continue
		}
		out = append(out, GrammarSummary{Name: name, Description: g.Description, Iterations: g.Iterations})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetPreset handles the GET /presets/{name} request.
func (s *Server) GetPreset(w http.ResponseWriter, r *http.Request) {
	g, err := s.Engine.Grammar(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetPreset", err)
		return
	}
	s.writeJSON(w, http.StatusOK, compiler.ToMetadata(g))
}

// SequenceResponse is the body of GET /presets/{name}/sequence.
type SequenceResponse struct {
	Grammar    string `json:"grammar"`
	Iterations int    `json:"iterations"`
	Length     int    `json:"length"`
	Sequence   string `json:"sequence"`
}

// ExpandPreset handles the GET /presets/{name}/sequence request.
func (s *Server) ExpandPreset(w http.ResponseWriter, r *http.Request) {
	var iterations *int
	if err := oapiruntime.BindQueryParameter("form", true, false, "iterations", r.URL.Query(), &iterations); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter iterations: %w", err))
		return
	}

	g, err := s.Engine.Grammar(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "ExpandPreset", err)
		return
	}
	if iterations != nil {
		g.Iterations = *iterations
	}
	if err := s.checkIterations(g.Iterations); err != nil {
		s.fail(w, "ExpandPreset", err)
		return
	}

	seq, err := s.Engine.Expand(r.Context(), g)
	if err != nil {
		s.fail(w, "ExpandPreset", err)
		return
	}
	s.writeJSON(w, http.StatusOK, SequenceResponse{
		Grammar:    g.Name,
		Iterations: g.Iterations,
		Length:     len(seq),
		Sequence:   seq.String(),
	})
}

// GenerateRequest is the body of POST /generate.
// Exactly one of Grammar and Definition must be set.
type GenerateRequest struct {
	Grammar    string               `json:"grammar,omitempty"`
	Definition *dto.GrammarMetadata `json:"definition,omitempty"`
	Iterations *int                 `json:"iterations,omitempty"`
	Seed       int64                `json:"seed,omitempty"`
}

// GenerateResponse is the body returned by POST /generate.
type GenerateResponse struct {
	Grammar  string       `json:"grammar"`
	Sequence string       `json:"sequence"`
	CacheHit bool         `json:"cache_hit"`
	Stats    domain.Stats `json:"stats"`
	Tree     *domain.Tree `json:"tree"`
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if !s.decode(w, r, &body) {
		return
	}

	var (
		g   *domain.Grammar
		err error
	)
	switch {
	case body.Definition != nil && body.Grammar != "":
		s.writeError(w, http.StatusBadRequest, errors.New("set either grammar or definition, not both"))
		return
	case body.Definition != nil:
		g, err = s.parser.FromMetadata(*body.Definition)
		if err == nil && g.Name == "" {
			g.Name = "inline"
		}
	case body.Grammar != "":
		g, err = s.Engine.Grammar(body.Grammar)
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("grammar or definition is required"))
		return
	}
	if err != nil {
		s.fail(w, "Generate", err)
		return
	}
	if body.Iterations != nil {
		g.Iterations = *body.Iterations
	}
	if err := s.checkIterations(g.Iterations); err != nil {
		s.fail(w, "Generate", err)
		return
	}

	engine := s.Engine
	if body.Seed != 0 {
		engine = engine.Seeded(body.Seed)
	}
	res, err := engine.Generate(r.Context(), g)
	if err != nil {
		s.fail(w, "Generate", err)
		return
	}
	s.writeJSON(w, http.StatusOK, GenerateResponse{
		Grammar:  res.Grammar,
		Sequence: res.Sequence.String(),
		CacheHit: res.CacheHit,
		Stats:    res.Tree.Stats(),
		Tree:     res.Tree,
	})
}

// StartRequest is the body of POST /sessions.
type StartRequest struct {
	Grammar    string `json:"grammar"`
	Iterations *int   `json:"iterations,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// StartSession handles the POST /sessions request.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Grammar == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("grammar is required"))
		return
	}

	req := session.StartRequest{Grammar: body.Grammar, Iterations: -1, Seed: body.Seed}
	if body.Iterations != nil {
		req.Iterations = *body.Iterations
	} else if g, err := s.Engine.Grammar(body.Grammar); err == nil {
		req.Iterations = g.Iterations
	}
	if err := s.checkIterations(req.Iterations); err != nil {
		s.fail(w, "StartSession", err)
		return
	}
	sess, err := s.Sessions.Start(r.Context(), req)
	if err != nil {
		s.fail(w, "StartSession", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TickSession handles the POST /sessions/{id}/tick request.
// The resulting diff is broadcast to the session's event subscribers.
func (s *Server) TickSession(w http.ResponseWriter, r *http.Request) {
	var dtMillis *int
	if err := oapiruntime.BindQueryParameter("form", true, false, "dt", r.URL.Query(), &dtMillis); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter dt: %w", err))
		return
	}
	dt := runner.DefaultStep
	if dtMillis != nil {
		if *dtMillis < 0 {
			s.writeError(w, http.StatusBadRequest, errors.New("dt must not be negative"))
			return
		}
		dt = time.Duration(*dtMillis) * time.Millisecond
	}

	id := chi.URLParam(r, "id")
	res, err := s.Sessions.Tick(r.Context(), id, dt)
	if err != nil {
		s.fail(w, "TickSession", err)
		return
	}

	if res.Diff != nil {
		if bytes, err := json.Marshal(res.Diff); err == nil {
			s.Streams.Broadcast(id, string(bytes))
		}
	}
	s.writeJSON(w, http.StatusOK, res)
}

// SubscribeSession handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), id); err != nil {
		s.fail(w, "SubscribeSession", err)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: subscribed to session", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// fail maps domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "err", err, "status", status)
	}
	s.writeError(w, status, err)
}

// checkIterations rejects pass counts above the configured cap.
func (s *Server) checkIterations(n int) error {
	if s.maxIterations > 0 && n > s.maxIterations {
		return fmt.Errorf("%w: %d passes requested, at most %d allowed", domain.ErrIterationLimit, n, s.maxIterations)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrIterationLimit):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGrammarNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidGrammar),
		errors.Is(err, domain.ErrInvalidRule),
		errors.Is(err, domain.ErrUnbalancedBracket):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
