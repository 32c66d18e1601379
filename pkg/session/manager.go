package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	engine *arbor.Engine
	store  ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	rate   float32
	now    func() time.Time
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRate overrides the growth speed of every session.
func WithRate(rate float32) Option {
	return func(m *Manager) {
		m.rate = rate
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Session Manager generating trees with engine.
func NewManager(engine *arbor.Engine, store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		engine: engine,
		store:  store,
		locks:  make(map[string]*lockEntry),
		rate:   domain.DefaultGrowthRate,
		now:    time.Now,
		logger: logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// StartRequest describes a new session.
type StartRequest struct {
	Grammar    string `json:"grammar"`
	Iterations int    `json:"iterations"` // negative keeps the grammar's own count
	Seed       int64  `json:"seed"`       // zero picks one from the clock
}

// Start generates a tree and registers it as a new session.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*domain.Session, error) {
	seed := req.Seed
	if seed == 0 {
		seed = m.now().UnixNano()
	}

	res, err := m.engine.Seeded(seed).GenerateByName(ctx, req.Grammar, req.Iterations)
	if err != nil {
		return nil, err
	}

	s := &domain.Session{
		ID:      uuid.NewString(),
		Grammar: res.Grammar,
		Seed:    seed,
		Tree:    res.Tree,
		Created: m.now(),
	}

	err = m.WithLock(ctx, s.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	m.logger.Info("session started",
		"session_id", s.ID,
		"grammar", s.Grammar,
		"seed", seed,
		"branches", s.Tree.Len(),
	)
	return s, nil
}

// TickResult is the outcome of a single growth step of a session.
type TickResult struct {
	Session *domain.Session    `json:"session"`
	Event   domain.TickEvent   `json:"event"`
	Diff    *domain.GrowthDiff `json:"diff,omitempty"`
}

// Tick advances a session by dt and persists the new lengths.
func (m *Manager) Tick(ctx context.Context, sessionID string, dt time.Duration) (*TickResult, error) {
	var result *TickResult
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		before := domain.Snapshot(s.Tree)
		sim := m.engine.NewSimulator(s.Tree,
			arbor.ResumeFrom(s.Ticks, s.Elapsed),
			arbor.WithGrowthRate(m.rate),
		)
		ev := sim.Grow(ctx, dt)

		s.Ticks = sim.Ticks()
		s.Elapsed = sim.Elapsed()
		if err := m.store.Save(ctx, s); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		diff := domain.Diff(before, s.Tree)
		if diff != nil {
			diff.SessionID = s.ID
		}
		result = &TickResult{Session: s, Event: ev, Diff: diff}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.store.Load(ctx, sessionID)
		return err
	})
	return s, err
}

// Delete removes the session from the store.
// Deleting an unknown session reports domain.ErrSessionNotFound.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound)
}
