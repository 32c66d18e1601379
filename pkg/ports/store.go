package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// SessionStore holds live growth sessions.
// Sessions are process-local; implementations are not expected to persist them.
type SessionStore interface {
	// Save stores the session under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves a session.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]string, error)
}
