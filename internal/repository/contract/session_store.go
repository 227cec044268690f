package contract

import (
	"context"
	"errors"

	"clinical-eval-be/pkg/store"
)

// Lifecycle errors. Expired is distinct from NotFound so the API layer can
// render 410 vs 404.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrDuplicateSession = errors.New("duplicate session id")
)

// SessionStore is keyed, TTL-bounded storage for session records. All
// mutations are applied atomically with respect to one another; no
// transaction spans more than one session.
type SessionStore interface {
	// Create stores the session under its ID. The caller sets CreatedAt and
	// ExpiresAt before calling. Fails with ErrDuplicateSession on collision.
	// Implementations sweep expired entries opportunistically before insert.
	Create(ctx context.Context, session *store.Session) error

	// Get returns the session only while unexpired. An expired entry is
	// purged on the lookup that discovers it and reported as
	// ErrSessionExpired; the next Get reports ErrSessionNotFound.
	Get(ctx context.Context, id string) (*store.Session, error)

	// Update applies an in-place mutation (transcript append, result
	// write-back) iff the session is present and unexpired.
	Update(ctx context.Context, id string, mutate func(*store.Session) error) error

	// Delete removes the session, reporting whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// SweepExpired removes every entry past its expiry, returning the count.
	SweepExpired(ctx context.Context) (int, error)
}
