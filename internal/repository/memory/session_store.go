package memory

import (
	"context"
	"sync"
	"time"

	"clinical-eval-be/internal/repository/contract"
	"clinical-eval-be/pkg/store"
)

// SessionStore is the in-memory session store: a mutex-guarded map rather
// than ambient global state. Expiry is lazy: entries are purged by the
// lookup or sweep that discovers them, not by a background timer.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*store.Session
	now      func() time.Time
}

var _ contract.SessionStore = &SessionStore{}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*store.Session),
		now:      time.Now,
	}
}

// NewSessionStoreWithClock injects the clock, for expiry tests
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*store.Session),
		now:      now,
	}
}

func (r *SessionStore) Create(_ context.Context, session *store.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Amortized cleanup: bounded by current entry count
	r.sweepLocked(r.now())

	if _, exists := r.sessions[session.ID]; exists {
		return contract.ErrDuplicateSession
	}
	// Store a copy so the caller's pointer cannot mutate the entry behind
	// the lock
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *SessionStore) Get(_ context.Context, id string) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, contract.ErrSessionNotFound
	}
	if session.Expired(r.now()) {
		delete(r.sessions, id)
		return nil, contract.ErrSessionExpired
	}
	// Snapshot: a concurrent Update appending to the transcript must never
	// be visible through a previously returned session
	return session.Clone(), nil
}

func (r *SessionStore) Update(_ context.Context, id string, mutate func(*store.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[id]
	if !exists {
		return contract.ErrSessionNotFound
	}
	if session.Expired(r.now()) {
		delete(r.sessions, id)
		return contract.ErrSessionExpired
	}
	return mutate(session)
}

func (r *SessionStore) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *SessionStore) SweepExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now()), nil
}

func (r *SessionStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the current entry count (expired entries included until swept)
func (r *SessionStore) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
