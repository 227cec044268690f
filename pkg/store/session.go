package store

import (
	"time"

	"clinical-eval-be/pkg/evaluation"
)

// Class selects the session lifecycle policy (TTL + record-size ceiling)
type Class string

const (
	ClassScreening  Class = "screening"   // trial eligibility screening
	ClassRecordChat Class = "record-chat" // conversational Q&A over a record
	ClassDiagnostic Class = "diagnostic"  // longevity checklist assessment
)

// Transcript roles
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one role-tagged transcript entry. Transcript order is
// submission order; entries are append-only.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session holds one request's submitted record, its structured context and
// the evolving transcript/result for a bounded lifetime.
//
// The record and context are immutable after creation; only Transcript and
// Result mutate, and only through the owning store's Update.
type Session struct {
	ID      string         `json:"id"`
	Class   Class          `json:"class"`
	Record  string         `json:"record"`
	Context map[string]any `json:"context,omitempty"`

	Transcript []Message          `json:"transcript"`
	Result     *evaluation.Result `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is logically dead at the given instant
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// TimeRemaining returns the duration until expiry, floored at zero
func (s *Session) TimeRemaining(now time.Time) time.Duration {
	if s.Expired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// Clone returns a copy that is safe to read after the owning store releases
// its lock. The transcript backing array is copied; Record and Context are
// immutable after creation and Result is replaced wholesale on write-back,
// so those are shared.
func (s *Session) Clone() *Session {
	c := *s
	if s.Transcript != nil {
		c.Transcript = append([]Message(nil), s.Transcript...)
	}
	return &c
}

// AppendMessage appends a transcript entry preserving submission order
func (s *Session) AppendMessage(role, content string, at time.Time) {
	s.Transcript = append(s.Transcript, Message{
		Role:      role,
		Content:   content,
		CreatedAt: at,
	})
}

// ClassPolicy is the externally configured per-class lifecycle policy
type ClassPolicy struct {
	TTL           time.Duration
	MaxRecordSize int // characters
}

// DefaultPolicies mirror the product defaults: short clinical screenings,
// day-long record chats, two-day diagnostic sessions.
func DefaultPolicies() map[Class]ClassPolicy {
	return map[Class]ClassPolicy{
		ClassScreening:  {TTL: 1 * time.Hour, MaxRecordSize: 50_000},
		ClassRecordChat: {TTL: 24 * time.Hour, MaxRecordSize: 100_000},
		ClassDiagnostic: {TTL: 48 * time.Hour, MaxRecordSize: 500_000},
	}
}
