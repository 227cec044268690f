package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/apperror"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/internal/repository/contract"
	"clinical-eval-be/pkg/store"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Show(ctx context.Context, id string) (*dto.ShowSessionResponse, error)
	Delete(ctx context.Context, id string) (*dto.DeleteSessionResponse, error)
}

type sessionService struct {
	sessions contract.SessionStore
	policies map[store.Class]store.ClassPolicy
	logger   logger.ILogger
	newID    func() string
	now      func() time.Time
}

func NewSessionService(
	sessions contract.SessionStore,
	policies map[store.Class]store.ClassPolicy,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessions: sessions,
		policies: policies,
		logger:   log,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	class := store.Class(req.Class)
	policy, ok := s.policies[class]
	if !ok {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown session class: %s", req.Class))
	}
	if len(req.Record) > policy.MaxRecordSize {
		return nil, apperror.NewValidation(fmt.Sprintf(
			"record exceeds the %d character limit for %s sessions", policy.MaxRecordSize, class))
	}

	id := req.SessionId
	if id == "" {
		id = s.newID()
	}

	now := s.now()
	session := &store.Session{
		ID:        id,
		Class:     class,
		Record:    req.Record,
		Context:   req.Context,
		CreatedAt: now,
		ExpiresAt: now.Add(policy.TTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, contract.ErrDuplicateSession) {
			return nil, apperror.NewValidation("session id already in use")
		}
		return nil, mapSessionErr(err)
	}

	s.logger.Info("session", "session created", map[string]interface{}{
		"session_id": session.ID,
		"class":      string(class),
		"expires_at": session.ExpiresAt,
	})

	return &dto.CreateSessionResponse{
		Id:        session.ID,
		Class:     string(session.Class),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *sessionService) Show(ctx context.Context, id string) (*dto.ShowSessionResponse, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	return &dto.ShowSessionResponse{
		Id:               session.ID,
		Class:            string(session.Class),
		Record:           session.Record,
		Context:          session.Context,
		Transcript:       session.Transcript,
		Result:           session.Result,
		CreatedAt:        session.CreatedAt,
		ExpiresAt:        session.ExpiresAt,
		TimeRemainingSec: int(session.TimeRemaining(s.now()).Seconds()),
	}, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) (*dto.DeleteSessionResponse, error) {
	removed, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return nil, mapSessionErr(err)
	}
	if !removed {
		return nil, apperror.NewNotFound("session not found")
	}
	return &dto.DeleteSessionResponse{Id: id}, nil
}

// mapSessionErr translates store sentinels into their HTTP-facing forms.
// Expired maps to 410 so clients can tell a lapsed session from a bad id.
func mapSessionErr(err error) error {
	switch {
	case errors.Is(err, contract.ErrSessionNotFound):
		return apperror.NewNotFound("session not found")
	case errors.Is(err, contract.ErrSessionExpired):
		return apperror.NewExpired("session expired")
	case errors.Is(err, contract.ErrDuplicateSession):
		return apperror.NewInternal("session id collision", err)
	default:
		return apperror.NewInternal("session store failure", err)
	}
}
