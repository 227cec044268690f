package service

import (
	"context"
	"time"

	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/apperror"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/internal/repository/contract"
	"clinical-eval-be/pkg/evaluation/prompt"
	"clinical-eval-be/pkg/llm"
	"clinical-eval-be/pkg/store"
)

// degradedReply is returned when the evaluator backend is unreachable. The
// user message is still recorded so the conversation survives the outage.
const degradedReply = "I can't analyze the record right now. Your question was saved; please try again in a moment."

type IChatService interface {
	Send(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	Transcript(ctx context.Context, sessionID string) (*dto.ShowTranscriptResponse, error)
}

type chatService struct {
	sessions contract.SessionStore
	provider llm.LLMProvider
	logger   logger.ILogger
	now      func() time.Time
}

func NewChatService(
	sessions contract.SessionStore,
	provider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessions: sessions,
		provider: provider,
		logger:   log,
		now:      time.Now,
	}
}

func (s *chatService) Send(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	session, err := s.sessions.Get(ctx, req.SessionId)
	if err != nil {
		return nil, mapSessionErr(err)
	}
	if session.Class != store.ClassRecordChat {
		return nil, apperror.NewValidation("chat is only available on record-chat sessions")
	}

	chatPrompt := prompt.NewChatBuilder(session.Record, session.Transcript, req.Message).Build()

	degraded := false
	reply, err := s.provider.Generate(ctx, chatPrompt, llm.WithTemperature(0.4))
	if err != nil {
		s.logger.Warn("chat", "evaluator backend failed, degrading", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		reply = degradedReply
		degraded = true
	}

	now := s.now()
	err = s.sessions.Update(ctx, req.SessionId, func(sess *store.Session) error {
		sess.AppendMessage(store.RoleUser, req.Message, now)
		sess.AppendMessage(store.RoleModel, reply, now)
		return nil
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}

	return &dto.SendChatResponse{
		SessionId: req.SessionId,
		Reply:     reply,
		Degraded:  degraded,
		CreatedAt: now,
	}, nil
}

func (s *chatService) Transcript(ctx context.Context, sessionID string) (*dto.ShowTranscriptResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	messages := make([]dto.ChatMessage, 0, len(session.Transcript))
	for _, m := range session.Transcript {
		messages = append(messages, dto.ChatMessage{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return &dto.ShowTranscriptResponse{
		SessionId: sessionID,
		Messages:  messages,
	}, nil
}
