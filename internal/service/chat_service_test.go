package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/apperror"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/internal/repository/memory"
	"clinical-eval-be/pkg/llm"
	"clinical-eval-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func seedChatSession(t *testing.T, sessions *memory.SessionStore, class store.Class) string {
	t.Helper()
	now := time.Now()
	session := &store.Session{
		ID:        "chat-1",
		Class:     class,
		Record:    "Patient age 52, hypertension, on lisinopril.",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	require.NoError(t, sessions.Create(context.Background(), session))
	return session.ID
}

func TestChatServiceSendAppendsTranscriptInOrder(t *testing.T) {
	sessions := memory.NewSessionStore()
	id := seedChatSession(t, sessions, store.ClassRecordChat)
	svc := NewChatService(sessions, &fakeProvider{reply: "Lisinopril treats high blood pressure."}, logger.NewNopLogger())

	resp, err := svc.Send(context.Background(), &dto.SendChatRequest{
		SessionId: id,
		Message:   "What is lisinopril for?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lisinopril treats high blood pressure.", resp.Reply)
	assert.False(t, resp.Degraded)

	transcript, err := svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, transcript.Messages, 2)
	assert.Equal(t, store.RoleUser, transcript.Messages[0].Role)
	assert.Equal(t, "What is lisinopril for?", transcript.Messages[0].Content)
	assert.Equal(t, store.RoleModel, transcript.Messages[1].Role)
}

func TestChatServiceDegradesWhenProviderFails(t *testing.T) {
	sessions := memory.NewSessionStore()
	id := seedChatSession(t, sessions, store.ClassRecordChat)
	svc := NewChatService(sessions, &fakeProvider{err: llm.ErrUnavailable}, logger.NewNopLogger())

	resp, err := svc.Send(context.Background(), &dto.SendChatRequest{
		SessionId: id,
		Message:   "Is my blood pressure controlled?",
	})
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Equal(t, degradedReply, resp.Reply)

	// the user question is still recorded alongside the degraded reply
	transcript, err := svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, transcript.Messages, 2)
	assert.Equal(t, "Is my blood pressure controlled?", transcript.Messages[0].Content)
}

func TestChatServiceConcurrentSends(t *testing.T) {
	sessions := memory.NewSessionStore()
	id := seedChatSession(t, sessions, store.ClassRecordChat)
	svc := NewChatService(sessions, &fakeProvider{reply: "noted"}, logger.NewNopLogger())

	const senders = 8
	const perSender = 10

	var wg sync.WaitGroup
	for g := 0; g < senders; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				_, err := svc.Send(context.Background(), &dto.SendChatRequest{
					SessionId: id,
					Message:   fmt.Sprintf("question %d-%d", g, i),
				})
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	// every send lands both its question and its reply
	transcript, err := svc.Transcript(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, transcript.Messages, senders*perSender*2)
}

func TestChatServiceRejectsNonChatSessions(t *testing.T) {
	sessions := memory.NewSessionStore()
	id := seedChatSession(t, sessions, store.ClassScreening)
	svc := NewChatService(sessions, &fakeProvider{reply: "ok"}, logger.NewNopLogger())

	_, err := svc.Send(context.Background(), &dto.SendChatRequest{
		SessionId: id,
		Message:   "hello",
	})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestChatServiceUnknownSession(t *testing.T) {
	svc := NewChatService(memory.NewSessionStore(), &fakeProvider{reply: "ok"}, logger.NewNopLogger())

	_, err := svc.Send(context.Background(), &dto.SendChatRequest{
		SessionId: "missing",
		Message:   "hello",
	})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}
