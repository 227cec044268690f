package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/apperror"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/internal/repository/memory"
	"clinical-eval-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(now func() time.Time) (*sessionService, *memory.SessionStore) {
	sessions := memory.NewSessionStoreWithClock(now)
	svc := NewSessionService(sessions, store.DefaultPolicies(), logger.NewNopLogger()).(*sessionService)
	svc.now = now
	return svc, sessions
}

func TestSessionServiceCreateAndShow(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestSessionService(func() time.Time { return current })

	created, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		Class:   "screening",
		Record:  "Patient age 45, type 2 diabetes, on metformin.",
		Context: map[string]any{"trial": "NCT01234567", "site": "Rotterdam"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "screening", created.Class)
	assert.Equal(t, current.Add(1*time.Hour), created.ExpiresAt)

	shown, err := svc.Show(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, shown.Id)
	assert.Equal(t, 3600, shown.TimeRemainingSec)
	assert.Equal(t, "Patient age 45, type 2 diabetes, on metformin.", shown.Record)
	assert.Equal(t, map[string]any{"trial": "NCT01234567", "site": "Rotterdam"}, shown.Context)
	assert.Empty(t, shown.Transcript)
	assert.Nil(t, shown.Result)
}

func TestSessionServiceHonorsClientSuppliedId(t *testing.T) {
	svc, _ := newTestSessionService(time.Now)

	created, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		Class:     "screening",
		Record:    "record",
		SessionId: "client-chosen-id",
	})
	require.NoError(t, err)
	assert.Equal(t, "client-chosen-id", created.Id)

	_, err = svc.Create(context.Background(), &dto.CreateSessionRequest{
		Class:     "screening",
		Record:    "another record",
		SessionId: "client-chosen-id",
	})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestSessionServiceRejectsUnknownClass(t *testing.T) {
	svc, _ := newTestSessionService(time.Now)

	_, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		Class:  "forever",
		Record: "some record",
	})
	require.Error(t, err)

	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestSessionServiceRejectsOversizedRecord(t *testing.T) {
	svc, _ := newTestSessionService(time.Now)

	_, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		Class:  "screening",
		Record: strings.Repeat("x", 50_001),
	})
	require.Error(t, err)

	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "50000")
}

func TestSessionServiceShowExpiredReportsGone(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestSessionService(func() time.Time { return current })

	created, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		Class:  "screening",
		Record: "short record",
	})
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)

	_, err = svc.Show(context.Background(), created.Id)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 410, appErr.Status)

	// the expired entry was purged by the first lookup
	_, err = svc.Show(context.Background(), created.Id)
	require.Error(t, err)
	appErr, ok = err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestSessionServiceDelete(t *testing.T) {
	svc, _ := newTestSessionService(time.Now)

	created, err := svc.Create(context.Background(), &dto.CreateSessionRequest{
		Class:  "record-chat",
		Record: "record",
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, deleted.Id)

	_, err = svc.Delete(context.Background(), created.Id)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}
