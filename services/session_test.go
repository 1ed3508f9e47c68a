package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/logging"
	"github.com/fotopool/fotopool-sessions/models"
	"github.com/fotopool/fotopool-sessions/store"
)

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSessionService(ttl time.Duration) (*SessionServiceImpl, store.BlobStore) {
	blobs := store.NewMemoryBlobStore()
	sessions := store.NewSessionStoreImpl(blobs)
	return NewSessionServiceImpl(sessions, ttl, newTestLogger()), blobs
}

func TestCreateSession(t *testing.T) {
	svc, _ := newSessionService(7 * 24 * time.Hour)

	reply, err := svc.CreateSession(context.Background(), models.CreateSessionRequest{Title: "Wedding"})
	require.NoError(t, err)
	require.Len(t, reply.SessionID, SessionIDLength)
	require.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), reply.ExpiresAt, time.Minute)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newSessionService(7 * 24 * time.Hour)
	ctx := context.Background()

	reply, err := svc.CreateSession(ctx, models.CreateSessionRequest{
		Title:        "Wedding",
		Photographer: "Riley",
		Groups:       []string{"family"},
	})
	require.NoError(t, err)

	session, err := svc.GetSession(ctx, reply.SessionID)
	require.NoError(t, err)

	require.Equal(t, reply.SessionID, session.SessionID)
	require.Equal(t, "Wedding", session.Title)
	require.Equal(t, "Riley", session.Photographer)
	require.Equal(t, []string{"family"}, session.Groups)
	require.Equal(t, reply.ExpiresAt, session.ExpiresAt)
	require.Equal(t, 0, session.PhotoCount)
	require.Empty(t, session.Photos)
}

func TestGetSessionDefaultsGroups(t *testing.T) {
	svc, _ := newSessionService(time.Hour)
	ctx := context.Background()

	reply, err := svc.CreateSession(ctx, models.CreateSessionRequest{})
	require.NoError(t, err)

	session, err := svc.GetSession(ctx, reply.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session.Groups)
	require.Empty(t, session.Groups)
}

func TestGetSessionNotFound(t *testing.T) {
	svc, _ := newSessionService(time.Hour)

	_, err := svc.GetSession(context.Background(), "missing1")
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
}

func TestGetSessionExpired(t *testing.T) {
	svc, _ := newSessionService(-time.Hour)
	ctx := context.Background()

	reply, err := svc.CreateSession(ctx, models.CreateSessionRequest{Title: "Old"})
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, reply.SessionID)
	require.ErrorIs(t, err, apperror.ErrSessionExpired)
}

func TestNewSessionIDAlphabet(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id, err := NewSessionID()
		require.NoError(t, err)
		require.Len(t, id, SessionIDLength)
		for _, r := range id {
			require.Contains(t, idAlphabet, string(r))
		}
		seen[id] = true
	}
	// 100 draws from a 62^8 space should not collide
	require.Len(t, seen, 100)
}
