package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/logging"
	"github.com/fotopool/fotopool-sessions/models"
	"github.com/fotopool/fotopool-sessions/store"
)

type SessionService interface {
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.CreateSessionReply, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
}

type SessionServiceImpl struct {
	sessionStore store.SessionStore
	ttl          time.Duration

	logger logging.Logger
}

func NewSessionServiceImpl(sessionStore store.SessionStore, ttl time.Duration, l logging.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{
		sessionStore: sessionStore,
		ttl:          ttl,
		logger:       l,
	}
}

func (svc *SessionServiceImpl) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.CreateSessionReply, error) {
	sessionID, err := NewSessionID()
	if err != nil {
		return nil, err
	}

	groups := req.Groups
	if groups == nil {
		groups = []string{}
	}

	now := time.Now().UTC()
	session := &models.Session{
		SessionID:    sessionID,
		Title:        req.Title,
		Photographer: req.Photographer,
		Groups:       groups,
		CreatedAt:    now,
		ExpiresAt:    now.Add(svc.ttl),
		PhotoCount:   0,
		Photos:       []models.PhotoRecord{},
	}

	if err := svc.sessionStore.Create(ctx, session); err != nil {
		svc.logger.Error("failed to create session", "session_id", sessionID, "error", err)
		return nil, err
	}

	svc.logger.Info("session created", "session_id", sessionID, "expires_at", session.ExpiresAt)

	return &models.CreateSessionReply{
		SessionID: sessionID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// GetSession gates expiry at read time only: the document is never deleted,
// it just becomes unreachable through this path once past its expiry.
func (svc *SessionServiceImpl) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := svc.sessionStore.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionExpired, sessionID)
	}

	return session, nil
}
