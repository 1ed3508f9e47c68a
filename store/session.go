package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/models"
)

// SessionStore persists the session document at its meta key.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Load(ctx context.Context, sessionID string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
}

type SessionStoreImpl struct {
	blobs BlobStore
}

func NewSessionStoreImpl(blobs BlobStore) *SessionStoreImpl {
	return &SessionStoreImpl{
		blobs: blobs,
	}
}

// Create writes a brand-new session document. No existence check is made:
// identifier uniqueness is probabilistic (see services.NewSessionID).
func (s *SessionStoreImpl) Create(ctx context.Context, session *models.Session) error {
	return s.Save(ctx, session)
}

func (s *SessionStoreImpl) Load(ctx context.Context, sessionID string) (*models.Session, error) {
	obj, err := s.blobs.Get(ctx, MetaKey(sessionID))
	if errors.Is(err, apperror.ErrBlobNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read session document %s: %w", sessionID, err)
	}

	return DecodeSession(data)
}

// Save rewrites the whole document. The blob store only guarantees atomic
// per-key puts, so concurrent saves of the same session race and the last
// writer wins: photo records appended by a losing concurrent upload are
// silently dropped.
func (s *SessionStoreImpl) Save(ctx context.Context, session *models.Session) error {
	data, err := EncodeSession(session)
	if err != nil {
		return err
	}

	return s.blobs.Put(ctx, MetaKey(session.SessionID), bytes.NewReader(data), int64(len(data)), "application/json", nil)
}
