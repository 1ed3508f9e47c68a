package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/models"
)

// AssetKind selects between an original photo and its thumbnail.
type AssetKind string

const (
	AssetPhoto AssetKind = "photo"
	AssetThumb AssetKind = "thumb"
)

// Key namespace, rooted at the session identifier:
//
//	sessions/{id}/meta.json        session document
//	sessions/{id}/photos/{fname}   original bytes
//	sessions/{id}/thumbs/{fname}   thumbnail bytes

func MetaKey(sessionID string) string {
	return fmt.Sprintf("sessions/%s/meta.json", sessionID)
}

func AssetKey(sessionID, fname string, kind AssetKind) string {
	if kind == AssetThumb {
		return fmt.Sprintf("sessions/%s/thumbs/%s", sessionID, fname)
	}
	return fmt.Sprintf("sessions/%s/photos/%s", sessionID, fname)
}

// SanitizeFilename validates a caller-supplied filename before it is used as
// a storage key component. Path separators and traversal sequences are
// rejected outright rather than normalized.
func SanitizeFilename(fname string) (string, error) {
	fname = strings.TrimSpace(fname)
	if fname == "" {
		return "", fmt.Errorf("%w: filename is required", apperror.ErrBadRequest)
	}
	if strings.ContainsAny(fname, "/\\") || strings.Contains(fname, "..") {
		return "", fmt.Errorf("%w: invalid filename %q", apperror.ErrBadRequest, fname)
	}
	if fname == "." {
		return "", fmt.Errorf("%w: invalid filename %q", apperror.ErrBadRequest, fname)
	}
	return fname, nil
}

// EncodeSession serializes the session document. The codec round-trips
// losslessly: DecodeSession(EncodeSession(s)) == s field for field.
func EncodeSession(session *models.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", session.SessionID, err)
	}
	return data, nil
}

func DecodeSession(data []byte) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrCorruptMetadata, err)
	}
	return &session, nil
}
