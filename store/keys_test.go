package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/models"
)

func TestKeyNamespace(t *testing.T) {
	require.Equal(t, "sessions/a1B2c3D4/meta.json", MetaKey("a1B2c3D4"))
	require.Equal(t, "sessions/a1B2c3D4/photos/a.jpg", AssetKey("a1B2c3D4", "a.jpg", AssetPhoto))
	require.Equal(t, "sessions/a1B2c3D4/thumbs/a.jpg", AssetKey("a1B2c3D4", "a.jpg", AssetThumb))
}

func TestSanitizeFilename(t *testing.T) {
	valid := []string{"a.jpg", "IMG_0123.JPG", "group photo.png", "  padded.jpg  "}
	for _, fname := range valid {
		got, err := SanitizeFilename(fname)
		require.NoError(t, err, fname)
		require.NotEmpty(t, got)
	}

	invalid := []string{"", "   ", ".", "..", "../a.jpg", "a/b.jpg", `a\b.jpg`, "x/../y.jpg"}
	for _, fname := range invalid {
		_, err := SanitizeFilename(fname)
		require.ErrorIs(t, err, apperror.ErrBadRequest, fname)
	}
}

func TestSessionCodecRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	session := &models.Session{
		SessionID:    "a1B2c3D4",
		Title:        "Wedding",
		Photographer: "Riley",
		Groups:       []string{"family", "friends"},
		CreatedAt:    now,
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
		PhotoCount:   1,
		Photos: []models.PhotoRecord{
			{Fname: "a.jpg", GroupID: "family", Size: 1024, Type: "image/jpeg"},
		},
	}

	data, err := EncodeSession(session)
	require.NoError(t, err)

	decoded, err := DecodeSession(data)
	require.NoError(t, err)
	require.Equal(t, session, decoded)
}

func TestDecodeSessionCorrupt(t *testing.T) {
	_, err := DecodeSession([]byte("not a session document"))
	require.ErrorIs(t, err, apperror.ErrCorruptMetadata)
}
