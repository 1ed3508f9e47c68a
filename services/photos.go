package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fotopool/fotopool-sessions/apperror"
	"github.com/fotopool/fotopool-sessions/logging"
	"github.com/fotopool/fotopool-sessions/models"
	"github.com/fotopool/fotopool-sessions/store"
)

const (
	defaultContentType = "image/jpeg"
	assetCacheControl  = "public, max-age=86400"
)

// ThumbSource carries an optional thumbnail, either as an inline
// base64/data-URL string or as a streamed blob with a declared size.
type ThumbSource struct {
	Inline string
	Body   io.Reader
	Size   int64
}

type UploadInput struct {
	SessionID   string
	Fname       string
	GroupID     string
	Size        int64
	ContentType string
	Body        io.Reader
	Thumb       *ThumbSource
}

// Asset is a streamable fetch result. CacheControl is the caching directive
// the response layer should apply.
type Asset struct {
	Body         io.ReadCloser
	ContentType  string
	Size         int64
	CacheControl string
}

type PhotoService interface {
	UploadPhoto(ctx context.Context, in UploadInput) (*models.UploadReply, error)
	FetchAsset(ctx context.Context, sessionID, fname string, kind store.AssetKind) (*Asset, error)
}

type PhotoServiceImpl struct {
	sessionStore store.SessionStore
	blobs        store.BlobStore

	maxPhotos    int
	maxFileBytes int64

	logger logging.Logger
}

func NewPhotoServiceImpl(sessionStore store.SessionStore, blobs store.BlobStore, maxPhotos int, maxFileBytes int64, l logging.Logger) *PhotoServiceImpl {
	return &PhotoServiceImpl{
		sessionStore: sessionStore,
		blobs:        blobs,
		maxPhotos:    maxPhotos,
		maxFileBytes: maxFileBytes,
		logger:       l,
	}
}

// UploadPhoto admits and stores one photo plus an optional thumbnail, then
// appends the record to the session document. Expiry is not re-checked here:
// uploads follow the read path's passive gating, so a caller holding the id
// of an already-expired session can still upload into it.
//
// The three writes (photo, thumbnail, metadata) are not transactional. A
// failure after the photo write leaves the bytes in storage unreferenced by
// the document, which remains the sole source of truth for which photos
// exist.
func (svc *PhotoServiceImpl) UploadPhoto(ctx context.Context, in UploadInput) (*models.UploadReply, error) {
	fname, err := store.SanitizeFilename(in.Fname)
	if err != nil {
		return nil, err
	}

	session, err := svc.sessionStore.Load(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	if session.PhotoCount >= svc.maxPhotos {
		return nil, fmt.Errorf("%w: session is limited to %d photos", apperror.ErrQuotaExceeded, svc.maxPhotos)
	}

	if in.Size > svc.maxFileBytes {
		return nil, fmt.Errorf("%w: file exceeds the %d MB limit", apperror.ErrPayloadTooLarge, svc.maxFileBytes/(1024*1024))
	}

	if in.Body == nil {
		return nil, fmt.Errorf("%w: no file content provided", apperror.ErrBadRequest)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	photoKey := store.AssetKey(in.SessionID, fname, store.AssetPhoto)
	err = svc.blobs.Put(ctx, photoKey, in.Body, in.Size, contentType, map[string]string{
		"group-id":      in.GroupID,
		"original-name": fname,
	})
	if err != nil {
		svc.logger.Error("failed to store photo", "session_id", in.SessionID, "fname", fname, "error", err)
		return nil, err
	}

	if in.Thumb != nil {
		if err := svc.writeThumb(ctx, in.SessionID, fname, in.Thumb); err != nil {
			svc.logger.Error("failed to store thumbnail", "session_id", in.SessionID, "fname", fname, "error", err)
			return nil, err
		}
	}

	session.Photos = append(session.Photos, models.PhotoRecord{
		Fname:   fname,
		GroupID: in.GroupID,
		Size:    in.Size,
		Type:    contentType,
	})
	session.PhotoCount = len(session.Photos)

	if err := svc.sessionStore.Save(ctx, session); err != nil {
		svc.logger.Error("failed to update session document", "session_id", in.SessionID, "fname", fname, "error", err)
		return nil, err
	}

	svc.logger.Info("photo uploaded", "session_id", in.SessionID, "fname", fname, "size", in.Size, "photo_count", session.PhotoCount)

	return &models.UploadReply{
		OK:         true,
		Fname:      fname,
		PhotoCount: session.PhotoCount,
	}, nil
}

func (svc *PhotoServiceImpl) writeThumb(ctx context.Context, sessionID, fname string, thumb *ThumbSource) error {
	thumbKey := store.AssetKey(sessionID, fname, store.AssetThumb)

	if thumb.Body != nil {
		return svc.blobs.Put(ctx, thumbKey, thumb.Body, thumb.Size, defaultContentType, nil)
	}

	if thumb.Inline != "" {
		data, err := decodeInlineThumb(thumb.Inline)
		if err != nil {
			return err
		}
		return svc.blobs.Put(ctx, thumbKey, bytes.NewReader(data), int64(len(data)), defaultContentType, nil)
	}

	return nil
}

// decodeInlineThumb reverses the inline encoding: an optional
// "data:<type>;base64," prefix followed by standard base64.
func decodeInlineThumb(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, "base64,"); i >= 0 {
			s = s[i+len("base64,"):]
		}
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid thumbnail encoding", apperror.ErrBadRequest)
	}
	return data, nil
}

// FetchAsset opens an asset for streaming. Thumbnails fall back to the
// original photo when absent; session expiry is not checked here, so assets
// stay fetchable by direct link after the metadata has expired.
func (svc *PhotoServiceImpl) FetchAsset(ctx context.Context, sessionID, fname string, kind store.AssetKind) (*Asset, error) {
	fname, err := store.SanitizeFilename(fname)
	if err != nil {
		return nil, err
	}

	var obj *store.Object
	switch kind {
	case store.AssetThumb:
		obj, err = svc.blobs.Get(ctx, store.AssetKey(sessionID, fname, store.AssetThumb))
		if errors.Is(err, apperror.ErrBlobNotFound) {
			obj, err = svc.blobs.Get(ctx, store.AssetKey(sessionID, fname, store.AssetPhoto))
		}
	default:
		obj, err = svc.blobs.Get(ctx, store.AssetKey(sessionID, fname, store.AssetPhoto))
	}

	if errors.Is(err, apperror.ErrBlobNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrAssetNotFound, fname)
	}
	if err != nil {
		return nil, err
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	return &Asset{
		Body:         obj.Body,
		ContentType:  contentType,
		Size:         obj.Size,
		CacheControl: assetCacheControl,
	}, nil
}
