package apperror

import "errors"

// Sentinel errors for the session/photo domain. Callers wrap these with
// fmt.Errorf("%w: ...") to attach detail and check them with errors.Is at the
// request boundary.
var (
	// ErrBlobNotFound is returned by a BlobStore when no object exists under a key.
	ErrBlobNotFound = errors.New("blob not found")

	ErrSessionNotFound = errors.New("session not found")
	ErrAssetNotFound   = errors.New("asset not found")

	// ErrSessionExpired gates the metadata read path only. Asset fetches and
	// uploads are deliberately not gated (see GetSession / UploadPhoto).
	ErrSessionExpired = errors.New("session expired")

	ErrCorruptMetadata = errors.New("corrupt session metadata")
	ErrQuotaExceeded   = errors.New("photo quota exceeded")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrBadRequest      = errors.New("bad request")
)
