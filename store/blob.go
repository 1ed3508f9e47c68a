package store

import (
	"context"
	"io"

	"github.com/fotopool/fotopool-sessions/health"
)

// Object is a stored blob opened for reading. The caller owns Body and must
// close it.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	Metadata    map[string]string
}

// BlobStore is the single storage primitive everything is built on: a
// key-addressed object store with atomic per-key put/get, streaming bodies
// and opaque string metadata. There are no multi-key transactions.
//
// Get returns apperror.ErrBlobNotFound when no object exists under the key.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) (*Object, error)

	health.ReadinessCheck
}
