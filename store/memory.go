package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"sync"

	"github.com/fotopool/fotopool-sessions/apperror"
)

type memoryObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// MemoryBlobStore keeps objects in a map. It backs tests and local runs
// through the same BlobStore interface as S3.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

var _ BlobStore = (*MemoryBlobStore)(nil)

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryBlobStore) IsReady(ctx context.Context) error {
	return nil
}

func (m *MemoryBlobStore) Name() string {
	return "BlobStore[memory]"
}

func (m *MemoryBlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read body for %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{
		data:        data,
		contentType: contentType,
		metadata:    maps.Clone(metadata),
	}
	return nil
}

func (m *MemoryBlobStore) Get(ctx context.Context, key string) (*Object, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrBlobNotFound
	}

	return &Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
		Metadata:    maps.Clone(obj.metadata),
	}, nil
}
