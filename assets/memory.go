package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

// MemoryStore keeps assets in memory. Suitable for tests and single-node
// deployments; uploads live exactly as long as their editing session.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data []byte
	meta Meta
}

// NewMemoryStore creates an in-memory asset store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

// Put stores an asset.
func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, meta Meta) (Ref, error) {
	_ = ctx
	if key == "" {
		return Ref{}, invoice.NewError(invoice.KindValidation, "asset key is required", nil)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Ref{}, err
	}
	meta.Size = int64(len(data))
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, meta: meta}
	s.mu.Unlock()

	return Ref{Key: key, Meta: meta}, nil
}

// Open reads an asset.
func (s *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, Meta, error) {
	_ = ctx
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, invoice.NewError(invoice.KindNotFound, fmt.Sprintf("asset %q not found", key), nil)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.meta, nil
}

// Delete releases an asset.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Len reports how many assets are currently held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
