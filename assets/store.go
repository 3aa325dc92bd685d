// Package assets stores session-scoped uploaded images, primarily invoice
// logos. A reference is acquired on upload and must be released when it is
// superseded or when the editing session ends.
package assets

import (
	"context"
	"io"
	"time"
)

// Meta describes a stored asset.
type Meta struct {
	Name        string    `json:"name,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Ref points at a stored asset.
type Ref struct {
	Key  string `json:"key"`
	Meta Meta   `json:"meta"`
}

// Store persists uploaded assets by key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, meta Meta) (Ref, error)
	Open(ctx context.Context, key string) (io.ReadCloser, Meta, error)
	// Delete releases an asset. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
