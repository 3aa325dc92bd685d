package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

// FSStore provides filesystem-backed asset storage under a root directory.
type FSStore struct {
	Root string
	Now  func() time.Time
}

// NewFSStore creates a filesystem-backed asset store.
func NewFSStore(root string) *FSStore {
	return &FSStore{Root: root, Now: time.Now}
}

// Put writes an asset to disk via a temp file and atomic rename.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, meta Meta) (Ref, error) {
	_ = ctx
	if s == nil || s.Root == "" {
		return Ref{}, invoice.NewError(invoice.KindValidation, "asset store root is required", nil)
	}
	if key == "" {
		return Ref{}, invoice.NewError(invoice.KindValidation, "asset key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return Ref{}, err
	}

	dir := filepath.Dir(pathOnDisk)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Ref{}, err
	}

	tmp, err := os.CreateTemp(dir, ".asset-*")
	if err != nil {
		return Ref{}, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return Ref{}, err
	}
	if err := tmp.Sync(); err != nil {
		return Ref{}, err
	}
	if err := tmp.Close(); err != nil {
		return Ref{}, err
	}
	if err := os.Rename(tmp.Name(), pathOnDisk); err != nil {
		return Ref{}, err
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if err := s.writeMeta(pathOnDisk, meta); err != nil {
		return Ref{}, err
	}

	return Ref{Key: key, Meta: meta}, nil
}

// Open reads an asset from disk.
func (s *FSStore) Open(ctx context.Context, key string) (io.ReadCloser, Meta, error) {
	_ = ctx
	if s == nil || s.Root == "" {
		return nil, Meta{}, invoice.NewError(invoice.KindValidation, "asset store root is required", nil)
	}
	if key == "" {
		return nil, Meta{}, invoice.NewError(invoice.KindValidation, "asset key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return nil, Meta{}, err
	}

	file, err := os.Open(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Meta{}, invoice.NewError(invoice.KindNotFound, fmt.Sprintf("asset %q not found", key), err)
		}
		return nil, Meta{}, err
	}

	meta := s.readMeta(pathOnDisk)
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}
	return file, meta, nil
}

// Delete removes an asset and its sidecar metadata from disk.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	if s == nil || s.Root == "" {
		return invoice.NewError(invoice.KindValidation, "asset store root is required", nil)
	}
	if key == "" {
		return invoice.NewError(invoice.KindValidation, "asset key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return err
	}
	_ = os.Remove(pathOnDisk)
	_ = os.Remove(metaPath(pathOnDisk))
	return nil
}

func (s *FSStore) resolvePath(key string) (string, error) {
	clean := path.Clean("/" + key)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" || rel == "." {
		return "", invoice.NewError(invoice.KindValidation, "invalid asset key", nil)
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) && target != root {
		return "", invoice.NewError(invoice.KindValidation, "asset key escapes root", nil)
	}
	return target, nil
}

func (s *FSStore) writeMeta(pathOnDisk string, meta Meta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath(pathOnDisk), payload, 0o644)
}

func (s *FSStore) readMeta(pathOnDisk string) Meta {
	data, err := os.ReadFile(metaPath(pathOnDisk))
	if err != nil {
		return Meta{}
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}
	}
	return meta
}

func (s *FSStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func metaPath(pathOnDisk string) string {
	return pathOnDisk + ".meta.json"
}
