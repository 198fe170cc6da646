package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	uploadSvc "folio/internal/domain/services/upload"
)

// LocalBlobStore writes objects below a root directory and serves them
// under urlPrefix
type LocalBlobStore struct {
	root      string
	urlPrefix string
}

// NewLocalBlobStore creates a filesystem blob store
func NewLocalBlobStore(root, urlPrefix string) uploadSvc.BlobStore {
	return &LocalBlobStore{root: root, urlPrefix: urlPrefix}
}

// Put writes to a temp file first and renames it into place, so readers
// never observe a partial object
func (s *LocalBlobStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move upload into place: %w", err)
	}

	return path.Join(s.urlPrefix, key), nil
}
