package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/verdd/verdd-backend/internal/config"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("object not found")

// Store is implemented by LocalStore and S3Store.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// New returns an S3Store when an endpoint is configured and a LocalStore
// rooted at LocalDir otherwise.
func New(cfg config.StorageConfig) (Store, error) {
	if cfg.UseObjectStorage() {
		return NewS3Store(cfg)
	}
	return NewLocalStore(cfg.LocalDir)
}

// LocalStore writes objects below a directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Put writes r to root/key through a temporary file and returns the path.
func (s *LocalStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename %s: %w", key, err)
	}
	return dst, nil
}

// Get opens root/key.
func (s *LocalStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// cleanKey rejects empty keys and keys escaping the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}
	key = path.Clean(key)
	if key == ".." || strings.HasPrefix(key, "../") {
		return "", fmt.Errorf("object key %q escapes the store", key)
	}
	return key, nil
}
