package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/utils"
)

// Store maps binary blobs to serveable URLs. Image extraction treats this as
// a plain key→URL mapping; reachability of the returned URL is a
// display-time concern.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type localStore struct {
	log     *logger.Logger
	baseDir string
	baseURL string
}

// NewLocalStore writes blobs under STATIC_DIR and serves them under
// STATIC_BASE_URL (defaults: ./static, /static).
func NewLocalStore(log *logger.Logger) (Store, error) {
	serviceLog := log.With("service", "LocalBlobStore")
	baseDir := utils.GetEnv("STATIC_DIR", "static", log)
	baseURL := strings.TrimRight(utils.GetEnv("STATIC_BASE_URL", "/static", log), "/")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %q: %w", baseDir, err)
	}
	return &localStore{log: serviceLog, baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *localStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create blob subdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob %q: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}

func (s *localStore) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}
