package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/emporium-backend/pkg/logger"
)

const (
	// LocalUploadPath receives multipart uploads when the local strategy is active.
	LocalUploadPath = "/api/media/upload/local"
	// MediaPath serves files written by LocalStorage.
	MediaPath = "/media"
)

// LocalStorage writes uploads to a directory served by the API itself.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) PrepareUpload(_ context.Context, filename, _ string, publicBase string) (*UploadInfo, error) {
	key, err := uniqueName(filename)
	if err != nil {
		return nil, err
	}
	return &UploadInfo{
		Strategy:  StrategyLocal,
		UploadURL: LocalUploadPath,
		ImageURL:  strings.TrimRight(publicBase, "/") + MediaPath + "/" + key,
		Key:       key,
	}, nil
}

// Save writes r under key. Keys are flat names; directory parts are rejected.
func (s *LocalStorage) Save(key string, r io.Reader) (int64, error) {
	name, err := cleanFilename(key)
	if err != nil {
		return 0, err
	}
	if name != key {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFilename, key)
	}

	dst := filepath.Join(s.dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("failed to write %s: %w", name, err)
	}

	logger.Debug("Stored local upload", logger.Fields{"key": name, "bytes": n})
	return n, nil
}
