package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	StrategyLocal = "local"
	StrategyS3    = "s3"
)

var ErrInvalidFilename = errors.New("invalid filename")

// UploadInfo tells a client where to send an image and where it will be served from
type UploadInfo struct {
	Strategy  string `json:"strategy"`
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
	Key       string `json:"key"`
}

// Uploader prepares a direct image upload. publicBase is the scheme and host
// the API was reached on; strategies that serve files themselves use it.
type Uploader interface {
	PrepareUpload(ctx context.Context, filename, contentType, publicBase string) (*UploadInfo, error)
}

// cleanFilename strips any directory part a client may have sent
func cleanFilename(filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return name, nil
}

// uniqueName prefixes the client filename with a random id so uploads never collide
func uniqueName(filename string) (string, error) {
	name, err := cleanFilename(filename)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", uuid.NewString(), name), nil
}
