package service

import (
	"context"
	"errors"
	"io"
	"strings"

	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/storage"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/logger"
)

// ErrLocalUploadDisabled is returned when files are stored outside the API
var ErrLocalUploadDisabled = &apperrors.Error{
	Kind:    apperrors.ErrNotFound,
	Code:    apperrors.UploadNotSupported,
	Message: "Local uploads are not enabled.",
}

type UploadInput struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

type UploadService interface {
	PrepareUpload(ctx context.Context, input UploadInput, publicBase string) (*storage.UploadInfo, error)
	SaveLocal(ctx context.Context, key string, r io.Reader) error
}

type uploadService struct {
	uploader storage.Uploader
	local    *storage.LocalStorage
}

// NewUploadService wires the configured strategy. local is nil unless the
// API stores files itself.
func NewUploadService(uploader storage.Uploader, local *storage.LocalStorage) UploadService {
	return &uploadService{uploader: uploader, local: local}
}

func invalidFilename() error {
	errs := validation.NewErrors()
	errs.AddMessage(fieldFilename, validation.CodeInvalid, "Enter a valid file name.")
	return errs.Err()
}

func (s *uploadService) PrepareUpload(ctx context.Context, input UploadInput, publicBase string) (*storage.UploadInfo, error) {
	errs := validation.NewErrors()
	errs.Add(validation.ContentType(fieldContentType, input.ContentType))
	if err := errs.Err(); err != nil {
		return nil, err
	}

	info, err := s.uploader.PrepareUpload(ctx, input.Filename, strings.ToLower(input.ContentType), publicBase)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFilename) {
			return nil, invalidFilename()
		}
		logger.Error("Failed to prepare upload", err, map[string]interface{}{
			"filename": input.Filename,
		})
		return nil, err
	}

	logger.Info("Upload prepared", map[string]interface{}{
		"strategy": info.Strategy,
		"key":      info.Key,
	})
	return info, nil
}

// SaveLocal stores an uploaded file under the key issued by PrepareUpload
func (s *uploadService) SaveLocal(_ context.Context, key string, r io.Reader) error {
	if s.local == nil {
		return ErrLocalUploadDisabled
	}
	if _, err := s.local.Save(key, r); err != nil {
		if errors.Is(err, storage.ErrInvalidFilename) {
			return invalidFilename()
		}
		logger.Error("Failed to store local upload", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
