package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ikkim/emporium-backend/internal/storage"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUploadServiceTest(t *testing.T) (UploadService, *storage.LocalStorage) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewUploadService(local, local), local
}

func TestUploadService_PrepareUpload(t *testing.T) {
	svc, _ := setupUploadServiceTest(t)

	info, err := svc.PrepareUpload(context.Background(), UploadInput{Filename: "cat.png", ContentType: "image/png"}, "http://api.test")
	require.NoError(t, err)

	assert.Equal(t, storage.StrategyLocal, info.Strategy)
	assert.Equal(t, storage.LocalUploadPath, info.UploadURL)
	assert.True(t, strings.HasPrefix(info.ImageURL, "http://api.test/media/"))
	assert.True(t, strings.HasSuffix(info.Key, "_cat.png"))
}

func TestUploadService_PrepareUpload_Rejections(t *testing.T) {
	svc, _ := setupUploadServiceTest(t)
	ctx := context.Background()

	_, err := svc.PrepareUpload(ctx, UploadInput{Filename: "notes.txt", ContentType: "text/plain"}, "http://api.test")
	requireFieldCodes(t, err, map[string]string{"content_type": validation.CodeInvalidChoice})

	_, err = svc.PrepareUpload(ctx, UploadInput{Filename: "..", ContentType: "image/png"}, "http://api.test")
	requireFieldCodes(t, err, map[string]string{"filename": validation.CodeInvalid})
}

func TestUploadService_SaveLocal(t *testing.T) {
	svc, local := setupUploadServiceTest(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveLocal(ctx, "abc_cat.png", strings.NewReader("png-bytes")))
	data, err := os.ReadFile(filepath.Join(local.Dir(), "abc_cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	err = svc.SaveLocal(ctx, "../escape.png", strings.NewReader("x"))
	requireFieldCodes(t, err, map[string]string{"filename": validation.CodeInvalid})
}

func TestUploadService_SaveLocalDisabled(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewUploadService(local, nil)

	err = svc.SaveLocal(context.Background(), "abc_cat.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrLocalUploadDisabled)
}
