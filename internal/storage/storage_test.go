package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/emporium-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"photo.png", "photo.png", false},
		{"../../etc/passwd", "passwd", false},
		{`C:\Users\me\cat.jpg`, "cat.jpg", false},
		{"", "", true},
		{"..", "", true},
		{"/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanFilename(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilename)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalStorage_PrepareUpload(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	info, err := store.PrepareUpload(context.Background(), "lamp.png", "image/png", "http://api.example/")
	require.NoError(t, err)

	assert.Equal(t, StrategyLocal, info.Strategy)
	assert.Equal(t, LocalUploadPath, info.UploadURL)
	assert.True(t, strings.HasSuffix(info.Key, "_lamp.png"))
	assert.Equal(t, "http://api.example/media/"+info.Key, info.ImageURL)
}

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	n, err := store.Save("abc_lamp.png", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	data, err := os.ReadFile(filepath.Join(dir, "abc_lamp.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	_, err = store.Save("../escape.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestS3Storage_PrepareUpload(t *testing.T) {
	store, err := NewS3Storage(context.Background(), config.S3Config{
		Region:          "eu-west-1",
		Bucket:          "emporium-test",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	}, "uploads", 30*time.Minute)
	require.NoError(t, err)

	info, err := store.PrepareUpload(context.Background(), "lamp.png", "image/png", "ignored")
	require.NoError(t, err)

	assert.Equal(t, StrategyS3, info.Strategy)
	assert.True(t, strings.HasPrefix(info.Key, "uploads/"))
	assert.True(t, strings.HasSuffix(info.Key, "_lamp.png"))
	assert.Equal(t, "https://emporium-test.s3.eu-west-1.amazonaws.com/"+info.Key, info.ImageURL)

	u, err := url.Parse(info.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, "1800", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Path, info.Key)
}

func TestS3Storage_BaseURL(t *testing.T) {
	store, err := NewS3Storage(context.Background(), config.S3Config{
		Region:          "us-east-1",
		Bucket:          "b",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		BaseURL:         "https://cdn.example/",
	}, "", 0)
	require.NoError(t, err)

	info, err := store.PrepareUpload(context.Background(), "a.jpg", "image/jpeg", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/"+info.Key, info.ImageURL)
	assert.False(t, strings.Contains(info.Key, "/"))
}
