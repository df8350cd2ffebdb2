package service

import (
	"context"
	"strings"
	"testing"

	"testwave_backend/internal/config"
	"testwave_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localStorage(t *testing.T) *StorageService {
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = t.TempDir()
	return NewStorageService(cfg)
}

func TestUploadQuestionImageLocal(t *testing.T) {
	s := localStorage(t)

	url, err := s.UploadQuestionImage(context.Background(), "questions/bg.png", strings.NewReader("data"), 4, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/questions/bg.png", url)
}

func TestUploadQuestionImageRejectsBadExtension(t *testing.T) {
	s := localStorage(t)

	_, err := s.UploadQuestionImage(context.Background(), "questions/payload.exe", strings.NewReader("data"), 4, "image/png")
	assert.Error(t, err)
}

func TestUploadQuestionImageContentType(t *testing.T) {
	s := localStorage(t)

	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{name: "image", contentType: "image/jpeg", wantErr: false},
		{name: "octet stream fallback", contentType: util.MimeOctetStream, wantErr: false},
		{name: "unset", contentType: "", wantErr: false},
		{name: "html", contentType: "text/html", wantErr: true},
		{name: "script", contentType: "application/javascript", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.UploadQuestionImage(context.Background(), "questions/bg.png", strings.NewReader("data"), 4, tc.contentType)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
