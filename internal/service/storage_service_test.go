package service

import (
	"access_edu_backend/internal/config"
	"access_edu_backend/internal/util"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Upload(t *testing.T) {
	dir := t.TempDir()
	svc := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}})

	url, err := svc.Upload(context.Background(), "certificates/7/42.html", strings.NewReader("<p>ok</p>"), 9, util.MimeHTML)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/certificates/7/42.html", url)
	assert.Equal(t, url, svc.GetURL("certificates/7/42.html"))

	body, err := os.ReadFile(filepath.Join(dir, "certificates", "7", "42.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", string(body))

	// overwrite in place
	_, err = svc.Upload(context.Background(), "certificates/7/42.html", strings.NewReader("v2"), 2, util.MimeHTML)
	require.NoError(t, err)
	body, err = os.ReadFile(filepath.Join(dir, "certificates", "7", "42.html"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(body))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	svc := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()}})

	for _, key := range []string{"", "../secret", "certificates/../../etc/passwd", "a//b"} {
		_, err := svc.Upload(context.Background(), key, strings.NewReader("x"), 1, util.MimeHTML)
		assert.ErrorIs(t, err, errInvalidObjectKey, key)
	}
}

func TestNewStorageService_FallsBackToLocal(t *testing.T) {
	// an endpoint with a path is rejected by the minio client
	svc := NewStorageService(&config.Config{Storage: config.StorageConfig{
		Type:          util.StorageMinio,
		MinioEndpoint: "minio.internal:9000/path",
		LocalPath:     t.TempDir(),
	}})

	assert.Equal(t, util.StorageLocal, svc.Provider.Name())
}

func TestMinioProvider_URL(t *testing.T) {
	p := &minioProvider{bucket: "certs", endpoint: "minio.internal:9000", secure: true}
	assert.Equal(t, "https://minio.internal:9000/certs/certificates/1/2.html", p.URL("certificates/1/2.html"))

	p.secure = false
	assert.Equal(t, "http://minio.internal:9000/certs/a.html", p.URL("a.html"))
}
