package service

import (
	"access_edu_backend/internal/config"
	"access_edu_backend/internal/util"
	"access_edu_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var errInvalidObjectKey = errors.New("invalid object key")

// StorageProvider 对象存储后端，key 统一使用 "/" 分隔的相对路径
type StorageProvider interface {
	Name() string
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	URL(key string) string
}

// localProvider 写入本地目录，由 /uploads 静态路由对外提供
type localProvider struct {
	root string
}

func (p *localProvider) Name() string { return util.StorageLocal }

func (p *localProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst := filepath.Join(p.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	// 先写临时文件再改名，读取方不会看到写了一半的证书
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (p *localProvider) URL(key string) string {
	return "/uploads/" + key
}

type minioProvider struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

func newMinioProvider(cfg *config.StorageConfig) (*minioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioProvider{
		client:   client,
		bucket:   cfg.MinioBucket,
		endpoint: cfg.MinioEndpoint,
		secure:   cfg.MinioUseSSL,
	}, nil
}

func (p *minioProvider) Name() string { return util.StorageMinio }

func (p *minioProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := p.client.PutObject(ctx, p.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *minioProvider) URL(key string) string {
	scheme := "http"
	if p.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.endpoint, p.bucket, key)
}

type ossProvider struct {
	bucket   *oss.Bucket
	endpoint string
}

func newOSSProvider(cfg *config.StorageConfig) (*ossProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &ossProvider{bucket: bucket, endpoint: cfg.OSSEndpoint}, nil
}

func (p *ossProvider) Name() string { return util.StorageOSS }

func (p *ossProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return p.bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx))
}

func (p *ossProvider) URL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.bucket.BucketName, p.endpoint, key)
}

// StorageService 保存证书文档等生成物
type StorageService struct {
	Provider StorageProvider
}

// NewStorageService 远端存储初始化失败时回退到本地目录
func NewStorageService(cfg *config.Config) *StorageService {
	var (
		provider StorageProvider
		err      error
	)
	switch cfg.Storage.Type {
	case util.StorageMinio:
		provider, err = newMinioProvider(&cfg.Storage)
	case util.StorageOSS:
		provider, err = newOSSProvider(&cfg.Storage)
	}

	if err != nil {
		logger.Log.Warn("Remote storage unavailable, falling back to local",
			zap.String("type", cfg.Storage.Type),
			zap.Error(err),
		)
		provider = nil
	}
	if provider == nil {
		provider = &localProvider{root: cfg.Storage.LocalPath}
	}

	return &StorageService{Provider: provider}
}

// Upload 写入对象并返回可访问的地址
func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	key, err := cleanObjectKey(key)
	if err != nil {
		return "", err
	}
	if err := s.Provider.Put(ctx, key, reader, size, contentType); err != nil {
		return "", fmt.Errorf("%s upload %s: %w", s.Provider.Name(), key, err)
	}

	logger.Log.Debug("Object stored",
		zap.String("backend", s.Provider.Name()),
		zap.String("key", key),
		zap.Int64("size", size),
	)
	return s.Provider.URL(key), nil
}

// GetURL 不检查对象是否存在，证书地址在文档生成前就已确定
func (s *StorageService) GetURL(key string) string {
	cleaned, err := cleanObjectKey(key)
	if err != nil {
		return s.Provider.URL(key)
	}
	return s.Provider.URL(cleaned)
}

func cleanObjectKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", errInvalidObjectKey, key)
	}
	return cleaned, nil
}
