package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOClient signs direct browser uploads for avatars and portfolio media.
type MinIOClient struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

func NewMinIOClient(cfg MinIOConfig, logger *slog.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinIOClient{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// EnsureBucket creates the media bucket on first start.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio make bucket: %w", err)
	}
	m.logger.Info("minio bucket created", "bucket", m.bucket)
	return nil
}

func (m *MinIOClient) PresignedPutURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, m.bucket, objectName, expiry)
	if err != nil {
		m.logger.Error("minio presign failed", "object_name", objectName, "bucket", m.bucket, "error", err)
		return "", err
	}
	m.logger.Debug("minio presign issued", "object_name", objectName, "bucket", m.bucket)
	return u.String(), nil
}
