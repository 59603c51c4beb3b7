package publish

import (
	"context"
	"errors"
	"fmt"
	"io"

	"blueblog/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioBucket uploads to an S3-compatible bucket (MinIO, AWS S3, GCS interop).
type minioBucket struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to the bucket and creates it when missing.
func NewMinIO(ctx context.Context, cfg config.PublishConfig) (Bucket, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("publish endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("publish credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("publish bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioBucket{client: cli, bucket: cfg.Bucket}, nil
}

func (m *minioBucket) Put(ctx context.Context, obj Object, r io.Reader) error {
	_, err := m.client.PutObject(ctx, m.bucket, obj.Key, r, obj.Size, minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		CacheControl: obj.CacheControl,
	})
	return err
}
