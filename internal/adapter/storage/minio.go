package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/Atomic996/Bougtobstore/internal/app/config"
	"github.com/Atomic996/Bougtobstore/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage uploads listing images to an S3-compatible bucket and hands
// back publicly resolvable URLs.
type MinioStorage struct {
	client *minio.Client
	bucket string
	logger logger.Logger
}

func NewMinioStorage(cfg config.StorageConfig, log logger.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errExists := client.BucketExists(context.Background(), cfg.Bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", cfg.Bucket, err, errExists)
		}
	}

	log.Infof("Image storage initialized: endpoint=%s bucket=%s", cfg.Endpoint, cfg.Bucket)
	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
		logger: log,
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	ext := path.Ext(fileName)
	if ext == "" {
		ext = ".jpg"
	}
	objectKey := fmt.Sprintf("products/%s%s", uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Debugf("uploaded listing image: %s", fileURL)
	return fileURL, nil
}
