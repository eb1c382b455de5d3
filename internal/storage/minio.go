package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage archives raw file imports so the original upload can be
// recovered even after the document content diverges from it.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(cfg *MinIOConfig) (*MinIOStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// UploadImport stores the raw uploaded file under imports/<docID>.
func (s *MinIOStorage) UploadImport(ctx context.Context, docID string, reader io.Reader, size int64, contentType string) error {
	key := "imports/" + docID
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// DownloadImport returns a ReadCloser for the archived upload.
func (s *MinIOStorage) DownloadImport(ctx context.Context, docID string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, "imports/"+docID, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// stat to surface not-found before the caller starts reading
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// PresignedImportURL returns a presigned GET URL valid for the given duration.
func (s *MinIOStorage) PresignedImportURL(ctx context.Context, docID string, expires time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, "imports/"+docID, expires, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
