package minio_storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
)

// CoverStorage keeps book cover images in a single bucket, one object
// per book keyed by the book id.
type CoverStorage struct {
	storage    *MinioStorage
	bucket     string
	presignTTL time.Duration
}

func NewCoverStorage(storage *MinioStorage, bucketName string, presignTTL time.Duration) (*CoverStorage, error) {
	ctx := context.Background()
	exists, err := storage.client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := storage.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", bucketName, err)
		}
	}
	return &CoverStorage{storage: storage, bucket: bucketName, presignTTL: presignTTL}, nil
}

func (s *CoverStorage) UploadCover(
	ctx context.Context,
	userID, bookID int64,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (objectKey string, err error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}

	objectKey = fmt.Sprintf("users/%d/books/%d/cover%s", userID, bookID, ext)

	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	_, err = s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *CoverStorage) CoverURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.storage.client.PresignedGetObject(ctx, s.bucket, objectKey, s.presignTTL, reqParams)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *CoverStorage) DeleteCover(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
