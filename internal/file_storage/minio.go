package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/SeakMengs/SecCert/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const certificateDirectory = "certificates"

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

// MinioStore uploads rendered files to an S3 compatible bucket and drops the local copy.
type MinioStore struct {
	s3     *minio.Client
	bucket string
	logger *zap.SugaredLogger
}

func NewMinioStore(ctx context.Context, s3 *minio.Client, bucket string, logger *zap.SugaredLogger) (*MinioStore, error) {
	if err := createBucketIfNotExists(ctx, s3, bucket); err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &MinioStore{s3: s3, bucket: bucket, logger: logger}, nil
}

func createBucketIfNotExists(ctx context.Context, s3 *minio.Client, bucketName string) error {
	exists, err := s3.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		err = s3.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return err
		}
	}

	return nil
}

// ObjectName maps a local file to its key in the bucket, e.g. "certificates/CERT-X-Y.pdf".
func ObjectName(localPath string) string {
	return certificateDirectory + "/" + filepath.Base(localPath)
}

func (s *MinioStore) Put(ctx context.Context, localPath string) (string, error) {
	objectName := ObjectName(localPath)

	// object names derive from certificate numbers, never overwrite another certificate
	if _, err := s.s3.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{}); err == nil {
		os.Remove(localPath)
		return "", ErrFileExists
	} else if !isNoSuchKey(err) {
		return "", fmt.Errorf("failed to check object %s: %w", objectName, err)
	}

	_, err := s.s3.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	if err := os.Remove(localPath); err != nil {
		s.logger.Warnf("Failed to remove local copy %s after upload: %v", localPath, err)
	}

	return objectName, nil
}

func (s *MinioStore) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	object, err := s.s3.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}

	info, err := object.Stat()
	if err != nil {
		object.Close()
		if isNoSuchKey(err) {
			return nil, 0, ErrFileNotFound
		}
		return nil, 0, err
	}

	return object, info.Size, nil
}

func (s *MinioStore) Remove(ctx context.Context, ref string) error {
	return s.s3.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{})
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	return errors.As(err, &resp) && resp.Code == "NoSuchKey"
}
