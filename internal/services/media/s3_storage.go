package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

const defaultPresignTTL = time.Hour

// S3Storage serves avatar objects from a single bucket. Uploads happen in the
// media pipeline; the engine only reads keys recorded on profiles.
type S3Storage struct {
	client *minio.Client
	bucket string

	ensureOnce sync.Once
	ensureErr  error
}

func NewS3Storage(client *minio.Client, bucket string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: strings.TrimSpace(bucket),
	}
}

// EnsureBucket creates the avatar bucket on first use. The outcome is cached
// for the process lifetime.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if !exists {
			s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		}
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure avatar bucket %q: %w", s.bucket, s.ensureErr)
	}
	return nil
}

// Ping reports whether the avatar bucket is reachable.
func (s *S3Storage) Ping(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check avatar bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("avatar bucket %q does not exist", s.bucket)
	}
	return nil
}

// PresignGet signs a read URL for an avatar key. Leading slashes are dropped
// so keys written as paths resolve to the same object.
func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("avatar key is empty")
	}
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	params := url.Values{}
	params.Set("response-cache-control", fmt.Sprintf("private, max-age=%d", int(ttl.Seconds())))

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign avatar %q: %w", key, err)
	}
	return presigned.String(), nil
}

func (s *S3Storage) check() error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}
	return nil
}
