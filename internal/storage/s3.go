// Package storage provides the object store gateway for cached
// thumbnails. The service never streams thumbnail bytes itself; cache
// hits are answered with a time-limited presigned URL so clients read
// straight from the store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/domain"
)

// s3ErrCodeNotFound is what HeadObject reports for a missing key.
// The NoSuchKey code only appears on GET.
const s3ErrCodeNotFound = "NotFound"

// Store checks existence of, and issues read access to, cached
// thumbnails. Safe for concurrent use; the underlying S3 client is
// created once at startup and never mutated.
type Store struct {
	client s3iface.S3API
	bucket string
	urlTTL time.Duration
}

// New creates a thumbnail store over the given S3 client.
func New(client s3iface.S3API, bucket string, urlTTL time.Duration) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		urlTTL: urlTTL,
	}
}

// Exists issues a metadata-only HEAD for the identifier's storage key.
// A missing object maps to false, not an error; any other backend
// failure (permission, throttling, network) is surfaced to the caller.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	key := domain.StorageKey(id)

	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) && awsErr.Code() == s3ErrCodeNotFound {
			return false, nil
		}
		return false, fmt.Errorf("head object %q: %w", key, err)
	}

	return true, nil
}

// SignedURL mints a presigned GET URL for the cached thumbnail.
// Signing happens locally; no request is sent to the store here.
func (s *Store) SignedURL(ctx context.Context, id string) (string, error) {
	key := domain.StorageKey(id)

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(s.urlTTL)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", key, err)
	}

	return url, nil
}
