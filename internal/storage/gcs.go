package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore writes objects to a Google Cloud Storage bucket and mints signed
// read URLs for them. Credentials come from the service-account JSON supplied
// at startup, which is also what signs the URLs.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, serviceAccountJSON []byte, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, option.WithCredentialsJSON(serviceAccountJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

// Upload writes data under key, overwriting any previous object.
func (s *GCSStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish object %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a GET URL for key valid for the given duration. The
// default signing scheme is used because V4 caps expiry at seven days and
// these URLs live for a year.
func (s *GCSStore) SignedURL(key string, expiry time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", key, err)
	}
	return url, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
