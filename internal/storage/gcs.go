package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSFileStore stores uploads as objects in a Google Cloud Storage bucket.
type GCSFileStore struct {
	client     *gcs.Client
	bucketName string
}

func NewGCSFileStore(ctx context.Context, bucketName string) (*GCSFileStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSFileStore{client: client, bucketName: bucketName}, nil
}

func (s *GCSFileStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.Bucket(s.bucketName).Object(path).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *GCSFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	reader, err := s.client.Bucket(s.bucketName).Object(path).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *GCSFileStore) Write(ctx context.Context, path string, content io.Reader) error {
	writer := s.client.Bucket(s.bucketName).Object(path).NewWriter(ctx)
	if _, err := io.Copy(writer, content); err != nil {
		return err
	}
	return writer.Close()
}

func (s *GCSFileStore) Delete(ctx context.Context, path string) error {
	return s.client.Bucket(s.bucketName).Object(path).Delete(ctx)
}
