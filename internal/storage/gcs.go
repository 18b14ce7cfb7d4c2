package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

var _ ArtifactStore = (*GCSStorage)(nil)

// GCSStorage publishes finished demos to a bucket under a common prefix.
type GCSStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStorage(ctx context.Context, bucket, prefix string) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) SaveScript(ctx context.Context, name string, data []byte) (string, error) {
	objectName := path.Join(s.prefix, name)
	if err := s.upload(ctx, objectName, "application/json", bytes.NewReader(data)); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

func (s *GCSStorage) SaveVideo(ctx context.Context, name, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video: %w", err)
	}
	defer func() { _ = f.Close() }()

	objectName := path.Join(s.prefix, name)
	if err := s.upload(ctx, objectName, "video/mp4", f); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// ListDemos returns the video objects stored under the demo prefix.
func (s *GCSStorage) ListDemos(ctx context.Context) ([]string, error) {
	bkt := s.client.Bucket(s.bucket)
	query := &storage.Query{Prefix: s.prefix}

	var demos []string
	it := bkt.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		ext := strings.ToLower(path.Ext(attrs.Name))
		if ext == ".mp4" || ext == ".mov" || ext == ".mkv" {
			demos = append(demos, fmt.Sprintf("gs://%s/%s", s.bucket, attrs.Name))
		}
	}

	return demos, nil
}

func (s *GCSStorage) upload(ctx context.Context, objectName, contentType string, r io.Reader) error {
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload: %w", err)
	}
	return nil
}
