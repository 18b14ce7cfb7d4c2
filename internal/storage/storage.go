// Package storage persists finished demo artifacts locally and, when
// configured, to Google Cloud Storage.
package storage

import "context"

type ArtifactStore interface {
	SaveScript(ctx context.Context, name string, data []byte) (string, error)
	SaveVideo(ctx context.Context, name, localPath string) (string, error)
	ListDemos(ctx context.Context) ([]string, error)
}
