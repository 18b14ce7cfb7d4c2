package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var _ ArtifactStore = (*LocalStorage)(nil)

type LocalStorage struct {
	tempDir   string
	outputDir string
}

func NewLocalStorage(tempDir, outputDir string) *LocalStorage {
	return &LocalStorage{
		tempDir:   tempDir,
		outputDir: outputDir,
	}
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}

// SessionDir makes a per-session working directory under the temp root.
func (s *LocalStorage) SessionDir(sessionID string) (string, error) {
	dir := filepath.Join(s.tempDir, sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	return dir, nil
}

func (s *LocalStorage) SaveScript(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write script file: %w", err)
	}

	return path, nil
}

// SaveVideo copies a rendered video from its working location into the
// output directory.
func (s *LocalStorage) SaveVideo(_ context.Context, name, localPath string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video: %w", err)
	}
	defer func() { _ = src.Close() }()

	destPath := filepath.Join(s.outputDir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, src); err != nil {
		return "", fmt.Errorf("failed to copy video: %w", err)
	}

	return destPath, nil
}

// ListDemos returns the rendered videos in the output directory.
func (s *LocalStorage) ListDemos(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var demos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".mp4" || ext == ".mov" || ext == ".mkv" {
			demos = append(demos, filepath.Join(s.outputDir, entry.Name()))
		}
	}

	return demos, nil
}

// CleanupSession removes a session's working directory and everything in it.
func (s *LocalStorage) CleanupSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("empty session id")
	}
	return os.RemoveAll(filepath.Join(s.tempDir, sessionID))
}
