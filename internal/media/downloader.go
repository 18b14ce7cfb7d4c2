// Package media downloads remote images and video clips into the session's
// working directories.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"demoscript/pkg/httputil"
)

const downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Downloader struct {
	client *httputil.RetryClient
}

func NewDownloader(client *http.Client) *Downloader {
	return &Downloader{
		client: httputil.NewRetryClient(client, httputil.DefaultRetryConfig()),
	}
}

// DownloadImage fetches an image into dir under a uuid filename. The
// extension comes from the URL path, falling back to the response
// Content-Type, then to .jpg.
func (d *Downloader) DownloadImage(ctx context.Context, imageURL, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	slog.Info("Downloading image", "url", imageURL)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	ext := extensionFor(imageURL, resp.Header.Get("Content-Type"))
	filePath := filepath.Join(dir, uuid.NewString()+ext)

	if err := writeTo(filePath, resp.Body); err != nil {
		return "", err
	}

	slog.Info("Image saved", "path", filePath)
	return filePath, nil
}

// DownloadSceneImage places a scene's image in its own subdirectory of
// baseDir so per-scene artifacts stay together.
func (d *Downloader) DownloadSceneImage(ctx context.Context, sceneNumber int, imageURL, baseDir string) (string, error) {
	sceneDir := filepath.Join(baseDir, fmt.Sprintf("scene_%d", sceneNumber))
	return d.DownloadImage(ctx, imageURL, sceneDir)
}

// DownloadVideo fetches a video clip to the exact destination path.
func (d *Downloader) DownloadVideo(ctx context.Context, videoURL, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	slog.Info("Downloading video", "url", videoURL, "path", destPath)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download video: status %d", resp.StatusCode)
	}

	return writeTo(destPath, resp.Body)
}

func writeTo(filePath string, body io.Reader) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func extensionFor(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "image/jpeg":
			return ".jpg"
		case "image/png":
			return ".png"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		}
	}

	if strings.HasPrefix(contentType, "video/") {
		return ".mp4"
	}
	return ".jpg"
}
