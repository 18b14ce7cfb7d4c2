package app

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// session is the working directory for one demo render: downloaded scene
// images, generated clips, narration audio, and the assembled video.
type session struct {
	id      string
	dir     string
	baseDir string
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func newSession(baseDir string) *session {
	return &session{
		id:      time.Now().Format("20060102_150405"),
		baseDir: baseDir,
	}
}

func (s *session) finalize(title string) error {
	sanitized := sanitizeForPath(title)
	if sanitized == "" {
		sanitized = "untitled"
	}
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}

	s.dir = filepath.Join(s.baseDir, fmt.Sprintf("%s_%s", s.id, sanitized))
	return os.MkdirAll(s.dir, 0755)
}

func (s *session) imagesDir() string     { return filepath.Join(s.dir, "images") }
func (s *session) clipsDir() string      { return filepath.Join(s.dir, "clips") }
func (s *session) audioDir() string      { return filepath.Join(s.dir, "audio") }
func (s *session) scriptPath() string    { return filepath.Join(s.dir, "script.json") }
func (s *session) silentPath() string    { return filepath.Join(s.dir, "combined_silent.mp4") }
func (s *session) videoPath() string     { return filepath.Join(s.dir, "video.mp4") }
func (s *session) clipPath(i int) string { return filepath.Join(s.clipsDir(), fmt.Sprintf("video_%03d.mp4", i)) }

func sanitizeForPath(s string) string {
	s = strings.ToLower(s)
	s = sanitizeRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
