package video

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCombiner(t *testing.T) {
	c := NewCombiner("/tmp/test")

	if c.tempDir != "/tmp/test" {
		t.Errorf("tempDir = %q, want %q", c.tempDir, "/tmp/test")
	}
	if c.ffmpegPath != "ffmpeg" {
		t.Errorf("ffmpegPath = %q, want %q", c.ffmpegPath, "ffmpeg")
	}
}

func TestCombineNoClips(t *testing.T) {
	c := NewCombiner(t.TempDir())

	err := c.Combine(context.Background(), nil, filepath.Join(t.TempDir(), "out.mp4"))
	if err == nil {
		t.Error("expected error for empty clip list")
	}
}

func TestCombineMissingClip(t *testing.T) {
	c := NewCombiner(t.TempDir())

	err := c.Combine(context.Background(), []string{"/nonexistent/clip.mp4"}, filepath.Join(t.TempDir(), "out.mp4"))
	if err == nil {
		t.Fatal("expected error for missing clip")
	}
	if !strings.Contains(err.Error(), "clip 1 missing") {
		t.Errorf("error = %v", err)
	}
}

func TestCombineEmptyClip(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.mp4")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCombiner(dir)
	err := c.Combine(context.Background(), []string{empty}, filepath.Join(dir, "out.mp4"))
	if err == nil {
		t.Fatal("expected error for empty clip")
	}
	if !strings.Contains(err.Error(), "is empty") {
		t.Errorf("error = %v", err)
	}
}

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	c := NewCombiner(dir)

	clips := []string{
		filepath.Join(dir, "video_001.mp4"),
		filepath.Join(dir, "video_002.mp4"),
	}

	listPath, err := c.writeConcatList(clips)
	if err != nil {
		t.Fatalf("writeConcatList() error = %v", err)
	}
	defer os.Remove(listPath)

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("reading list file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("list has %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		want := "file '" + clips[i] + "'"
		if line != want {
			t.Errorf("line %d = %q, want %q", i, line, want)
		}
		if !strings.Contains(line, string(filepath.Separator)) || !filepath.IsAbs(clips[i]) {
			t.Errorf("line %d should carry an absolute path: %q", i, line)
		}
	}
}

func TestWriteConcatListRelativePaths(t *testing.T) {
	dir := t.TempDir()
	c := NewCombiner(dir)

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(originalWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	listPath, err := c.writeConcatList([]string{"clip.mp4"})
	if err != nil {
		t.Fatalf("writeConcatList() error = %v", err)
	}
	defer os.Remove(listPath)

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatal(err)
	}

	line := strings.TrimSpace(string(data))
	wantPath, _ := filepath.Abs("clip.mp4")
	if line != "file '"+wantPath+"'" {
		t.Errorf("list line = %q, want absolute path %q", line, wantPath)
	}
}

func TestAddAudioMissingInputs(t *testing.T) {
	dir := t.TempDir()
	c := NewCombiner(dir)

	video := filepath.Join(dir, "v.mp4")
	audio := filepath.Join(dir, "a.mp3")
	out := filepath.Join(dir, "out.mp4")

	if err := c.AddAudio(context.Background(), video, audio, out); err == nil {
		t.Error("expected error for missing video")
	}

	if err := os.WriteFile(video, []byte("v"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := c.AddAudio(context.Background(), video, audio, out); err == nil {
		t.Error("expected error for missing audio")
	}
}

func TestCombineWithFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}

	dir := t.TempDir()
	c := NewCombiner(dir)

	clip := createTestClip(t, dir)
	out := filepath.Join(dir, "combined.mp4")

	if err := c.Combine(context.Background(), []string{clip, clip}, out); err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output is empty")
	}
}

func createTestClip(t *testing.T, dir string) string {
	t.Helper()

	clipPath := filepath.Join(dir, "clip.mp4")
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi",
		"-i", "color=c=black:s=64x64:d=0.2",
		"-pix_fmt", "yuv420p",
		clipPath,
	)
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test clip: %v", err)
	}
	return clipPath
}
