package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageSaveScript(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewLocalStorage(filepath.Join(tmpDir, "temp"), filepath.Join(tmpDir, "output"))

	data := []byte(`{"product_name": "Acme Blender"}`)
	path, err := s.SaveScript(context.Background(), "script.json", data)
	if err != nil {
		t.Fatalf("SaveScript() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved script: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("saved content = %q, want %q", got, data)
	}
}

func TestLocalStorageSaveVideo(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewLocalStorage(filepath.Join(tmpDir, "temp"), filepath.Join(tmpDir, "output"))

	src := filepath.Join(tmpDir, "rendered.mp4")
	if err := os.WriteFile(src, []byte("mp4-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := s.SaveVideo(context.Background(), "demo.mp4", src)
	if err != nil {
		t.Fatalf("SaveVideo() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved video: %v", err)
	}
	if string(got) != "mp4-bytes" {
		t.Errorf("saved content = %q", got)
	}
	if filepath.Base(path) != "demo.mp4" {
		t.Errorf("saved as %q, want demo.mp4", filepath.Base(path))
	}
}

func TestLocalStorageSaveVideoMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewLocalStorage(tmpDir, tmpDir)

	_, err := s.SaveVideo(context.Background(), "demo.mp4", filepath.Join(tmpDir, "missing.mp4"))
	if err == nil {
		t.Error("expected error for missing source video")
	}
}

func TestLocalStorageListDemos(t *testing.T) {
	tmpDir := t.TempDir()
	outputDir := filepath.Join(tmpDir, "output")
	s := NewLocalStorage(filepath.Join(tmpDir, "temp"), outputDir)

	if err := s.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	for _, name := range []string{"demo1.mp4", "demo2.mov", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	demos, err := s.ListDemos(context.Background())
	if err != nil {
		t.Fatalf("ListDemos() error = %v", err)
	}
	if len(demos) != 2 {
		t.Errorf("ListDemos() returned %d entries, want 2 (videos only): %v", len(demos), demos)
	}
}

func TestLocalStorageListDemosMissingDir(t *testing.T) {
	s := NewLocalStorage("/tmp", filepath.Join(t.TempDir(), "never-created"))

	demos, err := s.ListDemos(context.Background())
	if err != nil {
		t.Fatalf("ListDemos() error = %v", err)
	}
	if len(demos) != 0 {
		t.Errorf("ListDemos() = %v, want empty", demos)
	}
}

func TestLocalStorageSessionDir(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewLocalStorage(filepath.Join(tmpDir, "temp"), filepath.Join(tmpDir, "output"))

	dir, err := s.SessionDir("abc-123")
	if err != nil {
		t.Fatalf("SessionDir() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("session directory missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("session path is not a directory")
	}
	if filepath.Base(dir) != "abc-123" {
		t.Errorf("session dir = %q, want basename abc-123", dir)
	}
}

func TestLocalStorageCleanupSession(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewLocalStorage(filepath.Join(tmpDir, "temp"), filepath.Join(tmpDir, "output"))

	dir, err := s.SessionDir("abc-123")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scene.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.CleanupSession("abc-123"); err != nil {
		t.Fatalf("CleanupSession() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("session directory should be removed")
	}

	if err := s.CleanupSession(""); err == nil {
		t.Error("expected error for empty session id")
	}
}
