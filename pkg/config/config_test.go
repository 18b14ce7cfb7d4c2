package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.OpenAI.Model != defaultChatModel {
		t.Errorf("OpenAI.Model = %q, want %q", cfg.OpenAI.Model, defaultChatModel)
	}
	if cfg.OpenAI.Temperature != defaultTemperature {
		t.Errorf("OpenAI.Temperature = %v, want %v", cfg.OpenAI.Temperature, defaultTemperature)
	}
	if cfg.Vision.MaxTokens != defaultVisionTokens {
		t.Errorf("Vision.MaxTokens = %d, want %d", cfg.Vision.MaxTokens, defaultVisionTokens)
	}
	if cfg.Image.Model != defaultImageModel {
		t.Errorf("Image.Model = %q, want %q", cfg.Image.Model, defaultImageModel)
	}
	if cfg.Image.Quality != defaultImageQuality {
		t.Errorf("Image.Quality = %q, want %q", cfg.Image.Quality, defaultImageQuality)
	}
	if cfg.Runway.Model != defaultRunwayModel {
		t.Errorf("Runway.Model = %q, want %q", cfg.Runway.Model, defaultRunwayModel)
	}
	if cfg.Speech.Speed != defaultSpeechSpeed {
		t.Errorf("Speech.Speed = %v, want %v", cfg.Speech.Speed, defaultSpeechSpeed)
	}
	if cfg.Video.OutputDir != defaultOutputDir {
		t.Errorf("Video.OutputDir = %q, want %q", cfg.Video.OutputDir, defaultOutputDir)
	}
	if cfg.Server.Addr != defaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, defaultServerAddr)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.OpenAI.Model = "gpt-4o"
	cfg.Vision.MaxTokens = 500
	applyDefaults(cfg)

	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("OpenAI.Model = %q, want explicit value preserved", cfg.OpenAI.Model)
	}
	if cfg.Vision.MaxTokens != 500 {
		t.Errorf("Vision.MaxTokens = %d, want explicit value preserved", cfg.Vision.MaxTokens)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
openai:
  model: gpt-4.1
  temperature: 0.2
vision:
  max_tokens: 256
server:
  addr: ":9000"
gcs:
  enabled: true
  prefix: generated
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	loadYAML(cfg, path)
	applyDefaults(cfg)

	if cfg.OpenAI.Model != "gpt-4.1" {
		t.Errorf("OpenAI.Model = %q, want %q", cfg.OpenAI.Model, "gpt-4.1")
	}
	if cfg.OpenAI.Temperature != 0.2 {
		t.Errorf("OpenAI.Temperature = %v, want 0.2", cfg.OpenAI.Temperature)
	}
	if cfg.Vision.MaxTokens != 256 {
		t.Errorf("Vision.MaxTokens = %d, want 256", cfg.Vision.MaxTokens)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9000")
	}
	if !cfg.GCS.Enabled {
		t.Error("GCS.Enabled should be true")
	}
	if cfg.GCS.Prefix != "generated" {
		t.Errorf("GCS.Prefix = %q, want %q", cfg.GCS.Prefix, "generated")
	}
	// untouched sections still get defaults
	if cfg.Runway.BaseURL != defaultRunwayBaseURL {
		t.Errorf("Runway.BaseURL = %q, want default", cfg.Runway.BaseURL)
	}
}

func TestLoadYAMLMissingFile(t *testing.T) {
	cfg := &Config{}
	loadYAML(cfg, filepath.Join(t.TempDir(), "absent.yaml"))
	applyDefaults(cfg)

	if cfg.OpenAI.Model != defaultChatModel {
		t.Errorf("missing file should leave defaults, got %q", cfg.OpenAI.Model)
	}
}
