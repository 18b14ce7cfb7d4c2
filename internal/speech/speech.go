// Package speech turns narration text into audio through the OpenAI
// text-to-speech API.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultVoice = "alloy"
	defaultModel = "tts-1"
	defaultSpeed = 0.83
)

var validVoices = map[string]bool{
	"alloy":   true,
	"echo":    true,
	"fable":   true,
	"onyx":    true,
	"nova":    true,
	"shimmer": true,
}

var validModels = map[string]bool{
	"tts-1":    true,
	"tts-1-hd": true,
}

type Config struct {
	APIKey  string
	BaseURL string
	Voice   string
	Model   string
	Speed   float64
}

type Synthesizer struct {
	client *openai.Client
	voice  string
	model  string
	speed  float64
}

// NewSynthesizer builds a speech client. Invalid voice, model, or speed
// values fall back to the defaults with a warning rather than failing.
func NewSynthesizer(cfg Config) *Synthesizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	} else if !validVoices[voice] {
		slog.Warn("Invalid voice, using default", "voice", voice, "default", defaultVoice)
		voice = defaultVoice
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	} else if !validModels[model] {
		slog.Warn("Invalid speech model, using default", "model", model, "default", defaultModel)
		model = defaultModel
	}

	speed := cfg.Speed
	if speed == 0 {
		speed = defaultSpeed
	} else if speed < 0.25 || speed > 4.0 {
		slog.Warn("Invalid speech speed, using default", "speed", speed, "default", defaultSpeed)
		speed = defaultSpeed
	}

	return &Synthesizer{
		client: openai.NewClientWithConfig(clientCfg),
		voice:  voice,
		model:  model,
		speed:  speed,
	}
}

// Synthesize renders text to an mp3 under dir and returns the file path.
func (s *Synthesizer) Synthesize(ctx context.Context, text, dir string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("no text provided")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	slog.Info("Generating speech", "voice", s.voice, "model", s.model, "chars", len(text))

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          s.speed,
	})
	if err != nil {
		return "", fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	outputPath := filepath.Join(dir, fmt.Sprintf("speech_%s.mp3", uuid.NewString()))
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp)
	if err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("empty audio response")
	}

	slog.Info("Speech generated", "path", outputPath, "bytes", n)
	return outputPath, nil
}
