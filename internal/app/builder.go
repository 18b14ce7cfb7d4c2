package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"demoscript/internal/agent"
	"demoscript/internal/imageedit"
	"demoscript/internal/llm"
	"demoscript/internal/media"
	"demoscript/internal/product"
	"demoscript/internal/runway"
	"demoscript/internal/speech"
	"demoscript/internal/storage"
	"demoscript/internal/video"
	"demoscript/internal/vision"
	"demoscript/pkg/config"
	"demoscript/pkg/prompts"
)

// BuildService constructs the full dependency graph from configuration.
func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	analyzer := vision.NewAnalyzer(vision.Config{
		APIKey:    cfg.OpenAIAPIKey,
		Model:     cfg.Vision.Model,
		MaxTokens: cfg.Vision.MaxTokens,
	})

	scriptAgent := agent.New(agent.Config{
		APIKey:        cfg.OpenAIAPIKey,
		Model:         cfg.OpenAI.Model,
		Temperature:   cfg.OpenAI.Temperature,
		MaxToolRounds: cfg.OpenAI.MaxToolRounds,
	}, p.System.ScriptWriter, analyzer)

	localStorage := storage.NewLocalStorage(cfg.Video.TempDir, cfg.Video.OutputDir)
	if err := localStorage.EnsureDirectories(); err != nil {
		return nil, err
	}

	var remote storage.ArtifactStore
	if cfg.GCS.Enabled && cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCS.Prefix)
		if err != nil {
			return nil, err
		}
		remote = gcs
	}

	var titler Titler
	if cfg.GroqAPIKey != "" {
		groqClient, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.Groq.Model, p)
		if err != nil {
			return nil, err
		}
		titler = groqClient
	} else {
		slog.Warn("GROQ_API_KEY not set, video titles will fall back to product names")
	}

	return NewService(ServiceOptions{
		Config:   cfg,
		Prompts:  p,
		Agent:    scriptAgent,
		Analyzer: analyzer,
		Scraper:  product.NewScraper(nil),
		Editor: imageedit.NewEditor(imageedit.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.Image.Model,
			Size:    cfg.Image.Size,
			Quality: cfg.Image.Quality,
		}),
		Media: media.NewDownloader(nil),
		Narrator: speech.NewSynthesizer(speech.Config{
			APIKey: cfg.OpenAIAPIKey,
			Voice:  cfg.Speech.Voice,
			Model:  cfg.Speech.Model,
			Speed:  cfg.Speech.Speed,
		}),
		Clips: runway.NewClient(cfg.RunwayAPIKey, runway.Options{
			Model:      cfg.Runway.Model,
			BaseURL:    cfg.Runway.BaseURL,
			PollPeriod: time.Duration(cfg.Runway.PollSeconds) * time.Second,
		}),
		Combiner: video.NewCombiner(cfg.Video.TempDir),
		Storage:  localStorage,
		Remote:   remote,
		Titler:   titler,
	}), nil
}
