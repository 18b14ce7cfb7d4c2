package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath    = "config.yaml"
	defaultChatModel     = "gpt-4o-mini"
	defaultVisionModel   = "gpt-4o-mini"
	defaultTemperature   = 0.7
	defaultVisionTokens  = 1000
	defaultMaxToolRounds = 5
	defaultImageModel    = "gpt-image-1"
	defaultImageSize     = "1024x1024"
	defaultImageQuality  = "high"
	defaultVoice         = "alloy"
	defaultSpeechModel   = "tts-1"
	defaultSpeechSpeed   = 0.83
	defaultRunwayBaseURL = "https://api.dev.runwayml.com/v1"
	defaultRunwayModel   = "gen4_turbo"
	defaultPollSeconds   = 5
	defaultTaskTimeout   = 600
	defaultOutputDir     = "./output"
	defaultTempDir       = "./temp"
	defaultServerAddr    = ":8000"
	defaultGCSPrefix     = "demos"
)

type Config struct {
	OpenAIAPIKey string
	GroqAPIKey   string
	RunwayAPIKey string
	GCSBucket    string

	OpenAI  OpenAIConfig  `yaml:"openai"`
	Vision  VisionConfig  `yaml:"vision"`
	Image   ImageConfig   `yaml:"image"`
	Speech  SpeechConfig  `yaml:"speech"`
	Runway  RunwayConfig  `yaml:"runway"`
	Groq    GroqConfig    `yaml:"groq"`
	Video   VideoConfig   `yaml:"video"`
	Server  ServerConfig  `yaml:"server"`
	GCS     GCSConfig     `yaml:"gcs"`
	Secrets SecretsConfig `yaml:"secrets"`
}

type OpenAIConfig struct {
	Model         string  `yaml:"model"`
	Temperature   float64 `yaml:"temperature"`
	MaxToolRounds int     `yaml:"max_tool_rounds"`
}

type VisionConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type ImageConfig struct {
	Model   string `yaml:"model"`
	Size    string `yaml:"size"`
	Quality string `yaml:"quality"`
}

type SpeechConfig struct {
	Voice string  `yaml:"voice"`
	Model string  `yaml:"model"`
	Speed float64 `yaml:"speed"`
}

type RunwayConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	PollSeconds    int    `yaml:"poll_seconds"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type GroqConfig struct {
	Model string `yaml:"model"`
}

type VideoConfig struct {
	OutputDir string `yaml:"output_dir"`
	TempDir   string `yaml:"temp_dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type GCSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

// SecretsConfig holds GCP Secret Manager resource names used when the
// corresponding environment variable is unset.
type SecretsConfig struct {
	OpenAIKey string `yaml:"openai_key"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		RunwayAPIKey: os.Getenv("RUNWAY_API_KEY"),
		GCSBucket:    os.Getenv("GCS_BUCKET"),
	}

	loadYAML(cfg, defaultConfigPath)
	applyDefaults(cfg)

	if cfg.OpenAIAPIKey == "" && cfg.Secrets.OpenAIKey != "" {
		key, err := fetchSecret(ctx, cfg.Secrets.OpenAIKey)
		if err != nil {
			return nil, fmt.Errorf("fetch OpenAI key from secret manager: %w", err)
		}
		cfg.OpenAIAPIKey = key
	}

	return cfg, nil
}

func loadYAML(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = defaultChatModel
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = defaultTemperature
	}
	if cfg.OpenAI.MaxToolRounds == 0 {
		cfg.OpenAI.MaxToolRounds = defaultMaxToolRounds
	}
	if cfg.Vision.Model == "" {
		cfg.Vision.Model = defaultVisionModel
	}
	if cfg.Vision.MaxTokens == 0 {
		cfg.Vision.MaxTokens = defaultVisionTokens
	}
	if cfg.Image.Model == "" {
		cfg.Image.Model = defaultImageModel
	}
	if cfg.Image.Size == "" {
		cfg.Image.Size = defaultImageSize
	}
	if cfg.Image.Quality == "" {
		cfg.Image.Quality = defaultImageQuality
	}
	if cfg.Speech.Voice == "" {
		cfg.Speech.Voice = defaultVoice
	}
	if cfg.Speech.Model == "" {
		cfg.Speech.Model = defaultSpeechModel
	}
	if cfg.Speech.Speed == 0 {
		cfg.Speech.Speed = defaultSpeechSpeed
	}
	if cfg.Runway.BaseURL == "" {
		cfg.Runway.BaseURL = defaultRunwayBaseURL
	}
	if cfg.Runway.Model == "" {
		cfg.Runway.Model = defaultRunwayModel
	}
	if cfg.Runway.PollSeconds == 0 {
		cfg.Runway.PollSeconds = defaultPollSeconds
	}
	if cfg.Runway.TimeoutSeconds == 0 {
		cfg.Runway.TimeoutSeconds = defaultTaskTimeout
	}
	if cfg.Video.OutputDir == "" {
		cfg.Video.OutputDir = defaultOutputDir
	}
	if cfg.Video.TempDir == "" {
		cfg.Video.TempDir = defaultTempDir
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}

func fetchSecret(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret version: %w", err)
	}

	return string(resp.GetPayload().GetData()), nil
}
