package vision

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// SentinelKey is the single key present in an AnalyzeAll result when the
// batch failed. Callers detect failure by checking for it.
const SentinelKey = "error"

const (
	defaultModel     = openai.GPT4oMini
	defaultMaxTokens = 1000

	analyzeInstruction = "Please analyze this image and extract the details."
)

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// Analyzer turns image URLs into textual descriptions using a
// vision-capable chat completion model. Images are processed one at a
// time, in input order.
type Analyzer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewAnalyzer(cfg Config) *Analyzer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &Analyzer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// AnalyzeAll maps every image URL to its description. On any failure the
// whole batch collapses into a single entry under SentinelKey holding the
// error text; descriptions gathered before the failure are discarded and
// remaining images are not processed. No error crosses this boundary.
func (a *Analyzer) AnalyzeAll(ctx context.Context, imageURLs []string) map[string]string {
	results := make(map[string]string, len(imageURLs))

	for i, imageURL := range imageURLs {
		slog.Info("Processing image", "index", i+1, "url", imageURL)

		description, err := a.describe(ctx, imageURL)
		if err != nil {
			slog.Error("Image analysis failed", "url", imageURL, "error", err)
			return map[string]string{SentinelKey: err.Error()}
		}
		results[imageURL] = description
	}

	slog.Info("Processed images successfully", "count", len(imageURLs))
	return results
}

// Analyze is the recoverable variant of AnalyzeAll: on failure it returns
// the descriptions gathered so far together with an error naming the
// image that failed.
func (a *Analyzer) Analyze(ctx context.Context, imageURLs []string) (map[string]string, error) {
	results := make(map[string]string, len(imageURLs))

	for i, imageURL := range imageURLs {
		slog.Info("Processing image", "index", i+1, "url", imageURL)

		description, err := a.describe(ctx, imageURL)
		if err != nil {
			return results, fmt.Errorf("analyze image %s: %w", imageURL, err)
		}
		results[imageURL] = description
	}

	slog.Info("Processed images successfully", "count", len(imageURLs))
	return results, nil
}

func (a *Analyzer) describe(ctx context.Context, imageURL string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: analyzeInstruction},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	return content, nil
}
