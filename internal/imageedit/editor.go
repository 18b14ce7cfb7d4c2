// Package imageedit rewrites product images through the OpenAI image
// editing API, used to adapt scraped photos to a scene's prompt.
package imageedit

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel   = "gpt-image-1"
	defaultSize    = "1024x1024"
	defaultQuality = "high"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
	Quality string
}

type Editor struct {
	client  *openai.Client
	model   string
	size    string
	quality string
}

func NewEditor(cfg Config) *Editor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	size := cfg.Size
	if size == "" {
		size = defaultSize
	}
	quality := cfg.Quality
	if quality == "" {
		quality = defaultQuality
	}

	return &Editor{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		size:    size,
		quality: quality,
	}
}

// Request describes one edit. Size and Quality override the editor's
// defaults when set.
type Request struct {
	Image   io.Reader
	Prompt  string
	Size    string
	Quality string
}

// Result holds the edited image: decoded bytes when the model answers
// with base64 data, or a hosted URL otherwise.
type Result struct {
	Data []byte
	URL  string
}

func (e *Editor) Edit(ctx context.Context, req Request) (*Result, error) {
	if req.Image == nil {
		return nil, fmt.Errorf("no image provided")
	}
	if req.Prompt == "" {
		return nil, fmt.Errorf("empty prompt")
	}

	size := req.Size
	if size == "" {
		size = e.size
	}
	quality := req.Quality
	if quality == "" {
		quality = e.quality
	}

	slog.Info("Editing image", "prompt", req.Prompt, "size", size)

	resp, err := e.client.CreateEditImage(ctx, openai.ImageEditRequest{
		Image:   openai.WrapReader(req.Image, "image.png", "image/png"),
		Prompt:  req.Prompt,
		Model:   e.model,
		N:       1,
		Size:    size,
		Quality: quality,
	})
	if err != nil {
		return nil, fmt.Errorf("edit image: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty image response")
	}

	item := resp.Data[0]
	if item.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode image data: %w", err)
		}
		return &Result{Data: data}, nil
	}
	if item.URL != "" {
		return &Result{URL: item.URL}, nil
	}

	return nil, fmt.Errorf("no image data in response")
}
