package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/groq-go"

	"demoscript/pkg/prompts"
)

const defaultGroqModel = "llama-3.3-70b-versatile"

var _ Titler = (*GroqClient)(nil)

type GroqClient struct {
	client  *groq.Client
	model   groq.ChatModel
	prompts *prompts.Prompts
}

func NewGroqClient(apiKey, model string, p *prompts.Prompts) (*GroqClient, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	if model == "" {
		model = defaultGroqModel
	}

	return &GroqClient{
		client:  client,
		model:   groq.ChatModel(model),
		prompts: p,
	}, nil
}

func (c *GroqClient) GenerateTitle(ctx context.Context, script string) (string, error) {
	prompt, err := c.prompts.RenderTitle(prompts.TitleParams{Script: script})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: c.prompts.System.Title},
			{Role: groq.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	title := strings.TrimSpace(resp.Choices[0].Message.Content)
	if title == "" {
		return "", fmt.Errorf("empty response")
	}

	return strings.Trim(title, `"`), nil
}
