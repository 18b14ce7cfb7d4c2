package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"demoscript/internal/script"
)

const toolProcessMultiImages = "process_multi_images"

const (
	defaultModel     = openai.GPT4oMini
	defaultMaxRounds = 5
)

// ImageAnalyzer is the downstream image analysis tool. The sentinel-keyed
// mapping it returns is forwarded to the model verbatim.
type ImageAnalyzer interface {
	AnalyzeAll(ctx context.Context, imageURLs []string) map[string]string
}

type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float64
	MaxToolRounds int
}

// Agent is a script-writing conversational agent: a chat model armed with
// the image analysis tool and a per-session conversation memory.
type Agent struct {
	client       *openai.Client
	model        string
	temperature  float32
	maxRounds    int
	systemPrompt string
	analyzer     ImageAnalyzer
	sessions     *SessionStore
}

type Result struct {
	SessionID string
	Text      string
	// Script is set when the response carried a parseable script block.
	Script *script.Script
}

func New(cfg Config, systemPrompt string, analyzer ImageAnalyzer) *Agent {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxRounds := cfg.MaxToolRounds
	if maxRounds == 0 {
		maxRounds = defaultMaxRounds
	}

	return &Agent{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        model,
		temperature:  float32(cfg.Temperature),
		maxRounds:    maxRounds,
		systemPrompt: systemPrompt,
		analyzer:     analyzer,
		sessions:     NewSessionStore(),
	}
}

var imageTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        toolProcessMultiImages,
		Description: "Process a list of product images and return their details sequentially. Returns a mapping from image URL to its analysis.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"image_urls": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "List of URLs pointing to images to analyze",
				},
			},
			"required": []string{"image_urls"},
		},
	},
}

// Chat sends a user message into the session's conversation and runs the
// tool loop until the model answers in plain text or the round budget is
// spent. An empty sessionID starts a new session.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) (*Result, error) {
	if sessionID == "" {
		sessionID = a.sessions.NewSession()
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt},
	}
	messages = append(messages, a.sessions.History(sessionID)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	for round := 0; round < a.maxRounds; round++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.model,
			Temperature: a.temperature,
			Messages:    messages,
			Tools:       []openai.Tool{imageTool},
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response choices")
		}

		reply := resp.Choices[0].Message
		messages = append(messages, reply)

		if len(reply.ToolCalls) == 0 {
			a.sessions.Replace(sessionID, messages[1:])

			parsed, err := script.Extract(reply.Content)
			if err != nil {
				slog.Debug("Response carried no script block", "session", sessionID, "error", err)
				parsed = nil
			}
			return &Result{SessionID: sessionID, Text: reply.Content, Script: parsed}, nil
		}

		for _, call := range reply.ToolCalls {
			slog.Info("Agent tool call", "session", sessionID, "tool", call.Function.Name)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    a.dispatch(ctx, call),
			})
		}
	}

	return nil, fmt.Errorf("agent exceeded %d tool rounds", a.maxRounds)
}

func (a *Agent) dispatch(ctx context.Context, call openai.ToolCall) string {
	if call.Function.Name != toolProcessMultiImages {
		return toolError(fmt.Sprintf("unknown tool %q", call.Function.Name))
	}

	var args struct {
		ImageURLs []string `json:"image_urls"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return toolError(fmt.Sprintf("bad arguments: %v", err))
	}

	results := a.analyzer.AnalyzeAll(ctx, args.ImageURLs)
	data, err := json.Marshal(results)
	if err != nil {
		return toolError(err.Error())
	}
	return string(data)
}

func toolError(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}
