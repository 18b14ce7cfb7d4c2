// Package runway animates still scene images into short clips through the
// RunwayML image-to-video API.
package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL    = "https://api.dev.runwayml.com/v1"
	defaultModel      = "gen4_turbo"
	defaultTimeout    = 60 * time.Second
	apiVersion        = "2024-11-06"
	clipSeconds       = 5
	clipRatio         = "1280:720"
	defaultPollPeriod = 5 * time.Second
)

// Terminal task states reported by the API.
const (
	StatusSucceeded = "SUCCEEDED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

type Client struct {
	apiKey     string
	httpClient *http.Client
	model      string
	baseURL    string
	pollPeriod time.Duration
}

type Options struct {
	Model       string
	BaseURL     string
	PollPeriod  time.Duration
	HTTPTimeout time.Duration
}

type createRequest struct {
	PromptImage string `json:"promptImage"`
	PromptText  string `json:"promptText"`
	Model       string `json:"model"`
	Duration    int    `json:"duration"`
	Ratio       string `json:"ratio"`
}

type createResponse struct {
	ID     string `json:"id"`
	TaskID string `json:"taskId"`
}

// Task is a generation task's current state. Output carries result URLs
// once the task succeeds.
type Task struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Progress float64  `json:"progress"`
	Output   []string `json:"output"`
	Failure  string   `json:"failure"`
}

func NewClient(apiKey string, opts Options) *Client {
	timeout := opts.HTTPTimeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		pollPeriod: opts.PollPeriod,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.pollPeriod == 0 {
		c.pollPeriod = defaultPollPeriod
	}
	return c
}

// CreateTask submits an image-to-video generation and returns the task ID.
// promptImage is a public URL or a data URI.
func (c *Client) CreateTask(ctx context.Context, promptImage, promptText string) (string, error) {
	reqBody := createRequest{
		PromptImage: promptImage,
		PromptText:  promptText,
		Model:       c.model,
		Duration:    clipSeconds,
		Ratio:       clipRatio,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/image_to_video", data)
	if err != nil {
		return "", err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	id := resp.ID
	if id == "" {
		id = resp.TaskID
	}
	if id == "" {
		return "", fmt.Errorf("no task id in response")
	}

	slog.Info("Runway task created", "task_id", id, "model", c.model)
	return id, nil
}

// TaskStatus fetches the current state of a generation task.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*Task, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if task.ID == "" {
		task.ID = taskID
	}
	return &task, nil
}

// WaitForVideo polls the task until it reaches a terminal state and returns
// the generated video URL. The caller bounds the wait through ctx.
func (c *Client) WaitForVideo(ctx context.Context, taskID string) (string, error) {
	ticker := time.NewTicker(c.pollPeriod)
	defer ticker.Stop()

	for {
		task, err := c.TaskStatus(ctx, taskID)
		if err != nil {
			return "", err
		}

		slog.Debug("Runway task status", "task_id", taskID, "status", task.Status, "progress", task.Progress)

		switch task.Status {
		case StatusSucceeded, StatusCompleted:
			if len(task.Output) == 0 {
				return "", fmt.Errorf("task %s succeeded with no output", taskID)
			}
			return task.Output[0], nil
		case StatusFailed, StatusCancelled:
			return "", fmt.Errorf("task %s %s: %s", taskID, task.Status, task.Failure)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) doRequest(ctx context.Context, method, url string, data []byte) ([]byte, error) {
	var reqBody io.Reader
	if data != nil {
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Runway-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error: %s", string(body))
	}

	return body, nil
}
