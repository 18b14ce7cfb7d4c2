package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"demoscript/internal/script"
	"demoscript/pkg/prompts"
)

type Pipeline struct {
	service *Service
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

// ScriptRequest describes the product the script should sell. ProductURL,
// when set, is scraped first and its details folded into the agent prompt.
type ScriptRequest struct {
	SessionID      string
	ProductURL     string
	ProductName    string
	Description    string
	TargetAudience string
	SellingPoints  string
	ImageURLs      []string
}

type ScriptResult struct {
	SessionID string
	Text      string
	Script    *script.Script
}

type RenderResult struct {
	Title      string
	VideoPath  string
	ScriptPath string
	RemoteURL  string
}

// GenerateScript runs one agent turn for the request and validates any
// script the agent produced.
func (p *Pipeline) GenerateScript(ctx context.Context, req ScriptRequest) (*ScriptResult, error) {
	if req.ProductURL != "" {
		details, err := p.service.scraper.Scrape(ctx, req.ProductURL)
		if err != nil {
			return nil, fmt.Errorf("scrape product: %w", err)
		}
		slog.Info("Scraped product page", "title", details.Title, "images", len(details.Images))

		if req.ProductName == "" {
			req.ProductName = details.Title
		}
		if req.Description == "" {
			req.Description = details.Description
		}
		req.ImageURLs = append(req.ImageURLs, details.Images...)
	}

	message, err := p.service.prompts.RenderScriptRequest(prompts.ScriptParams{
		ProductName:    req.ProductName,
		Description:    req.Description,
		TargetAudience: req.TargetAudience,
		SellingPoints:  req.SellingPoints,
		ImageURLs:      req.ImageURLs,
	})
	if err != nil {
		return nil, fmt.Errorf("render script request: %w", err)
	}

	result, err := p.service.agent.Chat(ctx, req.SessionID, message)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}

	if result.Script != nil {
		if err := result.Script.Validate(); err != nil {
			slog.Warn("Generated script failed validation", "error", err)
		}
	}

	return &ScriptResult{
		SessionID: result.SessionID,
		Text:      result.Text,
		Script:    result.Script,
	}, nil
}

// Revise feeds user feedback back into an existing script session.
func (p *Pipeline) Revise(ctx context.Context, sessionID, feedback string) (*ScriptResult, error) {
	result, err := p.service.agent.Chat(ctx, sessionID, feedback)
	if err != nil {
		return nil, fmt.Errorf("revise script: %w", err)
	}
	return &ScriptResult{
		SessionID: result.SessionID,
		Text:      result.Text,
		Script:    result.Script,
	}, nil
}

// RenderVideo turns a finished script into the final demo: one generated
// clip per scene, concatenated, narrated, and stored.
func (p *Pipeline) RenderVideo(ctx context.Context, s *script.Script) (*RenderResult, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	title := p.generateTitle(ctx, s)
	sess := newSession(p.service.cfg.Video.TempDir)
	if err := sess.finalize(title); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	scriptData, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal script: %w", err)
	}
	if err := os.WriteFile(sess.scriptPath(), scriptData, 0644); err != nil {
		return nil, fmt.Errorf("save script: %w", err)
	}

	waitBudget := time.Duration(p.service.cfg.Runway.TimeoutSeconds) * time.Second

	clipPaths := make([]string, 0, len(s.Scenes))
	for _, scene := range s.Scenes {
		slog.Info("Generating scene clip", "scene", scene.SceneNumber)

		// keep a local copy of each scene's source image next to the script
		if scene.ImageURL != "" {
			if _, err := p.service.media.DownloadSceneImage(ctx, scene.SceneNumber, scene.ImageURL, sess.imagesDir()); err != nil {
				slog.Warn("Failed to save scene image", "scene", scene.SceneNumber, "error", err)
			}
		}

		taskID, err := p.service.clips.CreateTask(ctx, scene.ImageURL, scene.VideoPrompt)
		if err != nil {
			return nil, fmt.Errorf("scene %d: create task: %w", scene.SceneNumber, err)
		}

		clipURL, err := p.waitForClip(ctx, taskID, waitBudget)
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", scene.SceneNumber, err)
		}

		clipPath := sess.clipPath(scene.SceneNumber)
		if err := p.service.media.DownloadVideo(ctx, clipURL, clipPath); err != nil {
			return nil, fmt.Errorf("scene %d: %w", scene.SceneNumber, err)
		}
		clipPaths = append(clipPaths, clipPath)
	}

	slog.Info("Combining scene clips", "count", len(clipPaths))
	if err := p.service.combiner.Combine(ctx, clipPaths, sess.silentPath()); err != nil {
		return nil, err
	}

	slog.Info("Generating narration")
	audioPath, err := p.service.narrator.Synthesize(ctx, s.Narration(), sess.audioDir())
	if err != nil {
		return nil, fmt.Errorf("generate narration: %w", err)
	}

	if err := p.service.combiner.AddAudio(ctx, sess.silentPath(), audioPath, sess.videoPath()); err != nil {
		return nil, err
	}

	result := &RenderResult{Title: title, ScriptPath: sess.scriptPath()}

	videoName := filepath.Base(sess.dir) + ".mp4"
	localPath, err := p.service.storage.SaveVideo(ctx, videoName, sess.videoPath())
	if err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}
	result.VideoPath = localPath

	if p.service.remote != nil {
		remoteURL, err := p.service.remote.SaveVideo(ctx, videoName, sess.videoPath())
		if err != nil {
			slog.Error("Failed to upload video", "error", err)
		} else {
			result.RemoteURL = remoteURL
			if _, err := p.service.remote.SaveScript(ctx, filepath.Base(sess.dir)+".json", scriptData); err != nil {
				slog.Error("Failed to upload script", "error", err)
			}
		}
	}

	slog.Info("Demo rendered", "title", title, "video", result.VideoPath)
	return result, nil
}

// CombineFromURLs downloads the clips into a fresh batch directory and
// concatenates them into the output directory.
func (p *Pipeline) CombineFromURLs(ctx context.Context, videoURLs []string) (string, error) {
	if len(videoURLs) == 0 {
		return "", fmt.Errorf("no video URLs provided")
	}

	batchID := uuid.NewString()[:8]
	batchDir := filepath.Join(p.service.cfg.Video.TempDir, "batch_"+batchID)

	clipPaths := make([]string, 0, len(videoURLs))
	for i, url := range videoURLs {
		clipPath := filepath.Join(batchDir, fmt.Sprintf("video_%03d.mp4", i+1))
		slog.Info("Downloading clip", "index", i+1, "total", len(videoURLs))
		if err := p.service.media.DownloadVideo(ctx, url, clipPath); err != nil {
			return "", fmt.Errorf("download video %d: %w", i+1, err)
		}
		clipPaths = append(clipPaths, clipPath)
	}

	outputPath := filepath.Join(p.service.cfg.Video.OutputDir, fmt.Sprintf("combined_%s.mp4", batchID))
	if err := p.service.combiner.Combine(ctx, clipPaths, outputPath); err != nil {
		return "", err
	}

	return outputPath, nil
}

// waitForClip bounds a single scene's generation when a timeout is
// configured.
func (p *Pipeline) waitForClip(ctx context.Context, taskID string, budget time.Duration) (string, error) {
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}
	return p.service.clips.WaitForVideo(ctx, taskID)
}

func (p *Pipeline) generateTitle(ctx context.Context, s *script.Script) string {
	if p.service.titler == nil {
		return s.ProductName
	}
	title, err := p.service.titler.GenerateTitle(ctx, s.Narration())
	if err != nil {
		slog.Warn("Title generation failed, using product name", "error", err)
		return s.ProductName
	}
	return title
}
