package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"demoscript/internal/imageedit"
	"demoscript/internal/runway"
	"demoscript/internal/script"
)

type scriptRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

type scriptResponse struct {
	Response      string         `json:"response"`
	SessionID     string         `json:"session_id"`
	RawText       string         `json:"raw_text"`
	ProductName   string         `json:"product_name,omitempty"`
	VideoDuration string         `json:"video_duration,omitempty"`
	Scenes        []script.Scene `json:"scenes,omitempty"`
}

type analyzeImagesRequest struct {
	ImageURLs []string `json:"image_urls" binding:"required"`
}

type scrapeProductRequest struct {
	URL string `json:"url" binding:"required"`
}

type sceneImageRequest struct {
	SceneNumber int    `json:"scene_number" binding:"required"`
	ImageURL    string `json:"image_url" binding:"required"`
	Prompt      string `json:"prompt"`
	VideoPrompt string `json:"video_prompt"`
}

type editImageBase64Request struct {
	ImageData    string `json:"image_data" binding:"required"`
	Prompt       string `json:"prompt" binding:"required"`
	Size         string `json:"size"`
	Quality      string `json:"quality"`
	VideoPrompt  string `json:"video_prompt"`
	ReturnFormat string `json:"return_format"`
}

type runwayGenerateRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
	Prompt   string `json:"prompt" binding:"required"`
}

type runwayTaskRequest struct {
	TaskID string `json:"task_id" binding:"required"`
}

type combineVideosRequest struct {
	VideoURLs []string `json:"video_urls" binding:"required"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Product demo script generator",
		"endpoints": gin.H{
			"/api/script":            "POST - Generate a demo video script",
			"/api/analyze-images":    "POST - Analyze product images",
			"/api/scrape-product":    "POST - Scrape product details from a URL",
			"/api/scene-image":       "POST - Download and prepare a scene image",
			"/api/edit-image":        "POST - Edit an uploaded image with a prompt",
			"/api/edit-image-base64": "POST - Edit a base64-encoded image with a prompt",
			"/api/runway/generate":   "POST - Start an image-to-video generation",
			"/api/runway/task":       "POST - Check a generation task",
			"/api/runway/download":   "POST - Download a finished generation's video",
			"/api/combine-videos":    "POST - Combine clips into one video",
		},
	})
}

func (s *Server) handleScript(c *gin.Context) {
	var req scriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.deps.Agent.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	resp := scriptResponse{
		Response:  result.Text,
		SessionID: result.SessionID,
		RawText:   result.Text,
	}
	if result.Script != nil {
		resp.ProductName = result.Script.ProductName
		resp.VideoDuration = result.Script.VideoDuration
		resp.Scenes = result.Script.Scenes
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAnalyzeImages(c *gin.Context) {
	var req analyzeImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.deps.Analyzer.Analyze(c.Request.Context(), req.ImageURLs)
	if err != nil {
		// partial results travel with the error so callers keep what succeeded
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error(), "results": results})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleScrapeProduct(c *gin.Context) {
	var req scrapeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	details, err := s.deps.Scraper.Scrape(c.Request.Context(), req.URL)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, details)
}

func (s *Server) handleSceneImage(c *gin.Context) {
	var req sceneImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	path, err := s.deps.Fetcher.DownloadSceneImage(c.Request.Context(), req.SceneNumber, req.ImageURL, s.deps.TempDir)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"scene_number": req.SceneNumber,
		"image_path":   path,
		"prompt":       req.Prompt,
		"video_prompt": req.VideoPrompt,
	})
}

func (s *Server) handleEditImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "image file is required")
		return
	}
	prompt := c.PostForm("prompt")
	if prompt == "" {
		fail(c, http.StatusBadRequest, "prompt is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	defer func() { _ = src.Close() }()

	result, err := s.deps.Editor.Edit(c.Request.Context(), imageedit.Request{
		Image:   src,
		Prompt:  prompt,
		Size:    c.PostForm("size"),
		Quality: c.PostForm("quality"),
	})
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	s.respondEditedImage(c, result, c.PostForm("return_format"), "")
}

func (s *Server) handleEditImageBase64(c *gin.Context) {
	var req editImageBase64Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	imageData, err := base64.StdEncoding.DecodeString(req.ImageData)
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid base64 image data: %v", err))
		return
	}

	result, err := s.deps.Editor.Edit(c.Request.Context(), imageedit.Request{
		Image:   bytes.NewReader(imageData),
		Prompt:  req.Prompt,
		Size:    req.Size,
		Quality: req.Quality,
	})
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	s.respondEditedImage(c, result, req.ReturnFormat, req.VideoPrompt)
}

// respondEditedImage mirrors the editor's url-or-base64 result shape.
// With return_format "file" the raw image bytes are streamed instead.
func (s *Server) respondEditedImage(c *gin.Context, result *imageedit.Result, returnFormat, videoPrompt string) {
	if returnFormat == "file" && len(result.Data) > 0 {
		c.Data(http.StatusOK, "image/png", result.Data)
		return
	}

	resp := gin.H{}
	if len(result.Data) > 0 {
		resp["b64_json"] = base64.StdEncoding.EncodeToString(result.Data)
		if s.deps.TempDir != "" {
			path := filepath.Join(s.deps.TempDir, "output_"+uuid.NewString()+".png")
			if err := os.WriteFile(path, result.Data, 0644); err == nil {
				resp["saved_path"] = path
			}
		}
	} else if result.URL != "" {
		resp["url"] = result.URL
	}
	if videoPrompt != "" {
		resp["video_prompt"] = videoPrompt
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRunwayGenerate(c *gin.Context) {
	var req runwayGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	taskID, err := s.deps.Runway.CreateTask(c.Request.Context(), req.ImageURL, req.Prompt)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "task_id": taskID})
}

func (s *Server) handleRunwayTask(c *gin.Context) {
	var req runwayTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := s.deps.Runway.TaskStatus(c.Request.Context(), req.TaskID)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"task_id":  task.ID,
		"status":   task.Status,
		"progress": task.Progress,
		"output":   task.Output,
	})
}

// handleRunwayDownload fetches a finished task's clip to local disk. A
// task still in flight answers success=false rather than an error status.
func (s *Server) handleRunwayDownload(c *gin.Context) {
	var req runwayTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := s.deps.Runway.TaskStatus(c.Request.Context(), req.TaskID)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	if task.Status != runway.StatusSucceeded && task.Status != runway.StatusCompleted {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   fmt.Sprintf("task is not completed yet, current status: %s", task.Status),
		})
		return
	}
	if len(task.Output) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "no output found for task"})
		return
	}

	destPath := filepath.Join(s.deps.TempDir, fmt.Sprintf("runway_%s.mp4", task.ID))
	if err := s.deps.Fetcher.DownloadVideo(c.Request.Context(), task.Output[0], destPath); err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"video_url":    task.Output[0],
		"download_url": destPath,
	})
}

func (s *Server) handleCombineVideos(c *gin.Context) {
	var req combineVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.VideoURLs) == 0 {
		fail(c, http.StatusBadRequest, "no video URLs provided")
		return
	}

	path, err := s.deps.Combiner.CombineFromURLs(c.Request.Context(), req.VideoURLs)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"combined_video_path": path,
		"video_count":         len(req.VideoURLs),
	})
}
