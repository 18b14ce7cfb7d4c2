// Package server exposes the script generator over HTTP for workflow tools.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"demoscript/internal/agent"
	"demoscript/internal/imageedit"
	"demoscript/internal/product"
	"demoscript/internal/runway"
)

// ScriptAgent runs one conversational turn of the script writer.
type ScriptAgent interface {
	Chat(ctx context.Context, sessionID, message string) (*agent.Result, error)
}

// ImageAnalyzer is the partial-result analysis entry point.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, imageURLs []string) (map[string]string, error)
}

type ProductScraper interface {
	Scrape(ctx context.Context, pageURL string) (*product.Details, error)
}

type SceneImageFetcher interface {
	DownloadSceneImage(ctx context.Context, sceneNumber int, imageURL, baseDir string) (string, error)
	DownloadVideo(ctx context.Context, videoURL, destPath string) error
}

// ImageEditor rewrites an uploaded image according to a text prompt.
type ImageEditor interface {
	Edit(ctx context.Context, req imageedit.Request) (*imageedit.Result, error)
}

type VideoGenerator interface {
	CreateTask(ctx context.Context, promptImage, promptText string) (string, error)
	TaskStatus(ctx context.Context, taskID string) (*runway.Task, error)
}

// VideoCombiner downloads the given clips and concatenates them into one
// local video file.
type VideoCombiner interface {
	CombineFromURLs(ctx context.Context, videoURLs []string) (string, error)
}

type Deps struct {
	Agent    ScriptAgent
	Analyzer ImageAnalyzer
	Scraper  ProductScraper
	Fetcher  SceneImageFetcher
	Editor   ImageEditor
	Runway   VideoGenerator
	Combiner VideoCombiner
	TempDir  string
}

type Server struct {
	engine *gin.Engine
	deps   Deps
}

func New(deps Deps, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{engine: engine, deps: deps}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleIndex)

	api := s.engine.Group("/api")
	api.POST("/script", s.handleScript)
	api.POST("/analyze-images", s.handleAnalyzeImages)
	api.POST("/scrape-product", s.handleScrapeProduct)
	api.POST("/scene-image", s.handleSceneImage)
	api.POST("/edit-image", s.handleEditImage)
	api.POST("/edit-image-base64", s.handleEditImageBase64)
	api.POST("/runway/generate", s.handleRunwayGenerate)
	api.POST("/runway/task", s.handleRunwayTask)
	api.POST("/runway/download", s.handleRunwayDownload)
	api.POST("/combine-videos", s.handleCombineVideos)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	slog.Info("HTTP server listening", "addr", addr)
	return s.engine.Run(addr)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// fail writes the error response contract shared by every route.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}
