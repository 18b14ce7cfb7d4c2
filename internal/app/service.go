// Package app wires the services together and drives the demo pipeline.
package app

import (
	"context"

	"demoscript/internal/agent"
	"demoscript/internal/imageedit"
	"demoscript/internal/product"
	"demoscript/internal/runway"
	"demoscript/internal/storage"
	"demoscript/pkg/config"
	"demoscript/pkg/prompts"
)

type ScriptAgent interface {
	Chat(ctx context.Context, sessionID, message string) (*agent.Result, error)
}

type Titler interface {
	GenerateTitle(ctx context.Context, script string) (string, error)
}

type Analyzer interface {
	AnalyzeAll(ctx context.Context, imageURLs []string) map[string]string
	Analyze(ctx context.Context, imageURLs []string) (map[string]string, error)
}

type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (*product.Details, error)
}

type ImageEditor interface {
	Edit(ctx context.Context, req imageedit.Request) (*imageedit.Result, error)
}

type MediaDownloader interface {
	DownloadSceneImage(ctx context.Context, sceneNumber int, imageURL, baseDir string) (string, error)
	DownloadVideo(ctx context.Context, videoURL, destPath string) error
}

type Narrator interface {
	Synthesize(ctx context.Context, text, dir string) (string, error)
}

type ClipGenerator interface {
	CreateTask(ctx context.Context, promptImage, promptText string) (string, error)
	TaskStatus(ctx context.Context, taskID string) (*runway.Task, error)
	WaitForVideo(ctx context.Context, taskID string) (string, error)
}

type Assembler interface {
	Combine(ctx context.Context, clipPaths []string, outputPath string) error
	AddAudio(ctx context.Context, videoPath, audioPath, outputPath string) error
}

type Service struct {
	cfg      *config.Config
	prompts  *prompts.Prompts
	agent    ScriptAgent
	analyzer Analyzer
	scraper  Scraper
	editor   ImageEditor
	media    MediaDownloader
	narrator Narrator
	clips    ClipGenerator
	combiner Assembler
	storage  *storage.LocalStorage
	remote   storage.ArtifactStore
	titler   Titler
}

type ServiceOptions struct {
	Config   *config.Config
	Prompts  *prompts.Prompts
	Agent    ScriptAgent
	Analyzer Analyzer
	Scraper  Scraper
	Editor   ImageEditor
	Media    MediaDownloader
	Narrator Narrator
	Clips    ClipGenerator
	Combiner Assembler
	Storage  *storage.LocalStorage
	Remote   storage.ArtifactStore
	Titler   Titler
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:      opts.Config,
		prompts:  opts.Prompts,
		agent:    opts.Agent,
		analyzer: opts.Analyzer,
		scraper:  opts.Scraper,
		editor:   opts.Editor,
		media:    opts.Media,
		narrator: opts.Narrator,
		clips:    opts.Clips,
		combiner: opts.Combiner,
		storage:  opts.Storage,
		remote:   opts.Remote,
		titler:   opts.Titler,
	}
}

func (s *Service) Config() *config.Config         { return s.cfg }
func (s *Service) Prompts() *prompts.Prompts      { return s.prompts }
func (s *Service) Agent() ScriptAgent             { return s.agent }
func (s *Service) Analyzer() Analyzer             { return s.analyzer }
func (s *Service) Scraper() Scraper               { return s.scraper }
func (s *Service) Editor() ImageEditor            { return s.editor }
func (s *Service) Media() MediaDownloader         { return s.media }
func (s *Service) Clips() ClipGenerator           { return s.clips }
func (s *Service) Storage() *storage.LocalStorage { return s.storage }
