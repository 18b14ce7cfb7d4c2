package cmd

import (
	"github.com/spf13/cobra"

	"demoscript/internal/app"
	"demoscript/internal/server"
	"demoscript/pkg/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Expose script generation, image analysis, scraping, and video assembly over HTTP.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	pipeline := app.NewPipeline(service)

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	srv := server.New(server.Deps{
		Agent:    service.Agent(),
		Analyzer: service.Analyzer(),
		Scraper:  service.Scraper(),
		Fetcher:  service.Media(),
		Editor:   service.Editor(),
		Runway:   service.Clips(),
		Combiner: pipeline,
		TempDir:  cfg.Video.TempDir,
	}, verbose)

	return srv.Run(addr)
}
