package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"demoscript/internal/app"
	"demoscript/pkg/config"
)

var combineCmd = &cobra.Command{
	Use:   "combine <url>...",
	Short: "Combine video clips into one file",
	Long:  `Download the given video URLs and concatenate them into a single video.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
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

	var outputPath string
	err = runWithSpinner(fmt.Sprintf("Combining %d clips", len(args)), func() error {
		outputPath, err = pipeline.CombineFromURLs(ctx, args)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println("  Output: " + outputPath)
	return nil
}
