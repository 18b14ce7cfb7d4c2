package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"demoscript/internal/app"
	"demoscript/internal/script"
	"demoscript/pkg/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	sceneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var (
	generateURL      string
	generateName     string
	generateDesc     string
	generateAudience string
	generatePoints   string
	generateImages   []string
	generateRender   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a demo video script",
	Long: `Generate a scene-by-scene demo video script from a product URL or
description. With no flags, an interactive form collects the product
details. Use --render to also generate the final video.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateURL, "url", "u", "", "Product page URL to scrape")
	generateCmd.Flags().StringVarP(&generateName, "name", "n", "", "Product name")
	generateCmd.Flags().StringVarP(&generateDesc, "description", "d", "", "Product description")
	generateCmd.Flags().StringVarP(&generateAudience, "audience", "a", "", "Target audience")
	generateCmd.Flags().StringVarP(&generatePoints, "points", "p", "", "Key selling points")
	generateCmd.Flags().StringSliceVarP(&generateImages, "image", "i", nil, "Product image URL (repeatable)")
	generateCmd.Flags().BoolVarP(&generateRender, "render", "r", false, "Render the video after generating the script")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	interactive := generateURL == "" && generateName == ""
	if interactive {
		if err := collectProductDetails(); err != nil {
			return err
		}
	}
	if generateURL == "" && generateName == "" {
		return errors.New("please provide --url or --name")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	pipeline := app.NewPipeline(service)

	req := app.ScriptRequest{
		ProductURL:     generateURL,
		ProductName:    generateName,
		Description:    generateDesc,
		TargetAudience: generateAudience,
		SellingPoints:  generatePoints,
		ImageURLs:      generateImages,
	}

	var result *app.ScriptResult
	err = runWithSpinner("Generating script", func() error {
		result, err = pipeline.GenerateScript(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	if result.Script == nil {
		fmt.Println(warnStyle.Render("No structured script produced, agent response:"))
		fmt.Println(result.Text)
		return nil
	}

	printScript(result.Script)

	render := generateRender
	if !render && interactive {
		if err := huh.NewConfirm().
			Title("Render the video now?").
			Description("Generates one clip per scene, then narration").
			Value(&render).
			Run(); err != nil {
			return err
		}
	}
	if !render {
		return nil
	}

	var rendered *app.RenderResult
	err = runWithSpinner("Rendering video", func() error {
		rendered, err = pipeline.RenderVideo(ctx, result.Script)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ " + rendered.Title))
	fmt.Println("  Video:  " + rendered.VideoPath)
	fmt.Println("  Script: " + rendered.ScriptPath)
	if rendered.RemoteURL != "" {
		fmt.Println("  Remote: " + rendered.RemoteURL)
	}
	return nil
}

func collectProductDetails() error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Product URL").
				Description("Leave empty to describe the product manually").
				Value(&generateURL),
			huh.NewInput().
				Title("Product name").
				Value(&generateName),
			huh.NewText().
				Title("Description").
				Value(&generateDesc),
			huh.NewInput().
				Title("Target audience").
				Value(&generateAudience),
			huh.NewInput().
				Title("Key selling points").
				Value(&generatePoints),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	generateURL = strings.TrimSpace(generateURL)
	generateName = strings.TrimSpace(generateName)
	return nil
}

func printScript(s *script.Script) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%s)", s.ProductName, s.VideoDuration)))
	for _, scene := range s.Scenes {
		fmt.Println(sceneStyle.Render(fmt.Sprintf("Scene %d (%ds)", scene.SceneNumber, scene.DurationSeconds)))
		fmt.Println("  " + scene.SceneDescription)
		fmt.Println("  Narration: " + scene.Narration)
		fmt.Println()
	}
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
