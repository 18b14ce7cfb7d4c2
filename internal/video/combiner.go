// Package video assembles scene clips into the finished demo with ffmpeg.
package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

type Combiner struct {
	ffmpegPath string
	tempDir    string
}

func NewCombiner(tempDir string) *Combiner {
	return &Combiner{
		ffmpegPath: "ffmpeg",
		tempDir:    tempDir,
	}
}

// Combine concatenates the clips into outputPath in order, stream copy only.
// All clips must share codec and resolution, which holds for clips from one
// generation batch.
func (c *Combiner) Combine(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to combine")
	}

	for i, p := range clipPaths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("clip %d missing: %w", i+1, err)
		}
		if info.Size() == 0 {
			return fmt.Errorf("clip %d is empty: %s", i+1, p)
		}
	}

	listPath, err := c.writeConcatList(clipPaths)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(listPath) }()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}

	slog.Info("Combining clips", "count", len(clipPaths), "output", outputPath)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w, output: %s", err, string(output))
	}

	return verifyOutput(outputPath)
}

// AddAudio muxes a narration track onto the video, ending at the shorter of
// the two streams. The video stream is copied without re-encoding.
func (c *Combiner) AddAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("input video missing: %w", err)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("input audio missing: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-shortest",
		outputPath,
	}

	slog.Info("Adding audio to video", "video", videoPath, "audio", audioPath)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux failed: %w, output: %s", err, string(output))
	}

	return verifyOutput(outputPath)
}

// writeConcatList builds the ffmpeg concat demuxer input, absolute paths so
// the list works regardless of the working directory.
func (c *Combiner) writeConcatList(clipPaths []string) (string, error) {
	if err := os.MkdirAll(c.tempDir, 0755); err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}

	listPath := filepath.Join(c.tempDir, fmt.Sprintf("video_list_%s.txt", uuid.NewString()))
	listContent := ""
	for _, p := range clipPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		listContent += fmt.Sprintf("file '%s'\n", absPath)
	}

	if err := os.WriteFile(listPath, []byte(listContent), 0644); err != nil {
		return "", fmt.Errorf("failed to write concat list: %w", err)
	}
	return listPath, nil
}

func verifyOutput(outputPath string) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("output file was not created: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output file is empty: %s", outputPath)
	}
	return nil
}
