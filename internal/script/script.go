package script

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const (
	// A demo script is six five-second scenes, 30 seconds total.
	ExpectedScenes = 6
	SceneSeconds   = 5
)

type Scene struct {
	SceneNumber      int    `json:"scene_number"`
	DurationSeconds  int    `json:"duration_seconds"`
	SceneDescription string `json:"scene_description"`
	ImagePrompt      string `json:"image_prompt"`
	VideoPrompt      string `json:"video_prompt"`
	Narration        string `json:"narration"`
	ImageURL         string `json:"image_url,omitempty"`
}

type Script struct {
	ProductName   string  `json:"product_name"`
	VideoDuration string  `json:"video_duration"`
	Scenes        []Scene `json:"scenes"`
}

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareScript = regexp.MustCompile(`(?s)\{\s*"product_name".*\}`)
)

// Extract pulls the structured script out of agent prose. The model is
// asked to emit a fenced JSON block after the human-readable script, but
// it sometimes drops the fences, so a bare object is accepted too.
func Extract(text string) (*Script, error) {
	raw := ""
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := bareScript.FindString(text); m != "" {
		raw = m
	}

	if raw == "" {
		return nil, fmt.Errorf("no script JSON found in response")
	}

	var s Script
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("parse script JSON: %w", err)
	}

	return &s, nil
}

func (s *Script) Validate() error {
	if strings.TrimSpace(s.ProductName) == "" {
		return fmt.Errorf("script has no product name")
	}
	if len(s.Scenes) != ExpectedScenes {
		return fmt.Errorf("script has %d scenes, want %d", len(s.Scenes), ExpectedScenes)
	}

	for i, scene := range s.Scenes {
		if scene.SceneNumber != i+1 {
			return fmt.Errorf("scene %d is numbered %d", i+1, scene.SceneNumber)
		}
		if scene.DurationSeconds != SceneSeconds {
			return fmt.Errorf("scene %d lasts %d seconds, want %d", scene.SceneNumber, scene.DurationSeconds, SceneSeconds)
		}
		if strings.TrimSpace(scene.Narration) == "" {
			return fmt.Errorf("scene %d has no narration", scene.SceneNumber)
		}
	}

	return nil
}

// Narration joins all scene narrations into a single voiceover text.
func (s *Script) Narration() string {
	parts := make([]string, 0, len(s.Scenes))
	for _, scene := range s.Scenes {
		if t := strings.TrimSpace(scene.Narration); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// ImageURLs returns the distinct product image URLs referenced by the
// scenes, in first-reference order.
func (s *Script) ImageURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, scene := range s.Scenes {
		if scene.ImageURL == "" || seen[scene.ImageURL] {
			continue
		}
		seen[scene.ImageURL] = true
		urls = append(urls, scene.ImageURL)
	}
	return urls
}
