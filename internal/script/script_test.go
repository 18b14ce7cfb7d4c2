package script

import (
	"fmt"
	"strings"
	"testing"
)

func sampleJSON(scenes int) string {
	var b strings.Builder
	b.WriteString(`{"product_name": "Acme Blender", "video_duration": "30 seconds", "scenes": [`)
	for i := 1; i <= scenes; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{
			"scene_number": %d,
			"duration_seconds": 5,
			"scene_description": "Scene %d",
			"image_prompt": "Photorealistic blender shot %d",
			"video_prompt": "Slow pan across the blender",
			"narration": "Narration %d",
			"image_url": "https://ex.com/blender.jpg"
		}`, i, i, i, i)
	}
	b.WriteString("]}")
	return b.String()
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{
			name: "fencedJSONBlock",
			text: "Here is your script.\n\n```json\n" + sampleJSON(6) + "\n```\nEnjoy!",
		},
		{
			name: "fencedWithoutLanguage",
			text: "Script below.\n```\n" + sampleJSON(6) + "\n```",
		},
		{
			name: "bareJSONObject",
			text: "Human readable part first.\n\n" + sampleJSON(6),
		},
		{
			name:    "noJSONAtAll",
			text:    "Sorry, I need more product details before writing a script.",
			wantErr: true,
		},
		{
			name:    "malformedJSON",
			text:    "```json\n{\"product_name\": \"Acme\", \"scenes\": [}\n```",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Extract() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.ProductName != "Acme Blender" {
				t.Errorf("ProductName = %q, want %q", got.ProductName, "Acme Blender")
			}
			if len(got.Scenes) != 6 {
				t.Errorf("scene count = %d, want 6", len(got.Scenes))
			}
			if got.Scenes[0].ImagePrompt == "" {
				t.Error("scene image prompt should not be empty")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Script {
		s, err := Extract(sampleJSON(6))
		if err != nil {
			t.Fatalf("Extract() failed on fixture: %v", err)
		}
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Script)
		wantErr bool
	}{
		{
			name:   "validScript",
			mutate: func(*Script) {},
		},
		{
			name:    "missingProductName",
			mutate:  func(s *Script) { s.ProductName = "  " },
			wantErr: true,
		},
		{
			name:    "wrongSceneCount",
			mutate:  func(s *Script) { s.Scenes = s.Scenes[:4] },
			wantErr: true,
		},
		{
			name:    "wrongDuration",
			mutate:  func(s *Script) { s.Scenes[2].DurationSeconds = 10 },
			wantErr: true,
		},
		{
			name:    "outOfOrderNumbering",
			mutate:  func(s *Script) { s.Scenes[0].SceneNumber = 3 },
			wantErr: true,
		},
		{
			name:    "emptyNarration",
			mutate:  func(s *Script) { s.Scenes[5].Narration = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNarration(t *testing.T) {
	s := &Script{Scenes: []Scene{
		{Narration: "First line."},
		{Narration: "  "},
		{Narration: "Second line."},
	}}

	want := "First line. Second line."
	if got := s.Narration(); got != want {
		t.Errorf("Narration() = %q, want %q", got, want)
	}
}

func TestImageURLs(t *testing.T) {
	s := &Script{Scenes: []Scene{
		{ImageURL: "https://ex.com/a.jpg"},
		{ImageURL: "https://ex.com/b.jpg"},
		{ImageURL: "https://ex.com/a.jpg"},
		{ImageURL: ""},
	}}

	got := s.ImageURLs()
	if len(got) != 2 {
		t.Fatalf("ImageURLs() len = %d, want 2", len(got))
	}
	if got[0] != "https://ex.com/a.jpg" || got[1] != "https://ex.com/b.jpg" {
		t.Errorf("ImageURLs() = %v, want first-reference order", got)
	}
}
