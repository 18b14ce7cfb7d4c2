package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	p, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if !strings.Contains(p.System.ScriptWriter, "process_multi_images") {
		t.Error("default script writer prompt should mention the image analysis tool")
	}
	if !strings.Contains(p.System.ScriptWriter, "6 scenes") {
		t.Error("default script writer prompt should pin the scene count")
	}
	if p.Title.Generate == "" {
		t.Error("default title prompt should not be empty")
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := "system:\n  title: Custom title system prompt\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if p.System.Title != "Custom title system prompt" {
		t.Errorf("System.Title = %q, want override", p.System.Title)
	}
	// untouched prompts still get defaults
	if p.System.ScriptWriter == "" {
		t.Error("System.ScriptWriter should fall back to default")
	}
}

func TestLoadFromBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte("system: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on malformed YAML")
	}
}

func TestRenderScriptRequest(t *testing.T) {
	p, _ := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	tests := []struct {
		name        string
		params      ScriptParams
		wantParts   []string
		absentParts []string
	}{
		{
			name: "fullRequest",
			params: ScriptParams{
				ProductName:    "Acme Blender",
				Description:    "A powerful kitchen blender",
				TargetAudience: "home cooks",
				SellingPoints:  "quiet, fast, easy to clean",
				ImageURLs:      []string{"https://ex.com/a.jpg", "https://ex.com/b.jpg"},
			},
			wantParts: []string{
				"Product name: Acme Blender",
				"Target audience: home cooks",
				"- https://ex.com/a.jpg",
				"- https://ex.com/b.jpg",
			},
		},
		{
			name:   "minimalRequest",
			params: ScriptParams{ProductName: "Acme Blender"},
			wantParts: []string{
				"Product name: Acme Blender",
			},
			absentParts: []string{"Product images:", "Target audience:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.RenderScriptRequest(tt.params)
			if err != nil {
				t.Fatalf("RenderScriptRequest() error = %v", err)
			}
			for _, want := range tt.wantParts {
				if !strings.Contains(got, want) {
					t.Errorf("rendered request missing %q:\n%s", want, got)
				}
			}
			for _, absent := range tt.absentParts {
				if strings.Contains(got, absent) {
					t.Errorf("rendered request should not contain %q:\n%s", absent, got)
				}
			}
		})
	}
}

func TestRenderTitle(t *testing.T) {
	p, _ := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	got, err := p.RenderTitle(TitleParams{Script: "A blender that does it all."})
	if err != nil {
		t.Fatalf("RenderTitle() error = %v", err)
	}
	if !strings.Contains(got, "A blender that does it all.") {
		t.Errorf("rendered title prompt missing script text:\n%s", got)
	}
}
