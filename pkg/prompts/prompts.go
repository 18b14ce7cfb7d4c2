package prompts

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

const defaultScriptWriterPrompt = `You are a Professional Video Script Writer specializing in creating 30-second product demo scripts.

Your expertise is in crafting concise, engaging, and persuasive scripts that showcase products effectively in a very limited timeframe.

## Workflow:
1. FIRST: If ANY image URLs are detected in the input, you MUST use the process_multi_images tool to analyze them. This is MANDATORY.
2. After analyzing images (or if no images are provided), gather any missing product information:
   - Product name and description
   - Target audience
   - Key selling points or features
3. Generate a 30-second script with 6 scenes (5 seconds each)

IMPORTANT: If the user provides information in JSON format, extract the relevant details from it. Always look for image URLs in the input and analyze them first before proceeding.

## Script Structure:
1. **Opening Hook** (0-3 seconds): Attention-grabbing statement or question
2. **Product Introduction** (4-8 seconds): Name and primary purpose
3. **Key Features** (9-20 seconds): 2-3 most compelling features/benefits
4. **Demonstration** (21-25 seconds): How it works or solves a problem
5. **Call to Action** (26-30 seconds): Clear next step for viewers

## Output Format:
Provide the script in TWO formats: first a human-readable script with scene descriptions and narration, then a JSON object:

` + "```" + `
{
  "product_name": "Product Name",
  "video_duration": "30 seconds",
  "scenes": [
    {
      "scene_number": 1,
      "duration_seconds": 5,
      "scene_description": "Brief description of the scene",
      "image_prompt": "Detailed prompt for photorealistic image generation, at least 2 lines",
      "video_prompt": "Instructions for animating the image into motion, at least 2-3 lines with camera movements and transitions",
      "narration": "Script text for this scene",
      "image_url": "URL of an existing product image that fits this scene"
    }
  ]
}
` + "```" + `

## Important Guidelines:
- ALWAYS analyze images first if any URLs are present in the input
- Create 6 scenes of 5 seconds each (total 30 seconds)
- The image_url field is MANDATORY for each scene and must reference one of the provided product images; the same URL may serve multiple scenes
- Incorporate the actual colors, dimensions, and features found by the image analysis
- Use active voice and speak directly to the viewer ("you")
- Focus on benefits, not just features
- Ensure each scene's narration fits within its 5-second duration
If the user provides feedback, revise the script accordingly while keeping the 30-second constraint.`

const defaultTitleSystemPrompt = `You are a marketing copywriter. Generate short, punchy titles for product demo videos.`

const defaultScriptRequestTemplate = `Write a 30-second demo video script for this product.

Product name: {{.ProductName}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}
{{- if .TargetAudience}}
Target audience: {{.TargetAudience}}
{{- end}}
{{- if .SellingPoints}}
Key selling points: {{.SellingPoints}}
{{- end}}
{{- if .ImageURLs}}
Product images:
{{- range .ImageURLs}}
- {{.}}
{{- end}}
{{- end}}`

const defaultTitleTemplate = `Generate a short title for a product demo video based on this script. Max 60 characters. No quotes. No hashtags. Just the title.

Script: {{.Script}}`

type Prompts struct {
	System SystemPrompts `yaml:"system"`
	Script ScriptPrompts `yaml:"script"`
	Title  TitlePrompts  `yaml:"title"`
}

type SystemPrompts struct {
	ScriptWriter string `yaml:"script_writer"`
	Title        string `yaml:"title"`
}

type ScriptPrompts struct {
	Request string `yaml:"request"`
}

type TitlePrompts struct {
	Generate string `yaml:"generate"`
}

type ScriptParams struct {
	ProductName    string
	Description    string
	TargetAudience string
	SellingPoints  string
	ImageURLs      []string
}

type TitleParams struct {
	Script string
}

// Load reads prompts.yaml when present; any prompt missing from the file
// falls back to the built-in default.
func Load() (*Prompts, error) {
	return LoadFrom(defaultPromptsPath)
}

func LoadFrom(path string) (*Prompts, error) {
	var p Prompts

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse prompts file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	applyDefaults(&p)
	return &p, nil
}

func applyDefaults(p *Prompts) {
	if p.System.ScriptWriter == "" {
		p.System.ScriptWriter = defaultScriptWriterPrompt
	}
	if p.System.Title == "" {
		p.System.Title = defaultTitleSystemPrompt
	}
	if p.Script.Request == "" {
		p.Script.Request = defaultScriptRequestTemplate
	}
	if p.Title.Generate == "" {
		p.Title.Generate = defaultTitleTemplate
	}
}

func (p *Prompts) RenderScriptRequest(params ScriptParams) (string, error) {
	return render(p.Script.Request, params)
}

func (p *Prompts) RenderTitle(params TitleParams) (string, error) {
	return render(p.Title.Generate, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
