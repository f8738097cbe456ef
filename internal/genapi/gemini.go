package genapi

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modeltron/internal/logging"
	"modeltron/internal/types"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey     string
	Model      string // text model
	ImageModel string
	ImageDir   string // where generated images are written
}

// GeminiClient implements TextGenerator and Imager with google.golang.org/genai.
type GeminiClient struct {
	client     *genai.Client
	model      string
	imageModel string
	imageDir   string
}

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "imagen-3.0-generate-002"
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = os.TempDir()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		imageDir:   cfg.ImageDir,
	}, nil
}

// Name returns the provider name.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Complete maps the conversation onto GenerateContent.
// System turns become the system instruction; assistant turns use the model role.
// opts.Model is ignored in favour of the configured Gemini model.
func (g *GeminiClient) Complete(ctx context.Context, turns []Turn, opts TextOptions) (string, error) {
	start := time.Now()

	var system []string
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case types.RoleSystem:
			system = append(system, t.Content)
		case types.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("no user content to send")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
		Seed:        genai.Ptr(int32(opts.Seed)),
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	if opts.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	logging.APIDebug("[Gemini] complete: model=%s contents=%d", g.model, len(contents))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		logging.APIError("[Gemini] generate failed: %v", err)
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	logging.API("[Gemini] complete: %v response_len=%d", time.Since(start), len(text))
	return text, nil
}

// Image generates one image and writes it to the image directory, returning a file:// URL.
func (g *GeminiClient) Image(ctx context.Context, req ImageRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("image prompt required")
	}

	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio(req.Width, req.Height),
		OutputMIMEType: "image/png",
	}
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, req.Prompt, cfg)
	if err != nil {
		logging.APIError("[Gemini] image generate failed: %v", err)
		return "", fmt.Errorf("gemini image generate failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", ErrEmptyResponse
	}

	if err := os.MkdirAll(g.imageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	path := filepath.Join(g.imageDir, fmt.Sprintf("gemini_%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, resp.GeneratedImages[0].Image.ImageBytes, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	logging.API("[Gemini] image written to %s", path)
	return fileURL(path), nil
}

// aspectRatio picks the closest ratio Imagen supports.
func aspectRatio(w, h int) string {
	if w <= 0 || h <= 0 {
		return "16:9"
	}
	ratios := []struct {
		name string
		v    float64
	}{{"1:1", 1}, {"4:3", 4.0 / 3}, {"3:4", 0.75}, {"16:9", 16.0 / 9}, {"9:16", 9.0 / 16}}

	r := float64(w) / float64(h)
	best, bestDiff := ratios[0].name, math.Inf(1)
	for _, c := range ratios {
		if d := math.Abs(r - c.v); d < bestDiff {
			best, bestDiff = c.name, d
		}
	}
	return best
}
