// Package genapi talks to third-party generative text and image services.
//
// Three providers are supported:
//   - pollinations: keyless HTTP text endpoint and image URL construction
//   - gemini: google.golang.org/genai GenerateContent and GenerateImages
//   - chart: local PNG rendering of metrics (images only)
package genapi

import (
	"context"
	"errors"

	"modeltron/internal/metrics"
	"modeltron/internal/types"
)

// ErrEmptyResponse is returned when a provider answers with no content.
var ErrEmptyResponse = errors.New("empty response from provider")

// Turn is one message sent to a text provider.
type Turn struct {
	Role    types.Role `json:"role"`
	Content string     `json:"content"`
}

// TextOptions are generation parameters for text.
type TextOptions struct {
	Model       string
	Seed        int
	Temperature float64
	JSONMode    bool
}

// TextGenerator produces a completion for a conversation.
type TextGenerator interface {
	Complete(ctx context.Context, turns []Turn, opts TextOptions) (string, error)
	Name() string
}

// Generate sends a single prompt with an optional system prompt.
func Generate(ctx context.Context, gen TextGenerator, system, prompt string, opts TextOptions) (string, error) {
	turns := make([]Turn, 0, 2)
	if system != "" {
		turns = append(turns, Turn{Role: types.RoleSystem, Content: system})
	}
	turns = append(turns, Turn{Role: types.RoleUser, Content: prompt})
	return gen.Complete(ctx, turns, opts)
}

// ImageRequest describes an image to produce.
// URL-based providers use Prompt; the chart provider draws Metrics as Kind.
type ImageRequest struct {
	Prompt  string
	Kind    metrics.ChartKind
	Metrics types.Metrics

	Width   int
	Height  int
	Seed    int
	Model   string
	NoLogo  bool
	Enhance bool
}

// Imager turns an ImageRequest into a URL (http(s) or file://).
type Imager interface {
	Image(ctx context.Context, req ImageRequest) (string, error)
	Name() string
}
