package debugger

import (
	"context"
	"fmt"
	"strings"

	"modeltron/internal/genapi"
	"modeltron/internal/logging"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
)

// AnalyzerSystemPrompt instructs the text model for code analysis.
const AnalyzerSystemPrompt = "You are an expert ML code analyzer. Provide detailed insights about model architecture, potential issues, and optimization suggestions."

// analyzePrefix is prepended to every analysis request.
const analyzePrefix = "Analyze this ML code or configuration:\n"

// defaultCustomPrompt is used when the custom kind has no prompt.
const defaultCustomPrompt = "A retro-style technical visualization with neon green elements on a dark background"

// GenerativeOptions configure the generative debugger.
type GenerativeOptions struct {
	Text   genapi.TextOptions
	Width  int
	Height int
	Seed   int
	Model  string
	NoLogo bool
	Kind   metrics.ChartKind
}

// Generative delegates analysis and visualization to generative providers.
type Generative struct {
	text   genapi.TextGenerator
	imager genapi.Imager
	opts   GenerativeOptions
}

// NewGenerative creates a generative debugger.
func NewGenerative(text genapi.TextGenerator, imager genapi.Imager, opts GenerativeOptions) *Generative {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	if opts.Seed == 0 {
		opts.Seed = opts.Text.Seed
	}
	return &Generative{text: text, imager: imager, opts: opts}
}

// AnalyzeModel asks the text provider to analyse input.
func (g *Generative) AnalyzeModel(ctx context.Context, input string) (string, error) {
	reply, err := genapi.Generate(ctx, g.text, AnalyzerSystemPrompt, analyzePrefix+input, g.opts.Text)
	if err != nil {
		logging.AnalysisError("generative analysis failed: %v", err)
		return "", wrap(ErrAnalysisFailed, err)
	}
	return reply, nil
}

// VisualizeMetrics asks the imager for a chart and returns its URL.
func (g *Generative) VisualizeMetrics(ctx context.Context, m types.Metrics, opts ...VisualizeOption) (string, error) {
	o := applyOptions(g.opts.Kind, opts)

	u, err := g.imager.Image(ctx, genapi.ImageRequest{
		Prompt:  ChartPrompt(m, o.Kind, o.Prompt),
		Kind:    o.Kind,
		Metrics: m,
		Width:   g.opts.Width,
		Height:  g.opts.Height,
		Seed:    g.opts.Seed,
		Model:   g.opts.Model,
		NoLogo:  g.opts.NoLogo,
	})
	if err != nil {
		logging.AnalysisError("visualization failed (%s): %v", o.Kind, err)
		return "", wrap(ErrVisualizeFailed, err)
	}
	logging.Analysis("visualization ready (%s via %s)", o.Kind, g.imager.Name())
	return u, nil
}

// ChartPrompt describes the metrics chart for an image model.
func ChartPrompt(m types.Metrics, kind metrics.ChartKind, custom string) string {
	base := fmt.Sprintf(`
      Accuracy: %s
      Loss: %s
      Precision: %s
      Recall: %s
      F1 Score: %s
      Training Time: %gs
    `, metrics.FormatPercent(m.Accuracy), metrics.FormatLoss(m.Loss), metrics.FormatPercent(m.Precision),
		metrics.FormatPercent(m.Recall), metrics.FormatPercent(m.F1Score), m.TrainingTime)

	switch kind {
	case metrics.ChartLine:
		return "Generate a retro-style line graph showing ML model metrics:" + base +
			". Use a dark background with neon green (#33ff33) lines and white grid lines. Include data points. Style it like a 1980s computer interface."
	case metrics.ChartPie:
		return "Create a vintage-style pie chart showing ML model metric distribution:" + base +
			". Use a dark background with different shades of neon green and white labels. Include a legend. Make it look like it's from an old computer terminal."
	case metrics.ChartCustom:
		if strings.TrimSpace(custom) == "" {
			return defaultCustomPrompt
		}
		return custom
	default:
		return "Create a modern, minimalist bar chart visualization showing ML model metrics:" + base +
			". Use a dark background with neon green (#33ff33) bars and white labels. Include a title and axis labels. Make it look like it's from the 1980s."
	}
}

// IsImageURL reports whether a visualization result is an image link rather than ASCII text.
func IsImageURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "file://")
}

// HasImageLink reports whether s embeds a markdown image pointing at an image URL.
func HasImageLink(s string) bool {
	i := strings.Index(s, "](")
	if i < 0 {
		return false
	}
	rest := s[i+2:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return false
	}
	return IsImageURL(rest[:end])
}

// VisualizationMarkdown renders a visualization result for the terminal log.
func VisualizationMarkdown(result string) string {
	if IsImageURL(result) {
		return fmt.Sprintf("Generated visualization: ![Model Metrics](%s)", result)
	}
	return result
}
