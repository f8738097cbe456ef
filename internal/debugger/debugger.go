// Package debugger produces model analysis reports and metric visualizations.
//
// Two backends implement Debugger: Simulated builds canned reports from
// keyword matches, Generative delegates to a generative text/image API.
package debugger

import (
	"context"
	"errors"
	"fmt"

	"modeltron/internal/config"
	"modeltron/internal/genapi"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
)

// User-facing failure messages.
const (
	MsgAnalysisFailed  = "Analysis failed. Please check your input and try again."
	MsgVisualizeFailed = "Failed to visualize metrics. Please try again."
)

var (
	// ErrAnalysisFailed wraps every AnalyzeModel failure.
	ErrAnalysisFailed = errors.New(MsgAnalysisFailed)
	// ErrVisualizeFailed wraps every VisualizeMetrics failure.
	ErrVisualizeFailed = errors.New(MsgVisualizeFailed)
)

// Debugger analyses model input and visualizes metrics.
type Debugger interface {
	AnalyzeModel(ctx context.Context, input string) (string, error)
	VisualizeMetrics(ctx context.Context, m types.Metrics, opts ...VisualizeOption) (string, error)
}

// VisualizeOptions tune a visualization request.
type VisualizeOptions struct {
	Kind   metrics.ChartKind
	Prompt string // used by the custom kind
}

// VisualizeOption sets a VisualizeOptions field.
type VisualizeOption func(*VisualizeOptions)

// WithChart selects the chart kind.
func WithChart(kind metrics.ChartKind) VisualizeOption {
	return func(o *VisualizeOptions) { o.Kind = kind }
}

// WithPrompt sets the custom prompt.
func WithPrompt(prompt string) VisualizeOption {
	return func(o *VisualizeOptions) { o.Prompt = prompt }
}

func applyOptions(def metrics.ChartKind, opts []VisualizeOption) VisualizeOptions {
	o := VisualizeOptions{Kind: def}
	for _, fn := range opts {
		fn(&o)
	}
	if o.Kind == "" {
		o.Kind = metrics.ChartBar
	}
	return o
}

// wrap attaches the user-facing sentinel to an underlying error.
func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

// New builds the debugger selected by cfg.Debugger.Backend.
// providers may be nil for the simulated backend.
func New(cfg *config.Config, providers *genapi.Providers) (Debugger, error) {
	switch cfg.Debugger.Backend {
	case config.BackendSimulated, "":
		return NewSimulated(), nil
	case config.BackendGenerative:
		if providers == nil || providers.Text == nil || providers.Imager == nil {
			return nil, fmt.Errorf("generative backend requires a text provider and an imager (provider is %q)", cfg.Generative.Provider)
		}
		kind, err := metrics.ParseChartKind(cfg.Debugger.ChartKind)
		if err != nil {
			kind = metrics.ChartBar
		}
		return NewGenerative(providers.Text, providers.Imager, GenerativeOptions{
			Text:   genapi.TextOptionsFor(cfg.Generative, false),
			Width:  cfg.Generative.ImageWidth,
			Height: cfg.Generative.ImageHeight,
			Model:  cfg.Generative.ImageModel,
			NoLogo: cfg.Generative.NoLogo,
			Kind:   kind,
		}), nil
	default:
		return nil, fmt.Errorf("unknown debugger backend: %s", cfg.Debugger.Backend)
	}
}
