package genapi

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"modeltron/internal/logging"
	"modeltron/internal/metrics"
)

// ChartImager renders metrics to a local PNG instead of calling a service.
type ChartImager struct {
	dir string
}

// NewChartImager writes charts under dir.
func NewChartImager(dir string) *ChartImager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ChartImager{dir: dir}
}

// Name returns the provider name.
func (c *ChartImager) Name() string { return "chart" }

// Image draws req.Metrics as req.Kind. A custom kind falls back to a bar chart.
func (c *ChartImager) Image(ctx context.Context, req ImageRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := req.Kind
	if kind == "" || kind == metrics.ChartCustom {
		kind = metrics.ChartBar
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	path := filepath.Join(c.dir, fmt.Sprintf("metrics_%s_%d.png", kind, time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := metrics.RenderChartPNG(f, req.Metrics, kind, req.Width, req.Height); err != nil {
		os.Remove(path)
		return "", err
	}
	logging.APIDebug("[Chart] rendered %s chart to %s", kind, path)
	return fileURL(path), nil
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
