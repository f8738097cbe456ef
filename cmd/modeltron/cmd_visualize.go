package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"modeltron/internal/debugger"
	"modeltron/internal/metrics"
	"modeltron/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	visualizeKind   string
	visualizeSteps  int
	visualizeSeed   int64
	visualizeImage  bool
	visualizePNG    string
	visualizePrompt string
)

// visualizeCmd charts simulated metrics.
var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Chart simulated model metrics",
	Long: `Simulates --steps successful interactions and charts the resulting metrics.

By default the ASCII report is printed. --png writes a chart image locally,
--image asks the configured debugger backend for a visualization.`,
	Args: cobra.NoArgs,
	RunE: runVisualize,
}

func init() {
	visualizeCmd.Flags().StringVarP(&visualizeKind, "kind", "k", "bar", "Chart kind: bar, line, pie or custom")
	visualizeCmd.Flags().IntVar(&visualizeSteps, "steps", 10, "Simulated interactions before charting")
	visualizeCmd.Flags().Int64Var(&visualizeSeed, "seed", 0, "Simulation seed (0 uses the clock)")
	visualizeCmd.Flags().BoolVar(&visualizeImage, "image", false, "Generate the visualization with the debugger backend")
	visualizeCmd.Flags().StringVar(&visualizePNG, "png", "", "Write a PNG chart to this path")
	visualizeCmd.Flags().StringVar(&visualizePrompt, "prompt", "", "Prompt for the custom chart kind")
}

// simulateMetrics runs steps simulator iterations from the default metrics.
func simulateMetrics(steps int, seed int64) types.Metrics {
	sim := metrics.NewSimulator()
	if seed != 0 {
		sim = metrics.NewSimulatorWithSource(rand.NewSource(seed))
	}
	m := types.DefaultMetrics()
	for i := 0; i < steps; i++ {
		m = sim.Step(m)
	}
	return m
}

func runVisualize(cmd *cobra.Command, args []string) error {
	kind, err := metrics.ParseChartKind(visualizeKind)
	if err != nil {
		return err
	}
	if visualizeSteps < 0 {
		return fmt.Errorf("--steps must not be negative")
	}

	m := simulateMetrics(visualizeSteps, visualizeSeed)
	out := cmd.OutOrStdout()
	logger.Debug("metrics simulated", zap.Int("steps", visualizeSteps), zap.Float64("accuracy", m.Accuracy))

	if visualizePNG != "" {
		if err := writeChartPNG(visualizePNG, m, kind); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s chart to %s\n", kind, visualizePNG)
	}

	if !visualizeImage {
		if visualizePNG == "" {
			fmt.Fprint(out, metrics.Visualization(m))
		}
		return nil
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := []debugger.VisualizeOption{debugger.WithChart(kind)}
	if visualizePrompt != "" {
		opts = append(opts, debugger.WithPrompt(visualizePrompt))
	}
	result, err := rt.debugger.VisualizeMetrics(ctx, m, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, result)
	return nil
}

func writeChartPNG(path string, m types.Metrics, kind metrics.ChartKind) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := metrics.RenderChartPNG(f, m, kind, cfg.Generative.ImageWidth, cfg.Generative.ImageHeight); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}
