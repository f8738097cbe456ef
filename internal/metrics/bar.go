// Package metrics renders and simulates the console's model metrics.
package metrics

import (
	"fmt"
	"math"
	"strings"

	"modeltron/internal/types"
)

const (
	// BarWidth is the number of glyphs in every rendered bar.
	BarWidth = 20

	FilledGlyph = "█"
	EmptyGlyph  = "░"
)

// clampPercent maps v into [0,100]; non-finite values become 0.
func clampPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// Bar renders value (a percentage) as a fixed-width glyph run.
// The result always holds exactly BarWidth glyphs.
func Bar(value float64) string {
	filled := int(math.Round(clampPercent(value) / 100 * BarWidth))
	return strings.Repeat(FilledGlyph, filled) + strings.Repeat(EmptyGlyph, BarWidth-filled)
}

// LossBar renders a loss value so that lower loss fills more of the bar.
func LossBar(loss float64) string {
	return Bar(100 - loss*100)
}

// FormatPercent formats a percentage with two decimals, or "0%" when the
// value is not a finite number.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatLoss formats a loss value with four decimals.
func FormatLoss(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0000"
	}
	return fmt.Sprintf("%.4f", v)
}

// Row is one labelled line of the metrics panel.
type Row struct {
	Label string
	Value string
}

// Rows returns the five headline metrics formatted for display.
func Rows(m types.Metrics) []Row {
	return []Row{
		{Label: "Accuracy", Value: FormatPercent(m.Accuracy)},
		{Label: "Loss", Value: FormatLoss(m.Loss)},
		{Label: "Precision", Value: FormatPercent(m.Precision)},
		{Label: "Recall", Value: FormatPercent(m.Recall)},
		{Label: "F1 Score", Value: FormatPercent(m.F1Score)},
	}
}

// Visualization renders the full ASCII metrics report.
func Visualization(m types.Metrics) string {
	var sb strings.Builder
	sb.WriteString("METRICS VISUALIZATION\n")
	sb.WriteString("====================\n")
	fmt.Fprintf(&sb, "Accuracy  [%s] %s\n", Bar(m.Accuracy), FormatPercent(m.Accuracy))
	fmt.Fprintf(&sb, "Loss     [%s] %s\n", LossBar(m.Loss), FormatLoss(m.Loss))
	fmt.Fprintf(&sb, "Precision[%s] %s\n", Bar(m.Precision), FormatPercent(m.Precision))
	fmt.Fprintf(&sb, "Recall   [%s] %s\n", Bar(m.Recall), FormatPercent(m.Recall))
	fmt.Fprintf(&sb, "F1 Score [%s] %s\n", Bar(m.F1Score), FormatPercent(m.F1Score))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Training Progress: %d epochs\n", m.EpochsCompleted)
	fmt.Fprintf(&sb, "Time Elapsed: %gs\n", m.TrainingTime)
	fmt.Fprintf(&sb, "Current Batch: %d\n", m.BatchSize)
	fmt.Fprintf(&sb, "Learning Rate: %g", m.LearningRate)
	return sb.String()
}
