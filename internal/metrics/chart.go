package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"modeltron/internal/types"
)

// ChartKind selects the visualization style.
type ChartKind string

const (
	ChartBar    ChartKind = "bar"
	ChartLine   ChartKind = "line"
	ChartPie    ChartKind = "pie"
	ChartCustom ChartKind = "custom"
)

// ChartKinds lists the kinds in the order the console cycles through them.
var ChartKinds = []ChartKind{ChartBar, ChartLine, ChartPie, ChartCustom}

// ParseChartKind validates a chart kind name.
func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ChartKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// Next returns the following chart kind, wrapping around.
func (k ChartKind) Next() ChartKind {
	for i, known := range ChartKinds {
		if known == k {
			return ChartKinds[(i+1)%len(ChartKinds)]
		}
	}
	return ChartBar
}

var (
	neonGreen = drawing.ColorFromHex("33ff33")
	black     = drawing.ColorFromHex("000000")
)

func chartValues(m types.Metrics) []chart.Value {
	style := chart.Style{FillColor: neonGreen, StrokeColor: neonGreen, StrokeWidth: 1}
	return []chart.Value{
		{Label: "Accuracy", Value: clampPercent(m.Accuracy), Style: style},
		{Label: "Loss x100", Value: clampPercent(m.Loss * 100), Style: style},
		{Label: "Precision", Value: clampPercent(m.Precision), Style: style},
		{Label: "Recall", Value: clampPercent(m.Recall), Style: style},
		{Label: "F1", Value: clampPercent(m.F1Score), Style: style},
	}
}

// RenderChartPNG writes a width x height PNG of m to w.
// Pie charts fall back to bars while every value is zero.
func RenderChartPNG(w io.Writer, m types.Metrics, kind ChartKind, width, height int) error {
	values := chartValues(m)
	background := chart.Style{FillColor: black, Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}}
	canvas := chart.Style{FillColor: black}
	title := "MODELTRON-8000 METRICS"

	var total float64
	for _, v := range values {
		total += v.Value
	}
	if kind == ChartPie && total == 0 {
		kind = ChartBar
	}

	switch kind {
	case ChartPie:
		pie := chart.PieChart{
			Title:      title,
			Width:      width,
			Height:     height,
			Background: background,
			Canvas:     canvas,
			Values:     values,
		}
		return pie.Render(chart.PNG, w)

	case ChartLine:
		xs := make([]float64, len(values))
		ys := make([]float64, len(values))
		for i, v := range values {
			xs[i] = float64(i + 1)
			ys[i] = v.Value
		}
		graph := chart.Chart{
			Title:      title,
			Width:      width,
			Height:     height,
			Background: background,
			Canvas:     canvas,
			YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 100}},
			Series: []chart.Series{
				chart.ContinuousSeries{
					Name:    "metrics",
					XValues: xs,
					YValues: ys,
					Style:   chart.Style{StrokeColor: neonGreen, StrokeWidth: 2, DotColor: neonGreen, DotWidth: 3},
				},
			},
		}
		return graph.Render(chart.PNG, w)

	default:
		bars := chart.BarChart{
			Title:      title,
			Width:      width,
			Height:     height,
			BarWidth:   50,
			BarSpacing: 40,
			Background: background,
			Canvas:     canvas,
			YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 100}},
			Bars:       values,
		}
		return bars.Render(chart.PNG, w)
	}
}
