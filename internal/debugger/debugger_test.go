package debugger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modeltron/internal/config"
	"modeltron/internal/genapi"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
)

// seqCoin returns the given values in order, then 0.
func seqCoin(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		if i >= len(values) {
			return 0
		}
		v := values[i]
		i++
		return v
	}
}

type stubText struct {
	reply string
	err   error
	turns []genapi.Turn
	opts  genapi.TextOptions
}

func (s *stubText) Name() string { return "stub" }

func (s *stubText) Complete(_ context.Context, turns []genapi.Turn, opts genapi.TextOptions) (string, error) {
	s.turns, s.opts = turns, opts
	return s.reply, s.err
}

type stubImager struct {
	url string
	err error
	req genapi.ImageRequest
}

func (s *stubImager) Name() string { return "stub-image" }

func (s *stubImager) Image(_ context.Context, req genapi.ImageRequest) (string, error) {
	s.req = req
	return s.url, s.err
}

func TestSimulated_GeneralQuery(t *testing.T) {
	t.Parallel()

	out, err := NewSimulatedWithCoin(seqCoin()).AnalyzeModel(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, generalReport, out)
	assert.Contains(t, out, "INPUT TYPE: General Query")
	assert.Contains(t, out, "- OPTIMIZE <current_config>")
}

func TestSimulated_KeywordMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	out, err := NewSimulatedWithCoin(seqCoin()).AnalyzeModel(context.Background(), "MODEL")
	require.NoError(t, err)
	assert.Contains(t, out, "INPUT TYPE: Model Configuration")
	// components are matched case-sensitively
	assert.Contains(t, out, "DETECTED COMPONENTS: No specific components detected")
	assert.Contains(t, out, "- Structure: Simple Model")
	assert.Contains(t, out, "- Complexity: Moderate")
	assert.Contains(t, out, "- Training Setup: Not Found")
	assert.Contains(t, out, "- Evaluation Metrics: Missing")
	assert.Contains(t, out, "CONFIDENCE: 85%")
}

func TestSimulated_Components(t *testing.T) {
	t.Parallel()

	input := "train a 3 layer net, report loss and accuracy"
	out, err := NewSimulatedWithCoin(seqCoin()).AnalyzeModel(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, out, "DETECTED COMPONENTS: Neural Layers, Loss Function, Metrics, Training Config")
	assert.Contains(t, out, "- Structure: Multi-layer Network")
	assert.Contains(t, out, "- Training Setup: Detected")
	assert.Contains(t, out, "- Evaluation Metrics: Present")
	assert.True(t, strings.HasSuffix(out, "Use 'OPTIMIZE <parameter>' for optimization suggestions"))
}

func TestSimulated_Complexity(t *testing.T) {
	t.Parallel()
	sim := NewSimulatedWithCoin(seqCoin())

	atLimit := "model" + strings.Repeat(" ", complexityThreshold-5)
	out, err := sim.AnalyzeModel(context.Background(), atLimit)
	require.NoError(t, err)
	assert.Contains(t, out, "- Complexity: Moderate")

	out, err = sim.AnalyzeModel(context.Background(), atLimit+" ")
	require.NoError(t, err)
	assert.Contains(t, out, "- Complexity: High")
}

func TestSimulated_RecommendationsRenumbered(t *testing.T) {
	t.Parallel()

	// keep the 2nd and 4th recommendation only
	sim := NewSimulatedWithCoin(seqCoin(0.1, 0.9, 0.5, 0.7))
	out, err := sim.AnalyzeModel(context.Background(), "model")
	require.NoError(t, err)
	assert.Contains(t, out, "RECOMMENDATIONS:\n1. Implement early stopping\n2. Add regularization layers\n\nSTATUS")
}

func TestSimulated_Visualize(t *testing.T) {
	t.Parallel()

	m := types.DefaultMetrics()
	m.Accuracy = 50
	out, err := NewSimulated().VisualizeMetrics(context.Background(), m, WithChart(metrics.ChartPie))
	require.NoError(t, err)
	assert.Equal(t, metrics.Visualization(m), out)
}

func TestSimulated_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSimulated().AnalyzeModel(ctx, "model")
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewSimulated().VisualizeMetrics(ctx, types.DefaultMetrics())
	assert.ErrorIs(t, err, ErrVisualizeFailed)
}

func TestGenerative_Analyze(t *testing.T) {
	t.Parallel()

	text := &stubText{reply: "looks fine"}
	g := NewGenerative(text, &stubImager{}, GenerativeOptions{Text: genapi.TextOptions{Model: "mistral-large", Seed: 42}})

	out, err := g.AnalyzeModel(context.Background(), "x = Dense(10)")
	require.NoError(t, err)
	assert.Equal(t, "looks fine", out)
	require.Len(t, text.turns, 2)
	assert.Equal(t, AnalyzerSystemPrompt, text.turns[0].Content)
	assert.Equal(t, "Analyze this ML code or configuration:\nx = Dense(10)", text.turns[1].Content)
	assert.Equal(t, "mistral-large", text.opts.Model)

	text.err = errors.New("down")
	_, err = g.AnalyzeModel(context.Background(), "x")
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestGenerative_Visualize(t *testing.T) {
	t.Parallel()

	img := &stubImager{url: "https://image.test/x.png"}
	g := NewGenerative(&stubText{}, img, GenerativeOptions{
		Text:   genapi.TextOptions{Seed: 42},
		Model:  "flux",
		NoLogo: true,
		Kind:   metrics.ChartBar,
	})

	m := types.DefaultMetrics()
	m.Accuracy = 91.5
	out, err := g.VisualizeMetrics(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "https://image.test/x.png", out)
	assert.Equal(t, 800, img.req.Width)
	assert.Equal(t, 400, img.req.Height)
	assert.Equal(t, 42, img.req.Seed)
	assert.Equal(t, "flux", img.req.Model)
	assert.True(t, img.req.NoLogo)
	assert.Contains(t, img.req.Prompt, "bar chart")
	assert.Contains(t, img.req.Prompt, "Accuracy: 91.50%")

	_, err = g.VisualizeMetrics(context.Background(), m, WithChart(metrics.ChartCustom), WithPrompt("a neon loss curve"))
	require.NoError(t, err)
	assert.Equal(t, "a neon loss curve", img.req.Prompt)

	img.err = errors.New("quota")
	_, err = g.VisualizeMetrics(context.Background(), m)
	assert.ErrorIs(t, err, ErrVisualizeFailed)
}

func TestChartPrompt(t *testing.T) {
	t.Parallel()
	m := types.DefaultMetrics()

	assert.Contains(t, ChartPrompt(m, metrics.ChartLine, ""), "line graph")
	assert.Contains(t, ChartPrompt(m, metrics.ChartPie, ""), "pie chart")
	assert.Contains(t, ChartPrompt(m, metrics.ChartBar, ""), "Loss: 0.0000")
	assert.Equal(t, defaultCustomPrompt, ChartPrompt(m, metrics.ChartCustom, "  "))
}

func TestVisualizationMarkdown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Generated visualization: ![Model Metrics](https://x/y)", VisualizationMarkdown("https://x/y"))
	assert.Equal(t, "METRICS VISUALIZATION", VisualizationMarkdown("METRICS VISUALIZATION"))
	assert.True(t, HasImageLink(VisualizationMarkdown("https://img.test/chart.png")))
	assert.True(t, HasImageLink(VisualizationMarkdown("file:///tmp/chart.png")))
	assert.False(t, HasImageLink("METRICS VISUALIZATION\n===================="))
	assert.False(t, HasImageLink("see [docs](notes.md)"))
	assert.True(t, IsImageURL("file:///tmp/a.png"))
}

func TestSystemPromptFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ChatSystemPrompt, SystemPromptFor(PersonaAssistant))
	assert.Equal(t, PersonaPrompt, SystemPromptFor(PersonaRetro))
	assert.Equal(t, ChatSystemPrompt, SystemPromptFor(""))
}

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	d, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Simulated{}, d)

	cfg.Debugger.Backend = config.BackendGenerative
	_, err = New(cfg, nil)
	assert.Error(t, err)

	d, err = New(cfg, &genapi.Providers{Text: &stubText{}, Imager: &stubImager{}})
	require.NoError(t, err)
	assert.IsType(t, &Generative{}, d)

	cfg.Debugger.Backend = "oracle"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}
