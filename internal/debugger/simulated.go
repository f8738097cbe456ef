package debugger

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"modeltron/internal/logging"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
)

// keywords mark input as model-related (matched case-insensitively).
var keywords = []string{"train", "model", "layer", "loss", "accuracy", "epoch", "batch"}

// recommendations are each kept on a coin flip.
var recommendations = []string{
	"Consider adding validation metrics",
	"Implement early stopping",
	"Monitor learning rate decay",
	"Add regularization layers",
}

// complexityThreshold is the input length above which complexity is High.
const complexityThreshold = 500

const generalReport = `ANALYSIS COMPLETE
====================
INPUT TYPE: General Query
RECOMMENDATION: Please provide model-specific information for detailed analysis.

AVAILABLE COMMANDS:
- ANALYZE <model_code>
- METRICS <model_name>
- DEBUG <error_message>
- OPTIMIZE <current_config>`

// Simulated is the keyword-driven debugger.
type Simulated struct {
	mu   sync.Mutex
	coin func() float64
}

// NewSimulated returns a simulated debugger with a time-seeded coin.
func NewSimulated() *Simulated {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewSimulatedWithCoin(r.Float64)
}

// NewSimulatedWithCoin uses coin (values in [0,1)) to pick recommendations.
func NewSimulatedWithCoin(coin func() float64) *Simulated {
	return &Simulated{coin: coin}
}

// AnalyzeModel returns the canned analysis report for input.
func (s *Simulated) AnalyzeModel(ctx context.Context, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap(ErrAnalysisFailed, err)
	}

	if !hasModelContent(input) {
		logging.AnalysisDebug("general query (%d chars)", len(input))
		return generalReport, nil
	}

	report := fmt.Sprintf(`ANALYSIS COMPLETE
====================
INPUT TYPE: Model Configuration
DETECTED COMPONENTS: %s

ANALYSIS RESULTS:
%s

RECOMMENDATIONS:
%s

STATUS: Analysis completed successfully
CONFIDENCE: 85%%

Use 'DEBUG <component>' for detailed component analysis
Use 'OPTIMIZE <parameter>' for optimization suggestions`,
		detectComponents(input), analysisResults(input), s.recommend())

	logging.Analysis("model report built (%d chars input)", len(input))
	return report, nil
}

// VisualizeMetrics renders the ASCII metrics block. Options are ignored.
func (s *Simulated) VisualizeMetrics(ctx context.Context, m types.Metrics, _ ...VisualizeOption) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap(ErrVisualizeFailed, err)
	}
	return metrics.Visualization(m), nil
}

func hasModelContent(input string) bool {
	lower := strings.ToLower(input)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// detectComponents matches case-sensitively.
func detectComponents(input string) string {
	var found []string
	if strings.Contains(input, "layer") {
		found = append(found, "Neural Layers")
	}
	if strings.Contains(input, "loss") {
		found = append(found, "Loss Function")
	}
	if strings.Contains(input, "accuracy") {
		found = append(found, "Metrics")
	}
	if strings.Contains(input, "train") {
		found = append(found, "Training Config")
	}
	if len(found) == 0 {
		return "No specific components detected"
	}
	return strings.Join(found, ", ")
}

func analysisResults(input string) string {
	structure := "Simple Model"
	if strings.Contains(input, "layer") {
		structure = "Multi-layer Network"
	}
	complexity := "Moderate"
	if len(input) > complexityThreshold {
		complexity = "High"
	}
	training := "Not Found"
	if strings.Contains(input, "train") {
		training = "Detected"
	}
	evaluation := "Missing"
	if strings.Contains(input, "accuracy") {
		evaluation = "Present"
	}

	return fmt.Sprintf(`1. Architecture Analysis:
   - Structure: %s
   - Complexity: %s
   
2. Performance Indicators:
   - Training Setup: %s
   - Evaluation Metrics: %s`, structure, complexity, training, evaluation)
}

func (s *Simulated) recommend() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	for _, rec := range recommendations {
		if s.coin() > 0.5 {
			lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, rec))
		}
	}
	return strings.Join(lines, "\n")
}
