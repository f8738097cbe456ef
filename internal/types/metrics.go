package types

// Metrics is a simulated bundle of model-quality numbers.
// Percentages are in [0,100]; Loss is a raw value, usually in [0,1].
type Metrics struct {
	Accuracy        float64 `json:"accuracy" yaml:"accuracy"`
	Loss            float64 `json:"loss" yaml:"loss"`
	Precision       float64 `json:"precision" yaml:"precision"`
	Recall          float64 `json:"recall" yaml:"recall"`
	F1Score         float64 `json:"f1_score" yaml:"f1_score"`
	EpochsCompleted int     `json:"epochs_completed" yaml:"epochs_completed"`
	TrainingTime    float64 `json:"training_time" yaml:"training_time"` // seconds
	BatchSize       int     `json:"batch_size" yaml:"batch_size"`
	LearningRate    float64 `json:"learning_rate" yaml:"learning_rate"`
}

// DefaultMetrics returns the metrics a freshly powered console starts with.
func DefaultMetrics() Metrics {
	return Metrics{
		BatchSize:    32,
		LearningRate: 0.001,
	}
}
