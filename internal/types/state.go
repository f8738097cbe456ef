package types

import "time"

// Stage is the coarse lifecycle tag of the simulated model.
type Stage string

const (
	StageTraining   Stage = "training"
	StageEvaluating Stage = "evaluating"
	StageIdle       Stage = "idle"
	StageError      Stage = "error"
)

// ModelState bundles everything the console knows about the simulated model.
type ModelState struct {
	ModelName    string    `json:"model_name"`
	Stage        Stage     `json:"stage"`
	Metrics      Metrics   `json:"metrics"`
	History      []Message `json:"history"`
	CurrentEpoch int       `json:"current_epoch"`
	TotalEpochs  int       `json:"total_epochs"`
	LastUpdated  time.Time `json:"last_updated"`
}

// InitialState returns the state shown right after power on.
func InitialState() ModelState {
	return ModelState{
		Stage:       StageTraining,
		Metrics:     DefaultMetrics(),
		LastUpdated: time.Now(),
	}
}
