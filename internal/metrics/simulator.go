package metrics

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"modeltron/internal/types"
)

// Simulator nudges metrics along a bounded random walk after each
// interaction. It has no connection to any real training process.
type Simulator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	tick time.Duration
}

// NewSimulator creates a simulator seeded from the clock.
func NewSimulator() *Simulator {
	return NewSimulatorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSimulatorWithSource creates a simulator using src; tests pass a fixed seed.
func NewSimulatorWithSource(src rand.Source) *Simulator {
	return &Simulator{rng: rand.New(src), tick: time.Second}
}

func (s *Simulator) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Step returns m advanced by one simulated interaction.
// Percentages never exceed 100 and loss never drops below 0.
func (s *Simulator) Step(m types.Metrics) types.Metrics {
	next := m
	next.Accuracy = math.Min(100, m.Accuracy+s.draw()*5)
	next.Loss = math.Max(0, m.Loss-s.draw()*0.1)
	next.Precision = math.Min(100, m.Precision+s.draw()*3)
	next.Recall = math.Min(100, m.Recall+s.draw()*4)
	next.F1Score = math.Min(100, m.F1Score+s.draw()*3)
	next.EpochsCompleted = m.EpochsCompleted + 1
	next.TrainingTime = m.TrainingTime + s.tick.Seconds()
	return next
}
