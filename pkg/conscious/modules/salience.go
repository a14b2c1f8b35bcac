package modules

import (
	"math"
	"sync"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

const (
	relevanceNudge = 0.05
	relevanceCap   = 0.4
)

// DefaultSalienceWeights returns the fixed component blend; it sums to 1.
func DefaultSalienceWeights() conscious.SalienceWeights {
	return conscious.SalienceWeights{
		Novelty:   0.25,
		Relevance: 0.25,
		Intensity: 0.15,
		Emotional: 0.10,
		Curiosity: 0.10,
		Aesthetic: 0.10,
		Ethical:   0.05,
	}
}

// BasicSalience reports a flat 0.5 salience for every stimulus.
type BasicSalience struct{}

// NewBasicSalience creates a basic salience engine.
func NewBasicSalience() *BasicSalience {
	return &BasicSalience{}
}

func (s *BasicSalience) ComputeSalience(conscious.Stimulus, conscious.SalienceContext) conscious.SalienceResult {
	return conscious.SalienceResult{
		TotalSalience: 0.5,
		Components: conscious.SalienceComponents{
			Novelty: 0.5, Intensity: 0.5, Relevance: 0.5, Emotional: 0.5,
			Curiosity: 0.5, Aesthetic: 0.5, Ethical: 0.5,
		},
		Confidence: 0.5,
	}
}

func (s *BasicSalience) UpdateSalienceWeights(conscious.SalienceUpdate) conscious.SalienceWeights {
	return DefaultSalienceWeights()
}

func (s *BasicSalience) Weights() conscious.SalienceWeights {
	return DefaultSalienceWeights()
}

// SalienceEngine blends seven clamped components into a total salience.
type SalienceEngine struct {
	mu      sync.RWMutex
	weights conscious.SalienceWeights
}

// NewSalienceEngine creates an engine with the default weights.
func NewSalienceEngine() *SalienceEngine {
	return &SalienceEngine{weights: DefaultSalienceWeights()}
}

func (s *SalienceEngine) ComputeSalience(st conscious.Stimulus, sc conscious.SalienceContext) conscious.SalienceResult {
	c := conscious.SalienceComponents{
		Novelty:   conscious.Clamp01(1 - sc.MemorySimilarity),
		Intensity: conscious.Clamp01(st.Intensity),
		Relevance: conscious.Clamp01(sc.GoalMatch),
		Emotional: conscious.Clamp01(sc.Emotional),
		Curiosity: conscious.Clamp01(sc.Uncertainty * sc.InfoGain),
		Aesthetic: conscious.Clamp01(st.Aesthetic),
		Ethical:   conscious.Clamp01(sc.EthicalWeight),
	}

	w := s.Weights()
	total := w.Novelty*c.Novelty +
		w.Relevance*c.Relevance +
		w.Intensity*c.Intensity +
		w.Emotional*c.Emotional +
		w.Curiosity*c.Curiosity +
		w.Aesthetic*c.Aesthetic +
		w.Ethical*c.Ethical

	return conscious.SalienceResult{
		TotalSalience: conscious.Clamp01(total),
		Components:    c,
		Confidence:    conscious.Clamp01(0.55 + 0.35*(1-conscious.Clamp01(sc.Uncertainty))),
	}
}

// UpdateSalienceWeights nudges the relevance weight up by 0.05, capped at 0.4.
// Other weights are not rebalanced, so the blend can drift above 1 over
// repeated boosts.
func (s *SalienceEngine) UpdateSalienceWeights(u conscious.SalienceUpdate) conscious.SalienceWeights {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.BoostRelevance {
		s.weights.Relevance = math.Min(s.weights.Relevance+relevanceNudge, relevanceCap)
	}
	return s.weights
}

func (s *SalienceEngine) Weights() conscious.SalienceWeights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}
