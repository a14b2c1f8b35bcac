package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func TestDefaultSalienceWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultSalienceWeights().Sum(), 1e-9)
}

func TestSalienceEngine_ComputeSalience(t *testing.T) {
	s := NewSalienceEngine()

	full := s.ComputeSalience(
		conscious.Stimulus{Content: "x", Intensity: 1, Aesthetic: 1},
		conscious.SalienceContext{GoalMatch: 1, Emotional: 1, Uncertainty: 1, InfoGain: 1, EthicalWeight: 1},
	)
	assert.InDelta(t, 1.0, full.TotalSalience, 1e-9)
	assert.InDelta(t, 1.0, full.Components.Novelty, 1e-9, "no memory similarity means full novelty")
	assert.InDelta(t, 0.55, full.Confidence, 1e-9)

	familiar := s.ComputeSalience(
		conscious.Stimulus{Content: "x", Intensity: 2},
		conscious.SalienceContext{MemorySimilarity: 1},
	)
	assert.Zero(t, familiar.Components.Novelty)
	assert.InDelta(t, 1.0, familiar.Components.Intensity, 1e-9, "components are clamped")
	assert.InDelta(t, 0.15, familiar.TotalSalience, 1e-9)
	assert.InDelta(t, 0.9, familiar.Confidence, 1e-9)
}

func TestSalienceEngine_UpdateWeights(t *testing.T) {
	s := NewSalienceEngine()

	w := s.UpdateSalienceWeights(conscious.SalienceUpdate{})
	assert.InDelta(t, 0.25, w.Relevance, 1e-9, "no boost requested")

	w = s.UpdateSalienceWeights(conscious.SalienceUpdate{BoostRelevance: true})
	assert.InDelta(t, 0.30, w.Relevance, 1e-9)

	for i := 0; i < 10; i++ {
		w = s.UpdateSalienceWeights(conscious.SalienceUpdate{BoostRelevance: true})
	}
	assert.InDelta(t, relevanceCap, w.Relevance, 1e-9)
	assert.Equal(t, w, s.Weights())
	assert.Greater(t, w.Sum(), 1.0, "other weights are not rebalanced")
}

func TestBasicSalience(t *testing.T) {
	s := NewBasicSalience()
	got := s.ComputeSalience(conscious.Stimulus{Intensity: 1}, conscious.SalienceContext{})
	assert.InDelta(t, 0.5, got.TotalSalience, 1e-9)
	assert.Equal(t, DefaultSalienceWeights(), s.UpdateSalienceWeights(conscious.SalienceUpdate{BoostRelevance: true}))
}
