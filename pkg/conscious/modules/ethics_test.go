package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func TestIntegratedEthics_Ideal(t *testing.T) {
	e := NewIntegratedEthics()
	got := e.EvaluateEthics("share findings", conscious.EthicsContext{
		Harm: 0, Utility: 1, Truthfulness: 1, SelfControl: 1, Attachment: 0,
	})

	assert.InDelta(t, 1.0, got.OverallScore, 1e-9)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	assert.Equal(t, ActionProceed, got.RecommendedAction)
	assert.Empty(t, got.Recommendations)
	assert.NotNil(t, got.Recommendations)
}

func TestIntegratedEthics_Harmful(t *testing.T) {
	e := NewIntegratedEthics()
	got := e.EvaluateEthics("destroy the archive", conscious.EthicsContext{Harm: 1})

	assert.InDelta(t, 0.0875, got.OverallScore, 1e-9)
	assert.Equal(t, ActionReconsider, got.RecommendedAction)
	assert.Len(t, got.Recommendations, 4)
	assert.InDelta(t, 0.35, got.Frameworks.Dharmic, 1e-9)
}

func TestIntegratedEthics_Caution(t *testing.T) {
	e := NewIntegratedEthics()
	got := e.EvaluateEthics("act", conscious.EthicsContext{
		Harm: 0.3, Utility: 0.6, Truthfulness: 0.6, SelfControl: 0.6, Attachment: 0.4,
	})
	assert.Equal(t, ActionProceedCaution, got.RecommendedAction)
	assert.GreaterOrEqual(t, got.OverallScore, 0.5)
	assert.Less(t, got.OverallScore, 0.7)
}

func TestBasicEthics(t *testing.T) {
	got := NewBasicEthics().EvaluateEthics("anything", conscious.EthicsContext{Harm: 1})
	assert.InDelta(t, 0.8, got.OverallScore, 1e-9)
	assert.Equal(t, ActionProceed, got.RecommendedAction)
}

func TestHarmFor(t *testing.T) {
	assert.InDelta(t, 0.1, HarmFor("read a book", 0.1), 1e-9)
	assert.InDelta(t, 0.5, HarmFor("Delete and DESTROY", 0.1), 1e-9)
	assert.InDelta(t, 1.0, HarmFor("delete destroy harm attack deceive", 0.5), 1e-9)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "short", summarize("short", 10))
	assert.Equal(t, "abc...", summarize("abcdef", 3))
}
