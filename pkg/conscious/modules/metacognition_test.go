package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func TestContradicts(t *testing.T) {
	testCases := []struct {
		a, b string
		want bool
	}{
		{"The sky is blue", "The sky is not blue.", true},
		{"not ready", "ready", true},
		{"increase focus", "decrease focus", true},
		{"Enable tools", "disable tools", true},
		{"same", "same", false},
		{"the sky is blue", "the grass is green", false},
		{"", "anything", false},
		{"not not ready", "ready", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Contradicts(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestMetaCognition_Reflect(t *testing.T) {
	m := NewMetaCognition()
	got := m.Reflect(conscious.ReflectionInput{
		Goal:       "plan",
		Statements: []string{"increase focus", "decrease focus", "the sky is blue", "the sky is not blue"},
		PhiHistory: []float64{1, 2},
	})

	assert.Len(t, got.Contradictions, 2)
	assert.InDelta(t, 0.6, got.Confidence, 1e-9)
	assert.Contains(t, got.Insights[0], "rising")

	calm := m.Reflect(conscious.ReflectionInput{PhiHistory: []float64{3, 3.1}})
	assert.Equal(t, "integration steady", calm.Insights[0])
	assert.Empty(t, calm.Contradictions)
	assert.InDelta(t, 0.8, calm.Confidence, 1e-9)
}

func TestMetaCognition_ConfidenceFloor(t *testing.T) {
	var statements []string
	for i := 0; i < 5; i++ {
		statements = append(statements, "proceed", "halt")
	}
	got := NewMetaCognition().Reflect(conscious.ReflectionInput{Statements: statements})
	assert.InDelta(t, 0.2, got.Confidence, 1e-9)
}

func TestBasicMetaCognition(t *testing.T) {
	got := NewBasicMetaCognition().Reflect(conscious.ReflectionInput{Statements: []string{"a", "not a"}})
	assert.Empty(t, got.Contradictions)
	assert.NotNil(t, got.Insights)
}
