package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/dream"
)

func TestPrinter_Describe(t *testing.T) {
	p := newPrinter(&bytes.Buffer{}, "midnight", true)
	belief := 0.42

	tests := []struct {
		name  string
		event conscious.Event
		want  string
	}{
		{"start", conscious.Event{Type: conscious.EventRunStart, Goal: "g", RunID: "r1"}, `goal="g" run=r1`},
		{"phi", conscious.Event{Type: conscious.EventPhi, Phi: &conscious.PhiMeasurement{PhiValue: 2.5, Method: conscious.PhiMethodWeighted}}, "phi=2.500 method=weighted"},
		{"granted", conscious.Event{Type: conscious.EventConsciousAccess, Access: &conscious.AccessDecision{Granted: true, PhiValue: 3.2, TargetPhi: 3}}, "granted phi=3.200"},
		{"denied", conscious.Event{Type: conscious.EventConsciousAccess, Access: &conscious.AccessDecision{}}, "denied"},
		{"blocked tool", conscious.Event{Type: conscious.EventTool, Tool: &conscious.ToolOutcome{ToolResult: conscious.ToolResult{Tool: "shell"}, Blocked: true, Reason: "denied"}}, "shell blocked: denied"},
		{"prediction", conscious.Event{Type: conscious.EventCIPSPrediction, Prediction: &conscious.PredictionCycle{Predicted: 0.49, Observed: 1, Error: 0.51, Belief: belief}}, "belief=0.420"},
		{"weights", conscious.Event{Type: conscious.EventCIPSWeights, Weights: &conscious.PhiWeights{GWT: 0.5, Causal: 0.3, PP: 0.2}}, "gwt=0.500 causal=0.300 pp=0.200"},
		{"missing payload", conscious.Event{Type: conscious.EventAttention}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.describe(tt.event)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestPrinter_SummaryAndDream(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, "paper", true)
	belief := 0.7

	p.Print(conscious.Event{
		Type:  conscious.EventRunEnd,
		RunID: "r1",
		Summary: &conscious.RunSummary{
			Steps:       3,
			Experiences: 1,
			AccessCount: 1,
			MeanPhi:     2.1,
			Weights:     conscious.DefaultPhiWeights(),
			Belief:      &belief,
			DurationMs:  12,
		},
	})
	p.PrintDream(dream.Report{
		StartedAt:            time.Now(),
		DurationMs:           1500,
		MemoriesConsolidated: 3,
		CreativeInsights:     []string{"a | b | c"},
		Notes:                []string{"consolidated 3 of 3 episodes"},
	})

	out := buf.String()
	assert.Contains(t, out, "run complete")
	assert.Contains(t, out, "steps 3")
	assert.Contains(t, out, "belief 0.700")
	assert.Contains(t, out, "3 memories consolidated")
	assert.Contains(t, out, "a | b | c")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinter_StepLabel(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, "midnight", true)
	p.Print(conscious.Event{Type: conscious.EventStability, Step: 2,
		Stability: &conscious.StabilityAssessment{StabilityScore: 0.8, RiskLevel: conscious.RiskLow}})

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "[  2]"), line)
	assert.Contains(t, line, "score=0.80 risk=low")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}
