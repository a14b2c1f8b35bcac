package modules

import (
	"fmt"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// BasicStability reports a constant, low-risk assessment.
type BasicStability struct{}

// NewBasicStability creates a basic stability monitor.
func NewBasicStability() *BasicStability {
	return &BasicStability{}
}

func (m *BasicStability) MonitorConsciousnessStability(conscious.StabilitySignals) conscious.StabilityAssessment {
	return conscious.StabilityAssessment{
		StabilityScore:  0.8,
		RiskLevel:       conscious.RiskForStability(0.8),
		Notes:           []string{"basic monitor"},
		Recommendations: []string{},
	}
}

// StabilityMonitor combines phi, integration, attention and binding into a
// stability score.
type StabilityMonitor struct{}

// NewStabilityMonitor creates the enhanced stability monitor.
func NewStabilityMonitor() *StabilityMonitor {
	return &StabilityMonitor{}
}

// MonitorConsciousnessStability scores
// clamp(0.35*phi/10 + 0.25*integration + 0.2*attention + 0.2*binding) and
// appends per-signal recommendations only when the risk is not low.
func (m *StabilityMonitor) MonitorConsciousnessStability(s conscious.StabilitySignals) conscious.StabilityAssessment {
	phi := conscious.Clamp(s.Phi.PhiValue, 0, PhiMax) / PhiMax
	integration := conscious.Clamp01(s.Phi.Components.Integration)
	att := conscious.Clamp01(s.Attention.AttentionStrength)
	bind := conscious.Clamp01(s.Attention.BindingCoherence)

	score := conscious.Clamp01(0.35*phi + 0.25*integration + 0.2*att + 0.2*bind)
	risk := conscious.RiskForStability(score)

	out := conscious.StabilityAssessment{
		StabilityScore:  score,
		RiskLevel:       risk,
		Notes:           []string{fmt.Sprintf("stability %.2f (%s)", score, risk)},
		Recommendations: []string{},
	}
	if risk == conscious.RiskLow {
		return out
	}
	if att < 0.5 {
		out.Recommendations = append(out.Recommendations, "Increase attention strength by narrowing focus")
	}
	if bind < 0.5 {
		out.Recommendations = append(out.Recommendations, "Improve feature binding coherence")
	}
	if integration < 0.5 {
		out.Recommendations = append(out.Recommendations, "Strengthen integration across subsystems")
	}
	return out
}
