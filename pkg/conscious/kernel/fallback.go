package kernel

import (
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Degraded but valid values used when a subsystem panics mid-step.

func fallbackAttention(goal string) conscious.AttentionState {
	return conscious.AttentionState{
		FocusedContent:         goal,
		AttentionStrength:      0.5,
		FocusDurationMs:        500,
		PeripheralAwareness:    []string{},
		AttentionSwitchingCost: 0.3,
		BindingCoherence:       0.5,
	}
}

func fallbackSalience() conscious.SalienceResult {
	return conscious.SalienceResult{
		TotalSalience: 0.5,
		Components: conscious.SalienceComponents{
			Novelty: 0.5, Intensity: 0.5, Relevance: 0.5, Emotional: 0.5,
			Curiosity: 0.5, Aesthetic: 0.5, Ethical: 0.5,
		},
	}
}

func fallbackPhi(w conscious.PhiWeights) conscious.PhiMeasurement {
	return conscious.PhiMeasurement{Method: conscious.PhiMethodHeuristic, Weights: w.Normalize()}
}

func fallbackEthics() conscious.EthicsEvaluation {
	return conscious.EthicsEvaluation{
		OverallScore:      0.5,
		Recommendations:   []string{"ethics evaluation unavailable"},
		RecommendedAction: "proceed_with_caution",
	}
}

func fallbackStability() conscious.StabilityAssessment {
	return conscious.StabilityAssessment{
		StabilityScore:  0.5,
		RiskLevel:       conscious.RiskForStability(0.5),
		Notes:           []string{"stability monitor unavailable"},
		Recommendations: []string{},
	}
}

func fallbackTool(call conscious.ToolCall) conscious.ToolOutcome {
	return conscious.ToolOutcome{ToolResult: conscious.ToolResult{
		Tool:  call.Tool,
		Args:  call.Args,
		Error: "tool_system_failure",
	}}
}
