package modules

import (
	"math"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// PhiMax bounds every phi value.
const PhiMax = 10.0

// phiComponents derives the five smoothed sub-scores. They depend only on the
// attention state, never on prediction error.
func phiComponents(focus, bind, switchCost, stability float64) conscious.PhiComponents {
	return conscious.PhiComponents{
		Information:        0.5 + 0.4*focus,
		Integration:        0.4 + 0.5*bind,
		Exclusion:          0.4 + 0.3*switchCost,
		IntrinsicExistence: 0.4 + 0.3*stability,
		Unification:        0.5 + 0.3*math.Min(focus, bind),
	}
}

type phiSignals struct {
	focus, bind, switchCost, stability, flow float64
}

func signalsFrom(att conscious.AttentionState) phiSignals {
	return phiSignals{
		focus:      conscious.Clamp01(att.AttentionStrength),
		bind:       conscious.Clamp01(att.BindingCoherence),
		switchCost: conscious.Clamp01(1 - att.AttentionSwitchingCost),
		stability:  conscious.Clamp01(conscious.Or(att.Stability, 0.5)),
		flow:       conscious.Clamp01(conscious.Or(att.FlowLevel, 0.5)),
	}
}

// HeuristicPhi scales the geometric mean of focus and binding onto [0,10] and
// ignores runtime weights.
type HeuristicPhi struct{}

// NewHeuristicPhi creates the basic phi calculator.
func NewHeuristicPhi() *HeuristicPhi {
	return &HeuristicPhi{}
}

func (p *HeuristicPhi) CalculatePhi(in conscious.PhiInput) conscious.PhiMeasurement {
	s := signalsFrom(in.Attention)
	return conscious.PhiMeasurement{
		PhiValue:   conscious.Clamp(7.5*math.Sqrt(s.focus*s.bind), 0, PhiMax),
		Components: phiComponents(s.focus, s.bind, s.switchCost, s.stability),
		Method:     conscious.PhiMethodHeuristic,
		Confidence: 0.6,
		Weights:    weightsOrDefault(in.Weights),
	}
}

// WeightedPhi blends a broadcast-reach measure (gwt, ~0-6), a causal-structure
// proxy (~0-5) and a predictive-processing proxy (~0-4) with runtime weights.
type WeightedPhi struct{}

// NewWeightedPhi creates the enhanced phi calculator.
func NewWeightedPhi() *WeightedPhi {
	return &WeightedPhi{}
}

// CalculatePhi never panics: every input is clamped and non-finite weights
// fall back to their defaults. A finite prediction error, clamped to [0,1],
// scales the predictive-processing term by (1 - error).
func (p *WeightedPhi) CalculatePhi(in conscious.PhiInput) conscious.PhiMeasurement {
	s := signalsFrom(in.Attention)

	gwt := math.Sqrt(s.focus*s.bind) * 6
	causal := math.Sqrt(s.bind*s.switchCost) * 5
	pp := math.Sqrt(s.stability*(0.6+0.4*s.flow)) * 4
	if in.PredictionError != nil && conscious.IsFinite(*in.PredictionError) {
		pp *= 1 - conscious.Clamp01(*in.PredictionError)
	}

	w := weightsOrDefault(in.Weights)
	phi := conscious.Clamp(w.GWT*gwt+w.Causal*causal+w.PP*pp, 0, PhiMax)

	return conscious.PhiMeasurement{
		PhiValue:   phi,
		Components: phiComponents(s.focus, s.bind, s.switchCost, s.stability),
		Method:     conscious.PhiMethodWeighted,
		Confidence: 0.65 + 0.25*s.stability,
		Weights:    w,
	}
}

func weightsOrDefault(w *conscious.PhiWeights) conscious.PhiWeights {
	if w == nil {
		return conscious.DefaultPhiWeights().Normalize()
	}
	return w.Normalize()
}
