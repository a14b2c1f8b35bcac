package conscious

import "math"

// Default phi blend weights.
const (
	DefaultGWTWeight    = 0.5
	DefaultCausalWeight = 0.3
	DefaultPPWeight     = 0.2

	// WeightFloor is the minimum any runtime weight may be renormalized to.
	WeightFloor = 0.05
)

// PhiWeights blends the three conceptual phi measures. A run owns exactly one
// PhiWeights value and the CIPS evolution step may mutate it in place; it must
// never be shared between concurrent runs.
type PhiWeights struct {
	GWT    float64 `json:"gwt"`
	Causal float64 `json:"causal"`
	PP     float64 `json:"pp"`
}

// DefaultPhiWeights returns {gwt:0.5, causal:0.3, pp:0.2}.
func DefaultPhiWeights() PhiWeights {
	return PhiWeights{GWT: DefaultGWTWeight, Causal: DefaultCausalWeight, PP: DefaultPPWeight}
}

// Sum adds the three weights.
func (w PhiWeights) Sum() float64 {
	return w.GWT + w.Causal + w.PP
}

// Sanitize replaces each non-finite or negative field with its default.
func (w PhiWeights) Sanitize() PhiWeights {
	return PhiWeights{
		GWT:    weightOr(w.GWT, DefaultGWTWeight),
		Causal: weightOr(w.Causal, DefaultCausalWeight),
		PP:     weightOr(w.PP, DefaultPPWeight),
	}
}

// Normalize sanitizes the weights and scales them to sum to 1. A degenerate
// triple (sum of zero) falls back to the defaults.
func (w PhiWeights) Normalize() PhiWeights {
	s := w.Sanitize()
	sum := s.Sum()
	if sum <= 0 || !IsFinite(sum) {
		return DefaultPhiWeights()
	}
	return PhiWeights{GWT: s.GWT / sum, Causal: s.Causal / sum, PP: s.PP / sum}
}

// Renormalize floors every weight at floor and rescales in place so the
// three sum to 1.
func (w *PhiWeights) Renormalize(floor float64) {
	*w = w.Sanitize()
	w.GWT = math.Max(w.GWT, floor)
	w.Causal = math.Max(w.Causal, floor)
	w.PP = math.Max(w.PP, floor)
	sum := w.Sum()
	w.GWT /= sum
	w.Causal /= sum
	w.PP /= sum
}

func weightOr(v, def float64) float64 {
	if !IsFinite(v) || v < 0 {
		return def
	}
	return v
}
