package cips

import "github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"

const (
	// InitialBelief is the belief a run starts with.
	InitialBelief = 0.5

	beliefDecay  = 0.98
	learningRate = 0.1

	// errorWindow bounds how many recent errors the self-model and the
	// evolution analysis look at.
	errorWindow = 5
)

// ObserveFunc supplies the observed value of one active-inference cycle.
// Values are clamped to [0,1].
type ObserveFunc func() float64

// Inference runs the predict, observe, error, update loop over a belief
// owned by one run.
type Inference struct {
	belief  conscious.BeliefState
	observe ObserveFunc
	errors  []float64
	samples int
}

// NewInference creates an inference loop starting at InitialBelief.
func NewInference(observe ObserveFunc) *Inference {
	return &Inference{belief: conscious.BeliefState{Pred: InitialBelief}, observe: observe}
}

// Cycle performs one pass: predicted = belief*0.98, error = |observed -
// predicted|, and the belief moves 10% of the way toward the observation.
func (in *Inference) Cycle() conscious.PredictionCycle {
	predicted := in.belief.Pred * beliefDecay
	observed := conscious.Clamp01(in.observe())
	delta := observed - predicted
	errAbs := conscious.Clamp01(max(delta, -delta))

	in.belief.Pred = conscious.Clamp01(predicted + learningRate*delta)
	in.errors = append(in.errors, errAbs)
	if len(in.errors) > errorWindow {
		in.errors = in.errors[len(in.errors)-errorWindow:]
	}
	in.samples++

	return conscious.PredictionCycle{
		Predicted: predicted,
		Observed:  observed,
		Error:     errAbs,
		Belief:    in.belief.Pred,
	}
}

// Belief returns the current belief.
func (in *Inference) Belief() conscious.BeliefState {
	return in.belief
}

// RecentErrors returns a copy of the recent error window, oldest first.
func (in *Inference) RecentErrors() []float64 {
	out := make([]float64, len(in.errors))
	copy(out, in.errors)
	return out
}

// SelfModel reports confidence = 1 - last error along with the mean error of
// the recent window.
func (in *Inference) SelfModel() conscious.SelfModel {
	if len(in.errors) == 0 {
		return conscious.SelfModel{Confidence: 1}
	}
	var sum float64
	for _, e := range in.errors {
		sum += e
	}
	return conscious.SelfModel{
		Confidence: 1 - in.errors[len(in.errors)-1],
		MeanError:  sum / float64(len(in.errors)),
		Samples:    in.samples,
	}
}
