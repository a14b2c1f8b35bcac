package cips

import "github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"

// StepResult carries everything one extension step produced, in emission
// order.
type StepResult struct {
	Coalitions []conscious.Coalition
	Winner     *conscious.WorkspaceWinner
	Qualia     conscious.Qualia
	Broadcast  conscious.Broadcast
	Prediction conscious.PredictionCycle
	SelfModel  conscious.SelfModel
	Evolution  conscious.EvolutionReport
	Weights    conscious.PhiWeights
}

// Engine runs the extension for one kernel run. It shares the run's PRNG
// and is not safe for concurrent use.
type Engine struct {
	rng       *LCG
	inference *Inference
	apply     bool
	lastErr   *float64
}

// NewEngine creates an engine drawing from rng. A nil observe draws the
// observation from rng as well. Weight changes are applied only when apply is
// set.
func NewEngine(rng *LCG, observe ObserveFunc, apply bool) *Engine {
	if observe == nil {
		observe = rng.Float64
	}
	return &Engine{rng: rng, inference: NewInference(observe), apply: apply}
}

// Step runs coalition formation, winner selection, qualia, broadcast, one
// inference cycle and the evolution analysis. Accepted weight changes are
// written through weights, which the caller owns.
func (e *Engine) Step(step int, goal, snapshot string, weights *conscious.PhiWeights) StepResult {
	var res StepResult

	res.Coalitions = FormCoalitions(step, e.rng, goal, snapshot)
	res.Winner = SelectWinner(res.Coalitions, e.rng)
	if res.Winner != nil {
		res.Qualia = GenerateQualia(res.Winner.Coalition.Content)
	} else {
		res.Qualia = GenerateQualia("")
	}
	res.Broadcast = Broadcast(res.Winner)

	res.Prediction = e.inference.Cycle()
	errVal := res.Prediction.Error
	e.lastErr = &errVal
	res.SelfModel = e.inference.SelfModel()

	proposals := Analyze(step, e.inference.RecentErrors())
	validated := Validate(proposals)
	report := conscious.EvolutionReport{
		Proposals: proposals,
		Validated: validated,
		Accepted:  Accept(proposals, validated, e.apply),
	}
	if len(report.Accepted) > 0 {
		before := *weights
		report.Before = &before
		report.Applied = ApplyWeights(weights, report.Accepted)
		after := *weights
		report.After = &after
	}
	res.Evolution = report
	res.Weights = *weights

	return res
}

// LastError returns the most recent prediction error, or nil before the
// first step.
func (e *Engine) LastError() *float64 {
	if e.lastErr == nil {
		return nil
	}
	v := *e.lastErr
	return &v
}

// Belief returns the run's current belief.
func (e *Engine) Belief() conscious.BeliefState {
	return e.inference.Belief()
}
