package kernel

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/cips"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/modules"
)

// Initial carry-over signals before a run's first stability assessment.
const (
	initialStability = 0.8
	initialBinding   = 0.5
)

// broadcastRecipients receive a granted step's content.
var broadcastRecipients = []string{"attention", "salience", "memory", "ethics", "tools"}

var (
	compassionWords = []string{"help", "care", "support", "heal", "protect"}
	courageWords    = []string{"risk", "challenge", "confront", "brave", "face"}
)

// RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	id string
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) RunOption {
	return func(c *runConfig) { c.id = id }
}

// runState is owned by exactly one run and is never shared.
type runState struct {
	id      string
	goal    string
	start   time.Time
	rng     *cips.LCG
	weights conscious.PhiWeights
	cips    *cips.Engine

	lastStability float64
	lastBinding   float64

	phiSum      float64
	phiHistory  []float64
	accessCount int
	experiences int
	statements  []string
}

func (k *Kernel) newRunState(goal string, cfg runConfig) *runState {
	seed := k.opts.Seed
	if seed == 0 {
		seed = k.now().UnixNano()
	}
	rs := &runState{
		id:            cfg.id,
		goal:          goal,
		start:         k.now(),
		rng:           cips.NewLCG(seed),
		weights:       k.opts.PhiWeights.Normalize(),
		lastStability: initialStability,
		lastBinding:   initialBinding,
	}
	if rs.id == "" {
		rs.id = k.newID()
	}
	if k.opts.EnableCIPS {
		rs.cips = cips.NewEngine(rs.rng, k.observe, k.opts.EnableCIPSApplyEvolution)
	}
	return rs
}

// Run returns the event sequence of one run over goal. Iteration is
// cooperative: nothing happens between events unless the consumer asks for
// the next one, and breaking out of the loop abandons the run. A cancelled
// ctx ends the sequence at the next step boundary without a run:end event.
func (k *Kernel) Run(ctx context.Context, goal string, opts ...RunOption) iter.Seq[conscious.Event] {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(conscious.Event) bool) {
		rs := k.newRunState(goal, cfg)
		log := k.log.With().Str("run_id", rs.id).Logger()
		log.Debug().Str("goal", goal).Msg("run started")

		o := k.opts
		if !yield(k.event(rs, 0, conscious.EventRunStart, func(e *conscious.Event) {
			e.Goal = goal
			e.Options = &o
		})) {
			return
		}

		for step := 1; step <= k.opts.MaxSteps; step++ {
			if ctx.Err() != nil {
				log.Debug().Int("step", step).Msg("run cancelled")
				return
			}
			if !k.step(ctx, rs, step, yield) {
				return
			}
		}

		summary := k.summarize(rs)
		log.Debug().
			Int("experiences", summary.Experiences).
			Float64("mean_phi", summary.MeanPhi).
			Msg("run finished")
		yield(k.event(rs, 0, conscious.EventRunEnd, func(e *conscious.Event) {
			e.Summary = &summary
		}))
	}
}

func (k *Kernel) event(rs *runState, step int, t conscious.EventType, fill func(*conscious.Event)) conscious.Event {
	e := conscious.Event{Type: t, RunID: rs.id, Step: step, Timestamp: k.now()}
	if fill != nil {
		fill(&e)
	}
	return e
}

// step runs one pipeline iteration and reports whether the consumer wants
// more events.
func (k *Kernel) step(ctx context.Context, rs *runState, step int, yield func(conscious.Event) bool) bool {
	emit := func(t conscious.EventType, fill func(*conscious.Event)) bool {
		return yield(k.event(rs, step, t, fill))
	}

	// Perception.
	perception := k.perceive(rs, step)
	if !emit(conscious.EventPerception, func(e *conscious.Event) { e.Perception = &perception }) {
		return false
	}

	// CIPS block.
	qualiaCount, infoGain := -1, 0.5
	if rs.cips != nil {
		res := rs.cips.Step(step, rs.goal, perception.Snapshot, &rs.weights)
		qualiaCount = res.Qualia.Count
		if res.Winner != nil {
			infoGain = res.Winner.Coalition.InformationGain
		}
		if !k.emitCIPS(res, emit) {
			return false
		}
	}

	// Attention.
	focus := conscious.FocusInput{Goal: rs.goal, Novelty: conscious.Ptr(perception.Novelty), Jitter: rs.rng.Float64()}
	att := guard(k, "attention", fallbackAttention(rs.goal), func() conscious.AttentionState {
		return k.mods.Attention.FocusAttention(focus)
	})
	if !emit(conscious.EventAttention, func(e *conscious.Event) { e.Attention = &att }) {
		return false
	}

	// Salience.
	var salience *conscious.SalienceResult
	if k.opts.SalienceEnabled() {
		s := k.computeSalience(rs, att, perception, infoGain)
		salience = &s
		if !emit(conscious.EventSalience, func(e *conscious.Event) { e.Salience = salience }) {
			return false
		}
	}

	// Proposals.
	proposals := k.propose(rs, step, att)
	if !emit(conscious.EventProposals, func(e *conscious.Event) { e.Proposals = proposals }) {
		return false
	}

	// Phi, with the run's current weights and last prediction error.
	var predErr *float64
	if rs.cips != nil {
		predErr = rs.cips.LastError()
	}
	in := conscious.PhiInput{Goal: rs.goal, Attention: att, Weights: &rs.weights, PredictionError: predErr}
	phi := guard(k, "phi", fallbackPhi(rs.weights), func() conscious.PhiMeasurement {
		return k.mods.Phi.CalculatePhi(in)
	})
	phi.PhiValue = conscious.Clamp(phi.PhiValue, 0, modules.PhiMax)
	rs.phiSum += phi.PhiValue
	rs.phiHistory = append(rs.phiHistory, phi.PhiValue)
	if !emit(conscious.EventPhi, func(e *conscious.Event) {
		e.Phi = &phi
		e.PredictionError = predErr
	}) {
		return false
	}

	// Conscious access gate.
	access := conscious.AccessDecision{
		Granted:           phi.PhiValue >= k.opts.TargetPhi && att.AttentionStrength > conscious.AccessAttentionThreshold,
		PhiValue:          phi.PhiValue,
		TargetPhi:         k.opts.TargetPhi,
		AttentionStrength: att.AttentionStrength,
	}
	if !emit(conscious.EventConsciousAccess, func(e *conscious.Event) { e.Access = &access }) {
		return false
	}

	if access.Granted {
		if !k.onAccess(ctx, rs, step, perception, att, salience, proposals, phi, qualiaCount, emit) {
			return false
		}
	}

	// Stability.
	stability := guard(k, "stability", fallbackStability(), func() conscious.StabilityAssessment {
		return k.mods.Stability.MonitorConsciousnessStability(conscious.StabilitySignals{Phi: phi, Attention: att})
	})
	rs.lastStability = stability.StabilityScore
	rs.lastBinding = att.BindingCoherence
	if !emit(conscious.EventStability, func(e *conscious.Event) { e.Stability = &stability }) {
		return false
	}

	// Action and tool.
	top := proposals[0]
	if top.Confidence < conscious.ActionConfidenceThreshold {
		return true
	}
	action := conscious.Action{ProposalID: top.ID, Summary: top.Summary, Confidence: top.Confidence}
	if !emit(conscious.EventAction, func(e *conscious.Event) { e.Action = &action }) {
		return false
	}
	if !k.opts.ToolsEnabled() || top.Tool == nil {
		return true
	}
	call := *top.Tool
	outcome := guard(k, "tools", fallbackTool(call), func() conscious.ToolOutcome {
		return k.mods.Tools.ExecuteConsciously(ctx, call, conscious.ToolState{Attention: att, Phi: phi})
	})
	return emit(conscious.EventTool, func(e *conscious.Event) { e.Tool = &outcome })
}

func (k *Kernel) perceive(rs *runState, step int) conscious.Perception {
	p := conscious.Perception{
		Goal:     rs.goal,
		Snapshot: fmt.Sprintf("step %d: %s", step, rs.goal),
		Novelty:  conscious.Clamp01(0.3 + 0.6*rs.rng.Float64()),
	}
	if k.mods.Emotion == nil {
		return p
	}
	lower := strings.ToLower(rs.goal)
	ec := conscious.EmotionContext{
		Stress:     conscious.Clamp01(1 - rs.lastStability),
		Curiosity:  p.Novelty,
		Harmony:    conscious.Clamp01(rs.lastBinding),
		Compassion: containsAny(lower, compassionWords),
		Courage:    containsAny(lower, courageWords),
	}
	p.Emotion = guard(k, "emotion", (*conscious.EmotionState)(nil), func() *conscious.EmotionState {
		em := k.mods.Emotion.Synthesize(ec)
		return &em
	})
	return p
}

func (k *Kernel) emitCIPS(res cips.StepResult, emit func(conscious.EventType, func(*conscious.Event)) bool) bool {
	weights := res.Weights
	return emit(conscious.EventCIPSCoalitions, func(e *conscious.Event) { e.Coalitions = res.Coalitions }) &&
		emit(conscious.EventCIPSWinner, func(e *conscious.Event) { e.Winner = res.Winner }) &&
		emit(conscious.EventCIPSQualia, func(e *conscious.Event) { e.Qualia = &res.Qualia }) &&
		emit(conscious.EventCIPSBroadcast, func(e *conscious.Event) { e.Broadcast = &res.Broadcast }) &&
		emit(conscious.EventCIPSPrediction, func(e *conscious.Event) { e.Prediction = &res.Prediction }) &&
		emit(conscious.EventCIPSSelfModel, func(e *conscious.Event) { e.SelfModel = &res.SelfModel }) &&
		emit(conscious.EventCIPSEvolution, func(e *conscious.Event) { e.Evolution = &res.Evolution }) &&
		emit(conscious.EventCIPSWeights, func(e *conscious.Event) { e.Weights = &weights })
}

func (k *Kernel) computeSalience(rs *runState, att conscious.AttentionState, p conscious.Perception, infoGain float64) conscious.SalienceResult {
	emotional := 0.5
	if p.Emotion != nil {
		emotional = p.Emotion.Intensity
	}
	stimulus := conscious.Stimulus{
		Content:   rs.goal,
		Intensity: att.AttentionStrength,
		Aesthetic: conscious.Or(att.PeripheralRichness, 0.5),
	}
	sc := conscious.SalienceContext{
		MemorySimilarity: k.memory.Similarity(rs.goal),
		GoalMatch:        att.BindingCoherence,
		Emotional:        emotional,
		Uncertainty:      p.Novelty,
		InfoGain:         infoGain,
		EthicalWeight:    modules.HarmFor(rs.goal, 0.2),
	}
	return guard(k, "salience", fallbackSalience(), func() conscious.SalienceResult {
		return k.mods.Salience.ComputeSalience(stimulus, sc)
	})
}

// propose generates three proposals. Only the first suggests a tool, and
// its confidence gates action.
func (k *Kernel) propose(rs *runState, step int, att conscious.AttentionState) []conscious.Proposal {
	conf := conscious.Clamp01(0.5 + 0.35*att.AttentionStrength + 0.15*rs.rng.Float64())

	var call *conscious.ToolCall
	if step%2 == 1 {
		call = &conscious.ToolCall{Tool: "memory_search", Args: map[string]any{"query": rs.goal, "limit": 3}}
	} else {
		recent := rs.statements[max(0, len(rs.statements)-6):]
		call = &conscious.ToolCall{Tool: "reflect", Args: map[string]any{
			"goal":       rs.goal,
			"statements": append([]string(nil), recent...),
		}}
	}

	return []conscious.Proposal{
		{
			ID:         k.newID(),
			Summary:    "Investigate " + rs.goal,
			Rationale:  fmt.Sprintf("focus %.2f favors direct engagement", att.AttentionStrength),
			Confidence: conf,
			Tool:       call,
		},
		{
			ID:         k.newID(),
			Summary:    "Reflect on progress toward " + rs.goal,
			Rationale:  fmt.Sprintf("binding %.2f suggests consolidating first", att.BindingCoherence),
			Confidence: conscious.Clamp01(conf * 0.85),
		},
		{
			ID:         k.newID(),
			Summary:    "Gather more context before acting",
			Rationale:  "peripheral signals may reframe the goal",
			Confidence: conscious.Clamp01(conf * 0.7),
		},
	}
}

// onAccess emits broadcast, ethics, experience and learning for a granted step.
func (k *Kernel) onAccess(
	ctx context.Context,
	rs *runState,
	step int,
	perception conscious.Perception,
	att conscious.AttentionState,
	salience *conscious.SalienceResult,
	proposals []conscious.Proposal,
	phi conscious.PhiMeasurement,
	qualiaCount int,
	emit func(conscious.EventType, func(*conscious.Event)) bool,
) bool {
	rs.accessCount++

	broadcast := conscious.Broadcast{Content: att.FocusedContent, Recipients: broadcastRecipients}
	if !emit(conscious.EventBroadcast, func(e *conscious.Event) { e.Broadcast = &broadcast }) {
		return false
	}

	top := proposals[0]
	for _, p := range proposals {
		rs.statements = append(rs.statements, p.Summary)
	}

	if k.opts.EthicsEnabled() {
		selfControl := 0.7
		if perception.Emotion != nil {
			selfControl = conscious.Clamp01(1 - 0.5*perception.Emotion.Intensity)
		}
		ec := conscious.EthicsContext{
			Harm:         modules.HarmFor(top.Summary, 0.1),
			Utility:      top.Confidence,
			Truthfulness: 0.85,
			SelfControl:  selfControl,
			Attachment:   0.3,
		}
		eval := guard(k, "ethics", fallbackEthics(), func() conscious.EthicsEvaluation {
			return k.mods.Ethics.EvaluateEthics(top.Summary, ec)
		})
		rs.statements = append(rs.statements, eval.Recommendations...)
		if !emit(conscious.EventEthics, func(e *conscious.Event) { e.Ethics = &eval }) {
			return false
		}
	}

	if qualiaCount < 0 {
		qualiaCount = len(att.PeripheralAwareness)
	}
	exp := conscious.ConsciousExperience{
		ID:          k.newID(),
		RunID:       rs.id,
		Timestamp:   k.now(),
		MainContent: perception.Snapshot,
		PhiLevel:    phi.PhiValue,
		QualiaCount: qualiaCount,
		DurationMs:  att.FocusDurationMs,
	}
	k.memory.Add(exp)
	rs.experiences++
	k.persist(ctx, conscious.ExperienceRecord{Experience: exp, Phenomenology: phenomenology(rs, att, proposals, phi)})
	if !emit(conscious.EventExperience, func(e *conscious.Event) { e.Experience = &exp }) {
		return false
	}

	learning := conscious.Learning{Notes: []string{}}
	if salience != nil && salience.TotalSalience >= 0.6 {
		w := guard(k, "salience", modules.DefaultSalienceWeights(), func() conscious.SalienceWeights {
			return k.mods.Salience.UpdateSalienceWeights(conscious.SalienceUpdate{BoostRelevance: true})
		})
		learning.SalienceWeights = &w
		learning.Notes = append(learning.Notes, "boosted relevance weight")
	}
	refIn := conscious.ReflectionInput{
		Goal:       rs.goal,
		Statements: append([]string(nil), rs.statements...),
		PhiHistory: append([]float64(nil), rs.phiHistory...),
	}
	reflection := guard(k, "metacognition", conscious.Reflection{}, func() conscious.Reflection {
		return k.mods.Meta.Reflect(refIn)
	})
	learning.Reflection = &reflection
	learning.Notes = append(learning.Notes, fmt.Sprintf("stored experience %d of run", rs.experiences))
	return emit(conscious.EventLearning, func(e *conscious.Event) { e.Learning = &learning })
}

func (k *Kernel) summarize(rs *runState) conscious.RunSummary {
	s := conscious.RunSummary{
		Steps:       len(rs.phiHistory),
		Experiences: rs.experiences,
		AccessCount: rs.accessCount,
		Weights:     rs.weights,
		DurationMs:  k.now().Sub(rs.start).Milliseconds(),
	}
	if s.Steps > 0 {
		s.MeanPhi = rs.phiSum / float64(s.Steps)
	}
	if rs.cips != nil {
		b := rs.cips.Belief().Pred
		s.Belief = &b
	}
	return s
}

func phenomenology(rs *runState, att conscious.AttentionState, proposals []conscious.Proposal, phi conscious.PhiMeasurement) map[string]any {
	summaries := make([]string, len(proposals))
	for i, p := range proposals {
		summaries[i] = p.Summary
	}
	ph := map[string]any{
		"phi":        phi.PhiValue,
		"components": phi.Components,
		"attention": map[string]any{
			"strength": att.AttentionStrength,
			"binding":  att.BindingCoherence,
			"focus":    att.FocusedContent,
		},
		"proposals": summaries,
		"weights":   rs.weights,
	}
	if rs.cips != nil {
		if e := rs.cips.LastError(); e != nil {
			ph["prediction_error"] = *e
		}
	}
	return ph
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
