package conscious

import "context"

// AttentionSystem produces a focus state, binds features and resolves
// competing candidates.
type AttentionSystem interface {
	FocusAttention(in FocusInput) AttentionState
	BindFeatures(features []Feature) BindingResult
	// ResolveCompetition returns nil for an empty candidate list.
	ResolveCompetition(candidates []Candidate) *Candidate
}

// SalienceEngine scores a stimulus against its context.
type SalienceEngine interface {
	ComputeSalience(stimulus Stimulus, sc SalienceContext) SalienceResult
	UpdateSalienceWeights(u SalienceUpdate) SalienceWeights
	Weights() SalienceWeights
}

// PhiCalculator computes the bounded phi scalar. Implementations never panic
// on out-of-range input.
type PhiCalculator interface {
	CalculatePhi(in PhiInput) PhiMeasurement
}

// EmotionSynthesizer maps context signals onto an emotion.
type EmotionSynthesizer interface {
	Synthesize(ec EmotionContext) EmotionState
}

// EthicsSystem scores a proposed action.
type EthicsSystem interface {
	EvaluateEthics(action string, ec EthicsContext) EthicsEvaluation
}

// ToolSystem executes a tool call behind guardians.
type ToolSystem interface {
	ExecuteConsciously(ctx context.Context, call ToolCall, state ToolState) ToolOutcome
}

// StabilityMonitor assesses the stability of the current state.
type StabilityMonitor interface {
	MonitorConsciousnessStability(s StabilitySignals) StabilityAssessment
}

// MetaCognition reflects on recent system state.
type MetaCognition interface {
	Reflect(in ReflectionInput) Reflection
}

// ToolRegistry runs named tools. Unknown tools yield OK=false with
// Error "unknown_tool"; it never panics.
type ToolRegistry interface {
	ExecuteTool(ctx context.Context, call ToolCall) ToolResult
}

// Guardian pre- and post-checks tool executions. Both checks are pure.
type Guardian interface {
	PreCheckTool(tool string, args map[string]any) PreCheck
	PostCheckResult(tool string, result ToolResult) PostCheck
}

// ExperienceRecord is the episode-shaped record handed to persistence.
type ExperienceRecord struct {
	Experience    ConsciousExperience `json:"experience"`
	Phenomenology map[string]any      `json:"phenomenology"`
}

// Persister mirrors experiences to external storage. Errors are non-fatal to
// the run and are discarded by the kernel.
type Persister interface {
	PersistExperience(ctx context.Context, rec ExperienceRecord) error
}
