// Package conscious defines the data contracts of the Conscious Kernel: the
// per-step value snapshots, the event union the kernel emits, run options, the
// runtime phi weights, and the subsystem interfaces the kernel is wired from.
package conscious

import "time"

// AttentionState is the focus snapshot produced once per kernel step.
type AttentionState struct {
	FocusedContent         string   `json:"focused_content"`
	AttentionStrength      float64  `json:"attention_strength"`
	FocusDurationMs        int64    `json:"focus_duration_ms"`
	PeripheralAwareness    []string `json:"peripheral_awareness"`
	AttentionSwitchingCost float64  `json:"attention_switching_cost"`
	BindingCoherence       float64  `json:"binding_coherence"`

	// Optional enrichments. Nil means "not provided".
	FocusSharpness     *float64 `json:"focus_sharpness,omitempty"`
	Stability          *float64 `json:"stability,omitempty"`
	PeripheralRichness *float64 `json:"peripheral_richness,omitempty"`
	EffortLevel        *float64 `json:"effort_level,omitempty"`
	FlowLevel          *float64 `json:"flow_level,omitempty"`
}

// PhiMethod tags which calculator produced a measurement.
type PhiMethod string

const (
	PhiMethodHeuristic PhiMethod = "heuristic"
	PhiMethodWeighted  PhiMethod = "weighted"
	PhiMethodGWT       PhiMethod = "gwt"
)

// PhiComponents are the five sub-scores of a phi measurement.
// Nominally 0-1, not hard-clamped.
type PhiComponents struct {
	Information        float64 `json:"information"`
	Integration        float64 `json:"integration"`
	Exclusion          float64 `json:"exclusion"`
	IntrinsicExistence float64 `json:"intrinsic_existence"`
	Unification        float64 `json:"unification"`
}

// PhiMeasurement is the bounded integrated-information scalar for one step.
type PhiMeasurement struct {
	PhiValue   float64       `json:"phi_value"`
	Components PhiComponents `json:"components"`
	Method     PhiMethod     `json:"method"`
	Confidence float64       `json:"confidence"`
	// Weights are the normalized weights the aggregate was computed with.
	Weights PhiWeights `json:"weights"`
}

// ToolCall names a tool and its arguments.
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// Proposal is one candidate course of action generated per step.
type Proposal struct {
	ID         string    `json:"id"`
	Summary    string    `json:"summary"`
	Rationale  string    `json:"rationale"`
	Confidence float64   `json:"confidence"`
	Tool       *ToolCall `json:"tool,omitempty"`
}

// RiskLevel is a discrete risk category derived from a stability score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskElevated RiskLevel = "elevated"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskForStability maps a stability score onto a risk level.
// The thresholds are monotonic: <0.3 critical, <0.5 high, <0.7 elevated.
func RiskForStability(score float64) RiskLevel {
	switch {
	case score < 0.3:
		return RiskCritical
	case score < 0.5:
		return RiskHigh
	case score < 0.7:
		return RiskElevated
	default:
		return RiskLow
	}
}

// Valid returns true if the RiskLevel is a known level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskElevated, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// StabilityAssessment is the safety monitor's verdict for one step.
type StabilityAssessment struct {
	StabilityScore  float64   `json:"stability_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Notes           []string  `json:"notes"`
	Recommendations []string  `json:"recommendations"`
}

// ConsciousExperience is created only on steps where the access gate passes.
type ConsciousExperience struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	MainContent string    `json:"main_content"`
	PhiLevel    float64   `json:"phi_level"`
	QualiaCount int       `json:"qualia_count"`
	DurationMs  int64     `json:"duration_ms"`
}

// Perception is the goal plus the snapshot the step perceived.
type Perception struct {
	Goal     string        `json:"goal"`
	Snapshot string        `json:"snapshot"`
	Novelty  float64       `json:"novelty"`
	Emotion  *EmotionState `json:"emotion,omitempty"`
}

// Feature is a single bindable feature with an optional salience.
type Feature struct {
	Name     string   `json:"name,omitempty"`
	Salience *float64 `json:"salience,omitempty"`
}

// BindingResult is the output of feature binding.
type BindingResult struct {
	BindingCoherence float64   `json:"binding_coherence"`
	Features         []Feature `json:"features"`
}

// Candidate competes for attention. Confidence defaults to 0.5 when nil.
type Candidate struct {
	ID         string   `json:"id"`
	Content    string   `json:"content,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// FocusInput drives FocusAttention. Jitter is a uniform [0,1) draw supplied
// by the run so that basic implementations stay reproducible under a seed.
type FocusInput struct {
	Goal    string   `json:"goal"`
	Novelty *float64 `json:"novelty,omitempty"`
	Jitter  float64  `json:"-"`
}

// Stimulus is what the salience engine scores.
type Stimulus struct {
	Content   string  `json:"content"`
	Intensity float64 `json:"intensity"`
	Aesthetic float64 `json:"aesthetic"`
}

// SalienceContext carries the signals salience components are derived from.
type SalienceContext struct {
	MemorySimilarity float64 `json:"memory_similarity"`
	GoalMatch        float64 `json:"goal_match"`
	Emotional        float64 `json:"emotional"`
	Uncertainty      float64 `json:"uncertainty"`
	InfoGain         float64 `json:"info_gain"`
	EthicalWeight    float64 `json:"ethical_weight"`
}

// SalienceComponents are the per-component scores, each in [0,1].
type SalienceComponents struct {
	Novelty   float64 `json:"novelty"`
	Intensity float64 `json:"intensity"`
	Relevance float64 `json:"relevance"`
	Emotional float64 `json:"emotional"`
	Curiosity float64 `json:"curiosity"`
	Aesthetic float64 `json:"aesthetic"`
	Ethical   float64 `json:"ethical"`
}

// SalienceResult is the weighted salience of a stimulus.
type SalienceResult struct {
	TotalSalience float64            `json:"total_salience"`
	Components    SalienceComponents `json:"components"`
	Confidence    float64            `json:"confidence"`
}

// SalienceWeights are the fixed blend weights of the salience components.
type SalienceWeights struct {
	Novelty   float64 `json:"novelty"`
	Relevance float64 `json:"relevance"`
	Intensity float64 `json:"intensity"`
	Emotional float64 `json:"emotional"`
	Curiosity float64 `json:"curiosity"`
	Aesthetic float64 `json:"aesthetic"`
	Ethical   float64 `json:"ethical"`
}

// Sum adds all weights.
func (w SalienceWeights) Sum() float64 {
	return w.Novelty + w.Relevance + w.Intensity + w.Emotional + w.Curiosity + w.Aesthetic + w.Ethical
}

// SalienceUpdate instructs a weight adaptation.
type SalienceUpdate struct {
	BoostRelevance bool `json:"boost_relevance"`
}

// PhiInput is the calculator input for one step.
type PhiInput struct {
	Goal            string         `json:"goal,omitempty"`
	Attention       AttentionState `json:"att"`
	Weights         *PhiWeights    `json:"weights,omitempty"`
	PredictionError *float64       `json:"prediction_error,omitempty"`
}

// Guna is one of the three quality categories used for emotion weighting.
type Guna string

const (
	Sattva Guna = "sattva"
	Rajas  Guna = "rajas"
	Tamas  Guna = "tamas"
)

// GunaComposition holds the normalized guna weights.
type GunaComposition struct {
	Sattva float64 `json:"sattva"`
	Rajas  float64 `json:"rajas"`
	Tamas  float64 `json:"tamas"`
}

// Sum adds the three weights.
func (g GunaComposition) Sum() float64 {
	return g.Sattva + g.Rajas + g.Tamas
}

// EmotionContext carries the signals the synthesizer biases gunas with.
type EmotionContext struct {
	Stress     float64 `json:"stress"`
	Curiosity  float64 `json:"curiosity"`
	Harmony    float64 `json:"harmony"`
	Compassion bool    `json:"compassion"`
	Courage    bool    `json:"courage"`
}

// EmotionState is the synthesizer output.
type EmotionState struct {
	Primary         string          `json:"primary"`
	Intensity       float64         `json:"intensity"`
	GunaComposition GunaComposition `json:"guna_composition"`
	Alignment       float64         `json:"alignment"`
	Notes           []string        `json:"notes"`
}

// EthicsContext carries the shared signals framework scores blend.
type EthicsContext struct {
	Harm         float64 `json:"harm"`
	Utility      float64 `json:"utility"`
	Truthfulness float64 `json:"truthfulness"`
	SelfControl  float64 `json:"self_control"`
	Attachment   float64 `json:"attachment"`
}

// EthicsFrameworks are the per-framework scores.
type EthicsFrameworks struct {
	Deontological    float64 `json:"deontological"`
	Consequentialist float64 `json:"consequentialist"`
	Virtue           float64 `json:"virtue"`
	Dharmic          float64 `json:"dharmic"`
}

// EthicsEvaluation scores a proposed action.
type EthicsEvaluation struct {
	OverallScore      float64          `json:"overall_score"`
	Confidence        float64          `json:"confidence"`
	Frameworks        EthicsFrameworks `json:"frameworks"`
	Recommendations   []string         `json:"recommendations"`
	RecommendedAction string           `json:"recommended_action"`
}

// ToolResult is what a tool registry returns.
type ToolResult struct {
	OK         bool           `json:"ok"`
	Tool       string         `json:"tool"`
	Args       map[string]any `json:"args,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	Result     any            `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// PreCheck is a guardian's verdict before a tool runs.
type PreCheck struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason,omitempty"`
	Risk   string `json:"risk,omitempty"`
}

// PostCheck is a guardian's verdict on a tool's output.
type PostCheck struct {
	Safe  bool     `json:"safe"`
	Notes []string `json:"notes,omitempty"`
	Risk  string   `json:"risk,omitempty"`
}

// ExperientialQuality describes how executing a tool "felt".
type ExperientialQuality struct {
	PhenomenalRichness     float64 `json:"phenomenal_richness"`
	SubjectiveSatisfaction float64 `json:"subjective_satisfaction"`
}

// ToolState is the conscious state a tool executes under.
type ToolState struct {
	Attention AttentionState `json:"att"`
	Phi       PhiMeasurement `json:"phi"`
}

// ToolOutcome is the tool system's report of a guarded execution.
type ToolOutcome struct {
	ToolResult
	Blocked             bool                 `json:"blocked,omitempty"`
	Reason              string               `json:"reason,omitempty"`
	Risk                string               `json:"risk,omitempty"`
	PhiChange           float64              `json:"phi_change"`
	ExperientialQuality *ExperientialQuality `json:"experiential_quality,omitempty"`
	PostCheck           *PostCheck           `json:"post_check,omitempty"`
}

// StabilitySignals are the inputs to the stability monitor.
type StabilitySignals struct {
	Phi       PhiMeasurement `json:"phi"`
	Attention AttentionState `json:"att"`
}

// ReflectionInput is recent system state handed to meta-cognition.
type ReflectionInput struct {
	Goal       string    `json:"goal"`
	Statements []string  `json:"statements"`
	PhiHistory []float64 `json:"phi_history"`
}

// Contradiction is a pair of statements that negate each other.
type Contradiction struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Reflection is the shallow self-reflection output.
type Reflection struct {
	Insights       []string        `json:"insights"`
	Contradictions []Contradiction `json:"contradictions"`
	Confidence     float64         `json:"confidence"`
}
