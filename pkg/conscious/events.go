package conscious

import "time"

// EventType tags a kernel event. The tag strings are the wire contract with
// event consumers and must not change.
type EventType string

const (
	EventRunStart        EventType = "run:start"
	EventPerception      EventType = "perception"
	EventAttention       EventType = "attention"
	EventSalience        EventType = "salience"
	EventProposals       EventType = "proposals"
	EventPhi             EventType = "phi"
	EventEthics          EventType = "ethics"
	EventConsciousAccess EventType = "conscious_access"
	EventBroadcast       EventType = "broadcast"
	EventExperience      EventType = "experience"
	EventLearning        EventType = "learning"
	EventStability       EventType = "stability"
	EventTool            EventType = "tool"
	EventAction          EventType = "action"
	EventRunEnd          EventType = "run:end"

	// CIPS events, present only when CIPS is enabled.
	EventCIPSCoalitions EventType = "cips:coalitions"
	EventCIPSWinner     EventType = "cips:workspace_winner"
	EventCIPSQualia     EventType = "cips:qualia"
	EventCIPSBroadcast  EventType = "cips:broadcast"
	EventCIPSPrediction EventType = "cips:prediction"
	EventCIPSSelfModel  EventType = "cips:self_model"
	EventCIPSEvolution  EventType = "cips:evolution"
	EventCIPSWeights    EventType = "cips:weights"
)

// AllEventTypes lists every event tag in emission order within a step.
func AllEventTypes() []EventType {
	return []EventType{
		EventRunStart, EventPerception,
		EventCIPSCoalitions, EventCIPSWinner, EventCIPSQualia, EventCIPSBroadcast,
		EventCIPSPrediction, EventCIPSSelfModel, EventCIPSEvolution, EventCIPSWeights,
		EventAttention, EventSalience, EventProposals, EventPhi, EventConsciousAccess,
		EventBroadcast, EventEthics, EventExperience, EventLearning, EventStability,
		EventAction, EventTool, EventRunEnd,
	}
}

// IsCIPS reports whether the tag belongs to the CIPS extension.
func (t EventType) IsCIPS() bool {
	return len(t) > 5 && t[:5] == "cips:"
}

// Event is the kernel's only wire format: a tagged envelope whose payload
// lives in the field matching its Type.
type Event struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Step      int       `json:"step"`
	Timestamp time.Time `json:"timestamp"`

	// run:start
	Goal    string   `json:"goal,omitempty"`
	Options *Options `json:"options,omitempty"`

	Perception      *Perception          `json:"perception,omitempty"`
	Attention       *AttentionState      `json:"attention,omitempty"`
	Salience        *SalienceResult      `json:"salience,omitempty"`
	Proposals       []Proposal           `json:"proposals,omitempty"`
	Phi             *PhiMeasurement      `json:"phi,omitempty"`
	PredictionError *float64             `json:"prediction_error,omitempty"`
	Ethics          *EthicsEvaluation    `json:"ethics,omitempty"`
	Access          *AccessDecision      `json:"conscious_access,omitempty"`
	Broadcast       *Broadcast           `json:"broadcast,omitempty"`
	Experience      *ConsciousExperience `json:"experience,omitempty"`
	Learning        *Learning            `json:"learning,omitempty"`
	Stability       *StabilityAssessment `json:"stability,omitempty"`
	Tool            *ToolOutcome         `json:"tool,omitempty"`
	Action          *Action              `json:"action,omitempty"`

	// CIPS payloads.
	Coalitions []Coalition      `json:"coalitions,omitempty"`
	Winner     *WorkspaceWinner `json:"winner,omitempty"`
	Qualia     *Qualia          `json:"qualia,omitempty"`
	Prediction *PredictionCycle `json:"prediction,omitempty"`
	SelfModel  *SelfModel       `json:"self_model,omitempty"`
	Evolution  *EvolutionReport `json:"evolution,omitempty"`
	Weights    *PhiWeights      `json:"weights,omitempty"`

	// run:end
	Summary *RunSummary `json:"summary,omitempty"`

	// Annotations are added by the enhanced kernel wrapper.
	Annotations map[string]any `json:"annotations,omitempty"`
}

// AccessDecision records the conscious-access gate for one step.
type AccessDecision struct {
	Granted           bool    `json:"granted"`
	PhiValue          float64 `json:"phi_value"`
	TargetPhi         float64 `json:"target_phi"`
	AttentionStrength float64 `json:"attention_strength"`
}

// Broadcast is the global-workspace broadcast of a step's content.
type Broadcast struct {
	Content    string   `json:"content"`
	Recipients []string `json:"recipients"`
}

// Learning reports what a step learned after access was granted.
type Learning struct {
	SalienceWeights *SalienceWeights `json:"salience_weights,omitempty"`
	Reflection      *Reflection      `json:"reflection,omitempty"`
	Notes           []string         `json:"notes,omitempty"`
}

// Action is the step acting on its top proposal.
type Action struct {
	ProposalID string  `json:"proposal_id"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// RunSummary closes a run.
type RunSummary struct {
	Steps       int        `json:"steps"`
	Experiences int        `json:"experiences"`
	AccessCount int        `json:"access_count"`
	MeanPhi     float64    `json:"mean_phi"`
	Weights     PhiWeights `json:"weights"`
	Belief      *float64   `json:"belief,omitempty"`
	DurationMs  int64      `json:"duration_ms"`
}
