package conscious

// Coalition is a candidate content unit competing for the workspace.
type Coalition struct {
	ID              string  `json:"id"`
	Content         string  `json:"content"`
	Novelty         float64 `json:"novelty"`
	InformationGain float64 `json:"information_gain"`
	Value           float64 `json:"value"`
}

// WorkspaceWinner is the coalition selected for broadcast and its score.
type WorkspaceWinner struct {
	Coalition Coalition `json:"coalition"`
	Score     float64   `json:"score"`
}

// Qualia is the phenomenal bundle generated from the winning content.
type Qualia struct {
	Count     int      `json:"count"`
	Intensity float64  `json:"intensity"`
	Valence   float64  `json:"valence"`
	Textures  []string `json:"textures"`
}

// BeliefState is the persistent scalar belief for a run.
type BeliefState struct {
	Pred float64 `json:"pred"`
}

// PredictionCycle is one predict/observe/error/update pass.
type PredictionCycle struct {
	Predicted float64 `json:"predicted"`
	Observed  float64 `json:"observed"`
	Error     float64 `json:"error"`
	Belief    float64 `json:"belief"`
}

// SelfModel is the run's model of its own predictive confidence.
type SelfModel struct {
	Confidence float64 `json:"confidence"`
	MeanError  float64 `json:"mean_error"`
	Samples    int     `json:"samples"`
}

// EvolutionProposal is a suggested adjustment to the scoring weights.
type EvolutionProposal struct {
	ID     string   `json:"id"`
	Kind   string   `json:"kind"`
	Reason string   `json:"reason"`
	Tags   []string `json:"tags,omitempty"`
}

// EvolutionReport is the evolution module's verdict for one step.
type EvolutionReport struct {
	Proposals []EvolutionProposal `json:"proposals"`
	Validated []string            `json:"validated"`
	Accepted  []string            `json:"accepted"`
	Applied   bool                `json:"applied"`
	Before    *PhiWeights         `json:"before,omitempty"`
	After     *PhiWeights         `json:"after,omitempty"`
}
