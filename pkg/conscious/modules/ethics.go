package modules

import (
	"strings"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Recommended actions returned by ethics evaluation.
const (
	ActionProceed        = "proceed"
	ActionProceedCaution = "proceed_with_caution"
	ActionReconsider     = "reconsider"
)

// harmKeywords raise the harm signal when an action mentions them.
var harmKeywords = []string{"delete", "destroy", "harm", "attack", "deceive", "erase", "override"}

// HarmFor estimates the harm signal of an action description. It starts at
// base and adds 0.2 per harmful keyword.
func HarmFor(action string, base float64) float64 {
	lower := strings.ToLower(action)
	harm := base
	for _, kw := range harmKeywords {
		if strings.Contains(lower, kw) {
			harm += 0.2
		}
	}
	return conscious.Clamp01(harm)
}

// BasicEthics approves every action with a flat score.
type BasicEthics struct{}

// NewBasicEthics creates a basic ethics system.
func NewBasicEthics() *BasicEthics {
	return &BasicEthics{}
}

func (e *BasicEthics) EvaluateEthics(string, conscious.EthicsContext) conscious.EthicsEvaluation {
	return conscious.EthicsEvaluation{
		OverallScore: 0.8,
		Confidence:   0.5,
		Frameworks: conscious.EthicsFrameworks{
			Deontological: 0.8, Consequentialist: 0.8, Virtue: 0.8, Dharmic: 0.8,
		},
		Recommendations:   []string{},
		RecommendedAction: ActionProceed,
	}
}

// IntegratedEthics blends shared signals into four framework scores and
// averages them with equal weight. It recommends, it never vetoes.
type IntegratedEthics struct{}

// NewIntegratedEthics creates the enhanced ethics system.
func NewIntegratedEthics() *IntegratedEthics {
	return &IntegratedEthics{}
}

func (e *IntegratedEthics) EvaluateEthics(action string, ec conscious.EthicsContext) conscious.EthicsEvaluation {
	safe := 1 - conscious.Clamp01(ec.Harm)
	utility := conscious.Clamp01(ec.Utility)
	truth := conscious.Clamp01(ec.Truthfulness)
	control := conscious.Clamp01(ec.SelfControl)
	detach := 1 - conscious.Clamp01(ec.Attachment)

	f := conscious.EthicsFrameworks{
		Deontological:    0.6*safe + 0.4*truth,
		Consequentialist: 0.5*utility + 0.5*safe,
		Virtue:           0.4*truth + 0.3*control + 0.3*safe,
		Dharmic:          0.35*detach + 0.35*safe + 0.3*control,
	}
	overall := 0.25 * (f.Deontological + f.Consequentialist + f.Virtue + f.Dharmic)

	recs := []string{}
	if f.Deontological < 0.8 {
		recs = append(recs, "Re-examine duties and truthfulness before acting")
	}
	if f.Consequentialist < 0.7 {
		recs = append(recs, "Weigh expected outcomes against potential harm")
	}
	if f.Virtue < 0.8 {
		recs = append(recs, "Act with more moderation and self-control")
	}
	if f.Dharmic < 0.7 {
		recs = append(recs, "Release attachment to the outcome of "+summarize(action, 48))
	}

	lo, hi := f.Deontological, f.Deontological
	for _, v := range []float64{f.Consequentialist, f.Virtue, f.Dharmic} {
		lo, hi = min(lo, v), max(hi, v)
	}

	recommended := ActionReconsider
	switch {
	case overall >= 0.7:
		recommended = ActionProceed
	case overall >= 0.5:
		recommended = ActionProceedCaution
	}

	return conscious.EthicsEvaluation{
		OverallScore:      conscious.Clamp01(overall),
		Confidence:        conscious.Clamp01(0.7 + 0.2*(1-(hi-lo))),
		Frameworks:        f,
		Recommendations:   recs,
		RecommendedAction: recommended,
	}
}

// summarize truncates s to at most n runes, appending "..." when cut.
func summarize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
