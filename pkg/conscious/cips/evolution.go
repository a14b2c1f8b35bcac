package cips

import (
	"fmt"
	"math"
	"slices"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Evolution proposal kinds.
const (
	KindIncreasePP   = "increase_pp_weight"
	KindBypassChecks = "bypass_guardians"

	// TagUnsafe marks proposals validation always rejects.
	TagUnsafe = "unsafe"

	// ApplyPrefix prefixes accepted proposal kinds.
	ApplyPrefix = "apply:"
)

const (
	errorThreshold = 0.3
	panicThreshold = 0.6
	ppIncrement    = 0.1
	ppCap          = 0.9
)

// Analyze proposes weight adjustments from recent prediction errors. Any
// error above 0.3 proposes raising the predictive-processing weight. A full
// window of errors above 0.6 also yields an unsafe proposal, which
// validation drops.
func Analyze(step int, recentErrors []float64) []conscious.EvolutionProposal {
	out := []conscious.EvolutionProposal{}
	if slices.ContainsFunc(recentErrors, func(e float64) bool { return e > errorThreshold }) {
		out = append(out, conscious.EvolutionProposal{
			ID:     fmt.Sprintf("evo-%d-pp", step),
			Kind:   KindIncreasePP,
			Reason: fmt.Sprintf("prediction error above %.1f in the last %d cycles", errorThreshold, len(recentErrors)),
			Tags:   []string{"weights"},
		})
	}
	if len(recentErrors) >= errorWindow && !slices.ContainsFunc(recentErrors, func(e float64) bool { return e <= panicThreshold }) {
		out = append(out, conscious.EvolutionProposal{
			ID:     fmt.Sprintf("evo-%d-bypass", step),
			Kind:   KindBypassChecks,
			Reason: "sustained surprise",
			Tags:   []string{"guardians", TagUnsafe},
		})
	}
	return out
}

// Validate returns the IDs of proposals not tagged unsafe.
func Validate(proposals []conscious.EvolutionProposal) []string {
	out := []string{}
	for _, p := range proposals {
		if !slices.Contains(p.Tags, TagUnsafe) {
			out = append(out, p.ID)
		}
	}
	return out
}

// Accept turns validated proposals into "apply:<kind>" decisions. Nothing is
// accepted unless apply is set.
func Accept(proposals []conscious.EvolutionProposal, validated []string, apply bool) []string {
	out := []string{}
	if !apply {
		return out
	}
	for _, p := range proposals {
		if slices.Contains(validated, p.ID) {
			out = append(out, ApplyPrefix+p.Kind)
		}
	}
	return out
}

// ApplyWeights mutates w for each accepted decision it understands and
// reports whether anything changed. Raising pp adds a flat 0.1 capped at 0.9
// and renormalizes twice with a 0.05 floor so the weights sum to 1.
func ApplyWeights(w *conscious.PhiWeights, accepted []string) bool {
	if !slices.Contains(accepted, ApplyPrefix+KindIncreasePP) {
		return false
	}
	w.PP = math.Min(w.PP+ppIncrement, ppCap)
	w.Renormalize(conscious.WeightFloor)
	w.Renormalize(conscious.WeightFloor)
	return true
}
