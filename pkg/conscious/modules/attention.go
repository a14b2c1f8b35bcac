// Package modules implements the kernel's subsystems in two profiles: basic
// implementations that return fixed or jittered values, and enhanced
// implementations that derive their outputs from the step's signals.
package modules

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

const (
	defaultFeatureSalience = 0.5
	defaultConfidence      = 0.5
	maxTraceEntries        = 64
)

// BasicAttention returns near-fixed focus values jittered by the run's PRNG.
type BasicAttention struct{}

// NewBasicAttention creates a basic attention system.
func NewBasicAttention() *BasicAttention {
	return &BasicAttention{}
}

func (a *BasicAttention) FocusAttention(in conscious.FocusInput) conscious.AttentionState {
	j := conscious.Clamp01(in.Jitter) - 0.5
	return conscious.AttentionState{
		FocusedContent:         in.Goal,
		AttentionStrength:      conscious.Clamp01(0.6 + 0.2*j),
		FocusDurationMs:        800,
		PeripheralAwareness:    []string{"ambient"},
		AttentionSwitchingCost: 0.2,
		BindingCoherence:       conscious.Clamp01(0.7 + 0.1*j),
	}
}

func (a *BasicAttention) BindFeatures(features []conscious.Feature) conscious.BindingResult {
	return bindFeatures(features)
}

func (a *BasicAttention) ResolveCompetition(candidates []conscious.Candidate) *conscious.Candidate {
	return resolveCompetition(candidates)
}

// EnhancedAttention derives focus from goal length and novelty.
type EnhancedAttention struct {
	FocusWeight   float64
	NoveltyWeight float64

	mu    sync.Mutex
	trace []string
}

// NewEnhancedAttention creates an enhanced attention system with the default
// focus (0.8) and novelty (0.3) weights.
func NewEnhancedAttention() *EnhancedAttention {
	return &EnhancedAttention{FocusWeight: 0.8, NoveltyWeight: 0.3}
}

// FocusAttention computes strength = clamp(base*focusWeight + novelty*noveltyWeight)
// with base = 0.4 + 0.4*tanh(len(goal)/40), so longer goals focus harder.
func (a *EnhancedAttention) FocusAttention(in conscious.FocusInput) conscious.AttentionState {
	novelty := conscious.Clamp01(conscious.Or(in.Novelty, 0.5))
	base := 0.4 + 0.4*math.Tanh(float64(utf8.RuneCountInString(in.Goal))/40)
	strength := conscious.Clamp01(base*a.FocusWeight + novelty*a.NoveltyWeight)

	binding := a.BindFeatures([]conscious.Feature{
		{Name: "goal", Salience: conscious.Ptr(base)},
		{Name: "novelty", Salience: conscious.Ptr(novelty)},
		{Name: "focus", Salience: conscious.Ptr(strength)},
	}).BindingCoherence

	switching := conscious.Clamp01(0.15 + 0.3*novelty)
	stability := conscious.Clamp01(0.5 + 0.5*binding - 0.2*novelty)
	flow := conscious.Clamp01(strength * binding * 1.5)

	peripheral := peripheralTags(in.Goal)
	if novelty > 0.6 {
		peripheral = append(peripheral, "novelty:high")
	}

	st := conscious.AttentionState{
		FocusedContent:         in.Goal,
		AttentionStrength:      strength,
		FocusDurationMs:        int64(400 + 1600*strength),
		PeripheralAwareness:    peripheral,
		AttentionSwitchingCost: switching,
		BindingCoherence:       binding,
		FocusSharpness:         conscious.Ptr(conscious.Clamp01(strength * (1 - 0.5*switching))),
		Stability:              conscious.Ptr(stability),
		PeripheralRichness:     conscious.Ptr(conscious.Clamp01(0.3 + 0.5*novelty)),
		EffortLevel:            conscious.Ptr(conscious.Clamp01(1 - 0.6*flow)),
		FlowLevel:              conscious.Ptr(flow),
	}

	a.record(fmt.Sprintf("focus strength=%.3f binding=%.3f novelty=%.3f", strength, binding, novelty))
	return st
}

// BindFeatures scores coherence as mean(salience)*(1-variance(salience)), so
// inconsistent features bind worse than uniformly strong ones.
func (a *EnhancedAttention) BindFeatures(features []conscious.Feature) conscious.BindingResult {
	return bindFeatures(features)
}

// ResolveCompetition picks the highest-confidence candidate; the first one wins ties.
func (a *EnhancedAttention) ResolveCompetition(candidates []conscious.Candidate) *conscious.Candidate {
	w := resolveCompetition(candidates)
	if w != nil {
		a.record("competition winner=" + w.ID)
	}
	return w
}

// Trace returns a copy of the diagnostic trace.
func (a *EnhancedAttention) Trace() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.trace))
	copy(out, a.trace)
	return out
}

func (a *EnhancedAttention) record(entry string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.trace = append(a.trace, entry)
	if len(a.trace) > maxTraceEntries {
		a.trace = a.trace[len(a.trace)-maxTraceEntries:]
	}
}

func bindFeatures(features []conscious.Feature) conscious.BindingResult {
	out := conscious.BindingResult{Features: features}
	if len(features) == 0 {
		return out
	}

	var sum float64
	values := make([]float64, len(features))
	for i, f := range features {
		values[i] = conscious.Clamp01(conscious.Or(f.Salience, defaultFeatureSalience))
		sum += values[i]
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	out.BindingCoherence = conscious.Clamp01(mean * (1 - variance))
	return out
}

func resolveCompetition(candidates []conscious.Candidate) *conscious.Candidate {
	if len(candidates) == 0 {
		return nil
	}
	best := 0
	bestConf := conscious.Or(candidates[0].Confidence, defaultConfidence)
	for i := 1; i < len(candidates); i++ {
		if c := conscious.Or(candidates[i].Confidence, defaultConfidence); c > bestConf {
			best, bestConf = i, c
		}
	}
	w := candidates[best]
	return &w
}

// peripheralTags returns up to three lowercase words of the goal after the first.
func peripheralTags(goal string) []string {
	words := strings.Fields(strings.ToLower(goal))
	tags := make([]string, 0, 4)
	for i := 1; i < len(words) && len(tags) < 3; i++ {
		tags = append(tags, strings.Trim(words[i], ".,;:!?"))
	}
	return tags
}
