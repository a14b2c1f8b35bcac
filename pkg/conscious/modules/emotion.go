package modules

import (
	"fmt"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// emotionCandidate is one entry in a guna's emotion pool.
type emotionCandidate struct {
	name string
	base float64
}

var emotionPools = map[conscious.Guna][]emotionCandidate{
	conscious.Sattva: {
		{"serenity", 0.70},
		{"compassion", 0.65},
		{"joy", 0.60},
	},
	conscious.Rajas: {
		{"curiosity", 0.70},
		{"determination", 0.65},
		{"enthusiasm", 0.60},
		{"courage", 0.55},
	},
	conscious.Tamas: {
		{"apprehension", 0.55},
		{"melancholy", 0.50},
		{"fatigue", 0.45},
	},
}

// gunaOrder fixes pool iteration order so ties resolve deterministically.
var gunaOrder = []conscious.Guna{conscious.Sattva, conscious.Rajas, conscious.Tamas}

// DefaultGunaWeights returns the base guna weights, normalized.
func DefaultGunaWeights() conscious.GunaComposition {
	return normalizeGunas(conscious.GunaComposition{Sattva: 0.40, Rajas: 0.35, Tamas: 0.25})
}

// EmotionSynthesizer maps context signals through guna weights onto a
// primary emotion.
type EmotionSynthesizer struct {
	base conscious.GunaComposition
	// BiasStrength is k in the (0.8 + k*bias) guna multipliers.
	BiasStrength float64
}

// NewEmotionSynthesizer creates a synthesizer with the default base weights.
func NewEmotionSynthesizer() *EmotionSynthesizer {
	return NewEmotionSynthesizerWithBase(DefaultGunaWeights())
}

// NewEmotionSynthesizerWithBase creates a synthesizer with custom base weights.
func NewEmotionSynthesizerWithBase(base conscious.GunaComposition) *EmotionSynthesizer {
	return &EmotionSynthesizer{base: normalizeGunas(base), BiasStrength: 0.4}
}

func (e *EmotionSynthesizer) Synthesize(ec conscious.EmotionContext) conscious.EmotionState {
	k := e.BiasStrength
	g := normalizeGunas(conscious.GunaComposition{
		Sattva: e.base.Sattva * (0.8 + k*conscious.Clamp01(ec.Harmony)),
		Rajas:  e.base.Rajas * (0.8 + k*conscious.Clamp01(ec.Curiosity)),
		Tamas:  e.base.Tamas * (0.8 + k*conscious.Clamp01(ec.Stress)),
	})

	primary, bestScore, bestGuna := "", -1.0, conscious.Sattva
	for _, guna := range gunaOrder {
		weight := gunaWeight(g, guna)
		for _, c := range emotionPools[guna] {
			score := c.base * (0.8 + 0.4*weight)
			if ec.Courage && c.name == "courage" {
				score += 0.15
			}
			if ec.Compassion && c.name == "compassion" {
				score += 0.2
			}
			if score > bestScore {
				primary, bestScore, bestGuna = c.name, score, guna
			}
		}
	}

	return conscious.EmotionState{
		Primary:         primary,
		Intensity:       conscious.Clamp01(0.3 + 0.4*(g.Rajas+0.5*g.Tamas) + 0.2*g.Sattva),
		GunaComposition: g,
		Alignment:       conscious.Clamp01(0.5 + 0.5*(g.Sattva-0.5*g.Tamas)),
		Notes: []string{
			fmt.Sprintf("dominant guna: %s", dominantGuna(g)),
			fmt.Sprintf("%s drawn from %s pool", primary, bestGuna),
		},
	}
}

func gunaWeight(g conscious.GunaComposition, guna conscious.Guna) float64 {
	switch guna {
	case conscious.Sattva:
		return g.Sattva
	case conscious.Rajas:
		return g.Rajas
	default:
		return g.Tamas
	}
}

func dominantGuna(g conscious.GunaComposition) conscious.Guna {
	best := conscious.Sattva
	if g.Rajas > gunaWeight(g, best) {
		best = conscious.Rajas
	}
	if g.Tamas > gunaWeight(g, best) {
		best = conscious.Tamas
	}
	return best
}

func normalizeGunas(g conscious.GunaComposition) conscious.GunaComposition {
	g.Sattva = conscious.Clamp(g.Sattva, 0, 1e9)
	g.Rajas = conscious.Clamp(g.Rajas, 0, 1e9)
	g.Tamas = conscious.Clamp(g.Tamas, 0, 1e9)
	sum := g.Sum()
	if sum <= 0 {
		return conscious.GunaComposition{Sattva: 1.0 / 3, Rajas: 1.0 / 3, Tamas: 1.0 / 3}
	}
	return conscious.GunaComposition{Sattva: g.Sattva / sum, Rajas: g.Rajas / sum, Tamas: g.Tamas / sum}
}
