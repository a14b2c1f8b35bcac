package cips

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Winner score blend.
const (
	noveltyWeight  = 0.4
	infoGainWeight = 0.35
	valueWeight    = 0.25
	tieBreakNoise  = 0.01
)

const maxQualia = 12

var textures = []string{"luminous", "resonant", "textured", "warm", "crisp", "layered", "fluid", "dense"}

// FormCoalitions builds one coalition per content with synthetic scores drawn
// from rng. Empty contents are skipped. IDs are "c<step>-<index>".
func FormCoalitions(step int, rng *LCG, contents ...string) []conscious.Coalition {
	out := make([]conscious.Coalition, 0, len(contents))
	for _, content := range contents {
		if content == "" {
			continue
		}
		richness := math.Tanh(float64(utf8.RuneCountInString(content)) / 80)
		out = append(out, conscious.Coalition{
			ID:              fmt.Sprintf("c%d-%d", step, len(out)),
			Content:         content,
			Novelty:         conscious.Clamp01(0.3 + 0.7*rng.Float64()),
			InformationGain: conscious.Clamp01(0.2 + 0.6*rng.Float64() + 0.2*richness),
			Value:           conscious.Clamp01(0.4 + 0.6*rng.Float64()),
		})
	}
	return out
}

// Score is the weighted winner score without noise.
func Score(c conscious.Coalition) float64 {
	return noveltyWeight*c.Novelty + infoGainWeight*c.InformationGain + valueWeight*c.Value
}

// SelectWinner picks the highest scoring coalition after adding a small
// seeded noise term to each score. It returns nil for no coalitions.
func SelectWinner(coalitions []conscious.Coalition, rng *LCG) *conscious.WorkspaceWinner {
	if len(coalitions) == 0 {
		return nil
	}
	var best *conscious.WorkspaceWinner
	for _, c := range coalitions {
		s := Score(c) + tieBreakNoise*rng.Float64()
		if best == nil || s > best.Score {
			best = &conscious.WorkspaceWinner{Coalition: c, Score: s}
		}
	}
	return best
}

// GenerateQualia derives a phenomenal bundle from content length: longer
// content yields more, more intense qualia.
func GenerateQualia(content string) conscious.Qualia {
	n := utf8.RuneCountInString(content)
	intensity := math.Tanh(float64(n) / 60)
	count := min(1+n/16, maxQualia)
	if n == 0 {
		count = 0
	}

	tex := make([]string, 0, count)
	for i := 0; i < count && i < len(textures); i++ {
		tex = append(tex, textures[(n+i)%len(textures)])
	}

	return conscious.Qualia{
		Count:     count,
		Intensity: intensity,
		Valence:   conscious.Clamp01(0.4 + 0.3*intensity),
		Textures:  tex,
	}
}

// Broadcast publishes the winner to the workspace. Nothing subscribes to the
// workspace yet, so the recipient list is always empty.
func Broadcast(w *conscious.WorkspaceWinner) conscious.Broadcast {
	if w == nil {
		return conscious.Broadcast{Recipients: []string{}}
	}
	return conscious.Broadcast{Content: w.Coalition.Content, Recipients: []string{}}
}
