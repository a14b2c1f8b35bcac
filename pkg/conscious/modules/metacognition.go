package modules

import (
	"fmt"
	"strings"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// antonyms are word pairs that make two otherwise similar statements contradict.
var antonyms = [][2]string{
	{"increase", "decrease"},
	{"enable", "disable"},
	{"accept", "reject"},
	{"proceed", "halt"},
	{"expand", "narrow"},
	{"trust", "distrust"},
}

// BasicMetaCognition reflects nothing.
type BasicMetaCognition struct{}

// NewBasicMetaCognition creates a basic meta-cognitive system.
func NewBasicMetaCognition() *BasicMetaCognition {
	return &BasicMetaCognition{}
}

func (m *BasicMetaCognition) Reflect(conscious.ReflectionInput) conscious.Reflection {
	return conscious.Reflection{Insights: []string{}, Contradictions: []conscious.Contradiction{}, Confidence: 0.5}
}

// MetaCognition performs shallow self-reflection: it compares recent
// statements pairwise for negation or antonym swaps and reads the phi trend.
type MetaCognition struct{}

// NewMetaCognition creates the enhanced meta-cognitive system.
func NewMetaCognition() *MetaCognition {
	return &MetaCognition{}
}

func (m *MetaCognition) Reflect(in conscious.ReflectionInput) conscious.Reflection {
	out := conscious.Reflection{Insights: []string{}, Contradictions: []conscious.Contradiction{}}

	for i := 0; i < len(in.Statements); i++ {
		for j := i + 1; j < len(in.Statements); j++ {
			if Contradicts(in.Statements[i], in.Statements[j]) {
				out.Contradictions = append(out.Contradictions, conscious.Contradiction{A: in.Statements[i], B: in.Statements[j]})
			}
		}
	}

	if n := len(in.PhiHistory); n >= 2 {
		delta := in.PhiHistory[n-1] - in.PhiHistory[0]
		switch {
		case delta > 0.25:
			out.Insights = append(out.Insights, fmt.Sprintf("integration rising (+%.2f phi)", delta))
		case delta < -0.25:
			out.Insights = append(out.Insights, fmt.Sprintf("integration falling (%.2f phi)", delta))
		default:
			out.Insights = append(out.Insights, "integration steady")
		}
	}
	out.Insights = append(out.Insights, fmt.Sprintf("reviewed %d statements about %q", len(in.Statements), summarize(in.Goal, 40)))
	if len(out.Contradictions) > 0 {
		out.Insights = append(out.Insights, fmt.Sprintf("%d contradiction(s) need resolving", len(out.Contradictions)))
	}

	out.Confidence = conscious.Clamp(0.8-0.1*float64(len(out.Contradictions)), 0.2, 1)
	return out
}

// Contradicts reports whether a and b differ only by a negating "not" or by
// an antonym swap.
func Contradicts(a, b string) bool {
	na, nb := normalizeStatement(a), normalizeStatement(b)
	if na == "" || nb == "" || na == nb {
		return false
	}
	ra, negA := stripNegation(na)
	rb, negB := stripNegation(nb)
	if ra == rb && (negA+negB)%2 == 1 {
		return true
	}
	for _, pair := range antonyms {
		if strings.Contains(na, pair[0]) && strings.ReplaceAll(na, pair[0], pair[1]) == nb {
			return true
		}
		if strings.Contains(na, pair[1]) && strings.ReplaceAll(na, pair[1], pair[0]) == nb {
			return true
		}
	}
	return false
}

func normalizeStatement(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimRight(s, ".!"))), " ")
}

// stripNegation removes every "not" word and reports how many were removed.
func stripNegation(s string) (string, int) {
	words := strings.Fields(s)
	kept := words[:0]
	n := 0
	for _, w := range words {
		if w == "not" {
			n++
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " "), n
}
