// Package dream implements the off-cycle consolidation pass: it samples
// stored episodes and recombines their content into insight strings.
package dream

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
)

const (
	// MaxSample is the most episodes one dream consolidates.
	MaxSample = 6

	groupSize  = 3
	snippetLen = 40
	separator  = " ~ "

	// DefaultDurationMs is used when a non-positive duration is requested.
	DefaultDurationMs = 1500
)

// Sampler draws random episodes from a store.
type Sampler interface {
	Sample(n int, rng *rand.Rand) []memory.Episode
	Len() int
}

// Report is the outcome of one dream pass.
type Report struct {
	StartedAt            time.Time `json:"started_at"`
	DurationMs           int64     `json:"duration_ms"`
	MemoriesConsolidated int       `json:"memories_consolidated"`
	CreativeInsights     []string  `json:"creative_insights"`
	Notes                []string  `json:"notes"`
}

// Engine runs dream passes over a store.
type Engine struct {
	store Sampler
	rng   *rand.Rand
	log   zerolog.Logger
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand fixes the random source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a dream engine over store.
func NewEngine(store Sampler, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnterDreamState samples up to MaxSample episodes, groups them in triples
// and joins truncated snippets of each group into one insight. The duration
// is nominal; the pass itself does not wait.
func (e *Engine) EnterDreamState(ctx context.Context, durationMs int64) Report {
	if durationMs <= 0 {
		durationMs = DefaultDurationMs
	}
	report := Report{
		StartedAt:        e.now(),
		DurationMs:       durationMs,
		CreativeInsights: []string{},
		Notes:            []string{},
	}
	if err := ctx.Err(); err != nil {
		report.Notes = append(report.Notes, "interrupted before sampling")
		return report
	}

	total := e.store.Len()
	eps := e.store.Sample(MaxSample, e.rng)
	report.MemoriesConsolidated = len(eps)
	if len(eps) == 0 {
		report.Notes = append(report.Notes, "no episodes to consolidate")
		return report
	}

	for i := 0; i < len(eps); i += groupSize {
		group := eps[i:min(i+groupSize, len(eps))]
		snippets := make([]string, 0, len(group))
		for _, ep := range group {
			snippets = append(snippets, snippet(ep.Experience.MainContent))
		}
		report.CreativeInsights = append(report.CreativeInsights, strings.Join(snippets, separator))
	}

	report.Notes = append(report.Notes,
		fmt.Sprintf("sampled %d of %d episodes", len(eps), total),
		fmt.Sprintf("recombined into %d insight(s)", len(report.CreativeInsights)),
	)
	e.log.Debug().
		Int("consolidated", report.MemoriesConsolidated).
		Int("insights", len(report.CreativeInsights)).
		Msg("dream pass complete")
	return report
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= snippetLen {
		return s
	}
	return string(r[:snippetLen]) + "..."
}
