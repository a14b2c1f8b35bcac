package dream

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
)

func seededStore(n int) *memory.Store {
	s := memory.NewStore()
	for i := 0; i < n; i++ {
		s.Add(conscious.ConsciousExperience{
			ID:          fmt.Sprintf("e%d", i),
			MainContent: fmt.Sprintf("experience number %d with a rather long trailing description attached", i),
			PhiLevel:    float64(i),
		})
	}
	return s
}

func TestEnterDreamState_Shape(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 6, 20} {
		t.Run(fmt.Sprintf("%d_episodes", n), func(t *testing.T) {
			e := NewEngine(seededStore(n), WithRand(rand.New(rand.NewPCG(1, 2))))
			r := e.EnterDreamState(context.Background(), 2000)

			want := min(n, MaxSample)
			assert.Equal(t, want, r.MemoriesConsolidated)
			assert.Len(t, r.CreativeInsights, (want+groupSize-1)/groupSize)
			assert.Equal(t, int64(2000), r.DurationMs)
			for _, in := range r.CreativeInsights {
				parts := strings.Split(in, separator)
				assert.LessOrEqual(t, len(parts), groupSize)
				for _, p := range parts {
					assert.LessOrEqual(t, len([]rune(p)), snippetLen+3)
				}
			}
			assert.NotEmpty(t, r.Notes)
		})
	}
}

func TestEnterDreamState_Empty(t *testing.T) {
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	e := NewEngine(memory.NewStore(), WithClock(func() time.Time { return fixed }))

	r := e.EnterDreamState(context.Background(), 0)
	assert.Zero(t, r.MemoriesConsolidated)
	assert.Empty(t, r.CreativeInsights)
	assert.NotNil(t, r.CreativeInsights)
	assert.Equal(t, int64(DefaultDurationMs), r.DurationMs)
	assert.Equal(t, fixed, r.StartedAt)
	assert.Equal(t, []string{"no episodes to consolidate"}, r.Notes)
}

func TestEnterDreamState_MarksAccess(t *testing.T) {
	store := seededStore(2)
	e := NewEngine(store)
	e.EnterDreamState(context.Background(), 100)

	for _, ep := range store.Recent(0) {
		require.Equal(t, 1, ep.RetrievalCount)
	}
}

func TestEnterDreamState_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewEngine(seededStore(3)).EnterDreamState(ctx, 100)
	assert.Zero(t, r.MemoriesConsolidated)
	assert.Contains(t, r.Notes[0], "interrupted")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b", snippet("  a   b "))
	long := strings.Repeat("x", 100)
	assert.Equal(t, strings.Repeat("x", snippetLen)+"...", snippet(long))
}
