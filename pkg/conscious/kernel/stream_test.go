package kernel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func TestStream_DeliversWholeRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := conscious.DefaultOptions()
	opts.MaxSteps = 2
	opts.Seed = 8
	k := newKernel(t, opts)

	var got []conscious.Event
	for ev := range k.Stream(context.Background(), "stream it") {
		got = append(got, ev)
	}
	require.NotEmpty(t, got)
	assert.Equal(t, conscious.EventRunStart, got[0].Type)
	assert.Equal(t, conscious.EventRunEnd, got[len(got)-1].Type)
}

func TestStream_CancelReleasesProducer(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := conscious.DefaultOptions()
	opts.MaxSteps = 50
	k := newKernel(t, opts)

	ctx, cancel := context.WithCancel(context.Background())
	ch := k.Stream(ctx, "long running goal")
	first := <-ch
	assert.Equal(t, conscious.EventRunStart, first.Type)
	cancel()

	sawEnd := false
	for ev := range ch {
		if ev.Type == conscious.EventRunEnd {
			sawEnd = true
		}
	}
	assert.False(t, sawEnd)
}

func TestEnhanced_Annotations(t *testing.T) {
	opts := conscious.DefaultOptions()
	opts.MaxSteps = 3
	opts.Seed = 21
	ek, err := NewEnhanced(opts)
	require.NoError(t, err)

	var r Runner = ek
	assert.Equal(t, conscious.ProfileEnhanced, r.Profile())

	events := ek.Collect(context.Background(), "annotate")
	require.NotEmpty(t, events)

	firstPhi := true
	for i, e := range events {
		require.NotNil(t, e.Annotations)
		assert.Equal(t, i+1, e.Annotations[AnnotationSeq])
		assert.Equal(t, "enhanced", e.Annotations[AnnotationProfile])
		assert.Contains(t, e.Annotations, AnnotationElapsedMs)

		switch e.Type {
		case conscious.EventPhi:
			require.Contains(t, e.Annotations, AnnotationPhiDelta)
			if firstPhi {
				assert.Equal(t, 0.0, e.Annotations[AnnotationPhiDelta])
				firstPhi = false
			}
		case conscious.EventConsciousAccess:
			rate, ok := e.Annotations[AnnotationAccessRate].(float64)
			require.True(t, ok)
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 1.0)
		default:
			assert.NotContains(t, e.Annotations, AnnotationPhiDelta)
		}
	}
}

func TestEnhanced_InvalidOptions(t *testing.T) {
	opts := conscious.DefaultOptions()
	opts.TargetPhi = 42
	_, err := NewEnhanced(opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestEnhanced_StreamMatchesCollect(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := conscious.DefaultOptions()
	opts.MaxSteps = 2
	opts.Seed = 13
	ek, err := NewEnhanced(opts)
	require.NoError(t, err)

	var streamed []conscious.EventType
	for ev := range ek.Stream(context.Background(), "same") {
		streamed = append(streamed, ev.Type)
	}
	assert.Equal(t, eventTypes(ek.Collect(context.Background(), "same")), streamed)
}
