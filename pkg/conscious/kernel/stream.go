package kernel

import (
	"context"
	"iter"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Stream adapts an event sequence to a channel. The channel is closed when
// the sequence ends or ctx is cancelled; cancelling ctx is the only way to
// release the producing goroutine early.
func Stream(ctx context.Context, seq iter.Seq[conscious.Event], buffer int) <-chan conscious.Event {
	ch := make(chan conscious.Event, max(buffer, 0))
	go func() {
		defer close(ch)
		for ev := range seq {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Stream runs goal and delivers its events on a channel.
func (k *Kernel) Stream(ctx context.Context, goal string, opts ...RunOption) <-chan conscious.Event {
	return Stream(ctx, k.Run(ctx, goal, opts...), 0)
}

// Collect drains a run into a slice.
func (k *Kernel) Collect(ctx context.Context, goal string, opts ...RunOption) []conscious.Event {
	var out []conscious.Event
	for ev := range k.Run(ctx, goal, opts...) {
		out = append(out, ev)
	}
	return out
}
