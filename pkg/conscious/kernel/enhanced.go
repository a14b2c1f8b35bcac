package kernel

import (
	"context"
	"iter"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Annotation keys added by EnhancedKernel.
const (
	AnnotationSeq        = "seq"
	AnnotationProfile    = "profile"
	AnnotationPhiDelta   = "phi_delta"
	AnnotationAccessRate = "access_rate"
	AnnotationElapsedMs  = "elapsed_ms"
)

// EnhancedKernel wraps a Kernel and annotates every event with its sequence
// number, the profile and the elapsed run time. Phi events also carry the
// change from the previous step and access events the running grant rate.
type EnhancedKernel struct {
	*Kernel
}

// NewEnhanced creates an annotating kernel.
func NewEnhanced(opts conscious.Options, options ...Option) (*EnhancedKernel, error) {
	k, err := New(opts, options...)
	if err != nil {
		return nil, err
	}
	return &EnhancedKernel{Kernel: k}, nil
}

// Run annotates the wrapped kernel's events.
func (ek *EnhancedKernel) Run(ctx context.Context, goal string, opts ...RunOption) iter.Seq[conscious.Event] {
	inner := ek.Kernel.Run(ctx, goal, opts...)
	return func(yield func(conscious.Event) bool) {
		var (
			seq       int
			lastPhi   *float64
			decisions int
			granted   int
		)
		start := ek.now()
		for ev := range inner {
			seq++
			ann := map[string]any{
				AnnotationSeq:       seq,
				AnnotationProfile:   string(ek.Profile()),
				AnnotationElapsedMs: ek.now().Sub(start).Milliseconds(),
			}
			switch ev.Type {
			case conscious.EventPhi:
				if ev.Phi != nil {
					v := ev.Phi.PhiValue
					if lastPhi != nil {
						ann[AnnotationPhiDelta] = v - *lastPhi
					} else {
						ann[AnnotationPhiDelta] = 0.0
					}
					lastPhi = &v
				}
			case conscious.EventConsciousAccess:
				decisions++
				if ev.Access != nil && ev.Access.Granted {
					granted++
				}
				ann[AnnotationAccessRate] = float64(granted) / float64(decisions)
			}
			ev.Annotations = ann
			if !yield(ev) {
				return
			}
		}
	}
}

// Stream delivers the annotated events on a channel.
func (ek *EnhancedKernel) Stream(ctx context.Context, goal string, opts ...RunOption) <-chan conscious.Event {
	return Stream(ctx, ek.Run(ctx, goal, opts...), 0)
}

// Collect drains an annotated run into a slice.
func (ek *EnhancedKernel) Collect(ctx context.Context, goal string, opts ...RunOption) []conscious.Event {
	var out []conscious.Event
	for ev := range ek.Run(ctx, goal, opts...) {
		out = append(out, ev)
	}
	return out
}
