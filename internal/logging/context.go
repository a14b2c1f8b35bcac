package logging

import (
	"context"
	"time"
)

// DetachContext creates a context that won't be cancelled when parent is.
//
// Fire-and-forget experience writes use it so they can finish after the run
// that produced them has been cancelled.
func DetachContext(parent context.Context) context.Context {
	return context.WithoutCancel(parent)
}

// DetachContextWithTimeout creates a detached context with its own timeout.
// The write keeps its own deadline regardless of the parent's cancellation.
//
//	pctx, cancel := logging.DetachContextWithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	err := persister.PersistExperience(pctx, rec)
func DetachContextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(parent)
	return context.WithTimeout(detached, timeout)
}
