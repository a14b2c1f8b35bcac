// Package kernel runs the Conscious Kernel: a cooperative, seedable event
// generator that drives the subsystems of one profile through a fixed
// per-step pipeline. Each Run owns its phi weights, belief state and PRNG;
// runs share nothing mutable except the episodic store handed to the kernel.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Mukesh1q2/Brahm-sub001/internal/logging"
	"github.com/Mukesh1q2/Brahm-sub001/internal/tools"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/cips"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/modules"
)

// DefaultPersistTimeout bounds one fire-and-forget persistence write.
const DefaultPersistTimeout = 5 * time.Second

// ErrInvalidOptions wraps option validation failures from New.
var ErrInvalidOptions = errors.New("invalid kernel options")

// Kernel orchestrates the subsystems. A Kernel may start many runs, even
// concurrently; each run builds fresh per-run state.
type Kernel struct {
	opts conscious.Options
	mods modules.Set
	log  zerolog.Logger

	memory    *memory.Store
	persister conscious.Persister
	registry  conscious.ToolRegistry
	guardian  conscious.Guardian
	observe   cips.ObserveFunc
	override  *modules.Set

	now            func() time.Time
	newID          func() string
	persistTimeout time.Duration

	// Outstanding persistence writes.
	pending sync.WaitGroup
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the kernel logger.
func WithLogger(log zerolog.Logger) Option {
	return func(k *Kernel) { k.log = log }
}

// WithMemory shares an episodic store with the kernel. Without it the kernel
// creates its own.
func WithMemory(store *memory.Store) Option {
	return func(k *Kernel) { k.memory = store }
}

// WithPersister mirrors stored experiences to external storage.
func WithPersister(p conscious.Persister) Option {
	return func(k *Kernel) { k.persister = p }
}

// WithPersistTimeout bounds each persistence write.
func WithPersistTimeout(d time.Duration) Option {
	return func(k *Kernel) {
		if d > 0 {
			k.persistTimeout = d
		}
	}
}

// WithRegistry sets the tool registry. Without it the kernel registers the
// built-in tools against its own store.
func WithRegistry(r conscious.ToolRegistry) Option {
	return func(k *Kernel) { k.registry = r }
}

// WithGuardian sets the tool guardian. Without it the default security
// policy applies.
func WithGuardian(g conscious.Guardian) Option {
	return func(k *Kernel) { k.guardian = g }
}

// WithObservation replaces the active-inference observation source. By
// default observations are drawn from the run's PRNG.
func WithObservation(fn func() float64) Option {
	return func(k *Kernel) { k.observe = fn }
}

// WithModules replaces the profile's subsystem set. Nil fields keep the
// resolved implementation.
func WithModules(set modules.Set) Option {
	return func(k *Kernel) { k.override = &set }
}

// WithClock overrides the kernel clock.
func WithClock(now func() time.Time) Option {
	return func(k *Kernel) { k.now = now }
}

// WithIDGenerator overrides how run, proposal and experience ids are made.
func WithIDGenerator(fn func() string) Option {
	return func(k *Kernel) { k.newID = fn }
}

// New creates a kernel. Unset options take their defaults before
// validation: nil toggles are enabled, zero MaxSteps and TargetPhi use the
// defaults. A negative or non-finite value is rejected.
func New(opts conscious.Options, options ...Option) (*Kernel, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	k := &Kernel{
		opts:           opts,
		log:            zerolog.Nop(),
		now:            time.Now,
		newID:          uuid.NewString,
		persistTimeout: DefaultPersistTimeout,
	}
	for _, opt := range options {
		opt(k)
	}

	if k.memory == nil {
		k.memory = memory.NewStore()
	}
	if k.guardian == nil {
		k.guardian = tools.NewGuardian(nil)
	}
	if k.registry == nil {
		reg := tools.NewRegistry(tools.WithLogger(logging.Component(k.log, "tools")))
		if err := tools.RegisterBuiltins(reg, tools.BuiltinDeps{Memory: k.memory, Meta: modules.NewMetaCognition(), Now: k.now}); err != nil {
			return nil, fmt.Errorf("register builtin tools: %w", err)
		}
		k.registry = reg
	}

	k.mods = modules.Resolve(opts.ModuleProfile, modules.Deps{Registry: k.registry, Guardian: k.guardian})
	if k.override != nil {
		k.mods = merge(k.mods, *k.override)
	}

	k.log.Debug().
		Str("profile", string(opts.ModuleProfile)).
		Int("max_steps", opts.MaxSteps).
		Bool("cips", opts.EnableCIPS).
		Msg("kernel initialized")
	return k, nil
}

func merge(base, over modules.Set) modules.Set {
	if over.Attention != nil {
		base.Attention = over.Attention
	}
	if over.Salience != nil {
		base.Salience = over.Salience
	}
	if over.Phi != nil {
		base.Phi = over.Phi
	}
	if over.Emotion != nil {
		base.Emotion = over.Emotion
	}
	if over.Ethics != nil {
		base.Ethics = over.Ethics
	}
	if over.Tools != nil {
		base.Tools = over.Tools
	}
	if over.Stability != nil {
		base.Stability = over.Stability
	}
	if over.Meta != nil {
		base.Meta = over.Meta
	}
	return base
}

// Options returns the effective options.
func (k *Kernel) Options() conscious.Options {
	return k.opts
}

// Profile returns the resolved subsystem profile.
func (k *Kernel) Profile() conscious.Profile {
	return k.mods.Profile
}

// Memory returns the kernel's episodic store.
func (k *Kernel) Memory() *memory.Store {
	return k.memory
}

// Flush waits for outstanding persistence writes.
func (k *Kernel) Flush() {
	k.pending.Wait()
}

// Close flushes outstanding writes. The kernel remains usable.
func (k *Kernel) Close() error {
	k.Flush()
	return nil
}

// persist mirrors rec in the background. Failures are logged and dropped.
func (k *Kernel) persist(ctx context.Context, rec conscious.ExperienceRecord) {
	if k.persister == nil {
		return
	}
	k.pending.Add(1)
	go func() {
		defer k.pending.Done()
		defer func() {
			if p := recover(); p != nil {
				k.log.Debug().Interface("panic", p).Str("experience", rec.Experience.ID).Msg("persister panicked")
			}
		}()

		pctx, cancel := logging.DetachContextWithTimeout(ctx, k.persistTimeout)
		defer cancel()
		if err := k.persister.PersistExperience(pctx, rec); err != nil {
			k.log.Debug().Err(err).Str("experience", rec.Experience.ID).Msg("experience persistence failed")
		}
	}()
}

// guard runs fn and returns fallback if it panics.
func guard[T any](k *Kernel, subsystem string, fallback T, fn func() T) (out T) {
	defer func() {
		if p := recover(); p != nil {
			k.log.Warn().Str("subsystem", subsystem).Interface("panic", p).Msg("subsystem failed, using fallback")
			out = fallback
		}
	}()
	return fn()
}

// Runner is the run surface shared by Kernel and EnhancedKernel.
type Runner interface {
	Run(ctx context.Context, goal string, opts ...RunOption) iter.Seq[conscious.Event]
	Profile() conscious.Profile
	Flush()
}

var (
	_ Runner = (*Kernel)(nil)
	_ Runner = (*EnhancedKernel)(nil)
)
