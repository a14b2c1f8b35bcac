package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Registry holds named tools and executes them with a timeout. It never
// panics on bad input: unknown tools and tool failures come back as
// ToolResult values with OK=false.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time

	// Statistics
	stats RegistryStats
}

// RegistryStats tracks tool execution metrics.
type RegistryStats struct {
	TotalExecutions int64
	SuccessCount    int64
	FailureCount    int64
	UnknownCount    int64
	TotalDuration   time.Duration

	mu sync.Mutex
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithTimeout sets the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(log zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// WithClock overrides the registry's clock.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools:   make(map[string]Tool),
		timeout: DefaultSecurityPolicy().MaxTimeout,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = tool
	return nil
}

// GetTool returns a registered tool by name.
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecuteTool runs a call and reports the outcome as a ToolResult.
func (r *Registry) ExecuteTool(ctx context.Context, call conscious.ToolCall) (res conscious.ToolResult) {
	start := r.now()
	res = conscious.ToolResult{Tool: call.Tool, Args: call.Args}

	tool, ok := r.GetTool(call.Tool)
	if !ok {
		r.stats.mu.Lock()
		r.stats.UnknownCount++
		r.stats.mu.Unlock()

		res.Error = ErrUnknownTool
		return res
	}

	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.stats.mu.Lock()
	r.stats.TotalExecutions++
	r.stats.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			r.log.Warn().Str("tool", call.Tool).Interface("panic", p).Msg("tool panicked")
			res.OK = false
			res.Result = nil
			res.Error = fmt.Sprintf("tool_panic: %v", p)
		}
		elapsed := r.now().Sub(start)
		res.DurationMs = elapsed.Milliseconds()

		r.stats.mu.Lock()
		r.stats.TotalDuration += elapsed
		if res.OK {
			r.stats.SuccessCount++
		} else {
			r.stats.FailureCount++
		}
		r.stats.mu.Unlock()
	}()

	out, err := tool.Execute(execCtx, call.Args)
	if err == nil && execCtx.Err() != nil {
		err = execCtx.Err()
	}
	if err != nil {
		r.log.Debug().Str("tool", call.Tool).Err(err).Msg("tool failed")
		res.Error = err.Error()
		return res
	}

	res.OK = true
	res.Result = out
	return res
}

// Stats returns execution statistics.
func (r *Registry) Stats() RegistryStats {
	r.stats.mu.Lock()
	defer r.stats.mu.Unlock()

	return RegistryStats{
		TotalExecutions: r.stats.TotalExecutions,
		SuccessCount:    r.stats.SuccessCount,
		FailureCount:    r.stats.FailureCount,
		UnknownCount:    r.stats.UnknownCount,
		TotalDuration:   r.stats.TotalDuration,
	}
}

// SuccessRate returns the success rate as a percentage.
func (s *RegistryStats) SuccessRate() float64 {
	if s.TotalExecutions == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.TotalExecutions) * 100
}
