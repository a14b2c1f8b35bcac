package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
)

const defaultSearchLimit = 5

// EpisodeSearcher is the slice of the episodic store memory_search needs.
type EpisodeSearcher interface {
	Query(f memory.Filter) []memory.Episode
}

// BuiltinDeps are the collaborators of the built-in tools. Nil fields
// disable the tools that need them.
type BuiltinDeps struct {
	Memory EpisodeSearcher
	Meta   conscious.MetaCognition
	Now    func() time.Time
}

// RegisterBuiltins adds echo, clock and, when their dependencies are
// present, memory_search and reflect.
func RegisterBuiltins(r *Registry, deps BuiltinDeps) error {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	builtins := []Tool{
		&Func{ToolName: ToolEcho, Desc: "Return the arguments unchanged", Risk: RiskNone, Fn: echo},
		&Func{ToolName: ToolClock, Desc: "Report the current time", Risk: RiskNone, Fn: clock(now)},
	}
	if deps.Memory != nil {
		builtins = append(builtins, &Func{
			ToolName: ToolMemorySearch,
			Desc:     "Search stored experiences by text",
			Risk:     RiskNone,
			Fn:       memorySearch(deps.Memory),
		})
	}
	if deps.Meta != nil {
		builtins = append(builtins, &Func{
			ToolName: ToolReflect,
			Desc:     "Check statements for contradictions",
			Risk:     RiskNone,
			Fn:       reflectStatements(deps.Meta),
		})
	}

	var errs []error
	for _, t := range builtins {
		if err := r.Register(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func echo(_ context.Context, args map[string]any) (any, error) {
	if text, ok := args["text"]; ok {
		return text, nil
	}
	return args, nil
}

func clock(now func() time.Time) func(context.Context, map[string]any) (any, error) {
	return func(context.Context, map[string]any) (any, error) {
		t := now().UTC()
		return map[string]any{
			"now":     t.Format(time.RFC3339Nano),
			"unix_ms": t.UnixMilli(),
		}, nil
	}
}

func memorySearch(store EpisodeSearcher) func(context.Context, map[string]any) (any, error) {
	return func(ctx context.Context, args map[string]any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		query, _ := args["query"].(string)
		limit := intArg(args, "limit", defaultSearchLimit)

		eps := store.Query(memory.Filter{Text: query, Limit: limit})
		hits := make([]map[string]any, 0, len(eps))
		for _, ep := range eps {
			hits = append(hits, map[string]any{
				"id":           ep.Experience.ID,
				"main_content": ep.Experience.MainContent,
				"phi_level":    ep.Experience.PhiLevel,
				"retrievals":   ep.RetrievalCount,
			})
		}
		return map[string]any{"query": query, "count": len(hits), "hits": hits}, nil
	}
}

func reflectStatements(meta conscious.MetaCognition) func(context.Context, map[string]any) (any, error) {
	return func(_ context.Context, args map[string]any) (any, error) {
		var statements []string
		switch v := args["statements"].(type) {
		case []string:
			statements = v
		case []any:
			for _, s := range v {
				if str, ok := s.(string); ok {
					statements = append(statements, str)
				}
			}
		case nil:
		default:
			return nil, fmt.Errorf("statements must be a list of strings, got %T", v)
		}
		goal, _ := args["goal"].(string)
		return meta.Reflect(conscious.ReflectionInput{Goal: goal, Statements: statements}), nil
	}
}

// intArg reads an integer argument that may arrive as any JSON number type.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}
