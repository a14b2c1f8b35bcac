package modules

import (
	"context"
	"math"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// guardedExecute runs the pre-check, the registry call and the post-check.
// A blocked call never reaches the registry.
func guardedExecute(ctx context.Context, reg conscious.ToolRegistry, g conscious.Guardian, call conscious.ToolCall) (conscious.ToolOutcome, bool) {
	pre := g.PreCheckTool(call.Tool, call.Args)
	if !pre.Allow {
		return conscious.ToolOutcome{
			ToolResult: conscious.ToolResult{
				OK:    false,
				Tool:  call.Tool,
				Args:  call.Args,
				Error: "blocked: " + pre.Reason,
			},
			Blocked: true,
			Reason:  pre.Reason,
			Risk:    pre.Risk,
		}, false
	}

	res := reg.ExecuteTool(ctx, call)
	post := g.PostCheckResult(call.Tool, res)
	return conscious.ToolOutcome{
		ToolResult: res,
		Risk:       post.Risk,
		PostCheck:  &post,
	}, true
}

// BasicToolSystem executes guarded tool calls without experiential modeling.
type BasicToolSystem struct {
	registry conscious.ToolRegistry
	guardian conscious.Guardian
}

// NewBasicToolSystem creates a basic tool system.
func NewBasicToolSystem(reg conscious.ToolRegistry, g conscious.Guardian) *BasicToolSystem {
	return &BasicToolSystem{registry: reg, guardian: g}
}

func (t *BasicToolSystem) ExecuteConsciously(ctx context.Context, call conscious.ToolCall, _ conscious.ToolState) conscious.ToolOutcome {
	out, _ := guardedExecute(ctx, t.registry, t.guardian, call)
	return out
}

// ConsciousToolSystem executes guarded tool calls and reports their simulated
// consciousness impact.
type ConsciousToolSystem struct {
	registry conscious.ToolRegistry
	guardian conscious.Guardian
}

// NewConsciousToolSystem creates the enhanced tool system.
func NewConsciousToolSystem(reg conscious.ToolRegistry, g conscious.Guardian) *ConsciousToolSystem {
	return &ConsciousToolSystem{registry: reg, guardian: g}
}

// ExecuteConsciously reports phi_change = min(0.5, 0.05 + flow*0.1) and an
// experiential quality derived from peripheral richness and flow.
func (t *ConsciousToolSystem) ExecuteConsciously(ctx context.Context, call conscious.ToolCall, state conscious.ToolState) conscious.ToolOutcome {
	out, ran := guardedExecute(ctx, t.registry, t.guardian, call)
	if !ran {
		return out
	}

	flow := conscious.Clamp01(conscious.Or(state.Attention.FlowLevel, 0.5))
	richness := conscious.Clamp01(conscious.Or(state.Attention.PeripheralRichness, 0.5))

	satisfaction := conscious.Clamp01(0.3 + 0.6*flow)
	if !out.OK {
		satisfaction *= 0.5
	}

	out.PhiChange = math.Min(0.5, 0.05+flow*0.1)
	out.ExperientialQuality = &conscious.ExperientialQuality{
		PhenomenalRichness:     conscious.Clamp01(0.4 + 0.5*richness),
		SubjectiveSatisfaction: satisfaction,
	}
	return out
}
