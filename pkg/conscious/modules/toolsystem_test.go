package modules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mukesh1q2/Brahm-sub001/internal/tools"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

type countingRegistry struct {
	calls int
	inner conscious.ToolRegistry
}

func (c *countingRegistry) ExecuteTool(ctx context.Context, call conscious.ToolCall) conscious.ToolResult {
	c.calls++
	return c.inner.ExecuteTool(ctx, call)
}

func newToolDeps(t *testing.T) (*countingRegistry, *tools.Guardian) {
	t.Helper()
	reg := tools.NewRegistry()
	require.NoError(t, tools.RegisterBuiltins(reg, tools.BuiltinDeps{}))
	return &countingRegistry{inner: reg}, tools.NewGuardian(nil)
}

func TestConsciousToolSystem_BlocksShellBeforeExecution(t *testing.T) {
	reg, g := newToolDeps(t)
	ts := NewConsciousToolSystem(reg, g)

	out := ts.ExecuteConsciously(context.Background(), conscious.ToolCall{
		Tool: "shell",
		Args: map[string]any{"cmd": "rm -rf /"},
	}, conscious.ToolState{})

	assert.False(t, out.OK)
	assert.True(t, out.Blocked)
	assert.NotEmpty(t, out.Reason)
	assert.Equal(t, "critical", out.Risk)
	assert.Zero(t, reg.calls, "a blocked call never reaches the registry")
	assert.Nil(t, out.ExperientialQuality)
}

func TestConsciousToolSystem_Executes(t *testing.T) {
	reg, g := newToolDeps(t)
	ts := NewConsciousToolSystem(reg, g)

	state := conscious.ToolState{Attention: conscious.AttentionState{
		FlowLevel:          conscious.Ptr(1.0),
		PeripheralRichness: conscious.Ptr(1.0),
	}}
	out := ts.ExecuteConsciously(context.Background(), conscious.ToolCall{
		Tool: tools.ToolEcho,
		Args: map[string]any{"text": "hello"},
	}, state)

	require.True(t, out.OK)
	assert.Equal(t, "hello", out.Result)
	assert.Equal(t, 1, reg.calls)
	assert.InDelta(t, 0.15, out.PhiChange, 1e-9)
	require.NotNil(t, out.ExperientialQuality)
	assert.InDelta(t, 0.9, out.ExperientialQuality.PhenomenalRichness, 1e-9)
	assert.InDelta(t, 0.9, out.ExperientialQuality.SubjectiveSatisfaction, 1e-9)
	require.NotNil(t, out.PostCheck)
	assert.True(t, out.PostCheck.Safe)
}

func TestConsciousToolSystem_UnknownTool(t *testing.T) {
	reg, g := newToolDeps(t)
	ts := NewConsciousToolSystem(reg, g)

	out := ts.ExecuteConsciously(context.Background(), conscious.ToolCall{Tool: "nope"}, conscious.ToolState{})
	assert.False(t, out.OK)
	assert.False(t, out.Blocked)
	assert.Equal(t, tools.ErrUnknownTool, out.Error)
	require.NotNil(t, out.ExperientialQuality)
	assert.InDelta(t, 0.3, out.ExperientialQuality.SubjectiveSatisfaction, 1e-9, "failed calls halve satisfaction")
}

func TestBasicToolSystem(t *testing.T) {
	reg, g := newToolDeps(t)
	ts := NewBasicToolSystem(reg, g)

	out := ts.ExecuteConsciously(context.Background(), conscious.ToolCall{Tool: tools.ToolClock}, conscious.ToolState{})
	assert.True(t, out.OK)
	assert.Zero(t, out.PhiChange)
	assert.Nil(t, out.ExperientialQuality)

	blocked := ts.ExecuteConsciously(context.Background(), conscious.ToolCall{Tool: "sudo"}, conscious.ToolState{})
	assert.True(t, blocked.Blocked)
}

func TestResolve(t *testing.T) {
	basic := Resolve(conscious.ProfileBasic, Deps{})
	assert.Equal(t, conscious.ProfileBasic, basic.Profile)
	assert.Nil(t, basic.Emotion)
	assert.IsType(t, &HeuristicPhi{}, basic.Phi)
	assert.IsType(t, &BasicAttention{}, basic.Attention)

	enhanced := Resolve(conscious.ProfileEnhanced, Deps{})
	assert.Equal(t, conscious.ProfileEnhanced, enhanced.Profile)
	assert.NotNil(t, enhanced.Emotion)
	assert.IsType(t, &WeightedPhi{}, enhanced.Phi)
	assert.IsType(t, &ConsciousToolSystem{}, enhanced.Tools)

	unknown := Resolve(conscious.Profile("quantum"), Deps{})
	assert.Equal(t, conscious.ProfileEnhanced, unknown.Profile)

	// Without deps every tool is unknown but still allowed through.
	out := enhanced.Tools.ExecuteConsciously(context.Background(), conscious.ToolCall{Tool: "echo"}, conscious.ToolState{})
	assert.False(t, out.OK)
	assert.Equal(t, "unknown_tool", out.Error)
}
