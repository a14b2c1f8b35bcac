package modules

import (
	"context"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Set is the subsystem bundle a kernel runs with. Emotion is nil for the
// basic profile.
type Set struct {
	Profile   conscious.Profile
	Attention conscious.AttentionSystem
	Salience  conscious.SalienceEngine
	Phi       conscious.PhiCalculator
	Emotion   conscious.EmotionSynthesizer
	Ethics    conscious.EthicsSystem
	Tools     conscious.ToolSystem
	Stability conscious.StabilityMonitor
	Meta      conscious.MetaCognition
}

// Deps are the external collaborators of the tool system.
type Deps struct {
	Registry conscious.ToolRegistry
	Guardian conscious.Guardian
}

// Resolve builds the subsystem set for a profile. Unknown profiles resolve to
// the enhanced set. Missing deps fall back to a registry that knows no tools
// and a guardian that allows everything.
func Resolve(profile conscious.Profile, deps Deps) Set {
	reg := deps.Registry
	if reg == nil {
		reg = emptyRegistry{}
	}
	g := deps.Guardian
	if g == nil {
		g = openGuardian{}
	}

	if profile == conscious.ProfileBasic {
		return Set{
			Profile:   conscious.ProfileBasic,
			Attention: NewBasicAttention(),
			Salience:  NewBasicSalience(),
			Phi:       NewHeuristicPhi(),
			Ethics:    NewBasicEthics(),
			Tools:     NewBasicToolSystem(reg, g),
			Stability: NewBasicStability(),
			Meta:      NewBasicMetaCognition(),
		}
	}

	return Set{
		Profile:   conscious.ProfileEnhanced,
		Attention: NewEnhancedAttention(),
		Salience:  NewSalienceEngine(),
		Phi:       NewWeightedPhi(),
		Emotion:   NewEmotionSynthesizer(),
		Ethics:    NewIntegratedEthics(),
		Tools:     NewConsciousToolSystem(reg, g),
		Stability: NewStabilityMonitor(),
		Meta:      NewMetaCognition(),
	}
}

type emptyRegistry struct{}

func (emptyRegistry) ExecuteTool(_ context.Context, call conscious.ToolCall) conscious.ToolResult {
	return conscious.ToolResult{Tool: call.Tool, Args: call.Args, Error: "unknown_tool"}
}

type openGuardian struct{}

func (openGuardian) PreCheckTool(string, map[string]any) conscious.PreCheck {
	return conscious.PreCheck{Allow: true, Risk: "low"}
}

func (openGuardian) PostCheckResult(string, conscious.ToolResult) conscious.PostCheck {
	return conscious.PostCheck{Safe: true, Risk: "low"}
}
