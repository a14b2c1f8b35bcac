// Package tools provides the tool registry and guardians the conscious tool
// system executes through. Every call is pre-checked against a security
// policy before it reaches a tool and its output is scanned afterwards.
package tools

import (
	"context"
	"time"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Names of the built-in tools.
const (
	ToolEcho         = "echo"
	ToolClock        = "clock"
	ToolMemorySearch = "memory_search"
	ToolReflect      = "reflect"
)

// ErrUnknownTool is the result error for names the registry does not know.
const ErrUnknownTool = "unknown_tool"

// RiskLevel indicates how dangerous a tool invocation is.
type RiskLevel int

const (
	RiskNone     RiskLevel = iota // Pure reads of kernel state
	RiskLow                       // Ordinary tool calls
	RiskElevated                  // Oversized input, sensitive-looking output
	RiskHigh                      // Reserved for tools with side effects
	RiskCritical                  // Disallowed tools, destructive patterns
)

// String returns the wire name of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskNone:
		return "none"
	case RiskLow:
		return "low"
	case RiskElevated:
		return "elevated"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Tool defines the interface for all registry tools.
type Tool interface {
	// Name returns the tool identifier.
	Name() string

	// Description is a one-line summary shown by listings.
	Description() string

	// Execute runs the tool. The returned value becomes ToolResult.Result.
	Execute(ctx context.Context, args map[string]any) (any, error)

	// AssessRisk evaluates the risk level of a call.
	AssessRisk(args map[string]any) RiskLevel
}

// Func adapts a plain function into a Tool.
type Func struct {
	ToolName string
	Desc     string
	Risk     RiskLevel
	Fn       func(ctx context.Context, args map[string]any) (any, error)
}

func (f *Func) Name() string { return f.ToolName }

func (f *Func) Description() string { return f.Desc }

func (f *Func) AssessRisk(map[string]any) RiskLevel { return f.Risk }

func (f *Func) Execute(ctx context.Context, args map[string]any) (any, error) {
	return f.Fn(ctx, args)
}

// SecurityPolicy defines what the guardian allows.
type SecurityPolicy struct {
	// BlockedTools are tool names that are never executed.
	BlockedTools []string `json:"blocked_tools,omitempty" yaml:"blocked_tools"`

	// BlockedPatterns are case-insensitive regex patterns matched against
	// every string argument.
	BlockedPatterns []string `json:"blocked_patterns,omitempty" yaml:"blocked_patterns"`

	// SensitivePatterns flag tool output as elevated risk.
	SensitivePatterns []string `json:"sensitive_patterns,omitempty" yaml:"sensitive_patterns"`

	// MaxArgBytes caps the JSON-encoded size of the arguments.
	MaxArgBytes int `json:"max_arg_bytes" yaml:"max_arg_bytes"`

	// MaxTimeout limits execution time.
	MaxTimeout time.Duration `json:"max_timeout,omitempty" yaml:"max_timeout"`
}

// DefaultSecurityPolicy returns the default policy.
func DefaultSecurityPolicy() *SecurityPolicy {
	return &SecurityPolicy{
		BlockedTools: []string{"shell", "bash", "exec", "eval", "sudo"},
		BlockedPatterns: []string{
			`rm\s+-rf`,
			`drop\s+table`,
			`\bmkfs\b`,
			`:\(\)\s*\{`, // Fork bomb
		},
		SensitivePatterns: []string{
			`password`,
			`secret`,
			`api[_-]?key`,
			`\btoken\b`,
			`PRIVATE KEY`,
		},
		MaxArgBytes: 2048,
		MaxTimeout:  5 * time.Second,
	}
}

// Compile-time interface checks.
var (
	_ conscious.ToolRegistry = (*Registry)(nil)
	_ conscious.Guardian     = (*Guardian)(nil)
)
