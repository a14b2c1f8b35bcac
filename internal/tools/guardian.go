package tools

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// Guardian pre-checks tool calls against a SecurityPolicy and scans tool
// output for sensitive-looking text. Both checks are pure. The output scan is
// pattern matching only and is not a security boundary.
type Guardian struct {
	policy *SecurityPolicy

	// Compiled patterns
	blocked   []*regexp.Regexp
	sensitive []*regexp.Regexp
}

// NewGuardian creates a guardian. A nil policy selects DefaultSecurityPolicy.
// Patterns that fail to compile are skipped.
func NewGuardian(policy *SecurityPolicy) *Guardian {
	if policy == nil {
		policy = DefaultSecurityPolicy()
	}
	return &Guardian{
		policy:    policy,
		blocked:   compileAll(policy.BlockedPatterns),
		sensitive: compileAll(policy.SensitivePatterns),
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		if re, err := regexp.Compile("(?i)" + p); err == nil {
			out = append(out, re)
		}
	}
	return out
}

// Policy returns the guardian's policy.
func (g *Guardian) Policy() *SecurityPolicy {
	return g.policy
}

// PreCheckTool decides whether a call may run.
func (g *Guardian) PreCheckTool(tool string, args map[string]any) conscious.PreCheck {
	if slices.Contains(g.policy.BlockedTools, strings.ToLower(tool)) {
		return conscious.PreCheck{Reason: "tool_not_allowed:" + tool, Risk: RiskCritical.String()}
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return conscious.PreCheck{Reason: "args_unserializable", Risk: RiskElevated.String()}
	}
	if g.policy.MaxArgBytes > 0 && len(raw) > g.policy.MaxArgBytes {
		return conscious.PreCheck{
			Reason: fmt.Sprintf("args_too_large:%d>%d", len(raw), g.policy.MaxArgBytes),
			Risk:   RiskElevated.String(),
		}
	}

	for _, s := range stringValues(args) {
		for _, re := range g.blocked {
			if re.MatchString(s) {
				return conscious.PreCheck{Reason: "blocked_pattern:" + re.String(), Risk: RiskCritical.String()}
			}
		}
	}

	return conscious.PreCheck{Allow: true, Risk: RiskLow.String()}
}

// PostCheckResult flags results whose output looks sensitive.
func (g *Guardian) PostCheckResult(tool string, result conscious.ToolResult) conscious.PostCheck {
	check := conscious.PostCheck{Safe: true, Risk: RiskLow.String()}
	if !result.OK && result.Error != "" {
		check.Notes = append(check.Notes, "tool_error:"+result.Error)
	}

	text := outputText(result.Result)
	for _, re := range g.sensitive {
		if m := re.FindString(text); m != "" {
			check.Safe = false
			check.Risk = RiskElevated.String()
			check.Notes = append(check.Notes, "sensitive:"+strings.ToLower(m))
		}
	}
	return check
}

// stringValues collects every string reachable from v.
func stringValues(v any) []string {
	var out []string
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case map[string]any:
			for _, e := range t {
				walk(e)
			}
		case []any:
			for _, e := range t {
				walk(e)
			}
		case []string:
			out = append(out, t...)
		}
	}
	walk(v)
	return out
}

func outputText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
