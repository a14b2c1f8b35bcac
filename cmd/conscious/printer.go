package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/dream"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/theme"
)

// ═══════════════════════════════════════════════════════════════════════════════
// EVENT PRINTER
// ═══════════════════════════════════════════════════════════════════════════════

// printer renders kernel events as one styled line each.
type printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	palette  theme.Palette

	label lipgloss.Style
	muted lipgloss.Style
	panel lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
}

func newPrinter(out io.Writer, themeID string, noColor bool) *printer {
	r := lipgloss.NewRenderer(out)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	p := theme.Get(themeID)
	return &printer{
		out:      out,
		renderer: r,
		palette:  p,
		label:    r.NewStyle().Bold(true).Width(22),
		muted:    r.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		good: r.NewStyle().Foreground(lipgloss.Color(p.Success)),
		bad:  r.NewStyle().Foreground(lipgloss.Color(p.Error)),
	}
}

// Print writes one event.
func (p *printer) Print(e conscious.Event) {
	if e.Type == conscious.EventRunEnd && e.Summary != nil {
		fmt.Fprintln(p.out, p.panel.Render(p.summary(e)))
		return
	}
	step := "      "
	if e.Step > 0 {
		step = fmt.Sprintf("[%3d]", e.Step)
	}
	tag := p.label.Foreground(lipgloss.Color(p.palette.EventColor(e.Type))).Render(string(e.Type))
	fmt.Fprintf(p.out, "%s %s %s\n", p.muted.Render(step), tag, p.describe(e))
}

// describe renders the payload of e as a compact key=value list.
func (p *printer) describe(e conscious.Event) string {
	switch e.Type {
	case conscious.EventRunStart:
		return fmt.Sprintf("goal=%q run=%s", e.Goal, e.RunID)
	case conscious.EventPerception:
		if e.Perception == nil {
			return ""
		}
		s := fmt.Sprintf("novelty=%.2f snapshot=%q", e.Perception.Novelty, truncate(e.Perception.Snapshot, 48))
		if em := e.Perception.Emotion; em != nil {
			s += fmt.Sprintf(" emotion=%s(%.2f)", em.Primary, em.Intensity)
		}
		return s
	case conscious.EventAttention:
		if e.Attention == nil {
			return ""
		}
		return fmt.Sprintf("strength=%.2f coherence=%.2f focus=%q",
			e.Attention.AttentionStrength, e.Attention.BindingCoherence, truncate(e.Attention.FocusedContent, 40))
	case conscious.EventSalience:
		if e.Salience == nil {
			return ""
		}
		return fmt.Sprintf("total=%.2f confidence=%.2f", e.Salience.TotalSalience, e.Salience.Confidence)
	case conscious.EventProposals:
		parts := make([]string, 0, len(e.Proposals))
		for _, pr := range e.Proposals {
			parts = append(parts, fmt.Sprintf("%s(%.2f)", truncate(pr.Summary, 32), pr.Confidence))
		}
		return strings.Join(parts, ", ")
	case conscious.EventPhi:
		if e.Phi == nil {
			return ""
		}
		s := fmt.Sprintf("phi=%.3f method=%s", e.Phi.PhiValue, e.Phi.Method)
		if e.PredictionError != nil {
			s += fmt.Sprintf(" prediction_error=%.3f", *e.PredictionError)
		}
		return s
	case conscious.EventConsciousAccess:
		if e.Access == nil {
			return ""
		}
		verdict := p.bad.Render("denied")
		if e.Access.Granted {
			verdict = p.good.Render("granted")
		}
		return fmt.Sprintf("%s phi=%.3f target=%.2f attention=%.2f",
			verdict, e.Access.PhiValue, e.Access.TargetPhi, e.Access.AttentionStrength)
	case conscious.EventBroadcast:
		if e.Broadcast == nil {
			return ""
		}
		return fmt.Sprintf("to=%s content=%q", strings.Join(e.Broadcast.Recipients, ","), truncate(e.Broadcast.Content, 40))
	case conscious.EventEthics:
		if e.Ethics == nil {
			return ""
		}
		return fmt.Sprintf("score=%.2f action=%s", e.Ethics.OverallScore, e.Ethics.RecommendedAction)
	case conscious.EventExperience:
		if e.Experience == nil {
			return ""
		}
		return fmt.Sprintf("id=%s phi=%.3f qualia=%d", e.Experience.ID, e.Experience.PhiLevel, e.Experience.QualiaCount)
	case conscious.EventLearning:
		if e.Learning == nil {
			return ""
		}
		var parts []string
		if e.Learning.SalienceWeights != nil {
			parts = append(parts, fmt.Sprintf("relevance=%.3f", e.Learning.SalienceWeights.Relevance))
		}
		if r := e.Learning.Reflection; r != nil {
			parts = append(parts, fmt.Sprintf("insights=%d contradictions=%d", len(r.Insights), len(r.Contradictions)))
		}
		return strings.Join(parts, " ")
	case conscious.EventStability:
		if e.Stability == nil {
			return ""
		}
		return fmt.Sprintf("score=%.2f risk=%s", e.Stability.StabilityScore, e.Stability.RiskLevel)
	case conscious.EventAction:
		if e.Action == nil {
			return ""
		}
		return fmt.Sprintf("confidence=%.2f %q", e.Action.Confidence, truncate(e.Action.Summary, 48))
	case conscious.EventTool:
		if e.Tool == nil {
			return ""
		}
		switch {
		case e.Tool.Blocked:
			return p.bad.Render(fmt.Sprintf("%s blocked: %s", e.Tool.Tool, e.Tool.Reason))
		case !e.Tool.OK:
			return p.bad.Render(fmt.Sprintf("%s failed: %s", e.Tool.Tool, e.Tool.Error))
		default:
			return p.good.Render(fmt.Sprintf("%s ok", e.Tool.Tool)) + fmt.Sprintf(" %dms phi_change=%+.3f", e.Tool.DurationMs, e.Tool.PhiChange)
		}
	case conscious.EventCIPSCoalitions:
		return fmt.Sprintf("count=%d", len(e.Coalitions))
	case conscious.EventCIPSWinner:
		if e.Winner == nil {
			return ""
		}
		return fmt.Sprintf("winner=%s score=%.3f", e.Winner.Coalition.ID, e.Winner.Score)
	case conscious.EventCIPSQualia:
		if e.Qualia == nil {
			return ""
		}
		return fmt.Sprintf("count=%d intensity=%.2f valence=%+.2f", e.Qualia.Count, e.Qualia.Intensity, e.Qualia.Valence)
	case conscious.EventCIPSBroadcast:
		if e.Broadcast == nil {
			return ""
		}
		return fmt.Sprintf("content=%q", truncate(e.Broadcast.Content, 40))
	case conscious.EventCIPSPrediction:
		if e.Prediction == nil {
			return ""
		}
		return fmt.Sprintf("predicted=%.3f observed=%.3f error=%.3f belief=%.3f",
			e.Prediction.Predicted, e.Prediction.Observed, e.Prediction.Error, e.Prediction.Belief)
	case conscious.EventCIPSSelfModel:
		if e.SelfModel == nil {
			return ""
		}
		return fmt.Sprintf("confidence=%.3f samples=%d", e.SelfModel.Confidence, e.SelfModel.Samples)
	case conscious.EventCIPSEvolution:
		if e.Evolution == nil {
			return ""
		}
		return fmt.Sprintf("proposals=%d accepted=%d applied=%t",
			len(e.Evolution.Proposals), len(e.Evolution.Accepted), e.Evolution.Applied)
	case conscious.EventCIPSWeights:
		if e.Weights == nil {
			return ""
		}
		return formatWeights(*e.Weights)
	}
	return ""
}

func (p *printer) summary(e conscious.Event) string {
	s := e.Summary
	lines := []string{
		p.label.UnsetWidth().Foreground(lipgloss.Color(p.palette.Primary)).Render("run complete") + " " + p.muted.Render(e.RunID),
		fmt.Sprintf("steps %d  experiences %d  access %d  mean phi %.3f", s.Steps, s.Experiences, s.AccessCount, s.MeanPhi),
		"weights " + formatWeights(s.Weights),
	}
	if s.Belief != nil {
		lines = append(lines, fmt.Sprintf("belief %.3f", *s.Belief))
	}
	lines = append(lines, fmt.Sprintf("duration %dms", s.DurationMs))
	return strings.Join(lines, "\n")
}

// PrintDream writes a dream report panel.
func (p *printer) PrintDream(r dream.Report) {
	lines := []string{
		p.label.UnsetWidth().Foreground(lipgloss.Color(p.palette.GetAccent2())).Render("dream") +
			fmt.Sprintf(" %dms, %d memories consolidated", r.DurationMs, r.MemoriesConsolidated),
	}
	for _, insight := range r.CreativeInsights {
		lines = append(lines, "• "+insight)
	}
	for _, note := range r.Notes {
		lines = append(lines, p.muted.Render(note))
	}
	fmt.Fprintln(p.out, p.panel.Render(strings.Join(lines, "\n")))
}

func formatWeights(w conscious.PhiWeights) string {
	return fmt.Sprintf("gwt=%.3f causal=%.3f pp=%.3f", w.GWT, w.Causal, w.PP)
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
