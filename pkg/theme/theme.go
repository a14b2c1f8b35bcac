// Package theme provides the color palettes the conscious CLI renders kernel
// events with. Colors are hex codes interpreted by lipgloss.
package theme

import (
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// ═══════════════════════════════════════════════════════════════════════════════
// PALETTE DEFINITION
// ═══════════════════════════════════════════════════════════════════════════════

// Palette defines the semantic colors of one theme.
type Palette struct {
	Name string `json:"name"` // Human-readable name (e.g., "Midnight")
	ID   string `json:"id"`   // Machine ID (e.g., "midnight")
	Type string `json:"type"` // "light" or "dark"

	Foreground string `json:"foreground"` // Primary text
	Border     string `json:"border"`     // Panel borders

	Primary   string `json:"primary"`   // Run lifecycle and headings
	Secondary string `json:"secondary"` // Perception and context
	Success   string `json:"success"`   // Granted access, successful tools
	Warning   string `json:"warning"`   // Elevated risk, denied access
	Error     string `json:"error"`     // Blocked tools, critical risk
	Muted     string `json:"muted"`     // Timestamps and step labels

	Accent  string `json:"accent"`            // Phi and integration
	Accent2 string `json:"accent2,omitempty"` // CIPS events
}

// IsDark returns true if this is a dark theme.
func (p Palette) IsDark() bool {
	return p.Type == "dark"
}

// GetAccent2 returns the CIPS color, falling back to Accent.
func (p Palette) GetAccent2() string {
	if p.Accent2 != "" {
		return p.Accent2
	}
	return p.Accent
}

// EventColor picks the palette color an event tag is rendered in.
func (p Palette) EventColor(t conscious.EventType) string {
	if t.IsCIPS() {
		return p.GetAccent2()
	}
	switch t {
	case conscious.EventRunStart, conscious.EventRunEnd:
		return p.Primary
	case conscious.EventPerception, conscious.EventAttention, conscious.EventSalience:
		return p.Secondary
	case conscious.EventPhi, conscious.EventConsciousAccess:
		return p.Accent
	case conscious.EventBroadcast, conscious.EventExperience, conscious.EventLearning:
		return p.Success
	case conscious.EventEthics, conscious.EventStability:
		return p.Warning
	case conscious.EventAction, conscious.EventTool:
		return p.Foreground
	default:
		return p.Muted
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// THEME REGISTRY
// ═══════════════════════════════════════════════════════════════════════════════

// Registry holds all available themes.
var Registry = map[string]Palette{
	// Midnight - Clean dark theme with blue accent
	"midnight": {
		Name:       "Midnight",
		ID:         "midnight",
		Type:       "dark",
		Foreground: "#e6edf3",
		Border:     "#30363d",
		Primary:    "#58a6ff",
		Secondary:  "#8b949e",
		Success:    "#3fb950",
		Warning:    "#d29922",
		Error:      "#f85149",
		Muted:      "#484f58",
		Accent:     "#d2a8ff",
		Accent2:    "#79c0ff",
	},

	// Neon - Cyberpunk multicolor theme (cyan/magenta/yellow)
	"neon": {
		Name:       "Neon",
		ID:         "neon",
		Type:       "dark",
		Foreground: "#e0f7ff",
		Border:     "#00fff5",
		Primary:    "#00fff5",
		Secondary:  "#8892b0",
		Success:    "#00ff88",
		Warning:    "#ffd93d",
		Error:      "#ff2e63",
		Muted:      "#4a5568",
		Accent:     "#ff00ff",
		Accent2:    "#ffff00",
	},

	// Paper - Warm light theme
	"paper": {
		Name:       "Paper",
		ID:         "paper",
		Type:       "light",
		Foreground: "#24292f",
		Border:     "#d0d7de",
		Primary:    "#0969da",
		Secondary:  "#57606a",
		Success:    "#1a7f37",
		Warning:    "#9a6700",
		Error:      "#cf222e",
		Muted:      "#8c959f",
		Accent:     "#8250df",
	},
}

// DefaultTheme is used when no theme is specified or theme is not found.
const DefaultTheme = "midnight"

// Get safely returns a theme or falls back to the default.
func Get(id string) Palette {
	if t, ok := Registry[id]; ok {
		return t
	}
	return Registry[DefaultTheme]
}

// Exists checks if a theme ID is valid.
func Exists(id string) bool {
	_, ok := Registry[id]
	return ok
}

// List returns all theme IDs in display order.
func List() []string {
	return []string{"midnight", "neon", "paper"}
}
