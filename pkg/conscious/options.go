package conscious

import "fmt"

// Profile selects which subsystem implementations a kernel is wired with.
type Profile string

const (
	ProfileBasic    Profile = "basic"
	ProfileEnhanced Profile = "enhanced"
)

// ParseProfile parses a profile name, defaulting to enhanced.
func ParseProfile(s string) Profile {
	switch Profile(s) {
	case ProfileBasic:
		return ProfileBasic
	default:
		return ProfileEnhanced
	}
}

// Kernel defaults.
const (
	DefaultMaxSteps  = 6
	DefaultTargetPhi = 3.0

	// AccessAttentionThreshold is the attention strength the access gate
	// requires in addition to targetPhi.
	AccessAttentionThreshold = 0.45

	// ActionConfidenceThreshold is the first-proposal confidence at which
	// a step acts.
	ActionConfidenceThreshold = 0.7
)

// Options configures a kernel run. A nil toggle means enabled; a zero
// MaxSteps or TargetPhi takes its default.
type Options struct {
	MaxSteps                 int        `json:"maxSteps"`
	TargetPhi                float64    `json:"targetPhi"`
	Seed                     int64      `json:"seed"`
	EnableEthics             *bool      `json:"enableEthics"`
	EnableTools              *bool      `json:"enableTools"`
	EnableSalience           *bool      `json:"enableSalience"`
	PhiWeights               PhiWeights `json:"phiWeights"`
	EnableCIPS               bool       `json:"enableCIPS"`
	EnableCIPSApplyEvolution bool       `json:"enableCIPSApplyEvolution"`
	ModuleProfile            Profile    `json:"moduleProfile"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxSteps:       DefaultMaxSteps,
		TargetPhi:      DefaultTargetPhi,
		EnableEthics:   Bool(true),
		EnableTools:    Bool(true),
		EnableSalience: Bool(true),
		PhiWeights:     DefaultPhiWeights(),
		ModuleProfile:  ProfileEnhanced,
	}
}

// Bool returns a pointer to v, for the Options toggles.
func Bool(v bool) *bool {
	return &v
}

// EthicsEnabled reports whether ethics evaluation runs. Nil means enabled.
func (o Options) EthicsEnabled() bool {
	return o.EnableEthics == nil || *o.EnableEthics
}

// ToolsEnabled reports whether tool calls execute. Nil means enabled.
func (o Options) ToolsEnabled() bool {
	return o.EnableTools == nil || *o.EnableTools
}

// SalienceEnabled reports whether salience is computed. Nil means enabled.
func (o Options) SalienceEnabled() bool {
	return o.EnableSalience == nil || *o.EnableSalience
}

// WithDefaults fills unset fields with defaults: nil toggles become true,
// zero MaxSteps and TargetPhi take their defaults and zero weights take the
// default blend. Negative or non-finite values are left for Validate.
func (o Options) WithDefaults() Options {
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.TargetPhi == 0 {
		o.TargetPhi = DefaultTargetPhi
	}
	o.EnableEthics = Bool(o.EthicsEnabled())
	o.EnableTools = Bool(o.ToolsEnabled())
	o.EnableSalience = Bool(o.SalienceEnabled())
	if o.PhiWeights == (PhiWeights{}) {
		o.PhiWeights = DefaultPhiWeights()
	}
	o.PhiWeights = o.PhiWeights.Sanitize()
	if o.ModuleProfile != ProfileBasic {
		o.ModuleProfile = ProfileEnhanced
	}
	return o
}

// Validate reports options that cannot drive a run.
func (o Options) Validate() error {
	if o.MaxSteps < 1 {
		return fmt.Errorf("maxSteps must be >= 1, got %d", o.MaxSteps)
	}
	if !IsFinite(o.TargetPhi) || o.TargetPhi <= 0 || o.TargetPhi > 10 {
		return fmt.Errorf("targetPhi must be within (0,10], got %v", o.TargetPhi)
	}
	if o.PhiWeights.GWT < 0 || o.PhiWeights.Causal < 0 || o.PhiWeights.PP < 0 {
		return fmt.Errorf("phiWeights must be non-negative")
	}
	switch o.ModuleProfile {
	case ProfileBasic, ProfileEnhanced:
	default:
		return fmt.Errorf("unknown moduleProfile %q", o.ModuleProfile)
	}
	return nil
}
