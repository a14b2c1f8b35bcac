package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Kernel.MaxSteps != conscious.DefaultMaxSteps {
		t.Errorf("expected max_steps %d, got %d", conscious.DefaultMaxSteps, cfg.Kernel.MaxSteps)
	}
	if cfg.Kernel.TargetPhi != 3.0 {
		t.Errorf("expected target_phi 3.0, got %v", cfg.Kernel.TargetPhi)
	}
	if cfg.Kernel.ModuleProfile != "enhanced" {
		t.Errorf("expected enhanced profile, got '%s'", cfg.Kernel.ModuleProfile)
	}
	if cfg.Kernel.EnableCIPS {
		t.Error("expected CIPS to be disabled by default")
	}
	if cfg.Persistence.Enabled {
		t.Error("expected persistence to be disabled by default")
	}
	if cfg.Persistence.Driver != "sqlite3" {
		t.Errorf("expected driver 'sqlite3', got '%s'", cfg.Persistence.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromPath_CreatesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".conscious", "config.yaml")

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if cfg.Kernel.MaxSteps != conscious.DefaultMaxSteps {
		t.Errorf("expected default max_steps, got %d", cfg.Kernel.MaxSteps)
	}
	if cfg.Persistence.WriteTimeout != 5*time.Second {
		t.Errorf("expected write_timeout 5s, got %v", cfg.Persistence.WriteTimeout)
	}
	if strings.HasPrefix(cfg.Persistence.Path, "~") {
		t.Errorf("expected expanded persistence path, got '%s'", cfg.Persistence.Path)
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "write_timeout: 5s") {
		t.Errorf("expected human-readable duration in file, got:\n%s", raw)
	}
}

func TestLoadFromPath_FileValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `kernel:
  max_steps: 9
  seed: 42
  enable_cips: true
  module_profile: basic
  phi_weights:
    gwt: 0.6
    causal: 0.2
    pp: 0.2
persistence:
  driver: sqlite
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Kernel.MaxSteps != 9 || cfg.Kernel.Seed != 42 || !cfg.Kernel.EnableCIPS {
		t.Errorf("file values not applied: %+v", cfg.Kernel)
	}
	if cfg.Kernel.PhiWeights.GWT != 0.6 {
		t.Errorf("expected gwt 0.6, got %v", cfg.Kernel.PhiWeights.GWT)
	}
	// Omitted keys fall back to defaults.
	if !cfg.Kernel.EnableEthics {
		t.Error("expected enable_ethics default true")
	}
	if cfg.Server.Addr != ":8765" {
		t.Errorf("expected default addr, got '%s'", cfg.Server.Addr)
	}
	if cfg.Persistence.Driver != "sqlite" {
		t.Errorf("expected driver 'sqlite', got '%s'", cfg.Persistence.Driver)
	}
}

func TestLoadFromPath_EnvOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CONSCIOUS_KERNEL_MAX_STEPS", "12")
	t.Setenv("CONSCIOUS_KERNEL_ENABLE_CIPS", "true")
	t.Setenv("CONSCIOUS_LOGGING_LEVEL", "debug")

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Kernel.MaxSteps != 12 {
		t.Errorf("expected env max_steps 12, got %d", cfg.Kernel.MaxSteps)
	}
	if !cfg.Kernel.EnableCIPS {
		t.Error("expected env to enable CIPS")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level debug, got '%s'", cfg.Logging.Level)
	}
}

func TestSaveToPathRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Kernel.MaxSteps = 4
	cfg.Dream.DurationMs = 900

	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Kernel.MaxSteps != 4 || loaded.Dream.DurationMs != 900 {
		t.Errorf("round trip lost values: %+v %+v", loaded.Kernel, loaded.Dream)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"max steps", func(c *Config) { c.Kernel.MaxSteps = 0 }, "max_steps"},
		{"target phi high", func(c *Config) { c.Kernel.TargetPhi = 10.5 }, "target_phi"},
		{"target phi negative", func(c *Config) { c.Kernel.TargetPhi = -1 }, "target_phi"},
		{"target phi zero", func(c *Config) { c.Kernel.TargetPhi = 0 }, "target_phi"},
		{"negative weight", func(c *Config) { c.Kernel.PhiWeights.PP = -0.1 }, "phi_weights"},
		{"profile", func(c *Config) { c.Kernel.ModuleProfile = "turbo" }, "module_profile"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"driver", func(c *Config) { c.Persistence.Driver = "postgres" }, "driver"},
		{"empty path", func(c *Config) { c.Persistence.Enabled = true; c.Persistence.Path = "" }, "persistence.path"},
		{"history", func(c *Config) { c.Server.HistoryCount = -1 }, "history_count"},
		{"dream", func(c *Config) { c.Dream.DurationMs = -5 }, "duration_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestToOptions(t *testing.T) {
	k := Default().Kernel
	k.Seed = 7
	k.EnableCIPS = true
	k.EnableCIPSApplyEvolution = true
	k.ModuleProfile = "Basic"
	k.EnableTools = false

	opts := k.ToOptions()
	if opts.Seed != 7 || !opts.EnableCIPS || !opts.EnableCIPSApplyEvolution {
		t.Errorf("flags not carried: %+v", opts)
	}
	if !opts.EthicsEnabled() || opts.ToolsEnabled() || !opts.SalienceEnabled() {
		t.Errorf("toggles not carried: ethics=%t tools=%t salience=%t",
			opts.EthicsEnabled(), opts.ToolsEnabled(), opts.SalienceEnabled())
	}
	if opts.ModuleProfile != conscious.ProfileBasic {
		t.Errorf("expected basic profile, got %s", opts.ModuleProfile)
	}
	if opts.PhiWeights != conscious.DefaultPhiWeights() {
		t.Errorf("expected default weights, got %+v", opts.PhiWeights)
	}
	if err := opts.WithDefaults().Validate(); err != nil {
		t.Errorf("converted options should validate: %v", err)
	}
}
