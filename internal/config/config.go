package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Mukesh1q2/Brahm-sub001/internal/data"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONSCIOUS"

// Config holds all configuration for the conscious binaries.
// It is loaded from ~/.conscious/config.yaml and can be overridden by environment variables.
type Config struct {
	Kernel      KernelConfig      `mapstructure:"kernel" yaml:"kernel"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Persistence PersistenceConfig `mapstructure:"persistence" yaml:"persistence"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Dream       DreamConfig       `mapstructure:"dream" yaml:"dream"`
}

// KernelConfig mirrors conscious.Options.
type KernelConfig struct {
	MaxSteps       int     `mapstructure:"max_steps" yaml:"max_steps"`
	TargetPhi      float64 `mapstructure:"target_phi" yaml:"target_phi"`
	// Seed 0 seeds each run from the clock
	Seed           int64            `mapstructure:"seed" yaml:"seed"`
	EnableEthics   bool             `mapstructure:"enable_ethics" yaml:"enable_ethics"`
	EnableTools    bool             `mapstructure:"enable_tools" yaml:"enable_tools"`
	EnableSalience bool             `mapstructure:"enable_salience" yaml:"enable_salience"`
	PhiWeights     PhiWeightsConfig `mapstructure:"phi_weights" yaml:"phi_weights"`
	EnableCIPS     bool             `mapstructure:"enable_cips" yaml:"enable_cips"`
	// EnableCIPSApplyEvolution lets accepted evolution proposals change the weights
	EnableCIPSApplyEvolution bool   `mapstructure:"enable_cips_apply_evolution" yaml:"enable_cips_apply_evolution"`
	ModuleProfile            string `mapstructure:"module_profile" yaml:"module_profile"`
}

// PhiWeightsConfig holds the initial phi blend weights.
type PhiWeightsConfig struct {
	GWT    float64 `mapstructure:"gwt" yaml:"gwt"`
	Causal float64 `mapstructure:"causal" yaml:"causal"`
	PP     float64 `mapstructure:"pp" yaml:"pp"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error", "fatal")
	Level string `mapstructure:"level" yaml:"level"`
	// File is an optional append-only log file
	File string `mapstructure:"file" yaml:"file"`
	// Pretty switches stderr output from JSON to a console layout
	Pretty bool `mapstructure:"pretty" yaml:"pretty"`
}

// PersistenceConfig controls the SQLite experience mirror.
type PersistenceConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Driver is "sqlite3" (mattn, CGO) or "sqlite" (modernc, pure Go)
	Driver       string        `mapstructure:"driver" yaml:"driver"`
	Path         string        `mapstructure:"path" yaml:"path"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// ServerConfig configures `conscious serve`.
type ServerConfig struct {
	Addr           string `mapstructure:"addr" yaml:"addr"`
	ReplayHistory  bool   `mapstructure:"replay_history" yaml:"replay_history"`
	HistoryCount   int    `mapstructure:"history_count" yaml:"history_count"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
}

// DreamConfig configures dream passes.
type DreamConfig struct {
	DurationMs int64 `mapstructure:"duration_ms" yaml:"duration_ms"`
}

// Default returns the documented defaults.
func Default() *Config {
	opts := conscious.DefaultOptions()
	return &Config{
		Kernel: KernelConfig{
			MaxSteps:       opts.MaxSteps,
			TargetPhi:      opts.TargetPhi,
			EnableEthics:   opts.EthicsEnabled(),
			EnableTools:    opts.ToolsEnabled(),
			EnableSalience: opts.SalienceEnabled(),
			PhiWeights: PhiWeightsConfig{
				GWT:    opts.PhiWeights.GWT,
				Causal: opts.PhiWeights.Causal,
				PP:     opts.PhiWeights.PP,
			},
			ModuleProfile: string(opts.ModuleProfile),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Persistence: PersistenceConfig{
			Enabled:      false,
			Driver:       data.DriverCGO,
			Path:         "~/.conscious/experiences.db",
			WriteTimeout: 5 * time.Second,
		},
		Server: ServerConfig{
			Addr:           ":8765",
			ReplayHistory:  true,
			HistoryCount:   100,
			MetricsEnabled: true,
		},
		Dream: DreamConfig{
			DurationMs: 1500,
		},
	}
}

// DefaultPath returns ~/.conscious/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".conscious", "config.yaml"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration at path, writing the defaults there
// first if the file does not exist. Environment variables such as
// CONSCIOUS_KERNEL_MAX_STEPS override file values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Persistence.Path = expandPath(cfg.Persistence.Path)
	return &cfg, nil
}

// setDefaults registers every key so that env overrides apply even when the
// file omits it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("kernel.max_steps", d.Kernel.MaxSteps)
	v.SetDefault("kernel.target_phi", d.Kernel.TargetPhi)
	v.SetDefault("kernel.seed", d.Kernel.Seed)
	v.SetDefault("kernel.enable_ethics", d.Kernel.EnableEthics)
	v.SetDefault("kernel.enable_tools", d.Kernel.EnableTools)
	v.SetDefault("kernel.enable_salience", d.Kernel.EnableSalience)
	v.SetDefault("kernel.phi_weights.gwt", d.Kernel.PhiWeights.GWT)
	v.SetDefault("kernel.phi_weights.causal", d.Kernel.PhiWeights.Causal)
	v.SetDefault("kernel.phi_weights.pp", d.Kernel.PhiWeights.PP)
	v.SetDefault("kernel.enable_cips", d.Kernel.EnableCIPS)
	v.SetDefault("kernel.enable_cips_apply_evolution", d.Kernel.EnableCIPSApplyEvolution)
	v.SetDefault("kernel.module_profile", d.Kernel.ModuleProfile)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.pretty", d.Logging.Pretty)

	v.SetDefault("persistence.enabled", d.Persistence.Enabled)
	v.SetDefault("persistence.driver", d.Persistence.Driver)
	v.SetDefault("persistence.path", d.Persistence.Path)
	v.SetDefault("persistence.write_timeout", d.Persistence.WriteTimeout)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.replay_history", d.Server.ReplayHistory)
	v.SetDefault("server.history_count", d.Server.HistoryCount)
	v.SetDefault("server.metrics_enabled", d.Server.MetricsEnabled)

	v.SetDefault("dream.duration_ms", d.Dream.DurationMs)
}

// SaveToPath writes the configuration as YAML.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// YAML renders the configuration the way it is stored on disk.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}

// Validate reports the first out-of-range value.
func (c *Config) Validate() error {
	k := c.Kernel
	if k.MaxSteps < 1 {
		return fmt.Errorf("kernel.max_steps must be >= 1, got %d", k.MaxSteps)
	}
	if k.TargetPhi <= 0 || k.TargetPhi > 10 {
		return fmt.Errorf("kernel.target_phi must be within (0,10], got %v", k.TargetPhi)
	}
	if k.PhiWeights.GWT < 0 || k.PhiWeights.Causal < 0 || k.PhiWeights.PP < 0 {
		return fmt.Errorf("kernel.phi_weights cannot be negative")
	}
	switch conscious.Profile(strings.ToLower(k.ModuleProfile)) {
	case conscious.ProfileBasic, conscious.ProfileEnhanced:
	default:
		return fmt.Errorf("invalid kernel.module_profile '%s', must be 'basic' or 'enhanced'", k.ModuleProfile)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error, fatal", c.Logging.Level)
	}

	if !data.ValidDriver(c.Persistence.Driver) {
		return fmt.Errorf("invalid persistence.driver '%s', must be 'sqlite3' or 'sqlite'", c.Persistence.Driver)
	}
	if c.Persistence.Enabled && c.Persistence.Path == "" {
		return fmt.Errorf("persistence.path cannot be empty when persistence is enabled")
	}
	if c.Persistence.WriteTimeout < 0 {
		return fmt.Errorf("persistence.write_timeout cannot be negative")
	}

	if c.Server.HistoryCount < 0 {
		return fmt.Errorf("server.history_count cannot be negative")
	}
	if c.Dream.DurationMs < 0 {
		return fmt.Errorf("dream.duration_ms cannot be negative")
	}
	return nil
}

// ToOptions converts the kernel section to run options.
func (k KernelConfig) ToOptions() conscious.Options {
	return conscious.Options{
		MaxSteps:       k.MaxSteps,
		TargetPhi:      k.TargetPhi,
		Seed:           k.Seed,
		EnableEthics:   conscious.Bool(k.EnableEthics),
		EnableTools:    conscious.Bool(k.EnableTools),
		EnableSalience: conscious.Bool(k.EnableSalience),
		PhiWeights: conscious.PhiWeights{
			GWT:    k.PhiWeights.GWT,
			Causal: k.PhiWeights.Causal,
			PP:     k.PhiWeights.PP,
		},
		EnableCIPS:               k.EnableCIPS,
		EnableCIPSApplyEvolution: k.EnableCIPSApplyEvolution,
		ModuleProfile:            conscious.ParseProfile(strings.ToLower(k.ModuleProfile)),
	}
}

func writeConfigFile(path string, cfg *Config) error {
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
