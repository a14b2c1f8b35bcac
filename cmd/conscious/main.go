// Package main is the entry point for the conscious CLI. It drives the
// Conscious Kernel from the terminal and serves its event stream over
// WebSocket.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Mukesh1q2/Brahm-sub001/internal/config"
	"github.com/Mukesh1q2/Brahm-sub001/internal/logging"
)

var (
	version   = "0.1.0"
	cfgPath   string
	verbose   bool
	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

// skipConfig marks commands that must not create or read the config file.
const skipConfig = "skip-config"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "conscious",
		Short: "conscious - a simulated conscious processing kernel",
		Long: `conscious runs the Conscious Kernel: a step pipeline of attention,
salience, integrated information, ethics, tools and stability, with the
optional CIPS workspace extension.

Run a goal:        conscious run "plan the release"
Serve events:      conscious serve
Dream pass:        conscious dream
Configuration:     conscious config show`,
		SilenceUsage:       true,
		PersistentPreRunE:  initLogging,
		PersistentPostRunE: closeLogging,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.conscious/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "conscious v%s\n", version)
		},
	})

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dreamCmd())
	rootCmd.AddCommand(configCmd())
	return rootCmd
}

// initLogging loads the configuration and sets up the process logger.
func initLogging(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	lc := logging.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: true,
		Pretty:  cfg.Logging.Pretty,
	}
	if verbose {
		lc.Level = "debug"
		lc.Pretty = true
	}
	l, closer, err := logging.Setup(lc)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger, logCloser = l, closer

	logger.Debug().Str("config", resolvedConfigPath()).Msg("configuration loaded")
	return nil
}

func closeLogging(cmd *cobra.Command, args []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromPath(cfgPath)
	}
	return config.Load()
}

// resolvedConfigPath returns the --config value or the default location.
func resolvedConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "~/.conscious/config.yaml"
	}
	return path
}
