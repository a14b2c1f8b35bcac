package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mukesh1q2/Brahm-sub001/internal/config"
	"github.com/Mukesh1q2/Brahm-sub001/internal/data"
	"github.com/Mukesh1q2/Brahm-sub001/internal/logging"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/dream"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/kernel"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/theme"
)

// ═══════════════════════════════════════════════════════════════════════════════
// RUN COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

// runFlags are the per-invocation overrides of the kernel config section.
type runFlags struct {
	steps          int
	seed           int64
	targetPhi      float64
	cips           bool
	applyEvolution bool
	profile        string
	noEthics       bool
	noTools        bool
	noSalience     bool
	jsonOut        bool
	enhanced       bool
	dream          bool
	noColor        bool
	theme          string
	runID          string
}

func runCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run <goal>",
		Short: "Run the kernel on a goal and print its events",
		Long: `Run the Conscious Kernel on a goal and print every event it emits.

Examples:
  conscious run "summarize the incident"
  conscious run --steps 3 --seed 42 --cips "plan the release"
  conscious run --json --enhanced "explore options" | jq .type`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal := strings.Join(args, " ")
			opts, err := f.apply(cmd, cfg.Kernel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := memory.NewStore()
			runner, cleanup, err := buildRunner(opts, f.enhanced, store)
			if err != nil {
				return err
			}
			defer cleanup()

			var runOpts []kernel.RunOption
			if f.runID != "" {
				runOpts = append(runOpts, kernel.WithRunID(f.runID))
			}

			out := cmd.OutOrStdout()
			pr := newPrinter(out, f.theme, f.noColor)
			enc := json.NewEncoder(out)
			for ev := range runner.Run(ctx, goal, runOpts...) {
				if f.jsonOut {
					if err := enc.Encode(ev); err != nil {
						return fmt.Errorf("failed to encode event: %w", err)
					}
					continue
				}
				pr.Print(ev)
			}
			runner.Flush()

			if ctx.Err() != nil {
				return fmt.Errorf("run interrupted: %w", ctx.Err())
			}
			if !f.dream {
				return nil
			}

			report := newDreamEngine(store).EnterDreamState(ctx, cfg.Dream.DurationMs)
			if f.jsonOut {
				return enc.Encode(report)
			}
			pr.PrintDream(report)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.steps, "steps", 0, "number of steps (default from config)")
	fl.Int64Var(&f.seed, "seed", 0, "PRNG seed, 0 seeds from the clock")
	fl.Float64Var(&f.targetPhi, "target-phi", 0, "phi required for conscious access (default from config)")
	fl.BoolVar(&f.cips, "cips", false, "enable the CIPS workspace extension")
	fl.BoolVar(&f.applyEvolution, "apply-evolution", false, "let accepted CIPS evolution proposals change the phi weights")
	fl.StringVar(&f.profile, "profile", "", "module profile: basic or enhanced")
	fl.BoolVar(&f.noEthics, "no-ethics", false, "disable ethics evaluation")
	fl.BoolVar(&f.noTools, "no-tools", false, "disable tool execution")
	fl.BoolVar(&f.noSalience, "no-salience", false, "disable salience computation")
	fl.BoolVar(&f.jsonOut, "json", false, "print events as newline-delimited JSON")
	fl.BoolVar(&f.enhanced, "enhanced", false, "annotate events with sequence, elapsed time and rates")
	fl.BoolVar(&f.dream, "dream", false, "run a dream pass over the run's experiences afterwards")
	fl.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	fl.StringVar(&f.theme, "theme", theme.DefaultTheme, "color theme: "+strings.Join(theme.List(), ", "))
	fl.StringVar(&f.runID, "run-id", "", "fixed run id")
	return cmd
}

// apply layers explicitly set flags over the kernel config.
func (f *runFlags) apply(cmd *cobra.Command, k config.KernelConfig) (conscious.Options, error) {
	fl := cmd.Flags()
	if fl.Changed("steps") {
		k.MaxSteps = f.steps
	}
	if fl.Changed("seed") {
		k.Seed = f.seed
	}
	if fl.Changed("target-phi") {
		k.TargetPhi = f.targetPhi
	}
	if fl.Changed("cips") {
		k.EnableCIPS = f.cips
	}
	if fl.Changed("apply-evolution") {
		k.EnableCIPSApplyEvolution = f.applyEvolution
		if f.applyEvolution {
			k.EnableCIPS = true
		}
	}
	if fl.Changed("profile") {
		switch p := strings.ToLower(f.profile); conscious.Profile(p) {
		case conscious.ProfileBasic, conscious.ProfileEnhanced:
			k.ModuleProfile = p
		default:
			return conscious.Options{}, fmt.Errorf("invalid profile '%s', must be 'basic' or 'enhanced'", f.profile)
		}
	}
	if f.noEthics {
		k.EnableEthics = false
	}
	if f.noTools {
		k.EnableTools = false
	}
	if f.noSalience {
		k.EnableSalience = false
	}

	opts := k.ToOptions()
	if err := opts.Validate(); err != nil {
		return conscious.Options{}, fmt.Errorf("invalid run options: %w", err)
	}
	return opts, nil
}

// buildRunner wires a kernel over store with the configured persistence
// mirror. The cleanup func flushes pending writes and closes the mirror.
func buildRunner(opts conscious.Options, enhanced bool, store *memory.Store) (kernel.Runner, func(), error) {
	kopts := []kernel.Option{
		kernel.WithLogger(logging.Component(logger, "kernel")),
		kernel.WithMemory(store),
	}

	mirror, err := openMirror()
	if err != nil {
		return nil, nil, err
	}
	if mirror != nil {
		kopts = append(kopts, kernel.WithPersister(mirror))
		if cfg.Persistence.WriteTimeout > 0 {
			kopts = append(kopts, kernel.WithPersistTimeout(cfg.Persistence.WriteTimeout))
		}
	}

	var runner kernel.Runner
	if enhanced {
		ek, err := kernel.NewEnhanced(opts, kopts...)
		if err != nil {
			closeMirror(mirror)
			return nil, nil, err
		}
		runner = ek
	} else {
		k, err := kernel.New(opts, kopts...)
		if err != nil {
			closeMirror(mirror)
			return nil, nil, err
		}
		runner = k
	}

	cleanup := func() {
		runner.Flush()
		closeMirror(mirror)
	}
	return runner, cleanup, nil
}

// openMirror opens the SQLite mirror when persistence is enabled.
func openMirror() (*data.Mirror, error) {
	if !cfg.Persistence.Enabled {
		return nil, nil
	}
	mirror, err := data.Open(cfg.Persistence.Driver, cfg.Persistence.Path,
		data.WithLogger(logging.Component(logger, "data")))
	if err != nil {
		return nil, fmt.Errorf("failed to open experience mirror: %w", err)
	}
	return mirror, nil
}

func closeMirror(m *data.Mirror) {
	if m == nil {
		return
	}
	if err := m.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close experience mirror")
	}
}

func newDreamEngine(store *memory.Store) *dream.Engine {
	return dream.NewEngine(store, dream.WithLogger(logging.Component(logger, "dream")))
}

// warmStore loads the mirror's most recent experiences into store.
func warmStore(ctx context.Context, store *memory.Store, limit int) (int, error) {
	mirror, err := openMirror()
	if err != nil || mirror == nil {
		return 0, err
	}
	defer closeMirror(mirror)

	recs, err := mirror.Recent(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to read experiences: %w", err)
	}
	// Recent is newest first; the store is append-only in time order.
	for i := len(recs) - 1; i >= 0; i-- {
		store.Add(recs[i].Experience)
	}
	return len(recs), nil
}
