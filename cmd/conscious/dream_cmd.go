package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/theme"
)

// ═══════════════════════════════════════════════════════════════════════════════
// DREAM COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func dreamCmd() *cobra.Command {
	var (
		durationMs int64
		limit      int
		jsonOut    bool
		noColor    bool
	)
	cmd := &cobra.Command{
		Use:   "dream [goal]",
		Short: "Run a dream pass over stored experiences",
		Long: `Run a dream pass. Experiences are loaded from the persistence mirror
when it is enabled. When a goal is given, the kernel first runs it silently
and its experiences join the pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := memory.NewStore()
			if _, err := warmStore(ctx, store, limit); err != nil {
				return err
			}

			if len(args) > 0 {
				runner, cleanup, err := buildRunner(cfg.Kernel.ToOptions(), false, store)
				if err != nil {
					return err
				}
				for range runner.Run(ctx, strings.Join(args, " ")) {
				}
				cleanup()
			}

			if !cmd.Flags().Changed("duration") {
				durationMs = cfg.Dream.DurationMs
			}
			report := newDreamEngine(store).EnterDreamState(ctx, durationMs)
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			newPrinter(cmd.OutOrStdout(), theme.DefaultTheme, noColor).PrintDream(report)
			if report.MemoriesConsolidated == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "hint: pass a goal or enable persistence to give the dream something to consolidate")
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&durationMs, "duration", 0, "nominal dream duration in ms (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "experiences to load from the mirror")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
