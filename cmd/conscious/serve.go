package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Mukesh1q2/Brahm-sub001/internal/bus"
	"github.com/Mukesh1q2/Brahm-sub001/internal/logging"
	"github.com/Mukesh1q2/Brahm-sub001/internal/metrics"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious/memory"
)

// statusInterval is how often serve logs observer status.
const statusInterval = 30 * time.Second

// ═══════════════════════════════════════════════════════════════════════════════
// SERVE COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func serveCmd() *cobra.Command {
	var (
		addr     string
		enhanced bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve kernel events over WebSocket and accept runs over HTTP",
		Long: `Serve the kernel event stream.

Endpoints:
  GET  /kernel-events   WebSocket stream of kernel events
  POST /runs            start a run: {"goal": "..."}
  POST /dream           run a dream pass over stored experiences
  GET  /metrics         Prometheus metrics (when enabled)
  GET  /health          observer health`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return serve(ctx, enhanced)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&enhanced, "enhanced", true, "annotate served events")
	return cmd
}

// serve runs the observer until ctx is cancelled.
func serve(ctx context.Context, enhanced bool) error {
	store := memory.NewStore()
	if n, err := warmStore(ctx, store, 50); err != nil {
		logger.Warn().Err(err).Msg("failed to warm memory from mirror")
	} else if n > 0 {
		logger.Info().Int("experiences", n).Msg("memory warmed from mirror")
	}

	runner, cleanup, err := buildRunner(cfg.Kernel.ToOptions(), enhanced, store)
	if err != nil {
		return err
	}
	defer cleanup()

	b := bus.New(
		bus.WithHistorySize(bus.DefaultHistorySize),
		bus.WithLogger(logging.Component(logger, "bus")),
	)
	defer b.Close()

	ocfg := bus.DefaultObserverConfig()
	ocfg.Addr = cfg.Server.Addr
	ocfg.ReplayHistory = cfg.Server.ReplayHistory
	ocfg.HistoryCount = cfg.Server.HistoryCount
	ocfg.Runner = runner
	ocfg.Dreamer = newDreamEngine(store)
	ocfg.DreamDurationMs = cfg.Dream.DurationMs

	if cfg.Server.MetricsEnabled {
		collector := metrics.NewCollector(true)
		collector.Attach(b)
		defer collector.Detach()
		ocfg.Metrics = collector.Handler()
	}

	obs := bus.NewObserver(b, ocfg, logging.Component(logger, "observer"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return obs.ListenAndServe(gctx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				logger.Info().
					Int("clients", obs.ClientCount()).
					Int("history", b.HistoryLen()).
					Uint64("dropped", b.Dropped()).
					Int("episodes", store.Len()).
					Msg("observer status")
			}
		}
	})

	err = g.Wait()
	logger.Info().Msg("serve stopped")
	return err
}
