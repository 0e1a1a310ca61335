package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/server"
	"github.com/cellplot/cellplot/internal/sink"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runServe starts the HTTP API and, when a schedule is configured, the image pruner.
// It blocks until ctx is canceled.
func runServe(ctx context.Context) error {
	images, err := sink.NewFileSink(cfg.StaticDir, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to open image store: %w", err)
	}

	if cfg.PruneSchedule != "" {
		pruner, err := sink.NewPruner(images, cfg.PruneSchedule, cfg.PruneMaxAge)
		if err != nil {
			return err
		}
		pruner.Start()
		defer pruner.Stop()
	}

	log.Info().
		Str("backend", string(cfg.Backend)).
		Str("static_dir", images.Dir()).
		Int("render_workers", cfg.Chart.RenderWorkers).
		Msg("starting cellplot API")

	srv := server.New(storeManager, newComposer(), images, cfg.StaticDir)
	return srv.Run(ctx, cfg.Listen)
}

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cell data and chart API over HTTP.",
	Long: `Start the HTTP API used by the dashboard.

Endpoints:
  GET  /api/cells?search=
  GET  /api/cycle_summaries?cell_id=
  GET  /api/cycle_timeseries?cell_id=&cycle_index=
  POST /api/generate_image_base64       {"cell_id": "...", "segment": "100-200"}
  POST /api/generate_image_base64FREE   chart request
  GET  /static/graphs/<file>
  GET  /healthz

Examples:
  cellplot serve --listen :5000
  cellplot serve --prune-schedule "@daily" --prune-max-age 7d`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := runServe(ctx); err != nil {
			contract.LogFatal("Cannot run server", err)
		}
	},
}
