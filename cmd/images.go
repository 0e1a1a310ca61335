package cmd

import (
	"fmt"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/sink"
	"github.com/spf13/cobra"
)

// imagesCmd manages stored chart images.
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Manage stored chart images",
	Long:  `Manage the PNG files written under <static-dir>/graphs by the API and the chart commands.`,
}

// imagesPruneCmd removes old images once.
var imagesPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stored images older than --prune-max-age",
	Long: `Remove stored chart images older than --prune-max-age. The server can do the same on a
schedule with --prune-schedule.

Examples:
  cellplot images prune --prune-max-age 7d
  cellplot images prune --static-dir /srv/cellplot/static --prune-max-age 12h`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		images, err := sink.NewFileSink(cfg.StaticDir, "")
		if err != nil {
			contract.LogFatal("Failed to open image store", err)
		}
		removed, err := images.Prune(cfg.PruneMaxAge)
		if err != nil {
			contract.LogWarn("Some images could not be removed", err)
		}
		fmt.Printf("Removed %d images older than %s from %s.\n", removed, cfg.PruneMaxAge, images.Dir())
	},
}
