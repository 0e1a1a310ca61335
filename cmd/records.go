package cmd

import (
	"fmt"
	"time"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/outwriter"
	"github.com/cellplot/cellplot/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// recordStore returns the configured record store or an error when setup did not open one.
func recordStore() (contract.RecordStore, error) {
	rs := storeManager.GetRecordStore()
	if rs == nil {
		return nil, fmt.Errorf("record store is not initialized")
	}
	return rs, nil
}

// cellsCmd lists battery cells.
var cellsCmd = &cobra.Command{
	Use:   "cells",
	Short: "List the battery cells in the record store.",
	Long: `List cells with their charge policy and cycle life.

Examples:
  # List every cell
  cellplot cells

  # Only cells of batch 1
  cellplot cells --search b1

  # Export to a spreadsheet
  cellplot cells --output xlsx --output-file cells.xlsx`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		rs, err := recordStore()
		if err != nil {
			contract.LogFatal("Cannot list cells", err)
		}
		cells, err := store.FetchCells(rootCtx, rs, viper.GetString("search"))
		if err != nil {
			contract.LogFatal("Cannot list cells", err)
		}
		if err := outwriter.NewOutWriter().WriteCells(cells, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write cells", err)
		}
	},
}

// summariesCmd prints the cycle summaries of one cell.
var summariesCmd = &cobra.Command{
	Use:   "summaries <cell-id>",
	Short: "Show the per-cycle summaries of a cell.",
	Long: `Show internal resistance, capacity, temperature and charge time for every cycle of a cell.

Examples:
  cellplot summaries b1c0
  cellplot summaries b1c0 --output csv --output-file b1c0.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()
		rs, err := recordStore()
		if err != nil {
			contract.LogFatal("Cannot fetch cycle summaries", err)
		}
		rows, err := store.FetchCycleSummaries(rootCtx, rs, args[0])
		if err != nil {
			contract.LogFatal("Cannot fetch cycle summaries", err)
		}
		if err := outwriter.NewOutWriter().WriteCycleSummaries(args[0], rows, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write cycle summaries", err)
		}
	},
}

// timeseriesCmd prints the readings of one cell.
var timeseriesCmd = &cobra.Command{
	Use:   "timeseries <cell-id>",
	Short: "Show the timeseries readings of a cell.",
	Long: `Show current, voltage, capacity and temperature readings ordered by time.

Examples:
  cellplot timeseries b1c0 --cycle-index 100
  cellplot timeseries b1c0 --output parquet --output-file b1c0.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()
		rs, err := recordStore()
		if err != nil {
			contract.LogFatal("Cannot fetch timeseries", err)
		}
		resp, err := store.FetchTimeseries(rootCtx, rs, args[0], viper.GetString("cycle-index"))
		if err != nil {
			contract.LogFatal("Cannot fetch timeseries", err)
		}
		if err := outwriter.NewOutWriter().WriteTimeseries(args[0], resp, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write timeseries", err)
		}
	},
}
