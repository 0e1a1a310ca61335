package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cellplot/cellplot/internal/chart"
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/outwriter"
	"github.com/cellplot/cellplot/internal/sink"
	"github.com/spf13/cobra"
)

// readChartRequest loads a chart request from a JSON or YAML file, or from stdin when path is "-".
func readChartRequest(path string) (*chart.ChartRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chart request: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return chart.ParseRequestYAML(data)
	default:
		return chart.ParseRequest(data)
	}
}

// saveChart writes the image to --output-file when given, otherwise into the image store.
// It returns where the image went.
func saveChart(res *chart.Result) (string, error) {
	if cfg.OutputFile != "" {
		if err := os.WriteFile(cfg.OutputFile, res.Image, 0o644); err != nil {
			return "", fmt.Errorf("failed to write image: %w", err)
		}
		return cfg.OutputFile, nil
	}
	images, err := sink.NewFileSink(cfg.StaticDir, "")
	if err != nil {
		return "", err
	}
	return images.Store(res.Image, "chart.png")
}

// chartCmd renders a chart request file.
var chartCmd = &cobra.Command{
	Use:   "chart <request-file>",
	Short: "Render a chart request file to PNG.",
	Long: `Render a chart request written as JSON or YAML (use - to read JSON from stdin).

Series sharing a unit share an axis. The first unit goes on the primary axis and every other
unit shares the secondary axis.

Examples:
  cellplot chart request.json --output-file chart.png
  cellplot chart request.yaml --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, args []string) {
		req, err := readChartRequest(args[0])
		if err != nil {
			contract.LogFatal("Cannot parse chart request", err)
		}
		res, err := newComposer().Render(rootCtx, req)
		if err != nil {
			contract.LogFatal("Cannot render chart", err)
		}
		location, err := saveChart(res)
		if err != nil {
			contract.LogFatal("Cannot save chart", err)
		}
		if err := outwriter.NewOutWriter().WriteChart(res, location, cfg); err != nil {
			contract.LogFatal("Cannot write chart summary", err)
		}
	},
}

// segmentCmd renders IR and discharge capacity over a range of cycles.
var segmentCmd = &cobra.Command{
	Use:   "segment <cell-id> <start-end>",
	Short: "Render IR and discharge capacity for a range of cycles.",
	Long: `Render the internal resistance and discharge capacity of a cell over cycles start..end.

Examples:
  cellplot segment b1c0 100-200
  cellplot segment b1c0 1-500 --output-file b1c0.png`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		rs, err := recordStore()
		if err != nil {
			contract.LogFatal("Cannot render segment chart", err)
		}
		res, err := chart.SegmentChart(rootCtx, rs, newComposer(), args[0], args[1])
		if err != nil {
			contract.LogFatal("Cannot render segment chart", err)
		}
		location, err := saveChart(res)
		if err != nil {
			contract.LogFatal("Cannot save chart", err)
		}
		if err := outwriter.NewOutWriter().WriteChart(res, location, cfg); err != nil {
			contract.LogFatal("Cannot write chart summary", err)
		}
	},
}
