package outwriter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cellplot/cellplot/internal/chart"
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
	"github.com/olekukonko/tablewriter"
)

// chartSummary is the JSON shape of a rendered chart on the command line.
type chartSummary struct {
	Image        string                     `json:"image"`
	MimeType     string                     `json:"mime_type"`
	Axes         chart.Axes                 `json:"axes"`
	LabelAxisMap map[string]schema.AxisSide `json:"label_axis_map"`
}

// WriteChart prints where a rendered chart went and which axis each series was drawn on.
// Only text and JSON are meaningful here; other formats fall back to text.
func (ow *OutWriter) WriteChart(res *chart.Result, location string, cfg *contract.Config) error {
	summary := chartSummary{
		Image:        location,
		MimeType:     res.MimeType,
		Axes:         res.Axes,
		LabelAxisMap: res.LabelAxisMap,
	}
	if cfg.Output == schema.JSONOut {
		return writeJSON(os.Stdout, summary)
	}
	return writeChartTable(os.Stdout, summary)
}

func writeChartTable(w io.Writer, s chartSummary) error {
	secondary := "-"
	if s.Axes.Secondary != nil {
		secondary = *s.Axes.Secondary
	}
	if _, err := fmt.Fprintf(w, "🖼  %s (%s)\nPrimary axis: %s\nSecondary axis: %s\n", s.Image, s.MimeType, s.Axes.Primary, secondary); err != nil {
		return err
	}

	labels := make([]string, 0, len(s.LabelAxisMap))
	for label := range s.LabelAxisMap {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "Axis"})
	data := make([][]string, 0, len(labels))
	for _, label := range labels {
		data = append(data, []string{label, string(s.LabelAxisMap[label])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
