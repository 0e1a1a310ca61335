package chart

import (
	"context"
	"fmt"
	"strings"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
)

// SegmentRequest builds the IR and discharge capacity chart of a cycle segment.
func SegmentRequest(cellID string, start, end int, rows []schema.CycleSummary) *ChartRequest {
	labels := make([]any, len(rows))
	ir := make([]any, len(rows))
	qd := make([]any, len(rows))
	for i, row := range rows {
		labels[i] = row.CycleIndex
		ir[i] = floatOrNil(row.IR)
		qd[i] = floatOrNil(row.QDischarge)
	}

	ohm, ah := "Ω", "Ah"
	xTitle := "Cycle Index"
	title := fmt.Sprintf("%s cycles %d-%d", cellID, start, end)

	req := &ChartRequest{
		Type: DefaultType,
		Data: ChartData{
			Labels: labels,
			Datasets: []Dataset{
				{Label: "IR", Data: ir, Unit: &ohm},
				{Label: "Qd", Data: qd, Unit: &ah},
			},
		},
	}
	req.Options.Scales.X.Title.Text = &xTitle
	req.Options.Plugins.Title.Text = &title
	return req
}

// SegmentChart loads the summaries of cycles start..end of a cell and renders them.
// segment is written "start-end".
func SegmentChart(ctx context.Context, store contract.RecordStore, c *Composer, cellID, segment string) (*Result, error) {
	cellID = strings.TrimSpace(cellID)
	if cellID == "" {
		return nil, contract.BadRequestf("cell_id is required")
	}
	if strings.TrimSpace(segment) == "" {
		return nil, contract.BadRequestf("segment is required")
	}
	start, end, err := contract.ParseSegment(segment)
	if err != nil {
		return nil, err
	}

	rows, err := store.GetCycleSummariesInRange(ctx, cellID, start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, contract.NotFoundf("no data found for cell %q cycles %d-%d", cellID, start, end)
	}
	return c.Render(ctx, SegmentRequest(cellID, start, end, rows))
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
