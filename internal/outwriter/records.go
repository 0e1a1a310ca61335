package outwriter

import (
	"fmt"
	"strconv"

	"github.com/cellplot/cellplot/internal/chart"
	"github.com/cellplot/cellplot/schema"
)

// recordTable is the tabular shape shared by the text, CSV and XLSX writers.
// Row values are string, int or *float64.
type recordTable struct {
	name    string // sheet name and noun used in messages
	columns []string
	units   map[string]string
	rows    [][]any
}

// headers returns the display headers, with the unit appended to measured columns.
func (t recordTable) headers() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		if u, ok := t.units[c]; ok && u != "" {
			out[i] = fmt.Sprintf("%s (%s)", c, u)
			continue
		}
		out[i] = c
	}
	return out
}

var (
	cellColumns    = []string{"cell_id", "charge_policy", "cycle_life"}
	summaryColumns = []string{"cycle_index", "ir", "q_charge", "q_discharge", "tavg", "tmin", "tmax", "chargetime"}
	pointColumns   = []string{"cycle_index", "time", "current", "voltage", "q_charge", "q_discharge", "temperature"}
)

func cellsTable(cells []schema.Cell) recordTable {
	t := recordTable{name: "cells", columns: cellColumns}
	for _, c := range cells {
		t.rows = append(t.rows, []any{c.CellID, c.ChargePolicy, c.CycleLife})
	}
	return t
}

func summariesTable(rows []schema.CycleSummary) recordTable {
	units := make(map[string]string, len(summaryColumns)-1)
	for _, c := range summaryColumns[1:] {
		units[c] = chart.ResolveUnit(c, nil)
	}
	t := recordTable{name: "cycle_summaries", columns: summaryColumns, units: units}
	for _, r := range rows {
		t.rows = append(t.rows, []any{r.CycleIndex, r.IR, r.QCharge, r.QDischarge, r.TAvg, r.TMin, r.TMax, r.ChargeTime})
	}
	return t
}

func timeseriesTable(resp *schema.TimeseriesResponse) recordTable {
	t := recordTable{name: "timeseries", columns: pointColumns, units: resp.Units}
	for _, p := range resp.Rows {
		t.rows = append(t.rows, []any{p.CycleIndex, p.Time, p.Current, p.Voltage, p.QCharge, p.QDischarge, p.Temperature})
	}
	return t
}

// textValue renders a row value, writing missing for a nil reading.
func textValue(v any, fmtNullable func(*float64) string, missing string) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case *float64:
		if x == nil {
			return missing
		}
		return fmtNullable(x)
	default:
		return fmt.Sprint(x)
	}
}

// cellValue unwraps readings for writers that keep numbers typed.
func cellValue(v any) any {
	if f, ok := v.(*float64); ok {
		if f == nil {
			return nil
		}
		return *f
	}
	return v
}
