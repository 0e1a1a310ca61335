// Package schema has the records, enums and status models shared by all parts of cellplot.
package schema

// Cell represents one battery cell under test.
type Cell struct {
	CellID       string   `json:"cell_id"`
	ChargePolicy string   `json:"charge_policy"`
	CycleLife    *float64 `json:"cycle_life"` // Cycles until end of life, unknown for cells still on test
}

// CycleSummary holds the per-cycle metrics of a cell.
// Every metric is nullable because summaries are often written before all channels report.
type CycleSummary struct {
	CycleIndex int      `json:"cycle_index"`
	IR         *float64 `json:"ir"`          // Internal resistance (Ω)
	QCharge    *float64 `json:"q_charge"`    // Charge capacity (Ah)
	QDischarge *float64 `json:"q_discharge"` // Discharge capacity (Ah)
	TAvg       *float64 `json:"tavg"`        // Average temperature (°C)
	TMin       *float64 `json:"tmin"`        // Minimum temperature (°C)
	TMax       *float64 `json:"tmax"`        // Maximum temperature (°C)
	ChargeTime *float64 `json:"chargetime"`  // Charge time (min)
}

// TimeseriesPoint is a single reading inside a cycle.
type TimeseriesPoint struct {
	CycleIndex  int      `json:"-"`
	Time        *float64 `json:"time"`
	Current     *float64 `json:"current"`
	Voltage     *float64 `json:"voltage"`
	QCharge     *float64 `json:"q_charge"`
	QDischarge  *float64 `json:"q_discharge"`
	Temperature *float64 `json:"temperature"`
}

// TimeseriesResponse wraps timeseries rows with the unit of every column present.
type TimeseriesResponse struct {
	Rows  []TimeseriesPoint `json:"rows"`
	Units map[string]string `json:"units"`
	X     string            `json:"x"`
}

// Float returns a pointer to v. It keeps literals for nullable columns short.
func Float(v float64) *float64 {
	return &v
}
