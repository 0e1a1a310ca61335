package chart

import (
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// gapSeries is a line series that breaks at invalid values instead of joining across them.
type gapSeries struct {
	Name    string
	YAxis   gochart.YAxisType
	Style   gochart.Style
	XValues []float64
	YValues []float64
}

var (
	_ gochart.Series         = gapSeries{}
	_ gochart.ValuesProvider = gapSeries{}
)

// GetName returns the legend label.
func (gs gapSeries) GetName() string { return gs.Name }

// GetYAxis returns the axis side the series is drawn against.
func (gs gapSeries) GetYAxis() gochart.YAxisType { return gs.YAxis }

// GetStyle returns the series style.
func (gs gapSeries) GetStyle() gochart.Style { return gs.Style }

// Len counts the valid points only, so range scans never see the invalid marker.
func (gs gapSeries) Len() int {
	n := 0
	for i := range gs.YValues {
		if gs.valid(i) {
			n++
		}
	}
	return n
}

// GetValues returns the index-th valid point.
func (gs gapSeries) GetValues(index int) (float64, float64) {
	n := 0
	for i := range gs.YValues {
		if !gs.valid(i) {
			continue
		}
		if n == index {
			return gs.XValues[i], gs.YValues[i]
		}
		n++
	}
	return 0, 0
}

// Validate checks that every y value has an x position.
func (gs gapSeries) Validate() error {
	if len(gs.XValues) != len(gs.YValues) {
		return fmt.Errorf("series %q has %d x values and %d y values", gs.Name, len(gs.XValues), len(gs.YValues))
	}
	return nil
}

// Render draws every contiguous run of valid points as its own polyline. A run of a single
// point is drawn as a dot so isolated readings stay visible.
func (gs gapSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := gs.Style.InheritFrom(defaults)
	for _, run := range gs.runs() {
		runStyle := style
		if run.Len() == 1 {
			runStyle.DotColor = style.StrokeColor
			runStyle.DotWidth = max(style.StrokeWidth, 2)
		}
		gochart.Draw.LineSeries(r, canvasBox, xrange, yrange, runStyle, run)
	}
}

func (gs gapSeries) valid(i int) bool {
	return i < len(gs.XValues) && !Invalid(gs.XValues[i]) && !Invalid(gs.YValues[i])
}

// runs splits the series at invalid points.
func (gs gapSeries) runs() []pointRun {
	var out []pointRun
	start := -1
	for i := 0; i <= len(gs.YValues); i++ {
		if i < len(gs.YValues) && gs.valid(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, pointRun{x: gs.XValues[start:i], y: gs.YValues[start:i]})
			start = -1
		}
	}
	return out
}

// pointRun is a contiguous slice of valid points.
type pointRun struct {
	x, y []float64
}

func (p pointRun) Len() int { return len(p.y) }

func (p pointRun) GetValues(index int) (float64, float64) { return p.x[index], p.y[index] }
