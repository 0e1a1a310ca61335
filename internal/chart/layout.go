package chart

import (
	"math"

	"github.com/cellplot/cellplot/schema"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// maxCategoryTicks caps the labeled ticks of a categorical x axis.
const maxCategoryTicks = 12

// PlottedSeries is one series ready to draw.
type PlottedSeries struct {
	Label  string
	Unit   string
	Side   schema.AxisSide
	Values []float64
	Color  drawing.Color
}

// Tick is a labeled position on the x axis.
type Tick struct {
	Value float64
	Label string
}

// Layout is every decision made about a chart before anything is drawn.
type Layout struct {
	Title  string
	XTitle string

	X       []float64
	XTicks  []Tick // nil when the x axis is numeric
	XRange  Range
	Numeric bool

	Series     []PlottedSeries
	Allocation Allocation

	Primary     Range
	PrimaryOK   bool
	Secondary   Range
	SecondaryOK bool

	Axes         Axes
	LabelAxisMap map[string]schema.AxisSide
}

// Axes names the titles of the rendered vertical axes.
type Axes struct {
	Primary   string  `json:"primary"`
	Secondary *string `json:"secondary,omitempty"`
}

// Plan resolves units, allocates axes, normalizes values and computes ranges for a request.
// It is pure; the same request always yields the same layout.
func Plan(req *ChartRequest, padRatio float64) *Layout {
	cats := req.Categories()
	n := len(cats)
	specs := req.Series()

	units := make([]string, len(specs))
	for i, s := range specs {
		units[i] = ResolveUnit(s.Label, s.Unit)
	}
	alloc := AllocateAxes(units)
	colors := seriesColors(specs)

	l := &Layout{
		Title:        req.Title(),
		XTitle:       req.XTitle(),
		Allocation:   alloc,
		LabelAxisMap: make(map[string]schema.AxisSide, len(specs)),
		Axes: Axes{
			Primary:   alloc.PrimaryTitle(req.YTitle()),
			Secondary: alloc.SecondaryTitle(),
		},
	}
	l.planX(cats)

	var primary, secondary rangeAccumulator
	for i, s := range specs {
		label := s.Label
		if label == "" {
			label = units[i]
		}
		side := alloc.Side(units[i])
		values := NormalizeTo(s.Values, n)

		if side == schema.SecondaryAxis {
			secondary.add(values)
		} else {
			primary.add(values)
		}
		l.Series = append(l.Series, PlottedSeries{
			Label:  label,
			Unit:   units[i],
			Side:   side,
			Values: values,
			Color:  colors[i],
		})
		l.LabelAxisMap[label] = side
	}

	l.Primary, l.PrimaryOK = primary.finish(padRatio)
	l.Secondary, l.SecondaryOK = secondary.finish(padRatio)
	return l
}

// planX places categories on the x axis. When every category is a number the axis is
// continuous over those numbers, otherwise categories sit at 0..N-1 and keep their text.
func (l *Layout) planX(cats []any) {
	xs := Normalize(cats)
	numeric := len(cats) > 0
	for _, x := range xs {
		if Invalid(x) {
			numeric = false
			break
		}
	}

	if numeric {
		l.Numeric = true
		l.X = xs
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, x := range xs {
			lo, hi = math.Min(lo, x), math.Max(hi, x)
		}
		if lo == hi {
			l.XRange = pad(lo, hi, 0)
		} else {
			l.XRange = Range{Min: lo, Max: hi}
		}
		return
	}

	l.X = make([]float64, len(cats))
	for i := range l.X {
		l.X[i] = float64(i)
	}
	switch len(cats) {
	case 0:
		l.XRange = Range{Min: 0, Max: 1}
		return
	case 1:
		l.XRange = Range{Min: -0.5, Max: 0.5}
		l.XTicks = []Tick{{Value: -0.5}, {Value: 0, Label: categoryText(cats[0])}, {Value: 0.5}}
		return
	}

	l.XRange = Range{Min: 0, Max: float64(len(cats) - 1)}
	stride := (len(cats) + maxCategoryTicks - 1) / maxCategoryTicks
	last := len(cats) - 1
	for i := 0; i <= last; i += stride {
		l.XTicks = append(l.XTicks, Tick{Value: float64(i), Label: categoryText(cats[i])})
	}
	if last%stride != 0 {
		l.XTicks = append(l.XTicks, Tick{Value: float64(last), Label: categoryText(cats[last])})
	}
}
