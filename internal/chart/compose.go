package chart

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
	"github.com/rs/zerolog/log"
	gochart "github.com/wcharczuk/go-chart/v2"
)

// MimePNG is the media type of every rendered chart.
const MimePNG = "image/png"

// Options configures the canvas and the render pool.
type Options struct {
	Width    int
	Height   int
	DPI      float64
	Workers  int
	PadRatio float64
}

// DefaultOptions returns the canvas settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Width:    contract.DefaultChartWidth,
		Height:   contract.DefaultChartHeight,
		DPI:      contract.DefaultChartDPI,
		Workers:  contract.DefaultRenderWorkers,
		PadRatio: DefaultPadRatio,
	}
}

// OptionsFromConfig maps the validated chart configuration onto composer options.
func OptionsFromConfig(cfg contract.ChartConfig) Options {
	opts := DefaultOptions()
	if cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if cfg.Height > 0 {
		opts.Height = cfg.Height
	}
	if cfg.DPI > 0 {
		opts.DPI = cfg.DPI
	}
	if cfg.RenderWorkers > 0 {
		opts.Workers = cfg.RenderWorkers
	}
	return opts
}

// Result is a rendered chart plus the layout decisions callers may want to show.
type Result struct {
	Image        []byte                     `json:"-"`
	MimeType     string                     `json:"mime_type"`
	Axes         Axes                       `json:"axes"`
	LabelAxisMap map[string]schema.AxisSide `json:"label_axis_map"`
}

// Composer renders chart requests. Each render holds one slot of a bounded pool for the
// lifetime of its canvas, so no two renders ever share a drawing surface.
type Composer struct {
	opts  Options
	slots chan struct{}
}

// NewComposer creates a composer with opts, filling zero fields from DefaultOptions.
func NewComposer(opts Options) *Composer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.PadRatio <= 0 {
		opts.PadRatio = def.PadRatio
	}
	return &Composer{opts: opts, slots: make(chan struct{}, opts.Workers)}
}

// Options returns the effective options.
func (c *Composer) Options() Options {
	return c.opts
}

// Render plans and draws a request. Failures while drawing are reported as ErrRenderFailure.
func (c *Composer) Render(ctx context.Context, req *ChartRequest) (*Result, error) {
	if req == nil {
		return nil, contract.BadRequestf("empty payload")
	}
	layout := Plan(req, c.opts.PadRatio)

	img, err := c.draw(ctx, layout)
	if err != nil {
		return nil, err
	}
	return &Result{
		Image:        img,
		MimeType:     MimePNG,
		Axes:         layout.Axes,
		LabelAxisMap: layout.LabelAxisMap,
	}, nil
}

// draw acquires a canvas slot, renders the layout and releases the slot on every path.
func (c *Composer) draw(ctx context.Context, layout *Layout) (img []byte, err error) {
	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for a canvas: %v", contract.ErrRenderFailure, ctx.Err())
	}
	defer func() { <-c.slots }()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("title", layout.Title).Msg("chart render panicked")
			img, err = nil, fmt.Errorf("%w: %v", contract.ErrRenderFailure, r)
		}
	}()

	ch := c.build(layout)
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		log.Error().Err(err).Str("title", layout.Title).Msg("chart render failed")
		return nil, fmt.Errorf("%w: %v", contract.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

// build turns a layout into a go-chart value. go-chart draws its primary y axis on the right,
// so the left-hand primary side is drawn on go-chart's secondary axis and vice versa.
func (c *Composer) build(layout *Layout) gochart.Chart {
	ch := gochart.Chart{
		Title:      layout.Title,
		Width:      c.opts.Width,
		Height:     c.opts.Height,
		DPI:        c.opts.DPI,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:           layout.XTitle,
			Range:          &gochart.ContinuousRange{Min: layout.XRange.Min, Max: layout.XRange.Max},
			ValueFormatter: formatValue,
		},
		YAxisSecondary: gochart.YAxis{
			Name:           layout.Axes.Primary,
			Range:          axisRange(layout.Primary, layout.PrimaryOK),
			ValueFormatter: formatValue,
		},
	}
	for _, t := range layout.XTicks {
		ch.XAxis.Ticks = append(ch.XAxis.Ticks, gochart.Tick{Value: t.Value, Label: t.Label})
	}

	if layout.Axes.Secondary != nil {
		ch.YAxis = gochart.YAxis{
			Name:           *layout.Axes.Secondary,
			Range:          axisRange(layout.Secondary, layout.SecondaryOK),
			ValueFormatter: formatValue,
		}
	} else {
		ch.YAxis = gochart.YAxis{
			Style: gochart.Style{Hidden: true},
			Range: axisRange(Range{}, false),
		}
	}

	for _, s := range layout.Series {
		ch.Series = append(ch.Series, gapSeries{
			Name:    s.Label,
			YAxis:   drawnAxis(s.Side),
			Style:   gochart.Style{StrokeColor: s.Color, StrokeWidth: 2},
			XValues: layout.X,
			YValues: s.Values,
		})
	}

	if len(ch.Series) == 0 {
		// go-chart refuses to draw without a visible series; an empty one keeps the axes.
		ch.Series = []gochart.Series{gapSeries{YAxis: drawnAxis(schema.PrimaryAxis)}}
	} else {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	return ch
}

// drawnAxis maps a side onto the go-chart axis that is drawn there.
func drawnAxis(side schema.AxisSide) gochart.YAxisType {
	if side == schema.SecondaryAxis {
		return gochart.YAxisPrimary
	}
	return gochart.YAxisSecondary
}

// axisRange is the explicit range of a side, or the unit interval when it has no values.
func axisRange(r Range, ok bool) *gochart.ContinuousRange {
	if !ok {
		return &gochart.ContinuousRange{Min: 0, Max: 1}
	}
	return &gochart.ContinuousRange{Min: r.Min, Max: r.Max}
}

func formatValue(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 4, 64)
	}
	return fmt.Sprint(v)
}
