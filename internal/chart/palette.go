package chart

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is the fixed color cycle for series without a caller color.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// tabColors names the palette entries the way plotting libraries commonly do ("tab:blue").
var tabColors = map[string]string{
	"tab:blue": "#1f77b4", "tab:orange": "#ff7f0e", "tab:green": "#2ca02c",
	"tab:red": "#d62728", "tab:purple": "#9467bd", "tab:brown": "#8c564b",
	"tab:pink": "#e377c2", "tab:gray": "#7f7f7f", "tab:grey": "#7f7f7f",
	"tab:olive": "#bcbd22", "tab:cyan": "#17becf",
}

var (
	hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbColorRe = regexp.MustCompile(`^rgba?\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*(,\s*[0-9.]+\s*)?\)$`)
)

// ColorFor returns the palette color of the i-th series that has no caller color.
func ColorFor(i int) string {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}

// ParseColor parses a caller-supplied color. The boolean is false when the text is not a
// color we understand, in which case the caller color is treated as absent.
func ParseColor(s string) (drawing.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return drawing.Color{}, false
	}
	if hex, ok := tabColors[s]; ok {
		s = hex
	}
	switch {
	case hexColorRe.MatchString(s):
		c := drawing.ColorFromHex(s[:min(len(s), 7)])
		if len(s) == 9 {
			a, _ := strconv.ParseUint(s[7:], 16, 8)
			c.A = uint8(a)
		}
		return c, true
	case rgbColorRe.MatchString(s):
		return drawing.ParseColor(s), true
	}
	c := drawing.ColorFromKnown(s)
	if c.IsZero() {
		return drawing.Color{}, false
	}
	return c, true
}

// seriesColors picks one color per series: the caller color when it parses, otherwise the
// next palette color. Only series without a usable caller color advance the cycle.
func seriesColors(specs []SeriesSpec) []drawing.Color {
	colors := make([]drawing.Color, len(specs))
	next := 0
	for i, s := range specs {
		if c, ok := ParseColor(s.Color); ok {
			colors[i] = c
			continue
		}
		colors[i] = drawing.ColorFromHex(ColorFor(next))
		next++
	}
	return colors
}
