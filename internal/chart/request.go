package chart

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cellplot/cellplot/internal/contract"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the request leaves a field out.
const (
	DefaultType   = "line"
	DefaultXTitle = "x"
	DefaultYTitle = "Value"
	DefaultTitle  = "Chart"
)

// ChartRequest is a chart.js-shaped chart description.
type ChartRequest struct {
	Type    string       `json:"type,omitempty" yaml:"type,omitempty"`
	Data    ChartData    `json:"data" yaml:"data"`
	Options ChartOptions `json:"options" yaml:"options"`
}

// ChartData holds the shared x categories and the series.
type ChartData struct {
	Labels   []any     `json:"labels,omitempty" yaml:"labels,omitempty"`
	Datasets []Dataset `json:"datasets" yaml:"datasets"`
}

// Dataset is one series of a request. BorderColor takes precedence over Color.
type Dataset struct {
	Label       string  `json:"label" yaml:"label"`
	Data        []any   `json:"data" yaml:"data"`
	Unit        *string `json:"unit,omitempty" yaml:"unit,omitempty"`
	BorderColor string  `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// ChartOptions holds titles. A nil Text means the default applies.
type ChartOptions struct {
	Scales struct {
		X AxisOption `json:"x" yaml:"x"`
		Y AxisOption `json:"y" yaml:"y"`
	} `json:"scales" yaml:"scales"`
	Plugins struct {
		Title TextOption `json:"title" yaml:"title"`
	} `json:"plugins" yaml:"plugins"`
}

// AxisOption configures one axis.
type AxisOption struct {
	Title TextOption `json:"title" yaml:"title"`
}

// TextOption is an optional piece of text.
type TextOption struct {
	Text *string `json:"text,omitempty" yaml:"text,omitempty"`
}

// SeriesSpec is a dataset after defaults and color precedence have been applied.
type SeriesSpec struct {
	Label  string
	Values []any
	Unit   *string
	Color  string
}

// ParseRequest decodes a JSON payload. The payload is either a request object or an array
// whose first element is used.
func ParseRequest(data []byte) (*ChartRequest, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, contract.BadRequestf("empty payload")
	}

	dec := func(v any) error {
		d := json.NewDecoder(bytes.NewReader(data))
		d.UseNumber()
		return d.Decode(v)
	}

	if data[0] == '[' {
		var reqs []ChartRequest
		if err := dec(&reqs); err != nil {
			return nil, contract.BadRequestf("invalid chart request: %v", err)
		}
		if len(reqs) == 0 {
			return nil, contract.BadRequestf("empty payload")
		}
		return &reqs[0], nil
	}

	var req ChartRequest
	if err := dec(&req); err != nil {
		return nil, contract.BadRequestf("invalid chart request: %v", err)
	}
	return &req, nil
}

// ParseRequestYAML decodes a YAML chart request with the same shape rules as ParseRequest.
func ParseRequestYAML(data []byte) (*ChartRequest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, contract.BadRequestf("invalid chart request: %v", err)
	}
	if len(doc.Content) == 0 {
		return nil, contract.BadRequestf("empty payload")
	}
	root := doc.Content[0]

	if root.Kind == yaml.SequenceNode {
		var reqs []ChartRequest
		if err := root.Decode(&reqs); err != nil {
			return nil, contract.BadRequestf("invalid chart request: %v", err)
		}
		if len(reqs) == 0 {
			return nil, contract.BadRequestf("empty payload")
		}
		return &reqs[0], nil
	}

	var req ChartRequest
	if err := root.Decode(&req); err != nil {
		return nil, contract.BadRequestf("invalid chart request: %v", err)
	}
	return &req, nil
}

// ChartType returns the requested chart type. Every type is drawn as lines.
func (r *ChartRequest) ChartType() string {
	if r.Type == "" {
		return DefaultType
	}
	return r.Type
}

// XTitle returns the x axis title.
func (r *ChartRequest) XTitle() string {
	return textOr(r.Options.Scales.X.Title.Text, DefaultXTitle)
}

// YTitle returns the primary axis title used when there are no series.
func (r *ChartRequest) YTitle() string {
	return textOr(r.Options.Scales.Y.Title.Text, DefaultYTitle)
}

// Title returns the chart title.
func (r *ChartRequest) Title() string {
	return textOr(r.Options.Plugins.Title.Text, DefaultTitle)
}

// Categories returns the x categories. Without labels the categories are 0..N-1 where N is
// the longest dataset.
func (r *ChartRequest) Categories() []any {
	if len(r.Data.Labels) > 0 {
		return r.Data.Labels
	}
	n := 0
	for _, ds := range r.Data.Datasets {
		n = max(n, len(ds.Data))
	}
	cats := make([]any, n)
	for i := range cats {
		cats[i] = i
	}
	return cats
}

// Series returns the datasets in request order.
func (r *ChartRequest) Series() []SeriesSpec {
	specs := make([]SeriesSpec, len(r.Data.Datasets))
	for i, ds := range r.Data.Datasets {
		color := ds.BorderColor
		if color == "" {
			color = ds.Color
		}
		specs[i] = SeriesSpec{Label: ds.Label, Values: ds.Data, Unit: ds.Unit, Color: color}
	}
	return specs
}

func textOr(text *string, fallback string) string {
	if text == nil {
		return fallback
	}
	return *text
}

// categoryText renders a category the way it should appear on a tick label.
func categoryText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
