package chart

import (
	"encoding/json"
	"testing"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRequest = `{
  "type": "line",
  "data": {
    "labels": [1, 2, 3],
    "datasets": [
      {"label": "IR", "data": [0.016, 0.017, "N/A"], "borderColor": "#ff0000", "color": "#00ff00"},
      {"label": "Qd", "data": [1.07, null, 1.05], "color": "tab:green"}
    ]
  },
  "options": {
    "scales": {"x": {"title": {"text": "Cycle"}}, "y": {"title": {"text": "Metric"}}},
    "plugins": {"title": {"text": "b1c0"}}
  }
}`

func TestParseRequestObject(t *testing.T) {
	req, err := ParseRequest([]byte(sampleRequest))
	require.NoError(t, err)

	assert.Equal(t, "line", req.ChartType())
	assert.Equal(t, "Cycle", req.XTitle())
	assert.Equal(t, "Metric", req.YTitle())
	assert.Equal(t, "b1c0", req.Title())
	assert.Equal(t, []any{json.Number("1"), json.Number("2"), json.Number("3")}, req.Categories())

	specs := req.Series()
	require.Len(t, specs, 2)
	assert.Equal(t, "#ff0000", specs[0].Color)
	assert.Equal(t, "tab:green", specs[1].Color)
	assert.Nil(t, specs[1].Values[1])
}

func TestParseRequestArrayUsesFirstElement(t *testing.T) {
	req, err := ParseRequest([]byte("[" + sampleRequest + `, {"type": "bar"}]`))
	require.NoError(t, err)
	assert.Equal(t, "b1c0", req.Title())
}

func TestParseRequestErrors(t *testing.T) {
	for _, payload := range []string{"", "  ", "null", "[]", "[ ]", "{", `"chart"`, "42"} {
		t.Run(payload, func(t *testing.T) {
			req, err := ParseRequest([]byte(payload))
			assert.Nil(t, req)
			assert.ErrorIs(t, err, contract.ErrBadRequest)
		})
	}
}

func TestRequestDefaults(t *testing.T) {
	req, err := ParseRequest([]byte(`{"data": {"datasets": [{"label": "a", "data": [1, 2, 3]}, {"label": "b", "data": [1]}]}}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultType, req.ChartType())
	assert.Equal(t, DefaultXTitle, req.XTitle())
	assert.Equal(t, DefaultYTitle, req.YTitle())
	assert.Equal(t, DefaultTitle, req.Title())
	assert.Equal(t, []any{0, 1, 2}, req.Categories())
}

func TestRequestExplicitEmptyTitle(t *testing.T) {
	req, err := ParseRequest([]byte(`{"options": {"plugins": {"title": {"text": ""}}}}`))
	require.NoError(t, err)
	assert.Equal(t, "", req.Title())
	assert.Empty(t, req.Categories())
	assert.Empty(t, req.Series())
}

func TestParseRequestYAML(t *testing.T) {
	doc := `
data:
  labels: [a, b]
  datasets:
    - label: Voltage
      data: [3.6, "3.7"]
      borderColor: "#123456"
      unit: V
options:
  plugins:
    title:
      text: yaml chart
`
	req, err := ParseRequestYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "yaml chart", req.Title())
	assert.Equal(t, []any{"a", "b"}, req.Categories())

	specs := req.Series()
	require.Len(t, specs, 1)
	assert.Equal(t, "#123456", specs[0].Color)
	require.NotNil(t, specs[0].Unit)
	assert.Equal(t, "V", *specs[0].Unit)
	assert.Equal(t, []float64{3.6, 3.7}, Normalize(specs[0].Values))
}

func TestParseRequestYAMLSequence(t *testing.T) {
	req, err := ParseRequestYAML([]byte("- options: {plugins: {title: {text: first}}}\n- type: bar\n"))
	require.NoError(t, err)
	assert.Equal(t, "first", req.Title())

	_, err = ParseRequestYAML([]byte("[]"))
	assert.ErrorIs(t, err, contract.ErrBadRequest)

	_, err = ParseRequestYAML([]byte(""))
	assert.ErrorIs(t, err, contract.ErrBadRequest)

	_, err = ParseRequestYAML([]byte("data: [unclosed"))
	assert.ErrorIs(t, err, contract.ErrBadRequest)
}

func TestCategoryText(t *testing.T) {
	assert.Equal(t, "12", categoryText(12))
	assert.Equal(t, "1.5", categoryText(1.5))
	assert.Equal(t, "7", categoryText(json.Number("7")))
	assert.Equal(t, "x", categoryText("x"))
	assert.Equal(t, "", categoryText(nil))
	assert.Equal(t, "true", categoryText(true))
}
