package chart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Invalid reports whether v is the invalid-value marker.
func Invalid(v float64) bool {
	return math.IsNaN(v)
}

// Normalize converts raw values into floats, positionally. Anything that is not a finite
// number becomes NaN, the invalid marker.
func Normalize(raw []any) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = toFloat(v)
	}
	return out
}

// NormalizeTo is Normalize with the result truncated or NaN-padded to length n.
func NormalizeTo(raw []any, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(raw) {
			out[i] = toFloat(raw[i])
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func toFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		return parseFloat(string(x))
	case string:
		return parseFloat(x)
	default:
		return math.NaN()
	}
	if math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}
