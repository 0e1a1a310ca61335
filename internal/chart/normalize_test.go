package chart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	raw := []any{1, "2.5", " 3 ", nil, "N/A", true, json.Number("4"), math.Inf(1), int64(7), float32(0.5), "", map[string]any{}}
	got := Normalize(raw)
	require.Len(t, got, len(raw))

	assert.Equal(t, 1.0, got[0])
	assert.Equal(t, 2.5, got[1])
	assert.Equal(t, 3.0, got[2])
	assert.True(t, Invalid(got[3]))
	assert.True(t, Invalid(got[4]))
	assert.True(t, Invalid(got[5]))
	assert.Equal(t, 4.0, got[6])
	assert.True(t, Invalid(got[7]))
	assert.Equal(t, 7.0, got[8])
	assert.Equal(t, 0.5, got[9])
	assert.True(t, Invalid(got[10]))
	assert.True(t, Invalid(got[11]))
}

func TestNormalizeKeepsZero(t *testing.T) {
	got := Normalize([]any{0, "0", 0.0})
	for _, v := range got {
		assert.False(t, Invalid(v))
		assert.Equal(t, 0.0, v)
	}
}

func TestNormalizeTo(t *testing.T) {
	padded := NormalizeTo([]any{1, 2}, 4)
	require.Len(t, padded, 4)
	assert.Equal(t, []float64{1, 2}, padded[:2])
	assert.True(t, Invalid(padded[2]))
	assert.True(t, Invalid(padded[3]))

	truncated := NormalizeTo([]any{1, 2, 3}, 2)
	assert.Equal(t, []float64{1, 2}, truncated)

	assert.Empty(t, NormalizeTo(nil, 0))
}
