package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeFor(t *testing.T) {
	_, ok := RangeFor(nil, DefaultPadRatio)
	assert.False(t, ok)

	_, ok = RangeFor([]float64{math.NaN(), math.NaN()}, DefaultPadRatio)
	assert.False(t, ok)

	r, ok := RangeFor([]float64{5, 5, 5}, DefaultPadRatio)
	assert.True(t, ok)
	assert.InDelta(t, 4.75, r.Min, 1e-12)
	assert.InDelta(t, 5.25, r.Max, 1e-12)

	r, ok = RangeFor([]float64{0, 0}, DefaultPadRatio)
	assert.True(t, ok)
	assert.Equal(t, Range{Min: -1, Max: 1}, r)

	r, ok = RangeFor([]float64{-2, -2}, DefaultPadRatio)
	assert.True(t, ok)
	assert.InDelta(t, -2.1, r.Min, 1e-12)
	assert.InDelta(t, -1.9, r.Max, 1e-12)

	r, ok = RangeFor([]float64{1, math.NaN(), 3}, DefaultPadRatio)
	assert.True(t, ok)
	assert.InDelta(t, 0.9, r.Min, 1e-12)
	assert.InDelta(t, 3.1, r.Max, 1e-12)
}

func TestRangeForBracketsNonDegenerateData(t *testing.T) {
	samples := [][]float64{
		{1, 2},
		{-10, 0, 10},
		{0.0165, 0.0171, 0.0169},
		{1e6, 1e6 + 1},
		{-3, -1, math.NaN(), -2},
	}
	for _, values := range samples {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range values {
			if !Invalid(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
		r, ok := RangeFor(values, DefaultPadRatio)
		assert.True(t, ok)
		assert.Less(t, r.Min, lo)
		assert.Greater(t, r.Max, hi)
	}
}

func TestRangeForWidensSpansLostToRounding(t *testing.T) {
	samples := [][]float64{
		{1e16, 1e16 + 2},
		{5e-324, 5e-324},
		{-1e16 - 2, -1e16},
	}
	for _, values := range samples {
		r, ok := RangeFor(values, DefaultPadRatio)
		require.True(t, ok)
		assert.Less(t, r.Min, values[0])
		assert.Greater(t, r.Max, values[len(values)-1])
	}

	r, ok := RangeFor([]float64{1, 2}, 0)
	require.True(t, ok)
	assert.Equal(t, math.Nextafter(1, math.Inf(-1)), r.Min)
	assert.Equal(t, math.Nextafter(2, math.Inf(1)), r.Max)
}

func TestRangeAccumulatorIsPerSide(t *testing.T) {
	var left, right rangeAccumulator
	left.add([]float64{0.01, 0.02})
	right.add([]float64{1.0, 1.1})

	l, _ := left.finish(DefaultPadRatio)
	r, _ := right.finish(DefaultPadRatio)
	assert.InDelta(t, 0.0095, l.Min, 1e-12)
	assert.InDelta(t, 0.0205, l.Max, 1e-12)
	assert.InDelta(t, 0.995, r.Min, 1e-12)
	assert.InDelta(t, 1.105, r.Max, 1e-12)
}
