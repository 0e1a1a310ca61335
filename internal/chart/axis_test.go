package chart

import (
	"testing"

	"github.com/cellplot/cellplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAxes(t *testing.T) {
	tests := []struct {
		name      string
		units     []string
		distinct  []string
		sides     int
		secondary bool
	}{
		{"empty", nil, nil, 0, false},
		{"single", []string{"Ω"}, []string{"Ω"}, 1, false},
		{"repeated single", []string{"Ω", "Ω", "Ω"}, []string{"Ω"}, 1, false},
		{"two", []string{"Ω", "Ah"}, []string{"Ω", "Ah"}, 2, true},
		{"three", []string{"Ω", "Ah", "°C"}, []string{"Ω", "Ah", "°C"}, 2, true},
		{"interleaved", []string{"Ah", "Ω", "Ah", "V"}, []string{"Ah", "Ω", "V"}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AllocateAxes(tt.units)
			assert.Equal(t, tt.distinct, a.Units)
			assert.Equal(t, tt.sides, a.RenderedSides())
			assert.Equal(t, tt.secondary, a.HasSecondary())
			if len(tt.distinct) > 0 {
				assert.Equal(t, schema.PrimaryAxis, a.Sides[tt.distinct[0]])
			}
			for _, u := range tt.distinct[min(1, len(tt.distinct)):] {
				assert.Equal(t, schema.SecondaryAxis, a.Sides[u], u)
			}
		})
	}
}

func TestAllocateAxesFirstOccurrenceWins(t *testing.T) {
	// Alphabetical order or value magnitude must not matter.
	a := AllocateAxes([]string{"V", "A"})
	assert.Equal(t, schema.PrimaryAxis, a.Side("V"))
	assert.Equal(t, schema.SecondaryAxis, a.Side("A"))
}

func TestAllocationTitles(t *testing.T) {
	a := AllocateAxes(nil)
	assert.Equal(t, "Value", a.PrimaryTitle("Value"))
	assert.Nil(t, a.SecondaryTitle())

	a = AllocateAxes([]string{"Ω", "Ah", "V"})
	assert.Equal(t, "Ω", a.PrimaryTitle("Value"))
	require.NotNil(t, a.SecondaryTitle())
	assert.Equal(t, "Ah", *a.SecondaryTitle())
	assert.Equal(t, schema.PrimaryAxis, a.Side("unknown"))
}
