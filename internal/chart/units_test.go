package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestResolveUnit(t *testing.T) {
	tests := []struct {
		label    string
		explicit *string
		expected string
	}{
		{"IR", nil, "Ω"},
		{"  ir ", nil, "Ω"},
		{"avg_qd", nil, "Ah"},
		{"Qd", nil, "Ah"},
		{"q_discharge", nil, "Ah"},
		{"CE", nil, "%"},
		{"tmax", nil, "°C"},
		{"chargetime", nil, "min"},
		{"Resistance (mΩ)", nil, "mΩ"},
		{"Cell Voltage (V) ", nil, "V"},
		{"Retention %", nil, "%"},
		{"PERCENT left", nil, "%"},
		{"Cap mAh", nil, "mAh"},
		{"Energy Wh", nil, "Wh"},
		{"Temp °C", nil, "°C"},
		{"Rho", nil, "Rho"},
		{"", nil, Unitless},
		{"   ", nil, Unitless},
		{"IR", strPtr("mOhm"), "mOhm"},
		{"", strPtr("  V "), "V"},
		{"Qd", strPtr("   "), "Ah"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveUnit(tt.label, tt.explicit))
		})
	}
}

func TestResolveUnitSpecificSymbolsFirst(t *testing.T) {
	// "mah" contains "a" and "ah"; the longest symbol must win.
	assert.Equal(t, "mAh", ResolveUnit("pack mAh", nil))
	assert.Equal(t, "mV", ResolveUnit("ripple mV", nil))
	assert.Equal(t, "mΩ", ResolveUnit("dcr mΩ", nil))
}

func TestResolveUnitTotalAndDeterministic(t *testing.T) {
	inputs := []string{"", "x", "IR", "(", ")", "()", "a (b)", "日本語", "\t", "%%", "Ω"}
	for _, in := range inputs {
		first := ResolveUnit(in, nil)
		assert.NotEmpty(t, first, in)
		assert.Equal(t, first, ResolveUnit(in, nil), in)
	}
}
