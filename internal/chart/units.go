package chart

import (
	"regexp"
	"strings"
)

// Unitless is the grouping key of a series with no label and no explicit unit.
const Unitless = "unitless"

// knownUnits maps lowercase metric names to their canonical unit symbol.
var knownUnits = map[string]string{
	"avg_ir": "Ω", "ir": "Ω",
	"avg_qd": "Ah", "qd": "Ah",
	"avg_qc": "Ah", "qc": "Ah",
	"q_charge": "Ah", "q_discharge": "Ah",
	"ce": "%", "soh": "%",
	"voltage": "V", "avg_voltage": "V",
	"current": "A", "avg_current": "A",
	"temperature": "°C", "avg_temp": "°C",
	"tavg": "°C", "tmin": "°C", "tmax": "°C",
	"chargetime": "min",
}

// unitSymbols is scanned in order against the lowercased label. Order matters: a prefixed or
// compound symbol must come before any symbol it contains.
var unitSymbols = []string{"mΩ", "Ω", "mAh", "Ah", "Wh", "°C", "mV", "mA", "V", "W", "A", "K", "C", "s"}

var trailingUnitRe = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// ResolveUnit returns the axis grouping key of a series. An explicit unit wins. Otherwise the
// unit is inferred from the label, and when nothing matches the label itself is the key.
func ResolveUnit(label string, explicit *string) string {
	if explicit != nil {
		if u := strings.TrimSpace(*explicit); u != "" {
			return u
		}
	}

	key := strings.TrimSpace(label)
	low := strings.ToLower(key)
	if u, ok := knownUnits[low]; ok {
		return u
	}
	if m := trailingUnitRe.FindStringSubmatch(key); m != nil {
		if u := strings.TrimSpace(m[1]); u != "" {
			return u
		}
	}
	if strings.Contains(key, "%") || strings.Contains(low, "percent") {
		return "%"
	}
	for _, sym := range unitSymbols {
		if strings.Contains(low, strings.ToLower(sym)) {
			return sym
		}
	}
	if key == "" {
		return Unitless
	}
	return key
}
