package chart

import "math"

// DefaultPadRatio is the share of the value span added on both ends of an axis.
const DefaultPadRatio = 0.05

// Range is a closed numeric interval.
type Range struct {
	Min float64
	Max float64
}

// RangeFor returns the padded range of the valid values. The boolean is false when there is
// no valid value, in which case the axis keeps its automatic scale.
func RangeFor(values []float64, padRatio float64) (Range, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if Invalid(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return Range{}, false
	}
	return pad(lo, hi, padRatio), true
}

// rangeAccumulator collects the values of every series on one axis side.
type rangeAccumulator struct {
	values []float64
}

func (a *rangeAccumulator) add(values []float64) {
	a.values = append(a.values, values...)
}

func (a *rangeAccumulator) finish(padRatio float64) (Range, bool) {
	return RangeFor(a.values, padRatio)
}

// pad widens [lo, hi] by ratio of its span. A span too small to survive float rounding is
// still widened by at least one ulp on each end, so the result always strictly contains it.
func pad(lo, hi, ratio float64) Range {
	d := (hi - lo) * ratio
	if lo == hi {
		d = 1.0
		if hi != 0 {
			d = math.Abs(hi) * 0.05
		}
	}
	r := Range{Min: lo - d, Max: hi + d}
	if r.Min >= lo {
		r.Min = math.Nextafter(lo, math.Inf(-1))
	}
	if r.Max <= hi {
		r.Max = math.Nextafter(hi, math.Inf(1))
	}
	return r
}
