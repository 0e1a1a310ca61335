package chart

import "github.com/cellplot/cellplot/schema"

// Allocation is the result of placing resolved units onto the two rendered axis sides.
type Allocation struct {
	Units []string                   // distinct units in first-occurrence order
	Sides map[string]schema.AxisSide // unit -> side
}

// AllocateAxes places the first distinct unit on the primary side and every other distinct
// unit on the secondary side, where they share one scale.
func AllocateAxes(units []string) Allocation {
	a := Allocation{Sides: make(map[string]schema.AxisSide)}
	for _, u := range units {
		if _, seen := a.Sides[u]; seen {
			continue
		}
		side := schema.SecondaryAxis
		if len(a.Units) == 0 {
			side = schema.PrimaryAxis
		}
		a.Units = append(a.Units, u)
		a.Sides[u] = side
	}
	return a
}

// RenderedSides returns how many vertical axes are drawn, at most two.
func (a Allocation) RenderedSides() int {
	return min(len(a.Units), 2)
}

// HasSecondary reports whether a secondary axis is drawn.
func (a Allocation) HasSecondary() bool {
	return len(a.Units) >= 2
}

// Side returns the side of a unit; unknown units go to the primary side.
func (a Allocation) Side(unit string) schema.AxisSide {
	if s, ok := a.Sides[unit]; ok {
		return s
	}
	return schema.PrimaryAxis
}

// PrimaryTitle is the unit of the first group, or fallback when there are no series.
func (a Allocation) PrimaryTitle(fallback string) string {
	if len(a.Units) == 0 {
		return fallback
	}
	return a.Units[0]
}

// SecondaryTitle is the unit of the second group, or nil when there is no secondary axis.
func (a Allocation) SecondaryTitle() *string {
	if !a.HasSecondary() {
		return nil
	}
	t := a.Units[1]
	return &t
}
