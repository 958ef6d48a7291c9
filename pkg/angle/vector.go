package angle

import (
	"github.com/matzehuels/drainplan/pkg/geom"
	"github.com/matzehuels/drainplan/pkg/interval"
)

// Vector is a segment between two model-unit points.
type Vector struct {
	P0, P1 geom.Point
}

// Ranges returns the headings spanned by v as seen from pt. A span wider than a
// half turn is the complementary arc and comes back split at 0°/360°.
// An endpoint coinciding with pt contributes no direction, so a segment
// leaving pt blocks the single heading of its far end.
func (v Vector) Ranges(pt geom.Point) []interval.Range {
	var dirs []float64
	for _, p := range [2]geom.Point{v.P0, v.P1} {
		d := p.Sub(pt)
		if d.Length() != 0 {
			dirs = append(dirs, d.Heading())
		}
	}
	switch len(dirs) {
	case 0:
		return nil
	case 1:
		return []interval.Range{{Min: dirs[0], Max: dirs[0]}}
	}

	lo, hi := dirs[0], dirs[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo > 180 {
		return []interval.Range{{Min: 0, Max: lo}, {Min: hi, Max: 360}}
	}
	return []interval.Range{{Min: lo, Max: hi}}
}

// Near reports whether either endpoint of v is closer than radius to pt.
func (v Vector) Near(pt geom.Point, radius float64) bool {
	return pt.Distance(v.P0) < radius || pt.Distance(v.P1) < radius
}
