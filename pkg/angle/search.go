package angle

import (
	"sort"

	"github.com/matzehuels/drainplan/pkg/geom"
	"github.com/matzehuels/drainplan/pkg/interval"
)

// Params are the tuning constants of the search.
type Params struct {
	// Radius is the obstacle search radius in model units at scale 1/100; it
	// grows linearly with the drawing scale.
	Radius float64
	// Clearance is the minimum free margin, in degrees, on both sides of an
	// accepted hint. It is also the half-width excluded around a rejected
	// candidate.
	Clearance float64
	// MarkerLength is the length of the marker recorded for a chosen heading.
	MarkerLength float64
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return Params{Radius: 5, Clearance: 20, MarkerLength: 5}
}

// Hint is an optional preferred heading.
type Hint struct {
	Angle float64
	Valid bool
}

// NoHint is the absent hint.
var NoHint = Hint{}

// HintAt returns a hint for heading a.
func HintAt(a float64) Hint { return Hint{Angle: a, Valid: true} }

// Searcher looks up free headings against a catalog at one drawing scale.
type Searcher struct {
	Catalog *Catalog
	Params  Params
	Scale   float64
}

// Radius returns the obstacle radius at the searcher's scale.
func (s *Searcher) Radius() float64 {
	return s.Params.Radius * s.Scale / 100
}

// Free returns the unobstructed heading ranges around pos, additionally
// excluding Clearance degrees on both sides of each heading in avoid.
func (s *Searcher) Free(pos geom.Point, avoid []float64) []interval.Range {
	blocked := s.Catalog.Blocked(pos, s.Radius())
	for _, a := range avoid {
		AddArc(blocked, a, s.Params.Clearance)
	}
	return blocked.Complement(0, 360)
}

// Search picks a heading for a label at pos. It returns false when every
// heading is blocked. A heading that does not come from the hint is recorded
// as a marker in the catalog.
func (s *Searcher) Search(pos geom.Point, hint Hint, avoid []float64) (float64, bool) {
	free := s.Free(pos, avoid)
	a, fromHint, ok := Choose(free, hint, s.Params.Clearance)
	if !ok {
		return 0, false
	}
	if !fromHint {
		s.Catalog.AddMarker(Vector{P0: pos.Move(s.Params.MarkerLength, a), P1: pos})
	}
	return a, true
}

// Choose picks a heading from free ranges. The hint wins when some range
// contains it with more than clearance degrees to spare on both sides;
// otherwise the result lies two thirds of the way up the widest range.
func Choose(free []interval.Range, hint Hint, clearance float64) (a float64, fromHint, ok bool) {
	var widest interval.Range
	size := 0.0
	for _, r := range free {
		if hint.Valid && r.Contains(hint.Angle) && r.Min+clearance < hint.Angle && r.Max-clearance > hint.Angle {
			return hint.Angle, true, true
		}
		if size < r.Size() {
			size = r.Size()
			widest = r
		}
	}
	if size <= 0 {
		return 0, false, false
	}
	return (widest.Max*2 + widest.Min) / 3, false, true
}

// AddArc blocks the arc of half-width around center, wrapping at 0°/360°.
func AddArc(s *interval.Set, center, halfWidth float64) {
	lo, hi := center-halfWidth, center+halfWidth
	switch {
	case hi-lo >= 360:
		s.Add(0, 360)
	case lo < 0:
		s.Add(0, hi)
		s.Add(lo+360, 360)
	case hi > 360:
		s.Add(lo, 360)
		s.Add(0, hi-360)
	default:
		s.Add(lo, hi)
	}
}

// Bisect splits the widest gap among 0°, 180°, 360° and the given exit
// offsets, measured upward from 0°. straight reports the case where the only
// exit runs straight ahead, in which the caller should ask the downstream node
// instead.
func Bisect(offsets []float64) (a float64, straight bool) {
	marks := append([]float64{180, 360}, offsets...)
	sort.Float64s(marks)
	if len(marks) == 3 && marks[0] == 0 && marks[1] == 180 && marks[2] == 360 {
		return 0, true
	}

	prev, widest := 0.0, 0.0
	for _, m := range marks {
		if widest < m-prev {
			widest = m - prev
			a = (prev + m) / 2
		}
		prev = m
	}
	return a, false
}
