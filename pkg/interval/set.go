// Package interval maintains sorted sets of disjoint numeric ranges.
//
// The angle resolver uses a [Set] to accumulate the headings blocked around a
// node and then asks for the complement to find free directions:
//
//	var blocked interval.Set
//	blocked.Add(10, 40)
//	blocked.Add(30, 90)
//	blocked.Complement(0, 360) // [0,10) [90,360)
package interval

import (
	"fmt"
	"strings"
)

// Range is a closed numeric range [Min, Max].
type Range struct {
	Min, Max float64
}

// Size returns Max-Min.
func (r Range) Size() float64 { return r.Max - r.Min }

// Contains reports whether v lies in r, bounds included.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

func (r Range) String() string { return fmt.Sprintf("[%g,%g]", r.Min, r.Max) }

// Set is a union of ranges kept sorted by lower bound, pairwise disjoint and
// never adjacent. The zero value is an empty set.
type Set struct {
	ranges []Range
}

// Add inserts [min, max], merging it with every stored range it overlaps or
// touches. A single point [v, v] is kept; inverted ranges are ignored.
func (s *Set) Add(min, max float64) {
	if min > max {
		return
	}
	out := make([]Range, 0, len(s.ranges)+1)
	i := 0
	for ; i < len(s.ranges) && s.ranges[i].Max < min; i++ {
		out = append(out, s.ranges[i])
	}
	for ; i < len(s.ranges) && s.ranges[i].Min <= max; i++ {
		if s.ranges[i].Min < min {
			min = s.ranges[i].Min
		}
		if s.ranges[i].Max > max {
			max = s.ranges[i].Max
		}
	}
	out = append(out, Range{min, max})
	out = append(out, s.ranges[i:]...)
	s.ranges = out
}

// AddRange inserts r.
func (s *Set) AddRange(r Range) { s.Add(r.Min, r.Max) }

// Ranges returns a copy of the stored ranges in ascending order.
func (s *Set) Ranges() []Range {
	return append([]Range(nil), s.ranges...)
}

// Len returns the number of stored ranges.
func (s *Set) Len() int { return len(s.ranges) }

// Covers reports whether v lies inside a stored range.
func (s *Set) Covers(v float64) bool {
	for _, r := range s.ranges {
		if r.Contains(v) {
			return true
		}
		if r.Min > v {
			break
		}
	}
	return false
}

// Complement returns the gaps of [lo, hi] not covered by the set, in order.
// A stored point inside [lo, hi] splits the gap around it.
func (s *Set) Complement(lo, hi float64) []Range {
	var gaps []Range
	cursor := lo
	for _, r := range s.ranges {
		if r.Max <= cursor {
			continue
		}
		if r.Min >= hi {
			break
		}
		if r.Min > cursor {
			gaps = append(gaps, Range{cursor, r.Min})
		}
		cursor = r.Max
	}
	if cursor < hi {
		gaps = append(gaps, Range{cursor, hi})
	}
	return gaps
}

func (s *Set) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
