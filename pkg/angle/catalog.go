package angle

import (
	"github.com/matzehuels/drainplan/pkg/geom"
	"github.com/matzehuels/drainplan/pkg/interval"
)

// Catalog holds the obstacles of one drawing: permanent vectors for pipes and
// text, and a stack of markers for chosen label headings.
type Catalog struct {
	permanent []Vector
	markers   []Vector
}

// Add records a permanent obstacle.
func (c *Catalog) Add(v Vector) { c.permanent = append(c.permanent, v) }

// AddMarker records a label marker.
func (c *Catalog) AddMarker(v Vector) { c.markers = append(c.markers, v) }

// Mark returns a position on the marker stack for [Catalog.Rollback].
func (c *Catalog) Mark() int { return len(c.markers) }

// Rollback withdraws every marker recorded after mark.
func (c *Catalog) Rollback(mark int) {
	if mark < len(c.markers) {
		c.markers = c.markers[:mark]
	}
}

// Len returns the number of recorded vectors, markers included.
func (c *Catalog) Len() int { return len(c.permanent) + len(c.markers) }

// Markers returns the number of markers.
func (c *Catalog) Markers() int { return len(c.markers) }

// Reset empties the catalog.
func (c *Catalog) Reset() {
	c.permanent = nil
	c.markers = nil
}

// Near returns the vectors with an endpoint closer than radius to pt.
func (c *Catalog) Near(pt geom.Point, radius float64) []Vector {
	var out []Vector
	for _, group := range [2][]Vector{c.permanent, c.markers} {
		for _, v := range group {
			if v.Near(pt, radius) {
				out = append(out, v)
			}
		}
	}
	return out
}

// Blocked returns the headings around pt obstructed by vectors within radius.
func (c *Catalog) Blocked(pt geom.Point, radius float64) *interval.Set {
	var s interval.Set
	for _, v := range c.Near(pt, radius) {
		for _, r := range v.Ranges(pt) {
			s.AddRange(r)
		}
	}
	return &s
}
