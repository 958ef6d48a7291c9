package network

import (
	"math"

	"github.com/matzehuels/drainplan/pkg/errors"
)

// elevation derives the elevation of a non-root node from its parent's
// outlet and the slope of its incoming pipe.
func (b *builder) elevation(id NodeID) float64 {
	nd := b.node(id)
	if nd.Parent == NoNode {
		return nd.Elevation
	}
	return b.net.Outlet(nd.Parent) - nd.Length*nd.Slope - kinds[nd.Kind].dip
}

// checkCover flattens the path to parent while parent lies shallower than
// the minimum cover. A take-out node keeps its level and is only reported.
func (b *builder) checkCover(parent NodeID) {
	if !b.minCover {
		return
	}
	if b.node(parent).Kind == KindTakeOut && b.net.Depth(parent) < MinCover {
		if b.net.warn(errors.ErrCodeRecalculationResidual, parent,
			"take-out level %.3f leaves depth %.3f below the minimum cover %.1f", b.node(parent).Required, b.net.Depth(parent), MinCover) {
			b.logger.Warn("minimum cover not reached at a take-out level", "node", b.describe(parent), "depth", b.net.Depth(parent))
		}
		return
	}
	for b.net.Depth(parent) < MinCover {
		before := b.net.Depth(parent)
		if b.recalculate(parent, NoNode) != Resolved {
			if b.net.warn(errors.ErrCodeRecalculationResidual, parent,
				"depth %.3f stays below the minimum cover %.1f at the flattest slope", b.net.Depth(parent), MinCover) {
				b.logger.Warn("minimum cover not reached", "node", b.describe(parent), "depth", b.net.Depth(parent))
			}
			return
		}
		b.logger.Debug("flattened path for minimum cover", "node", b.describe(parent), "from", before, "to", b.net.Depth(parent))
	}
}

// enforceTakeOut recalculates the path above a take-out node whose
// elevation misses its requirement.
func (b *builder) enforceTakeOut(id NodeID) {
	nd := b.node(id)
	if math.Abs(nd.Elevation-nd.Required) <= LevelTolerance {
		return
	}
	before := nd.Elevation
	res := b.recalculate(id, id)
	nd = b.node(id)
	b.logger.Debug("recalculated take-out level", "node", id, "required", nd.Required, "from", before, "to", nd.Elevation, "result", res)
	if res != Resolved {
		b.net.warn(errors.ErrCodeRecalculationResidual, id,
			"take-out level %.3f missed by %.4f", nd.Required, nd.Elevation-nd.Required)
		b.logger.Warn("take-out level not reached", "node", id, "required", nd.Required, "elevation", nd.Elevation)
	}
}

// recalculate adjusts the slopes of the pipes between trigger and the first
// ancestor that terminates the request, then re-derives every elevation
// below that point.
//
// With a constraint (a take-out node), the path slopes are set to the
// uniform slope that brings the constraint to its required level. Without
// one, they step down to the next standard slope. The public junction and
// take-out nodes terminate every request, so flattening for cover never moves
// a take-out level that has been met.
func (b *builder) recalculate(trigger, constraint NodeID) Resolution {
	var path []NodeID
	anchor := NoNode
	for cur := trigger; anchor == NoNode; {
		parent := b.node(cur).Parent
		if parent == NoNode {
			return Rejected
		}
		path = append(path, cur)
		if b.terminus(parent, constraint) == Resolved {
			anchor = parent
		}
		cur = parent
	}
	top := path[len(path)-1]
	defer b.auditTakeOuts(trigger)

	if constraint == NoNode {
		s, ok := nextSlope(b.node(top).Slope)
		if !ok {
			return Rejected
		}
		b.setSlope(path, anchor, s)
		return Resolved
	}

	total := 0.0
	for _, id := range path {
		total += b.node(id).Length
	}
	if total == 0 {
		return Rejected
	}
	for i := 0; i < maxRefinements; i++ {
		c := b.node(constraint)
		gap := c.Elevation - c.Required
		if math.Abs(gap) <= LevelTolerance {
			return Resolved
		}
		run := 0.0
		for _, id := range path {
			run += b.node(id).Length * b.node(id).Slope
		}
		b.setSlope(path, anchor, (run+gap)/total)
	}
	c := b.node(constraint)
	if math.Abs(c.Elevation-c.Required) <= LevelTolerance {
		return Resolved
	}
	return Rejected
}

func (b *builder) terminus(id, constraint NodeID) Resolution {
	if f := kinds[b.node(id).Kind].recalc; f != nil {
		return f(constraint != NoNode)
	}
	return Propagate
}

// setSlope gives every pipe on path slope s and re-derives the subtree
// below the anchor. A public junction anchor keeps s for pipes attached
// later.
func (b *builder) setSlope(path []NodeID, anchor NodeID, s float64) {
	for _, id := range path {
		b.node(id).Slope = s
	}
	if b.node(anchor).Kind.IsRoot() {
		b.node(anchor).Slope = s
	}
	b.rederive(path[len(path)-1])
}

// rederive recomputes the elevations of id and its descendants.
func (b *builder) rederive(id NodeID) {
	b.node(id).Elevation = b.elevation(id)
	for _, e := range b.node(id).Edges {
		b.rederive(e.Child)
	}
}

// auditTakeOuts warns about settled take-out nodes, other than except, that
// a recalculation has pushed off their level.
func (b *builder) auditTakeOuts(except NodeID) {
	for _, id := range b.takeOuts {
		if id == except {
			continue
		}
		nd := b.node(id)
		if math.Abs(nd.Elevation-nd.Required) > LevelTolerance {
			b.net.warn(errors.ErrCodeRecalculationResidual, id,
				"take-out level %.3f moved to %.3f by a later recalculation", nd.Required, nd.Elevation)
		}
	}
}

// nextSlope returns the first standard slope below s.
func nextSlope(s float64) (float64, bool) {
	for _, v := range SlopeSteps {
		if v < s-1e-9 {
			return v, true
		}
	}
	return s, false
}
