package network

import (
	"math"

	"github.com/matzehuels/drainplan/pkg/angle"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/geom"
)

// ResolveLabels chooses the leader-line angle of every labelled node so that
// labels avoid pipes and each other, following the upstream label's angle
// where there is room. When no assignment is found within the retry budget,
// every label falls back to bisecting the widest gap between its pipes, an
// ANGLE_RESOLUTION_EXHAUSTED warning is recorded and false is returned.
func (n *Network) ResolveLabels() bool {
	opts := n.opts
	opts.SetDefaults()

	var cat angle.Catalog
	n.collectVectors(&cat)
	r := &labelSearch{
		net:    n,
		search: &angle.Searcher{Catalog: &cat, Params: opts.Resolver, Scale: n.Scale},
		budget: opts.RetryBudget,
	}
	if r.resolve(0, angle.NoHint) {
		opts.Logger.Debug("resolved label angles", "vectors", cat.Len(), "retries", opts.RetryBudget-r.budget)
		return true
	}

	n.warn(errors.ErrCodeAngleResolutionExhausted, 0,
		"no collision-free label layout within %d retries; labels placed by gap bisection", opts.RetryBudget)
	opts.Logger.Warn("label conflict, using gap bisection", "retries", opts.RetryBudget)
	for i := range n.Nodes {
		nd := &n.Nodes[i]
		if kinds[nd.Kind].labelled {
			nd.LabelAngle = geom.Normalize(n.gapAngle(nd.ID) + nd.Heading - 30)
		}
	}
	return false
}

// collectVectors records every pipe, the stub behind the public junction and
// the footprint of every text label as obstacles.
func (n *Network) collectVectors(cat *angle.Catalog) {
	for i := range n.Nodes {
		nd := &n.Nodes[i]
		if nd.Parent == NoNode {
			cat.Add(angle.Vector{P0: nd.Pos.Move(0.01, nd.Heading+180), P1: nd.Pos})
		} else {
			cat.Add(angle.Vector{P0: n.Nodes[nd.Parent].Pos, P1: nd.Pos})
		}
		if nd.Kind == KindLabel || nd.Kind == KindFixture {
			pos := n.textAnchor(nd)
			half := 0.15 * float64(textWidth(nd.Text))
			cat.Add(angle.Vector{P0: pos.Move(-half, 0), P1: pos.Move(half, 0)})
		}
	}
}

// textAnchor is where the text of a label node is centered: pushed past the
// pipe end, further for long text on steep pipes.
func (n *Network) textAnchor(nd *Node) geom.Point {
	w := float64(textWidth(nd.Text))
	off := 0.25 + w*0.0005*math.Abs(math.Sin(geom.Radians(nd.Heading)))*n.Scale
	return nd.Pos.Move(off, nd.Heading)
}

// gapAngle bisects the widest gap between the exits of id, measured from its
// heading. A node whose only exit runs straight on defers to that exit.
func (n *Network) gapAngle(id NodeID) float64 {
	edges := n.Nodes[id].Edges
	offsets := make([]float64, len(edges))
	for i, e := range edges {
		offsets[i] = e.Offset
	}
	a, straight := angle.Bisect(offsets)
	if !straight {
		return a
	}
	if len(edges) == 0 {
		return 90
	}
	return n.gapAngle(edges[0].Child)
}

type labelSearch struct {
	net    *Network
	search *angle.Searcher
	budget int
}

// resolve picks an angle for id, hinted by its upstream label, and recurses.
// A failure below id rejects the angle: its markers are withdrawn and the
// search repeats with the rejected heading excluded.
func (r *labelSearch) resolve(id NodeID, hint angle.Hint) bool {
	nd := &r.net.Nodes[id]
	if !kinds[nd.Kind].labelled {
		return r.children(nd, hint)
	}

	var avoid []float64
	for {
		mark := r.search.Catalog.Mark()
		a, ok := r.search.Search(nd.Pos, hint, avoid)
		if !ok {
			return false
		}
		nd.LabelAngle = a
		if r.children(nd, angle.HintAt(a)) {
			return true
		}
		r.search.Catalog.Rollback(mark)
		if r.budget <= 0 {
			return false
		}
		r.budget--
		avoid = append(avoid, a)
	}
}

func (r *labelSearch) children(nd *Node, hint angle.Hint) bool {
	for _, e := range nd.Edges {
		if !r.resolve(e.Child, hint) {
			return false
		}
	}
	return true
}
