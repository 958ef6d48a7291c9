package network

import (
	"fmt"

	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/geom"
)

// NodeID addresses a node in its network's arena.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Pipe newness flags as written in a pipe select.
const (
	NewnessNew = "NEW"
	NewnessOld = "OLD"
)

// Pipe holds the properties of the pipe leaving a node downstream. They are
// inherited from the parent unless the node is a pipe select.
type Pipe struct {
	Size     int
	Material string
	New      bool
}

func (p Pipe) String() string {
	newness := NewnessNew
	if !p.New {
		newness = NewnessOld
	}
	return fmt.Sprintf("φ%d %s %s", p.Size, p.Material, newness)
}

// Edge is an outgoing connection. Offset is relative to the node's heading.
type Edge struct {
	Offset float64
	Child  NodeID
}

// Node is one network element.
type Node struct {
	ID     NodeID
	Kind   Kind
	Symbol string // source symbol, e.g. "WC"
	Parent NodeID
	Edges  []Edge // forward first, then left, then right

	Pos     geom.Point
	Length  float64 // incoming pipe length
	Heading float64 // absolute direction of the incoming pipe

	Elevation    float64
	GroundOffset float64
	Slope        float64 // slope of the incoming pipe
	Pipe         Pipe

	Seq        string  // sequence label; empty when unnumbered
	Text       string  // free text of labels, fixtures, interceptors and joints
	Turn       float64 // exit angle of bends, drops and elbows
	Step       float64 // explicit drop step
	HasStep    bool
	Lift       float64 // pump lift
	Required   float64 // take-out level
	BranchSize int     // branch diameter of fittings; 0 when none
	PrevSize   int     // pipe size entering a pipe select
	LabelAngle float64
}

// Warning is a non-fatal condition found while building or resolving.
type Warning struct {
	Code    errors.Code
	Node    NodeID
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: node %d: %s", w.Code, w.Node, w.Message)
}

// Network is a built pipe network. The root is always node 0.
type Network struct {
	Nodes []Node

	// Scale is the drawing scale denominator.
	Scale float64
	// DepthLabels is false in plan-only mode.
	DepthLabels bool
	// ScaleOverridden records that Scale came from the caller, not the input;
	// fittings and modifiers then always caption their pipes.
	ScaleOverridden bool

	Warnings []Warning

	opts   Options
	warned map[warnKey]bool
}

type warnKey struct {
	code errors.Code
	node NodeID
}

// Root returns the root node.
func (n *Network) Root() *Node { return &n.Nodes[0] }

// Node returns the node with the given id.
func (n *Network) Node(id NodeID) *Node { return &n.Nodes[id] }

// Len returns the number of nodes.
func (n *Network) Len() int { return len(n.Nodes) }

// Children returns the child ids of id in edge order.
func (n *Network) Children(id NodeID) []NodeID {
	edges := n.Nodes[id].Edges
	out := make([]NodeID, len(edges))
	for i, e := range edges {
		out[i] = e.Child
	}
	return out
}

// EntryPipe returns the properties of the pipe entering id: its parent's
// pipe, or the root's own.
func (n *Network) EntryPipe(id NodeID) Pipe {
	if p := n.Nodes[id].Parent; p != NoNode {
		return n.Nodes[p].Pipe
	}
	return n.Nodes[id].Pipe
}

// Depth returns the elevation plus ground offset of id.
func (n *Network) Depth(id NodeID) float64 {
	nd := &n.Nodes[id]
	return nd.Elevation + nd.GroundOffset
}

// Outlet returns the elevation children of id are derived from.
func (n *Network) Outlet(id NodeID) float64 {
	nd := &n.Nodes[id]
	switch nd.Kind {
	case KindPump:
		return nd.Elevation + nd.Lift
	case KindDrop, KindDoubleDrop:
		if nd.HasStep {
			return nd.Elevation - nd.Step
		}
		return nd.Elevation / 2
	}
	return nd.Elevation
}

// Name returns the descriptive name of id, e.g. "合流マス".
func (n *Network) Name(id NodeID) string {
	return kinds[n.Nodes[id].Kind].name(&n.Nodes[id])
}

// Walk visits id and its descendants depth first, parents before children.
func (n *Network) Walk(id NodeID, fn func(*Node)) {
	fn(&n.Nodes[id])
	for _, e := range n.Nodes[id].Edges {
		n.Walk(e.Child, fn)
	}
}

// warn records a warning once per code and node.
func (n *Network) warn(code errors.Code, id NodeID, format string, args ...any) bool {
	if n.warned == nil {
		n.warned = make(map[warnKey]bool)
	}
	k := warnKey{code, id}
	if n.warned[k] {
		return false
	}
	n.warned[k] = true
	n.Warnings = append(n.Warnings, Warning{Code: code, Node: id, Message: fmt.Sprintf(format, args...)})
	return true
}
