package network

import "github.com/matzehuels/drainplan/pkg/estimate"

// Takeoff aggregates the quantities of the newly installed part of the
// network: one part per counted node, and the incoming pipe of every
// pipe-carrying node apportioned over the elevation bands between its depth
// and its parent's outlet depth. Pre-existing branches are skipped but their
// descendants are still visited.
func (n *Network) Takeoff() *estimate.Quantities {
	q := estimate.NewQuantities()
	n.Walk(0, func(nd *Node) {
		entry := n.EntryPipe(nd.ID)
		if !entry.New {
			return
		}
		t := kinds[nd.Kind]
		if t.part != nil {
			if label, band, ok := t.part(n, nd); ok {
				q.AddPart(label, band)
			}
		}
		if t.pipe && nd.Parent != NoNode && nd.Length != 0 {
			parent := &n.Nodes[nd.Parent]
			q.AddPipeRun(entry.Size, entry.Material,
				n.Depth(nd.ID), n.Outlet(parent.ID)+parent.GroundOffset, nd.Length)
		}
	})
	return q
}
