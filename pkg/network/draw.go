package network

import (
	"fmt"

	"github.com/matzehuels/drainplan/pkg/geom"
	"github.com/matzehuels/drainplan/pkg/render"
)

// Draw replays the network on dev: each node's incoming pipe, then its
// branches, then the node's own figure and label. Label angles come from
// [Network.ResolveLabels]; run it first.
func (n *Network) Draw(dev render.Device) {
	d := &drawer{net: n, dev: dev, k: n.Scale / 100}
	dev.SetScale(n.Scale)
	d.node(0)
}

// Materials drawn with a square box around the junction circle.
var boxedMaterials = map[string]bool{"ヒューム管": true, "鋼管": true}

type drawer struct {
	net *Network
	dev render.Device
	k   float64 // scale relative to 1/100
}

func (d *drawer) node(id NodeID) {
	nd := &d.net.Nodes[id]
	if nd.Parent != NoNode && nd.Kind != KindPlaceholder {
		d.line(nd, nd.Pos, d.net.Nodes[nd.Parent].Pos)
	}
	for _, e := range nd.Edges {
		d.node(e.Child)
	}
	kinds[nd.Kind].draw(d, nd)
}

// stroke styles s after the pipe entering nd: dashed when pre-existing.
func (d *drawer) stroke(nd *Node, s render.Shape) render.Shape {
	pattern := render.PatternSolid
	if !d.net.EntryPipe(nd.ID).New {
		pattern = render.PatternDashed
	}
	d.dev.SetLineAttribute(s, 0.72, pattern, render.ColorBlack)
	return s
}

func (d *drawer) line(nd *Node, a, b geom.Point) render.Shape {
	a, b = a.Drawing(), b.Drawing()
	return d.stroke(nd, d.dev.DrawLine(a.X, a.Y, b.X, b.Y))
}

func (d *drawer) oval(nd *Node, c geom.Point, r float64) render.Shape {
	return d.stroke(nd, d.dev.DrawOval(c.X-r, c.Y-r, c.X+r, c.Y+r))
}

func (d *drawer) dot(nd *Node, c geom.Point, r float64) {
	d.dev.SetFill(d.oval(nd, c, r), render.ColorBlack)
}

// caption writes the length of the incoming pipe beside its midpoint, with
// the slope for long runs.
func (d *drawer) caption(nd *Node) {
	if !d.net.EntryPipe(nd.ID).New || nd.Parent == NoNode || nd.Length == 0 {
		return
	}
	a := nd.Heading
	if a >= 180 {
		a -= 180
	}
	gap := 0.1
	if nd.Length < 0.5 {
		gap = 0.2
	}
	mid := nd.Pos.Mid(d.net.Nodes[nd.Parent].Pos).Move(gap*d.k, a+90).Drawing()

	text := fmt.Sprintf("%.2f", nd.Length)
	if nd.Length > 3 && nd.Slope != 0 {
		text += " (" + slopeFraction(nd.Slope) + ")"
	}
	d.dev.DrawText(mid.X, mid.Y, text, a, 0)
}

// label draws a leader line from nd at its resolved angle and groups it with
// text. Pre-existing parts are not labelled.
func (d *drawer) label(nd *Node, text string) {
	if !d.net.EntryPipe(nd.ID).New {
		return
	}
	a := nd.LabelAngle
	from := nd.Pos.Move(0.5*d.k, a)
	to := from.Move(2*d.k, a)
	ln := d.line(nd, from, to)
	d.dev.SetLineAttribute(ln, 0.1, render.PatternSolid, render.ColorBlack)

	at := to.Move(0.1*d.k, a+90).Drawing()
	txt := d.dev.DrawText(at.X, at.Y, text, a, 0)
	d.dev.Deselect()
	d.dev.Select(txt)
	d.dev.Select(ln)
	d.dev.Group()
	d.dev.Deselect()
}

func (d *drawer) junctionText(nd *Node) string {
	name := d.net.Name(nd.ID)
	if d.net.DepthLabels {
		return fmt.Sprintf("No.%s H%2.2f GL %1.1f %s", nd.Seq, d.net.Depth(nd.ID), nd.GroundOffset, name)
	}
	return fmt.Sprintf("No.%s GL %1.1f %s", nd.Seq, nd.GroundOffset, name)
}

// junction draws a junction box: pipe caption, circle and numbered label.
func (d *drawer) junction(nd *Node) {
	d.caption(nd)
	c := nd.Pos.Drawing()
	if boxedMaterials[d.net.EntryPipe(nd.ID).Material] {
		d.stroke(nd, d.dev.DrawRectangle(c.X, c.Y, 14, 14))
	}
	d.oval(nd, c, 5)
	d.label(nd, d.junctionText(nd))
}

func (d *drawer) main(nd *Node) {
	c := nd.Pos.Drawing()
	tail := c.Move(20, nd.Heading+180)
	arrow := d.stroke(nd, d.dev.DrawLine(c.X, c.Y, tail.X, tail.Y))
	d.dev.SetEndArrow(arrow, 2)

	d.oval(nd, c, 6)
	d.oval(nd, c, 4)
	d.label(nd, d.junctionText(nd))
	d.dev.DrawText(0, 0, fmt.Sprintf("1/%g", d.net.Scale), 0, 12)
}

func (d *drawer) mainDrop(nd *Node) {
	d.main(nd)
	d.dropMark(nd, 9)
}

func (d *drawer) trap(nd *Node) {
	d.junction(nd)
	d.dot(nd, nd.Pos.Drawing(), 1)
}

func (d *drawer) doubleTrap(nd *Node) {
	d.junction(nd)
	c := nd.Pos.Drawing()
	for _, dir := range []float64{1, -1} {
		d.dot(nd, c.Move(2*dir, nd.Heading+180), 0.5)
	}
}

func (d *drawer) drop(nd *Node) {
	d.dropMark(nd, 7)
	d.junction(nd)
}

// dropMark draws a radius toward the incoming pipe and a short arc across it.
func (d *drawer) dropMark(nd *Node, size float64) {
	c := nd.Pos.Drawing()
	back := nd.Heading + 180
	end := c.Move(size, back)
	ln := d.stroke(nd, d.dev.DrawLine(c.X, c.Y, end.X, end.Y))
	d.dev.SetLineAttribute(ln, 0.72, render.PatternSolid, render.ColorWhite)

	for i := -10; i <= 10; i++ {
		p := c.Move(size, back+float64(i)*2)
		q := c.Move(size, back+float64(i+1)*2)
		d.stroke(nd, d.dev.DrawLine(p.X, p.Y, q.X, q.Y))
	}
}

// footprint draws a w×h box behind nd, its near side on the node.
func (d *drawer) footprint(nd *Node, w, h float64) {
	c := nd.Pos.Drawing().Move(h/2, nd.Heading+180)
	r := d.stroke(nd, d.dev.DrawRectangle(c.X, c.Y, w, h))
	d.dev.SetRotation(r, geom.Normalize(nd.Heading+90))
}

func (d *drawer) rainBox(nd *Node) {
	d.footprint(nd, 7, 7)
	d.label(nd, d.net.Name(nd.ID))
}

func (d *drawer) septic(nd *Node) {
	d.footprint(nd, 15, 30)
	d.label(nd, d.net.Name(nd.ID))
}

func (d *drawer) interceptor(nd *Node) {
	const w, h = 15, 20
	c := nd.Pos.Drawing()
	r := d.stroke(nd, d.dev.DrawRectangle(c.X, c.Y, w, h))
	d.dev.SetRotation(r, geom.Normalize(nd.Heading+90))
	for _, dir := range []float64{0, 180} {
		p := c.Move(w/2.0, nd.Heading+90+dir)
		d.stroke(nd, d.dev.DrawLine(c.X, c.Y, p.X, p.Y))
	}
	d.label(nd, nd.Text)
}

func (d *drawer) pump(nd *Node) {
	c := nd.Pos.Drawing()
	d.oval(nd, c, 7)
	d.dev.DrawText(c.X, c.Y, "P", nd.Heading, 0)
	d.label(nd, d.net.Name(nd.ID))
	d.caption(nd)
}

// fitting captions the pipe of fittings on main-size pipes; with a scale
// given by the caller it labels them too.
func (d *drawer) fitting(nd *Node) {
	entry := d.net.EntryPipe(nd.ID)
	if d.net.ScaleOverridden || entry.Size >= 100 {
		d.caption(nd)
	}
	if d.net.ScaleOverridden {
		d.label(nd, fmt.Sprintf("%s %s φ%d", entry.Material, d.net.Name(nd.ID), entry.Size))
	}
}

func (d *drawer) modifier(nd *Node) {
	if d.net.ScaleOverridden || d.net.EntryPipe(nd.ID).Size >= 100 {
		d.caption(nd)
	}
}

// text writes the text of a label node past the pipe end, horizontally.
func (d *drawer) text(nd *Node) {
	at := d.net.textAnchor(nd).Drawing()
	d.dev.DrawText(at.X, at.Y, nd.Text, 0, 0)
}
