// Package svg implements the drawing façade on SVG with
// github.com/ajstarks/svgo.
//
// Shapes are buffered as they are created, since the façade styles them after
// the fact, and emitted by [Device.WriteTo] once the extent of the drawing is
// known. Model Y points up; it is flipped for SVG. One drawing unit maps to
// 72/scale points on paper, so a 1/100 drawing puts 0.72pt per unit.
package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/matzehuels/drainplan/pkg/render"
)

// resolution is the number of SVG user units per point.
const resolution = 10

// margin around the drawing, in points.
const margin = 36

type kind int

const (
	kindLine kind = iota
	kindOval
	kindRect
	kindText
)

type shape struct {
	kind    kind
	x1, y1  float64 // line start, oval corner, rect or text center
	x2, y2  float64 // line end, opposite oval corner; rect width, height
	text    string
	size    float64
	angle   float64
	width   float64
	pattern int
	color   int
	fill    int
	filled  bool
	arrow   int
	group   int // 1-based group index, 0 for none
}

// Device is an SVG [render.Device].
type Device struct {
	scale    float64
	shapes   []shape
	selected []render.Shape
	groups   int
}

var _ render.Device = (*Device)(nil)

// New returns an empty device at scale 1/100.
func New() *Device { return &Device{scale: 100} }

func (d *Device) SetScale(scale float64) {
	if scale > 0 {
		d.scale = scale
	}
}

func (d *Device) add(s shape) render.Shape {
	s.width, s.pattern = 0.72, render.PatternSolid
	d.shapes = append(d.shapes, s)
	return render.Shape(len(d.shapes))
}

func (d *Device) get(s render.Shape) *shape {
	if s < 1 || int(s) > len(d.shapes) {
		return nil
	}
	return &d.shapes[s-1]
}

func (d *Device) DrawLine(x1, y1, x2, y2 float64) render.Shape {
	return d.add(shape{kind: kindLine, x1: x1, y1: y1, x2: x2, y2: y2})
}

func (d *Device) DrawOval(x1, y1, x2, y2 float64) render.Shape {
	return d.add(shape{kind: kindOval, x1: x1, y1: y1, x2: x2, y2: y2})
}

func (d *Device) DrawRectangle(x, y, w, h float64) render.Shape {
	return d.add(shape{kind: kindRect, x1: x, y1: y, x2: w, y2: h})
}

func (d *Device) DrawText(x, y float64, text string, angle, size float64) render.Shape {
	if size == 0 {
		size = render.DefaultFontSize
	}
	return d.add(shape{kind: kindText, x1: x, y1: y, text: text, angle: angle, size: size})
}

func (d *Device) SetLineAttribute(s render.Shape, width float64, pattern, color int) {
	if sh := d.get(s); sh != nil {
		sh.width, sh.pattern, sh.color = width, pattern, color
	}
}

func (d *Device) SetFill(s render.Shape, color int) {
	if sh := d.get(s); sh != nil {
		sh.fill, sh.filled = color, true
	}
}

func (d *Device) SetRotation(s render.Shape, angle float64) {
	if sh := d.get(s); sh != nil {
		sh.angle = angle
	}
}

func (d *Device) SetEndArrow(s render.Shape, size int) {
	if sh := d.get(s); sh != nil {
		sh.arrow = size
	}
}

func (d *Device) Select(s render.Shape) { d.selected = append(d.selected, s) }

func (d *Device) Deselect() { d.selected = nil }

func (d *Device) Group() {
	if len(d.selected) == 0 {
		return
	}
	d.groups++
	for _, s := range d.selected {
		if sh := d.get(s); sh != nil {
			sh.group = d.groups
		}
	}
}

// Len returns the number of shapes drawn.
func (d *Device) Len() int { return len(d.shapes) }

// SaveAs writes the SVG document to path.
func (d *Device) SaveAs(path string) error {
	return os.WriteFile(path, d.Bytes(), 0o644)
}

// Bytes returns the SVG document.
func (d *Device) Bytes() []byte {
	var buf bytes.Buffer
	d.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the SVG document to w.
func (d *Device) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	p := d.project()
	canvas := svgo.New(cw)
	vw, vh := p.size()
	canvas.Startview(vw/resolution, vh/resolution, 0, 0, vw, vh)
	canvas.Def()
	canvas.Marker("arrow", 0, 5, 10, 10, `orient="auto"`, `markerUnits="strokeWidth"`)
	canvas.Path("M0,0 L10,5 L0,10 z", "fill:black")
	canvas.MarkerEnd()
	canvas.DefEnd()
	canvas.Rect(0, 0, vw, vh, "fill:white")

	emitted := make(map[int]bool)
	for i := range d.shapes {
		sh := &d.shapes[i]
		if sh.group == 0 {
			p.emit(canvas, sh)
			continue
		}
		if emitted[sh.group] {
			continue
		}
		emitted[sh.group] = true
		canvas.Group(fmt.Sprintf(`class="label" id="label-%d"`, sh.group))
		for j := i; j < len(d.shapes); j++ {
			if d.shapes[j].group == sh.group {
				p.emit(canvas, &d.shapes[j])
			}
		}
		canvas.Gend()
	}
	canvas.End()
	return cw.n, cw.err
}

// projection maps drawing units to SVG user units.
type projection struct {
	f          float64
	minX, maxY float64
	w, h       float64
}

func (d *Device) project() projection {
	f := 72 / d.scale * resolution
	lo := [2]float64{math.Inf(1), math.Inf(1)}
	hi := [2]float64{math.Inf(-1), math.Inf(-1)}
	extend := func(x, y, r float64) {
		lo[0], lo[1] = math.Min(lo[0], x-r), math.Min(lo[1], y-r)
		hi[0], hi[1] = math.Max(hi[0], x+r), math.Max(hi[1], y+r)
	}
	for _, s := range d.shapes {
		switch s.kind {
		case kindLine, kindOval:
			extend(s.x1, s.y1, 0)
			extend(s.x2, s.y2, 0)
		case kindRect:
			extend(s.x1, s.y1, math.Hypot(s.x2, s.y2)/2)
		case kindText:
			// Rough text extent: half an em per character, in drawing units.
			r := float64(len([]rune(s.text))) * s.size * 0.5 * d.scale / 72
			extend(s.x1, s.y1, r)
		}
	}
	if len(d.shapes) == 0 {
		lo, hi = [2]float64{}, [2]float64{}
	}
	m := margin * resolution / f
	return projection{
		f:    f,
		minX: lo[0] - m,
		maxY: hi[1] + m,
		w:    (hi[0] - lo[0] + 2*m) * f,
		h:    (hi[1] - lo[1] + 2*m) * f,
	}
}

func (p projection) size() (int, int) {
	return int(math.Ceil(p.w)), int(math.Ceil(p.h))
}

func (p projection) x(v float64) int { return int(math.Round((v - p.minX) * p.f)) }
func (p projection) y(v float64) int { return int(math.Round((p.maxY - v) * p.f)) }
func (p projection) l(v float64) int { return int(math.Round(math.Abs(v) * p.f)) }

func (p projection) emit(c *svgo.SVG, s *shape) {
	switch s.kind {
	case kindLine:
		style := stroke(s)
		if s.arrow > 0 {
			style += ";marker-end:url(#arrow)"
		}
		c.Line(p.x(s.x1), p.y(s.y1), p.x(s.x2), p.y(s.y2), style)
	case kindOval:
		cx, cy := (s.x1+s.x2)/2, (s.y1+s.y2)/2
		c.Ellipse(p.x(cx), p.y(cy), p.l((s.x2-s.x1)/2), p.l((s.y2-s.y1)/2), stroke(s)+";"+fill(s))
	case kindRect:
		cx, cy := p.x(s.x1), p.y(s.y1)
		w, h := p.l(s.x2), p.l(s.y2)
		c.Rect(cx-w/2, cy-h/2, w, h, append([]string{stroke(s) + ";" + fill(s)}, rotate(s.angle, cx, cy)...)...)
	case kindText:
		x, y := p.x(s.x1), p.y(s.y1)
		style := fmt.Sprintf("font-size:%gpx;text-anchor:middle;fill:%s", s.size*resolution, color(s.color))
		c.Text(x, y, s.text, append([]string{style}, rotate(s.angle, x, y)...)...)
	}
}

// rotate returns the attribute turning a shape counterclockwise about (x, y)
// on paper, or nothing.
func rotate(angle float64, x, y int) []string {
	if angle == 0 {
		return nil
	}
	return []string{fmt.Sprintf(`transform="rotate(%g %d %d)"`, -angle, x, y)}
}

func stroke(s *shape) string {
	st := fmt.Sprintf("stroke:%s;stroke-width:%g", color(s.color), s.width*resolution)
	if s.pattern == render.PatternDashed {
		st += ";stroke-dasharray:" + dash(s.width)
	}
	return st
}

func fill(s *shape) string {
	if s.filled {
		return "fill:" + color(s.fill)
	}
	return "fill:none"
}

func dash(width float64) string {
	u := math.Max(width*resolution, 1)
	return strings.Join([]string{fmt.Sprint(6 * u), fmt.Sprint(3 * u)}, ",")
}

func color(c int) string {
	if c == render.ColorWhite {
		return "white"
	}
	return "black"
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
