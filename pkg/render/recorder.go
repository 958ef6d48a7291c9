package render

import (
	"fmt"
	"os"
	"strings"
)

// Op is one recorded device call.
type Op struct {
	Name  string
	Shape Shape // shape created or addressed; 0 when none
	Args  []float64
	Text  string
}

func (o Op) String() string {
	args := make([]string, len(o.Args))
	for i, a := range o.Args {
		args[i] = fmt.Sprintf("%.3f", a)
	}
	s := o.Name + "(" + strings.Join(args, ", ")
	if o.Text != "" {
		s += fmt.Sprintf(", %q", o.Text)
	}
	return s + ")"
}

// Recorder is a [Device] that records its calls.
type Recorder struct {
	Ops   []Op
	Scale float64

	shapes   Shape
	selected []Shape
	Groups   [][]Shape
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{Scale: 100} }

func (r *Recorder) shape(name string, text string, args ...float64) Shape {
	r.shapes++
	r.Ops = append(r.Ops, Op{Name: name, Shape: r.shapes, Args: args, Text: text})
	return r.shapes
}

func (r *Recorder) SetScale(scale float64) {
	r.Scale = scale
	r.Ops = append(r.Ops, Op{Name: "SetScale", Args: []float64{scale}})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) Shape {
	return r.shape("DrawLine", "", x1, y1, x2, y2)
}

func (r *Recorder) DrawOval(x1, y1, x2, y2 float64) Shape {
	return r.shape("DrawOval", "", x1, y1, x2, y2)
}

func (r *Recorder) DrawRectangle(x, y, w, h float64) Shape {
	return r.shape("DrawRectangle", "", x, y, w, h)
}

func (r *Recorder) DrawText(x, y float64, text string, angle, size float64) Shape {
	if size == 0 {
		size = DefaultFontSize
	}
	return r.shape("DrawText", text, x, y, angle, size)
}

func (r *Recorder) SetLineAttribute(s Shape, width float64, pattern, color int) {
	r.Ops = append(r.Ops, Op{Name: "SetLineAttribute", Shape: s, Args: []float64{width, float64(pattern), float64(color)}})
}

func (r *Recorder) SetFill(s Shape, color int) {
	r.Ops = append(r.Ops, Op{Name: "SetFill", Shape: s, Args: []float64{float64(color)}})
}

func (r *Recorder) SetRotation(s Shape, angle float64) {
	r.Ops = append(r.Ops, Op{Name: "SetRotation", Shape: s, Args: []float64{angle}})
}

func (r *Recorder) SetEndArrow(s Shape, size int) {
	r.Ops = append(r.Ops, Op{Name: "SetEndArrow", Shape: s, Args: []float64{float64(size)}})
}

func (r *Recorder) Select(s Shape) { r.selected = append(r.selected, s) }

func (r *Recorder) Deselect() { r.selected = nil }

func (r *Recorder) Group() {
	if len(r.selected) > 0 {
		r.Groups = append(r.Groups, append([]Shape(nil), r.selected...))
	}
}

// SaveAs writes the recorded calls, one per line.
func (r *Recorder) SaveAs(path string) error {
	var b strings.Builder
	for _, op := range r.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Count returns the number of recorded calls named name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Texts returns the strings passed to DrawText, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Name == "DrawText" {
			out = append(out, op.Text)
		}
	}
	return out
}
