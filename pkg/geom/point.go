// Package geom provides the 2D point type used to place network nodes.
//
// Coordinates are model units (metres on site). Angles are degrees measured
// counter-clockwise from the +X axis. Drawing units are obtained explicitly
// through [Point.Drawing] or [ToDrawing]; no other operation converts.
package geom

import (
	"fmt"
	"math"
)

// DrawingUnit is the size of one drawing unit in model units.
const DrawingUnit = 0.0254

// Origin is the point (0, 0).
var Origin = Point{}

// Point is an immutable pair of model-unit coordinates.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Polar returns the point at distance length from the origin in direction
// heading.
func Polar(length, heading float64) Point {
	return Point{X: length, Y: 0}.Rotate(heading, Origin)
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rotate turns p by deg degrees around org.
func (p Point) Rotate(deg float64, org Point) Point {
	s, c := math.Sincos(Radians(deg))
	dx, dy := p.X-org.X, p.Y-org.Y
	return Point{
		X: org.X + dx*c - dy*s,
		Y: org.Y + dx*s + dy*c,
	}
}

// Move returns p translated by step in direction heading.
func (p Point) Move(step, heading float64) Point {
	s, c := math.Sincos(Radians(heading))
	return Point{p.X + step*c, p.Y + step*s}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Heading returns the direction of the vector p in [0, 360).
func (p Point) Heading() float64 {
	return Normalize(Degrees(math.Atan2(p.Y, p.X)))
}

// Length returns the length of the vector p.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Drawing converts p to drawing units.
func (p Point) Drawing() Point {
	return Point{ToDrawing(p.X), ToDrawing(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// ToDrawing converts a model-unit length to drawing units.
func ToDrawing(v float64) float64 { return v / DrawingUnit }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Normalize maps deg into [0, 360).
func Normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
