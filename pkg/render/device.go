package render

// Shape is an opaque handle to a drawn shape.
type Shape int

// Line patterns understood by every device.
const (
	PatternSolid  = 1
	PatternDashed = 23
)

// Colors understood by every device: an index into a small palette.
const (
	ColorBlack = 0
	ColorWhite = 1
)

// DefaultFontSize is the text size, in points, used when DrawText gets 0.
const DefaultFontSize = 8

// Device is the drawing façade.
type Device interface {
	// SetScale sets the drawing scale denominator (100 for 1/100).
	SetScale(scale float64)

	DrawLine(x1, y1, x2, y2 float64) Shape
	// DrawOval draws the ellipse inscribed in the box (x1,y1)-(x2,y2).
	DrawOval(x1, y1, x2, y2 float64) Shape
	// DrawRectangle draws a w×h rectangle centered on (x, y).
	DrawRectangle(x, y, w, h float64) Shape
	// DrawText draws text centered on (x, y), rotated counterclockwise by
	// angle degrees. A size of 0 means [DefaultFontSize].
	DrawText(x, y float64, text string, angle, size float64) Shape

	SetLineAttribute(s Shape, width float64, pattern, color int)
	SetFill(s Shape, color int)
	// SetRotation rotates s counterclockwise about its center.
	SetRotation(s Shape, angle float64)
	SetEndArrow(s Shape, size int)

	Select(s Shape)
	Deselect()
	// Group combines the selected shapes.
	Group()

	SaveAs(path string) error
}
