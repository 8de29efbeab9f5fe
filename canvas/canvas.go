// Backend independent drawing surface
package canvas

import (
	"image"
)

// Color is one of the two levels of a photoplot mask
type Color int

const (
	Opaque Color = iota
	Transparent
)

func (c Color) String() string {
	switch c {
	case Opaque:
		return "opaque"
	case Transparent:
		return "transparent"
	default:
	}
	return "Unknown color"
}

// Invert swaps opaque and transparent
func (c Color) Invert() Color {
	if c == Opaque {
		return Transparent
	}
	return Opaque
}

type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapProjecting
)

func (c Cap) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapRound:
		return "round"
	case CapProjecting:
		return "projecting"
	default:
	}
	return "Unknown cap"
}

type Join int

const (
	JoinMiter Join = iota
	JoinRound
)

// Style is the immutable pen state passed with every drawing call
type Style struct {
	Color  Color
	Width  int
	Cap    Cap
	Join   Join
	Dashed bool
}

// Fill returns a style for filled shapes of color c
func Fill(c Color) Style {
	return Style{Color: c, Cap: CapButt, Join: JoinMiter}
}

// Stroke returns a solid style of the given width and cap
func Stroke(c Color, width int, cp Cap) Style {
	if width < 0 {
		width = 0
	}
	return Style{Color: c, Width: width, Cap: cp, Join: JoinMiter}
}

func (s Style) WithColor(c Color) Style {
	s.Color = c
	return s
}

func (s Style) WithWidth(w int) Style {
	if w < 0 {
		w = 0
	}
	s.Width = w
	return s
}

func (s Style) WithDash(d bool) Style {
	s.Dashed = d
	return s
}

// Canvas receives vector drawing operations in device units.
// Angles are degrees, a full circle is 360.
type Canvas interface {
	FillBackground(c Color)
	DrawCircle(filled bool, center image.Point, diameter int, s Style)
	DrawRectangle(filled bool, center image.Point, width, height int, s Style)
	// an oval is a round capped line of width min(xAxis, yAxis) along the longer axis
	DrawOval(filled bool, center image.Point, xAxis, yAxis int, s Style)
	DrawLine(p0, p1 image.Point, s Style)
	DrawPolygon(filled bool, vertices []image.Point, s Style)
	DrawArc(center image.Point, width, height int, angle1, angle2 float64, s Style)
}

// OvalStroke returns the segment and width of the round capped line equivalent to an oval
func OvalStroke(center image.Point, xAxis, yAxis int) (p0, p1 image.Point, width int) {
	if xAxis > yAxis {
		d := xAxis/2 - yAxis/2
		return image.Pt(center.X-d, center.Y), image.Pt(center.X+d, center.Y), yAxis
	}
	d := yAxis/2 - xAxis/2
	return image.Pt(center.X, center.Y-d), image.Pt(center.X, center.Y+d), xAxis
}
