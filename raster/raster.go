// Two level photoplot mask rendered with an anti-aliasing rasterizer and thresholded
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/SayCV/geda-gerbv/canvas"
	"github.com/SayCV/geda-gerbv/configurator"
	"github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// film levels of the mask
const (
	LevelOpaque      uint8 = 0
	LevelTransparent uint8 = 255
)

const (
	// coverage above which a pixel belongs to the shape
	coverThreshold = 0x80
	minArcSegments = 8
	miterLimit     = 10.0
	epsilon        = 1e-9
)

var (
	ErrBadSize    = errors.New("raster size must be positive")
	ErrBadArcStep = errors.New("arc step must be positive")
)

// Mask is a canvas.Canvas drawing into a grayscale film image.
// Pixel (x, y) covers the square [x, x+1) x [y, y+1), device points address pixel centres.
type Mask struct {
	Img        *image.Gray
	DashLength int
	GapLength  int
	// degrees per segment of flattened curves
	ArcStep float64

	rast *vector.Rasterizer
	buf  []uint8
}

func NewMask(width, height int) (*Mask, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrBadSize)
	}
	return &Mask{
		Img:        image.NewGray(image.Rect(0, 0, width, height)),
		DashLength: 4,
		GapLength:  4,
		ArcStep:    2.0,
		rast:       vector.NewRasterizer(width, height),
	}, nil
}

func NewMaskFromViper(v *viper.Viper) (*Mask, error) {
	m, err := NewMask(v.GetInt(configurator.CfgRasterWidth), v.GetInt(configurator.CfgRasterHeight))
	if err != nil {
		return nil, err
	}
	m.DashLength = v.GetInt(configurator.CfgRasterDashLength)
	m.GapLength = v.GetInt(configurator.CfgRasterGapLength)
	m.ArcStep = v.GetFloat64(configurator.CfgRasterArcStep)
	if !(m.ArcStep > 0) {
		return nil, fmt.Errorf("%v: %w", m.ArcStep, ErrBadArcStep)
	}
	return m, nil
}

func level(c canvas.Color) uint8 {
	if c == canvas.Opaque {
		return LevelOpaque
	}
	return LevelTransparent
}

// At returns the film color of pixel (x, y), outside pixels are transparent
func (m *Mask) At(x, y int) canvas.Color {
	if !image.Pt(x, y).In(m.Img.Bounds()) {
		return canvas.Transparent
	}
	if m.Img.GrayAt(x, y).Y == LevelOpaque {
		return canvas.Opaque
	}
	return canvas.Transparent
}

// Count returns the number of pixels of color c
func (m *Mask) Count(c canvas.Color) int {
	want := level(c)
	retVal := 0
	b := m.Img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, p := range m.Img.Pix[m.Img.PixOffset(b.Min.X, y):m.Img.PixOffset(b.Max.X, y)] {
			if p == want {
				retVal++
			}
		}
	}
	return retVal
}

// Preview returns the mask scaled to width x height without introducing intermediate levels
func (m *Mask) Preview(width, height int) (*image.Gray, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrBadSize)
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), m.Img, m.Img.Bounds(), xdraw.Src, nil)
	return dst, nil
}

func (m *Mask) WritePNG(w io.Writer) error {
	return png.Encode(w, m.Img)
}

func (m *Mask) FillBackground(c canvas.Color) {
	xdraw.Draw(m.Img, m.Img.Bounds(), image.NewUniform(color.Gray{Y: level(c)}), image.Point{}, xdraw.Src)
}

func (m *Mask) DrawCircle(filled bool, center image.Point, diameter int, s canvas.Style) {
	if diameter <= 0 {
		return
	}
	r := float64(diameter) / 2
	pts := m.ellipse(centre(center), r, r)
	if filled {
		m.paint(polyclip.Polygon{contour(pts)}, s.Color)
		return
	}
	m.paint(m.strokePath(pts, true, s), s.Color)
}

func (m *Mask) DrawRectangle(filled bool, center image.Point, width, height int, s canvas.Style) {
	if width <= 0 || height <= 0 {
		return
	}
	// exactly width x height pixels with the centre pixel at width/2, height/2
	x0, y0 := float64(center.X-width/2), float64(center.Y-height/2)
	x1, y1 := x0+float64(width), y0+float64(height)
	pts := []mgl64.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	if filled {
		m.paint(polyclip.Polygon{contour(pts)}, s.Color)
		return
	}
	m.paint(m.strokePath(pts, true, s), s.Color)
}

func (m *Mask) DrawOval(filled bool, center image.Point, xAxis, yAxis int, s canvas.Style) {
	if xAxis <= 0 || yAxis <= 0 {
		return
	}
	p0, p1, width := canvas.OvalStroke(center, xAxis, yAxis)
	pts := m.capsule(centre(p0), centre(p1), float64(width)/2)
	if filled {
		m.paint(polyclip.Polygon{contour(pts)}, s.Color)
		return
	}
	m.paint(m.strokePath(pts, true, s), s.Color)
}

func (m *Mask) DrawLine(p0, p1 image.Point, s canvas.Style) {
	m.paint(m.strokePath([]mgl64.Vec2{centre(p0), centre(p1)}, false, s), s.Color)
}

// DrawPolygon fills the vertices and, when the style has a width, strokes the boundary too
func (m *Mask) DrawPolygon(filled bool, vertices []image.Point, s canvas.Style) {
	if len(vertices) == 0 {
		return
	}
	pts := make([]mgl64.Vec2, len(vertices))
	for i := range vertices {
		pts[i] = centre(vertices[i])
	}
	var poly polyclip.Polygon
	if filled && len(pts) > 2 {
		poly = append(poly, contour(pts))
	}
	if !filled || s.Width > 0 {
		poly = append(poly, m.strokePath(pts, true, s)...)
	}
	m.paint(poly, s.Color)
}

// DrawArc strokes the elliptical arc starting at angle1 and sweeping angle2-angle1 degrees
// counter-clockwise as seen on the image.
func (m *Mask) DrawArc(center image.Point, width, height int, angle1, angle2 float64, s canvas.Style) {
	sweep := angle2 - angle1
	if width < 0 || height < 0 || sweep == 0 || math.IsNaN(sweep) || math.IsInf(sweep, 0) {
		return
	}
	c := centre(center)
	rx, ry := float64(width)/2, float64(height)/2
	if math.Abs(sweep) >= 360 {
		m.paint(m.strokePath(m.ellipse(c, rx, ry), true, s), s.Color)
		return
	}
	n := int(math.Ceil(math.Abs(sweep) / m.ArcStep))
	if n < 1 {
		n = 1
	}
	pts := make([]mgl64.Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, onEllipse(c, rx, ry, angle1+sweep*float64(i)/float64(n)))
	}
	m.paint(m.strokePath(pts, false, s), s.Color)
}

func centre(p image.Point) mgl64.Vec2 {
	return mgl64.Vec2{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}

// image y grows downwards, so positive angles turn counter-clockwise on screen
func onEllipse(c mgl64.Vec2, rx, ry, deg float64) mgl64.Vec2 {
	a := mgl64.DegToRad(deg)
	return mgl64.Vec2{c.X() + rx*math.Cos(a), c.Y() - ry*math.Sin(a)}
}

func (m *Mask) segments(sweep float64) int {
	n := int(math.Ceil(math.Abs(sweep) / m.ArcStep))
	if n < minArcSegments {
		n = minArcSegments
	}
	return n
}

func (m *Mask) ellipse(c mgl64.Vec2, rx, ry float64) []mgl64.Vec2 {
	n := m.segments(360)
	pts := make([]mgl64.Vec2, n)
	for i := range pts {
		pts[i] = onEllipse(c, rx, ry, 360*float64(i)/float64(n))
	}
	return pts
}

// capsule outlines the round capped segment p0-p1 of half width r
func (m *Mask) capsule(p0, p1 mgl64.Vec2, r float64) []mgl64.Vec2 {
	d := p1.Sub(p0)
	if d.Len() < epsilon {
		return m.ellipse(p0, r, r)
	}
	base := math.Atan2(-d.Y(), d.X()) * 180 / math.Pi
	n := m.segments(180)
	pts := make([]mgl64.Vec2, 0, 2*n+2)
	for i := 0; i <= n; i++ {
		pts = append(pts, onEllipse(p1, r, r, base-90+180*float64(i)/float64(n)))
	}
	for i := 0; i <= n; i++ {
		pts = append(pts, onEllipse(p0, r, r, base+90+180*float64(i)/float64(n)))
	}
	return pts
}

func contour(pts []mgl64.Vec2) polyclip.Contour {
	retVal := make(polyclip.Contour, len(pts))
	for i := range pts {
		retVal[i] = polyclip.Point{X: pts[i].X(), Y: pts[i].Y()}
	}
	return retVal
}

// positive returns c with a non negative signed area
func positive(c polyclip.Contour) polyclip.Contour {
	area := 0.0
	for i := range c {
		j := (i + 1) % len(c)
		area += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	if area >= 0 {
		return c
	}
	retVal := make(polyclip.Contour, len(c))
	for i := range c {
		retVal[len(c)-1-i] = c[i]
	}
	return retVal
}

func frame(r image.Rectangle) polyclip.Contour {
	x0, y0, x1, y1 := float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)
	return polyclip.Contour{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func inside(bb polyclip.Rectangle, r image.Rectangle) bool {
	return bb.Min.X >= float64(r.Min.X) && bb.Min.Y >= float64(r.Min.Y) &&
		bb.Max.X <= float64(r.Max.X) && bb.Max.Y <= float64(r.Max.Y)
}

func finiteContour(c polyclip.Contour) bool {
	for i := range c {
		if math.IsNaN(c[i].X) || math.IsNaN(c[i].Y) || math.IsInf(c[i].X, 0) || math.IsInf(c[i].Y, 0) {
			return false
		}
	}
	return true
}

// paint sets every pixel covered by the union of the contours to color c.
// Contours are oriented alike, so overlaps never cancel.
func (m *Mask) paint(poly polyclip.Polygon, c canvas.Color) {
	bounds := m.Img.Bounds()
	clipped := make(polyclip.Polygon, 0, len(poly))
	for _, cont := range poly {
		if len(cont) < 3 || !finiteContour(cont) {
			continue
		}
		if inside(cont.BoundingBox(), bounds) {
			clipped = append(clipped, positive(cont))
			continue
		}
		parts := polyclip.Polygon{cont}.Construct(polyclip.INTERSECTION, polyclip.Polygon{frame(bounds)})
		for _, part := range parts {
			if len(part) > 2 {
				clipped = append(clipped, positive(part))
			}
		}
	}
	if len(clipped) == 0 {
		return
	}
	bb := clipped.BoundingBox()
	r := image.Rect(int(math.Floor(bb.Min.X)), int(math.Floor(bb.Min.Y)),
		int(math.Ceil(bb.Max.X)), int(math.Ceil(bb.Max.Y))).Intersect(bounds)
	if r.Empty() {
		return
	}

	m.rast.Reset(r.Dx(), r.Dy())
	m.rast.DrawOp = xdraw.Src
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, cont := range clipped {
		m.rast.MoveTo(float32(cont[0].X-ox), float32(cont[0].Y-oy))
		for _, p := range cont[1:] {
			m.rast.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		m.rast.ClosePath()
	}
	cover := m.scratch(r.Dx(), r.Dy())
	m.rast.Draw(cover, cover.Bounds(), image.Opaque, image.Point{})
	for i, a := range cover.Pix {
		if a >= coverThreshold {
			cover.Pix[i] = 0xff
		} else {
			cover.Pix[i] = 0
		}
	}
	xdraw.DrawMask(m.Img, r, image.NewUniform(color.Gray{Y: level(c)}), image.Point{}, cover, image.Point{}, xdraw.Over)
}

func (m *Mask) scratch(w, h int) *image.Alpha {
	if cap(m.buf) < w*h {
		m.buf = make([]uint8, w*h)
	}
	return &image.Alpha{Pix: m.buf[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
}
