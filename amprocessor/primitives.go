package amprocessor

import (
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SayCV/geda-gerbv/canvas"
	. "github.com/SayCV/geda-gerbv/gerbimage"
	"github.com/SayCV/geda-gerbv/xy"
)

// outline primitives are stroked with a one pixel pen
const outlineWidth = 1

// rotations below this value are ignored by the outline primitive
const outlineRotationThreshold = 0.1

// tolerance of the outline closure check
const outlineCloseTolerance = 0.0001

const maxPolygonVertices = 1 << 16

const maxMoireRings = 1 << 16

// modifiers is an index addressable source of primitive values:
// a statement taken from the stack or the raw parameter vector of an aperture
type modifiers struct {
	v []float64
	// reported when a read falls outside v
	short error
	err   error
	// true when v is a statement snapshot
	stack bool
}

func (m *modifiers) at(i int) float64 {
	if i < 0 || i >= len(m.v) {
		if m.err == nil {
			m.err = fmt.Errorf("%w: value %d of %d", m.short, i+1, len(m.v))
		}
		return 0
	}
	return m.v[i]
}

func (m *modifiers) len() int {
	return len(m.v)
}

// exposure off selects the erase color
func (m *modifiers) exposure(drawColor canvas.Color) canvas.Color {
	if m.at(0) == 0.0 {
		return canvas.Opaque
	}
	return drawColor
}

type primitiveFunc func(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color)

var primitiveTable = map[AMPrimitiveType]primitiveFunc{
	AMPrimitive_Circle:     drawCircle,
	AMPrimitive_OutLine:    drawOutline,
	AMPrimitive_Polygon:    drawPolygon,
	AMPrimitive_Moire:      drawMoire,
	AMPrimitive_Thermal:    drawThermal,
	AMPrimitive_Line2:      drawVectLine,
	AMPrimitive_VectLine:   drawVectLine,
	AMPrimitive_CenterLine: drawCenterLine,
	AMPrimitive_LowerLeft:  drawLowerLeftLine,
}

// IsKnownPrimitive reports whether code has a renderer
func IsKnownPrimitive(code AMPrimitiveType) bool {
	_, ok := primitiveTable[code]
	return ok
}

// DrawPrimitive draws a single primitive whose modifiers are the raw aperture parameters.
// It returns false when the code is unknown.
func DrawPrimitive(cv canvas.Canvas, code AMPrimitiveType, params []float64, scale float64,
	origin image.Point, drawColor canvas.Color) (bool, error) {
	f, ok := primitiveTable[code]
	if !ok {
		return false, nil
	}
	m := &modifiers{v: params, short: ErrParamIndex}
	f(cv, m, scale, origin, drawColor)
	if m.err != nil {
		return true, fmt.Errorf("primitive %d (%s): %w", int(code), code.String(), m.err)
	}
	return true, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// round converts a device length, non-finite values give 0
func round(v float64) int {
	if !finite(v) {
		return 0
	}
	return int(math.Round(v))
}

// size converts a device length clamping negative values to 0
func size(v float64) int {
	r := round(v)
	if r < 0 {
		return 0
	}
	return r
}

func offset(origin image.Point, v mgl64.Vec2, angle float64) (image.Point, bool) {
	r := xy.Rotate(v, angle)
	if !xy.Finite(r) {
		return image.Point{}, false
	}
	return xy.Round(r).Add(origin), true
}

// ********************************************* CIRCLE *********************************************************
func drawCircle(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	c := m.exposure(drawColor)
	dia, cx, cy := m.at(1), m.at(2), m.at(3)
	if m.err != nil || !finite(dia*scale, cx*scale, cy*scale) {
		return
	}
	center := image.Pt(origin.X+round(cx*scale), origin.Y-round(cy*scale))
	cv.DrawCircle(true, center, round(math.Abs(dia*scale)), canvas.Fill(c))
}

// ********************************************* OUTLINE ********************************************************
func drawOutline(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	c := m.exposure(drawColor)
	nf := m.at(1)
	if m.err != nil || !finite(nf) || nf < 1 || 2*nf+5 > float64(m.len()) {
		return
	}
	n := int(nf)
	closed := math.Abs(m.at(2)-m.at(2*n+2)) < outlineCloseTolerance &&
		math.Abs(m.at(3)-m.at(2*n+3)) < outlineCloseTolerance
	rotation := m.at(2*n + 4)
	if !finite(rotation) {
		return
	}
	if math.Abs(rotation) <= outlineRotationThreshold {
		rotation = 0
	}
	points := make([]image.Point, n)
	for i := 0; i < n; i++ {
		x, y := scale*m.at(2+2*i), scale*m.at(3+2*i)
		if !finite(x, y) {
			return
		}
		p, ok := offset(origin, mgl64.Vec2{float64(round(x)), -float64(round(y))}, rotation)
		if !ok {
			return
		}
		points[i] = p
	}
	if closed {
		cv.DrawPolygon(true, points, canvas.Fill(c))
	} else {
		cv.DrawPolygon(false, points, canvas.Stroke(c, outlineWidth, canvas.CapButt))
	}
}

// ********************************************* POLYGON ********************************************************
func drawPolygon(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	if m.stack && m.len() != 6 {
		return
	}
	c := m.exposure(drawColor)
	nf, dia, rot := m.at(1), m.at(4), m.at(5)
	if m.err != nil || !finite(nf, dia*scale, rot) || nf < 3 || nf > maxPolygonVertices {
		return
	}
	n := int(nf)
	tick := 2 * math.Pi / float64(n)
	rotation := -mgl64.DegToRad(rot)
	radius := dia / 2.0
	points := make([]image.Point, n)
	for i := 0; i < n; i++ {
		vertex := tick*float64(i) + rotation
		points[i] = image.Pt(round(scale*radius*math.Cos(vertex))+origin.X,
			round(scale*radius*math.Sin(vertex))+origin.Y)
	}
	cv.DrawPolygon(true, points, canvas.Fill(c))
}

// ********************************************* MOIRE **********************************************************
func drawMoire(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	outside, thickness, gap := m.at(2), m.at(3), m.at(4)
	count, chThickness, chLength, rotation := m.at(5), m.at(6), m.at(7), m.at(8)
	if m.err != nil || !finite(outside, thickness, gap, count, chThickness, chLength, rotation) {
		return
	}
	ring := canvas.Stroke(drawColor, size(scale*thickness), canvas.CapButt)
	realDia := outside - thickness/2.0
	realGap := gap + thickness
	if realGap <= 0 && count > 1 {
		// all rings coincide
		count = 1
	}
	if realGap > 0 {
		// no more rings than fit inside the outer one
		count = math.Min(count, math.Ceil(realDia/realGap)+1)
	}
	count = math.Min(count, maxMoireRings)
	for i := 0; i < int(count); i++ {
		dia := round((realDia - realGap*float64(i)) * scale)
		if dia <= 0 {
			break
		}
		cv.DrawCircle(false, origin, dia, ring)
	}

	half := float64(int(chLength / 2.0 * scale))
	cross := []mgl64.Vec2{{half, 0}, {-half, 0}, {0, half}, {0, -half}}
	points := make([]image.Point, len(cross))
	for i := range cross {
		p, ok := offset(origin, cross[i], rotation)
		if !ok {
			return
		}
		points[i] = p
	}
	line := canvas.Stroke(drawColor, size(scale*chThickness), canvas.CapButt)
	cv.DrawLine(points[0], points[1], line)
	cv.DrawLine(points[2], points[3], line)
}

// ********************************************* THERMAL ********************************************************
func drawThermal(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	outside, inside, chThickness, rotation := m.at(2), m.at(3), m.at(4), m.at(5)
	if m.err != nil || !finite(outside*scale, inside*scale, chThickness*scale, rotation) {
		return
	}
	ciThickness := (outside - inside) / 2.0
	diameter := round((inside + ciThickness) * scale)
	if diameter > 0 {
		cv.DrawCircle(false, origin, diameter, canvas.Stroke(drawColor, size(scale*ciThickness), canvas.CapButt))
	}

	// the cross is two pixels longer to cut the ring completely
	r := float64(round(outside/2.0*scale) + 2)
	points := make([]image.Point, 4)
	for i := range points {
		p, ok := offset(origin, mgl64.Vec2{r, 0}, rotation+90*float64(i))
		if !ok {
			return
		}
		points[i] = p
	}
	line := canvas.Stroke(drawColor.Invert(), size(scale*chThickness), canvas.CapButt)
	cv.DrawLine(points[0], points[2], line)
	cv.DrawLine(points[1], points[3], line)
}

// ***************************************** VECTOR LINE *****************************************************
func drawVectLine(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	c := m.exposure(drawColor)
	width := m.at(1)
	ends := []mgl64.Vec2{{m.at(2) * scale, m.at(3) * scale}, {m.at(4) * scale, m.at(5) * scale}}
	rotation := m.at(6)
	if m.err != nil || !finite(width*scale, rotation) {
		return
	}
	points := make([]image.Point, len(ends))
	for i := range ends {
		r := xy.Rotate(ends[i], rotation)
		if !xy.Finite(r) {
			return
		}
		p := xy.Round(r)
		points[i] = image.Pt(origin.X+p.X, origin.Y-p.Y)
	}
	cv.DrawLine(points[0], points[1], canvas.Stroke(c, size(scale*width), canvas.CapButt))
}

// ***************************************** CENTER LINE *****************************************************
func drawCenterLine(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	c := m.exposure(drawColor)
	width, height, rotation := m.at(1), m.at(2), m.at(5)
	if m.err != nil || !finite(width*scale, height*scale, rotation) {
		return
	}
	hw := float64(round(width * scale / 2.0))
	hh := float64(round(height * scale / 2.0))
	corners := []mgl64.Vec2{{hw, hh}, {hw, -hh}, {-hw, -hh}, {-hw, hh}}
	drawRotatedPolygon(cv, corners, rotation, origin, c)
}

// ***************************************** LOWER LEFT LINE *************************************************
func drawLowerLeftLine(cv canvas.Canvas, m *modifiers, scale float64, origin image.Point, drawColor canvas.Color) {
	c := m.exposure(drawColor)
	width, height, llx, lly, rotation := m.at(1), m.at(2), m.at(3), m.at(4), m.at(5)
	if m.err != nil || !finite(width*scale, height*scale, llx*scale, lly*scale, rotation) {
		return
	}
	x0 := float64(round(llx * scale))
	x1 := float64(round((llx + width) * scale))
	y0 := float64(round(lly * scale))
	y1 := float64(round((lly - height) * scale))
	corners := []mgl64.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	drawRotatedPolygon(cv, corners, rotation, origin, c)
}

func drawRotatedPolygon(cv canvas.Canvas, corners []mgl64.Vec2, rotation float64, origin image.Point, c canvas.Color) {
	points := make([]image.Point, len(corners))
	for i := range corners {
		p, ok := offset(origin, corners[i], rotation)
		if !ok {
			return
		}
		points[i] = p
	}
	cv.DrawPolygon(true, points, canvas.Fill(c))
}
