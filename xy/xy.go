package xy

import (
	"image"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

/*
######################### coordinates #########################################
*/

// XY is a point of the image model in user units
type XY struct {
	x float64
	y float64
}

func NewXY(x, y float64) *XY {
	retVal := new(XY)
	retVal.SetX(x)
	retVal.SetY(y)
	return retVal
}

func (xy *XY) String() string {
	if xy == nil {
		return "<nil>"
	}
	return "x,y=(" +
		strconv.FormatFloat(xy.x, 'f', 5, 64) +
		"," +
		strconv.FormatFloat(xy.y, 'f', 5, 64) +
		")"
}

// tolerance is the radius of the circle around first point
// inisde of which another point will be treated as equal to the first one
func (xy *XY) Equals(another *XY, tolerance float64) bool {
	return (math.Hypot(xy.GetX()-another.GetX(), xy.GetY()-another.GetY())) < tolerance
}

func (xy *XY) GetX() float64 {
	return xy.x
}

func (xy *XY) SetX(x float64) {
	xy.x = x
}

func (xy *XY) GetY() float64 {
	return xy.y
}

func (xy *XY) SetY(y float64) {
	xy.y = y
}

func (xy *XY) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{xy.x, xy.y}
}

/*
######################### rotation #########################################
*/

// Rotate turns v around the origin by angle degrees.
// Device Y axis points down, so the angle is negated.
func Rotate(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	if angle == 0 {
		return v
	}
	return mgl64.Rotate2D(mgl64.DegToRad(-angle)).Mul2x1(v)
}

// RotatePoint rotates a device point and rounds the result to the nearest pixel
func RotatePoint(p image.Point, angle float64) image.Point {
	if angle == 0 {
		return p
	}
	return Round(Rotate(mgl64.Vec2{float64(p.X), float64(p.Y)}, angle))
}

// Round converts v to the nearest device point
func Round(v mgl64.Vec2) image.Point {
	return image.Pt(int(math.Round(v[0])), int(math.Round(v[1])))
}

// Finite reports whether both coordinates are neither NaN nor infinite
func Finite(v mgl64.Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsInf(v[0], 0) && !math.IsNaN(v[1]) && !math.IsInf(v[1], 0)
}
