package raster

import (
	"math"

	"github.com/SayCV/geda-gerbv/canvas"
	"github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
)

// strokePath returns the outline pieces of a polyline drawn with style s.
// A width below one is drawn as a one pixel hairline.
func (m *Mask) strokePath(pts []mgl64.Vec2, closed bool, s canvas.Style) polyclip.Polygon {
	pts = dedup(pts)
	if len(pts) == 0 {
		return nil
	}
	half := float64(s.Width) / 2
	if half < 0.5 {
		half = 0.5
	}
	if closed && len(pts) > 2 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	} else {
		closed = false
	}

	runs := [][]mgl64.Vec2{pts}
	if s.Dashed {
		runs = dashes(pts, float64(m.DashLength), float64(m.GapLength))
		closed = false
	}

	var retVal polyclip.Polygon
	for _, run := range runs {
		if len(run) == 1 {
			retVal = append(retVal, m.dot(run[0], half, s.Cap)...)
			continue
		}
		for i := 1; i < len(run); i++ {
			retVal = append(retVal, band(run[i-1], run[i], half))
			if i > 1 {
				retVal = append(retVal, m.join(run[i-2], run[i-1], run[i], half, s.Join)...)
			}
		}
		if closed {
			retVal = append(retVal, m.join(run[len(run)-2], run[0], run[1], half, s.Join)...)
			continue
		}
		retVal = append(retVal, m.endCap(run[1], run[0], half, s.Cap)...)
		retVal = append(retVal, m.endCap(run[len(run)-2], run[len(run)-1], half, s.Cap)...)
	}
	return retVal
}

// dedup drops consecutive duplicate points
func dedup(pts []mgl64.Vec2) []mgl64.Vec2 {
	retVal := make([]mgl64.Vec2, 0, len(pts))
	for _, p := range pts {
		if len(retVal) > 0 && retVal[len(retVal)-1].Sub(p).Len() < epsilon {
			continue
		}
		retVal = append(retVal, p)
	}
	return retVal
}

func direction(a, b mgl64.Vec2) mgl64.Vec2 {
	return b.Sub(a).Normalize()
}

// left normal of the unit vector u
func normal(u mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-u.Y(), u.X()}
}

func band(a, b mgl64.Vec2, half float64) polyclip.Contour {
	n := normal(direction(a, b)).Mul(half)
	return contour([]mgl64.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

// dot is a zero length stroke
func (m *Mask) dot(p mgl64.Vec2, half float64, cp canvas.Cap) polyclip.Polygon {
	switch cp {
	case canvas.CapRound:
		return polyclip.Polygon{contour(m.ellipse(p, half, half))}
	case canvas.CapProjecting:
		return polyclip.Polygon{contour([]mgl64.Vec2{
			{p.X() - half, p.Y() - half},
			{p.X() + half, p.Y() - half},
			{p.X() + half, p.Y() + half},
			{p.X() - half, p.Y() + half},
		})}
	default:
	}
	return nil
}

// endCap closes the stroke at end, prev is the neighbouring vertex
func (m *Mask) endCap(prev, end mgl64.Vec2, half float64, cp canvas.Cap) polyclip.Polygon {
	switch cp {
	case canvas.CapRound:
		return polyclip.Polygon{contour(m.ellipse(end, half, half))}
	case canvas.CapProjecting:
		u := direction(prev, end)
		return polyclip.Polygon{band(end, end.Add(u.Mul(half)), half)}
	default:
	}
	return nil
}

func (m *Mask) join(a, v, b mgl64.Vec2, half float64, j canvas.Join) polyclip.Polygon {
	if j == canvas.JoinRound {
		return polyclip.Polygon{contour(m.ellipse(v, half, half))}
	}
	u1, u2 := direction(a, v), direction(v, b)
	cross := u1.X()*u2.Y() - u1.Y()*u2.X()
	if math.Abs(cross) < epsilon {
		return nil
	}
	// the outer side is opposite to the turn
	side := -1.0
	if cross < 0 {
		side = 1.0
	}
	n1 := normal(u1).Mul(side * half)
	n2 := normal(u2).Mul(side * half)
	cosHalf := math.Sqrt((1 + u1.Dot(u2)) / 2)
	if cosHalf < 1/miterLimit {
		return polyclip.Polygon{contour([]mgl64.Vec2{v, v.Add(n1), v.Add(n2)})}
	}
	tip := v.Add(n1.Add(n2).Normalize().Mul(half / cosHalf))
	return polyclip.Polygon{contour([]mgl64.Vec2{v, v.Add(n1), tip, v.Add(n2)})}
}

// dashes splits a polyline into the runs of a dash/gap pattern starting with a dash
func dashes(pts []mgl64.Vec2, dash, gap float64) [][]mgl64.Vec2 {
	if dash <= 0 || gap <= 0 || len(pts) < 2 {
		return [][]mgl64.Vec2{pts}
	}
	var retVal [][]mgl64.Vec2
	on := true
	left := dash
	cur := []mgl64.Vec2{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		length := d.Len()
		pos := 0.0
		for length-pos > left {
			pos += left
			p := a.Add(d.Mul(pos / length))
			if on {
				retVal = append(retVal, append(cur, p))
				cur = nil
				left = gap
			} else {
				cur = []mgl64.Vec2{p}
				left = dash
			}
			on = !on
		}
		left -= length - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) > 1 {
		retVal = append(retVal, cur)
	}
	return retVal
}
