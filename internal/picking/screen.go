package picking

import (
	gomath "math"

	"github.com/Faultbox/tileforge/pkg/math"
)

// minQuadArea is the smallest doubled pixel area PointInQuad2D treats as a
// real quad.
const minQuadArea = 1

// ProjectToScreen maps a world point to pixel coordinates (origin top-left).
// Points at or behind the camera plane (clip w <= 0) are not projected.
func ProjectToScreen(point math.Vec3, viewProj math.Mat4, screen math.Vec2) (math.Vec2, bool) {
	clip := viewProj.Project(point)
	if clip[3] <= 0 {
		return math.Vec2{}, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	return math.Vec2{
		X: (ndcX + 1) * 0.5 * screen.X,
		Y: (1 - ndcY) * 0.5 * screen.Y,
	}, true
}

// DistanceToSegment2D returns the distance from p to the segment a-b.
func DistanceToSegment2D(p, a, b math.Vec2) float32 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = min(max(t, 0), 1)
	return p.Distance(a.Add(ab.Scale(t)))
}

// PointInQuad2D reports whether p lies inside the convex quad q, in either
// winding. Quads with (near) zero area contain nothing.
func PointInQuad2D(p math.Vec2, q [4]math.Vec2) bool {
	var area float32
	for i := 0; i < 4; i++ {
		area += q[i].Cross(q[(i+1)%4])
	}
	if gomath.Abs(float64(area)) < minQuadArea {
		return false
	}
	var pos, neg bool
	for i := 0; i < 4; i++ {
		a, b := q[i], q[(i+1)%4]
		c := b.Sub(a).Cross(p.Sub(a))
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// PointInRect reports whether p lies in the rectangle spanned by two corners
// given in any order.
func PointInRect(p, a, b math.Vec2) bool {
	lo := math.Vec2{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
	hi := math.Vec2{X: max(a.X, b.X), Y: max(a.Y, b.Y)}
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}
