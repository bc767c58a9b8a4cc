// Package picking provides ray casting and screen-space hit testing. Every
// selection, gizmo and drag hit test in the editor is built on these helpers.
package picking

import (
	gomath "math"

	"github.com/Faultbox/tileforge/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts a pixel position to a world-space ray.
// screen is the viewport size in pixels, viewProj the camera's projection*view.
func ScreenToRay(point, screen math.Vec2, viewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*point.X/screen.X - 1.0
	ndcY := 1.0 - 2.0*point.Y/screen.Y // Flip Y

	invViewProj := viewProj.Inverse()

	// Unproject near and far points
	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1.0, 1.0})

	// Perspective divide
	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	far := math.Vec3{X: farWorld[0], Y: farWorld[1], Z: farWorld[2]}

	return Ray{Origin: origin, Direction: far.Sub(origin).Normalize()}
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. Hits behind the origin and parallel rays are misses.
func (r Ray) IntersectPlane(point, normal math.Vec3) (math.Vec3, bool) {
	denom := normal.Dot(r.Direction)
	if gomath.Abs(float64(denom)) < 1e-6 {
		return math.Vec3{}, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// ClosestPointOnLine returns the point on the infinite line through point
// along dir that is closest to the ray. Lines parallel to the ray have no
// unique answer and report false.
func (r Ray) ClosestPointOnLine(point, dir math.Vec3) (math.Vec3, bool) {
	w := point.Sub(r.Origin)
	a := dir.Dot(dir)
	b := dir.Dot(r.Direction)
	c := r.Direction.Dot(r.Direction)
	d := dir.Dot(w)
	e := r.Direction.Dot(w)
	denom := a*c - b*b
	if gomath.Abs(float64(denom)) < 1e-9 {
		return math.Vec3{}, false
	}
	s := (b*e - c*d) / denom
	return point.Add(dir.Scale(s)), true
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// The placement cursor rides on this plane.
func (r Ray) IntersectPlaneY(planeY float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return math.Vec3{}, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false // Intersection behind ray origin
	}

	p := r.At(t)
	p.Y = planeY
	return p, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin.Get(axis), r.Direction.Get(axis)
		lo, hi := box.Min.Get(axis), box.Max.Get(axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// EnterAABB returns the distance at which the ray enters box. A ray starting
// inside enters at zero, so a box the camera sits in is never culled by depth.
func (r Ray) EnterAABB(box AABB) (t float32, hit bool) {
	t, hit = r.IntersectAABB(box)
	if hit && box.Contains(r.Origin) {
		t = 0
	}
	return t, hit
}

// Contains reports whether p lies inside the box, borders included.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Expand returns the box grown by margin on every side.
func (b AABB) Expand(margin float32) AABB {
	m := math.Vec3{X: margin, Y: margin, Z: margin}
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}
