package picking

import (
	gomath "math"

	"github.com/Faultbox/tileforge/pkg/math"
)

const (
	// hitEpsilon is the minimum accepted hit distance.
	hitEpsilon = 1e-6
	// parallelEpsilon bounds the determinant below which a ray is parallel.
	parallelEpsilon = 1e-8
)

// IntersectTriangle runs Möller–Trumbore and returns the hit distance.
func IntersectTriangle(r Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if gomath.Abs(float64(det)) < parallelEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(v0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= hitEpsilon {
		return 0, false
	}
	return t, true
}

// IntersectQuad tests triangles (0,1,2) and (0,2,3) and returns the nearer hit.
func IntersectQuad(r Ray, p [4]math.Vec3) (float32, bool) {
	t1, hit1 := IntersectTriangle(r, p[0], p[1], p[2])
	t2, hit2 := IntersectTriangle(r, p[0], p[2], p[3])
	switch {
	case hit1 && hit2:
		return min(t1, t2), true
	case hit1:
		return t1, true
	case hit2:
		return t2, true
	}
	return 0, false
}
