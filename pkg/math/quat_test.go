package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatRotateMatchesRotateAround(t *testing.T) {
	axis := Vec3{0, 1, 0}
	angle := float32(math.Pi / 3)
	p := Vec3{2, 1, -1}

	got := QuatFromAxisAngle(axis, angle).Rotate(p)
	want := p.RotateAround(Vec3{}, axis, angle)
	if got.Distance(want) > 1e-5 {
		t.Errorf("Quat.Rotate = %v, RotateAround = %v", got, want)
	}
}

func TestQuatConjugateUndoesRotation(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 0, 1}, 0.7)
	p := Vec3{1, 2, 3}
	back := q.Conjugate().Rotate(q.Rotate(p))
	if back.Distance(p) > 1e-5 {
		t.Errorf("conjugate rotation: got %v, want %v", back, p)
	}
}

func TestQuatMulComposes(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.4)
	b := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.6)
	got := a.Mul(b)
	want := QuatFromAxisAngle(Vec3{0, 1, 0}, 1.0)
	if abs(got.W-want.W) > 1e-5 || abs(got.Y-want.Y) > 1e-5 {
		t.Errorf("Mul: got %v, want %v", got, want)
	}
}
