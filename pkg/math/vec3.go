// Package math provides vector, matrix and quaternion types for the editor.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Unit axes, indexed by axis number.
var (
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

// Axis returns the unit vector for axis 0 (X), 1 (Y) or 2 (Z).
func Axis(i int) Vec3 {
	switch i {
	case 0:
		return UnitX
	case 1:
		return UnitY
	default:
		return UnitZ
	}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Div returns the component-wise quotient.
func (v Vec3) Div(other Vec3) Vec3 {
	return Vec3{v.X / other.X, v.Y / other.Y, v.Z / other.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// LengthSq returns the squared magnitude.
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// DistanceSq returns the squared distance to another point.
func (v Vec3) DistanceSq(other Vec3) float32 {
	return v.Sub(other).LengthSq()
}

// Lerp interpolates between v and other.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).Scale(t))
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// Get returns component i (0=X, 1=Y, 2=Z).
func (v Vec3) Get(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// With returns a copy of v with component i set to s.
func (v Vec3) With(i int, s float32) Vec3 {
	switch i {
	case 0:
		v.X = s
	case 1:
		v.Y = s
	default:
		v.Z = s
	}
	return v
}

// DominantAxis returns the index of the component with the largest magnitude.
func (v Vec3) DominantAxis() int {
	ax, ay, az := abs32(v.X), abs32(v.Y), abs32(v.Z)
	if ax >= ay && ax >= az {
		return 0
	}
	if ay >= az {
		return 1
	}
	return 2
}

// Snap rounds every component to the nearest multiple of cell.
// A non-positive cell leaves v unchanged.
func (v Vec3) Snap(cell float32) Vec3 {
	if cell <= 0 {
		return v
	}
	return Vec3{snap(v.X, cell), snap(v.Y, cell), snap(v.Z, cell)}
}

// RotateAround rotates point v about the axis through center by angle radians.
// axis must be normalized.
func (v Vec3) RotateAround(center, axis Vec3, angle float32) Vec3 {
	p := v.Sub(center)
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	// Rodrigues' rotation formula
	rotated := p.Scale(c).
		Add(axis.Cross(p).Scale(s)).
		Add(axis.Scale(axis.Dot(p) * (1 - c)))
	return center.Add(rotated)
}

// ScaleAround scales point v about center by a per-axis factor.
func (v Vec3) ScaleAround(center, factor Vec3) Vec3 {
	return center.Add(v.Sub(center).Mul(factor))
}

// Perpendicular returns an arbitrary unit vector perpendicular to v.
func (v Vec3) Perpendicular() Vec3 {
	other := UnitX
	if abs32(v.X) > 0.9 {
		other = UnitY
	}
	return v.Cross(other).Normalize()
}

// XZ returns the XZ components as Vec2.
func (v Vec3) XZ() Vec2 {
	return Vec2{v.X, v.Z}
}

func snap(x, cell float32) float32 {
	return float32(math.Round(float64(x/cell))) * cell
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
