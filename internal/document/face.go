// Package document holds the editable scene: layers of objects, each an
// ordered list of quad faces. Everything is addressed by index tuples.
package document

import "github.com/Faultbox/tileforge/pkg/math"

// White is the default vertex color.
var White = math.Vec4{1, 1, 1, 1}

// DefaultUVs maps a quad onto a full tile, corner for corner.
var DefaultUVs = [4]math.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}

// Face is a quad: four ordered corners rendered as triangles (0,1,2) and (0,2,3).
// Two coincident corners make it a triangle.
type Face struct {
	Positions [4]math.Vec3
	UVs       [4]math.Vec2
	Colors    [4]math.Vec4
	Hidden    bool
}

// NewQuad returns a face with default tile UVs and opaque white corners.
func NewQuad(p0, p1, p2, p3 math.Vec3) Face {
	return Face{
		Positions: [4]math.Vec3{p0, p1, p2, p3},
		UVs:       DefaultUVs,
		Colors:    [4]math.Vec4{White, White, White, White},
	}
}

// Normal returns the unit normal implied by triangle (0,1,2), falling back to
// (0,2,3) when the first triangle is degenerate.
func (f *Face) Normal() math.Vec3 {
	p := f.Positions
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.LengthSq() < 1e-12 {
		n = p[2].Sub(p[0]).Cross(p[3].Sub(p[0]))
	}
	return n.Normalize()
}

// Center returns the average of the four corners.
func (f *Face) Center() math.Vec3 {
	p := f.Positions
	return p[0].Add(p[1]).Add(p[2]).Add(p[3]).Scale(0.25)
}

// Edge returns the corner indices of edge i, which runs from corner i to i+1.
func Edge(i int) (a, b int) {
	return i, (i + 1) % 4
}

// EdgeMidpoint returns the midpoint of edge i.
func (f *Face) EdgeMidpoint(i int) math.Vec3 {
	a, b := Edge(i)
	return f.Positions[a].Lerp(f.Positions[b], 0.5)
}

// Flip reverses the winding by swapping corners 1 and 3. Flip is its own inverse.
func (f *Face) Flip() {
	f.Positions[1], f.Positions[3] = f.Positions[3], f.Positions[1]
	f.UVs[1], f.UVs[3] = f.UVs[3], f.UVs[1]
	f.Colors[1], f.Colors[3] = f.Colors[3], f.Colors[1]
}

// IsDegenerate reports whether any two corners coincide.
func (f *Face) IsDegenerate() bool {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if f.Positions[i].DistanceSq(f.Positions[j]) < 1e-12 {
				return true
			}
		}
	}
	return false
}

// Bounds returns the component-wise min and max corner.
func (f *Face) Bounds() (lo, hi math.Vec3) {
	lo, hi = f.Positions[0], f.Positions[0]
	for _, p := range f.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}
