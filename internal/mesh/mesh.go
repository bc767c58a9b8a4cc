package mesh

import (
	gomath "math"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

// corner order of the two triangles of a quad
var quadTriangles = [6]int{0, 1, 2, 0, 2, 3}

// Build triangulates the visible faces of o. It returns nil when nothing is
// left to draw and no instance needs the geometry.
func Build(o *document.Object, opts BuildOptions) *Mesh {
	if o == nil {
		return nil
	}

	var vertices []Vertex
	var indices []uint32

	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	for i := range o.Faces {
		f := &o.Faces[i]
		if f.Hidden {
			continue
		}
		if opts.SkipDegenerate && f.IsDegenerate() {
			continue
		}
		n := f.Normal()
		if n.LengthSq() == 0 {
			continue
		}

		addFace := func(reverse bool, normal math.Vec3) {
			base := uint32(len(vertices))
			for c := 0; c < 4; c++ {
				p := f.Positions[c]
				pos := [3]float32{p.X, p.Y, p.Z}
				updateBounds(&bounds, pos)
				vertices = append(vertices, Vertex{
					Position: pos,
					Normal:   [3]float32{normal.X, normal.Y, normal.Z},
					TexCoord: [2]float32{f.UVs[c].X, f.UVs[c].Y},
					Color:    f.Colors[c],
				})
			}
			for t := 0; t < 6; t++ {
				k := quadTriangles[t]
				if reverse {
					k = quadTriangles[5-t]
				}
				indices = append(indices, base+uint32(k))
			}
		}

		addFace(false, n)
		if opts.TwoSided {
			addFace(true, n.Neg())
		}
	}

	if len(vertices) == 0 {
		return nil
	}
	if opts.SmoothNormals {
		SmoothNormals(vertices)
	}

	m := &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   bounds,
	}
	for _, inst := range o.Instances {
		m.Instances = append(m.Instances, InstanceMatrix(inst))
	}
	return m
}

// InstanceMatrix returns translate * rotate * scale for inst, column-major.
func InstanceMatrix(inst document.Instance) [16]float32 {
	x := inst.Rotation.Rotate(math.UnitX).Scale(inst.Scale.X)
	y := inst.Rotation.Rotate(math.UnitY).Scale(inst.Scale.Y)
	z := inst.Rotation.Rotate(math.UnitZ).Scale(inst.Scale.Z)
	p := inst.Position
	return [16]float32{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		p.X, p.Y, p.Z, 1,
	}
}

// SmoothNormals averages normals at shared vertex positions.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(gomath.Round(float64(vertices[i].Position[0] / epsilon))),
			int32(gomath.Round(float64(vertices[i].Position[1] / epsilon))),
			int32(gomath.Round(float64(vertices[i].Position[2] / epsilon))),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, idx := range idxs {
			n := vertices[idx].Normal
			sum = sum.Add(math.Vec3{X: n[0], Y: n[1], Z: n[2]})
		}
		// Opposing normals cancel out; keep the face normals then.
		if sum.LengthSq() < 1e-12 {
			continue
		}
		avg := sum.Normalize()
		for _, idx := range idxs {
			vertices[idx].Normal = [3]float32{avg.X, avg.Y, avg.Z}
		}
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}
