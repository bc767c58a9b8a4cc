package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

func flatQuad(x0, z0, x1, z1 float32) document.Face {
	return document.NewQuad(
		math.Vec3{X: x0, Z: z0}, math.Vec3{X: x0, Z: z1}, math.Vec3{X: x1, Z: z1}, math.Vec3{X: x1, Z: z0},
	)
}

func TestBuildTriangulatesQuads(t *testing.T) {
	o := &document.Object{Faces: []document.Face{flatQuad(0, 0, 1, 1), flatQuad(1, 0, 3, 2)}}
	o.Faces[1].Colors[2] = math.Vec4{1, 0, 0, 1}

	m := Build(o, BuildOptions{})
	require.NotNil(t, m)
	assert.Len(t, m.Vertices, 8)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, m.Indices)
	assert.Equal(t, 4, m.TriangleCount())
	assert.Equal(t, Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{3, 0, 2}}, m.Bounds)

	for _, v := range m.Vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
	}
	assert.Equal(t, [4]float32{1, 0, 0, 1}, m.Vertices[6].Color)
	assert.Equal(t, [2]float32{1, 0}, m.Vertices[2].TexCoord)
}

func TestBuildSkipsHiddenFaces(t *testing.T) {
	o := &document.Object{Faces: []document.Face{flatQuad(0, 0, 1, 1), flatQuad(1, 0, 2, 1)}}
	o.Faces[0].Hidden = true

	m := Build(o, BuildOptions{})
	require.NotNil(t, m)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, float32(1), m.Bounds.Min[0])

	o.Faces[1].Hidden = true
	assert.Nil(t, Build(o, BuildOptions{}))
}

func TestBuildDegenerate(t *testing.T) {
	tri := flatQuad(0, 0, 1, 1)
	tri.Positions[3] = tri.Positions[2]
	o := &document.Object{Faces: []document.Face{tri}}

	assert.Equal(t, 2, Build(o, BuildOptions{}).TriangleCount(), "triangle faces still render")
	assert.Nil(t, Build(o, BuildOptions{SkipDegenerate: true}))
}

func TestBuildTwoSided(t *testing.T) {
	o := &document.Object{Faces: []document.Face{flatQuad(0, 0, 1, 1)}}
	m := Build(o, BuildOptions{TwoSided: true})
	require.NotNil(t, m)
	assert.Equal(t, 4, m.TriangleCount())
	assert.Equal(t, []uint32{7, 6, 4, 6, 5, 4}, m.Indices[6:])
	assert.Equal(t, [3]float32{0, -1, 0}, m.Vertices[4].Normal)
}

func TestSmoothNormals(t *testing.T) {
	// Two faces meeting at a right angle along x=1.
	floor := flatQuad(0, 0, 1, 1)
	wall := document.NewQuad(
		math.Vec3{X: 1, Z: 0}, math.Vec3{X: 1, Z: 1}, math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 1, Y: 1, Z: 0},
	)
	o := &document.Object{Faces: []document.Face{floor, wall}}
	m := Build(o, BuildOptions{SmoothNormals: true})
	require.NotNil(t, m)

	shared := m.Vertices[2].Normal // floor corner (1,0,1)
	assert.InDelta(t, shared[0], m.Vertices[5].Normal[0], 1e-6)
	assert.InDelta(t, shared[1], m.Vertices[5].Normal[1], 1e-6)
	assert.NotEqual(t, [3]float32{0, 1, 0}, shared)
	assert.Equal(t, [3]float32{0, 1, 0}, m.Vertices[0].Normal, "unshared corner keeps its face normal")
}

func TestInstanceMatrix(t *testing.T) {
	inst := document.NewInstance(math.Vec3{X: 2, Y: 3, Z: 4})
	inst.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	mat := math.Mat4(InstanceMatrix(inst))
	assert.Equal(t, math.Vec3{X: 4, Y: 5, Z: 6}, mat.TransformVec3(math.Vec3{X: 1, Y: 1, Z: 1}))

	o := &document.Object{
		Faces:     []document.Face{flatQuad(0, 0, 1, 1)},
		Instances: []document.Instance{inst, document.NewInstance(math.Vec3{})},
	}
	m := Build(o, BuildOptions{})
	require.Len(t, m.Instances, 2)
}

func TestCacheRebuildAndEvict(t *testing.T) {
	scene := document.NewScene()
	l, _ := scene.Layer(0)
	l.InsertObject(0, &document.Object{Name: "a", Faces: []document.Face{flatQuad(0, 0, 1, 1)}})
	l.InsertObject(1, &document.Object{Name: "b", Faces: []document.Face{flatQuad(2, 0, 3, 1)}})

	c := NewCache(BuildOptions{})
	c.RebuildAll(scene)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 4, c.Triangles())

	l.Objects[0].Faces = append(l.Objects[0].Faces, flatQuad(0, 1, 1, 2))
	c.Rebuild(scene, []document.ObjectRef{{Layer: 0, Object: 0}})
	m, ok := c.Get(document.ObjectRef{Layer: 0, Object: 0})
	require.True(t, ok)
	assert.Equal(t, 4, m.TriangleCount())

	l.RemoveObject(1)
	c.Rebuild(scene, []document.ObjectRef{{Layer: 0, Object: 1}, {Layer: 3, Object: 0}})
	assert.Equal(t, 1, c.Len())

	l.Visible = false
	c.Rebuild(scene, []document.ObjectRef{{Layer: 0, Object: 0}})
	assert.Zero(t, c.Len())
}
