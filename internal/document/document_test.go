package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tileforge/pkg/math"
)

func unitQuad(y float32) Face {
	return NewQuad(
		math.Vec3{X: 0, Y: y, Z: 0},
		math.Vec3{X: 0, Y: y, Z: 1},
		math.Vec3{X: 1, Y: y, Z: 1},
		math.Vec3{X: 1, Y: y, Z: 0},
	)
}

func sceneWithObject(faces ...Face) *Scene {
	s := NewScene()
	s.Layers[0].Objects = append(s.Layers[0].Objects, &Object{Name: "obj", Faces: faces})
	return s
}

func TestFaceNormalAndFlip(t *testing.T) {
	f := unitQuad(0)
	assert.Equal(t, math.Vec3{X: 0, Y: 1, Z: 0}, f.Normal())

	orig := f
	f.Flip()
	assert.Equal(t, math.Vec3{X: 0, Y: -1, Z: 0}, f.Normal())
	assert.Equal(t, orig.Positions[1], f.Positions[3])
	assert.Equal(t, orig.UVs[3], f.UVs[1])

	f.Flip()
	assert.Equal(t, orig, f, "flip must be self-inverse")
}

func TestFaceDegenerateNormal(t *testing.T) {
	// Corners 0 and 1 coincide: a triangle stored as a quad.
	f := NewQuad(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 0, Z: 1},
		math.Vec3{X: 1, Y: 0, Z: 0},
	)
	assert.True(t, f.IsDegenerate())
	assert.InDelta(t, 1, f.Normal().Y, 1e-6)
}

func TestLookupsOutOfRange(t *testing.T) {
	s := sceneWithObject(unitQuad(0))

	_, ok := s.Layer(3)
	assert.False(t, ok)
	_, ok = s.Object(ObjectRef{0, 1})
	assert.False(t, ok)
	_, ok = s.Face(FaceRef{0, 0, 1})
	assert.False(t, ok)
	_, ok = s.Vertex(ElementRef{0, 0, 0, 4})
	assert.False(t, ok)
	_, ok = s.Instance(InstanceRef{0, 0, 0})
	assert.False(t, ok)

	v, ok := s.Vertex(ElementRef{0, 0, 0, 2})
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 1, Y: 0, Z: 1}, *v)

	a, b, ok := s.Edge(ElementRef{0, 0, 0, 3})
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 1, Y: 0, Z: 0}, a)
	assert.Equal(t, math.Vec3{X: 0, Y: 0, Z: 0}, b)
}

func TestObjectFaceListOps(t *testing.T) {
	o := &Object{}
	o.AppendFaces(unitQuad(0), unitQuad(1), unitQuad(2))

	removed, ok := o.RemoveFace(1)
	require.True(t, ok)
	assert.Equal(t, unitQuad(1), removed)
	assert.Len(t, o.Faces, 2)

	o.InsertFace(1, removed)
	assert.Equal(t, []Face{unitQuad(0), unitQuad(1), unitQuad(2)}, o.Faces)

	popped := o.PopFaces(2)
	assert.Equal(t, []Face{unitQuad(1), unitQuad(2)}, popped)
	assert.Len(t, o.Faces, 1)

	assert.Len(t, o.PopFaces(10), 1)
	assert.Empty(t, o.Faces)
}

func TestCloneIsDeep(t *testing.T) {
	s := sceneWithObject(unitQuad(0))
	s.Layers[0].Objects[0].Instances = []Instance{NewInstance(math.Vec3{X: 3})}

	dup := s.Clone()
	require.True(t, Equal(s, dup))

	dup.Layers[0].Objects[0].Faces[0].Positions[0].X = 42
	dup.Layers[0].Objects[0].Instances[0].Position.Y = 7
	assert.Equal(t, float32(0), s.Layers[0].Objects[0].Faces[0].Positions[0].X)
	assert.Equal(t, float32(0), s.Layers[0].Objects[0].Instances[0].Position.Y)
	assert.False(t, Equal(s, dup))
}

func TestEqualTreatsNilAndEmptyAlike(t *testing.T) {
	a := sceneWithObject()
	b := sceneWithObject()
	b.Layers[0].Objects[0].Faces = []Face{}
	assert.True(t, Equal(a, b))
}

func TestApproxEqual(t *testing.T) {
	a := sceneWithObject(unitQuad(0))
	b := a.Clone()
	b.Layers[0].Objects[0].Faces[0].Positions[2].X += 1e-6
	assert.False(t, Equal(a, b))
	assert.True(t, ApproxEqual(a, b, 1e-4))
}

func TestStaleTracking(t *testing.T) {
	s := sceneWithObject(unitQuad(0))
	s.Layers[0].Objects = append(s.Layers[0].Objects, &Object{Name: "b"})

	assert.Nil(t, s.DrainStale())

	s.MarkStale(ObjectRef{0, 1})
	s.MarkStale(ObjectRef{0, 0})
	s.MarkStale(ObjectRef{0, 1})
	assert.Equal(t, []ObjectRef{{0, 0}, {0, 1}}, s.DrainStale())
	assert.Nil(t, s.DrainStale())

	s.MarkLayerStale(0, 1)
	assert.Equal(t, []ObjectRef{{0, 1}, {0, 2}}, s.DrainStale())
}

func TestVisibleObjectsSkipsHiddenLayers(t *testing.T) {
	s := sceneWithObject(unitQuad(0))
	hidden := s.AddLayer("hidden")
	s.Layers[hidden].Visible = false
	s.Layers[hidden].Objects = []*Object{{Name: "ghost"}}

	var seen []ObjectRef
	s.VisibleObjects(func(ref ObjectRef, _ *Object) { seen = append(seen, ref) })
	assert.Equal(t, []ObjectRef{{0, 0}}, seen)
}

func TestRefOrdering(t *testing.T) {
	assert.Negative(t, CompareFaces(FaceRef{0, 1, 5}, FaceRef{0, 2, 0}))
	assert.Positive(t, CompareElements(ElementRef{1, 0, 0, 0}, ElementRef{0, 9, 9, 3}))
	assert.Zero(t, CompareObjects(ObjectRef{2, 3}, ObjectRef{2, 3}))
}
