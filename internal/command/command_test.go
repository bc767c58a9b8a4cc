package command

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

func v3(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }

// flatQuad spans [x0,x1]x[z0,z1] at height y, facing up.
func flatQuad(x0, z0, x1, z1, y float32) document.Face {
	return document.NewQuad(v3(x0, y, z0), v3(x0, y, z1), v3(x1, y, z1), v3(x1, y, z0))
}

// box returns top, bottom, -X and +X faces of the unit cube.
func box() *document.Object {
	o := &document.Object{Name: "box"}
	o.AppendFaces(
		flatQuad(0, 0, 1, 1, 1),
		document.NewQuad(v3(0, 0, 0), v3(1, 0, 0), v3(1, 0, 1), v3(0, 0, 1)),
		document.NewQuad(v3(0, 0, 0), v3(0, 0, 1), v3(0, 1, 1), v3(0, 1, 0)),
		document.NewQuad(v3(1, 0, 0), v3(1, 1, 0), v3(1, 1, 1), v3(1, 0, 1)),
	)
	return o
}

// fixture holds a box, a 2x1 floor strip with two instances, and a second
// layer with one tile.
func fixture() *document.Scene {
	s := document.NewScene()
	l, _ := s.Layer(0)
	l.InsertObject(0, box())

	floor := &document.Object{Name: "floor"}
	floor.AppendFaces(flatQuad(2, 0, 3, 1, 0), flatQuad(3, 0, 4, 1, 0))
	floor.Instances = []document.Instance{document.NewInstance(v3(0, 0, 5)), document.NewInstance(v3(2, 0, 5))}
	l.InsertObject(1, floor)

	li := s.AddLayer("Props")
	l2, _ := s.Layer(li)
	tile := &document.Object{Name: "tile"}
	tile.AppendFaces(flatQuad(-2, -2, -1, -1, 0))
	l2.InsertObject(0, tile)
	return s
}

func face(l, o, f int) document.FaceRef { return document.FaceRef{Layer: l, Object: o, Face: f} }

func corners(refs ...document.FaceRef) []document.ElementRef {
	var out []document.ElementRef
	for _, r := range refs {
		for i := range 4 {
			out = append(out, r.Element(i))
		}
	}
	return out
}

// checkReversible asserts undo(apply(S)) == S and apply(undo(apply(S))) == apply(S).
func checkReversible(t *testing.T, scene *document.Scene, cmd Command, approx bool) {
	t.Helper()
	require.NotNil(t, cmd)
	equal := document.Equal
	if approx {
		equal = func(a, b *document.Scene) bool { return document.ApproxEqual(a, b, 1e-4) }
	}

	before := scene.Clone()
	cmd.Apply(scene)
	after := scene.Clone()
	assert.False(t, document.Equal(before, after), "%s changed nothing", cmd.Description())

	cmd.Undo(scene)
	assert.True(t, equal(before, scene), "%s: undo did not restore the original", cmd.Description())

	cmd.Apply(scene)
	assert.True(t, equal(after, scene), "%s: redo diverged", cmd.Description())

	cmd.Undo(scene)
	assert.True(t, equal(before, scene), "%s: second undo diverged", cmd.Description())
}

func TestUndoExactness(t *testing.T) {
	red := math.Vec4{1, 0, 0, 1}
	boxFace := face(0, 0, 0)
	floor := document.ObjectRef{Layer: 0, Object: 1}
	inst := []document.InstanceRef{{Layer: 0, Object: 1, Instance: 0}, {Layer: 0, Object: 1, Instance: 1}}

	tests := []struct {
		name   string
		build  func(s *document.Scene) Command
		approx bool
	}{
		{"translate", func(*document.Scene) Command {
			return Translate(corners(boxFace, face(0, 1, 1)), v3(0.5, 1, -2))
		}, false},
		{"rotate", func(*document.Scene) Command {
			return Rotate(corners(boxFace), v3(0.5, 1, 0.5), math.UnitY, 0.7)
		}, true},
		{"scale", func(*document.Scene) Command {
			return Scale(corners(boxFace, face(1, 0, 0)), v3(1, 0, 1), v3(2, 0.5, 4))
		}, false},
		{"flip", func(*document.Scene) Command { return Flip([]document.FaceRef{boxFace, face(0, 1, 0)}) }, false},
		{"extrude", func(*document.Scene) Command {
			return Extrude([]document.FaceRef{boxFace, face(0, 0, 2), face(0, 1, 1)}, 1)
		}, false},
		{"subdivide", func(*document.Scene) Command {
			return Subdivide([]document.FaceRef{face(0, 0, 1), face(0, 0, 3)})
		}, false},
		{"split edge", func(*document.Scene) Command {
			return SplitEdge([]document.ElementRef{face(0, 0, 0).Element(1), face(0, 1, 0).Element(0)})
		}, false},
		{"collapse edge", func(*document.Scene) Command {
			return CollapseEdge([]document.ElementRef{face(0, 0, 0).Element(0)})
		}, false},
		{"delete", func(*document.Scene) Command {
			return Delete([]document.ObjectRef{{Layer: 1, Object: 0}}, []document.FaceRef{face(0, 0, 1), face(0, 0, 3), face(0, 1, 0)})
		}, false},
		{"create object", func(*document.Scene) Command {
			return CreateObject([]document.FaceRef{face(0, 0, 0), face(0, 0, 2), face(0, 1, 1)}, "lid")
		}, false},
		{"merge vertices", func(*document.Scene) Command {
			return MergeVertices([]document.ElementRef{face(0, 0, 0).Element(0), face(0, 0, 0).Element(2), face(0, 1, 0).Element(1)})
		}, false},
		{"set positions", func(*document.Scene) Command {
			return SetPositions("Move", []document.ElementRef{face(0, 0, 0).Element(0)}, []math.Vec3{v3(9, 9, 9)})
		}, false},
		{"snap to grid", func(s *document.Scene) Command {
			p, _ := s.Vertex(face(0, 1, 0).Element(0))
			*p = v3(2.3, 0.2, -0.6)
			return SnapToGrid(corners(face(0, 1, 0)), 1)
		}, false},
		{"paint", func(*document.Scene) Command {
			return Paint([]document.ElementRef{boxFace.Element(0), boxFace.Element(3), face(0, 1, 0).Element(2)}, red, 0.5)
		}, false},
		{"retile", func(*document.Scene) Command {
			return Retile([]document.FaceRef{boxFace, face(0, 1, 1)}, TileRect{Min: math.Vec2{X: 0.25}, Max: math.Vec2{X: 0.5, Y: 0.25}})
		}, false},
		{"rotate uvs", func(*document.Scene) Command {
			return TransformUVs([]document.FaceRef{boxFace}, UVOp{Kind: UVRotate90})
		}, false},
		{"flip uvs", func(*document.Scene) Command {
			return TransformUVs([]document.FaceRef{boxFace}, UVOp{Kind: UVFlipU})
		}, false},
		{"offset uvs", func(*document.Scene) Command {
			return TransformUVs([]document.FaceRef{boxFace}, UVOp{Kind: UVOffset, Amount: math.Vec2{X: 0.25, Y: -0.5}})
		}, false},
		{"hide", func(*document.Scene) Command { return SetHidden([]document.FaceRef{boxFace}, true) }, false},
		{"flatten uvs", func(*document.Scene) Command {
			return FlattenUVs([]document.FaceRef{face(0, 0, 2), face(0, 1, 1)}, 2)
		}, false},
		{"place", func(*document.Scene) Command { return Place(floor, "", flatQuad(4, 0, 5, 1, 0)) }, false},
		{"place new object", func(*document.Scene) Command {
			return Place(document.ObjectRef{Layer: 1, Object: 1}, "new", flatQuad(0, 0, 1, 1, 3), flatQuad(1, 0, 2, 1, 3))
		}, false},
		{"erase", func(s *document.Scene) Command { return Erase(s, face(0, 0, 1)) }, false},
		{"mirror", func(s *document.Scene) Command {
			return Mirror(s, []document.FaceRef{boxFace, face(0, 1, 0), face(1, 0, 0)}, 0, 0)
		}, false},
		{"instance translate", func(*document.Scene) Command { return InstanceTranslate(inst, v3(1, 0, -0.5)) }, false},
		{"instance rotate", func(*document.Scene) Command {
			return InstanceRotate(inst, v3(1, 0, 5), math.UnitY, float32(gomath.Pi/2))
		}, true},
		{"instance scale", func(*document.Scene) Command { return InstanceScale(inst, v3(1, 0, 5), v3(2, 2, 0.5)) }, false},
		{"batch", func(*document.Scene) Command {
			return Batch("Transform",
				Translate(corners(boxFace), v3(0, 1, 0)),
				Flip([]document.FaceRef{boxFace}),
				nil,
				Extrude([]document.FaceRef{face(0, 0, 1)}, 0.5),
			)
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := fixture()
			checkReversible(t, scene, tt.build(scene), tt.approx)
		})
	}
}

func TestCommandsMarkStale(t *testing.T) {
	scene := fixture()
	scene.DrainStale()

	cmd := Translate(corners(face(0, 1, 0)), v3(1, 0, 0))
	cmd.Apply(scene)
	assert.Equal(t, []document.ObjectRef{{Layer: 0, Object: 1}}, scene.DrainStale())
	cmd.Undo(scene)
	assert.Equal(t, []document.ObjectRef{{Layer: 0, Object: 1}}, scene.DrainStale())

	del := Delete([]document.ObjectRef{{Layer: 0, Object: 0}}, nil)
	del.Apply(scene)
	assert.Contains(t, scene.DrainStale(), document.ObjectRef{Layer: 0, Object: 1})
}

func TestConstructorsWithoutEffectReturnNil(t *testing.T) {
	f := []document.FaceRef{face(0, 0, 0)}
	c := corners(face(0, 0, 0))

	assert.Nil(t, Translate(nil, v3(1, 0, 0)))
	assert.Nil(t, Translate(c, math.Vec3{}))
	assert.Nil(t, Rotate(c, math.Vec3{}, math.UnitY, 0))
	assert.Nil(t, Scale(c, math.Vec3{}, v3(1, 1, 1)))
	assert.Nil(t, Flip(nil))
	assert.Nil(t, Extrude(f, 0))
	assert.Nil(t, Subdivide(nil))
	assert.Nil(t, SplitEdge(nil))
	assert.Nil(t, CollapseEdge(nil))
	assert.Nil(t, Delete(nil, nil))
	assert.Nil(t, CreateObject(nil, "x"))
	assert.Nil(t, MergeVertices(c[:1]))
	assert.Nil(t, Paint(c, document.White, 0))
	assert.Nil(t, Retile(nil, TileRect{}))
	assert.Nil(t, TransformUVs(f, UVOp{Kind: UVOffset}))
	assert.Nil(t, Place(document.ObjectRef{}, "x"))
	assert.Nil(t, Mirror(fixture(), nil, 0, 0))
	assert.Nil(t, Erase(fixture(), face(0, 0, 99)))
	assert.Nil(t, Erase(fixture(), face(7, 0, 0)))
	assert.Nil(t, InstanceTranslate(nil, v3(1, 0, 0)))
	assert.Nil(t, Batch("empty", nil, nil))
}

func TestDuplicateTargetsApplyOnce(t *testing.T) {
	scene := fixture()
	ref := face(0, 0, 0).Element(0)
	Translate([]document.ElementRef{ref, ref, ref}, v3(1, 0, 0)).Apply(scene)
	p, _ := scene.Vertex(ref)
	assert.Equal(t, v3(1, 1, 0), *p)
}

func TestExtrudeThenUndo(t *testing.T) {
	scene := document.NewScene()
	l, _ := scene.Layer(0)
	l.InsertObject(0, box())
	orig := box()
	h := NewHistory(10)

	h.Push(scene, Extrude([]document.FaceRef{face(0, 0, 0)}, 1))

	o, _ := scene.Object(document.ObjectRef{})
	require.Len(t, o.Faces, 8)
	assert.Equal(t, orig.Faces[1:], o.Faces[:3], "untouched faces keep their order")

	moved := o.Faces[3]
	for i, p := range moved.Positions {
		assert.Equal(t, orig.Faces[0].Positions[i].Add(math.UnitY), p)
	}
	for _, side := range o.Faces[4:] {
		n := side.Normal()
		assert.InDelta(t, 0, n.Y, 1e-6, "side faces are vertical")
		assert.Greater(t, n.Dot(side.Center().Sub(v3(0.5, 1.5, 0.5))), float32(0), "side faces point outward")
	}

	require.True(t, h.Undo(scene))
	assert.Equal(t, orig.Faces, o.Faces)
}

func TestPlaceThenUndo(t *testing.T) {
	scene := document.NewScene()
	l, _ := scene.Layer(0)
	l.InsertObject(0, &document.Object{Name: "tiles"})
	h := NewHistory(10)
	quad := flatQuad(0, 0, 1, 1, 0)

	h.Push(scene, Place(document.ObjectRef{}, "tiles", quad))
	assert.Equal(t, 1, h.UndoLen())

	o, _ := scene.Object(document.ObjectRef{})
	require.True(t, h.Undo(scene))
	assert.Empty(t, o.Faces)

	require.True(t, h.Redo(scene))
	require.Len(t, o.Faces, 1)
	assert.Equal(t, quad.Positions, o.Faces[0].Positions)
	assert.Equal(t, quad.UVs, o.Faces[0].UVs)
}

func TestPlaceCreatesAndRemovesObject(t *testing.T) {
	scene := document.NewScene()
	cmd := Place(document.ObjectRef{Layer: 0, Object: 0}, "tiles", flatQuad(0, 0, 1, 1, 0))
	cmd.Apply(scene)
	o, ok := scene.Object(document.ObjectRef{})
	require.True(t, ok)
	assert.Equal(t, "tiles", o.Name)

	cmd.Undo(scene)
	l, _ := scene.Layer(0)
	assert.Empty(t, l.Objects)
}

func TestSubdivideGeometry(t *testing.T) {
	scene := document.NewScene()
	l, _ := scene.Layer(0)
	o := &document.Object{}
	o.AppendFaces(flatQuad(0, 0, 2, 2, 0))
	l.InsertObject(0, o)

	Subdivide([]document.FaceRef{face(0, 0, 0)}).Apply(scene)
	require.Len(t, o.Faces, 4)
	assert.Equal(t, v3(0, 0, 0), o.Faces[0].Positions[0])
	assert.Equal(t, v3(1, 0, 1), o.Faces[0].Positions[2])
	assert.Equal(t, v3(2, 0, 2), o.Faces[2].Positions[2])
	for _, f := range o.Faces {
		assert.InDelta(t, 1, f.Normal().Y, 1e-6, "winding preserved")
	}
	assert.Equal(t, math.Vec2{X: 0.5, Y: 0.5}, o.Faces[0].UVs[2])
}

func TestSplitEdgeGeometry(t *testing.T) {
	scene := document.NewScene()
	l, _ := scene.Layer(0)
	o := &document.Object{}
	o.AppendFaces(flatQuad(0, 0, 2, 2, 0))
	l.InsertObject(0, o)

	// Edge 1 runs from (0,0,2) to (2,0,2); the cut goes through x=1.
	SplitEdge([]document.ElementRef{face(0, 0, 0).Element(1), face(0, 0, 0).Element(3)}).Apply(scene)
	require.Len(t, o.Faces, 2)
	for _, f := range o.Faces {
		lo, hi := f.Bounds()
		assert.Equal(t, float32(1), hi.X-lo.X)
		assert.Equal(t, float32(2), hi.Z-lo.Z)
		assert.InDelta(t, 1, f.Normal().Y, 1e-6)
	}
}

func TestCollapseEdgeKeepsNeighboursWelded(t *testing.T) {
	scene := document.NewScene()
	l, _ := scene.Layer(0)
	o := &document.Object{}
	o.AppendFaces(flatQuad(0, 0, 1, 1, 0), flatQuad(1, 0, 2, 1, 0))
	l.InsertObject(0, o)

	// Edge 2 of face 0 is the shared edge at x=1.
	CollapseEdge([]document.ElementRef{face(0, 0, 0).Element(2)}).Apply(scene)
	mid := v3(1, 0, 0.5)
	assert.Equal(t, mid, o.Faces[0].Positions[2])
	assert.Equal(t, mid, o.Faces[0].Positions[3])
	assert.Equal(t, mid, o.Faces[1].Positions[0])
	assert.Equal(t, mid, o.Faces[1].Positions[1])
	assert.Equal(t, v3(0, 0, 0), o.Faces[0].Positions[0])
}

func TestCreateObjectMovesFaces(t *testing.T) {
	scene := fixture()
	cmd := CreateObject([]document.FaceRef{face(0, 0, 3), face(0, 0, 1)}, "lid")
	cmd.Apply(scene)

	l, _ := scene.Layer(0)
	require.Len(t, l.Objects, 3)
	assert.Equal(t, "lid", l.Objects[2].Name)
	assert.Len(t, l.Objects[2].Faces, 2)
	assert.Len(t, l.Objects[0].Faces, 2)
	created, ok := cmd.(*objectCreation).Created()
	assert.True(t, ok)
	assert.Equal(t, document.ObjectRef{Layer: 0, Object: 2}, created)
}

func TestPaintBlends(t *testing.T) {
	scene := fixture()
	black := math.Vec4{0, 0, 0, 1}
	Paint([]document.ElementRef{face(0, 0, 0).Element(1)}, black, 0.25).Apply(scene)

	f, _ := scene.Face(face(0, 0, 0))
	assert.Equal(t, math.Vec4{0.75, 0.75, 0.75, 1}, f.Colors[1])
	assert.Equal(t, document.White, f.Colors[0])
}

func TestMirrorKeepsOrientation(t *testing.T) {
	scene := fixture()
	cmd := Mirror(scene, []document.FaceRef{face(0, 1, 0)}, 0, 0)
	cmd.Apply(scene)

	o, _ := scene.Object(document.ObjectRef{Layer: 0, Object: 1})
	require.Len(t, o.Faces, 3)
	m := o.Faces[2]
	lo, hi := m.Bounds()
	assert.Equal(t, v3(-3, 0, 0), lo)
	assert.Equal(t, v3(-2, 0, 1), hi)
	assert.InDelta(t, 1, m.Normal().Y, 1e-6)
}

func TestClampScale(t *testing.T) {
	got := ClampScale(v3(0, -1e-6, 3))
	assert.Equal(t, v3(minScale, -minScale, 3), got)
}
