package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tileforge/internal/command"
	"github.com/Faultbox/tileforge/internal/config"
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/gizmo"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/internal/selection"
	"github.com/Faultbox/tileforge/pkg/math"
)

var screen = math.Vec2{X: 800, Y: 800}

type fakeInput struct {
	mouse, delta math.Vec2
	scroll       float32
	down         map[Button]bool
	pressed      map[Button]bool
	released     map[Button]bool
	keysDown     map[Key]bool
	keysPressed  map[Key]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{
		down:        map[Button]bool{},
		pressed:     map[Button]bool{},
		released:    map[Button]bool{},
		keysDown:    map[Key]bool{},
		keysPressed: map[Key]bool{},
	}
}

func (f *fakeInput) MousePosition() math.Vec2     { return f.mouse }
func (f *fakeInput) MouseDelta() math.Vec2        { return f.delta }
func (f *fakeInput) ButtonDown(b Button) bool     { return f.down[b] }
func (f *fakeInput) ButtonPressed(b Button) bool  { return f.pressed[b] }
func (f *fakeInput) ButtonReleased(b Button) bool { return f.released[b] }
func (f *fakeInput) Scroll() float32              { return f.scroll }
func (f *fakeInput) KeyDown(k Key) bool           { return f.keysDown[k] }
func (f *fakeInput) KeyPressed(k Key) bool        { return f.keysPressed[k] }

type harness struct {
	t  *testing.T
	s  *Session
	in *fakeInput
}

// newHarness opens a session looking almost straight down at a 2x2 tile
// centred on the origin.
func newHarness(t *testing.T) *harness {
	s := NewSession(config.Default())
	s.Camera.Center = math.Vec3{}
	s.Camera.Distance = 10
	s.Camera.Pitch = 1.5
	s.Camera.Yaw = 0

	o := &document.Object{Name: "floor"}
	o.AppendFaces(document.NewQuad(
		math.Vec3{X: -1, Z: -1}, math.Vec3{X: -1, Z: 1}, math.Vec3{X: 1, Z: 1}, math.Vec3{X: 1, Z: -1},
	))
	l, _ := s.Scene.Layer(0)
	l.InsertObject(0, o)
	return &harness{t: t, s: s, in: newFakeInput()}
}

func (h *harness) frame() {
	h.s.ProcessFrame(h.in, screen)
	h.in.pressed = map[Button]bool{}
	h.in.released = map[Button]bool{}
	h.in.keysPressed = map[Key]bool{}
	h.in.delta = math.Vec2{}
	h.in.scroll = 0
}

func (h *harness) project(p math.Vec3) math.Vec2 {
	h.t.Helper()
	v := h.s.View(screen)
	sp, ok := picking.ProjectToScreen(p, v.ViewProj, v.Screen)
	require.True(h.t, ok)
	return sp
}

func (h *harness) press(p math.Vec2) {
	h.in.mouse = p
	h.in.down[ButtonLeft] = true
	h.in.pressed[ButtonLeft] = true
	h.frame()
}

func (h *harness) move(p math.Vec2) {
	h.in.mouse = p
	h.frame()
}

func (h *harness) release(p math.Vec2) {
	h.in.mouse = p
	h.in.down[ButtonLeft] = false
	h.in.released[ButtonLeft] = true
	h.frame()
}

func (h *harness) key(k Key, mods ...Key) {
	for _, m := range mods {
		h.in.keysDown[m] = true
	}
	h.in.keysPressed[k] = true
	h.frame()
	for _, m := range mods {
		h.in.keysDown[m] = false
	}
}

func (h *harness) corner(i int) math.Vec3 {
	h.t.Helper()
	p, ok := h.s.Scene.Vertex(document.FaceRef{}.Element(i))
	require.True(h.t, ok)
	return *p
}

// shaftPoint returns the screen point a fraction along the gizmo's X shaft.
func (h *harness) shaftPoint(center math.Vec3, frac float32) (math.Vec2, math.Vec3) {
	length := h.s.Gizmo.Length(h.s.View(screen), center)
	w := center.Add(math.UnitX.Scale(length * frac))
	return h.project(w), w
}

func TestClickSelectsAndEmptyClickClears(t *testing.T) {
	h := newHarness(t)
	p := h.project(math.Vec3{X: 0.3, Z: 0.2})

	h.press(p)
	h.release(p)
	assert.Equal(t, []document.FaceRef{{}}, h.s.Selection.Faces)

	h.press(math.Vec2{X: 5, Y: 5})
	h.release(math.Vec2{X: 6, Y: 5})
	assert.True(t, h.s.Selection.IsEmpty())
}

func TestMarqueeSelectsThroughFrames(t *testing.T) {
	h := newHarness(t)
	h.press(math.Vec2{X: 5, Y: 5})
	h.move(math.Vec2{X: 400, Y: 400})
	h.release(math.Vec2{X: 795, Y: 795})
	assert.Equal(t, []document.FaceRef{{}}, h.s.Selection.Faces)
}

func TestGizmoDragCommitsOneEntry(t *testing.T) {
	h := newHarness(t)
	before := h.s.Scene.Clone()
	h.s.Selection.AddFace(document.FaceRef{})

	start, w := h.shaftPoint(math.Vec3{}, 0.6)
	h.press(start)
	require.True(t, h.s.Dragging())
	assert.Equal(t, gizmo.Dragging, h.s.Gizmo.State())

	h.move(h.project(w.Add(math.Vec3{X: 0.5})))
	h.move(h.project(w.Add(math.Vec3{X: 1})))
	assert.InDelta(t, 2, h.corner(2).X, 1e-3, "live preview")
	assert.Zero(t, h.s.History.UndoLen(), "nothing committed mid-drag")

	h.release(h.project(w.Add(math.Vec3{X: 1})))
	assert.False(t, h.s.Dragging())
	assert.Equal(t, 1, h.s.History.UndoLen())
	assert.InDelta(t, 2, h.corner(2).X, 1e-3)
	assert.InDelta(t, 1, h.corner(2).Z, 1e-5)

	h.key(KeyZ, KeyCtrl)
	assert.True(t, document.ApproxEqual(before, h.s.Scene, 1e-5))
	h.key(KeyY, KeyCtrl)
	assert.InDelta(t, 2, h.corner(2).X, 1e-3)
}

func TestGizmoClickWithoutMovePushesNothing(t *testing.T) {
	h := newHarness(t)
	before := h.s.Scene.Clone()
	h.s.Selection.AddFace(document.FaceRef{})

	start, _ := h.shaftPoint(math.Vec3{}, 0.6)
	h.press(start)
	h.move(start)
	h.release(start)
	assert.Zero(t, h.s.History.UndoLen())
	assert.True(t, document.Equal(before, h.s.Scene))
}

func TestEscapeCancelsDrag(t *testing.T) {
	h := newHarness(t)
	before := h.s.Scene.Clone()
	h.s.Selection.AddFace(document.FaceRef{})

	start, w := h.shaftPoint(math.Vec3{}, 0.6)
	h.press(start)
	h.move(h.project(w.Add(math.Vec3{X: 1})))
	h.key(KeyEscape)
	assert.False(t, h.s.Dragging())
	h.release(h.project(w.Add(math.Vec3{X: 1})))

	assert.Zero(t, h.s.History.UndoLen())
	assert.True(t, document.Equal(before, h.s.Scene))
	assert.Equal(t, []document.FaceRef{{}}, h.s.Selection.Faces, "escape during a drag keeps the selection")
}

func TestAutoFlattenBatchesWithTransform(t *testing.T) {
	h := newHarness(t)
	h.s.Prefs.AutoFlattenUV = true
	h.s.Selection.AddFace(document.FaceRef{})

	start, w := h.shaftPoint(math.Vec3{}, 0.6)
	h.press(start)
	h.move(h.project(w.Add(math.Vec3{X: 1})))
	h.release(h.project(w.Add(math.Vec3{X: 1})))

	require.Equal(t, 1, h.s.History.UndoLen())
	f, _ := h.s.Scene.Face(document.FaceRef{})
	assert.InDelta(t, f.Positions[0].X, f.UVs[0].X, 1e-5)
	assert.InDelta(t, f.Positions[0].Z, f.UVs[0].Y, 1e-5)

	h.s.Undo()
	f, _ = h.s.Scene.Face(document.FaceRef{})
	assert.Equal(t, document.DefaultUVs, f.UVs)
}

func TestVertexDragMovesWeldedCorners(t *testing.T) {
	h := newHarness(t)
	o, _ := h.s.Scene.Object(document.ObjectRef{})
	// A neighbour sharing corner (-1,0,-1).
	o.AppendFaces(document.NewQuad(
		math.Vec3{X: -2, Z: -2}, math.Vec3{X: -2, Z: -1}, math.Vec3{X: -1, Z: -1}, math.Vec3{X: -1, Z: -2},
	))
	before := h.s.Scene.Clone()

	h.s.SetMode(selection.ModeVertex)
	grabbed := document.FaceRef{}.Element(0)
	h.s.Selection.AddVertex(grabbed)
	h.s.Selection.AddVertex(document.FaceRef{}.Element(2))

	anchor := math.Vec3{X: -1, Z: -1}
	h.press(h.project(anchor))
	require.True(t, h.s.Dragging())
	assert.Equal(t, gizmo.Idle, h.s.Gizmo.State())

	h.move(h.project(anchor.Add(math.Vec3{X: 0.5})))
	h.release(h.project(anchor.Add(math.Vec3{X: 0.5})))
	require.Equal(t, 1, h.s.History.UndoLen())

	assert.InDelta(t, -0.5, h.corner(0).X, 1e-3)
	shared, _ := h.s.Scene.Vertex(document.FaceRef{Face: 1}.Element(2))
	assert.InDelta(t, -0.5, shared.X, 1e-3, "welded corner follows")
	assert.Equal(t, float32(1), h.corner(2).X, "other selected vertex stays")

	h.s.Undo()
	assert.True(t, document.ApproxEqual(before, h.s.Scene, 1e-5))
}

func TestVertexDragSnapsWithCtrl(t *testing.T) {
	h := newHarness(t)
	h.s.SetMode(selection.ModeVertex)
	h.s.Selection.AddVertex(document.FaceRef{}.Element(0))
	h.s.Selection.AddVertex(document.FaceRef{}.Element(2))

	anchor := math.Vec3{X: -1, Z: -1}
	h.press(h.project(anchor))
	h.in.keysDown[KeyCtrl] = true
	h.move(h.project(anchor.Add(math.Vec3{X: 0.6, Z: 0.1})))
	h.in.keysDown[KeyCtrl] = false
	h.release(h.project(anchor.Add(math.Vec3{X: 0.6, Z: 0.1})))

	assert.Equal(t, math.Vec3{X: 0, Z: -1}, h.corner(0))
}

func TestPlaceToolCreatesObject(t *testing.T) {
	h := newHarness(t)
	var stale [][]document.ObjectRef
	h.s.OnStale = func(refs []document.ObjectRef) { stale = append(stale, refs) }
	h.s.ActiveObject = document.ObjectRef{Layer: 0, Object: 5}
	h.s.Tool = ToolPlace

	p := h.project(math.Vec3{X: 2.5, Z: 3.5})
	h.move(p)
	assert.Equal(t, math.Vec3{X: 2, Z: 3}, h.s.Scene.Cursor.Position)
	h.press(p)
	h.release(p)

	require.Equal(t, 1, h.s.History.UndoLen())
	assert.Equal(t, document.ObjectRef{Layer: 0, Object: 1}, h.s.ActiveObject)
	o, ok := h.s.Scene.Object(h.s.ActiveObject)
	require.True(t, ok)
	require.Len(t, o.Faces, 1)
	lo, hi := o.Faces[0].Bounds()
	assert.Equal(t, math.Vec3{X: 2, Z: 3}, lo)
	assert.Equal(t, math.Vec3{X: 3, Z: 4}, hi)
	assert.Contains(t, stale, []document.ObjectRef{{Layer: 0, Object: 1}})

	// A second tile lands in the same object.
	h.press(h.project(math.Vec3{X: 3.5, Z: 3.5}))
	h.release(h.project(math.Vec3{X: 3.5, Z: 3.5}))
	assert.Len(t, o.Faces, 2)
}

func TestEraseTool(t *testing.T) {
	h := newHarness(t)
	h.s.Tool = ToolErase
	p := h.project(math.Vec3{X: 0.2, Z: 0.2})
	h.press(p)
	h.release(p)
	assert.Zero(t, h.s.Scene.FaceCount())
	h.s.Undo()
	assert.Equal(t, 1, h.s.Scene.FaceCount())
}

func TestKeyboardShortcuts(t *testing.T) {
	h := newHarness(t)
	h.s.Selection.AddFace(document.FaceRef{})

	h.key(KeyE)
	assert.Equal(t, 5, h.s.Scene.FaceCount())
	assert.True(t, h.s.Selection.IsEmpty())

	h.key(KeyZ, KeyCtrl)
	assert.Equal(t, 1, h.s.Scene.FaceCount())
	h.key(KeyZ, KeyCtrl, KeyShift)
	assert.Equal(t, 5, h.s.Scene.FaceCount())

	h.key(KeyA)
	assert.Len(t, h.s.Selection.Faces, 5)
	h.key(KeyDelete)
	assert.Zero(t, h.s.Scene.FaceCount())
	h.key(KeyZ, KeyCtrl)

	h.key(Key3)
	assert.Equal(t, selection.ModeEdge, h.s.Selection.Mode)
	h.key(KeyR)
	assert.Equal(t, gizmo.Rotate, h.s.Gizmo.Mode)
	h.key(KeyP)
	assert.Equal(t, ToolPlace, h.s.Tool)
	h.key(KeyQ)
	assert.Equal(t, ToolSelect, h.s.Tool)
	assert.True(t, h.s.Dirty())
	h.s.MarkSaved()
	assert.False(t, h.s.Dirty())
}

func TestNudgeMovesSelectionByGridCell(t *testing.T) {
	h := newHarness(t)
	h.s.Selection.AddFace(document.FaceRef{})
	h.key(KeyRight)
	h.key(KeyPageUp)
	assert.Equal(t, math.Vec3{X: 2, Y: 1, Z: 1}, h.corner(2))
	assert.Equal(t, 2, h.s.History.UndoLen())

	h.s.ClearSelection()
	h.key(KeyLeft)
	assert.Equal(t, math.Vec3{X: -1}, h.s.Scene.Cursor.Position, "empty selection nudges the cursor")
}

func TestMenuActionsAreUndoable(t *testing.T) {
	selectFace := func(s *Session) { s.Selection.AddFace(document.FaceRef{}) }
	edgeMode := func(s *Session) {
		s.SetMode(selection.ModeEdge)
		s.Selection.AddEdge(document.FaceRef{}.Element(0))
	}

	cases := []struct {
		name   string
		setup  func(s *Session)
		action func(s *Session) bool
		check  func(t *testing.T, s *Session)
	}{
		{name: "flip", setup: selectFace, action: (*Session).FlipSelection},
		{name: "rotate uvs", setup: selectFace, action: (*Session).RotateUVs},
		{name: "flip uvs", setup: selectFace, action: func(s *Session) bool { return s.FlipUVs(true) }},
		{name: "retile", setup: func(s *Session) {
			selectFace(s)
			s.Tile = command.TileRect{Max: math.Vec2{X: 0.5, Y: 0.5}}
		}, action: (*Session).Retile},
		{name: "paint", setup: func(s *Session) {
			selectFace(s)
			s.PaintColor = math.Vec4{1, 0, 0, 1}
		}, action: func(s *Session) bool { return s.Paint(1) }},
		{name: "hide", setup: selectFace, action: func(s *Session) bool { return s.SetHidden(true) }},
		{name: "flatten uvs", setup: selectFace, action: (*Session).FlattenUVs},
		{name: "mirror", setup: selectFace, action: func(s *Session) bool { return s.MirrorSelection(0) },
			check: func(t *testing.T, s *Session) { assert.Equal(t, 2, s.Scene.FaceCount()) }},
		{name: "snap", setup: func(s *Session) {
			selectFace(s)
			p, _ := s.Scene.Vertex(document.FaceRef{}.Element(0))
			p.X = -1.3
		}, action: (*Session).SnapSelectionToGrid,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, float32(-1), s.Scene.Layers[0].Objects[0].Faces[0].Positions[0].X)
			}},
		{name: "subdivide", setup: selectFace, action: (*Session).SubdivideSelection,
			check: func(t *testing.T, s *Session) { assert.Equal(t, 4, s.Scene.FaceCount()) }},
		{name: "split edge", setup: edgeMode, action: (*Session).SplitEdges,
			check: func(t *testing.T, s *Session) { assert.Equal(t, 2, s.Scene.FaceCount()) }},
		{name: "collapse edge", setup: edgeMode, action: (*Session).CollapseEdges},
		{name: "merge", setup: func(s *Session) {
			s.SetMode(selection.ModeVertex)
			s.Selection.AddVertex(document.FaceRef{}.Element(0))
			s.Selection.AddVertex(document.FaceRef{}.Element(2))
		}, action: (*Session).MergeVertices},
		{name: "create object", setup: selectFace, action: func(s *Session) bool { return s.CreateObjectFromSelection("") },
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, document.ObjectRef{Layer: 0, Object: 1}, s.ActiveObject)
				assert.Equal(t, "Object 2", s.Scene.Layers[0].Objects[1].Name)
			}},
		{name: "delete", setup: selectFace, action: (*Session).DeleteSelection,
			check: func(t *testing.T, s *Session) { assert.Zero(t, s.Scene.FaceCount()) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newHarness(t).s
			tc.setup(s)
			before := s.Scene.Clone()

			require.True(t, tc.action(s))
			assert.Equal(t, 1, s.History.UndoLen())
			if tc.check != nil {
				tc.check(t, s)
			}
			assert.False(t, document.Equal(before, s.Scene))

			require.True(t, s.Undo())
			assert.True(t, document.ApproxEqual(before, s.Scene, 1e-5))
		})
	}
}

func TestEmptySelectionActionsPushNothing(t *testing.T) {
	s := newHarness(t).s
	assert.False(t, s.FlipSelection())
	assert.False(t, s.DeleteSelection())
	assert.False(t, s.ExtrudeSelection(1))
	assert.False(t, s.CreateObjectFromSelection("x"))
	assert.Zero(t, s.History.UndoLen())
}

func TestApplyConfig(t *testing.T) {
	h := newHarness(t)
	cfg := config.Default()
	cfg.Editor.GridSize = 0.5
	cfg.Editor.GizmoHitRadius = 20
	h.s.ApplyConfig(cfg)
	assert.Equal(t, float32(0.5), h.s.Scene.Cursor.GridSize)
	assert.Equal(t, float32(20), h.s.Gizmo.HitRadius)
}

func TestCameraInput(t *testing.T) {
	h := newHarness(t)
	yaw, dist := h.s.Camera.Yaw, h.s.Camera.Distance
	h.in.down[ButtonRight] = true
	h.in.delta = math.Vec2{X: 10}
	h.frame()
	h.in.down[ButtonRight] = false
	assert.NotEqual(t, yaw, h.s.Camera.Yaw)

	h.in.scroll = 1
	h.frame()
	assert.Less(t, h.s.Camera.Distance, dist)
}
