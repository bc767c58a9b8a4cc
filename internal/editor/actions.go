package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/command"
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/internal/selection"
	"github.com/Faultbox/tileforge/pkg/math"
)

// Undo reverts the last command.
func (s *Session) Undo() bool {
	ok := s.History.Undo(s.Scene)
	s.Selection.Prune(s.Scene)
	return ok
}

// Redo re-applies the last undone command.
func (s *Session) Redo() bool {
	ok := s.History.Redo(s.Scene)
	s.Selection.Prune(s.Scene)
	return ok
}

// SetMode switches selection granularity. The selection is cleared because
// tuples of one granularity mean nothing at another.
func (s *Session) SetMode(m selection.Mode) {
	if s.Selection.Mode == m {
		return
	}
	s.Selection.Mode = m
	s.Selection.Clear()
	s.Gizmo.Reset()
	s.log.Debug("selection mode", zap.Stringer("mode", m))
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.Selection.Clear()
	s.Gizmo.Reset()
}

func (s *Session) faces() []document.FaceRef {
	return s.Selection.FaceTargets(s.Scene)
}

// DeleteSelection removes selected objects and every face owning a selected
// face, edge or vertex.
func (s *Session) DeleteSelection() bool {
	cmd := command.Delete(s.Selection.ObjectTargets(s.Scene), s.Selection.ElementFaces(s.Scene))
	if !s.push(cmd) {
		return false
	}
	s.ClearSelection()
	return true
}

// FlipSelection reverses the winding of the selected faces.
func (s *Session) FlipSelection() bool {
	return s.push(command.Flip(s.faces()))
}

// ExtrudeSelection extrudes the selected faces. The selection is cleared
// because the extruded faces move to the end of their objects.
func (s *Session) ExtrudeSelection(distance float32) bool {
	if !s.push(command.Extrude(s.faces(), distance)) {
		return false
	}
	s.ClearSelection()
	return true
}

// SubdivideSelection splits each selected face into four.
func (s *Session) SubdivideSelection() bool {
	if !s.push(command.Subdivide(s.faces())) {
		return false
	}
	s.ClearSelection()
	return true
}

// SplitEdges cuts the faces owning the selected edges.
func (s *Session) SplitEdges() bool {
	if !s.push(command.SplitEdge(s.Selection.Edges)) {
		return false
	}
	s.ClearSelection()
	return true
}

// CollapseEdges collapses the selected edges to their midpoints.
func (s *Session) CollapseEdges() bool {
	return s.push(command.CollapseEdge(s.Selection.Edges))
}

// MergeVertices welds every selected corner at their centroid.
func (s *Session) MergeVertices() bool {
	return s.push(command.MergeVertices(s.Selection.Corners(s.Scene)))
}

// Paint blends the paint color into every selected corner.
func (s *Session) Paint(opacity float32) bool {
	return s.push(command.Paint(s.Selection.Corners(s.Scene), s.PaintColor, opacity))
}

// Retile maps the current tile onto the selected faces.
func (s *Session) Retile() bool {
	return s.push(command.Retile(s.faces(), s.Tile))
}

// RotateUVs turns the selected faces' UVs a quarter turn.
func (s *Session) RotateUVs() bool {
	return s.push(command.TransformUVs(s.faces(), command.UVOp{Kind: command.UVRotate90}))
}

// FlipUVs mirrors the selected faces' UVs horizontally or vertically.
func (s *Session) FlipUVs(horizontal bool) bool {
	kind := command.UVFlipV
	if horizontal {
		kind = command.UVFlipU
	}
	return s.push(command.TransformUVs(s.faces(), command.UVOp{Kind: kind}))
}

// SetHidden hides or shows the selected faces.
func (s *Session) SetHidden(hidden bool) bool {
	return s.push(command.SetHidden(s.faces(), hidden))
}

// FlattenUVs projects the selected faces' UVs onto the grid.
func (s *Session) FlattenUVs() bool {
	return s.push(command.FlattenUVs(s.faces(), s.Scene.Cursor.GridSize))
}

// CreateObjectFromSelection moves the selected faces into a new object and
// selects it.
func (s *Session) CreateObjectFromSelection(name string) bool {
	faces := s.Selection.ElementFaces(s.Scene)
	if len(faces) == 0 {
		return false
	}
	if name == "" {
		l, _ := s.Scene.Layer(faces[0].Layer)
		name = fmt.Sprintf("Object %d", len(l.Objects)+1)
	}
	if !s.push(command.CreateObject(faces, name)) {
		return false
	}
	l, _ := s.Scene.Layer(faces[0].Layer)
	s.ClearSelection()
	s.ActiveObject = document.ObjectRef{Layer: faces[0].Layer, Object: len(l.Objects) - 1}
	return true
}

// MirrorSelection duplicates the selected faces reflected across the plane
// through the selection centroid perpendicular to axis.
func (s *Session) MirrorSelection(axis int) bool {
	center := s.Selection.Centroid(s.Scene).Get(axis)
	return s.push(command.Mirror(s.Scene, s.faces(), axis, center))
}

// Nudge moves the selection by delta, or the cursor when nothing is selected.
func (s *Session) Nudge(delta math.Vec3) bool {
	if s.Selection.IsEmpty() {
		s.Scene.Cursor.Position = s.Scene.Cursor.Position.Add(delta)
		return false
	}
	return s.TranslateSelection(delta)
}

// TranslateSelection moves every selected corner and instance by delta.
func (s *Session) TranslateSelection(delta math.Vec3) bool {
	return s.push(command.Batch("Move selection",
		command.Translate(s.Selection.Corners(s.Scene), delta),
		command.InstanceTranslate(s.Selection.Instances, delta)))
}

// RotateSelection turns the selection by angle radians about the axis
// through its centroid.
func (s *Session) RotateSelection(axis math.Vec3, angle float32) bool {
	center := s.Selection.Centroid(s.Scene)
	return s.push(command.Batch("Rotate selection",
		command.Rotate(s.Selection.Corners(s.Scene), center, axis, angle),
		command.InstanceRotate(s.Selection.Instances, center, axis, angle)))
}

// ScaleSelection scales the selection about its centroid.
func (s *Session) ScaleSelection(factor math.Vec3) bool {
	center := s.Selection.Centroid(s.Scene)
	return s.push(command.Batch("Scale selection",
		command.Scale(s.Selection.Corners(s.Scene), center, factor),
		command.InstanceScale(s.Selection.Instances, center, factor)))
}

// SnapSelectionToGrid rounds every selected corner to the grid.
func (s *Session) SnapSelectionToGrid() bool {
	return s.push(command.SnapToGrid(s.Selection.Corners(s.Scene), s.Scene.Cursor.GridSize))
}

// PlaceTileAtCursor places one flat grid cell with the current tile at the
// cursor into the active object, creating the object if needed.
func (s *Session) PlaceTileAtCursor() bool {
	c := s.Scene.Cursor
	x0, y, z0 := c.Position.X, c.Position.Y, c.Position.Z
	x1, z1 := x0+c.GridSize, z0+c.GridSize
	f := document.NewQuad(
		math.Vec3{X: x0, Y: y, Z: z0},
		math.Vec3{X: x0, Y: y, Z: z1},
		math.Vec3{X: x1, Y: y, Z: z1},
		math.Vec3{X: x1, Y: y, Z: z0},
	)
	f.UVs = s.Tile.UVs()

	target := s.ActiveObject
	if _, ok := s.Scene.Object(target); !ok {
		l, ok := s.Scene.Layer(target.Layer)
		if !ok {
			target = document.ObjectRef{}
			l, _ = s.Scene.Layer(0)
		}
		target.Object = len(l.Objects)
	}
	name := fmt.Sprintf("Object %d", target.Object+1)
	if !s.push(command.Place(target, name, f)) {
		return false
	}
	s.ActiveObject = target
	return true
}

// EraseAt removes the face under ray.
func (s *Session) EraseAt(r picking.Ray) bool {
	hit, ok := picking.PickFace(r, s.Scene, s.Prefs.CullBackfaces)
	if !ok {
		return false
	}
	if !s.push(command.Erase(s.Scene, hit.Ref)) {
		return false
	}
	s.ClearSelection()
	return true
}
