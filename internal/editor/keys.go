package editor

import (
	"github.com/Faultbox/tileforge/internal/gizmo"
	"github.com/Faultbox/tileforge/internal/selection"
	"github.com/Faultbox/tileforge/pkg/math"
)

var granularityKeys = map[Key]selection.Mode{
	Key1: selection.ModeObject,
	Key2: selection.ModeFace,
	Key3: selection.ModeEdge,
	Key4: selection.ModeVertex,
}

var gizmoKeys = map[Key]gizmo.Mode{
	KeyG: gizmo.Translate,
	KeyR: gizmo.Rotate,
	KeyS: gizmo.Scale,
}

var nudgeKeys = map[Key]math.Vec3{
	KeyLeft:     {X: -1},
	KeyRight:    {X: 1},
	KeyUp:       {Z: -1},
	KeyDown:     {Z: 1},
	KeyPageUp:   {Y: 1},
	KeyPageDown: {Y: -1},
}

// handleKeys runs keyboard shortcuts. While a drag is active only Escape,
// which cancels it, is honoured.
func (s *Session) handleKeys(in Input) {
	if in.KeyPressed(KeyEscape) {
		if s.Dragging() {
			s.CancelDrag()
		} else {
			s.ClearSelection()
		}
		return
	}
	if s.Dragging() {
		return
	}

	ctrl, shift := in.KeyDown(KeyCtrl), in.KeyDown(KeyShift)
	if ctrl {
		switch {
		case in.KeyPressed(KeyZ) && shift, in.KeyPressed(KeyY):
			s.Redo()
		case in.KeyPressed(KeyZ):
			s.Undo()
		}
		return
	}

	for k, m := range granularityKeys {
		if in.KeyPressed(k) {
			s.SetMode(m)
		}
	}
	for k, m := range gizmoKeys {
		if in.KeyPressed(k) {
			s.Gizmo.Mode = m
		}
	}
	for k, dir := range nudgeKeys {
		if in.KeyPressed(k) {
			s.Nudge(dir.Scale(s.Scene.Cursor.GridSize))
		}
	}

	switch {
	case in.KeyPressed(KeyDelete):
		s.DeleteSelection()
	case in.KeyPressed(KeyF):
		s.FlipSelection()
	case in.KeyPressed(KeyE):
		s.ExtrudeSelection(s.Prefs.ExtrudeDistance)
	case in.KeyPressed(KeyA):
		s.Selection.SelectAll(s.Scene)
	case in.KeyPressed(KeyI):
		s.Selection.Invert(s.Scene)
	case in.KeyPressed(KeyL):
		s.Selection.SelectConnected(s.Scene)
	case in.KeyPressed(KeyH):
		s.SetHidden(!shift)
	case in.KeyPressed(KeyM):
		s.MergeVertices()
	case in.KeyPressed(KeyU):
		s.RotateUVs()
	case in.KeyPressed(KeyQ):
		s.Tool = ToolSelect
	case in.KeyPressed(KeyP):
		s.Tool = ToolPlace
	case in.KeyPressed(KeyX):
		s.Tool = ToolErase
	}
}
