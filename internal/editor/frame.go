package editor

import (
	gomath "math"

	"github.com/Faultbox/tileforge/internal/gizmo"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/pkg/math"
)

// clickSlop is how far, in pixels, a press may travel and still count as a click.
const clickSlop = 4

// ProcessFrame consumes one frame of input against a viewport of the given
// size. Active drags are taken out of the session for the frame and put back
// only if they are still running, so no drag outlives its button release.
func (s *Session) ProcessFrame(in Input, screen math.Vec2) {
	view := s.View(screen)
	mouse := in.MousePosition()
	ray := view.Ray(mouse)

	s.handleCamera(in)
	s.handleKeys(in)
	s.updateCursor(ray)

	gd, vd, mq := s.gizmoDrag, s.vertexDrag, s.marquee
	s.gizmoDrag, s.vertexDrag, s.marquee = nil, nil, nil

	switch {
	case gd != nil:
		if in.ButtonDown(ButtonLeft) && !in.ButtonReleased(ButtonLeft) {
			gd.Update(s.Scene, ray)
			s.gizmoDrag = gd
		} else {
			s.commitGizmo(gd)
			s.Selection.Prune(s.Scene)
		}

	case vd != nil:
		if in.ButtonDown(ButtonLeft) && !in.ButtonReleased(ButtonLeft) {
			vd.Update(s.Scene, ray, s.dragSnap(in))
			s.vertexDrag = vd
		} else {
			s.push(vd.Release(s.Scene))
		}

	case mq != nil:
		if in.ButtonDown(ButtonLeft) && !in.ButtonReleased(ButtonLeft) {
			s.marquee = mq
		} else {
			s.finishMarquee(mq, view, mouse, ray)
		}

	default:
		s.idle(in, view, mouse, ray)
	}

	s.FlushStale()
}

func (s *Session) handleCamera(in Input) {
	d := in.MouseDelta()
	if in.ButtonDown(ButtonRight) {
		s.Camera.HandleDrag(d.X, d.Y)
	}
	if in.ButtonDown(ButtonMiddle) {
		s.Camera.Pan(d.Y*0.1, -d.X*0.1, 0)
	}
	if sc := in.Scroll(); sc != 0 {
		s.Camera.HandleZoom(sc)
	}
}

// dragSnap returns the grid cell while Ctrl is held.
func (s *Session) dragSnap(in Input) float32 {
	if in.KeyDown(KeyCtrl) {
		return s.Scene.Cursor.GridSize
	}
	return 0
}

// updateCursor keeps the placement crosshair on the grid under the mouse.
func (s *Session) updateCursor(ray picking.Ray) {
	if s.Tool != ToolPlace {
		return
	}
	if p, ok := ray.IntersectPlaneY(s.Scene.Cursor.Position.Y); ok {
		cell := s.Scene.Cursor.GridSize
		// Tiles are placed by their min corner.
		s.Scene.Cursor.Position = math.Vec3{
			X: floorTo(p.X, cell),
			Y: s.Scene.Cursor.Position.Y,
			Z: floorTo(p.Z, cell),
		}
	}
}

func (s *Session) idle(in Input, view gizmo.View, mouse math.Vec2, ray picking.Ray) {
	hovered := gizmo.HandleNone
	if s.Tool == ToolSelect && !s.Selection.IsEmpty() {
		hovered = s.Gizmo.Hover(view, s.Selection.Centroid(s.Scene), mouse)
	} else {
		s.Gizmo.Reset()
	}

	if !in.ButtonPressed(ButtonLeft) {
		return
	}

	switch s.Tool {
	case ToolPlace:
		s.PlaceTileAtCursor()
		return
	case ToolErase:
		s.EraseAt(ray)
		return
	}

	if hovered != gizmo.HandleNone {
		center := s.Selection.Centroid(s.Scene)
		if d, ok := s.Gizmo.Begin(s.Scene, view, ray, center, s.gizmoTargets()); ok {
			s.gizmoDrag = d
			return
		}
	}
	if d, ok := BeginVertexDrag(s.Scene, s.Selection, view, mouse, s.Prefs.PickRadius); ok {
		s.vertexDrag = d
		return
	}
	s.marquee = &marquee{start: mouse, additive: in.KeyDown(KeyShift)}
}

// finishMarquee turns a press-release on empty space into either a click
// selection or a rectangle selection.
func (s *Session) finishMarquee(mq *marquee, view gizmo.View, mouse math.Vec2, ray picking.Ray) {
	if mouse.Distance(mq.start) < clickSlop {
		s.Selection.HandleClick(ray, s.Scene, mq.additive, s.Prefs.CullBackfaces)
	} else {
		s.Selection.MarqueeSelect(s.Scene, mq.start, mouse, view.ViewProj, view.Screen, mq.additive)
	}
	if s.Selection.IsEmpty() {
		s.Gizmo.Reset()
	}
}

func floorTo(x, cell float32) float32 {
	if cell <= 0 {
		return x
	}
	return float32(gomath.Floor(float64(x/cell))) * cell
}
