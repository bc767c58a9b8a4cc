package script

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/command"
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/editor"
	"github.com/Faultbox/tileforge/internal/gizmo"
	"github.com/Faultbox/tileforge/internal/logger"
	"github.com/Faultbox/tileforge/internal/selection"
	"github.com/Faultbox/tileforge/pkg/math"
)

// Report summarises a replay.
type Report struct {
	Name      string
	Steps     int
	Changed   int // steps that pushed a command or moved through history
	UndoDepth int
	RedoDepth int
	Objects   int
	Faces     int
	Dirty     bool
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %d steps, %d changed, undo %d, redo %d, %d objects, %d faces, dirty=%t",
		r.Name, r.Steps, r.Changed, r.UndoDepth, r.RedoDepth, r.Objects, r.Faces, r.Dirty)
}

type handler func(s *editor.Session, st *Step) (bool, error)

var handlers = map[string]handler{
	"place":            place,
	"select_all":       selectAll,
	"select_face":      selectFace,
	"select_object":    selectObject,
	"select_connected": selectConnected,
	"invert":           invert,
	"clear_selection":  clearSelection,
	"mode":             setMode,
	"gizmo":            setGizmo,
	"extrude":          extrude,
	"subdivide":        func(s *editor.Session, _ *Step) (bool, error) { return s.SubdivideSelection(), nil },
	"flip":             func(s *editor.Session, _ *Step) (bool, error) { return s.FlipSelection(), nil },
	"delete":           func(s *editor.Session, _ *Step) (bool, error) { return s.DeleteSelection(), nil },
	"hide":             func(s *editor.Session, _ *Step) (bool, error) { return s.SetHidden(true), nil },
	"unhide":           func(s *editor.Session, _ *Step) (bool, error) { return s.SetHidden(false), nil },
	"snap":             func(s *editor.Session, _ *Step) (bool, error) { return s.SnapSelectionToGrid(), nil },
	"flatten_uvs":      func(s *editor.Session, _ *Step) (bool, error) { return s.FlattenUVs(), nil },
	"create_object":    func(s *editor.Session, st *Step) (bool, error) { return s.CreateObjectFromSelection(st.Name), nil },
	"translate":        translate,
	"rotate":           rotate,
	"scale":            scale,
	"paint":            paint,
	"retile":           retile,
	"undo":             repeat((*editor.Session).Undo),
	"redo":             repeat((*editor.Session).Redo),
	"mark_saved":       func(s *editor.Session, _ *Step) (bool, error) { s.MarkSaved(); return false, nil },
}

// Run applies every step of sc to s in order. It stops at the first step that
// fails, returning the report so far.
func Run(s *editor.Session, sc *Script) (*Report, error) {
	log := logger.Named("script")
	r := &Report{Name: sc.Name}

	for i := range sc.Steps {
		st := &sc.Steps[i]
		h, ok := handlers[st.Action]
		if !ok {
			return r.finish(s), fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, st.Action)
		}
		changed, err := h(s, st)
		if err != nil {
			return r.finish(s), fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
		s.FlushStale()

		r.Steps++
		if changed {
			r.Changed++
		}
		log.Debug("step",
			zap.Int("n", i+1),
			zap.String("action", st.Action),
			zap.Bool("changed", changed))

		if err := check(s, st.Expect); err != nil {
			return r.finish(s), fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
	}

	r.finish(s)
	log.Info("script replayed",
		zap.String("name", r.Name),
		zap.Int("steps", r.Steps),
		zap.Int("faces", r.Faces))
	return r, nil
}

func (r *Report) finish(s *editor.Session) *Report {
	r.UndoDepth = s.History.UndoLen()
	r.RedoDepth = s.History.RedoLen()
	r.Objects = countObjects(s.Scene)
	r.Faces = s.Scene.FaceCount()
	r.Dirty = s.Dirty()
	return r
}

func countObjects(scene *document.Scene) int {
	n := 0
	for _, l := range scene.Layers {
		n += len(l.Objects)
	}
	return n
}

func check(s *editor.Session, e *Expectancy) error {
	if e == nil {
		return nil
	}
	got := map[string]int{
		"faces":   s.Scene.FaceCount(),
		"objects": countObjects(s.Scene),
		"undo":    s.History.UndoLen(),
		"redo":    s.History.RedoLen(),
	}
	want := map[string]*int{"faces": e.Faces, "objects": e.Objects, "undo": e.Undo, "redo": e.Redo}
	for _, k := range []string{"faces", "objects", "undo", "redo"} {
		if w := want[k]; w != nil && *w != got[k] {
			return fmt.Errorf("%w: %s = %d, want %d", ErrExpectation, k, got[k], *w)
		}
	}
	return nil
}

func vec3(name string, v []float32) (math.Vec3, error) {
	if len(v) != 3 {
		return math.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidStep, name, len(v))
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func objectRef(v []int) (document.ObjectRef, error) {
	if len(v) != 2 {
		return document.ObjectRef{}, fmt.Errorf("%w: object needs [layer, object]", ErrInvalidStep)
	}
	return document.ObjectRef{Layer: v[0], Object: v[1]}, nil
}

func place(s *editor.Session, st *Step) (bool, error) {
	at, err := vec3("at", st.At)
	if err != nil {
		return false, err
	}
	if st.Object != nil {
		ref, err := objectRef(st.Object)
		if err != nil {
			return false, err
		}
		s.ActiveObject = ref
	}
	s.Scene.Cursor.Position = at
	return s.PlaceTileAtCursor(), nil
}

func selectAll(s *editor.Session, _ *Step) (bool, error) {
	s.Selection.SelectAll(s.Scene)
	return false, nil
}

func selectConnected(s *editor.Session, _ *Step) (bool, error) {
	s.Selection.SelectConnected(s.Scene)
	return false, nil
}

func invert(s *editor.Session, _ *Step) (bool, error) {
	s.Selection.Invert(s.Scene)
	return false, nil
}

func clearSelection(s *editor.Session, _ *Step) (bool, error) {
	s.ClearSelection()
	return false, nil
}

func selectFace(s *editor.Session, st *Step) (bool, error) {
	if len(st.Face) != 3 {
		return false, fmt.Errorf("%w: face needs [layer, object, face]", ErrInvalidStep)
	}
	ref := document.FaceRef{Layer: st.Face[0], Object: st.Face[1], Face: st.Face[2]}
	if _, ok := s.Scene.Face(ref); !ok {
		return false, fmt.Errorf("%w: no face %v", ErrInvalidStep, st.Face)
	}
	if !st.Additive {
		s.Selection.Clear()
	}
	s.Selection.AddFace(ref)
	return false, nil
}

func selectObject(s *editor.Session, st *Step) (bool, error) {
	ref, err := objectRef(st.Object)
	if err != nil {
		return false, err
	}
	if _, ok := s.Scene.Object(ref); !ok {
		return false, fmt.Errorf("%w: no object %v", ErrInvalidStep, st.Object)
	}
	if !st.Additive {
		s.Selection.Clear()
	}
	s.Selection.AddObject(ref)
	return false, nil
}

func setMode(s *editor.Session, st *Step) (bool, error) {
	m, ok := selection.ParseMode(st.Mode)
	if !ok {
		return false, fmt.Errorf("%w: selection mode %q", ErrInvalidStep, st.Mode)
	}
	s.SetMode(m)
	return false, nil
}

func setGizmo(s *editor.Session, st *Step) (bool, error) {
	for _, m := range []gizmo.Mode{gizmo.Translate, gizmo.Rotate, gizmo.Scale} {
		if m.String() == st.Mode {
			s.Gizmo.Mode = m
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: gizmo mode %q", ErrInvalidStep, st.Mode)
}

func extrude(s *editor.Session, st *Step) (bool, error) {
	d := s.Prefs.ExtrudeDistance
	if st.Distance != nil {
		d = *st.Distance
	}
	return s.ExtrudeSelection(d), nil
}

func translate(s *editor.Session, st *Step) (bool, error) {
	d, err := vec3("delta", st.Delta)
	if err != nil {
		return false, err
	}
	return s.TranslateSelection(d), nil
}

func rotate(s *editor.Session, st *Step) (bool, error) {
	axis := math.UnitY
	if st.Axis != nil {
		a, err := vec3("axis", st.Axis)
		if err != nil {
			return false, err
		}
		if a.LengthSq() == 0 {
			return false, fmt.Errorf("%w: zero rotation axis", ErrInvalidStep)
		}
		axis = a.Normalize()
	}
	rad := st.Angle * gomath.Pi / 180
	return s.RotateSelection(axis, rad), nil
}

func scale(s *editor.Session, st *Step) (bool, error) {
	var f math.Vec3
	switch len(st.Factor) {
	case 1:
		f = math.Vec3{X: st.Factor[0], Y: st.Factor[0], Z: st.Factor[0]}
	case 3:
		f = math.Vec3{X: st.Factor[0], Y: st.Factor[1], Z: st.Factor[2]}
	default:
		return false, fmt.Errorf("%w: factor needs 1 or 3 components", ErrInvalidStep)
	}
	return s.ScaleSelection(command.ClampScale(f)), nil
}

func paint(s *editor.Session, st *Step) (bool, error) {
	if st.Color != nil {
		if len(st.Color) != 4 {
			return false, fmt.Errorf("%w: color needs [r, g, b, a]", ErrInvalidStep)
		}
		s.PaintColor = math.Vec4{st.Color[0], st.Color[1], st.Color[2], st.Color[3]}
	}
	opacity := float32(1)
	if st.Opacity != nil {
		opacity = min(max(*st.Opacity, 0), 1)
	}
	return s.Paint(opacity), nil
}

func retile(s *editor.Session, st *Step) (bool, error) {
	if st.Tile != nil {
		if len(st.Tile) != 4 {
			return false, fmt.Errorf("%w: tile needs [min u, min v, max u, max v]", ErrInvalidStep)
		}
		s.Tile = command.TileRect{
			Min: math.Vec2{X: st.Tile[0], Y: st.Tile[1]},
			Max: math.Vec2{X: st.Tile[2], Y: st.Tile[3]},
		}
	}
	return s.Retile(), nil
}

func repeat(fn func(*editor.Session) bool) handler {
	return func(s *editor.Session, st *Step) (bool, error) {
		n := max(st.Count, 1)
		changed := false
		for range n {
			if !fn(s) {
				break
			}
			changed = true
		}
		return changed, nil
	}
}
