// Package editor ties the document, selection, history and manipulators into
// one editing session driven a frame at a time.
package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/camera"
	"github.com/Faultbox/tileforge/internal/command"
	"github.com/Faultbox/tileforge/internal/config"
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/gizmo"
	"github.com/Faultbox/tileforge/internal/logger"
	"github.com/Faultbox/tileforge/internal/selection"
	"github.com/Faultbox/tileforge/pkg/math"
)

// Tool is what a left click does on empty space.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPlace
	ToolErase
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPlace:
		return "place"
	case ToolErase:
		return "erase"
	}
	return "unknown"
}

// Session is the editor state for one open document. All mutation goes
// through History except the live preview of an active drag.
type Session struct {
	Scene     *document.Scene
	Selection *selection.Selection
	History   *command.History
	Gizmo     *gizmo.Gizmo
	Camera    *camera.Orbit
	Prefs     config.EditorConfig

	Tool         Tool
	ActiveObject document.ObjectRef
	Tile         command.TileRect
	PaintColor   math.Vec4

	// OnStale receives the objects whose meshes need rebuilding, once per frame.
	OnStale func([]document.ObjectRef)

	gizmoDrag  *gizmo.Drag
	vertexDrag *VertexDrag
	marquee    *marquee

	log *zap.Logger
}

type marquee struct {
	start    math.Vec2
	additive bool
}

// NewSession opens an empty document with the given settings.
func NewSession(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{
		Scene:      document.NewScene(),
		Selection:  selection.New(),
		History:    command.NewHistory(cfg.Editor.HistoryDepth),
		Gizmo:      gizmo.New(cfg.Editor.GizmoHitRadius, cfg.Editor.GizmoScreenSize),
		Camera:     camera.NewOrbit(cfg.Viewport),
		Prefs:      cfg.Editor,
		Tile:       command.FullTile,
		PaintColor: document.White,
		log:        logger.Named("editor"),
	}
	s.Scene.Cursor.GridSize = cfg.Editor.GridSize
	return s
}

// ApplyConfig swaps in new editor preferences, e.g. after a config reload.
func (s *Session) ApplyConfig(cfg *config.Config) {
	s.Prefs = cfg.Editor
	s.Gizmo.HitRadius = cfg.Editor.GizmoHitRadius
	s.Gizmo.ScreenSize = cfg.Editor.GizmoScreenSize
	s.Scene.Cursor.GridSize = cfg.Editor.GridSize
	s.log.Info("preferences reloaded", zap.Float32("grid", cfg.Editor.GridSize))
}

// View returns the camera data for a frame rendered at screen size.
func (s *Session) View(screen math.Vec2) gizmo.View {
	return gizmo.View{
		ViewProj:  s.Camera.ViewProj(screen),
		Screen:    screen,
		CameraPos: s.Camera.Position(),
		Forward:   s.Camera.Forward(),
	}
}

// Dragging reports whether a gizmo or element drag is in progress.
func (s *Session) Dragging() bool {
	return s.gizmoDrag != nil || s.vertexDrag != nil
}

// MarkSaved tells history the document was written out.
func (s *Session) MarkSaved() {
	s.History.MarkSaved()
}

// Dirty reports unsaved changes.
func (s *Session) Dirty() bool {
	return s.History.Dirty()
}

// FlushStale reports stale objects to OnStale.
func (s *Session) FlushStale() {
	refs := s.Scene.DrainStale()
	if len(refs) > 0 && s.OnStale != nil {
		s.OnStale(refs)
	}
}

// push is the only way committed edits reach the document.
func (s *Session) push(cmd command.Command) bool {
	if cmd == nil {
		return false
	}
	s.History.Push(s.Scene, cmd)
	s.log.Debug("pushed", zap.String("command", cmd.Description()))
	return true
}

// gizmoTargets resolves the selection into what the gizmo moves.
func (s *Session) gizmoTargets() gizmo.Targets {
	return gizmo.Targets{
		Corners:   s.Selection.Corners(s.Scene),
		Instances: s.Selection.Instances,
	}
}

// commitGizmo ends a gizmo drag and pushes its command, batched with a UV
// flatten of the affected faces when that preference is on.
func (s *Session) commitGizmo(d *gizmo.Drag) {
	cmd := s.Gizmo.Release(s.Scene, d)
	if cmd != nil && s.Prefs.AutoFlattenUV {
		cmd = command.Batch(cmd.Description(), cmd,
			command.FlattenUVs(s.Selection.FaceTargets(s.Scene), s.Scene.Cursor.GridSize))
	}
	s.push(cmd)
}

// CancelDrag rolls back any active drag without touching history.
func (s *Session) CancelDrag() {
	if d := s.gizmoDrag; d != nil {
		s.gizmoDrag = nil
		s.Gizmo.Cancel(s.Scene, d)
	}
	if d := s.vertexDrag; d != nil {
		s.vertexDrag = nil
		d.Cancel(s.Scene)
	}
	s.marquee = nil
}
