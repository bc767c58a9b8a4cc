// Package gizmo implements the on-screen translate/rotate/scale manipulator:
// per-frame hit testing of its handles and the drag that previews a transform
// live and commits it as a single command.
package gizmo

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/logger"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/pkg/math"
)

// Mode selects the transform the gizmo applies.
type Mode int

const (
	Translate Mode = iota
	Rotate
	Scale
)

func (m Mode) String() string {
	switch m {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	}
	return "unknown"
}

// Handle is the part of the gizmo under the cursor.
type Handle int

const (
	HandleNone Handle = iota
	HandleX
	HandleY
	HandleZ
	HandlePlaneXY
	HandlePlaneYZ
	HandlePlaneXZ
)

func (h Handle) String() string {
	return [...]string{"none", "x", "y", "z", "xy", "yz", "xz"}[h]
}

// Axis returns the world axis of an axis handle.
func (h Handle) Axis() (math.Vec3, bool) {
	switch h {
	case HandleX, HandleY, HandleZ:
		return math.Axis(int(h - HandleX)), true
	}
	return math.Vec3{}, false
}

// planeAxes returns the two in-plane axes and the normal axis of a plane handle.
func (h Handle) planeAxes() (a, b, n int, ok bool) {
	switch h {
	case HandlePlaneXY:
		return 0, 1, 2, true
	case HandlePlaneYZ:
		return 1, 2, 0, true
	case HandlePlaneXZ:
		return 0, 2, 1, true
	}
	return 0, 0, 0, false
}

// State is the interaction state.
type State int

const (
	Idle State = iota
	Hovering
	Dragging
)

// View carries the camera data of the current frame.
type View struct {
	ViewProj  math.Mat4
	Screen    math.Vec2
	CameraPos math.Vec3
	Forward   math.Vec3
}

// Ray returns the pick ray under a screen point.
func (v View) Ray(point math.Vec2) picking.Ray {
	return picking.ScreenToRay(point, v.Screen, v.ViewProj)
}

// worldPerPixel returns how many world units one pixel spans at depth of p.
func (v View) worldPerPixel(p math.Vec3) float32 {
	a, okA := picking.ProjectToScreen(p, v.ViewProj, v.Screen)
	b, okB := picking.ProjectToScreen(p.Add(v.Forward.Perpendicular()), v.ViewProj, v.Screen)
	if !okA || !okB {
		return 0
	}
	px := a.Distance(b)
	if px < 1e-6 {
		return 0
	}
	return 1 / px
}

const (
	ringSegments   = 32
	ringRadius     = 0.8
	planeHandleMin = 0.2
	planeHandleMax = 0.4
	minPlaneFacing = 0.2
)

// Gizmo is the manipulator. It keeps screen-constant handle sizes and only
// tracks hover and drag state; the drag itself lives in a Drag value.
type Gizmo struct {
	Mode       Mode
	HitRadius  float32 // pixels
	ScreenSize float32 // pixel length of the axis shafts
	Snap       float32 // translate grid cell; zero disables

	state   State
	hovered Handle
	log     *zap.Logger
}

// New returns an idle translate gizmo.
func New(hitRadius, screenSize float32) *Gizmo {
	if hitRadius <= 0 {
		hitRadius = 12
	}
	if screenSize <= 0 {
		screenSize = 90
	}
	return &Gizmo{
		Mode:       Translate,
		HitRadius:  hitRadius,
		ScreenSize: screenSize,
		log:        logger.Named("gizmo"),
	}
}

// State returns the interaction state.
func (g *Gizmo) State() State { return g.state }

// Hovered returns the handle found by the last Hover.
func (g *Gizmo) Hovered() Handle { return g.hovered }

// Hover hit-tests the handles around center and updates the hover state.
// It does nothing while dragging.
func (g *Gizmo) Hover(view View, center math.Vec3, mouse math.Vec2) Handle {
	if g.state == Dragging {
		return g.hovered
	}
	g.hovered = g.HitTest(view, center, mouse)
	if g.hovered == HandleNone {
		g.state = Idle
	} else {
		g.state = Hovering
	}
	return g.hovered
}

// Reset drops hover state, e.g. when the selection becomes empty.
func (g *Gizmo) Reset() {
	g.state = Idle
	g.hovered = HandleNone
}

// Length returns the world length of an axis shaft drawn at center.
func (g *Gizmo) Length(view View, center math.Vec3) float32 {
	return g.ScreenSize * view.worldPerPixel(center)
}

// HitTest returns the handle under mouse. Translate plane handles win over
// shafts; rotate tests the three rings.
func (g *Gizmo) HitTest(view View, center math.Vec3, mouse math.Vec2) Handle {
	length := g.Length(view, center)
	if length <= 0 {
		return HandleNone
	}
	if g.Mode == Rotate {
		return g.hitRings(view, center, mouse, length*ringRadius)
	}
	if g.Mode == Translate {
		if h := g.hitPlanes(view, center, mouse, length); h != HandleNone {
			return h
		}
	}
	return g.hitShafts(view, center, mouse, length)
}

func (g *Gizmo) hitShafts(view View, center math.Vec3, mouse math.Vec2, length float32) Handle {
	origin, ok := picking.ProjectToScreen(center, view.ViewProj, view.Screen)
	if !ok {
		return HandleNone
	}
	best, bestDist := HandleNone, g.HitRadius
	for i := range 3 {
		tip, ok := picking.ProjectToScreen(center.Add(math.Axis(i).Scale(length)), view.ViewProj, view.Screen)
		if !ok {
			continue
		}
		if d := picking.DistanceToSegment2D(mouse, origin, tip); d < bestDist {
			best, bestDist = HandleX+Handle(i), d
		}
	}
	return best
}

func (g *Gizmo) hitPlanes(view View, center math.Vec3, mouse math.Vec2, length float32) Handle {
	lo, hi := length*planeHandleMin, length*planeHandleMax
	for _, h := range []Handle{HandlePlaneXY, HandlePlaneYZ, HandlePlaneXZ} {
		a, b, n, _ := h.planeAxes()
		// Edge-on planes cannot be dragged.
		if gomath.Abs(float64(math.Axis(n).Dot(view.Forward))) < minPlaneFacing {
			continue
		}
		ua, ub := math.Axis(a), math.Axis(b)
		world := [4]math.Vec3{
			center.Add(ua.Scale(lo)).Add(ub.Scale(lo)),
			center.Add(ua.Scale(hi)).Add(ub.Scale(lo)),
			center.Add(ua.Scale(hi)).Add(ub.Scale(hi)),
			center.Add(ua.Scale(lo)).Add(ub.Scale(hi)),
		}
		var quad [4]math.Vec2
		visible := true
		for i, p := range world {
			quad[i], visible = picking.ProjectToScreen(p, view.ViewProj, view.Screen)
			if !visible {
				break
			}
		}
		if visible && picking.PointInQuad2D(mouse, quad) {
			return h
		}
	}
	return HandleNone
}

func (g *Gizmo) hitRings(view View, center math.Vec3, mouse math.Vec2, radius float32) Handle {
	best, bestDist := HandleNone, g.HitRadius
	for i := range 3 {
		u, v := basis(math.Axis(i))
		prev, prevOK := picking.ProjectToScreen(center.Add(u.Scale(radius)), view.ViewProj, view.Screen)
		for s := 1; s <= ringSegments; s++ {
			theta := 2 * gomath.Pi * float64(s) / ringSegments
			p := center.
				Add(u.Scale(radius * float32(gomath.Cos(theta)))).
				Add(v.Scale(radius * float32(gomath.Sin(theta))))
			cur, curOK := picking.ProjectToScreen(p, view.ViewProj, view.Screen)
			if prevOK && curOK {
				if d := picking.DistanceToSegment2D(mouse, prev, cur); d < bestDist {
					best, bestDist = HandleX+Handle(i), d
				}
			}
			prev, prevOK = cur, curOK
		}
	}
	return best
}

// basis returns two unit vectors spanning the plane perpendicular to axis.
func basis(axis math.Vec3) (u, v math.Vec3) {
	u = axis.Perpendicular()
	v = axis.Cross(u).Normalize()
	return u, v
}
