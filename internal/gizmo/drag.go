package gizmo

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/command"
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/pkg/math"
)

const (
	// commitEps is the smallest total transform worth a history entry.
	commitEps = 1e-5
	// minScaleDist floors the start distance of a scale drag.
	minScaleDist = 1e-3
)

// Targets is what a drag moves.
type Targets struct {
	Corners   []document.ElementRef
	Instances []document.InstanceRef
}

// Drag is an in-progress gizmo drag. It writes its preview straight into the
// document and remembers the pre-drag values so Release can put them back
// exactly before the equivalent command is pushed.
type Drag struct {
	mode    Mode
	handle  Handle
	center  math.Vec3
	snap    float32
	targets Targets

	positions []math.Vec3
	instances []document.Instance

	// Constraint.
	axis   math.Vec3
	normal math.Vec3
	start  math.Vec3

	// Rotate: basis of the rotation plane and the unwrapped angle tracker.
	u, v     math.Vec3
	lastRaw  float32
	rotTotal float32

	// Scale: signed start distance along the axis.
	startDist float32

	appliedMove  math.Vec3
	appliedAngle float32
	appliedScale math.Vec3
}

// Begin starts dragging the hovered handle. It reports false when nothing is
// hovered, there is nothing to move, or the ray misses the constraint.
func (g *Gizmo) Begin(scene *document.Scene, view View, r picking.Ray, center math.Vec3, targets Targets) (*Drag, bool) {
	if g.hovered == HandleNone || (len(targets.Corners) == 0 && len(targets.Instances) == 0) {
		return nil, false
	}
	if _, isAxis := g.hovered.Axis(); !isAxis && g.Mode != Translate {
		return nil, false
	}
	d := &Drag{
		mode:         g.Mode,
		handle:       g.hovered,
		center:       center,
		targets:      targets,
		appliedScale: math.Vec3{X: 1, Y: 1, Z: 1},
	}
	if g.Mode == Translate {
		d.snap = g.Snap
	}
	if !d.constrain(view, r) {
		return nil, false
	}
	d.capture(scene)
	g.state = Dragging
	g.log.Debug("drag started",
		zap.Stringer("mode", d.mode),
		zap.Stringer("handle", d.handle),
		zap.Int("corners", len(targets.Corners)),
		zap.Int("instances", len(targets.Instances)))
	return d, true
}

func (d *Drag) constrain(view View, r picking.Ray) bool {
	if _, _, n, ok := d.handle.planeAxes(); ok {
		d.normal = math.Axis(n)
	} else {
		d.axis, _ = d.handle.Axis()
		if d.mode == Rotate {
			d.normal = d.axis
			d.u, d.v = basis(d.axis)
		} else {
			d.normal = axisPlaneNormal(d.axis, view.Forward)
		}
	}

	hit, ok := r.IntersectPlane(d.center, d.normal)
	if !ok {
		return false
	}
	d.start = hit
	switch d.mode {
	case Rotate:
		d.lastRaw = d.angleOf(hit)
	case Scale:
		s := hit.Sub(d.center).Dot(d.axis)
		switch {
		case s >= 0 && s < minScaleDist:
			s = minScaleDist
		case s < 0 && s > -minScaleDist:
			s = -minScaleDist
		}
		d.startDist = s
	}
	return true
}

// axisPlaneNormal returns the normal of the plane containing axis that faces
// the camera best: forward with its along-axis part removed.
func axisPlaneNormal(axis, forward math.Vec3) math.Vec3 {
	n := axis.Cross(forward.Cross(axis))
	if n.LengthSq() < 1e-8 {
		return axis.Perpendicular()
	}
	return n.Normalize()
}

func (d *Drag) angleOf(p math.Vec3) float32 {
	rel := p.Sub(d.center)
	return float32(gomath.Atan2(float64(rel.Dot(d.v)), float64(rel.Dot(d.u))))
}

func (d *Drag) capture(scene *document.Scene) {
	d.positions = make([]math.Vec3, len(d.targets.Corners))
	for i, ref := range d.targets.Corners {
		if p, ok := scene.Vertex(ref); ok {
			d.positions[i] = *p
		}
	}
	d.instances = make([]document.Instance, len(d.targets.Instances))
	for i, ref := range d.targets.Instances {
		if inst, ok := scene.Instance(ref); ok {
			d.instances[i] = *inst
		}
	}
}

// Mode returns the transform being dragged.
func (d *Drag) Mode() Mode { return d.mode }

// Handle returns the handle being dragged.
func (d *Drag) Handle() Handle { return d.handle }

// Update re-projects r onto the constraint and applies the step between the
// new total and what is already applied.
func (d *Drag) Update(scene *document.Scene, r picking.Ray) {
	hit, ok := r.IntersectPlane(d.center, d.normal)
	if !ok {
		return
	}
	switch d.mode {
	case Translate:
		total := hit.Sub(d.start)
		if d.axis != (math.Vec3{}) {
			total = d.axis.Scale(total.Dot(d.axis))
		}
		if d.snap > 0 {
			total = total.Snap(d.snap)
		}
		step := total.Sub(d.appliedMove)
		d.eachCorner(scene, func(p math.Vec3) math.Vec3 { return p.Add(step) })
		d.eachInstance(scene, func(i *document.Instance) { i.Position = i.Position.Add(step) })
		d.appliedMove = total

	case Rotate:
		raw := d.angleOf(hit)
		d.rotTotal += wrapAngle(raw - d.lastRaw)
		d.lastRaw = raw
		step := d.rotTotal - d.appliedAngle
		d.eachCorner(scene, func(p math.Vec3) math.Vec3 { return p.RotateAround(d.center, d.axis, step) })
		q := math.QuatFromAxisAngle(d.axis, step)
		d.eachInstance(scene, func(i *document.Instance) {
			i.Position = i.Position.RotateAround(d.center, d.axis, step)
			i.Rotation = q.Mul(i.Rotation).Normalize()
		})
		d.appliedAngle = d.rotTotal

	case Scale:
		ratio := hit.Sub(d.center).Dot(d.axis) / d.startDist
		total := command.ClampScale(math.Vec3{X: 1, Y: 1, Z: 1}.With(d.axisIndex(), ratio))
		step := total.Div(d.appliedScale)
		d.eachCorner(scene, func(p math.Vec3) math.Vec3 { return p.ScaleAround(d.center, step) })
		d.eachInstance(scene, func(i *document.Instance) {
			i.Position = i.Position.ScaleAround(d.center, step)
			i.Scale = i.Scale.Mul(step)
		})
		d.appliedScale = total
	}
}

func (d *Drag) axisIndex() int {
	return d.axis.DominantAxis()
}

func wrapAngle(a float32) float32 {
	for a > gomath.Pi {
		a -= 2 * gomath.Pi
	}
	for a <= -gomath.Pi {
		a += 2 * gomath.Pi
	}
	return a
}

func (d *Drag) eachCorner(scene *document.Scene, f func(math.Vec3) math.Vec3) {
	for _, ref := range d.targets.Corners {
		if p, ok := scene.Vertex(ref); ok {
			*p = f(*p)
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

func (d *Drag) eachInstance(scene *document.Scene, f func(*document.Instance)) {
	for _, ref := range d.targets.Instances {
		if inst, ok := scene.Instance(ref); ok {
			f(inst)
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

// restore writes the pre-drag values back.
func (d *Drag) restore(scene *document.Scene) {
	for i, ref := range d.targets.Corners {
		if p, ok := scene.Vertex(ref); ok {
			*p = d.positions[i]
			scene.MarkStale(ref.ObjectRef())
		}
	}
	for i, ref := range d.targets.Instances {
		if inst, ok := scene.Instance(ref); ok {
			*inst = d.instances[i]
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

// Commit returns the command equivalent to the applied total, or nil when the
// total is below the commit epsilon.
func (d *Drag) Commit() command.Command {
	t := d.targets
	switch d.mode {
	case Translate:
		if d.appliedMove.Length() < commitEps {
			return nil
		}
		return command.Batch("Move selection",
			command.Translate(t.Corners, d.appliedMove),
			command.InstanceTranslate(t.Instances, d.appliedMove))
	case Rotate:
		if gomath.Abs(float64(d.appliedAngle)) < commitEps {
			return nil
		}
		return command.Batch("Rotate selection",
			command.Rotate(t.Corners, d.center, d.axis, d.appliedAngle),
			command.InstanceRotate(t.Instances, d.center, d.axis, d.appliedAngle))
	case Scale:
		if d.appliedScale.Sub(math.Vec3{X: 1, Y: 1, Z: 1}).Length() < commitEps {
			return nil
		}
		return command.Batch("Scale selection",
			command.Scale(t.Corners, d.center, d.appliedScale),
			command.InstanceScale(t.Instances, d.center, d.appliedScale))
	}
	return nil
}

// Release ends the drag: the preview is rolled back to the exact pre-drag
// values and the equivalent command is returned for the caller to push. A
// nil result means the drag amounted to nothing.
func (g *Gizmo) Release(scene *document.Scene, d *Drag) command.Command {
	d.restore(scene)
	g.state = Idle
	cmd := d.Commit()
	if cmd == nil {
		g.log.Debug("drag discarded", zap.Stringer("mode", d.mode))
		return nil
	}
	g.log.Debug("drag committed", zap.String("command", cmd.Description()))
	return cmd
}

// Cancel ends the drag without committing anything.
func (g *Gizmo) Cancel(scene *document.Scene, d *Drag) {
	d.restore(scene)
	g.state = Idle
}
