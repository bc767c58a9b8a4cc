package command

import (
	"fmt"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

// minScale keeps scale factors invertible.
const minScale = 1e-4

// parametric moves corners by a stored transform and undoes with its inverse.
type parametric struct {
	desc    string
	targets []document.ElementRef
	fwd     func(math.Vec3) math.Vec3
	inv     func(math.Vec3) math.Vec3
}

func (c *parametric) Apply(scene *document.Scene) { c.run(scene, c.fwd) }
func (c *parametric) Undo(scene *document.Scene)  { c.run(scene, c.inv) }
func (c *parametric) Description() string         { return c.desc }

func (c *parametric) run(scene *document.Scene, f func(math.Vec3) math.Vec3) {
	for _, ref := range c.targets {
		p, ok := scene.Vertex(ref)
		if !ok {
			continue
		}
		*p = f(*p)
		scene.MarkStale(ref.ObjectRef())
	}
}

// Translate moves every target corner by delta.
func Translate(targets []document.ElementRef, delta math.Vec3) Command {
	targets = uniqueElements(targets)
	if len(targets) == 0 || delta == (math.Vec3{}) {
		return nil
	}
	return &parametric{
		desc:    fmt.Sprintf("Move %d %s", len(targets), plural(len(targets), "vertex", "vertices")),
		targets: targets,
		fwd:     func(p math.Vec3) math.Vec3 { return p.Add(delta) },
		inv:     func(p math.Vec3) math.Vec3 { return p.Sub(delta) },
	}
}

// Rotate turns every target corner by angle radians about axis through center.
func Rotate(targets []document.ElementRef, center, axis math.Vec3, angle float32) Command {
	targets = uniqueElements(targets)
	if len(targets) == 0 || angle == 0 || axis.LengthSq() == 0 {
		return nil
	}
	axis = axis.Normalize()
	return &parametric{
		desc:    fmt.Sprintf("Rotate %d %s", len(targets), plural(len(targets), "vertex", "vertices")),
		targets: targets,
		fwd:     func(p math.Vec3) math.Vec3 { return p.RotateAround(center, axis, angle) },
		inv:     func(p math.Vec3) math.Vec3 { return p.RotateAround(center, axis, -angle) },
	}
}

// Scale scales every target corner about center, per axis. Factors are
// clamped away from zero so the inverse exists.
func Scale(targets []document.ElementRef, center, factor math.Vec3) Command {
	factor = ClampScale(factor)
	targets = uniqueElements(targets)
	if len(targets) == 0 || factor == (math.Vec3{X: 1, Y: 1, Z: 1}) {
		return nil
	}
	inv := math.Vec3{X: 1 / factor.X, Y: 1 / factor.Y, Z: 1 / factor.Z}
	return &parametric{
		desc:    fmt.Sprintf("Scale %d %s", len(targets), plural(len(targets), "vertex", "vertices")),
		targets: targets,
		fwd:     func(p math.Vec3) math.Vec3 { return p.ScaleAround(center, factor) },
		inv:     func(p math.Vec3) math.Vec3 { return p.ScaleAround(center, inv) },
	}
}

// ClampScale pushes each component at least minScale away from zero.
func ClampScale(f math.Vec3) math.Vec3 {
	for i := range 3 {
		v := f.Get(i)
		switch {
		case v >= 0 && v < minScale:
			f = f.With(i, minScale)
		case v < 0 && v > -minScale:
			f = f.With(i, -minScale)
		}
	}
	return f
}

// positionEdit overwrites corner positions. Targets and new values are
// resolved on the first Apply and replayed verbatim afterwards.
type positionEdit struct {
	desc    string
	resolve func(scene *document.Scene) ([]document.ElementRef, []math.Vec3)

	resolved bool
	targets  []document.ElementRef
	next     []math.Vec3
	prev     []math.Vec3
}

func (c *positionEdit) Apply(scene *document.Scene) {
	if !c.resolved {
		c.targets, c.next = c.resolve(scene)
		c.prev = make([]math.Vec3, len(c.targets))
		for i, ref := range c.targets {
			if p, ok := scene.Vertex(ref); ok {
				c.prev[i] = *p
			}
		}
		c.resolved = true
	}
	c.write(scene, c.next)
}

func (c *positionEdit) Undo(scene *document.Scene) { c.write(scene, c.prev) }
func (c *positionEdit) Description() string        { return c.desc }

func (c *positionEdit) write(scene *document.Scene, values []math.Vec3) {
	for i, ref := range c.targets {
		if p, ok := scene.Vertex(ref); ok {
			*p = values[i]
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

// SetPositions writes explicit positions, one per target.
func SetPositions(desc string, targets []document.ElementRef, positions []math.Vec3) Command {
	n := min(len(targets), len(positions))
	if n == 0 {
		return nil
	}
	targets, positions = targets[:n:n], positions[:n:n]
	return &positionEdit{
		desc: desc,
		resolve: func(*document.Scene) ([]document.ElementRef, []math.Vec3) {
			return targets, positions
		},
	}
}

// SnapToGrid rounds each target corner to the nearest multiple of cell.
func SnapToGrid(targets []document.ElementRef, cell float32) Command {
	targets = uniqueElements(targets)
	if len(targets) == 0 || cell <= 0 {
		return nil
	}
	return &positionEdit{
		desc: "Snap to grid",
		resolve: func(scene *document.Scene) ([]document.ElementRef, []math.Vec3) {
			next := make([]math.Vec3, len(targets))
			for i, ref := range targets {
				if p, ok := scene.Vertex(ref); ok {
					next[i] = p.Snap(cell)
				}
			}
			return targets, next
		},
	}
}

// MergeVertices moves every target corner to the targets' common centroid.
func MergeVertices(targets []document.ElementRef) Command {
	targets = uniqueElements(targets)
	if len(targets) < 2 {
		return nil
	}
	return &positionEdit{
		desc: fmt.Sprintf("Merge %d vertices", len(targets)),
		resolve: func(scene *document.Scene) ([]document.ElementRef, []math.Vec3) {
			live := targets[:0:0]
			var sum math.Vec3
			for _, ref := range targets {
				if p, ok := scene.Vertex(ref); ok {
					live = append(live, ref)
					sum = sum.Add(*p)
				}
			}
			next := make([]math.Vec3, len(live))
			if len(live) > 0 {
				c := sum.Scale(1 / float32(len(live)))
				for i := range next {
					next[i] = c
				}
			}
			return live, next
		},
	}
}

// CollapseEdge moves both ends of each edge to its midpoint, together with any
// corner of the same object sitting on either end, so neighbouring faces stay
// welded.
func CollapseEdge(edges []document.ElementRef) Command {
	edges = uniqueElements(edges)
	if len(edges) == 0 {
		return nil
	}
	return &positionEdit{
		desc: fmt.Sprintf("Collapse %d %s", len(edges), plural(len(edges), "edge", "edges")),
		resolve: func(scene *document.Scene) ([]document.ElementRef, []math.Vec3) {
			next := make(map[document.ElementRef]math.Vec3)
			for _, e := range edges {
				a, b, ok := scene.Edge(e)
				if !ok {
					continue
				}
				mid := a.Lerp(b, 0.5)
				for _, ref := range Coincident(scene, e.ObjectRef(), a, b) {
					if _, seen := next[ref]; !seen {
						next[ref] = mid
					}
				}
			}
			refs := make([]document.ElementRef, 0, len(next))
			for ref := range next {
				refs = append(refs, ref)
			}
			refs = uniqueElements(refs)
			vals := make([]math.Vec3, len(refs))
			for i, ref := range refs {
				vals[i] = next[ref]
			}
			return refs, vals
		},
	}
}

// WeldEpsSq is the squared distance under which two corners count as welded.
const WeldEpsSq = 1e-6

// Coincident returns every corner of the object lying on one of points.
func Coincident(scene *document.Scene, oref document.ObjectRef, points ...math.Vec3) []document.ElementRef {
	o, ok := scene.Object(oref)
	if !ok {
		return nil
	}
	var out []document.ElementRef
	for fi := range o.Faces {
		for c, p := range o.Faces[fi].Positions {
			for _, q := range points {
				if p.DistanceSq(q) < WeldEpsSq {
					out = append(out, document.ElementRef{Layer: oref.Layer, Object: oref.Object, Face: fi, Index: c})
					break
				}
			}
		}
	}
	return out
}
