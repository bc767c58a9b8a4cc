package editor

import (
	"github.com/Faultbox/tileforge/internal/command"
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/gizmo"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/internal/selection"
	"github.com/Faultbox/tileforge/pkg/math"
)

const dragCommitEps = 1e-5

// VertexDrag moves a grabbed vertex, edge or face directly, in the plane
// through the grab point facing the camera. Corners of the same object that
// sit on the grabbed ones move along so welded geometry stays closed.
type VertexDrag struct {
	targets  []document.ElementRef
	snapshot []math.Vec3
	anchor   math.Vec3
	normal   math.Vec3
	applied  math.Vec3
}

// grab is the element found under the cursor.
type grab struct {
	corners []document.ElementRef
	point   math.Vec3
}

// BeginVertexDrag looks for a selected element under mouse: a vertex or an
// edge midpoint within radius pixels, otherwise a selected face hit by the
// pick ray. It reports false when nothing selected is under the cursor.
func BeginVertexDrag(scene *document.Scene, sel *selection.Selection, view gizmo.View, mouse math.Vec2, radius float32) (*VertexDrag, bool) {
	g, ok := findGrab(scene, sel, view, mouse, radius)
	if !ok {
		return nil, false
	}

	var points []math.Vec3
	for _, ref := range g.corners {
		if p, ok := scene.Vertex(ref); ok {
			points = append(points, *p)
		}
	}
	targets := append([]document.ElementRef(nil), g.corners...)
	targets = append(targets, command.Coincident(scene, g.corners[0].ObjectRef(), points...)...)
	targets = dedupe(targets)

	d := &VertexDrag{
		targets:  targets,
		snapshot: make([]math.Vec3, len(targets)),
		anchor:   g.point,
		normal:   view.Forward,
	}
	for i, ref := range targets {
		p, _ := scene.Vertex(ref)
		d.snapshot[i] = *p
	}
	return d, true
}

func findGrab(scene *document.Scene, sel *selection.Selection, view gizmo.View, mouse math.Vec2, radius float32) (grab, bool) {
	best, bestDist, found := grab{}, radius, false

	for _, ref := range sel.Vertices {
		p, ok := scene.Vertex(ref)
		if !ok {
			continue
		}
		sp, ok := picking.ProjectToScreen(*p, view.ViewProj, view.Screen)
		if d := sp.Distance(mouse); ok && d < bestDist {
			best, bestDist, found = grab{corners: []document.ElementRef{ref}, point: *p}, d, true
		}
	}
	for _, ref := range sel.Edges {
		a, b, ok := scene.Edge(ref)
		if !ok {
			continue
		}
		mid := a.Lerp(b, 0.5)
		sp, ok := picking.ProjectToScreen(mid, view.ViewProj, view.Screen)
		if d := sp.Distance(mouse); ok && d < bestDist {
			ia, ib := document.Edge(ref.Index)
			fref := ref.FaceRef()
			best, bestDist, found = grab{corners: []document.ElementRef{fref.Element(ia), fref.Element(ib)}, point: mid}, d, true
		}
	}
	if found {
		return best, true
	}

	r := view.Ray(mouse)
	var bestT float32
	for _, ref := range sel.Faces {
		f, ok := scene.Face(ref)
		if !ok || f.Hidden {
			continue
		}
		t, hit := picking.IntersectQuad(r, f.Positions)
		if hit && (!found || t < bestT) {
			best = grab{
				corners: []document.ElementRef{ref.Element(0), ref.Element(1), ref.Element(2), ref.Element(3)},
				point:   r.At(t),
			}
			bestT, found = t, true
		}
	}
	return best, found
}

func dedupe(refs []document.ElementRef) []document.ElementRef {
	seen := make(map[document.ElementRef]struct{}, len(refs))
	out := refs[:0]
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// Targets returns the corners the drag moves.
func (d *VertexDrag) Targets() []document.ElementRef { return d.targets }

// Update moves the targets so the grab point follows r. A positive snap
// rounds the grab point's destination to that grid cell.
func (d *VertexDrag) Update(scene *document.Scene, r picking.Ray, snap float32) {
	hit, ok := r.IntersectPlane(d.anchor, d.normal)
	if !ok {
		return
	}
	if snap > 0 {
		hit = hit.Snap(snap)
	}
	total := hit.Sub(d.anchor)
	step := total.Sub(d.applied)
	for _, ref := range d.targets {
		if p, ok := scene.Vertex(ref); ok {
			*p = p.Add(step)
			scene.MarkStale(ref.ObjectRef())
		}
	}
	d.applied = total
}

// Cancel restores the pre-drag positions.
func (d *VertexDrag) Cancel(scene *document.Scene) {
	for i, ref := range d.targets {
		if p, ok := scene.Vertex(ref); ok {
			*p = d.snapshot[i]
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

// Release rolls the preview back and returns the equivalent translate of the
// explicit corner list, or nil when the drag did not move anything.
func (d *VertexDrag) Release(scene *document.Scene) command.Command {
	d.Cancel(scene)
	if d.applied.Length() < dragCommitEps {
		return nil
	}
	return command.Translate(d.targets, d.applied)
}
