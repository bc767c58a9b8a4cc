package command

import (
	"fmt"
	"slices"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

type removedFace struct {
	ref  document.FaceRef
	face document.Face
}

type removedObject struct {
	ref    document.ObjectRef
	object *document.Object
}

// growth replaces each target face with generated faces appended to the end
// of its object. Targets are processed in descending index order so pending
// indices stay valid; undo pops the appended faces and re-inserts the
// originals in ascending order.
type growth struct {
	desc    string
	targets []document.FaceRef
	build   func(ref document.FaceRef, f document.Face) []document.Face

	removed  []removedFace
	appended map[document.ObjectRef]int
}

func (c *growth) Apply(scene *document.Scene) {
	c.removed = c.removed[:0]
	c.appended = make(map[document.ObjectRef]int)

	for i := len(c.targets) - 1; i >= 0; i-- {
		ref := c.targets[i]
		oref := ref.ObjectRef()
		o, ok := scene.Object(oref)
		if !ok {
			continue
		}
		orig, ok := o.RemoveFace(ref.Face)
		if !ok {
			continue
		}
		faces := c.build(ref, orig)
		o.AppendFaces(faces...)
		c.appended[oref] += len(faces)
		c.removed = append(c.removed, removedFace{ref: ref, face: orig})
		scene.MarkStale(oref)
	}
	slices.Reverse(c.removed)
}

func (c *growth) Undo(scene *document.Scene) {
	for oref, n := range c.appended {
		if o, ok := scene.Object(oref); ok {
			o.PopFaces(n)
			scene.MarkStale(oref)
		}
	}
	for _, r := range c.removed {
		if o, ok := scene.Object(r.ref.ObjectRef()); ok {
			o.InsertFace(r.ref.Face, r.face)
		}
	}
}

func (c *growth) Description() string { return c.desc }

// Extrude pushes each face along its normal by distance and closes the gap
// with four side faces. The moved face replaces the original, so each target
// adds four faces.
func Extrude(faces []document.FaceRef, distance float32) Command {
	faces = uniqueFaces(faces)
	if len(faces) == 0 || distance == 0 {
		return nil
	}
	return &growth{
		desc:    fmt.Sprintf("Extrude %d %s", len(faces), plural(len(faces), "face", "faces")),
		targets: faces,
		build: func(_ document.FaceRef, f document.Face) []document.Face {
			return extrudeFace(f, f.Normal().Scale(distance))
		},
	}
}

func extrudeFace(f document.Face, d math.Vec3) []document.Face {
	moved := f
	for i := range moved.Positions {
		moved.Positions[i] = f.Positions[i].Add(d)
	}
	out := []document.Face{moved}
	for e := range 4 {
		a, b := document.Edge(e)
		pa, pb := f.Positions[a], f.Positions[b]
		side := document.NewQuad(pa, pb, pb.Add(d), pa.Add(d))
		side.Colors = [4]math.Vec4{f.Colors[a], f.Colors[b], f.Colors[b], f.Colors[a]}
		out = append(out, side)
	}
	return out
}

// Subdivide splits each face into four quads through its edge midpoints and
// centre. UVs and colors are interpolated bilinearly.
func Subdivide(faces []document.FaceRef) Command {
	faces = uniqueFaces(faces)
	if len(faces) == 0 {
		return nil
	}
	return &growth{
		desc:    fmt.Sprintf("Subdivide %d %s", len(faces), plural(len(faces), "face", "faces")),
		targets: faces,
		build: func(_ document.FaceRef, f document.Face) []document.Face {
			return []document.Face{
				subQuad(f, [4]math.Vec2{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 0.5}, {X: 0, Y: 0.5}}),
				subQuad(f, [4]math.Vec2{{X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.5}, {X: 0.5, Y: 0.5}}),
				subQuad(f, [4]math.Vec2{{X: 0.5, Y: 0.5}, {X: 1, Y: 0.5}, {X: 1, Y: 1}, {X: 0.5, Y: 1}}),
				subQuad(f, [4]math.Vec2{{X: 0, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 1}, {X: 0, Y: 1}}),
			}
		},
	}
}

// SplitEdge cuts each owning face in two through the midpoint of the chosen
// edge and of the opposite edge. Only the first selected edge of a face counts.
func SplitEdge(edges []document.ElementRef) Command {
	edges = uniqueElements(edges)
	which := make(map[document.FaceRef]int)
	var faces []document.FaceRef
	for _, e := range edges {
		ref := e.FaceRef()
		if _, dup := which[ref]; dup {
			continue
		}
		which[ref] = e.Index
		faces = append(faces, ref)
	}
	if len(faces) == 0 {
		return nil
	}
	return &growth{
		desc:    fmt.Sprintf("Split %d %s", len(faces), plural(len(faces), "edge", "edges")),
		targets: uniqueFaces(faces),
		build: func(ref document.FaceRef, f document.Face) []document.Face {
			r := rotateCorners(f, which[ref])
			return []document.Face{
				subQuad(r, [4]math.Vec2{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 1}, {X: 0, Y: 1}}),
				subQuad(r, [4]math.Vec2{{X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0.5, Y: 1}}),
			}
		},
	}
}

// rotateCorners renumbers corners so that corner k becomes corner 0.
func rotateCorners(f document.Face, k int) document.Face {
	r := f
	for i := range 4 {
		j := (i + k) % 4
		r.Positions[i], r.UVs[i], r.Colors[i] = f.Positions[j], f.UVs[j], f.Colors[j]
	}
	return r
}

// subQuad samples f bilinearly at four (s,t) parameters, where corner 0 is
// (0,0), 1 is (1,0), 2 is (1,1) and 3 is (0,1).
func subQuad(f document.Face, st [4]math.Vec2) document.Face {
	out := document.Face{Hidden: f.Hidden}
	for i, p := range st {
		w := [4]float32{(1 - p.X) * (1 - p.Y), p.X * (1 - p.Y), p.X * p.Y, (1 - p.X) * p.Y}
		for c := range 4 {
			out.Positions[i] = out.Positions[i].Add(f.Positions[c].Scale(w[c]))
			out.UVs[i] = out.UVs[i].Add(f.UVs[c].Scale(w[c]))
			for k := range 4 {
				out.Colors[i][k] += f.Colors[c][k] * w[c]
			}
		}
	}
	return out
}

// deletion removes faces and whole objects. Faces inside deleted objects go
// with their object.
type deletion struct {
	objects []document.ObjectRef
	faces   []document.FaceRef

	removedObjects []removedObject
	removedFaces   []removedFace
}

// Delete removes the given objects and faces.
func Delete(objects []document.ObjectRef, faces []document.FaceRef) Command {
	objects = slices.Clone(objects)
	slices.SortFunc(objects, document.CompareObjects)
	objects = slices.Compact(objects)
	faces = slices.DeleteFunc(uniqueFaces(faces), func(f document.FaceRef) bool {
		_, found := slices.BinarySearchFunc(objects, f.ObjectRef(), document.CompareObjects)
		return found
	})
	if len(objects) == 0 && len(faces) == 0 {
		return nil
	}
	return &deletion{objects: objects, faces: faces}
}

func (c *deletion) Apply(scene *document.Scene) {
	c.removedFaces = c.removedFaces[:0]
	c.removedObjects = c.removedObjects[:0]

	for i := len(c.faces) - 1; i >= 0; i-- {
		ref := c.faces[i]
		o, ok := scene.Object(ref.ObjectRef())
		if !ok {
			continue
		}
		if f, ok := o.RemoveFace(ref.Face); ok {
			c.removedFaces = append(c.removedFaces, removedFace{ref: ref, face: f})
			scene.MarkStale(ref.ObjectRef())
		}
	}
	for i := len(c.objects) - 1; i >= 0; i-- {
		ref := c.objects[i]
		l, ok := scene.Layer(ref.Layer)
		if !ok {
			continue
		}
		if o, ok := l.RemoveObject(ref.Object); ok {
			c.removedObjects = append(c.removedObjects, removedObject{ref: ref, object: o})
			scene.MarkLayerStale(ref.Layer, ref.Object)
		}
	}
	slices.Reverse(c.removedFaces)
	slices.Reverse(c.removedObjects)
}

func (c *deletion) Undo(scene *document.Scene) {
	for _, r := range c.removedObjects {
		if l, ok := scene.Layer(r.ref.Layer); ok {
			l.InsertObject(r.ref.Object, r.object)
			scene.MarkLayerStale(r.ref.Layer, r.ref.Object)
		}
	}
	for _, r := range c.removedFaces {
		if o, ok := scene.Object(r.ref.ObjectRef()); ok {
			o.InsertFace(r.ref.Face, r.face)
			scene.MarkStale(r.ref.ObjectRef())
		}
	}
}

func (c *deletion) Description() string {
	switch {
	case len(c.objects) == 0:
		return fmt.Sprintf("Delete %d %s", len(c.faces), plural(len(c.faces), "face", "faces"))
	case len(c.faces) == 0:
		return fmt.Sprintf("Delete %d %s", len(c.objects), plural(len(c.objects), "object", "objects"))
	}
	return fmt.Sprintf("Delete %d objects and %d faces", len(c.objects), len(c.faces))
}

// objectCreation moves faces out of their objects into a new object appended
// to the first face's layer.
type objectCreation struct {
	name  string
	faces []document.FaceRef

	removed []removedFace
	created document.ObjectRef
	ok      bool
}

// CreateObject moves faces into a new object called name.
func CreateObject(faces []document.FaceRef, name string) Command {
	faces = uniqueFaces(faces)
	if len(faces) == 0 {
		return nil
	}
	return &objectCreation{name: name, faces: faces}
}

func (c *objectCreation) Apply(scene *document.Scene) {
	c.removed = c.removed[:0]
	c.ok = false
	l, ok := scene.Layer(c.faces[0].Layer)
	if !ok {
		return
	}

	for i := len(c.faces) - 1; i >= 0; i-- {
		ref := c.faces[i]
		o, ok := scene.Object(ref.ObjectRef())
		if !ok {
			continue
		}
		if f, ok := o.RemoveFace(ref.Face); ok {
			c.removed = append(c.removed, removedFace{ref: ref, face: f})
			scene.MarkStale(ref.ObjectRef())
		}
	}
	slices.Reverse(c.removed)

	obj := &document.Object{Name: c.name}
	for _, r := range c.removed {
		obj.AppendFaces(r.face)
	}
	idx := l.InsertObject(len(l.Objects), obj)
	c.created = document.ObjectRef{Layer: c.faces[0].Layer, Object: idx}
	c.ok = true
	scene.MarkStale(c.created)
}

func (c *objectCreation) Undo(scene *document.Scene) {
	if !c.ok {
		return
	}
	if l, ok := scene.Layer(c.created.Layer); ok {
		l.RemoveObject(c.created.Object)
		scene.MarkLayerStale(c.created.Layer, c.created.Object)
	}
	for _, r := range c.removed {
		if o, ok := scene.Object(r.ref.ObjectRef()); ok {
			o.InsertFace(r.ref.Face, r.face)
			scene.MarkStale(r.ref.ObjectRef())
		}
	}
}

func (c *objectCreation) Description() string { return fmt.Sprintf("Create object %q", c.name) }

// Created returns the object made by the last Apply.
func (c *objectCreation) Created() (document.ObjectRef, bool) { return c.created, c.ok }

// placement appends faces to an object, creating it on first use.
type placement struct {
	target document.ObjectRef
	name   string
	faces  []document.Face

	created  bool
	resolved document.ObjectRef
}

// Place appends faces to target. When target does not exist a new object
// called name is appended to the target layer instead.
func Place(target document.ObjectRef, name string, faces ...document.Face) Command {
	if len(faces) == 0 {
		return nil
	}
	return &placement{target: target, name: name, faces: slices.Clone(faces)}
}

func (c *placement) Apply(scene *document.Scene) {
	c.created = false
	o, ok := scene.Object(c.target)
	c.resolved = c.target
	if !ok {
		l, ok := scene.Layer(c.target.Layer)
		if !ok {
			return
		}
		o = &document.Object{Name: c.name}
		c.resolved.Object = l.InsertObject(len(l.Objects), o)
		c.created = true
	}
	o.AppendFaces(c.faces...)
	scene.MarkStale(c.resolved)
}

func (c *placement) Undo(scene *document.Scene) {
	o, ok := scene.Object(c.resolved)
	if !ok {
		return
	}
	o.PopFaces(len(c.faces))
	if c.created {
		if l, ok := scene.Layer(c.resolved.Layer); ok {
			l.RemoveObject(c.resolved.Object)
		}
	}
	scene.MarkStale(c.resolved)
}

func (c *placement) Description() string {
	return fmt.Sprintf("Place %d %s", len(c.faces), plural(len(c.faces), "tile", "tiles"))
}

// erasure removes a single face and restores it at the same index.
type erasure struct {
	ref     document.FaceRef
	face    document.Face
	removed bool
}

// Erase removes one face. A ref that does not resolve yields nil.
func Erase(scene *document.Scene, ref document.FaceRef) Command {
	if _, ok := scene.Face(ref); !ok {
		return nil
	}
	return &erasure{ref: ref}
}

func (c *erasure) Apply(scene *document.Scene) {
	c.removed = false
	o, ok := scene.Object(c.ref.ObjectRef())
	if !ok {
		return
	}
	c.face, c.removed = o.RemoveFace(c.ref.Face)
	scene.MarkStale(c.ref.ObjectRef())
}

func (c *erasure) Undo(scene *document.Scene) {
	if !c.removed {
		return
	}
	if o, ok := scene.Object(c.ref.ObjectRef()); ok {
		o.InsertFace(c.ref.Face, c.face)
		scene.MarkStale(c.ref.ObjectRef())
	}
}

func (c *erasure) Description() string { return "Erase tile" }

// Mirror reflects faces across the plane where the given axis equals center
// and places the reflections next to their originals. Reflected faces are
// flipped so they keep facing outward.
func Mirror(scene *document.Scene, faces []document.FaceRef, axis int, center float32) Command {
	faces = uniqueFaces(faces)
	var (
		cmds    []Command
		owner   document.ObjectRef
		pending []document.Face
	)
	flush := func() {
		if len(pending) > 0 {
			cmds = append(cmds, Place(owner, "", pending...))
		}
		pending = nil
	}
	for _, ref := range faces {
		f, ok := scene.Face(ref)
		if !ok {
			continue
		}
		if ref.ObjectRef() != owner {
			flush()
			owner = ref.ObjectRef()
		}
		m := *f
		for i, p := range m.Positions {
			m.Positions[i] = p.With(axis, 2*center-p.Get(axis))
		}
		m.Flip()
		pending = append(pending, m)
	}
	flush()
	return Batch(fmt.Sprintf("Mirror %d %s", len(faces), plural(len(faces), "face", "faces")), cmds...)
}
