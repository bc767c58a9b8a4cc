package selection

import (
	"slices"

	"github.com/Faultbox/tileforge/internal/document"
)

// connectEpsSq is the squared distance under which two corners coincide.
const connectEpsSq = 1e-6

// SelectAll replaces the current granularity's set with every addressable
// element of the visible layers.
func (s *Selection) SelectAll(scene *document.Scene) {
	s.Clear()
	s.each(scene, func(ref document.ElementRef) {
		s.addAt(ref)
	})
}

// Invert replaces the current granularity's set with every element of the
// visible layers that is not currently selected.
func (s *Selection) Invert(scene *document.Scene) {
	prev := *s
	prev.Objects = slices.Clone(s.Objects)
	prev.Faces = slices.Clone(s.Faces)
	prev.Edges = slices.Clone(s.Edges)
	prev.Vertices = slices.Clone(s.Vertices)

	switch s.Mode {
	case ModeObject:
		s.Objects = s.Objects[:0]
	case ModeFace:
		s.Faces = s.Faces[:0]
	case ModeEdge:
		s.Edges = s.Edges[:0]
	case ModeVertex:
		s.Vertices = s.Vertices[:0]
	}

	s.each(scene, func(ref document.ElementRef) {
		if !prev.containsAt(ref) {
			s.addAt(ref)
		}
	})
}

// each visits every element at the current granularity. Object and face modes
// only use the leading tuple fields of ref.
func (s *Selection) each(scene *document.Scene, fn func(document.ElementRef)) {
	scene.VisibleObjects(func(oref document.ObjectRef, o *document.Object) {
		if s.Mode == ModeObject {
			fn(document.ElementRef{Layer: oref.Layer, Object: oref.Object})
			return
		}
		for fi := range o.Faces {
			fref := document.FaceRef{Layer: oref.Layer, Object: oref.Object, Face: fi}
			if s.Mode == ModeFace {
				fn(fref.Element(0))
				continue
			}
			for i := range 4 {
				fn(fref.Element(i))
			}
		}
	})
}

func (s *Selection) addAt(ref document.ElementRef) {
	switch s.Mode {
	case ModeObject:
		s.AddObject(ref.ObjectRef())
	case ModeFace:
		s.AddFace(ref.FaceRef())
	case ModeEdge:
		s.AddEdge(ref)
	case ModeVertex:
		s.AddVertex(ref)
	}
}

func (s *Selection) containsAt(ref document.ElementRef) bool {
	switch s.Mode {
	case ModeObject:
		return slices.Contains(s.Objects, ref.ObjectRef())
	case ModeFace:
		return slices.Contains(s.Faces, ref.FaceRef())
	case ModeEdge:
		return slices.Contains(s.Edges, ref)
	case ModeVertex:
		return slices.Contains(s.Vertices, ref)
	}
	return false
}

// SelectConnected grows the face selection breadth-first within each object,
// adding faces that share at least two coincident corners with a selected one.
func (s *Selection) SelectConnected(scene *document.Scene) {
	queue := slices.Clone(s.Faces)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		o, ok := scene.Object(cur.ObjectRef())
		if !ok || cur.Face < 0 || cur.Face >= len(o.Faces) {
			continue
		}
		for fi := range o.Faces {
			next := document.FaceRef{Layer: cur.Layer, Object: cur.Object, Face: fi}
			if fi == cur.Face || o.Faces[fi].Hidden || s.ContainsFace(next) {
				continue
			}
			if Connected(&o.Faces[cur.Face], &o.Faces[fi]) {
				s.AddFace(next)
				queue = append(queue, next)
			}
		}
	}
}

// Connected reports whether at least two corners of a coincide with corners of b.
func Connected(a, b *document.Face) bool {
	shared := 0
	for _, p := range a.Positions {
		for _, q := range b.Positions {
			if p.DistanceSq(q) < connectEpsSq {
				shared++
				break
			}
		}
		if shared >= 2 {
			return true
		}
	}
	return false
}

// Corners resolves every set into the deduplicated list of corner tuples it
// covers, sorted by address. Stale tuples are skipped.
func (s *Selection) Corners(scene *document.Scene) []document.ElementRef {
	seen := make(map[document.ElementRef]struct{})
	add := func(ref document.ElementRef) {
		if _, ok := scene.Vertex(ref); ok {
			seen[ref] = struct{}{}
		}
	}

	for _, ref := range append(s.objectFaces(scene), s.Faces...) {
		for i := range 4 {
			add(ref.Element(i))
		}
	}
	for _, ref := range s.Edges {
		a, b := document.Edge(ref.Index)
		add(ref.FaceRef().Element(a))
		add(ref.FaceRef().Element(b))
	}
	for _, ref := range s.Vertices {
		add(ref)
	}

	out := make([]document.ElementRef, 0, len(seen))
	for ref := range seen {
		out = append(out, ref)
	}
	slices.SortFunc(out, document.CompareElements)
	return out
}

// ElementFaces returns the selected faces plus the faces owning selected edges
// and vertices, deduplicated and sorted.
func (s *Selection) ElementFaces(scene *document.Scene) []document.FaceRef {
	out := slices.Clone(s.Faces)
	for _, ref := range s.Edges {
		out = append(out, ref.FaceRef())
	}
	for _, ref := range s.Vertices {
		out = append(out, ref.FaceRef())
	}
	return resolveFaces(scene, out)
}

// FaceTargets is ElementFaces plus every face of every selected object.
func (s *Selection) FaceTargets(scene *document.Scene) []document.FaceRef {
	return resolveFaces(scene, append(s.ElementFaces(scene), s.objectFaces(scene)...))
}

func (s *Selection) objectFaces(scene *document.Scene) []document.FaceRef {
	var out []document.FaceRef
	for _, oref := range s.Objects {
		o, ok := scene.Object(oref)
		if !ok {
			continue
		}
		for fi := range o.Faces {
			out = append(out, document.FaceRef{Layer: oref.Layer, Object: oref.Object, Face: fi})
		}
	}
	return out
}

// ObjectTargets returns the selected objects that still resolve, sorted.
func (s *Selection) ObjectTargets(scene *document.Scene) []document.ObjectRef {
	out := make([]document.ObjectRef, 0, len(s.Objects))
	for _, ref := range s.Objects {
		if _, ok := scene.Object(ref); ok {
			out = append(out, ref)
		}
	}
	slices.SortFunc(out, document.CompareObjects)
	return slices.Compact(out)
}

func resolveFaces(scene *document.Scene, refs []document.FaceRef) []document.FaceRef {
	refs = slices.DeleteFunc(refs, func(r document.FaceRef) bool {
		_, ok := scene.Face(r)
		return !ok
	})
	slices.SortFunc(refs, document.CompareFaces)
	return slices.Compact(refs)
}
