// Package selection tracks what the user has selected, at object, face, edge
// or vertex granularity, as reference tuples into the document.
package selection

import (
	"slices"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

// Mode is the selection granularity.
type Mode int

const (
	ModeObject Mode = iota
	ModeFace
	ModeEdge
	ModeVertex
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeObject:
		return "object"
	case ModeFace:
		return "face"
	case ModeEdge:
		return "edge"
	case ModeVertex:
		return "vertex"
	}
	return "unknown"
}

// ParseMode converts a mode name back to a Mode.
func ParseMode(name string) (Mode, bool) {
	for m := ModeObject; m <= ModeVertex; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return ModeFace, false
}

// Selection holds four ordered, duplicate-free sets plus placement instances.
type Selection struct {
	Mode      Mode
	Objects   []document.ObjectRef
	Faces     []document.FaceRef
	Edges     []document.ElementRef
	Vertices  []document.ElementRef
	Instances []document.InstanceRef
}

// New returns an empty face-mode selection.
func New() *Selection {
	return &Selection{Mode: ModeFace}
}

// Clear empties every set.
func (s *Selection) Clear() {
	s.Objects = s.Objects[:0]
	s.Faces = s.Faces[:0]
	s.Edges = s.Edges[:0]
	s.Vertices = s.Vertices[:0]
	s.Instances = s.Instances[:0]
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.Objects) == 0 && len(s.Faces) == 0 && len(s.Edges) == 0 &&
		len(s.Vertices) == 0 && len(s.Instances) == 0
}

// HasGeometry reports whether any object, face, edge or vertex is selected.
func (s *Selection) HasGeometry() bool {
	return len(s.Objects) > 0 || len(s.Faces) > 0 || len(s.Edges) > 0 || len(s.Vertices) > 0
}

// AddObject adds ref unless already present.
func (s *Selection) AddObject(ref document.ObjectRef) bool {
	return addUnique(&s.Objects, ref)
}

// AddFace adds ref unless already present.
func (s *Selection) AddFace(ref document.FaceRef) bool {
	return addUnique(&s.Faces, ref)
}

// AddEdge adds ref unless already present.
func (s *Selection) AddEdge(ref document.ElementRef) bool {
	return addUnique(&s.Edges, ref)
}

// AddVertex adds ref unless already present.
func (s *Selection) AddVertex(ref document.ElementRef) bool {
	return addUnique(&s.Vertices, ref)
}

// AddInstance adds ref unless already present.
func (s *Selection) AddInstance(ref document.InstanceRef) bool {
	return addUnique(&s.Instances, ref)
}

// ContainsFace reports whether the face is selected.
func (s *Selection) ContainsFace(ref document.FaceRef) bool {
	return slices.Contains(s.Faces, ref)
}

// ContainsObject reports whether the object is selected.
func (s *Selection) ContainsObject(ref document.ObjectRef) bool {
	return slices.Contains(s.Objects, ref)
}

func addUnique[T comparable](set *[]T, v T) bool {
	if slices.Contains(*set, v) {
		return false
	}
	*set = append(*set, v)
	return true
}

// Centroid returns the mean of every referenced corner: objects contribute all
// corners of all faces, faces four, edges two, vertices one, and each selected
// instance its position. An empty selection yields the zero vector.
func (s *Selection) Centroid(scene *document.Scene) math.Vec3 {
	var sum math.Vec3
	n := 0
	add := func(p math.Vec3) {
		sum = sum.Add(p)
		n++
	}

	for _, ref := range s.Objects {
		o, ok := scene.Object(ref)
		if !ok {
			continue
		}
		for i := range o.Faces {
			for _, p := range o.Faces[i].Positions {
				add(p)
			}
		}
	}
	for _, ref := range s.Faces {
		if f, ok := scene.Face(ref); ok {
			for _, p := range f.Positions {
				add(p)
			}
		}
	}
	for _, ref := range s.Edges {
		if a, b, ok := scene.Edge(ref); ok {
			add(a)
			add(b)
		}
	}
	for _, ref := range s.Vertices {
		if p, ok := scene.Vertex(ref); ok {
			add(*p)
		}
	}
	for _, ref := range s.Instances {
		if inst, ok := scene.Instance(ref); ok {
			add(inst.Position)
		}
	}

	if n == 0 {
		return math.Vec3{}
	}
	return sum.Scale(1 / float32(n))
}

// Prune drops references that no longer resolve in scene.
func (s *Selection) Prune(scene *document.Scene) {
	s.Objects = slices.DeleteFunc(s.Objects, func(r document.ObjectRef) bool {
		_, ok := scene.Object(r)
		return !ok
	})
	s.Faces = slices.DeleteFunc(s.Faces, func(r document.FaceRef) bool {
		_, ok := scene.Face(r)
		return !ok
	})
	s.Edges = slices.DeleteFunc(s.Edges, func(r document.ElementRef) bool {
		_, ok := scene.Vertex(r)
		return !ok
	})
	s.Vertices = slices.DeleteFunc(s.Vertices, func(r document.ElementRef) bool {
		_, ok := scene.Vertex(r)
		return !ok
	})
	s.Instances = slices.DeleteFunc(s.Instances, func(r document.InstanceRef) bool {
		_, ok := scene.Instance(r)
		return !ok
	})
}
