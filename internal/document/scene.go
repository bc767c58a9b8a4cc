package document

import (
	"fmt"
	"slices"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/tileforge/pkg/math"
)

// Instance is a transformed placement of its owning object's geometry.
type Instance struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// NewInstance returns an identity placement at pos.
func NewInstance(pos math.Vec3) Instance {
	return Instance{Position: pos, Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Object is a named container of faces. Face order is significant.
type Object struct {
	Name      string
	Faces     []Face
	Instances []Instance
}

// Layer groups objects and can be hidden as a whole.
type Layer struct {
	Name    string
	Visible bool
	Objects []*Object
}

// Cursor is the placement crosshair.
type Cursor struct {
	Position math.Vec3
	GridSize float32
}

// Scene is the whole editable document.
type Scene struct {
	Layers []*Layer
	Cursor Cursor

	stale map[ObjectRef]struct{}
}

// NewScene returns a scene with one visible, empty layer.
func NewScene() *Scene {
	return &Scene{
		Layers: []*Layer{{Name: "Layer 1", Visible: true}},
		Cursor: Cursor{GridSize: 1},
	}
}

// AddLayer appends a visible layer and returns its index.
func (s *Scene) AddLayer(name string) int {
	s.Layers = append(s.Layers, &Layer{Name: name, Visible: true})
	return len(s.Layers) - 1
}

// Layer returns layer i.
func (s *Scene) Layer(i int) (*Layer, bool) {
	if i < 0 || i >= len(s.Layers) {
		return nil, false
	}
	return s.Layers[i], true
}

// Object resolves an object reference.
func (s *Scene) Object(ref ObjectRef) (*Object, bool) {
	l, ok := s.Layer(ref.Layer)
	if !ok || ref.Object < 0 || ref.Object >= len(l.Objects) {
		return nil, false
	}
	return l.Objects[ref.Object], true
}

// Face resolves a face reference.
func (s *Scene) Face(ref FaceRef) (*Face, bool) {
	o, ok := s.Object(ref.ObjectRef())
	if !ok || ref.Face < 0 || ref.Face >= len(o.Faces) {
		return nil, false
	}
	return &o.Faces[ref.Face], true
}

// Vertex resolves a corner reference to its position.
func (s *Scene) Vertex(ref ElementRef) (*math.Vec3, bool) {
	f, ok := s.Face(ref.FaceRef())
	if !ok || ref.Index < 0 || ref.Index > 3 {
		return nil, false
	}
	return &f.Positions[ref.Index], true
}

// Edge resolves an edge reference to its two endpoints.
func (s *Scene) Edge(ref ElementRef) (a, b math.Vec3, ok bool) {
	f, ok := s.Face(ref.FaceRef())
	if !ok || ref.Index < 0 || ref.Index > 3 {
		return a, b, false
	}
	i, j := Edge(ref.Index)
	return f.Positions[i], f.Positions[j], true
}

// Instance resolves an instance reference.
func (s *Scene) Instance(ref InstanceRef) (*Instance, bool) {
	o, ok := s.Object(ref.ObjectRef())
	if !ok || ref.Instance < 0 || ref.Instance >= len(o.Instances) {
		return nil, false
	}
	return &o.Instances[ref.Instance], true
}

// VisibleObjects calls fn for every object on a visible layer, in document order.
func (s *Scene) VisibleObjects(fn func(ref ObjectRef, o *Object)) {
	for li, l := range s.Layers {
		if !l.Visible {
			continue
		}
		for oi, o := range l.Objects {
			fn(ObjectRef{li, oi}, o)
		}
	}
}

// FaceCount returns the total number of faces in the scene.
func (s *Scene) FaceCount() int {
	n := 0
	for _, l := range s.Layers {
		for _, o := range l.Objects {
			n += len(o.Faces)
		}
	}
	return n
}

// InsertObject inserts o at index i (clamped to the end) and returns the index used.
func (l *Layer) InsertObject(i int, o *Object) int {
	i = min(max(i, 0), len(l.Objects))
	l.Objects = slices.Insert(l.Objects, i, o)
	return i
}

// RemoveObject removes and returns object i.
func (l *Layer) RemoveObject(i int) (*Object, bool) {
	if i < 0 || i >= len(l.Objects) {
		return nil, false
	}
	o := l.Objects[i]
	l.Objects = slices.Delete(l.Objects, i, i+1)
	return o, true
}

// InsertFace inserts f at index i (clamped to the end) and returns the index used.
func (o *Object) InsertFace(i int, f Face) int {
	i = min(max(i, 0), len(o.Faces))
	o.Faces = slices.Insert(o.Faces, i, f)
	return i
}

// RemoveFace removes and returns face i.
func (o *Object) RemoveFace(i int) (Face, bool) {
	if i < 0 || i >= len(o.Faces) {
		return Face{}, false
	}
	f := o.Faces[i]
	o.Faces = slices.Delete(o.Faces, i, i+1)
	return f, true
}

// AppendFaces appends faces to the end of the list.
func (o *Object) AppendFaces(faces ...Face) {
	o.Faces = append(o.Faces, faces...)
}

// PopFaces removes the last n faces and returns them in their original order.
func (o *Object) PopFaces(n int) []Face {
	n = min(max(n, 0), len(o.Faces))
	cut := len(o.Faces) - n
	popped := slices.Clone(o.Faces[cut:])
	o.Faces = o.Faces[:cut]
	return popped
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	dup := &Object{}
	if err := copier.CopyWithOption(dup, o, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("document: cloning object %q: %v", o.Name, err))
	}
	return dup
}

// Clone returns a deep copy of the layer and its objects.
func (l *Layer) Clone() *Layer {
	dup := &Layer{Name: l.Name, Visible: l.Visible}
	for _, o := range l.Objects {
		dup.Objects = append(dup.Objects, o.Clone())
	}
	return dup
}

// Clone returns a deep copy of the document without pending stale marks.
func (s *Scene) Clone() *Scene {
	dup := &Scene{Cursor: s.Cursor}
	for _, l := range s.Layers {
		dup.Layers = append(dup.Layers, l.Clone())
	}
	return dup
}
