package document

import "cmp"

// ObjectRef addresses an object inside a layer.
type ObjectRef struct {
	Layer, Object int
}

// FaceRef addresses a face inside an object.
type FaceRef struct {
	Layer, Object, Face int
}

// ElementRef addresses a corner or an edge (by its start corner) of a face.
type ElementRef struct {
	Layer, Object, Face, Index int
}

// InstanceRef addresses a placement instance of an object.
type InstanceRef struct {
	Layer, Object, Instance int
}

// ObjectRef returns the owning object.
func (r FaceRef) ObjectRef() ObjectRef {
	return ObjectRef{r.Layer, r.Object}
}

// Element returns the corner or edge i of this face.
func (r FaceRef) Element(i int) ElementRef {
	return ElementRef{r.Layer, r.Object, r.Face, i}
}

// FaceRef returns the owning face.
func (r ElementRef) FaceRef() FaceRef {
	return FaceRef{r.Layer, r.Object, r.Face}
}

// ObjectRef returns the owning object.
func (r ElementRef) ObjectRef() ObjectRef {
	return ObjectRef{r.Layer, r.Object}
}

// ObjectRef returns the owning object.
func (r InstanceRef) ObjectRef() ObjectRef {
	return ObjectRef{r.Layer, r.Object}
}

// CompareObjects orders object refs by layer, then object.
func CompareObjects(a, b ObjectRef) int {
	return cmp.Or(cmp.Compare(a.Layer, b.Layer), cmp.Compare(a.Object, b.Object))
}

// CompareFaces orders face refs by layer, object, then face.
func CompareFaces(a, b FaceRef) int {
	return cmp.Or(
		cmp.Compare(a.Layer, b.Layer),
		cmp.Compare(a.Object, b.Object),
		cmp.Compare(a.Face, b.Face),
	)
}

// CompareElements orders element refs by face, then index.
func CompareElements(a, b ElementRef) int {
	return cmp.Or(CompareFaces(a.FaceRef(), b.FaceRef()), cmp.Compare(a.Index, b.Index))
}

// CompareInstances orders instance refs by object, then instance.
func CompareInstances(a, b InstanceRef) int {
	return cmp.Or(CompareObjects(a.ObjectRef(), b.ObjectRef()), cmp.Compare(a.Instance, b.Instance))
}
