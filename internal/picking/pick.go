package picking

import (
	gomath "math"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

// Hit describes the nearest face under a ray.
type Hit struct {
	T        float32
	Position math.Vec3
	Normal   math.Vec3
	Ref      document.FaceRef
}

// PickFace returns the closest visible, non-hidden face hit by the ray.
// Ties keep the first face in document order.
func PickFace(r Ray, scene *document.Scene, cullBackfaces bool) (Hit, bool) {
	best := Hit{T: gomath.MaxFloat32}
	found := false

	scene.VisibleObjects(func(ref document.ObjectRef, o *document.Object) {
		box, ok := ObjectBounds(o)
		if !ok {
			return
		}
		if t, hit := r.EnterAABB(box.Expand(1e-4)); !hit || t > best.T {
			return
		}
		for fi := range o.Faces {
			f := &o.Faces[fi]
			if f.Hidden {
				continue
			}
			n := f.Normal()
			if cullBackfaces && n.Dot(r.Direction) > 0 {
				continue
			}
			t, hit := IntersectQuad(r, f.Positions)
			if !hit || t >= best.T {
				continue
			}
			best = Hit{
				T:        t,
				Position: r.At(t),
				Normal:   n,
				Ref:      document.FaceRef{Layer: ref.Layer, Object: ref.Object, Face: fi},
			}
			found = true
		}
	})
	return best, found
}

// ObjectBounds returns the bounding box of the object's non-hidden faces.
func ObjectBounds(o *document.Object) (AABB, bool) {
	var box AABB
	found := false
	for i := range o.Faces {
		f := &o.Faces[i]
		if f.Hidden {
			continue
		}
		lo, hi := f.Bounds()
		if !found {
			box = AABB{Min: lo, Max: hi}
			found = true
			continue
		}
		box.Min = box.Min.Min(lo)
		box.Max = box.Max.Max(hi)
	}
	return box, found
}
