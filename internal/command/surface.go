package command

import (
	"fmt"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

// flip reverses face winding. Flipping is its own inverse.
type flip struct {
	faces []document.FaceRef
}

// Flip reverses the winding of each face.
func Flip(faces []document.FaceRef) Command {
	faces = uniqueFaces(faces)
	if len(faces) == 0 {
		return nil
	}
	return &flip{faces: faces}
}

func (c *flip) Apply(scene *document.Scene) {
	for _, ref := range c.faces {
		if f, ok := scene.Face(ref); ok {
			f.Flip()
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

func (c *flip) Undo(scene *document.Scene) { c.Apply(scene) }

func (c *flip) Description() string {
	return fmt.Sprintf("Flip %d %s", len(c.faces), plural(len(c.faces), "face", "faces"))
}

// faceEdit overwrites whole faces. The edited values are computed on the
// first Apply; later applies and undos write captured values back verbatim.
type faceEdit struct {
	desc    string
	targets []document.FaceRef
	edit    func(ref document.FaceRef, f *document.Face)

	resolved bool
	live     []document.FaceRef
	prev     []document.Face
	next     []document.Face
}

func (c *faceEdit) Apply(scene *document.Scene) {
	if !c.resolved {
		for _, ref := range c.targets {
			f, ok := scene.Face(ref)
			if !ok {
				continue
			}
			g := *f
			c.edit(ref, &g)
			c.live = append(c.live, ref)
			c.prev = append(c.prev, *f)
			c.next = append(c.next, g)
		}
		c.resolved = true
	}
	c.write(scene, c.next)
}

func (c *faceEdit) Undo(scene *document.Scene) { c.write(scene, c.prev) }
func (c *faceEdit) Description() string        { return c.desc }

func (c *faceEdit) write(scene *document.Scene, faces []document.Face) {
	for i, ref := range c.live {
		if f, ok := scene.Face(ref); ok {
			*f = faces[i]
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

func newFaceEdit(desc string, faces []document.FaceRef, edit func(document.FaceRef, *document.Face)) Command {
	faces = uniqueFaces(faces)
	if len(faces) == 0 {
		return nil
	}
	return &faceEdit{desc: desc, targets: faces, edit: edit}
}

// Paint blends color into the target corners: old*(1-opacity) + color*opacity.
// Opacity is clamped to [0,1]; zero opacity is no edit.
func Paint(corners []document.ElementRef, color math.Vec4, opacity float32) Command {
	opacity = min(max(opacity, 0), 1)
	if opacity == 0 {
		return nil
	}
	mask := make(map[document.FaceRef][4]bool)
	var faces []document.FaceRef
	for _, ref := range corners {
		if ref.Index < 0 || ref.Index > 3 {
			continue
		}
		m := mask[ref.FaceRef()]
		m[ref.Index] = true
		mask[ref.FaceRef()] = m
		faces = append(faces, ref.FaceRef())
	}
	return newFaceEdit(fmt.Sprintf("Paint %d corners", len(corners)), faces, func(ref document.FaceRef, f *document.Face) {
		for i, on := range mask[ref] {
			if on {
				f.Colors[i] = blend(f.Colors[i], color, opacity)
			}
		}
	})
}

func blend(old, color math.Vec4, a float32) math.Vec4 {
	if a >= 1 {
		return color
	}
	var out math.Vec4
	for i := range out {
		out[i] = old[i]*(1-a) + color[i]*a
	}
	return out
}

// TileRect is a region of the tile atlas in UV space.
type TileRect struct {
	Min, Max math.Vec2
}

// FullTile covers the whole atlas.
var FullTile = TileRect{Max: math.Vec2{X: 1, Y: 1}}

// UVs returns the corner UVs of rect in the default corner layout.
func (r TileRect) UVs() [4]math.Vec2 {
	size := r.Max.Sub(r.Min)
	var out [4]math.Vec2
	for i, uv := range document.DefaultUVs {
		out[i] = r.Min.Add(uv.Mul(size))
	}
	return out
}

// Retile maps each face's corners onto rect.
func Retile(faces []document.FaceRef, rect TileRect) Command {
	uvs := rect.UVs()
	return newFaceEdit(fmt.Sprintf("Retile %d %s", len(faces), plural(len(faces), "face", "faces")), faces,
		func(_ document.FaceRef, f *document.Face) {
			f.UVs = uvs
		})
}

// UVOpKind selects a UV manipulation.
type UVOpKind int

const (
	UVRotate90 UVOpKind = iota
	UVFlipU
	UVFlipV
	UVOffset
	UVScale
)

// UVOp is a UV manipulation. Amount is the offset or the scale factor; the
// rotate and flip kinds pivot on the centre of the face's UVs.
type UVOp struct {
	Kind   UVOpKind
	Amount math.Vec2
}

// TransformUVs applies op to every face's UVs.
func TransformUVs(faces []document.FaceRef, op UVOp) Command {
	if (op.Kind == UVOffset && op.Amount == (math.Vec2{})) ||
		(op.Kind == UVScale && op.Amount == (math.Vec2{X: 1, Y: 1})) {
		return nil
	}
	return newFaceEdit(fmt.Sprintf("Transform UVs of %d %s", len(faces), plural(len(faces), "face", "faces")), faces,
		func(_ document.FaceRef, f *document.Face) {
			var pivot math.Vec2
			for _, uv := range f.UVs {
				pivot = pivot.Add(uv)
			}
			pivot = pivot.Scale(0.25)
			for i, uv := range f.UVs {
				switch op.Kind {
				case UVRotate90:
					f.UVs[i] = uv.Rotate90(pivot)
				case UVFlipU:
					f.UVs[i].X = 2*pivot.X - uv.X
				case UVFlipV:
					f.UVs[i].Y = 2*pivot.Y - uv.Y
				case UVOffset:
					f.UVs[i] = uv.Add(op.Amount)
				case UVScale:
					f.UVs[i] = pivot.Add(uv.Sub(pivot).Mul(op.Amount))
				}
			}
		})
}

// SetHidden shows or hides faces.
func SetHidden(faces []document.FaceRef, hidden bool) Command {
	verb := "Unhide"
	if hidden {
		verb = "Hide"
	}
	return newFaceEdit(fmt.Sprintf("%s %d %s", verb, len(faces), plural(len(faces), "face", "faces")), faces,
		func(_ document.FaceRef, f *document.Face) {
			f.Hidden = hidden
		})
}

// FlattenUVs projects each face's corners onto the plane facing its dominant
// normal axis, one UV unit per cell.
func FlattenUVs(faces []document.FaceRef, cell float32) Command {
	if cell <= 0 {
		cell = 1
	}
	return newFaceEdit(fmt.Sprintf("Flatten UVs of %d %s", len(faces), plural(len(faces), "face", "faces")), faces,
		func(_ document.FaceRef, f *document.Face) {
			axis := f.Normal().DominantAxis()
			for i, p := range f.Positions {
				f.UVs[i] = planarUV(p, axis).Scale(1 / cell)
			}
		})
}

func planarUV(p math.Vec3, axis int) math.Vec2 {
	switch axis {
	case 0:
		return math.Vec2{X: p.Z, Y: -p.Y}
	case 1:
		return math.Vec2{X: p.X, Y: p.Z}
	}
	return math.Vec2{X: p.X, Y: -p.Y}
}
