package selection

import (
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/pkg/math"
)

// HandleClick picks the face under ray and records it at the current
// granularity. In vertex mode the corner nearest the hit point is recorded, in
// edge mode the edge whose midpoint is nearest. Non-additive clicks clear the
// selection first, so clicking empty space deselects everything.
func (s *Selection) HandleClick(r picking.Ray, scene *document.Scene, additive, cull bool) bool {
	if !additive {
		s.Clear()
	}
	hit, ok := picking.PickFace(r, scene, cull)
	if !ok {
		return false
	}
	face, _ := scene.Face(hit.Ref)

	switch s.Mode {
	case ModeObject:
		return s.AddObject(hit.Ref.ObjectRef())
	case ModeFace:
		return s.AddFace(hit.Ref)
	case ModeVertex:
		return s.AddVertex(hit.Ref.Element(nearestCorner(face, hit.Position)))
	case ModeEdge:
		return s.AddEdge(hit.Ref.Element(nearestEdge(face, hit.Position)))
	}
	return false
}

func nearestCorner(f *document.Face, p math.Vec3) int {
	best, bestDist := 0, f.Positions[0].DistanceSq(p)
	for i := 1; i < 4; i++ {
		if d := f.Positions[i].DistanceSq(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func nearestEdge(f *document.Face, p math.Vec3) int {
	best, bestDist := 0, f.EdgeMidpoint(0).DistanceSq(p)
	for i := 1; i < 4; i++ {
		if d := f.EdgeMidpoint(i).DistanceSq(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MarqueeSelect selects every element of the visible layers whose projected
// corners fall inside the screen rectangle spanned by rectMin and rectMax.
// Objects and faces need any corner inside, edges both endpoints, vertices
// themselves. Corners behind the camera never count as inside.
func (s *Selection) MarqueeSelect(scene *document.Scene, rectMin, rectMax math.Vec2, viewProj math.Mat4, screen math.Vec2, additive bool) {
	if !additive {
		s.Clear()
	}

	scene.VisibleObjects(func(oref document.ObjectRef, o *document.Object) {
		for fi := range o.Faces {
			f := &o.Faces[fi]
			if f.Hidden {
				continue
			}
			var inside [4]bool
			anyInside := false
			for c, p := range f.Positions {
				sp, ok := picking.ProjectToScreen(p, viewProj, screen)
				inside[c] = ok && picking.PointInRect(sp, rectMin, rectMax)
				anyInside = anyInside || inside[c]
			}

			fref := document.FaceRef{Layer: oref.Layer, Object: oref.Object, Face: fi}
			switch s.Mode {
			case ModeObject:
				if anyInside {
					s.AddObject(oref)
				}
			case ModeFace:
				if anyInside {
					s.AddFace(fref)
				}
			case ModeEdge:
				for e := range 4 {
					a, b := document.Edge(e)
					if inside[a] && inside[b] {
						s.AddEdge(fref.Element(e))
					}
				}
			case ModeVertex:
				for c := range 4 {
					if inside[c] {
						s.AddVertex(fref.Element(c))
					}
				}
			}
		}
	})
}
