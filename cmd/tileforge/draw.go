package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/editor"
	"github.com/Faultbox/tileforge/internal/gizmo"
	"github.com/Faultbox/tileforge/internal/mesh"
	"github.com/Faultbox/tileforge/internal/picking"
	"github.com/Faultbox/tileforge/pkg/math"
)

type rgb [3]uint8

var (
	colorBackground = rgb{26, 26, 38}
	colorGrid       = rgb{50, 50, 64}
	colorMesh       = rgb{170, 170, 185}
	colorSelected   = rgb{255, 160, 40}
	colorCursor     = rgb{90, 200, 255}
	colorAxes       = [3]rgb{{220, 60, 60}, {60, 220, 60}, {60, 110, 230}}
	colorHovered    = rgb{255, 255, 120}
)

const gridExtent = 16

// canvas draws world-space lines as a wireframe, keeping the first error.
type canvas struct {
	r    *sdl.Renderer
	view gizmo.View
	err  error
}

func (c *canvas) color(col rgb) {
	if c.err == nil {
		c.err = c.r.SetDrawColor(col[0], col[1], col[2], 255)
	}
}

func (c *canvas) line(a, b math.Vec3) {
	if c.err != nil {
		return
	}
	sa, okA := picking.ProjectToScreen(a, c.view.ViewProj, c.view.Screen)
	sb, okB := picking.ProjectToScreen(b, c.view.ViewProj, c.view.Screen)
	if !okA || !okB {
		return
	}
	c.err = c.r.DrawLine(int32(sa.X), int32(sa.Y), int32(sb.X), int32(sb.Y))
}

func (c *canvas) quad(p [4]math.Vec3) {
	for i := 0; i < 4; i++ {
		a, b := document.Edge(i)
		c.line(p[a], p[b])
	}
}

func draw(r *sdl.Renderer, s *editor.Session, cache *mesh.Cache, screen math.Vec2) error {
	c := &canvas{r: r, view: s.View(screen)}

	c.color(colorBackground)
	if c.err == nil {
		c.err = r.Clear()
	}

	drawGrid(c, s.Scene.Cursor)
	drawMeshes(c, s.Scene, cache)
	drawSelection(c, s)
	if s.Tool == editor.ToolPlace {
		cur := s.Scene.Cursor
		p, g := cur.Position, cur.GridSize
		c.color(colorCursor)
		c.quad([4]math.Vec3{p, p.Add(math.Vec3{Z: g}), p.Add(math.Vec3{X: g, Z: g}), p.Add(math.Vec3{X: g})})
	}
	return c.err
}

func drawGrid(c *canvas, cur document.Cursor) {
	g := cur.GridSize
	y := cur.Position.Y
	span := float32(gridExtent) * g
	c.color(colorGrid)
	for i := -gridExtent; i <= gridExtent; i++ {
		o := float32(i) * g
		c.line(math.Vec3{X: o, Y: y, Z: -span}, math.Vec3{X: o, Y: y, Z: span})
		c.line(math.Vec3{X: -span, Y: y, Z: o}, math.Vec3{X: span, Y: y, Z: o})
	}
}

func drawMeshes(c *canvas, scene *document.Scene, cache *mesh.Cache) {
	c.color(colorMesh)
	scene.VisibleObjects(func(ref document.ObjectRef, _ *document.Object) {
		m, ok := cache.Get(ref)
		if !ok {
			return
		}
		drawTriangles(c, m, nil)
		for _, inst := range m.Instances {
			xf := math.Mat4(inst)
			drawTriangles(c, m, &xf)
		}
	})
}

func drawTriangles(c *canvas, m *mesh.Mesh, xf *math.Mat4) {
	pos := func(i uint32) math.Vec3 {
		p := m.Vertices[i].Position
		v := math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		if xf != nil {
			v = xf.TransformVec3(v)
		}
		return v
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, d := pos(m.Indices[t]), pos(m.Indices[t+1]), pos(m.Indices[t+2])
		c.line(a, b)
		c.line(b, d)
		c.line(d, a)
	}
}

func drawSelection(c *canvas, s *editor.Session) {
	if s.Selection.IsEmpty() {
		return
	}
	c.color(colorSelected)
	for _, ref := range s.Selection.FaceTargets(s.Scene) {
		if f, ok := s.Scene.Face(ref); ok && !f.Hidden {
			c.quad(f.Positions)
		}
	}
	if s.Tool != editor.ToolSelect {
		return
	}

	center := s.Selection.Centroid(s.Scene)
	length := s.Gizmo.Length(c.view, center)
	for i := 0; i < 3; i++ {
		h := gizmo.HandleX + gizmo.Handle(i)
		col := colorAxes[i]
		if s.Gizmo.Hovered() == h {
			col = colorHovered
		}
		c.color(col)
		c.line(center, center.Add(math.Axis(i).Scale(length)))
	}
}
