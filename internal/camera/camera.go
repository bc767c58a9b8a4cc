// Package camera provides the editor's orbit camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/tileforge/internal/config"
	"github.com/Faultbox/tileforge/pkg/math"
)

// Orbit circles a center point at a distance, pitch and yaw.
type Orbit struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians above the ground plane
	Yaw      float32 // radians around +Y

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Projection
	FOV  float32 // vertical, radians
	Near float32
	Far  float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbit creates an orbit camera from viewport settings.
func NewOrbit(vp config.ViewportConfig) *Orbit {
	return &Orbit{
		Distance:        12,
		Pitch:           0.7,
		Yaw:             0.6,
		MinDistance:     1,
		MaxDistance:     vp.Far * 0.8,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FOV:             vp.FOV * gomath.Pi / 180,
		Near:            vp.Near,
		Far:             vp.Far,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() math.Vec3 {
	cp, sp := gomath.Cos(float64(c.Pitch)), gomath.Sin(float64(c.Pitch))
	cy, sy := gomath.Cos(float64(c.Yaw)), gomath.Sin(float64(c.Yaw))
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cp*sy),
		Y: c.Distance * float32(sp),
		Z: c.Distance * float32(cp*cy),
	})
}

// Forward returns the unit view direction.
func (c *Orbit) Forward() math.Vec3 {
	return c.Center.Sub(c.Position()).Normalize()
}

// ViewMatrix returns the view matrix for this camera.
func (c *Orbit) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.UnitY)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *Orbit) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProj returns projection * view for a screen of the given size.
func (c *Orbit) ViewProj(screen math.Vec2) math.Mat4 {
	aspect := float32(1)
	if screen.Y > 0 {
		aspect = screen.X / screen.Y
	}
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *Orbit) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = min(max(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// Pan moves the center on the ground plane relative to the current yaw.
// Speed scales with distance for a consistent feel.
func (c *Orbit) Pan(forward, right, up float32) {
	speed := c.Distance * 0.01
	sy, cy := float32(gomath.Sin(float64(c.Yaw))), float32(gomath.Cos(float64(c.Yaw)))

	c.Center.X += (-sy*forward + cy*right) * speed
	c.Center.Z += (-cy*forward - sy*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds centers the camera on a box and backs off far enough to see it.
func (c *Orbit) FitToBounds(lo, hi math.Vec3) {
	c.Center = lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo).Length()
	c.Distance = min(max(size*1.2, c.MinDistance), c.MaxDistance)
}
