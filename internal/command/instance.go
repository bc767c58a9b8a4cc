package command

import (
	"fmt"
	"slices"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/pkg/math"
)

// instanceTransform edits placement instances with a stored transform and
// undoes with its inverse.
type instanceTransform struct {
	desc    string
	targets []document.InstanceRef
	fwd     func(*document.Instance)
	inv     func(*document.Instance)
}

func (c *instanceTransform) Apply(scene *document.Scene) { c.run(scene, c.fwd) }
func (c *instanceTransform) Undo(scene *document.Scene)  { c.run(scene, c.inv) }
func (c *instanceTransform) Description() string         { return c.desc }

func (c *instanceTransform) run(scene *document.Scene, f func(*document.Instance)) {
	for _, ref := range c.targets {
		if inst, ok := scene.Instance(ref); ok {
			f(inst)
			scene.MarkStale(ref.ObjectRef())
		}
	}
}

func uniqueInstances(refs []document.InstanceRef) []document.InstanceRef {
	out := slices.Clone(refs)
	slices.SortFunc(out, document.CompareInstances)
	return slices.Compact(out)
}

func instanceDesc(verb string, n int) string {
	return fmt.Sprintf("%s %d %s", verb, n, plural(n, "instance", "instances"))
}

// InstanceTranslate moves instances by delta.
func InstanceTranslate(refs []document.InstanceRef, delta math.Vec3) Command {
	refs = uniqueInstances(refs)
	if len(refs) == 0 || delta == (math.Vec3{}) {
		return nil
	}
	return &instanceTransform{
		desc:    instanceDesc("Move", len(refs)),
		targets: refs,
		fwd:     func(i *document.Instance) { i.Position = i.Position.Add(delta) },
		inv:     func(i *document.Instance) { i.Position = i.Position.Sub(delta) },
	}
}

// InstanceRotate turns instances about axis through center, orbiting their
// positions and composing the rotation into their orientation.
func InstanceRotate(refs []document.InstanceRef, center, axis math.Vec3, angle float32) Command {
	refs = uniqueInstances(refs)
	if len(refs) == 0 || angle == 0 || axis.LengthSq() == 0 {
		return nil
	}
	axis = axis.Normalize()
	turn := func(i *document.Instance, a float32) {
		i.Position = i.Position.RotateAround(center, axis, a)
		i.Rotation = math.QuatFromAxisAngle(axis, a).Mul(i.Rotation).Normalize()
	}
	return &instanceTransform{
		desc:    instanceDesc("Rotate", len(refs)),
		targets: refs,
		fwd:     func(i *document.Instance) { turn(i, angle) },
		inv:     func(i *document.Instance) { turn(i, -angle) },
	}
}

// InstanceScale scales instances about center, both their offset from it and
// their own scale.
func InstanceScale(refs []document.InstanceRef, center, factor math.Vec3) Command {
	refs = uniqueInstances(refs)
	factor = ClampScale(factor)
	if len(refs) == 0 || factor == (math.Vec3{X: 1, Y: 1, Z: 1}) {
		return nil
	}
	inv := math.Vec3{X: 1 / factor.X, Y: 1 / factor.Y, Z: 1 / factor.Z}
	return &instanceTransform{
		desc:    instanceDesc("Scale", len(refs)),
		targets: refs,
		fwd: func(i *document.Instance) {
			i.Position = i.Position.ScaleAround(center, factor)
			i.Scale = i.Scale.Mul(factor)
		},
		inv: func(i *document.Instance) {
			i.Position = i.Position.ScaleAround(center, inv)
			i.Scale = i.Scale.Mul(inv)
		},
	}
}
