package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/logger"
)

// Cache keeps one built mesh per object and rebuilds the stale ones.
type Cache struct {
	Options BuildOptions

	meshes map[document.ObjectRef]*Mesh
	log    *zap.Logger
}

// NewCache returns an empty cache building with opts.
func NewCache(opts BuildOptions) *Cache {
	return &Cache{
		Options: opts,
		meshes:  make(map[document.ObjectRef]*Mesh),
		log:     logger.Named("mesh"),
	}
}

// Rebuild refreshes the meshes of refs. Objects that no longer exist, sit on a
// hidden layer or have nothing visible are evicted.
func (c *Cache) Rebuild(scene *document.Scene, refs []document.ObjectRef) {
	built, evicted := 0, 0
	for _, ref := range refs {
		var m *Mesh
		if l, ok := scene.Layer(ref.Layer); ok && l.Visible {
			if o, ok := scene.Object(ref); ok {
				m = Build(o, c.Options)
			}
		}
		if m == nil {
			if _, had := c.meshes[ref]; had {
				evicted++
			}
			delete(c.meshes, ref)
			continue
		}
		c.meshes[ref] = m
		built++
	}
	c.log.Debug("meshes rebuilt",
		zap.Int("built", built),
		zap.Int("evicted", evicted),
		zap.Int("cached", len(c.meshes)))
}

// RebuildAll discards the cache and builds every object in the scene.
func (c *Cache) RebuildAll(scene *document.Scene) {
	clear(c.meshes)
	var refs []document.ObjectRef
	scene.VisibleObjects(func(ref document.ObjectRef, _ *document.Object) {
		refs = append(refs, ref)
	})
	c.Rebuild(scene, refs)
}

// Get returns the cached mesh of ref.
func (c *Cache) Get(ref document.ObjectRef) (*Mesh, bool) {
	m, ok := c.meshes[ref]
	return m, ok
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	return len(c.meshes)
}

// Triangles returns the triangle count across all cached meshes, counting
// each instance as a separate copy.
func (c *Cache) Triangles() int {
	total := 0
	for _, m := range c.meshes {
		total += m.TriangleCount() * max(1, len(m.Instances))
	}
	return total
}
