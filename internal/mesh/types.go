// Package mesh turns document objects into triangle buffers ready for upload.
package mesh

// Vertex is one corner of a triangle with its face normal, tile UV and paint.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [4]float32
}

// Mesh holds the triangles of one object plus the world transforms of its
// instances.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	Bounds    Bounds
	Instances [][16]float32
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// TwoSided emits a reversed copy of every face so it renders from behind.
	TwoSided bool
	// SmoothNormals averages normals at shared corner positions.
	SmoothNormals bool
	// SkipDegenerate drops faces with coincident corners instead of
	// rendering them as triangles.
	SkipDegenerate bool
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}
