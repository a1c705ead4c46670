// Package mesh defines the triangle mesh exchanged between the geometry
// backends, the scene graph, and the collision system. All arrays are flat:
// vertices has 3 floats per vertex (x,y,z), normals has 3 floats per vertex,
// indices has 3 uint32s per triangle.
package mesh

import (
	"github.com/chazu/pipewright/pkg/geom"
)

// Mesh is a triangle mesh. Backends emit flat-shaded triangle soup
// (vertices duplicated per triangle, sequential indices), but consumers
// must not rely on that and should always walk Indices.
type Mesh struct {
	Vertices []float32 // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 // [nx0,ny0,nz0, ...]
	Indices  []uint32  // [i0,i1,i2, ...] triangles
	Name     string    // which scene object this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0 || len(m.Indices) == 0
}

// Vertex returns the i-th vertex position.
func (m *Mesh) Vertex(i int) geom.Vec3 {
	return geom.Vec3{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// Triangle returns the corner positions of the i-th triangle.
func (m *Mesh) Triangle(i int) (a, b, c geom.Vec3) {
	return m.Vertex(int(m.Indices[i*3])),
		m.Vertex(int(m.Indices[i*3+1])),
		m.Vertex(int(m.Indices[i*3+2]))
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() geom.AABB {
	b := geom.EmptyAABB()
	if m == nil {
		return b
	}
	for i := 0; i < m.VertexCount(); i++ {
		b = b.Extend(m.Vertex(i))
	}
	return b
}

// Transform returns a copy of m with every vertex transformed by world.
// Normals are rotated by the linear part of the transform without
// renormalization; collision ignores normals and shading tolerates the
// residual scale.
func (m *Mesh) Transform(world geom.Mat4) *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
		Name:     m.Name,
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := world.Apply(m.Vertex(i))
		out.Vertices[i*3] = float32(p.X)
		out.Vertices[i*3+1] = float32(p.Y)
		out.Vertices[i*3+2] = float32(p.Z)
	}
	// Rotate normals with the translation zeroed out.
	linear := world
	linear[3], linear[7], linear[11] = 0, 0, 0
	for i := 0; i*3+2 < len(m.Normals); i++ {
		n := geom.Vec3{
			X: float64(m.Normals[i*3]),
			Y: float64(m.Normals[i*3+1]),
			Z: float64(m.Normals[i*3+2]),
		}
		n = linear.Apply(n)
		out.Normals[i*3] = float32(n.X)
		out.Normals[i*3+1] = float32(n.Y)
		out.Normals[i*3+2] = float32(n.Z)
	}
	return out
}

// Merge concatenates meshes into a single mesh, remapping indices.
// Nil and empty meshes are skipped.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range meshes {
		if m.IsEmpty() {
			continue
		}
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
		if out.Name == "" {
			out.Name = m.Name
		}
	}
	return out
}
