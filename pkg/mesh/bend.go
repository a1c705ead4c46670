package mesh

import (
	"math"

	"github.com/chazu/pipewright/pkg/geom"
)

// Bend returns a copy of m deformed by wrapping its Z extent around an arc
// about the X axis, by the given total angle in radians. A cylinder bent by
// Pi/2 becomes a 90-degree elbow. The arc radius is chosen so the length of
// the center line is preserved. Angles near zero return an undeformed copy.
func Bend(m *Mesh, angle float64) *Mesh {
	if m.IsEmpty() || math.Abs(angle) < geom.Epsilon {
		return Merge(m)
	}

	bounds := m.Bounds()
	h := bounds.Max.Z - bounds.Min.Z
	if h < geom.Epsilon {
		return Merge(m)
	}
	zc := (bounds.Max.Z + bounds.Min.Z) / 2
	r := h / angle

	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
		Name:     m.Name,
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Vertex(i)
		phi := angle * (p.Z - zc) / h
		sin, cos := math.Sin(phi), math.Cos(phi)
		out.Vertices[i*3] = float32(p.X)
		out.Vertices[i*3+1] = float32((r+p.Y)*cos - r)
		out.Vertices[i*3+2] = float32((r + p.Y) * sin)

		// Rotate the normal into the local arc frame.
		if i*3+2 < len(m.Normals) {
			ny := float64(m.Normals[i*3+1])
			nz := float64(m.Normals[i*3+2])
			out.Normals[i*3] = m.Normals[i*3]
			out.Normals[i*3+1] = float32(ny*cos - nz*sin)
			out.Normals[i*3+2] = float32(ny*sin + nz*cos)
		}
	}
	return out
}
