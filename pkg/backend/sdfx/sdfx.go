// Package sdfx implements the backend.Backend interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Primitives are modeled as
// signed distance fields and meshed with marching cubes.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/pipewright/pkg/backend"
	"github.com/chazu/pipewright/pkg/mesh"
)

// Compile-time interface check.
var _ backend.Backend = (*Sdfx)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 100

// Sdfx is the SDF-based backend.
type Sdfx struct {
	cells int
}

// New returns an Sdfx backend with the default resolution.
func New() *Sdfx {
	return &Sdfx{cells: defaultMeshCells}
}

// NewWithResolution returns an Sdfx backend with the given marching cubes
// cell count. Lower values tessellate faster and coarser.
func NewWithResolution(cells int) *Sdfx {
	if cells < 8 {
		cells = 8
	}
	return &Sdfx{cells: cells}
}

// Box returns a box mesh with the given extents, centered at the origin.
func (k *Sdfx) Box(x, y, z float64) (*mesh.Mesh, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("sdfx: box dimensions must be positive, got %gx%gx%g", x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return k.toMesh(s), nil
}

// Cylinder returns a cylinder mesh, axis along Z, centered at the origin.
// SDF solids are always closed surfaces, so the cap style is accepted but
// has no effect; open pipe ends only matter for shading, not collision.
func (k *Sdfx) Cylinder(radius, length float64, cap backend.CapStyle) (*mesh.Mesh, error) {
	if radius <= 0 || length <= 0 {
		return nil, fmt.Errorf("sdfx: cylinder radius and length must be positive, got r=%g l=%g", radius, length)
	}
	s, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return k.toMesh(s), nil
}

// toMesh converts an SDF to a triangle mesh using marching cubes.
func (k *Sdfx) toMesh(s sdf.SDF3) *mesh.Mesh {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(s, renderer)

	numVerts := len(triangles) * 3
	m := &mesh.Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, nx, ny, nz)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}
