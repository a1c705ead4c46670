// Package backend defines the abstract geometry backend interface.
// Implementations (facet, sdfx) produce primitive triangle meshes behind
// this interface. The abstraction allows swapping tessellators without
// changing the rest of the system: the scene graph owns placement and the
// collision system owns queries, so a backend is only a mesh source.
package backend

import "github.com/chazu/pipewright/pkg/mesh"

// CapStyle selects how cylinder ends are closed.
type CapStyle int

const (
	// CapNone leaves the cylinder open (pipe bodies; ends are hidden by
	// elbows and joints).
	CapNone CapStyle = iota
	// CapFlat closes both ends with flat discs (detail rings).
	CapFlat
)

// Backend is the abstract geometry backend.
//
// Primitives are emitted in canonical object space: boxes centered at the
// origin, cylinders centered at the origin with their axis along +Z.
// Placement is the scene graph's job. A backend failure is a fatal
// configuration error, never an expected growth outcome.
type Backend interface {
	// Box returns a box mesh with the given extents, centered at the origin.
	Box(x, y, z float64) (*mesh.Mesh, error)
	// Cylinder returns a cylinder mesh of the given radius and length,
	// axis along Z, centered at the origin.
	Cylinder(radius, length float64, cap CapStyle) (*mesh.Mesh, error)
}
