// Package facet implements the backend.Backend interface with direct
// analytic tessellation. It produces exact, low-triangle-count meshes and
// has no external dependencies, which makes it the default backend for
// growth runs and for deterministic tests.
package facet

import (
	"fmt"
	"math"

	"github.com/chazu/pipewright/pkg/backend"
	"github.com/chazu/pipewright/pkg/mesh"
)

// Compile-time interface check.
var _ backend.Backend = (*Facet)(nil)

// defaultSides is the number of flat faces around a cylinder.
const defaultSides = 24

// Facet is the analytic tessellation backend.
type Facet struct {
	sides int
}

// New returns a Facet backend with the default cylinder resolution.
func New() *Facet {
	return &Facet{sides: defaultSides}
}

// NewWithSides returns a Facet backend tessellating cylinders with the
// given number of sides (minimum 3).
func NewWithSides(sides int) *Facet {
	if sides < 3 {
		sides = 3
	}
	return &Facet{sides: sides}
}

// builder accumulates flat-shaded triangle soup.
type builder struct {
	m mesh.Mesh
}

func (b *builder) tri(ax, ay, az, bx, by, bz, cx, cy, cz float64) {
	// Flat face normal from the triangle plane.
	ux, uy, uz := bx-ax, by-ay, bz-az
	vx, vy, vz := cx-ax, cy-ay, cz-az
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	l := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if l > 0 {
		nx, ny, nz = nx/l, ny/l, nz/l
	}
	base := uint32(b.m.VertexCount())
	b.m.Vertices = append(b.m.Vertices,
		float32(ax), float32(ay), float32(az),
		float32(bx), float32(by), float32(bz),
		float32(cx), float32(cy), float32(cz),
	)
	for i := 0; i < 3; i++ {
		b.m.Normals = append(b.m.Normals, float32(nx), float32(ny), float32(nz))
	}
	b.m.Indices = append(b.m.Indices, base, base+1, base+2)
}

// Box returns a 12-triangle box centered at the origin.
func (f *Facet) Box(x, y, z float64) (*mesh.Mesh, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("facet: box dimensions must be positive, got %gx%gx%g", x, y, z)
	}
	hx, hy, hz := x/2, y/2, z/2
	var b builder
	// -X / +X
	b.tri(-hx, -hy, -hz, -hx, -hy, hz, -hx, hy, hz)
	b.tri(-hx, -hy, -hz, -hx, hy, hz, -hx, hy, -hz)
	b.tri(hx, -hy, -hz, hx, hy, hz, hx, -hy, hz)
	b.tri(hx, -hy, -hz, hx, hy, -hz, hx, hy, hz)
	// -Y / +Y
	b.tri(-hx, -hy, -hz, hx, -hy, hz, -hx, -hy, hz)
	b.tri(-hx, -hy, -hz, hx, -hy, -hz, hx, -hy, hz)
	b.tri(-hx, hy, -hz, -hx, hy, hz, hx, hy, hz)
	b.tri(-hx, hy, -hz, hx, hy, hz, hx, hy, -hz)
	// -Z / +Z
	b.tri(-hx, -hy, -hz, -hx, hy, -hz, hx, hy, -hz)
	b.tri(-hx, -hy, -hz, hx, hy, -hz, hx, -hy, -hz)
	b.tri(-hx, -hy, hz, hx, hy, hz, -hx, hy, hz)
	b.tri(-hx, -hy, hz, hx, -hy, hz, hx, hy, hz)
	return &b.m, nil
}

// Cylinder returns a cylinder of the given radius and length, axis along
// Z, centered at the origin.
func (f *Facet) Cylinder(radius, length float64, cap backend.CapStyle) (*mesh.Mesh, error) {
	if radius <= 0 || length <= 0 {
		return nil, fmt.Errorf("facet: cylinder radius and length must be positive, got r=%g l=%g", radius, length)
	}
	hz := length / 2
	var b builder
	for i := 0; i < f.sides; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(f.sides)
		a1 := 2 * math.Pi * float64(i+1) / float64(f.sides)
		x0, y0 := radius*math.Cos(a0), radius*math.Sin(a0)
		x1, y1 := radius*math.Cos(a1), radius*math.Sin(a1)

		// Side quad, outward-facing.
		b.tri(x0, y0, -hz, x1, y1, -hz, x1, y1, hz)
		b.tri(x0, y0, -hz, x1, y1, hz, x0, y0, hz)

		if cap == backend.CapFlat {
			b.tri(0, 0, hz, x0, y0, hz, x1, y1, hz)
			b.tri(0, 0, -hz, x1, y1, -hz, x0, y0, -hz)
		}
	}
	return &b.m, nil
}
