package collide

import (
	"testing"

	"github.com/chazu/pipewright/pkg/backend"
	"github.com/chazu/pipewright/pkg/backend/facet"
	"github.com/chazu/pipewright/pkg/geom"
	"github.com/chazu/pipewright/pkg/mesh"
)

// boxAt builds a box volume of the given size centered at c.
func boxAt(t *testing.T, c geom.Vec3, sx, sy, sz float64) *Volume {
	t.Helper()
	m, err := facet.New().Box(sx, sy, sz)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	return NewVolume(m.Transform(geom.Translation(c)))
}

func TestOverlapsCrossingBoxes(t *testing.T) {
	a := boxAt(t, geom.Vec3{X: 0, Y: 0, Z: 0}, 2, 2, 2)
	b := boxAt(t, geom.Vec3{X: 1, Y: 0, Z: 0}, 2, 2, 2)
	if !a.Overlaps(b) {
		t.Error("crossing boxes should overlap")
	}
	if !b.Overlaps(a) {
		t.Error("overlap should be symmetric")
	}
}

func TestOverlapsDisjointBoxes(t *testing.T) {
	a := boxAt(t, geom.Vec3{X: 0, Y: 0, Z: 0}, 2, 2, 2)
	b := boxAt(t, geom.Vec3{X: 10, Y: 0, Z: 0}, 2, 2, 2)
	if a.Overlaps(b) {
		t.Error("disjoint boxes should not overlap")
	}
}

// TestContainedBoxDoesNotOverlap pins the surface-intersection semantics:
// a volume entirely inside another has no surface crossing, so a pipe
// fully inside the perimeter reports no perimeter collision.
func TestContainedBoxDoesNotOverlap(t *testing.T) {
	outer := boxAt(t, geom.Vec3{X: 0, Y: 0, Z: 0}, 10, 10, 10)
	inner := boxAt(t, geom.Vec3{X: 0, Y: 0, Z: 0}, 1, 1, 1)
	if outer.Overlaps(inner) {
		t.Error("contained box must not report a surface overlap")
	}
	if inner.Overlaps(outer) {
		t.Error("containment check should be symmetric")
	}
}

func TestOverlapsThinSlabCrossing(t *testing.T) {
	slab := boxAt(t, geom.Vec3{X: 0, Y: 0, Z: 0}, 100, 100, 0.01)
	rod := boxAt(t, geom.Vec3{X: 3, Y: 3, Z: 0}, 0.5, 0.5, 10)
	if !slab.Overlaps(rod) {
		t.Error("rod crossing a thin slab should overlap")
	}
}

func TestDegenerateVolumes(t *testing.T) {
	empty := NewVolume(&mesh.Mesh{})
	if !empty.IsEmpty() {
		t.Fatal("volume from empty mesh should be empty")
	}
	box := boxAt(t, geom.Vec3{}, 1, 1, 1)
	if empty.Overlaps(box) || box.Overlaps(empty) {
		t.Error("empty volume overlaps nothing")
	}
	var nilVol *Volume
	if nilVol.Overlaps(box) || box.Overlaps(nilVol) {
		t.Error("nil volume overlaps nothing")
	}
	if !nilVol.Bounds().IsEmpty() {
		t.Error("nil volume has empty bounds")
	}
}

func TestBoundsAndTriangleCount(t *testing.T) {
	v := boxAt(t, geom.Vec3{X: 5, Y: 0, Z: 0}, 2, 2, 2)
	if v.TriangleCount() != 12 {
		t.Errorf("triangle count = %d, want 12", v.TriangleCount())
	}
	b := v.Bounds()
	if b.Min.X != 4 || b.Max.X != 6 {
		t.Errorf("bounds X = %v..%v, want 4..6", b.Min.X, b.Max.X)
	}
}

// TestBVHLargeMesh exercises internal-node traversal with enough triangles
// to force a multi-level hierarchy.
func TestBVHLargeMesh(t *testing.T) {
	f := facet.NewWithSides(64)
	m, err := f.Cylinder(1, 20, backend.CapNone)
	if err != nil {
		t.Fatalf("cylinder: %v", err)
	}
	cyl := NewVolume(m)

	crossing := boxAt(t, geom.Vec3{X: 0, Y: 0, Z: 0}, 5, 5, 1)
	if !cyl.Overlaps(crossing) {
		t.Error("box through cylinder wall should overlap")
	}

	outside := boxAt(t, geom.Vec3{X: 30, Y: 0, Z: 0}, 1, 1, 1)
	if cyl.Overlaps(outside) {
		t.Error("distant box should not overlap cylinder")
	}
}

func TestTriTriCoplanar(t *testing.T) {
	t1 := triangle{geom.Vec3{X: 0, Y: 0, Z: 0}, geom.Vec3{X: 2, Y: 0, Z: 0}, geom.Vec3{X: 0, Y: 2, Z: 0}}
	t2 := triangle{geom.Vec3{X: 1, Y: 1, Z: 0}, geom.Vec3{X: 3, Y: 1, Z: 0}, geom.Vec3{X: 1, Y: 3, Z: 0}}
	if !triTriIntersect(t1, t2) {
		t.Error("overlapping coplanar triangles should intersect")
	}

	t3 := triangle{geom.Vec3{X: 10, Y: 10, Z: 0}, geom.Vec3{X: 12, Y: 10, Z: 0}, geom.Vec3{X: 10, Y: 12, Z: 0}}
	if triTriIntersect(t1, t3) {
		t.Error("distant coplanar triangles should not intersect")
	}

	// Containment without edge crossings.
	small := triangle{geom.Vec3{X: 0.2, Y: 0.2, Z: 0}, geom.Vec3{X: 0.4, Y: 0.2, Z: 0}, geom.Vec3{X: 0.2, Y: 0.4, Z: 0}}
	if !triTriIntersect(t1, small) {
		t.Error("contained coplanar triangle should intersect")
	}
}

func TestTriTriPiercing(t *testing.T) {
	flat := triangle{geom.Vec3{X: -1, Y: -1, Z: 0}, geom.Vec3{X: 1, Y: -1, Z: 0}, geom.Vec3{X: 0, Y: 1, Z: 0}}
	pierce := triangle{geom.Vec3{X: 0, Y: 0, Z: -1}, geom.Vec3{X: 0, Y: 0, Z: 1}, geom.Vec3{X: 0.2, Y: 0, Z: 1}}
	if !triTriIntersect(flat, pierce) {
		t.Error("piercing triangle should intersect")
	}

	above := triangle{geom.Vec3{X: 0, Y: 0, Z: 1}, geom.Vec3{X: 1, Y: 0, Z: 1}, geom.Vec3{X: 0, Y: 1, Z: 2}}
	if triTriIntersect(flat, above) {
		t.Error("triangle above the plane should not intersect")
	}
}
