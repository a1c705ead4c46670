package facet

import (
	"math"
	"testing"

	"github.com/chazu/pipewright/pkg/backend"
)

func TestBox(t *testing.T) {
	f := New()
	m, err := f.Box(2, 4, 6)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	if m.TriangleCount() != 12 {
		t.Fatalf("box triangle count = %d, want 12", m.TriangleCount())
	}
	b := m.Bounds()
	if b.Min.X != -1 || b.Max.X != 1 || b.Min.Y != -2 || b.Max.Y != 2 || b.Min.Z != -3 || b.Max.Z != 3 {
		t.Errorf("box bounds = %v..%v", b.Min, b.Max)
	}
	if len(m.Vertices) != len(m.Normals) {
		t.Errorf("vertices length %d != normals length %d", len(m.Vertices), len(m.Normals))
	}
}

func TestBoxInvalid(t *testing.T) {
	f := New()
	if _, err := f.Box(0, 1, 1); err == nil {
		t.Error("expected error for zero dimension")
	}
	if _, err := f.Box(1, -2, 1); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestCylinderOpen(t *testing.T) {
	f := NewWithSides(16)
	m, err := f.Cylinder(1, 10, backend.CapNone)
	if err != nil {
		t.Fatalf("Cylinder failed: %v", err)
	}
	// Open cylinder: 2 triangles per side, no caps.
	if m.TriangleCount() != 32 {
		t.Errorf("open cylinder triangles = %d, want 32", m.TriangleCount())
	}
	b := m.Bounds()
	if math.Abs(b.Max.Z-5) > 1e-6 || math.Abs(b.Min.Z+5) > 1e-6 {
		t.Errorf("cylinder Z extent = %v..%v, want -5..5", b.Min.Z, b.Max.Z)
	}
	if b.Max.X > 1+1e-6 || b.Max.X < 0.9 {
		t.Errorf("cylinder radius extent = %v", b.Max.X)
	}
}

func TestCylinderCapped(t *testing.T) {
	f := NewWithSides(16)
	m, err := f.Cylinder(1, 2, backend.CapFlat)
	if err != nil {
		t.Fatalf("Cylinder failed: %v", err)
	}
	// Capped: 2 side + 2 cap triangles per side.
	if m.TriangleCount() != 64 {
		t.Errorf("capped cylinder triangles = %d, want 64", m.TriangleCount())
	}
}

func TestCylinderInvalid(t *testing.T) {
	f := New()
	if _, err := f.Cylinder(0, 1, backend.CapNone); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := f.Cylinder(1, 0, backend.CapNone); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestMinimumSides(t *testing.T) {
	f := NewWithSides(1)
	m, err := f.Cylinder(1, 1, backend.CapNone)
	if err != nil {
		t.Fatalf("Cylinder failed: %v", err)
	}
	if m.TriangleCount() != 6 {
		t.Errorf("sides clamped to 3 should give 6 triangles, got %d", m.TriangleCount())
	}
}
