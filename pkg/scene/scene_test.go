package scene

import (
	"math"
	"testing"

	"github.com/chazu/pipewright/pkg/geom"
	"github.com/chazu/pipewright/pkg/mesh"
)

func tri() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
}

func near(a, b geom.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestWorldComposesThroughParents(t *testing.T) {
	anchor := NewEmpty("anchor", geom.Vec3{X: 0, Y: 0, Z: 10})
	child := New("child", tri())
	anchor.Attach(child)
	child.Translate(geom.Vec3{X: 1, Y: 0, Z: 0}, Local)

	got := child.World().Apply(geom.Vec3{X: 0, Y: 0, Z: 0})
	if !near(got, geom.Vec3{X: 1, Y: 0, Z: 10}, 1e-12) {
		t.Errorf("world origin = %v, want (1,0,10)", got)
	}
}

func TestLocalTranslateFollowsRotation(t *testing.T) {
	o := New("o", nil)
	o.Rotate(geom.AxisZ, geom.Radians(90), Local)
	o.Translate(geom.Vec3{X: 1, Y: 0, Z: 0}, Local) // along own X, which now points at +Y

	got := o.World().Apply(geom.Vec3{X: 0, Y: 0, Z: 0})
	if !near(got, geom.Vec3{X: 0, Y: 1, Z: 0}, 1e-12) {
		t.Errorf("origin after local translate = %v, want (0,1,0)", got)
	}
}

func TestLocalRotatePreservesPosition(t *testing.T) {
	o := New("o", nil)
	o.Translate(geom.Vec3{X: 3, Y: 4, Z: 5}, Local)
	o.Rotate(geom.AxisX, geom.Radians(90), Local)

	got := o.World().Apply(geom.Vec3{X: 0, Y: 0, Z: 0})
	if !near(got, geom.Vec3{X: 3, Y: 4, Z: 5}, 1e-12) {
		t.Errorf("local rotate moved the origin to %v", got)
	}
}

func TestGlobalTranslateIgnoresRotation(t *testing.T) {
	o := New("o", nil)
	o.Rotate(geom.AxisZ, geom.Radians(90), Local)
	o.Translate(geom.Vec3{X: 1, Y: 0, Z: 0}, Global)

	got := o.World().Apply(geom.Vec3{X: 0, Y: 0, Z: 0})
	if !near(got, geom.Vec3{X: 1, Y: 0, Z: 0}, 1e-12) {
		t.Errorf("origin after global translate = %v, want (1,0,0)", got)
	}
}

func TestAttachReparents(t *testing.T) {
	a := NewEmpty("a", geom.Vec3{})
	b := NewEmpty("b", geom.Vec3{})
	c := New("c", nil)

	a.Attach(c)
	if c.Parent() != a || len(a.Children()) != 1 {
		t.Fatal("attach to a failed")
	}
	b.Attach(c)
	if c.Parent() != b {
		t.Error("attach should reparent")
	}
	if len(a.Children()) != 0 {
		t.Error("old parent should no longer list the child")
	}
}

func TestDeleteSubtree(t *testing.T) {
	root := NewEmpty("root", geom.Vec3{})
	seg := New("seg", tri())
	elbow := New("elbow", tri())
	root.Attach(seg)
	seg.Attach(elbow)

	seg.DeleteSubtree()
	if len(root.Children()) != 0 {
		t.Error("deleted subtree still attached to root")
	}
	if elbow.Parent() != nil {
		t.Error("descendant of deleted subtree still has a parent")
	}
}

func TestWorldMeshRecursive(t *testing.T) {
	root := New("root", tri())
	child := New("child", tri())
	root.Attach(child)
	child.Translate(geom.Vec3{X: 0, Y: 0, Z: 5}, Local)

	m := root.WorldMeshRecursive()
	if m.TriangleCount() != 2 {
		t.Fatalf("recursive mesh triangles = %d, want 2", m.TriangleCount())
	}
	if b := m.Bounds(); b.Max.Z != 5 {
		t.Errorf("recursive mesh bounds max Z = %v, want 5", b.Max.Z)
	}

	// Meshless anchors contribute nothing but don't break merging.
	anchor := NewEmpty("anchor", geom.Vec3{X: 1, Y: 1, Z: 1})
	if got := anchor.WorldMesh(); !got.IsEmpty() {
		t.Error("anchor world mesh should be empty")
	}
}

func TestAssignMaterial(t *testing.T) {
	mat := &Material{Name: "pipe-0", Metallic: 1, Roughness: 0.2}
	o := New("o", tri()).Assign(mat)
	if o.Material != mat {
		t.Error("material not assigned")
	}
}
