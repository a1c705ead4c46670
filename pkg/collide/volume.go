// Package collide implements the spatial collision index and the obstacle
// registry used to gate pipe growth. A Volume wraps a world-space triangle
// mesh in a bounding-volume hierarchy supporting pairwise overlap tests;
// the Registry classifies candidate geometry against accumulated obstacles
// and the run perimeter.
package collide

import (
	"sort"

	"github.com/chazu/pipewright/pkg/geom"
	"github.com/chazu/pipewright/pkg/mesh"
)

// leafSize is the maximum number of triangles in a BVH leaf.
const leafSize = 4

type triangle struct {
	a, b, c geom.Vec3
}

func (t triangle) bounds() geom.AABB {
	return geom.EmptyAABB().Extend(t.a).Extend(t.b).Extend(t.c)
}

func (t triangle) centroid() geom.Vec3 {
	return t.a.Add(t.b).Add(t.c).Scale(1.0 / 3.0)
}

// bvhNode is one node of the hierarchy. Leaves reference a contiguous
// triangle range; internal nodes reference two children.
type bvhNode struct {
	bounds      geom.AABB
	left, right int // child node indices, -1 for leaves
	start, n    int // triangle range for leaves
}

// Volume is an immutable bounding-volume hierarchy over the triangles of a
// world-space mesh. A Volume built from a zero-triangle mesh is valid and
// overlaps nothing.
type Volume struct {
	tris   []triangle
	nodes  []bvhNode
	bounds geom.AABB
}

// NewVolume builds a Volume from a world-space mesh. The mesh is read
// once and not retained; the Volume never changes afterwards.
func NewVolume(m *mesh.Mesh) *Volume {
	v := &Volume{bounds: geom.EmptyAABB()}
	if m.IsEmpty() {
		return v
	}
	v.tris = make([]triangle, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		v.tris = append(v.tris, triangle{a, b, c})
	}
	v.build(0, len(v.tris))
	v.bounds = v.nodes[0].bounds
	return v
}

// IsEmpty reports whether the volume contains no triangles.
func (v *Volume) IsEmpty() bool {
	return v == nil || len(v.tris) == 0
}

// Bounds returns the world-space bounding box of the volume.
func (v *Volume) Bounds() geom.AABB {
	if v == nil {
		return geom.EmptyAABB()
	}
	return v.bounds
}

// TriangleCount returns the number of triangles in the volume.
func (v *Volume) TriangleCount() int {
	if v == nil {
		return 0
	}
	return len(v.tris)
}

// build constructs the hierarchy over tris[start:end) and returns the new
// node's index. Triangles are partitioned in place by centroid along the
// longest axis of their combined bounds.
func (v *Volume) build(start, end int) int {
	bounds := geom.EmptyAABB()
	for i := start; i < end; i++ {
		bounds = bounds.Union(v.tris[i].bounds())
	}

	idx := len(v.nodes)
	v.nodes = append(v.nodes, bvhNode{bounds: bounds, left: -1, right: -1, start: start, n: end - start})

	if end-start <= leafSize {
		return idx
	}

	axis := bounds.LongestAxis()
	sub := v.tris[start:end]
	sort.Slice(sub, func(i, j int) bool {
		return sub[i].centroid().Component(axis) < sub[j].centroid().Component(axis)
	})
	mid := start + (end-start)/2

	left := v.build(start, mid)
	right := v.build(mid, end)
	v.nodes[idx].left = left
	v.nodes[idx].right = right
	v.nodes[idx].n = 0
	return idx
}

// Overlaps reports whether any triangle of v intersects any triangle of o.
// No contact detail is produced. Either volume may be empty, in which case
// the result is false.
func (v *Volume) Overlaps(o *Volume) bool {
	if v.IsEmpty() || o.IsEmpty() {
		return false
	}

	type pair struct{ a, b int }
	stack := []pair{{0, 0}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		na := v.nodes[p.a]
		nb := o.nodes[p.b]
		if !na.bounds.Intersects(nb.bounds) {
			continue
		}

		aLeaf := na.left < 0
		bLeaf := nb.left < 0
		switch {
		case aLeaf && bLeaf:
			for i := na.start; i < na.start+na.n; i++ {
				for j := nb.start; j < nb.start+nb.n; j++ {
					if triTriIntersect(v.tris[i], o.tris[j]) {
						return true
					}
				}
			}
		case aLeaf:
			stack = append(stack, pair{p.a, nb.left}, pair{p.a, nb.right})
		case bLeaf:
			stack = append(stack, pair{na.left, p.b}, pair{na.right, p.b})
		default:
			// Split the larger node to keep the descent balanced.
			if na.bounds.Size().Length() >= nb.bounds.Size().Length() {
				stack = append(stack, pair{na.left, p.b}, pair{na.right, p.b})
			} else {
				stack = append(stack, pair{p.a, nb.left}, pair{p.a, nb.right})
			}
		}
	}
	return false
}
