package collide

import (
	"math"

	"github.com/chazu/pipewright/pkg/geom"
)

// Triangle-triangle intersection after Möller's interval method
// ("A Fast Triangle-Triangle Intersection Test", 1997): reject when one
// triangle lies strictly on one side of the other's plane, otherwise
// compare the intervals both triangles cut out of the plane-intersection
// line. The coplanar case falls back to 2D edge and containment tests.

const triEps = 1e-12

// triTriIntersect reports whether triangles t1 and t2 intersect, touching
// included.
func triTriIntersect(t1, t2 triangle) bool {
	// Plane of t2.
	n2 := t2.b.Sub(t2.a).Cross(t2.c.Sub(t2.a))
	d2 := -n2.Dot(t2.a)

	dp1 := n2.Dot(t1.a) + d2
	dq1 := n2.Dot(t1.b) + d2
	dr1 := n2.Dot(t1.c) + d2
	dp1, dq1, dr1 = flushEps(dp1), flushEps(dq1), flushEps(dr1)
	if (dp1 > 0 && dq1 > 0 && dr1 > 0) || (dp1 < 0 && dq1 < 0 && dr1 < 0) {
		return false
	}

	// Plane of t1.
	n1 := t1.b.Sub(t1.a).Cross(t1.c.Sub(t1.a))
	d1 := -n1.Dot(t1.a)

	dp2 := n1.Dot(t2.a) + d1
	dq2 := n1.Dot(t2.b) + d1
	dr2 := n1.Dot(t2.c) + d1
	dp2, dq2, dr2 = flushEps(dp2), flushEps(dq2), flushEps(dr2)
	if (dp2 > 0 && dq2 > 0 && dr2 > 0) || (dp2 < 0 && dq2 < 0 && dr2 < 0) {
		return false
	}

	if dp1 == 0 && dq1 == 0 && dr1 == 0 {
		return coplanarTriTri(t1, t2, n2)
	}

	// Direction of the intersection line of the two planes; project onto
	// its dominant axis.
	dir := n1.Cross(n2)
	axis := dominantAxis(dir)

	i1lo, i1hi, ok1 := triInterval(
		t1.a.Component(axis), t1.b.Component(axis), t1.c.Component(axis),
		dp1, dq1, dr1)
	i2lo, i2hi, ok2 := triInterval(
		t2.a.Component(axis), t2.b.Component(axis), t2.c.Component(axis),
		dp2, dq2, dr2)
	if !ok1 || !ok2 {
		// One of the triangles degenerates onto the plane despite the
		// distance screen; treat as coplanar.
		return coplanarTriTri(t1, t2, n2)
	}

	return math.Max(i1lo, i2lo) <= math.Min(i1hi, i2hi)+triEps
}

// flushEps snaps near-zero plane distances to exactly zero so the interval
// selection below sees consistent signs.
func flushEps(d float64) float64 {
	if math.Abs(d) < triEps {
		return 0
	}
	return d
}

func dominantAxis(v geom.Vec3) geom.Axis {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	if ax >= ay && ax >= az {
		return geom.AxisX
	}
	if ay >= az {
		return geom.AxisY
	}
	return geom.AxisZ
}

// triInterval computes the interval a triangle cuts out of the plane
// intersection line. vv are the vertex projections on the line axis, d the
// signed plane distances. Returns ok=false only if all distances are zero.
func triInterval(vv0, vv1, vv2, d0, d1, d2 float64) (lo, hi float64, ok bool) {
	switch {
	case d0*d1 > 0:
		// d2 is on the other side (or on the plane).
		lo, hi = intervalEndpoints(vv2, vv0, vv1, d2, d0, d1)
	case d0*d2 > 0:
		lo, hi = intervalEndpoints(vv1, vv0, vv2, d1, d0, d2)
	case d1*d2 > 0 || d0 != 0:
		lo, hi = intervalEndpoints(vv0, vv1, vv2, d0, d1, d2)
	case d1 != 0:
		lo, hi = intervalEndpoints(vv1, vv0, vv2, d1, d0, d2)
	case d2 != 0:
		lo, hi = intervalEndpoints(vv2, vv0, vv1, d2, d0, d1)
	default:
		return 0, 0, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// intervalEndpoints interpolates the two points where the edges from the
// lone vertex (vv0, distance d0) cross the intersection line.
func intervalEndpoints(vv0, vv1, vv2, d0, d1, d2 float64) (float64, float64) {
	a := vv0 + (vv1-vv0)*safeRatio(d0, d0-d1)
	b := vv0 + (vv2-vv0)*safeRatio(d0, d0-d2)
	return a, b
}

func safeRatio(num, den float64) float64 {
	if math.Abs(den) < triEps {
		return 0
	}
	return num / den
}

// coplanarTriTri handles triangles lying in the same plane by projecting
// onto the plane's dominant axis and testing edge crossings and mutual
// containment in 2D.
func coplanarTriTri(t1, t2 triangle, n geom.Vec3) bool {
	u, v := planeAxes(n)

	a1 := [3][2]float64{project2(t1.a, u, v), project2(t1.b, u, v), project2(t1.c, u, v)}
	a2 := [3][2]float64{project2(t2.a, u, v), project2(t2.b, u, v), project2(t2.c, u, v)}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segmentsCross2(a1[i], a1[(i+1)%3], a2[j], a2[(j+1)%3]) {
				return true
			}
		}
	}
	return pointInTri2(a1[0], a2) || pointInTri2(a2[0], a1)
}

// planeAxes returns the two axes spanning the plane whose normal has the
// given direction, dropping the dominant normal component.
func planeAxes(n geom.Vec3) (geom.Axis, geom.Axis) {
	switch dominantAxis(n) {
	case geom.AxisX:
		return geom.AxisY, geom.AxisZ
	case geom.AxisY:
		return geom.AxisX, geom.AxisZ
	default:
		return geom.AxisX, geom.AxisY
	}
}

func project2(p geom.Vec3, u, v geom.Axis) [2]float64 {
	return [2]float64{p.Component(u), p.Component(v)}
}

func orient2(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// segmentsCross2 reports whether segments ab and cd intersect, endpoints
// included.
func segmentsCross2(a, b, c, d [2]float64) bool {
	o1 := orient2(a, b, c)
	o2 := orient2(a, b, d)
	o3 := orient2(c, d, a)
	o4 := orient2(c, d, b)

	if ((o1 > triEps && o2 < -triEps) || (o1 < -triEps && o2 > triEps)) &&
		((o3 > triEps && o4 < -triEps) || (o3 < -triEps && o4 > triEps)) {
		return true
	}

	// Collinear overlap / endpoint touches.
	if math.Abs(o1) <= triEps && onSegment2(a, b, c) {
		return true
	}
	if math.Abs(o2) <= triEps && onSegment2(a, b, d) {
		return true
	}
	if math.Abs(o3) <= triEps && onSegment2(c, d, a) {
		return true
	}
	if math.Abs(o4) <= triEps && onSegment2(c, d, b) {
		return true
	}
	return false
}

func onSegment2(a, b, p [2]float64) bool {
	return math.Min(a[0], b[0])-triEps <= p[0] && p[0] <= math.Max(a[0], b[0])+triEps &&
		math.Min(a[1], b[1])-triEps <= p[1] && p[1] <= math.Max(a[1], b[1])+triEps
}

// pointInTri2 reports whether p lies inside triangle t, edges included.
func pointInTri2(p [2]float64, t [3][2]float64) bool {
	o1 := orient2(t[0], t[1], p)
	o2 := orient2(t[1], t[2], p)
	o3 := orient2(t[2], t[0], p)
	hasNeg := o1 < -triEps || o2 < -triEps || o3 < -triEps
	hasPos := o1 > triEps || o2 > triEps || o3 > triEps
	return !(hasNeg && hasPos)
}
