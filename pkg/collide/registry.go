package collide

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/pipewright/pkg/geom"
)

// Classification is the result of testing candidate geometry against the
// registry. Obstacle collisions and perimeter exits are expected growth
// outcomes, not errors.
type Classification int

const (
	// CollisionNone: the candidate touches nothing.
	CollisionNone Classification = iota
	// CollisionObstacle: the candidate intersects a registered obstacle.
	CollisionObstacle
	// CollisionPerimeterExit: the candidate crosses the perimeter surface.
	CollisionPerimeterExit
)

func (c Classification) String() string {
	switch c {
	case CollisionNone:
		return "none"
	case CollisionObstacle:
		return "obstacle"
	case CollisionPerimeterExit:
		return "perimeter-exit"
	default:
		return "unknown"
	}
}

// rtree entry sizes; rtreego's suggested defaults for medium trees.
const (
	rtreeMinBranch = 8
	rtreeMaxBranch = 16
)

// indexEntry places one obstacle volume in the broad-phase R-tree.
type indexEntry struct {
	vol  *Volume
	seq  int // registration order, for first-hit-wins semantics
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

// Registry holds the run perimeter (set once, never mutated) and the
// monotonically growing obstacle set: static obstacles plus every accepted
// pipe segment. It is not safe for concurrent use; a growth run is
// single-threaded and later pipes observe earlier pipes' commits through
// this shared instance.
type Registry struct {
	perimeter *Volume
	obstacles []*Volume
	index     *rtreego.Rtree
}

// NewRegistry creates a registry with the given perimeter volume. The
// perimeter has distinct semantics from obstacles: crossing it terminates
// growth rather than triggering a retry.
func NewRegistry(perimeter *Volume) *Registry {
	return &Registry{
		perimeter: perimeter,
		index:     rtreego.NewTree(3, rtreeMinBranch, rtreeMaxBranch),
	}
}

// AddObstacle appends a volume to the obstacle set. Empty volumes are
// counted but never indexed; they can't collide with anything.
func (r *Registry) AddObstacle(v *Volume) {
	seq := len(r.obstacles)
	r.obstacles = append(r.obstacles, v)
	if v.IsEmpty() {
		return
	}
	r.index.Insert(&indexEntry{vol: v, seq: seq, rect: rectFromAABB(v.Bounds())})
}

// ObstacleCount returns the number of registered obstacle volumes.
func (r *Registry) ObstacleCount() int {
	return len(r.obstacles)
}

// Perimeter returns the perimeter volume.
func (r *Registry) Perimeter() *Volume {
	return r.perimeter
}

// Classify tests a candidate volume against the obstacle set, then the
// perimeter. Obstacles win ties deliberately: an obstacle collision is
// locally retryable while a perimeter exit is terminal, so a candidate
// that does both is reported as an obstacle hit. Obstacles are tested in
// registration order with the first hit short-circuiting; the R-tree only
// prunes volumes whose bounds can't reach the candidate.
func (r *Registry) Classify(v *Volume) Classification {
	if !v.IsEmpty() && len(r.obstacles) > 0 {
		hits := r.index.SearchIntersect(rectFromAABB(v.Bounds()))
		entries := make([]*indexEntry, 0, len(hits))
		for _, h := range hits {
			entries = append(entries, h.(*indexEntry))
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
		for _, e := range entries {
			if v.Overlaps(e.vol) {
				return CollisionObstacle
			}
		}
	}
	if v.Overlaps(r.perimeter) {
		return CollisionPerimeterExit
	}
	return CollisionNone
}

// rectFromAABB converts a bounding box to an rtreego rectangle. rtreego
// requires strictly positive extents, so flat boxes are padded by epsilon.
func rectFromAABB(b geom.AABB) rtreego.Rect {
	size := b.Size()
	lengths := []float64{
		padExtent(size.X),
		padExtent(size.Y),
		padExtent(size.Z),
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}, lengths)
	if err != nil {
		// Only reachable with non-finite geometry, which the mesh layer
		// never produces.
		panic("collide: invalid bounding rect: " + err.Error())
	}
	return rect
}

func padExtent(x float64) float64 {
	if x < geom.Epsilon {
		return geom.Epsilon
	}
	return x
}
