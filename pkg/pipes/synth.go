// Package pipes grows branching pipe geometry from source anchors: the
// Synthesizer builds candidate segments (cylinder body, optional bent
// elbow, decorative rings) and the Grower drives the accept/retry/stop
// state machine against the collision registry.
package pipes

import (
	"fmt"
	"math"

	"github.com/chazu/pipewright/pkg/backend"
	"github.com/chazu/pipewright/pkg/geom"
	"github.com/chazu/pipewright/pkg/mesh"
	"github.com/chazu/pipewright/pkg/scene"
)

// Rand is the random source injected into synthesis and growth. It is
// satisfied by *math/rand.Rand; tests substitute deterministic stubs.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// Geometry factors relative to the pipe radius. The elbow sits in the gap
// the side offsets open up between consecutive segments.
const (
	elbowSideFactor    = 0.25 // lateral nudge of a connected segment
	elbowGapFactor     = 0.28 // axial gap past the parent's end
	elbowAdvanceFactor = 0.35 // elbow nudge along its own Y
	elbowBackFactor    = 0.2  // elbow nudge back along its own Z
	elbowTiltDegrees   = 45   // pre-bend tilt so the 90 degree bend centers
	ringRadiusFactor   = 1.1  // ring radius relative to the pipe body
	ringHeightDivisor  = 5    // ring height = minLength / this
)

// Unit cylinder dimensions for the elbow before radius scaling. The elbow
// bore is narrower than the pipe so the bent connector tucks into the open
// ends of both cylinders it joins without crossing their walls; pipe bodies
// are open-ended for exactly this reason.
const (
	elbowUnitRadius = 0.8
	elbowUnitLength = 2.0
)

// Segment is one straight cylindrical pipe section. Connected segments
// additionally carry the elbow bridging them to their parent, and zero or
// more decorative rings along their axis. Segments form a tree rooted at a
// source anchor through the scene graph.
type Segment struct {
	Body   *scene.Object
	Elbow  *scene.Object // nil for root segments
	Rings  []*scene.Object
	Radius float64
	Length float64
	Parent *Segment // nil for root segments
}

// CollisionMesh returns the world-space mesh tested against the registry:
// the body plus its rings. The elbow is classified separately.
func (s *Segment) CollisionMesh() *mesh.Mesh {
	parts := []*mesh.Mesh{s.Body.WorldMesh()}
	for _, r := range s.Rings {
		parts = append(parts, r.WorldMesh())
	}
	m := mesh.Merge(parts...)
	m.Name = s.Body.Name
	return m
}

// ElbowMesh returns the elbow's world-space mesh, or nil for roots.
func (s *Segment) ElbowMesh() *mesh.Mesh {
	if s.Elbow == nil {
		return nil
	}
	return s.Elbow.WorldMesh()
}

// Delete removes the segment and everything attached to it (elbow, rings)
// from the scene. Used on rejected candidates; a deleted candidate leaves
// no trace.
func (s *Segment) Delete() {
	s.Body.DeleteSubtree()
}

// Synthesizer builds candidate segments. One instance serves a whole run;
// the per-pipe material is passed per call.
type Synthesizer struct {
	backend   backend.Backend
	rng       Rand
	minLength float64
	maxLength float64
}

// NewSynthesizer returns a Synthesizer drawing segment lengths uniformly
// from [minLength, maxLength].
func NewSynthesizer(b backend.Backend, rng Rand, minLength, maxLength float64) *Synthesizer {
	return &Synthesizer{backend: b, rng: rng, minLength: minLength, maxLength: maxLength}
}

// Synthesize builds one candidate segment under parent. For a root segment
// (connected=false) the parent is the source anchor and the cylinder
// extends along the anchor's Z axis. For a connected segment the parent is
// the previous segment's body: the candidate is offset past the parent's
// end, turned 90 degrees to continue from its side, and joined to it by a
// bent elbow scaled to the pipe radius. parentLength is the parent
// cylinder's length, ignored for roots.
//
// A yaw of 0/90/180/270 degrees, drawn from the injected random source, is
// applied about the local Z axis before any translation to diversify
// routing. Backend failures are fatal configuration errors.
func (s *Synthesizer) Synthesize(parent *scene.Object, parentLength, radius float64, connected bool, mat *scene.Material, name string) (*Segment, error) {
	length := s.minLength + s.rng.Float64()*(s.maxLength-s.minLength)

	bodyMesh, err := s.backend.Cylinder(radius, length, backend.CapNone)
	if err != nil {
		return nil, fmt.Errorf("pipes: segment body: %w", err)
	}
	body := scene.New(name, bodyMesh).Assign(mat)
	body.Rotate(geom.AxisZ, geom.Radians(float64(s.rng.Intn(4))*90), scene.Local)
	parent.Attach(body)

	seg := &Segment{Body: body, Radius: radius, Length: length}

	if connected {
		// Step past the parent's end, shift sideways, and turn so the
		// candidate continues from the parent's side.
		body.Translate(geom.Vec3{
			Y: elbowSideFactor * radius,
			Z: parentLength/2 + radius + elbowGapFactor*radius,
		}, scene.Local)
		// Turn about local X so the body extends along the yawed Y offset,
		// with its near end at the joint the elbow will cover.
		body.Translate(geom.Vec3{Y: length/2 + radius}, scene.Local)
		body.Rotate(geom.AxisX, geom.Radians(-90), scene.Local)

		elbow, err := s.synthesizeElbow(body, length, radius, mat)
		if err != nil {
			return nil, err
		}
		seg.Elbow = elbow
	} else {
		body.Translate(geom.Vec3{Z: length / 2}, scene.Local)
	}

	if err := s.addRings(seg, mat); err != nil {
		return nil, err
	}
	return seg, nil
}

// synthesizeElbow builds the bent connector joining a connected segment
// back to its parent. The unit cylinder is bent 90 degrees as a mesh
// deformation, then scaled to the pipe radius and tucked into the joint.
func (s *Synthesizer) synthesizeElbow(body *scene.Object, length, radius float64, mat *scene.Material) (*scene.Object, error) {
	unit, err := s.backend.Cylinder(elbowUnitRadius, elbowUnitLength, backend.CapNone)
	if err != nil {
		return nil, fmt.Errorf("pipes: elbow: %w", err)
	}
	elbow := scene.New("angle", mesh.Bend(unit, math.Pi/2)).Assign(mat)
	body.Attach(elbow)
	elbow.Translate(geom.Vec3{Z: -length/2 - radius}, scene.Local)
	elbow.Rotate(geom.AxisX, geom.Radians(elbowTiltDegrees), scene.Local)
	elbow.Scale(geom.Vec3{X: radius, Y: radius, Z: radius})
	// Offsets are in the scaled frame, so they are radius-relative.
	elbow.Translate(geom.Vec3{Y: elbowAdvanceFactor, Z: -elbowBackFactor}, scene.Local)
	return elbow, nil
}

// addRings attaches floor(length/minLength)-1 thin wider cylinders evenly
// along the body. They are visual texture only, but they are part of the
// segment's collision mesh.
func (s *Synthesizer) addRings(seg *Segment, mat *scene.Material) error {
	count := int(seg.Length / s.minLength)
	for i := 1; i < count; i++ {
		ringMesh, err := s.backend.Cylinder(seg.Radius*ringRadiusFactor, s.minLength/ringHeightDivisor, backend.CapFlat)
		if err != nil {
			return fmt.Errorf("pipes: ring %d: %w", i, err)
		}
		ring := scene.New(fmt.Sprintf("%s-ring-%d", seg.Body.Name, i), ringMesh).Assign(mat)
		seg.Body.Attach(ring)
		ring.Translate(geom.Vec3{Z: seg.Length/2 - seg.Length/float64(count)*float64(i)}, scene.Local)
		seg.Rings = append(seg.Rings, ring)
	}
	return nil
}

// NewPipeMaterial returns the single material shared by every part of one
// pipe: a random base color with a fixed metallic finish.
func NewPipeMaterial(rng Rand, name string) *scene.Material {
	return &scene.Material{
		Name:      name,
		BaseColor: [3]float64{rng.Float64(), rng.Float64(), rng.Float64()},
		Metallic:  1.0,
		Roughness: 0.2,
	}
}
