package pipes

import (
	"fmt"
	"log"

	"github.com/chazu/pipewright/pkg/collide"
	"github.com/chazu/pipewright/pkg/scene"
)

// MaxIterations caps the growth loop per pipe; the terminal check fires on
// the iteration after the cap, so a pipe makes at most MaxIterations+1
// candidate attempts.
const MaxIterations = 20

// State is the growth controller's state. All stopped states are normal,
// expected outcomes, not errors.
type State int

const (
	// Growing: the pipe is still extending.
	Growing State = iota
	// StoppedPerimeter: a candidate crossed the perimeter surface.
	StoppedPerimeter
	// StoppedMaxIter: the iteration cap was reached.
	StoppedMaxIter
	// StoppedBlockedAtSource: an obstacle rejected a candidate before any
	// candidate had been accepted.
	StoppedBlockedAtSource
)

func (s State) String() string {
	switch s {
	case Growing:
		return "growing"
	case StoppedPerimeter:
		return "stopped: out of perimeter"
	case StoppedMaxIter:
		return "stopped: max iterations"
	case StoppedBlockedAtSource:
		return "stopped: blocked at source"
	default:
		return "unknown"
	}
}

// Outcome reports how one pipe's growth ended. Attempts counts candidate
// syntheses; the root segment is exempt from classification and excluded.
type Outcome struct {
	Pipe     string
	State    State
	Accepted int // candidates committed and registered as obstacles
	Rejected int // candidates discarded after an obstacle collision
	Attempts int
}

func (o *Outcome) String() string {
	return fmt.Sprintf("pipe %s: %s (%d accepted, %d rejected, %d attempts)",
		o.Pipe, o.State, o.Accepted, o.Rejected, o.Attempts)
}

// Grower is the growth controller. It owns no geometry: segments live in
// the scene graph and accepted volumes in the registry, which is shared
// across pipes so each pipe avoids everything grown before it.
type Grower struct {
	Registry *collide.Registry
	Synth    *Synthesizer
	Rng      Rand
	Logger   *log.Logger // optional; nil silences growth events
}

func (g *Grower) logf(format string, args ...any) {
	if g.Logger != nil {
		g.Logger.Printf(format, args...)
	}
}

// Grow grows one pipe of the given radius from the source anchor until a
// terminal state is reached. The root segment is synthesized, committed and
// registered without classification (deliberate: the source placement is
// trusted); every later candidate is classified and accepted, retried, or
// terminal per the collision result. Returned errors are backend failures
// only; geometric rejections are encoded in the Outcome.
func (g *Grower) Grow(source *scene.Object, name string, radius float64) (*Outcome, error) {
	mat := NewPipeMaterial(g.Rng, name)

	root, err := g.Synth.Synthesize(source, 0, radius, false, mat, name+"-0")
	if err != nil {
		return nil, fmt.Errorf("pipes: root segment of %s: %w", name, err)
	}
	// Self-avoidance: the root joins the obstacle set even though it was
	// never classified.
	g.Registry.AddObstacle(collide.NewVolume(root.CollisionMesh()))

	out := &Outcome{Pipe: name, State: Growing}
	committed := root

	for iterations := 0; ; {
		if iterations > MaxIterations {
			out.State = StoppedMaxIter
			g.logf("%s: maximum pipe iterations reached", name)
			break
		}

		candidate, err := g.Synth.Synthesize(
			committed.Body, committed.Length, radius, true, mat,
			fmt.Sprintf("%s-%d", name, out.Attempts+1))
		if err != nil {
			return nil, fmt.Errorf("pipes: candidate segment of %s: %w", name, err)
		}
		candidate.Parent = committed
		out.Attempts++

		segResult := g.Registry.Classify(collide.NewVolume(candidate.CollisionMesh()))
		elbowResult := collide.CollisionNone
		if candidate.Elbow != nil {
			elbowResult = g.Registry.Classify(collide.NewVolume(candidate.ElbowMesh()))
		}

		switch {
		case segResult == collide.CollisionPerimeterExit || elbowResult == collide.CollisionPerimeterExit:
			candidate.Delete()
			out.State = StoppedPerimeter
			g.logf("%s: pipe is out of perimeter", name)

		case segResult == collide.CollisionObstacle || elbowResult == collide.CollisionObstacle:
			candidate.Delete()
			out.Rejected++
			if out.Accepted == 0 {
				out.State = StoppedBlockedAtSource
				g.logf("%s: an obstacle is blocking the pipe source, pipe aborted", name)
				break
			}
			g.logf("%s: collision detected, discarding segment, trying a new direction and length", name)
			iterations++
			continue

		default:
			g.Registry.AddObstacle(collide.NewVolume(candidate.CollisionMesh()))
			if candidate.Elbow != nil {
				g.Registry.AddObstacle(collide.NewVolume(candidate.ElbowMesh()))
			}
			committed = candidate
			out.Accepted++
			iterations++
			continue
		}
		break
	}
	return out, nil
}
