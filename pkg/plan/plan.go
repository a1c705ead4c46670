// Package plan defines the declarative description of one generation run:
// the perimeter shell, static obstacle shapes, pipe sources, and the growth
// parameters. Plans are produced by the scene DSL and consumed by the app,
// which materializes the shapes and grows one pipe per source.
package plan

import (
	"fmt"

	"github.com/chazu/pipewright/pkg/geom"
)

// Growth parameter defaults, used when the scene omits a (pipes ...) form
// or individual settings.
const (
	DefaultMinRadius = 0.5
	DefaultMaxRadius = 0.5
	DefaultMinLength = 2
	DefaultMaxLength = 6
)

// ShapeKind selects the primitive a Shape describes.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCylinder
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// Shape is a placed primitive, used for both the perimeter and obstacles.
// Box shapes use Size; cylinder shapes use Radius and Length with the axis
// along Z.
type Shape struct {
	Kind     ShapeKind
	Size     geom.Vec3
	Radius   float64
	Length   float64
	Position geom.Vec3
}

// Validate checks the shape's dimensions.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeBox:
		if s.Size.X <= 0 || s.Size.Y <= 0 || s.Size.Z <= 0 {
			return fmt.Errorf("box size must be positive, got %gx%gx%g", s.Size.X, s.Size.Y, s.Size.Z)
		}
	case ShapeCylinder:
		if s.Radius <= 0 || s.Length <= 0 {
			return fmt.Errorf("cylinder radius and length must be positive, got r=%g l=%g", s.Radius, s.Length)
		}
	default:
		return fmt.Errorf("unknown shape kind %d", int(s.Kind))
	}
	return nil
}

// Source is one pipe anchor. Each source grows exactly one pipe.
type Source struct {
	Name     string
	Position geom.Vec3
}

// Plan is the full run description. The zero value is not valid; use New,
// which fills the growth parameter defaults.
type Plan struct {
	Perimeter *Shape
	Obstacles []Shape
	Sources   []Source

	MinRadius float64
	MaxRadius float64
	MinLength float64
	MaxLength float64
	Seed      int64
}

// New returns a plan with default growth parameters and nothing placed.
func New() *Plan {
	return &Plan{
		MinRadius: DefaultMinRadius,
		MaxRadius: DefaultMaxRadius,
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
	}
}

// Validate checks that the plan describes a runnable generation: a valid
// perimeter, at least one source, well-ordered parameter ranges, and valid
// obstacle shapes.
func (p *Plan) Validate() error {
	if p.Perimeter == nil {
		return fmt.Errorf("plan: no perimeter defined")
	}
	if err := p.Perimeter.Validate(); err != nil {
		return fmt.Errorf("plan: perimeter: %w", err)
	}
	for i, o := range p.Obstacles {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("plan: obstacle %d: %w", i, err)
		}
	}
	if len(p.Sources) == 0 {
		return fmt.Errorf("plan: no pipe sources defined")
	}
	seen := make(map[string]bool, len(p.Sources))
	for i, s := range p.Sources {
		if s.Name == "" {
			return fmt.Errorf("plan: source %d has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("plan: duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
	}
	if p.MinRadius <= 0 || p.MaxRadius < p.MinRadius {
		return fmt.Errorf("plan: radius range %g..%g is invalid", p.MinRadius, p.MaxRadius)
	}
	if p.MinLength <= 0 || p.MaxLength < p.MinLength {
		return fmt.Errorf("plan: length range %g..%g is invalid", p.MinLength, p.MaxLength)
	}
	return nil
}
