package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/chazu/pipewright/pkg/backend"
	"github.com/chazu/pipewright/pkg/collide"
	"github.com/chazu/pipewright/pkg/engine"
	"github.com/chazu/pipewright/pkg/geom"
	"github.com/chazu/pipewright/pkg/mesh"
	"github.com/chazu/pipewright/pkg/pipes"
	"github.com/chazu/pipewright/pkg/plan"
	"github.com/chazu/pipewright/pkg/scene"
)

// App drives one generation run: evaluate scene source into a plan,
// materialize the perimeter and obstacles, grow one pipe per source, and
// hand back the populated scene.
type App struct {
	engine  *engine.Engine
	backend backend.Backend
	logger  *log.Logger
}

// Result is the full output of a generation run. When Errors is non-empty
// the scene could not be evaluated and the remaining fields are zero.
type Result struct {
	Root     *scene.Object // world anchor holding obstacles and grown pipes
	Outcomes []*pipes.Outcome
	Errors   []engine.EvalError
}

// NewApp creates an App generating geometry with the given backend.
// A nil logger silences run progress.
func NewApp(b backend.Backend, logger *log.Logger) *App {
	return &App{
		engine:  engine.NewEngine(),
		backend: b,
		logger:  logger,
	}
}

func (a *App) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// Generate runs the whole pipeline for one scene. A non-zero seed overrides
// the plan's seed, which keeps runs reproducible from the command line
// without editing the scene. Scene evaluation problems are reported in
// Result.Errors; the returned error covers invalid plans and backend
// failures.
func (a *App) Generate(source string, seed int64) (*Result, error) {
	// Step 1: evaluate the scene source into a plan.
	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("evaluate scene: %w", err)
	}
	if len(evalErrs) > 0 {
		return &Result{Errors: evalErrs}, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if seed == 0 {
		seed = p.Seed
	}
	rng := rand.New(rand.NewSource(seed))
	a.logf("generating %d pipe(s), seed %d", len(p.Sources), seed)

	// Step 2: materialize the perimeter and obstacles, registering them
	// for collision. Obstacles also join the scene so they export with the
	// pipes; the perimeter is a logical shell and stays out of the output.
	root := scene.NewEmpty("world", geom.Vec3{})

	perimMesh, err := a.shapeMesh(*p.Perimeter)
	if err != nil {
		return nil, fmt.Errorf("perimeter: %w", err)
	}
	registry := collide.NewRegistry(collide.NewVolume(perimMesh))

	for i, o := range p.Obstacles {
		m, err := a.shapeMesh(o)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		registry.AddObstacle(collide.NewVolume(m))

		obj := scene.New(fmt.Sprintf("obstacle-%d", i), m)
		root.Attach(obj)
	}

	// Step 3: grow one pipe per source through the shared registry, so
	// each pipe avoids everything grown before it.
	grower := &pipes.Grower{
		Registry: registry,
		Synth:    pipes.NewSynthesizer(a.backend, rng, p.MinLength, p.MaxLength),
		Rng:      rng,
		Logger:   a.logger,
	}

	result := &Result{Root: root}
	for _, src := range p.Sources {
		anchor := scene.NewEmpty(src.Name, src.Position)
		root.Attach(anchor)

		radius := p.MinRadius + rng.Float64()*(p.MaxRadius-p.MinRadius)
		out, err := grower.Grow(anchor, src.Name, radius)
		if err != nil {
			return nil, fmt.Errorf("grow %s: %w", src.Name, err)
		}
		a.logf("%s", out)
		result.Outcomes = append(result.Outcomes, out)
	}
	return result, nil
}

// shapeMesh builds the world-space mesh for a plan shape. Perimeter and
// obstacle cylinders are capped; unlike pipe bodies, nothing is meant to
// slide into their ends.
func (a *App) shapeMesh(s plan.Shape) (*mesh.Mesh, error) {
	var m *mesh.Mesh
	var err error
	switch s.Kind {
	case plan.ShapeBox:
		m, err = a.backend.Box(s.Size.X, s.Size.Y, s.Size.Z)
	case plan.ShapeCylinder:
		m, err = a.backend.Cylinder(s.Radius, s.Length, backend.CapFlat)
	default:
		return nil, fmt.Errorf("unknown shape kind %d", int(s.Kind))
	}
	if err != nil {
		return nil, err
	}
	return m.Transform(geom.Translation(s.Position)), nil
}
