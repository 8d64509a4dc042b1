package system

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/clock"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/levels"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeSensor
)

// Sensors sit in their own category and never overlap each other.
const sensorCategory uint = 1 << 1

// FrameStats describes the most recent PhysicsSystem.Update.
type FrameStats struct {
	Frame              uint64
	Steps              int
	Registered         int
	GeneratorsAttached int
	GeneratorsDetached int
	ProximityEvents    int
}

// PhysicsSystem bridges ECS entities and a Chipmunk space. It owns the space
// for its whole lifetime: entities with a Position and BoundingBox get a body
// the first time they are seen, and every Update steps the space once per
// frame the clock reports since the previous Update.
type PhysicsSystem struct {
	cfg   config.PhysicsConfig
	dt    float64
	space *cp.Space

	clock     clock.Source
	lastFrame uint64

	bodies     *bodyRegistry
	sensors    *sensorTracker
	generators []*cp.Body
	boundaries []*cp.Shape

	stats      FrameStats
	totalSteps uint64

	// Verbose logs every body the system creates.
	Verbose bool
}

// NewPhysicsSystem builds the space and inserts the level boundaries. It
// panics if any friction coefficient is outside [0,1].
func NewPhysicsSystem(cfg config.PhysicsConfig, src clock.Source, boundaries []levels.Boundary) *PhysicsSystem {
	if cfg.TargetFPS <= 0 {
		panic(fmt.Sprintf("physics: target fps must be positive, got %d", cfg.TargetFPS))
	}
	if src == nil {
		src = clock.NewCounter()
	}
	mustFriction(cfg.BodyFriction, "body friction")
	mustFriction(cfg.StaticFriction, "static friction")

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})
	if cfg.Damping > 0 {
		space.SetDamping(cfg.Damping)
	}

	ps := &PhysicsSystem{
		cfg:       cfg,
		dt:        cfg.Timestep(),
		space:     space,
		clock:     src,
		lastFrame: src.Frame(),
		bodies:    newBodyRegistry(),
		sensors:   newSensorTracker(),
	}
	ps.sensors.install(space)
	ps.addBoundaries(boundaries)
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Timestep is the fixed step in seconds.
func (ps *PhysicsSystem) Timestep() float64 {
	return ps.dt
}

// Stats returns what the last Update did.
func (ps *PhysicsSystem) Stats() FrameStats {
	return ps.stats
}

// TotalSteps counts every step taken since construction.
func (ps *PhysicsSystem) TotalSteps() uint64 {
	return ps.totalSteps
}

// Lookup returns the body registered for e.
func (ps *PhysicsSystem) Lookup(e ecs.Entity) (Body, bool) {
	return ps.bodies.Lookup(e)
}

// BodyCount is the number of registered entities.
func (ps *PhysicsSystem) BodyCount() int {
	return ps.bodies.Len()
}

// SensorCount is the number of sensor shapes across all entities.
func (ps *PhysicsSystem) SensorCount() int {
	return len(ps.sensors.sensors)
}

// BoundaryShapes returns the fixed colliders built from level geometry.
func (ps *PhysicsSystem) BoundaryShapes() []*cp.Shape {
	return ps.boundaries
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	frame := ps.clock.Frame()
	frames := 0
	if frame > ps.lastFrame {
		frames = int(frame - ps.lastFrame)
	}
	ps.lastFrame = frame
	ps.stats = FrameStats{Frame: frame}

	ps.stats.Registered = ps.registerEntities(w)

	ps.attachForces(w)
	ps.step(frames)
	ps.detachForces()

	ps.stats.ProximityEvents = ps.trackContacts(w)
	ps.syncBodies(w)
}

// step advances the space once per elapsed frame. A lagging caller gets
// several fixed steps rather than one long one.
func (ps *PhysicsSystem) step(frames int) {
	for i := 0; i < frames; i++ {
		ps.space.Step(ps.dt)
	}
	ps.stats.Steps = frames
	ps.totalSteps += uint64(frames)
}

func (ps *PhysicsSystem) logf(format string, args ...any) {
	if ps.Verbose {
		log.Printf("PhysicsSystem: "+format, args...)
	}
}

func mustFriction(f float64, what string) float64 {
	if !config.ValidFriction(f) {
		panic(fmt.Sprintf("physics: %s must be in [0,1], got %g", what, f))
	}
	return f
}
