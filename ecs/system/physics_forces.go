package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// attachForces gives every rigid body whose entity carries an AppliedForce or
// AppliedAcceleration a velocity integrator that adds it on top of gravity.
// The integrators only live for the steps of the current update.
func (ps *PhysicsSystem) attachForces(w *ecs.World) {
	ps.generators = ps.generators[:0]
	ps.bodies.eachRigid(func(e ecs.Entity, rb RigidBody) {
		accel, ok := appliedAcceleration(w, e, rb.Body.Mass())
		if !ok {
			return
		}
		rb.Body.SetVelocityUpdateFunc(accelerationGenerator(accel))
		ps.generators = append(ps.generators, rb.Body)
	})
	ps.stats.GeneratorsAttached = len(ps.generators)
}

// detachForces restores the default integrator on every body touched by
// attachForces.
func (ps *PhysicsSystem) detachForces() {
	for _, body := range ps.generators {
		body.SetVelocityUpdateFunc(cp.BodyUpdateVelocity)
	}
	ps.stats.GeneratorsDetached = len(ps.generators)
	ps.generators = ps.generators[:0]
}

func appliedAcceleration(w *ecs.World, e ecs.Entity, mass float64) (cp.Vector, bool) {
	var accel cp.Vector
	found := false
	if a, ok := ecs.Get(w, e, component.AppliedAccelerationComponent.Kind()); ok {
		accel = accel.Add(cp.Vector{X: a.X, Y: a.Y})
		found = true
	}
	if f, ok := ecs.Get(w, e, component.AppliedForceComponent.Kind()); ok {
		if mass > 0 {
			accel = accel.Add(cp.Vector{X: f.X / mass, Y: f.Y / mass})
		}
		found = true
	}
	return accel, found
}

func accelerationGenerator(accel cp.Vector) func(*cp.Body, cp.Vector, float64, float64) {
	return func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, gravity.Add(accel), damping, dt)
	}
}
