package system

import (
	"fmt"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// syncBodies copies simulated position and velocity into every rigid body's
// entity. Static colliders are never written.
func (ps *PhysicsSystem) syncBodies(w *ecs.World) {
	ps.bodies.eachRigid(func(e ecs.Entity, rb RigidBody) {
		pos, ok := ecs.Get(w, e, component.PositionComponent.Kind())
		if !ok {
			panic(fmt.Sprintf("physics: rigid body entity %s has no Position", e))
		}
		vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
		if !ok {
			panic(fmt.Sprintf("physics: rigid body entity %s has no Velocity", e))
		}
		p := rb.Body.Position()
		v := rb.Body.Velocity()
		pos.X, pos.Y = p.X, p.Y
		vel.X, vel.Y = v.X, v.Y
	})
}
