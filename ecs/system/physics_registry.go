package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
)

// Body is the simulation state the physics system keeps for one entity. It is
// either a RigidBody or a StaticCollider.
type Body interface {
	isBody()
}

// RigidBody is a dynamic body whose position and velocity are written back to
// its entity after every update.
type RigidBody struct {
	Body  *cp.Body
	Shape *cp.Shape
}

// StaticCollider is attached to the space's static body and never moves.
type StaticCollider struct {
	Shape *cp.Shape
}

func (RigidBody) isBody()      {}
func (StaticCollider) isBody() {}

// bodyRegistry maps entities to bodies. Iteration follows registration order
// so stepping and write back are deterministic.
type bodyRegistry struct {
	bodies map[ecs.Entity]Body
	order  []ecs.Entity
}

func newBodyRegistry() *bodyRegistry {
	return &bodyRegistry{bodies: make(map[ecs.Entity]Body)}
}

func (r *bodyRegistry) register(e ecs.Entity, b Body) {
	if b == nil {
		panic(fmt.Sprintf("physics: nil body for entity %s", e))
	}
	if _, exists := r.bodies[e]; exists {
		panic(fmt.Sprintf("physics: entity %s already has a body", e))
	}
	r.bodies[e] = b
	r.order = append(r.order, e)
}

func (r *bodyRegistry) Lookup(e ecs.Entity) (Body, bool) {
	b, ok := r.bodies[e]
	return b, ok
}

func (r *bodyRegistry) Len() int {
	return len(r.order)
}

func (r *bodyRegistry) each(fn func(ecs.Entity, Body)) {
	for _, e := range r.order {
		fn(e, r.bodies[e])
	}
}

// eachRigid visits only dynamic bodies.
func (r *bodyRegistry) eachRigid(fn func(ecs.Entity, RigidBody)) {
	r.each(func(e ecs.Entity, b Body) {
		if rb, ok := b.(RigidBody); ok {
			fn(e, rb)
		}
	})
}
