package system

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// registerEntities creates a body for every eligible entity the registry has
// not seen yet and returns how many were created. Entities are visited in the
// Position store's dense order, whatever order their other components were
// added in.
func (ps *PhysicsSystem) registerEntities(w *ecs.World) int {
	created := 0
	ecs.ForEach(w, component.PositionComponent.Kind(), func(e ecs.Entity, pos *component.Position) {
		if _, ok := ps.bodies.Lookup(e); ok {
			return
		}
		box, ok := ecs.Get(w, e, component.BoundingBoxComponent.Kind())
		if !ok {
			return
		}

		var body Body
		if density, ok := ecs.Get(w, e, component.DensityComponent.Kind()); ok {
			body = ps.createRigidBody(w, e, *pos, *box, density.Value)
		} else {
			body = ps.createStaticCollider(e, *pos, *box)
		}
		ps.bodies.register(e, body)
		created++
	})
	return created
}

func (ps *PhysicsSystem) createRigidBody(w *ecs.World, e ecs.Entity, pos component.Position, box component.BoundingBox, density float64) RigidBody {
	if box.Width <= 0 || box.Height <= 0 {
		panic(fmt.Sprintf("physics: entity %s has degenerate bounding box %gx%g", e, box.Width, box.Height))
	}
	if density <= 0 {
		panic(fmt.Sprintf("physics: entity %s has non-positive density %g", e, density))
	}
	friction := mustFriction(ps.cfg.BodyFriction, "body friction")

	mass := density * box.Width * box.Height
	moment := cp.MomentForBox(mass, box.Width, box.Height)
	if ps.cfg.LockRotation {
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	body.SetAngle(0)
	body.UserData = e

	// The box is shrunk by the margin and rounded by the same amount, so its
	// outer extent still matches the bounding box.
	margin := ps.marginFor(box)
	shape := cp.NewBox(body, box.Width-2*margin, box.Height-2*margin, margin)
	shape.SetFriction(friction)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeSolid)
	shape.UserData = e

	vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("physics: rigid entity %s has no Velocity", e))
	}
	body.SetVelocity(vel.X, vel.Y)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	sensors := 0
	if ecs.Has(w, e, component.CollisionsComponent.Kind()) {
		for _, dir := range component.Directions {
			ps.sensors.add(ps.createSensor(body, box, dir), e, dir)
			sensors++
		}
	}

	ps.logf("entity %s rigid mass=%.1f size=%gx%g sensors=%d", e, mass, box.Width, box.Height, sensors)
	return RigidBody{Body: body, Shape: shape}
}

func (ps *PhysicsSystem) createStaticCollider(e ecs.Entity, pos component.Position, box component.BoundingBox) StaticCollider {
	if box.Width <= 0 || box.Height <= 0 {
		panic(fmt.Sprintf("physics: entity %s has degenerate bounding box %gx%g", e, box.Width, box.Height))
	}
	friction := mustFriction(ps.cfg.StaticFriction, "static friction")

	margin := ps.marginFor(box)
	bb := cp.BB{
		L: pos.X - box.Width/2 + margin,
		B: pos.Y - box.Height/2 + margin,
		R: pos.X + box.Width/2 - margin,
		T: pos.Y + box.Height/2 - margin,
	}
	shape := cp.NewBox2(ps.space.StaticBody, bb, margin)
	shape.SetFriction(friction)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeSolid)
	shape.UserData = e
	ps.space.AddShape(shape)

	ps.logf("entity %s static size=%gx%g", e, box.Width, box.Height)
	return StaticCollider{Shape: shape}
}

// createSensor builds a box across one edge of the body. It covers
// SensorScale of the edge, centred, so corner contacts that belong to the
// neighbouring edge do not trip it. It reaches SensorDepth past the edge and
// SensorInset of the half-extent back inside, so a body that sinks into a
// surface on landing keeps the surface inside its sensor.
func (ps *PhysicsSystem) createSensor(body *cp.Body, box component.BoundingBox, dir component.Direction) *cp.Shape {
	bb := sensorBB(box, dir, ps.cfg.SensorScale, ps.cfg.SensorDepth, ps.cfg.SensorInset)
	shape := cp.NewBox2(body, bb, 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypeSensor)
	shape.SetFilter(cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: sensorCategory,
		Mask:       cp.ALL_CATEGORIES &^ sensorCategory,
	})
	ps.space.AddShape(shape)
	return shape
}

// sensorBB is in body-local coordinates with y growing downward.
func sensorBB(box component.BoundingBox, dir component.Direction, scale, depth, inset float64) cp.BB {
	hw, hh := box.Width/2, box.Height/2
	sw, sh := hw*scale, hh*scale
	iw, ih := hw*inset, hh*inset
	switch dir {
	case component.DirectionTop:
		return cp.BB{L: -sw, B: -hh - depth, R: sw, T: -hh + ih}
	case component.DirectionBottom:
		return cp.BB{L: -sw, B: hh - ih, R: sw, T: hh + depth}
	case component.DirectionLeft:
		return cp.BB{L: -hw - depth, B: -sh, R: -hw + iw, T: sh}
	case component.DirectionRight:
		return cp.BB{L: hw - iw, B: -sh, R: hw + depth, T: sh}
	default:
		panic(fmt.Sprintf("physics: unknown sensor direction %d", dir))
	}
}

func (ps *PhysicsSystem) marginFor(box component.BoundingBox) float64 {
	return math.Min(ps.cfg.CollisionMargin, math.Min(box.Width, box.Height)/4)
}
