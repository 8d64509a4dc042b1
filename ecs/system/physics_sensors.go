package system

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// Proximity is the overlap state reported for a sensor and another shape.
type Proximity uint8

const (
	ProximityDisjoint Proximity = iota
	ProximityWithinMargin
	ProximityIntersecting
)

func (p Proximity) String() string {
	switch p {
	case ProximityDisjoint:
		return "disjoint"
	case ProximityWithinMargin:
		return "within_margin"
	case ProximityIntersecting:
		return "intersecting"
	default:
		return "unknown"
	}
}

// ProximityEvent is queued by the collision handler while the space steps.
type ProximityEvent struct {
	A, B   *cp.Shape
	Status Proximity
}

type sensorKey struct {
	entity ecs.Entity
	dir    component.Direction
}

// sensorTracker maps sensor shapes back to (entity, direction) and remembers
// which shapes each sensor currently overlaps.
type sensorTracker struct {
	sensors  map[*cp.Shape]sensorKey
	overlaps map[*cp.Shape]map[*cp.Shape]struct{}
	events   []ProximityEvent
}

func newSensorTracker() *sensorTracker {
	return &sensorTracker{
		sensors:  make(map[*cp.Shape]sensorKey),
		overlaps: make(map[*cp.Shape]map[*cp.Shape]struct{}),
	}
}

func (t *sensorTracker) add(shape *cp.Shape, e ecs.Entity, dir component.Direction) {
	t.sensors[shape] = sensorKey{entity: e, dir: dir}
	t.overlaps[shape] = make(map[*cp.Shape]struct{})
}

// install registers the sensor x solid handler. PreSolve runs on every step
// a pair overlaps, so the status is re-evaluated each step rather than only
// when the pair first touches.
func (t *sensorTracker) install(space *cp.Space) {
	handler := space.NewCollisionHandler(collisionTypeSensor, collisionTypeSolid)
	handler.UserData = t
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		tracker, ok := userData.(*sensorTracker)
		if !ok || tracker == nil {
			return true
		}
		a, b := arb.Shapes()
		tracker.push(ProximityEvent{A: a, B: b, Status: tracker.classify(a, b, arb.ContactPointSet())})
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		tracker, ok := userData.(*sensorTracker)
		if !ok || tracker == nil {
			return
		}
		a, b := arb.Shapes()
		tracker.push(ProximityEvent{A: a, B: b, Status: ProximityDisjoint})
	}
}

func (t *sensorTracker) push(evt ProximityEvent) {
	t.events = append(t.events, evt)
}

func (t *sensorTracker) drain() []ProximityEvent {
	out := t.events
	t.events = nil
	return out
}

// sensorFacing is the minimum |cos| between a contact normal and the sensor's
// outward axis for the contact to count on that side.
const sensorFacing = 0.7

// classify reports an overlap as disjoint when the contact normal runs along
// the sensor's edge instead of across it. A side sensor that dips into the
// floor while the body lands sees a vertical normal and is not a wall.
func (t *sensorTracker) classify(a, b *cp.Shape, set cp.ContactPointSet) Proximity {
	sensor := a
	key, ok := t.sensors[a]
	if !ok {
		sensor = b
		if key, ok = t.sensors[b]; !ok {
			return contactProximity(set)
		}
	}
	if set.Count == 0 {
		return ProximityDisjoint
	}
	axis := sensorAxis(key.dir).Rotate(sensor.Body().Rotation())
	if math.Abs(set.Normal.Dot(axis)) < sensorFacing {
		return ProximityDisjoint
	}
	return contactProximity(set)
}

// sensorAxis is the outward normal of an edge in body-local coordinates.
func sensorAxis(dir component.Direction) cp.Vector {
	switch dir {
	case component.DirectionTop:
		return cp.Vector{X: 0, Y: -1}
	case component.DirectionBottom:
		return cp.Vector{X: 0, Y: 1}
	case component.DirectionLeft:
		return cp.Vector{X: -1, Y: 0}
	case component.DirectionRight:
		return cp.Vector{X: 1, Y: 0}
	default:
		panic(fmt.Sprintf("physics: unknown sensor direction %d", dir))
	}
}

// contactProximity reports touching contacts as within margin and
// penetrating ones as intersecting.
func contactProximity(set cp.ContactPointSet) Proximity {
	for i := 0; i < set.Count; i++ {
		if set.Points[i].Distance < 0 {
			return ProximityIntersecting
		}
	}
	return ProximityWithinMargin
}

// trackContacts drains the events queued during stepping and updates the
// Collisions flags of the sensors they name. It returns the number of events
// drained.
func (ps *PhysicsSystem) trackContacts(w *ecs.World) int {
	events := ps.sensors.drain()
	for _, evt := range events {
		ps.sensors.apply(w, evt.A, evt.B, evt.Status)
		ps.sensors.apply(w, evt.B, evt.A, evt.Status)
	}
	return len(events)
}

func (t *sensorTracker) apply(w *ecs.World, sensor, other *cp.Shape, status Proximity) {
	key, ok := t.sensors[sensor]
	if !ok {
		return
	}
	touching := t.overlaps[sensor]
	if status == ProximityDisjoint {
		delete(touching, other)
	} else {
		touching[other] = struct{}{}
	}

	collisions, ok := ecs.Get(w, key.entity, component.CollisionsComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("physics: sensor entity %s has no Collisions", key.entity))
	}
	now := len(touching) > 0
	if collisions.Get(key.dir) == now {
		return
	}
	collisions.Set(key.dir, now)
	w.Events().Push(ecs.Event{
		Type: ecs.EventTypeCollision,
		Data: ecs.CollisionEvent{Entity: key.entity, Direction: key.dir, Touching: now},
	})
}
