package component

// Position is the centre of an entity's bounding box in world pixels. For
// rigid bodies it is written by the physics system after every step.
type Position struct {
	X float64
	Y float64
}

var PositionComponent = NewComponent[Position]()

// Velocity is measured in pixels per second.
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()
