package component

// BoundingBox is the collider size. The physics system reads it once, when the
// entity is first registered.
type BoundingBox struct {
	Width  float64
	Height float64
}

var BoundingBoxComponent = NewComponent[BoundingBox]()

// Density marks an entity as a rigid body. Entities without it become static
// colliders.
type Density struct {
	Value float64
}

var DensityComponent = NewComponent[Density]()

// AppliedForce is applied to the body for the steps of a single physics
// update. It is not accumulated; remove or zero it to stop pushing.
type AppliedForce struct {
	X float64
	Y float64
}

var AppliedForceComponent = NewComponent[AppliedForce]()

// AppliedAcceleration behaves like AppliedForce but ignores mass.
type AppliedAcceleration struct {
	X float64
	Y float64
}

var AppliedAccelerationComponent = NewComponent[AppliedAcceleration]()
