package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/levels"
)

// addBoundaries inserts each polyline as a chain of static segments. They
// belong to no entity and never enter the body registry.
func (ps *PhysicsSystem) addBoundaries(boundaries []levels.Boundary) {
	radius := ps.cfg.CollisionMargin
	for i, b := range boundaries {
		friction := mustFriction(b.Friction, fmt.Sprintf("boundary %d friction", i))
		for j := 1; j < len(b.Points); j++ {
			a := cp.Vector{X: b.Points[j-1].X, Y: b.Points[j-1].Y}
			c := cp.Vector{X: b.Points[j].X, Y: b.Points[j].Y}
			seg := cp.NewSegment(ps.space.StaticBody, a, c, radius)
			seg.SetFriction(friction)
			seg.SetElasticity(0)
			seg.SetCollisionType(collisionTypeSolid)
			ps.space.AddShape(seg)
			ps.boundaries = append(ps.boundaries, seg)
		}
	}
}
