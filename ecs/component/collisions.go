package component

// Direction names one edge of a bounding box.
type Direction uint8

const (
	DirectionTop Direction = iota
	DirectionLeft
	DirectionRight
	DirectionBottom
)

// Directions lists every edge in sensor creation order.
var Directions = [...]Direction{DirectionTop, DirectionLeft, DirectionRight, DirectionBottom}

func (d Direction) String() string {
	switch d {
	case DirectionTop:
		return "top"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Collisions holds directional contact flags. Adding it before the entity is
// registered with the physics system requests contact sensors; the flags are
// only ever written by that system.
type Collisions struct {
	Top    bool
	Left   bool
	Right  bool
	Bottom bool
}

// Get returns the flag for d.
func (c *Collisions) Get(d Direction) bool {
	switch d {
	case DirectionTop:
		return c.Top
	case DirectionLeft:
		return c.Left
	case DirectionRight:
		return c.Right
	case DirectionBottom:
		return c.Bottom
	}
	return false
}

// Set updates the flag for d.
func (c *Collisions) Set(d Direction, v bool) {
	switch d {
	case DirectionTop:
		c.Top = v
	case DirectionLeft:
		c.Left = v
	case DirectionRight:
		c.Right = v
	case DirectionBottom:
		c.Bottom = v
	}
}

var CollisionsComponent = NewComponent[Collisions]()
