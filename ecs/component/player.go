package component

// Controller holds the tuning the player controller uses to turn Input into an
// AppliedAcceleration.
type Controller struct {
	RunAcceleration  float64
	JumpAcceleration float64
	HorizontalDrag   float64
}

var ControllerComponent = NewComponent[Controller]()
