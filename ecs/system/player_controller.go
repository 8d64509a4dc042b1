package system

import (
	"log"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// PlayerControllerSystem turns Input into an AppliedAcceleration. It runs
// before physics and reads the contact flags physics wrote on the previous
// update.
type PlayerControllerSystem struct {
	policy JumpPolicy
}

func NewPlayerControllerSystem(policy JumpPolicy) *PlayerControllerSystem {
	if policy == nil {
		policy = GroundedJumpPolicy{}
	}
	return &PlayerControllerSystem{policy: policy}
}

// SetPolicy swaps the jump policy, e.g. after a script reload.
func (s *PlayerControllerSystem) SetPolicy(policy JumpPolicy) {
	if policy == nil {
		policy = GroundedJumpPolicy{}
	}
	s.policy = policy
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, e := range w.Query(component.InputComponent.Kind(), component.ControllerComponent.Kind()) {
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		ctrl, _ := ecs.Get(w, e, component.ControllerComponent.Kind())

		var vel component.Velocity
		if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			vel = *v
		}
		var contacts component.Collisions
		if c, ok := ecs.Get(w, e, component.CollisionsComponent.Kind()); ok {
			contacts = *c
		}

		accel := component.AppliedAcceleration{
			X: input.MoveX*ctrl.RunAcceleration - vel.X*ctrl.HorizontalDrag,
		}

		if input.JumpPressed {
			allow, err := s.policy.AllowJump(JumpContext{
				Grounded:  contacts.Bottom,
				WallLeft:  contacts.Left,
				WallRight: contacts.Right,
				Ceiling:   contacts.Top,
				VelocityX: vel.X,
				VelocityY: vel.Y,
			})
			if err != nil {
				log.Printf("player controller: entity %s: %v", e, err)
			}
			if allow {
				accel.Y = -ctrl.JumpAcceleration
			}
		}

		if existing, ok := ecs.Get(w, e, component.AppliedAccelerationComponent.Kind()); ok {
			*existing = accel
			continue
		}
		if err := ecs.Add(w, e, component.AppliedAccelerationComponent.Kind(), &accel); err != nil {
			panic("player controller: add acceleration: " + err.Error())
		}
	}
}

// ApplyTuning overwrites every Controller with the given values.
func ApplyTuning(w *ecs.World, tuning component.Controller) {
	ecs.ForEach(w, component.ControllerComponent.Kind(), func(_ ecs.Entity, c *component.Controller) {
		*c = tuning
	})
}
