// Package game wires the ECS world, its systems and the physics bridge into
// a playable session.
package game

import (
	"fmt"
	"log"

	"github.com/milk9111/platformer/clock"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
)

// Session owns one world and the systems that update it.
type Session struct {
	Config     *config.Config
	Level      *levels.Level
	World      *ecs.World
	Physics    *system.PhysicsSystem
	Controller *system.PlayerControllerSystem
	Scheduler  *ecs.Scheduler
	Clock      clock.Source
}

// NewSession loads the level entities into a fresh world and builds the
// physics system from the level boundaries. Input is sampled only when
// withInput is set, so headless runs can drive Input components directly.
func NewSession(cfg *config.Config, lvl *levels.Level, src clock.Source, withInput bool) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if lvl == nil {
		return nil, fmt.Errorf("game: level is nil")
	}
	if src == nil {
		src = clock.NewCounter()
	}

	w := ecs.NewWorld()
	if _, err := entity.LoadLevelToWorld(w, lvl, &entity.BuildContext{Controller: cfg.Controller}); err != nil {
		return nil, fmt.Errorf("game: load level %s: %w", lvl.Name, err)
	}

	policy, err := loadJumpPolicy(cfg.Controller.JumpPolicy)
	if err != nil {
		return nil, err
	}

	physics := system.NewPhysicsSystem(cfg.Physics, src, lvl.Boundaries)
	physics.Verbose = cfg.Debug
	controller := system.NewPlayerControllerSystem(policy)

	scheduler := ecs.NewScheduler()
	if withInput {
		input, err := system.NewInputSystem(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("game: %w", err)
		}
		scheduler.Add(input)
	}
	scheduler.Add(controller)
	scheduler.Add(physics)

	return &Session{
		Config:     cfg,
		Level:      lvl,
		World:      w,
		Physics:    physics,
		Controller: controller,
		Scheduler:  scheduler,
		Clock:      src,
	}, nil
}

// Update runs every system once and returns the events they produced.
func (s *Session) Update() []ecs.Event {
	s.Scheduler.Update(s.World)
	events := s.World.Events().Drain()
	if s.Config.Debug {
		for _, evt := range events {
			if c, ok := evt.Data.(ecs.CollisionEvent); ok {
				log.Printf("contact: entity %s %s touching=%v", c.Entity, c.Direction, c.Touching)
			}
		}
	}
	return events
}

// ApplyController swaps in new controller tuning and jump policy.
func (s *Session) ApplyController(c config.ControllerConfig) error {
	policy, err := loadJumpPolicy(c.JumpPolicy)
	if err != nil {
		return err
	}
	s.Config.Controller = c
	system.ApplyTuning(s.World, entity.ControllerFromConfig(c))
	s.Controller.SetPolicy(policy)
	return nil
}

func loadJumpPolicy(path string) (system.JumpPolicy, error) {
	if path == "" {
		return system.GroundedJumpPolicy{}, nil
	}
	policy, err := system.LoadScriptJumpPolicy(path)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return policy, nil
}
