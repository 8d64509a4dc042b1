// Package config loads game and physics tuning from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTargetFPS       = 60
	DefaultGravity         = 900.0
	DefaultIterations      = 20
	DefaultCollisionMargin = 0.5
	DefaultBodyFriction    = 0.8
	DefaultStaticFriction  = 0.9
	DefaultSensorScale     = 0.8
	DefaultSensorDepth     = 2.0
	DefaultSensorInset     = 0.5
)

const (
	ClockTick = "tick"
	ClockWall = "wall"
)

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Controller ControllerConfig `yaml:"controller"`
	Input      InputConfig      `yaml:"input"`
	Clock      string           `yaml:"clock"`
	Level      string           `yaml:"level"`
	Debug      bool             `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// PhysicsConfig is read once when the physics system is built.
type PhysicsConfig struct {
	TargetFPS       int     `yaml:"target_fps"`
	Gravity         float64 `yaml:"gravity"`
	Iterations      int     `yaml:"iterations"`
	Damping         float64 `yaml:"damping"`
	CollisionMargin float64 `yaml:"collision_margin"`
	BodyFriction    float64 `yaml:"body_friction"`
	StaticFriction  float64 `yaml:"static_friction"`
	SensorScale     float64 `yaml:"sensor_scale"`
	SensorDepth     float64 `yaml:"sensor_depth"`
	// SensorInset is how far each sensor reaches back inside its edge, as a
	// fraction of the half-extent across that edge.
	SensorInset  float64 `yaml:"sensor_inset"`
	LockRotation bool    `yaml:"lock_rotation"`
}

// ControllerConfig tunes the keyboard controller. It may be reloaded while the
// game runs.
type ControllerConfig struct {
	RunAcceleration  float64 `yaml:"run_acceleration"`
	JumpAcceleration float64 `yaml:"jump_acceleration"`
	HorizontalDrag   float64 `yaml:"horizontal_drag"`
	JumpPolicy       string  `yaml:"jump_policy"`
}

// InputConfig binds keyboard keys to actions by ebiten key name, for example
// "A", "ArrowLeft" or "Space". The first gamepad's left stick and bottom face
// button are always read as well.
type InputConfig struct {
	Left          []string `yaml:"left"`
	Right         []string `yaml:"right"`
	Jump          []string `yaml:"jump"`
	StickDeadzone float64  `yaml:"stick_deadzone"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  960,
			Height: 540,
			Title:  "platformer",
		},
		Physics: PhysicsConfig{
			TargetFPS:       DefaultTargetFPS,
			Gravity:         DefaultGravity,
			Iterations:      DefaultIterations,
			Damping:         1,
			CollisionMargin: DefaultCollisionMargin,
			BodyFriction:    DefaultBodyFriction,
			StaticFriction:  DefaultStaticFriction,
			SensorScale:     DefaultSensorScale,
			SensorDepth:     DefaultSensorDepth,
			SensorInset:     DefaultSensorInset,
			LockRotation:    true,
		},
		Controller: ControllerConfig{
			RunAcceleration:  2400,
			JumpAcceleration: 27000,
			HorizontalDrag:   6,
		},
		Input: InputConfig{
			Left:          []string{"A", "ArrowLeft"},
			Right:         []string{"D", "ArrowRight"},
			Jump:          []string{"Space"},
			StickDeadzone: 0.2,
		},
		Clock: ClockTick,
		Level: "default.yaml",
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	p := c.Physics
	if p.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("physics.target_fps must be positive, got %d", p.TargetFPS))
	}
	if p.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("physics.iterations must be positive, got %d", p.Iterations))
	}
	if p.Damping <= 0 || p.Damping > 1 {
		errs = append(errs, fmt.Errorf("physics.damping must be in (0,1], got %g", p.Damping))
	}
	if p.CollisionMargin < 0 {
		errs = append(errs, fmt.Errorf("physics.collision_margin must not be negative, got %g", p.CollisionMargin))
	}
	if !ValidFriction(p.BodyFriction) {
		errs = append(errs, fmt.Errorf("physics.body_friction must be in [0,1], got %g", p.BodyFriction))
	}
	if !ValidFriction(p.StaticFriction) {
		errs = append(errs, fmt.Errorf("physics.static_friction must be in [0,1], got %g", p.StaticFriction))
	}
	if p.SensorScale <= 0 || p.SensorScale > 1 {
		errs = append(errs, fmt.Errorf("physics.sensor_scale must be in (0,1], got %g", p.SensorScale))
	}
	if p.SensorDepth <= 0 {
		errs = append(errs, fmt.Errorf("physics.sensor_depth must be positive, got %g", p.SensorDepth))
	}
	if p.SensorInset < 0 || p.SensorInset > 1 {
		errs = append(errs, fmt.Errorf("physics.sensor_inset must be in [0,1], got %g", p.SensorInset))
	}
	if c.Controller.HorizontalDrag < 0 {
		errs = append(errs, fmt.Errorf("controller.horizontal_drag must not be negative, got %g", c.Controller.HorizontalDrag))
	}
	for action, keys := range map[string][]string{"left": c.Input.Left, "right": c.Input.Right, "jump": c.Input.Jump} {
		if len(keys) == 0 {
			errs = append(errs, fmt.Errorf("input.%s needs at least one key", action))
		}
	}
	if c.Input.StickDeadzone < 0 || c.Input.StickDeadzone >= 1 {
		errs = append(errs, fmt.Errorf("input.stick_deadzone must be in [0,1), got %g", c.Input.StickDeadzone))
	}
	if c.Clock != ClockTick && c.Clock != ClockWall {
		errs = append(errs, fmt.Errorf("clock must be %q or %q, got %q", ClockTick, ClockWall, c.Clock))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// ValidFriction reports whether f is a usable friction coefficient.
func ValidFriction(f float64) bool {
	return f >= 0 && f <= 1
}

// Timestep is the fixed simulation step in seconds.
func (p PhysicsConfig) Timestep() float64 {
	return 1.0 / float64(p.TargetFPS)
}
