package system

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// InputSystem samples the bound keys and the first gamepad once per update and
// copies the result into every Input component.
type InputSystem struct {
	left, right, jump []ebiten.Key
	deadzone          float64
}

func NewInputSystem(cfg config.InputConfig) (*InputSystem, error) {
	left, err := parseKeys("left", cfg.Left)
	if err != nil {
		return nil, err
	}
	right, err := parseKeys("right", cfg.Right)
	if err != nil {
		return nil, err
	}
	jump, err := parseKeys("jump", cfg.Jump)
	if err != nil {
		return nil, err
	}
	return &InputSystem{left: left, right: right, jump: jump, deadzone: cfg.StickDeadzone}, nil
}

func parseKeys(action string, names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	for _, name := range names {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("input: %s binding: %w", action, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// inputSample is the raw state of the bound controls for one update.
type inputSample struct {
	left, right       bool
	jump, jumpPressed bool
	stickX            float64
}

// moveX resolves the horizontal axis. A stick pushed past the deadzone
// overrides the keys.
func (s inputSample) moveX(deadzone float64) float64 {
	if math.Abs(s.stickX) > deadzone {
		return math.Max(-1, math.Min(1, s.stickX))
	}
	x := 0.0
	if s.left {
		x--
	}
	if s.right {
		x++
	}
	return x
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s := inputSample{
		left:        anyKeyPressed(i.left),
		right:       anyKeyPressed(i.right),
		jump:        anyKeyPressed(i.jump),
		jumpPressed: anyKeyJustPressed(i.jump),
	}
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		id := ids[0]
		s.stickX = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		s.jump = s.jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		s.jumpPressed = s.jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}

	moveX := s.moveX(i.deadzone)
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.MoveX = moveX
		in.Jump = s.jump
		in.JumpPressed = s.jumpPressed
	})
}

func anyKeyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyKeyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
