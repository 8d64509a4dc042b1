package system

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// JumpContext is what a jump policy gets to decide with.
type JumpContext struct {
	Grounded  bool
	WallLeft  bool
	WallRight bool
	Ceiling   bool
	VelocityX float64
	VelocityY float64
}

// JumpPolicy gates jump requests. The physics system only reports contacts;
// whether a contact permits a jump is decided here.
type JumpPolicy interface {
	AllowJump(ctx JumpContext) (bool, error)
}

// GroundedJumpPolicy allows a jump only while the bottom sensor touches
// something.
type GroundedJumpPolicy struct{}

func (GroundedJumpPolicy) AllowJump(ctx JumpContext) (bool, error) {
	return ctx.Grounded, nil
}

// ScriptJumpPolicy runs a tengo script that must assign a boolean `allow`.
// The script sees grounded, wall_left, wall_right, ceiling, velocity_x and
// velocity_y.
type ScriptJumpPolicy struct {
	compiled *tengo.Compiled
}

// LoadScriptJumpPolicy compiles the script at path.
func LoadScriptJumpPolicy(path string) (*ScriptJumpPolicy, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jump policy: read %s: %w", path, err)
	}
	return NewScriptJumpPolicy(src)
}

func NewScriptJumpPolicy(src []byte) (*ScriptJumpPolicy, error) {
	script := tengo.NewScript(src)
	_ = script.Add("grounded", false)
	_ = script.Add("wall_left", false)
	_ = script.Add("wall_right", false)
	_ = script.Add("ceiling", false)
	_ = script.Add("velocity_x", 0.0)
	_ = script.Add("velocity_y", 0.0)
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("jump policy: compile: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("jump policy: run: %w", err)
	}
	if !compiled.IsDefined("allow") {
		return nil, fmt.Errorf("jump policy: script does not define allow")
	}
	return &ScriptJumpPolicy{compiled: compiled}, nil
}

func (p *ScriptJumpPolicy) AllowJump(ctx JumpContext) (bool, error) {
	if p == nil || p.compiled == nil {
		return false, fmt.Errorf("jump policy: nil script")
	}
	vars := []struct {
		name  string
		value any
	}{
		{"grounded", ctx.Grounded},
		{"wall_left", ctx.WallLeft},
		{"wall_right", ctx.WallRight},
		{"ceiling", ctx.Ceiling},
		{"velocity_x", ctx.VelocityX},
		{"velocity_y", ctx.VelocityY},
	}
	for _, v := range vars {
		if err := p.compiled.Set(v.name, v.value); err != nil {
			return false, fmt.Errorf("jump policy: set %s: %w", v.name, err)
		}
	}
	if err := p.compiled.Run(); err != nil {
		return false, fmt.Errorf("jump policy: run: %w", err)
	}
	return p.compiled.Get("allow").Bool(), nil
}
