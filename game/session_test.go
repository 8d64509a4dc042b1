package game

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

func defaultLevel(t *testing.T) *levels.Level {
	t.Helper()
	lvl, err := LoadLevel("default")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	return lvl
}

func player(t *testing.T, s *Session) ecs.Entity {
	t.Helper()
	e, ok := s.World.First(component.PlayerTagComponent.Kind())
	if !ok {
		t.Fatalf("no player in world")
	}
	return e
}

func TestSimulateSettlesPlayer(t *testing.T) {
	var out bytes.Buffer
	s, err := Simulate(config.Default(), defaultLevel(t), SimulateOptions{Frames: 120, Burst: 3}, &out)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if got := s.Physics.TotalSteps(); got != 120 {
		t.Fatalf("expected 120 steps, got %d", got)
	}
	if got := s.Physics.Stats().Steps; got != 3 {
		t.Fatalf("expected the last update to take a 3 frame burst, got %d", got)
	}

	c, ok := ecs.Get(s.World, player(t, s), component.CollisionsComponent.Kind())
	if !ok || !c.Bottom {
		t.Fatalf("expected the player to be grounded, got %+v", c)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[0], "frame") {
		t.Fatalf("expected a header line, got %q", lines[0])
	}
	// One row per rigid entity: player and two crates.
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "120") {
		t.Fatalf("expected rows for frame 120, got %q", lines[1])
	}
}

func TestSimulateRunsRight(t *testing.T) {
	s, err := Simulate(config.Default(), defaultLevel(t), SimulateOptions{Frames: 30, MoveX: 1}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	v, _ := ecs.Get(s.World, player(t, s), component.VelocityComponent.Kind())
	if v.X <= 0 {
		t.Fatalf("expected the player to move right, got vx=%g", v.X)
	}
}

func TestSimulateReportsEvery(t *testing.T) {
	var out bytes.Buffer
	if _, err := Simulate(config.Default(), defaultLevel(t), SimulateOptions{Frames: 20, Every: 5}, &out); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// Four reports of three rows each.
	if len(lines) != 1+4*3 {
		t.Fatalf("expected 13 lines, got %d:\n%s", len(lines), out.String())
	}
}

func TestNewSessionErrors(t *testing.T) {
	if _, err := NewSession(config.Default(), nil, nil, false); err == nil {
		t.Fatalf("expected error for nil level")
	}

	cfg := config.Default()
	cfg.Controller.JumpPolicy = filepath.Join(t.TempDir(), "missing.tengo")
	if _, err := NewSession(cfg, defaultLevel(t), nil, false); err == nil {
		t.Fatalf("expected error for missing jump policy script")
	}

	cfg = config.Default()
	cfg.Input.Jump = []string{"Trigger"}
	if _, err := NewSession(cfg, defaultLevel(t), nil, true); err == nil || !strings.Contains(err.Error(), "jump binding") {
		t.Fatalf("expected jump binding error, got %v", err)
	}

	lvl := defaultLevel(t)
	lvl.Entities = append(lvl.Entities, levels.Entity{Name: "bad", Components: map[string]any{"sprite": map[string]any{}}})
	if _, err := NewSession(config.Default(), lvl, nil, false); err == nil || !strings.Contains(err.Error(), "sprite") {
		t.Fatalf("expected unknown component error, got %v", err)
	}
}

func TestApplyController(t *testing.T) {
	s, err := NewSession(config.Default(), defaultLevel(t), nil, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	script := filepath.Join(t.TempDir(), "jump.tengo")
	if err := os.WriteFile(script, []byte("allow := true"), 0o644); err != nil {
		t.Fatal(err)
	}

	tuning := config.ControllerConfig{RunAcceleration: 10, JumpAcceleration: 20, HorizontalDrag: 1, JumpPolicy: script}
	if err := s.ApplyController(tuning); err != nil {
		t.Fatalf("ApplyController: %v", err)
	}
	c, _ := ecs.Get(s.World, player(t, s), component.ControllerComponent.Kind())
	if c.RunAcceleration != 10 || c.JumpAcceleration != 20 || c.HorizontalDrag != 1 {
		t.Fatalf("expected reloaded tuning, got %+v", *c)
	}

	bad := tuning
	bad.JumpPolicy = filepath.Join(t.TempDir(), "missing.tengo")
	bad.RunAcceleration = 99
	if err := s.ApplyController(bad); err == nil {
		t.Fatalf("expected error for missing script")
	}
	if c.RunAcceleration != 10 {
		t.Fatalf("failed reload must not change tuning, got %+v", *c)
	}
}
