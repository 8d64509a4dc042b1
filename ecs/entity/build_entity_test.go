package entity

import (
	"strings"
	"testing"

	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

func TestBuildEntityFromPrefab(t *testing.T) {
	w := ecs.NewWorld()
	ctrl := config.Default().Controller

	e, err := BuildEntity(w, levels.Entity{
		Name:   "player",
		Prefab: "player",
		Components: map[string]any{
			"position":   map[string]any{"x": 120.0, "y": 420.0},
			"controller": map[string]any{"run_acceleration": 1000.0},
		},
	}, &BuildContext{Controller: ctrl})
	if err != nil {
		t.Fatalf("BuildEntity: %v", err)
	}

	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		t.Fatalf("expected player tag from prefab")
	}
	if p, ok := ecs.Get(w, e, component.PositionComponent.Kind()); !ok || p.X != 120 || p.Y != 420 {
		t.Fatalf("expected position override, got %v ok=%v", p, ok)
	}
	if b, ok := ecs.Get(w, e, component.BoundingBoxComponent.Kind()); !ok || b.Width != 32 || b.Height != 30 {
		t.Fatalf("expected 32x30 box from prefab, got %v ok=%v", b, ok)
	}
	if d, ok := ecs.Get(w, e, component.DensityComponent.Kind()); !ok || d.Value != 1 {
		t.Fatalf("expected density 1 from prefab, got %v ok=%v", d, ok)
	}
	for _, has := range []bool{
		ecs.Has(w, e, component.VelocityComponent.Kind()),
		ecs.Has(w, e, component.CollisionsComponent.Kind()),
		ecs.Has(w, e, component.InputComponent.Kind()),
	} {
		if !has {
			t.Fatalf("expected velocity, collisions and input from prefab")
		}
	}

	c, ok := ecs.Get(w, e, component.ControllerComponent.Kind())
	if !ok {
		t.Fatalf("expected controller")
	}
	if c.RunAcceleration != 1000 {
		t.Fatalf("expected run acceleration override 1000, got %g", c.RunAcceleration)
	}
	if c.JumpAcceleration != ctrl.JumpAcceleration || c.HorizontalDrag != ctrl.HorizontalDrag {
		t.Fatalf("expected config defaults for unset controller fields, got %+v", *c)
	}
}

func TestBuildEntityStaticPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, levels.Entity{
		Name:       "ledge",
		Prefab:     "platform",
		Components: map[string]any{"position": map[string]any{"x": 10.0, "y": 20.0}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildEntity: %v", err)
	}
	if ecs.Has(w, e, component.DensityComponent.Kind()) {
		t.Fatalf("platform must not be rigid")
	}
	if b, _ := ecs.Get(w, e, component.BoundingBoxComponent.Kind()); b == nil || b.Width != 128 {
		t.Fatalf("expected prefab bounding box, got %v", b)
	}
}

func TestBuildEntityRigidGetsVelocity(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, levels.Entity{Name: "rock", Components: map[string]any{
		"position":     map[string]any{"x": 5.0},
		"bounding_box": map[string]any{"width": 8.0, "height": 8.0},
		"density":      map[string]any{"value": 2.0},
	}}, nil)
	if err != nil {
		t.Fatalf("BuildEntity: %v", err)
	}
	v, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
	if !ok || *v != (component.Velocity{}) {
		t.Fatalf("expected a zero velocity on a rigid entity, got %v ok=%v", v, ok)
	}

	seeded, err := BuildEntity(w, levels.Entity{Name: "thrown", Components: map[string]any{
		"position":     map[string]any{},
		"bounding_box": map[string]any{"width": 8.0, "height": 8.0},
		"density":      map[string]any{"value": 2.0},
		"velocity":     map[string]any{"x": 30.0},
	}}, nil)
	if err != nil {
		t.Fatalf("BuildEntity: %v", err)
	}
	if v, _ := ecs.Get(w, seeded, component.VelocityComponent.Kind()); v == nil || v.X != 30 {
		t.Fatalf("expected the declared velocity to win, got %v", v)
	}

	static, err := BuildEntity(w, levels.Entity{Name: "wall", Components: map[string]any{
		"position":     map[string]any{},
		"bounding_box": map[string]any{"width": 8.0, "height": 8.0},
	}}, nil)
	if err != nil {
		t.Fatalf("BuildEntity: %v", err)
	}
	if ecs.Has(w, static, component.VelocityComponent.Kind()) {
		t.Fatalf("static entity must not get a velocity")
	}
}

func TestBuildEntityErrors(t *testing.T) {
	tests := []struct {
		name string
		spec levels.Entity
		want string
	}{
		{
			name: "unknown_component",
			spec: levels.Entity{Name: "x", Components: map[string]any{"sprite": map[string]any{}}},
			want: `no builder for component "sprite"`,
		},
		{
			name: "missing_prefab",
			spec: levels.Entity{Name: "x", Prefab: "nope"},
			want: "prefabs: load",
		},
		{
			name: "empty",
			spec: levels.Entity{Name: "x"},
			want: "does not define components",
		},
		{
			name: "bad_density",
			spec: levels.Entity{Name: "x", Components: map[string]any{
				"position":     map[string]any{},
				"bounding_box": map[string]any{"width": 1.0, "height": 1.0},
				"density":      map[string]any{"value": 0.0},
			}},
			want: "density must be positive",
		},
		{
			name: "bad_box",
			spec: levels.Entity{Name: "x", Components: map[string]any{
				"bounding_box": map[string]any{"width": -1.0, "height": 1.0},
			}},
			want: "bounding box must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildEntity(w, tc.spec, nil)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("expected failed build to leave no entity, got %d", n)
			}
		})
	}
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.Load("default")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	w := ecs.NewWorld()
	ents, err := LoadLevelToWorld(w, lvl, &BuildContext{Controller: config.Default().Controller})
	if err != nil {
		t.Fatalf("LoadLevelToWorld: %v", err)
	}
	if len(ents) != len(lvl.Entities) {
		t.Fatalf("expected %d entities, got %d", len(lvl.Entities), len(ents))
	}
	if players := w.Query(component.PlayerTagComponent.Kind()); len(players) != 1 {
		t.Fatalf("expected one player, got %d", len(players))
	}
	rigid := w.Query(component.DensityComponent.Kind())
	if len(rigid) != 3 {
		t.Fatalf("expected player and two crates to be rigid, got %d", len(rigid))
	}
}

func TestMergedTileColliders(t *testing.T) {
	// A full bottom row merges into one floor; the lone tile stays single.
	tiles := &levels.TileLayer{
		TileSize: 16,
		Width:    4,
		Height:   3,
		Cells: []int{
			0, 1, 0, 0,
			0, 0, 0, 0,
			1, 1, 1, 1,
		},
	}
	w := ecs.NewWorld()
	ents, err := addMergedTileColliders(w, tiles)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("expected 2 colliders, got %d", len(ents))
	}

	want := []struct {
		pos component.Position
		box component.BoundingBox
	}{
		{component.Position{X: 24, Y: 8}, component.BoundingBox{Width: 16, Height: 16}},
		{component.Position{X: 32, Y: 40}, component.BoundingBox{Width: 64, Height: 16}},
	}
	for i, e := range ents {
		p, _ := ecs.Get(w, e, component.PositionComponent.Kind())
		b, _ := ecs.Get(w, e, component.BoundingBoxComponent.Kind())
		if *p != want[i].pos || *b != want[i].box {
			t.Fatalf("collider %d: expected %+v %+v, got %+v %+v", i, want[i].pos, want[i].box, *p, *b)
		}
		if ecs.Has(w, e, component.DensityComponent.Kind()) {
			t.Fatalf("tile collider %d must be static", i)
		}
	}
}
