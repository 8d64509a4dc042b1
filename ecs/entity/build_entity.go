package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
)

// BuildContext carries defaults that component specs may leave out.
type BuildContext struct {
	Name       string
	Controller config.ControllerConfig
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":           addPlayerTag,
	"position":             addPosition,
	"velocity":             addVelocity,
	"bounding_box":         addBoundingBox,
	"density":              addDensity,
	"applied_force":        addAppliedForce,
	"applied_acceleration": addAppliedAcceleration,
	"collisions":           addCollisions,
	"input":                addInput,
	"controller":           addController,
}

// Collisions must precede physics registration, which happens on the next
// physics update, so build order only matters for readable failures.
var componentBuildOrder = []string{
	"player_tag",
	"position",
	"velocity",
	"bounding_box",
	"density",
	"applied_force",
	"applied_acceleration",
	"collisions",
	"input",
	"controller",
}

// BuildEntity creates an entity from a level entry, layering its components
// over those of its prefab.
func BuildEntity(w *ecs.World, spec levels.Entity, ctx *BuildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if ctx == nil {
		ctx = &BuildContext{Controller: config.Default().Controller}
	}
	ctx.Name = spec.Name

	components := make(map[string]any)
	if spec.Prefab != "" {
		prefab, err := prefabs.LoadEntityBuildSpec(spec.Prefab)
		if err != nil {
			return 0, fmt.Errorf("build entity: %q: %w", spec.Name, err)
		}
		for k, v := range prefab.Components {
			components[k] = v
		}
	}
	for k, v := range spec.Components {
		components[k] = v
	}
	if len(components) == 0 {
		return 0, fmt.Errorf("build entity: %q does not define components", spec.Name)
	}
	// Rigid bodies write their velocity back every frame.
	if _, rigid := components["density"]; rigid {
		if _, ok := components["velocity"]; !ok {
			components["velocity"] = map[string]any{}
		}
	}

	names := make([]string, 0, len(components))
	for name := range components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", spec.Name, name)
		}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return buildRank(names[i]) < buildRank(names[j])
	})

	e := ecs.CreateEntity(w)
	for _, name := range names {
		if err := componentRegistry[name](w, e, components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", spec.Name, name, err)
		}
	}
	return e, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

type vectorSpec = prefabs.VectorComponentSpec

func addPosition(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[vectorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode position spec: %w", err)
	}
	return ecs.Add(w, e, component.PositionComponent.Kind(), &component.Position{X: spec.X, Y: spec.Y})
}

func addVelocity(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[vectorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode velocity spec: %w", err)
	}
	return ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{X: spec.X, Y: spec.Y})
}

func addBoundingBox(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BoundingBoxComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode bounding box spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("bounding box must be positive, got %gx%g", spec.Width, spec.Height)
	}
	return ecs.Add(w, e, component.BoundingBoxComponent.Kind(), &component.BoundingBox{Width: spec.Width, Height: spec.Height})
}

func addDensity(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DensityComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode density spec: %w", err)
	}
	if spec.Value <= 0 {
		return fmt.Errorf("density must be positive, got %g", spec.Value)
	}
	return ecs.Add(w, e, component.DensityComponent.Kind(), &component.Density{Value: spec.Value})
}

func addAppliedForce(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[vectorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode applied force spec: %w", err)
	}
	return ecs.Add(w, e, component.AppliedForceComponent.Kind(), &component.AppliedForce{X: spec.X, Y: spec.Y})
}

func addAppliedAcceleration(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[vectorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode applied acceleration spec: %w", err)
	}
	return ecs.Add(w, e, component.AppliedAccelerationComponent.Kind(), &component.AppliedAcceleration{X: spec.X, Y: spec.Y})
}

func addCollisions(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.CollisionsComponent.Kind(), &component.Collisions{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addController(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ControllerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode controller spec: %w", err)
	}
	ctrl := ControllerFromConfig(ctx.Controller)
	if spec.RunAcceleration != 0 {
		ctrl.RunAcceleration = spec.RunAcceleration
	}
	if spec.JumpAcceleration != 0 {
		ctrl.JumpAcceleration = spec.JumpAcceleration
	}
	if spec.HorizontalDrag != 0 {
		ctrl.HorizontalDrag = spec.HorizontalDrag
	}
	return ecs.Add(w, e, component.ControllerComponent.Kind(), &ctrl)
}

// ControllerFromConfig converts controller tuning to a component value.
func ControllerFromConfig(c config.ControllerConfig) component.Controller {
	return component.Controller{
		RunAcceleration:  c.RunAcceleration,
		JumpAcceleration: c.JumpAcceleration,
		HorizontalDrag:   c.HorizontalDrag,
	}
}
