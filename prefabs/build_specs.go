package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type VectorComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BoundingBoxComponentSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type DensityComponentSpec struct {
	Value float64 `yaml:"value"`
}

// ControllerComponentSpec fields left at zero take the configured defaults.
type ControllerComponentSpec struct {
	RunAcceleration  float64 `yaml:"run_acceleration"`
	JumpAcceleration float64 `yaml:"jump_acceleration"`
	HorizontalDrag   float64 `yaml:"horizontal_drag"`
}
