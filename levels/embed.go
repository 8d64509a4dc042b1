package levels

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Level is the static description of a playable area.
type Level struct {
	Name       string     `yaml:"name"`
	Width      float64    `yaml:"width"`
	Height     float64    `yaml:"height"`
	Boundaries []Boundary `yaml:"boundaries"`
	Tiles      *TileLayer `yaml:"tiles"`
	Entities   []Entity   `yaml:"entities"`
}

// TileLayer is an optional solid-tile grid, row-major. Non-zero cells are
// solid.
type TileLayer struct {
	TileSize float64 `yaml:"tile_size"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Cells    []int   `yaml:"cells"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Boundary is an open polyline of ground or wall with no entity behind it.
type Boundary struct {
	Points   []Point `yaml:"points"`
	Friction float64 `yaml:"friction"`
}

// Entity is a named bag of component specs, decoded by ecs/entity. Components
// listed here override those of the prefab, if one is named.
type Entity struct {
	Name       string         `yaml:"name"`
	Prefab     string         `yaml:"prefab"`
	Components map[string]any `yaml:"components"`
}

// Load reads a level by name, preferring levels/<name> on disk over the
// embedded copy so levels can be edited without rebuilding.
func Load(name string) (*Level, error) {
	clean := cleanLevelPath(name)
	data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean)))
	if err != nil {
		data, err = LevelsFS.ReadFile(clean)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", clean, err)
		}
	}
	return Parse(data)
}

// LoadFile reads a level from an explicit path.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	var errs []error
	if l.Width <= 0 || l.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid level dimensions: %gx%g", l.Width, l.Height))
	}
	for i, b := range l.Boundaries {
		if len(b.Points) < 2 {
			errs = append(errs, fmt.Errorf("boundary %d: need at least 2 points, got %d", i, len(b.Points)))
		}
		if b.Friction < 0 || b.Friction > 1 {
			errs = append(errs, fmt.Errorf("boundary %d: friction must be in [0,1], got %g", i, b.Friction))
		}
	}
	if t := l.Tiles; t != nil {
		if t.TileSize <= 0 || t.Width <= 0 || t.Height <= 0 {
			errs = append(errs, fmt.Errorf("tiles: invalid grid %dx%d of size %g", t.Width, t.Height, t.TileSize))
		} else if len(t.Cells) != t.Width*t.Height {
			errs = append(errs, fmt.Errorf("tiles: expected %d cells, got %d", t.Width*t.Height, len(t.Cells)))
		}
	}
	for i, e := range l.Entities {
		if len(e.Components) == 0 && e.Prefab == "" {
			errs = append(errs, fmt.Errorf("entity %d (%q): no components or prefab", i, e.Name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("levels: %s: %w", l.Name, err)
	}
	return nil
}

func cleanLevelPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}
