package entity

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

// LoadLevelToWorld creates the level's entities, plus one static entity per
// merged rectangle of solid tiles. Boundaries are not entities; they go
// straight to the physics system.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level, ctx *BuildContext) ([]ecs.Entity, error) {
	var out []ecs.Entity
	if lvl == nil {
		return nil, nil
	}

	if lvl.Tiles != nil {
		ents, err := addMergedTileColliders(world, lvl.Tiles)
		if err != nil {
			return nil, err
		}
		out = append(out, ents...)
	}

	for _, spec := range lvl.Entities {
		e, err := BuildEntity(world, spec, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// addMergedTileColliders greedily merges solid cells into rectangles, widest
// run first, so a flat floor becomes one collider instead of a row of tiles.
func addMergedTileColliders(world *ecs.World, tiles *levels.TileLayer) ([]ecs.Entity, error) {
	width, height := tiles.Width, tiles.Height
	if width <= 0 || height <= 0 {
		return nil, nil
	}
	layer := tiles.Cells
	tileSize := tiles.TileSize
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	solid := func(idx int) bool { return idx < len(layer) && !visited[idx] && layer[idx] > 0 }

	var out []ecs.Entity
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !solid(index(x, y)) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && solid(index(x2, y)); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !solid(index(x2, y2)) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}

			w := float64(maxW) * tileSize
			h := float64(maxH) * tileSize
			e := ecs.CreateEntity(world)
			if err := ecs.Add(world, e, component.PositionComponent.Kind(), &component.Position{
				X: float64(x)*tileSize + w/2,
				Y: float64(y)*tileSize + h/2,
			}); err != nil {
				return nil, err
			}
			if err := ecs.Add(world, e, component.BoundingBoxComponent.Kind(), &component.BoundingBox{Width: w, Height: h}); err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}
