package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

var (
	colorBoundary = color.NRGBA{R: 0x9a, G: 0x9a, B: 0xa8, A: 0xff}
	colorStatic   = color.NRGBA{R: 0x5c, G: 0x5c, B: 0x6e, A: 0xff}
	colorRigid    = color.NRGBA{R: 0xe0, G: 0x8a, B: 0x3c, A: 0xff}
	colorPlayer   = color.NRGBA{R: 0x3c, G: 0x78, B: 0xff, A: 0xff}
	colorContact  = color.NRGBA{R: 0xff, G: 0xe0, B: 0x30, A: 0xff}
)

// RenderSystem draws level boundaries and entity bounding boxes as flat
// shapes.
type RenderSystem struct {
	boundaries []levels.Boundary
}

func NewRenderSystem(boundaries []levels.Boundary) *RenderSystem {
	return &RenderSystem{boundaries: boundaries}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	for _, b := range r.boundaries {
		for i := 1; i < len(b.Points); i++ {
			a, c := b.Points[i-1], b.Points[i]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(c.X), float32(c.Y), 2, colorBoundary, true)
		}
	}

	for _, e := range w.Query(component.PositionComponent.Kind(), component.BoundingBoxComponent.Kind()) {
		pos, _ := ecs.Get(w, e, component.PositionComponent.Kind())
		box, _ := ecs.Get(w, e, component.BoundingBoxComponent.Kind())

		clr := colorStatic
		switch {
		case ecs.Has(w, e, component.PlayerTagComponent.Kind()):
			clr = colorPlayer
		case ecs.Has(w, e, component.DensityComponent.Kind()):
			clr = colorRigid
		}

		x := float32(pos.X - box.Width/2)
		y := float32(pos.Y - box.Height/2)
		vector.DrawFilledRect(screen, x, y, float32(box.Width), float32(box.Height), clr, false)

		if c, ok := ecs.Get(w, e, component.CollisionsComponent.Kind()); ok {
			drawContactEdges(screen, x, y, float32(box.Width), float32(box.Height), c)
		}
	}
}

func drawContactEdges(screen *ebiten.Image, x, y, width, height float32, c *component.Collisions) {
	const edge = 2
	if c.Top {
		vector.DrawFilledRect(screen, x, y, width, edge, colorContact, false)
	}
	if c.Bottom {
		vector.DrawFilledRect(screen, x, y+height-edge, width, edge, colorContact, false)
	}
	if c.Left {
		vector.DrawFilledRect(screen, x, y, edge, height, colorContact, false)
	}
	if c.Right {
		vector.DrawFilledRect(screen, x+width-edge, y, edge, height, colorContact, false)
	}
}
