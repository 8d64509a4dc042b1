package system

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

var (
	debugOutline     = cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
	debugSolid       = cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
	debugSensorIdle  = cp.FColor{R: 0.3, G: 0.5, B: 1, A: 0.6}
	debugSensorHit   = cp.FColor{R: 1, G: 0.9, B: 0.1, A: 0.9}
	debugContactDot  = cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
	debugConstraints = cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
)

// DrawPhysicsDebug outlines every shape in the space on top of the render
// system's output. Both draw in world coordinates. Sensors are blue while
// clear and yellow while they overlap something.
func DrawPhysicsDebug(ps *PhysicsSystem, screen *ebiten.Image) {
	if ps == nil || ps.space == nil || screen == nil {
		return
	}
	cp.DrawSpace(ps.space, &shapeOutliner{dst: screen, sensors: ps.sensors})
}

// DrawContactDebug prints the contact flags and step stats in the corner.
func DrawContactDebug(ps *PhysicsSystem, w *ecs.World, screen *ebiten.Image) {
	if ps == nil || w == nil || screen == nil {
		return
	}
	var b strings.Builder
	stats := ps.Stats()
	fmt.Fprintf(&b, "frame %d  steps %d  bodies %d  sensors %d\n", stats.Frame, stats.Steps, ps.BodyCount(), ps.SensorCount())
	for _, e := range w.Query(component.CollisionsComponent.Kind(), component.PositionComponent.Kind()) {
		c, _ := ecs.Get(w, e, component.CollisionsComponent.Kind())
		p, _ := ecs.Get(w, e, component.PositionComponent.Kind())
		fmt.Fprintf(&b, "%s (%.0f,%.0f) top=%v left=%v right=%v bottom=%v\n", e, p.X, p.Y, c.Top, c.Left, c.Right, c.Bottom)
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 10, 24)
}

// shapeOutliner implements cp.Drawer with one pixel vector strokes.
type shapeOutliner struct {
	dst     *ebiten.Image
	sensors *sensorTracker
}

func (o *shapeOutliner) DrawCircle(pos cp.Vector, angle, radius float64, outline, _ cp.FColor, _ interface{}) {
	o.circle(pos, radius, outline)
	o.line(pos, pos.Add(cp.ForAngle(angle).Mult(radius)), outline)
}

func (o *shapeOutliner) DrawSegment(a, b cp.Vector, fill cp.FColor, _ interface{}) {
	o.line(a, b, fill)
}

// DrawFatSegment draws a rounded segment as its two long sides plus end caps.
func (o *shapeOutliner) DrawFatSegment(a, b cp.Vector, radius float64, outline, _ cp.FColor, _ interface{}) {
	if radius <= 0 {
		o.line(a, b, outline)
		return
	}
	side := b.Sub(a).Perp().Normalize().Mult(radius)
	o.line(a.Add(side), b.Add(side), outline)
	o.line(a.Sub(side), b.Sub(side), outline)
	o.circle(a, radius, outline)
	o.circle(b, radius, outline)
}

func (o *shapeOutliner) DrawPolygon(count int, verts []cp.Vector, _ float64, _, fill cp.FColor, _ interface{}) {
	for i := 0; i < count; i++ {
		o.line(verts[i], verts[(i+1)%count], fill)
	}
}

func (o *shapeOutliner) DrawDot(size float64, pos cp.Vector, fill cp.FColor, _ interface{}) {
	if size <= 0 {
		size = 2
	}
	vector.FillCircle(o.dst, float32(pos.X), float32(pos.Y), float32(size), debugColor(fill), true)
}

func (o *shapeOutliner) Flags() uint                    { return cp.DRAW_SHAPES }
func (o *shapeOutliner) OutlineColor() cp.FColor        { return debugOutline }
func (o *shapeOutliner) ConstraintColor() cp.FColor     { return debugConstraints }
func (o *shapeOutliner) CollisionPointColor() cp.FColor { return debugContactDot }
func (o *shapeOutliner) Data() interface{}              { return nil }

func (o *shapeOutliner) ShapeColor(shape *cp.Shape, _ interface{}) cp.FColor {
	if o.sensors == nil {
		return debugSolid
	}
	if _, ok := o.sensors.sensors[shape]; !ok {
		return debugSolid
	}
	if len(o.sensors.overlaps[shape]) > 0 {
		return debugSensorHit
	}
	return debugSensorIdle
}

func (o *shapeOutliner) line(a, b cp.Vector, c cp.FColor) {
	vector.StrokeLine(o.dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, debugColor(c), true)
}

func (o *shapeOutliner) circle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	vector.StrokeCircle(o.dst, float32(center.X), float32(center.Y), float32(radius), 1, debugColor(c), true)
}

func debugColor(c cp.FColor) color.NRGBA {
	channel := func(v float32) uint8 {
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 0xff
		default:
			return uint8(v * 0xff)
		}
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}
