package system

import (
	"image/color"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs/component"
)

func TestShapeOutlinerColors(t *testing.T) {
	s := newScene(t, floorBoundary())
	e := s.addRigid(t, 0, 150, true)
	s.frames(120)

	o := &shapeOutliner{sensors: s.ps.sensors}
	rb, _ := s.ps.Lookup(e)
	if got := o.ShapeColor(rb.(RigidBody).Shape, nil); got != debugSolid {
		t.Fatalf("expected the body shape in the solid colour, got %+v", got)
	}

	hits := map[component.Direction]bool{}
	for shape, key := range s.ps.sensors.sensors {
		switch got := o.ShapeColor(shape, nil); got {
		case debugSensorHit:
			hits[key.dir] = true
		case debugSensorIdle:
		default:
			t.Fatalf("sensor %v drawn in %+v", key.dir, got)
		}
	}
	if len(hits) != 1 || !hits[component.DirectionBottom] {
		t.Fatalf("expected only the bottom sensor highlighted, got %v", hits)
	}

	if got := (&shapeOutliner{}).ShapeColor(rb.(RigidBody).Shape, nil); got != debugSolid {
		t.Fatalf("expected the solid colour without a tracker, got %+v", got)
	}
}

func TestDebugColor(t *testing.T) {
	tests := []struct {
		name string
		in   cp.FColor
		want color.NRGBA
	}{
		{"opaque_white", cp.FColor{R: 1, G: 1, B: 1, A: 1}, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"clamped", cp.FColor{R: -0.5, G: 2, B: 0, A: 1.5}, color.NRGBA{G: 0xff, A: 0xff}},
		{"half", cp.FColor{R: 0.5, A: 0.5}, color.NRGBA{R: 127, A: 127}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := debugColor(tc.in); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
