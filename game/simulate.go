package game

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/milk9111/platformer/clock"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

// SimulateOptions controls a headless run.
type SimulateOptions struct {
	Frames int
	// Burst is how many frames elapse between updates. Values above one
	// model a lagging loop.
	Burst int
	// Every prints a report after every Every updates; zero prints only the
	// final state.
	Every int
	// MoveX and Jump drive every Input component for the whole run.
	MoveX float64
	Jump  bool
}

// Simulate runs a level without a window and writes a table of every rigid
// entity's state.
func Simulate(cfg *config.Config, lvl *levels.Level, opts SimulateOptions, out io.Writer) (*Session, error) {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	counter := clock.NewCounter()
	session, err := NewSession(cfg, lvl, counter, false)
	if err != nil {
		return nil, err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "frame\tentity\tx\ty\tvx\tvy\ttop\tleft\tright\tbottom")

	updates := 0
	for frame := 0; frame < opts.Frames; frame += opts.Burst {
		burst := opts.Burst
		if remaining := opts.Frames - frame; remaining < burst {
			burst = remaining
		}
		driveInput(session.World, opts, updates)
		counter.Advance(uint64(burst))
		session.Update()
		updates++
		if opts.Every > 0 && updates%opts.Every == 0 {
			writeState(tw, session)
		}
	}
	if opts.Every <= 0 || updates%opts.Every != 0 {
		writeState(tw, session)
	}
	if err := tw.Flush(); err != nil {
		return session, fmt.Errorf("game: write report: %w", err)
	}
	return session, nil
}

// driveInput presses jump on every other update so each press is a fresh
// edge.
func driveInput(w *ecs.World, opts SimulateOptions, update int) {
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.MoveX = opts.MoveX
		in.Jump = opts.Jump
		in.JumpPressed = opts.Jump && update%2 == 0
	})
}

func writeState(tw io.Writer, s *Session) {
	frame := s.Clock.Frame()
	for _, e := range s.World.Query(component.DensityComponent.Kind(), component.PositionComponent.Kind()) {
		pos, _ := ecs.Get(s.World, e, component.PositionComponent.Kind())
		var vel component.Velocity
		if v, ok := ecs.Get(s.World, e, component.VelocityComponent.Kind()); ok {
			vel = *v
		}
		var c component.Collisions
		if col, ok := ecs.Get(s.World, e, component.CollisionsComponent.Kind()); ok {
			c = *col
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%v\t%v\t%v\t%v\n",
			frame, e, pos.X, pos.Y, vel.X, vel.Y, c.Top, c.Left, c.Right, c.Bottom)
	}
}
