// Package clock supplies the discrete frame count that drives fixed-step
// simulation.
package clock

import (
	"math"
	"time"
)

// Source reports how many frames have elapsed since it started. The value
// never decreases.
type Source interface {
	Frame() uint64
}

// Counter is advanced explicitly by the game loop, one Tick per update.
type Counter struct {
	frame uint64
}

func NewCounter() *Counter {
	return &Counter{}
}

// Tick advances the counter by one frame.
func (c *Counter) Tick() {
	c.frame++
}

// Advance adds n frames at once, as a stalled loop catching up would.
func (c *Counter) Advance(n uint64) {
	c.frame += n
}

func (c *Counter) Frame() uint64 {
	return c.frame
}

// Wall derives the frame count from elapsed wall time at a target rate.
type Wall struct {
	start time.Time
	fps   float64
	now   func() time.Time
}

func NewWall(fps float64) *Wall {
	return newWallAt(fps, time.Now)
}

func newWallAt(fps float64, now func() time.Time) *Wall {
	if fps <= 0 {
		fps = 60
	}
	return &Wall{start: now(), fps: fps, now: now}
}

func (w *Wall) Frame() uint64 {
	elapsed := w.now().Sub(w.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return uint64(math.Floor(elapsed * w.fps))
}
