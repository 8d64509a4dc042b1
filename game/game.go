package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/platformer/clock"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
)

type Game struct {
	session  *Session
	counter  *clock.Counter
	render   *system.RenderSystem
	watcher  *config.Watcher
	cfgPath  string
	frames   int
	debug    bool
	baseSize [2]int
}

// NewGame builds a windowed session. When the clock is "tick" the frame
// counter advances once per ebiten update; "wall" derives frames from real
// time so a stalled update is caught up with several physics steps.
func NewGame(cfg *config.Config, cfgPath string) (*Game, error) {
	lvl, err := LoadLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var src clock.Source
	counter := clock.NewCounter()
	if cfg.Clock == config.ClockWall {
		src = clock.NewWall(float64(cfg.Physics.TargetFPS))
	} else {
		src = counter
	}

	session, err := NewSession(cfg, lvl, src, true)
	if err != nil {
		return nil, err
	}

	g := &Game{
		session:  session,
		counter:  counter,
		render:   system.NewRenderSystem(lvl.Boundaries),
		cfgPath:  cfgPath,
		debug:    cfg.Debug,
		baseSize: [2]int{cfg.Window.Width, cfg.Window.Height},
	}

	if cfgPath != "" {
		w, err := config.NewWatcher(cfgPath, cfg.Controller.JumpPolicy)
		if err != nil {
			log.Printf("config watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	g.frames++
	g.counter.Tick()
	g.pollReloads()
	g.session.Update()
	return nil
}

// pollReloads applies controller changes from the watched files. Physics
// settings in a reloaded file are ignored; the space is built once.
func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			cfg, err := config.Load(g.cfgPath)
			if err != nil {
				log.Printf("reload %s: %v", name, err)
				continue
			}
			if err := g.session.ApplyController(cfg.Controller); err != nil {
				log.Printf("reload %s: %v", name, err)
				continue
			}
			log.Printf("reloaded controller tuning from %s", name)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("config watcher: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.session.World, screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    TPS: %.2f", g.frames, ebiten.ActualTPS()))
	if g.debug {
		system.DrawPhysicsDebug(g.session.Physics, screen)
		system.DrawContactDebug(g.session.Physics, g.session.World, screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.baseSize[0], g.baseSize[1]
}

// Close stops the config watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

// LoadLevel resolves name as a level under levels/ first and a file path
// second.
func LoadLevel(name string) (*levels.Level, error) {
	lvl, err := levels.Load(name)
	if err != nil {
		if fileLvl, fileErr := levels.LoadFile(name); fileErr == nil {
			return fileLvl, nil
		}
		return nil, err
	}
	return lvl, nil
}
