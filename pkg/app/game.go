package app

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	screenWidth  = 640
	screenHeight = 480
)

// game adapts the application's frame tick to the ebiten game loop so
// scripts are advanced exactly once per engine update.
type game struct {
	app      *Application
	deadline time.Time
}

// Update runs one engine tick.
func (g *game) Update() error {
	if !g.deadline.IsZero() && time.Now().After(g.deadline) {
		g.app.log.Info("timeout reached", "frames", g.app.engine.Frame())
		g.app.engine.CancelAll()
		return ebiten.Termination
	}
	if !g.app.tick() {
		g.app.log.Info("all instances finished", "frames", g.app.engine.Frame())
		return ebiten.Termination
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

// Draw shows a status line; player-facing text goes through the console
// host.
func (g *game) Draw(screen *ebiten.Image) {
	status := fmt.Sprintf("frame %d  instances %d", g.app.engine.Frame(), len(g.app.engine.Live()))
	ebitenutil.DebugPrint(screen, status)
}

// Layout fixes the logical screen size.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// runWindowed drives the engine from the ebiten loop.
func (app *Application) runWindowed() error {
	g := &game{app: app}
	if app.opts.Timeout > 0 {
		g.deadline = time.Now().Add(app.opts.Timeout)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("plotscript - " + app.title.DisplayName())
	ebiten.SetTPS(app.cfg.TickRate)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}
