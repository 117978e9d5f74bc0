//go:build !ebiten

package app

import (
	"context"

	"procplanet/internal/render"
	"procplanet/internal/ui"
)

// Game runs the controller without a window. Frames are driven by calling
// Update directly.
type Game struct {
	ctrl  *Controller
	hud   *ui.HUD
	scale int
}

// New constructs a headless Game for ctrl.
func New(ctrl *Controller, scale int) *Game {
	if scale <= 0 {
		scale = 1
	}
	return &Game{ctrl: ctrl, hud: ui.NewHUD(ctrl.Pipeline(), 0), scale: scale}
}

// Update advances one frame.
func (g *Game) Update() error {
	g.ctrl.Frame(context.Background())
	g.hud.Update(0)
	return nil
}

// Draw has no screen to paint in the headless build.
func (g *Game) Draw(any) {}

// Layout returns the size the windowed build would use for the atlas.
func (g *Game) Layout(int, int) (int, int) {
	b := render.AtlasBounds(TileSize)
	return b.Dx() * g.scale, b.Dy() * g.scale
}
