//go:build ebiten

package app

import (
	"context"
	"image/color"

	"procplanet/internal/render"
	"procplanet/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 280

// Game adapts a Controller to the ebiten.Game interface.
type Game struct {
	ctrl    *Controller
	painter *render.Painter
	hud     *ui.HUD
	overlay *ui.Overlay
	scale   int
}

// New constructs a Game for ctrl.
func New(ctrl *Controller, scale int) *Game {
	if scale <= 0 {
		scale = 1
	}
	b := render.AtlasBounds(TileSize)
	return &Game{
		ctrl:    ctrl,
		painter: render.NewPainter(b.Dx(), b.Dy()),
		hud:     ui.NewHUD(ctrl.Pipeline(), hudWidth),
		overlay: ui.NewOverlay(),
		scale:   scale,
	}
}

// Update handles per-frame input and runs at most one pipeline pass.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.ctrl.NewPlanet()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.ctrl.Regenerate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.ctrl.CycleDisplay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.ctrl.CycleArchetype()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.ctrl.StepResolution(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.ctrl.StepResolution(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.ctrl.ToggleAuto()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.hud.Nudge("normal_scale", -1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.hud.Nudge("normal_scale", 1)
	}
	g.overlay.Update()

	if g.ctrl.Frame(context.Background()) {
		g.painter.Upload(g.ctrl.Atlas())
	}
	w, _ := g.painter.Size()
	g.hud.Update(w * g.scale)
	return nil
}

// Draw renders the unfolded cube, the guides and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 8, G: 8, B: 12, A: 255})
	g.painter.Blit(screen, g.scale)
	g.overlay.Draw(screen, TileSize*g.scale)
	w, h := g.painter.Size()
	g.hud.Draw(screen, w*g.scale, h*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.painter.Size()
	return w*g.scale + hudWidth, h * g.scale
}
