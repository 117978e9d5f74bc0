//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"procplanet/internal/core"
)

var (
	panelBg   = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textMain  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	textDim   = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	buttonOn  = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD draws the material knobs and the parameter snapshot to the right of
// the planet view.
type HUD struct {
	*Panel
	width   int
	offsetX int
	canvas  *ebiten.Image
	pixel   *ebiten.Image
}

// NewHUD constructs a HUD for src with a panel of the given width.
func NewHUD(src Source, width int) *HUD {
	h := &HUD{Panel: NewPanel(src, width), width: width}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	return h
}

// Update refreshes the snapshot and applies a click on a knob button.
// offsetX is where the panel starts on screen.
func (h *HUD) Update(offsetX int) {
	h.offsetX = offsetX
	h.Refresh()
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	if x, y := ebiten.CursorPosition(); x >= offsetX {
		h.Click(x-offsetX, y)
	}
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h.width <= 0 || height <= 0 {
		return
	}
	if h.canvas == nil || h.canvas.Bounds().Dy() != height {
		h.canvas = ebiten.NewImage(h.width, height)
	}
	h.canvas.Fill(panelBg)
	face := basicfont.Face7x13
	text.Draw(h.canvas, "Material", face, panelPad, panelPad+titleLine-4, textMain)
	for _, k := range h.knobs {
		y := k.top + knobRow/2 + 4
		text.Draw(h.canvas, k.ctrl.Label, face, panelPad, y, textMain)
		v := k.label()
		text.Draw(h.canvas, v, face, k.minus.Min.X-knobGap-text.BoundString(face, v).Dx(), y, textMain)
		_, down := k.target(-1)
		_, up := k.target(1)
		h.button(k.minus, "-", down && h.setter != nil)
		h.button(k.plus, "+", up && h.setter != nil)
	}
	h.drawInfo(height)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.canvas, op)
}

func (h *HUD) drawInfo(height int) {
	face := basicfont.Face7x13
	y := h.infoTop()
	for _, g := range h.snapshot.Groups {
		text.Draw(h.canvas, g.Name, face, panelPad, y, textMain)
		y += infoLine
		for _, p := range g.Params {
			if y > height-panelPad {
				return
			}
			text.Draw(h.canvas, p.Label+": "+paramValue(p), face, panelPad+8, y, textDim)
			y += infoLine
		}
		y += infoLine / 2
	}
}

func (h *HUD) button(r image.Rectangle, label string, enabled bool) {
	bg, fg := buttonOn, textMain
	if !enabled {
		bg, fg = buttonOff, textDim
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.canvas.DrawImage(h.pixel, op)
	text.Draw(h.canvas, label, basicfont.Face7x13, r.Min.X+r.Dx()/2-3, r.Min.Y+r.Dy()/2+4, fg)
}

// paramValue shortens long float renderings for the narrow panel.
func paramValue(p core.Parameter) string {
	if p.Type == core.ParamTypeFloat && len(p.Value) > 7 {
		return p.Value[:7]
	}
	return p.Value
}
