//go:build ebiten

package ui

import (
	"image/color"

	"procplanet/internal/cube"
	"procplanet/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws optional guides on top of the unfolded cube.
type Overlay struct {
	showEdges  bool
	showLabels bool
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	o := &Overlay{showEdges: true, showLabels: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the guides: 1 face edges, 2 face labels.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showEdges = !o.showEdges
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showLabels = !o.showLabels
	}
}

// Draw paints the guides for tiles of edge tile pixels.
func (o *Overlay) Draw(screen *ebiten.Image, tile int) {
	if tile <= 0 {
		return
	}
	edge := color.RGBA{R: 255, G: 255, B: 255, A: 60}
	label := color.RGBA{R: 255, G: 255, B: 255, A: 200}
	for _, face := range cube.Faces {
		r := render.TileRect(face, tile)
		if o.showEdges {
			x0, y0, x1, y1 := float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)
			o.drawRect(screen, x0, y0, x1-x0, 1, edge)
			o.drawRect(screen, x0, y1-1, x1-x0, 1, edge)
			o.drawRect(screen, x0, y0, 1, y1-y0, edge)
			o.drawRect(screen, x1-1, y0, 1, y1-y0, edge)
		}
		if o.showLabels {
			text.Draw(screen, face.String(), basicfont.Face7x13, r.Min.X+6, r.Min.Y+16, label)
		}
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
