//go:build ebiten

package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Painter keeps one GPU image in sync with a CPU-side RGBA image.
type Painter struct {
	w, h int
	img  *ebiten.Image
}

// NewPainter allocates a painter for images of size w*h.
func NewPainter(w, h int) *Painter {
	return &Painter{w: w, h: h, img: ebiten.NewImage(w, h)}
}

// Upload replaces the painter contents with src. Mismatched sizes are
// ignored.
func (p *Painter) Upload(src *image.NRGBA) {
	if src == nil || src.Bounds().Dx() != p.w || src.Bounds().Dy() != p.h {
		return
	}
	p.img.WritePixels(src.Pix)
}

// Blit draws the painter image onto dst at the given scale.
func (p *Painter) Blit(dst *ebiten.Image, scale int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}

// Size returns the dimensions of the underlying image.
func (p *Painter) Size() (int, int) { return p.w, p.h }
