// Package render converts generated fields into displayable pixels.
package render

import (
	"image"
	"image/color"

	"procplanet/internal/core"
)

// fillGrayRGBA converts unit-range samples into opaque grey RGBA pixels in buf.
func fillGrayRGBA(buf []byte, values []float32) {
	for i, v := range values {
		base := i * 4
		g := uint8(core.Clamp01(float64(v))*255 + 0.5)
		buf[base+0] = g
		buf[base+1] = g
		buf[base+2] = g
		buf[base+3] = 0xff
	}
}

// fillPaletteRGBA maps unit-range samples onto a palette ramp. When the
// palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, values []float32, palette []color.NRGBA) {
	if len(palette) == 0 {
		clear(buf[:len(values)*4])
		return
	}

	last := len(palette) - 1
	for i, v := range values {
		idx := int(core.Clamp01(float64(v))*float64(last) + 0.5)
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Gray renders f as a greyscale image.
func Gray(f *core.Field) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Size(), f.Size()))
	fillGrayRGBA(img.Pix, f.Values())
	return img
}

// Palette renders f through a colour ramp.
func Palette(f *core.Field, palette []color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Size(), f.Size()))
	fillPaletteRGBA(img.Pix, f.Values(), palette)
	return img
}

// HeatPalette is a cold-to-hot ramp for temperature views.
var HeatPalette = []color.NRGBA{
	{R: 40, G: 60, B: 190, A: 255},
	{R: 60, G: 150, B: 220, A: 255},
	{R: 120, G: 200, B: 120, A: 255},
	{R: 240, G: 210, B: 80, A: 255},
	{R: 220, G: 70, B: 40, A: 255},
}
