// Package biome builds the 2-D colour lookup indexed by (moisture, height).
package biome

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"

	"procplanet/internal/settings"
	"procplanet/pkg/core"
)

// Size is the edge length of a generated table.
const Size = 256

const beachWidth = 0.02

// Lookup maps (x = moisture, y = height), both in [0, 1], to a colour.
type Lookup interface {
	At(x, y float64) color.NRGBA
}

// Table is a square colour table. Row j holds height j/(Size-1).
type Table struct {
	img *image.NRGBA
}

type blob struct {
	x, y, r, w float64
	c          color.NRGBA
}

// Generate builds the table for s. The same settings always produce the same
// table.
func Generate(s settings.GeneratorSettings) *Table {
	b := s.Biome
	rng := core.NewRNG(uint64(b.Seed))
	jitter := perlin.NewPerlin(2, 2, 3, b.Seed)

	hue, sat := b.Hue, b.Saturation
	deep := hsl(0.62+rng.Range(-0.04, 0.04), 0.65, 0.14)
	shallow := hsl(0.55+rng.Range(-0.04, 0.04), 0.55, 0.34)
	sand := hsl(0.11+rng.Range(-0.02, 0.02), 0.35, 0.62)
	dry := hsl(wrap(hue), sat*0.6, 0.46)
	wet := hsl(wrap(hue+0.22), sat, 0.28)
	rock := hsl(wrap(hue+0.05), 0.1, 0.42)
	peak := hsl(wrap(hue), 0.05, 0.82)

	wl := s.WaterLevel
	blobs := make([]blob, b.Blobs)
	for i := range blobs {
		blobs[i] = blob{
			x: rng.Float64(),
			y: wl + rng.Float64()*(1-wl),
			r: rng.Range(0.05, 0.2),
			w: rng.Range(0.3, 0.7),
			c: hsl(rng.Float64(), sat, rng.Range(0.25, 0.6)),
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, Size, Size))
	for j := 0; j < Size; j++ {
		h := float64(j) / (Size - 1)
		for i := 0; i < Size; i++ {
			m := float64(i) / (Size - 1)
			var c color.NRGBA
			switch {
			case h < wl:
				t := h / wl
				c = lerp(deep, shallow, t*t)
			case h < wl+beachWidth:
				c = sand
			default:
				t := (h - wl) / math.Max(1-wl, 1e-6)
				c = lerp(dry, wet, m)
				if t > 0.6 {
					c = lerp(c, rock, core01((t-0.6)/0.3))
				}
				if t > 0.9 {
					c = lerp(c, peak, core01((t-0.9)/0.1))
				}
				for _, bl := range blobs {
					d := math.Hypot(m-bl.x, h-bl.y)
					if d < bl.r {
						k := 1 - d/bl.r
						c = lerp(c, bl.c, k*k*bl.w)
					}
				}
				c = brighten(c, 1+0.08*jitter.Noise2D(m*8, h*8))
			}
			img.SetNRGBA(i, j, c)
		}
	}
	return &Table{img: img}
}

// At returns the colour nearest to (x, y).
func (t *Table) At(x, y float64) color.NRGBA {
	i := int(math.Round(core01(x) * (Size - 1)))
	j := int(math.Round(core01(y) * (Size - 1)))
	return t.img.NRGBAAt(i, j)
}

// Image exposes the table for debug display and export.
func (t *Table) Image() *image.NRGBA { return t.img }

func core01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

func wrap(h float64) float64 { return h - math.Floor(h) }

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	t = core01(t)
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-t) + float64(y)*t + 0.5) }
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func brighten(c color.NRGBA, k float64) color.NRGBA {
	scale := func(v uint8) uint8 { return uint8(math.Max(0, math.Min(255, float64(v)*k+0.5))) }
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// hsl converts hue, saturation and lightness in [0, 1] to an opaque colour.
func hsl(h, s, l float64) color.NRGBA {
	h = wrap(h)
	s, l = core01(s), core01(l)
	chroma := (1 - math.Abs(2*l-1)) * s
	hp := h * 6
	x := chroma * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch int(hp) {
	case 0:
		r, g = chroma, x
	case 1:
		r, g = x, chroma
	case 2:
		g, b = chroma, x
	case 3:
		g, b = x, chroma
	case 4:
		r, b = x, chroma
	default:
		r, b = chroma, x
	}
	m := l - chroma/2
	to8 := func(v float64) uint8 { return uint8(math.Round(core01(v+m) * 255)) }
	return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}
