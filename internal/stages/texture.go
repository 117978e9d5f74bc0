package stages

import (
	"context"
	"image/color"

	"procplanet/internal/biome"
	"procplanet/internal/core"
	"procplanet/internal/cube"
)

// IceColor replaces the biome colour wherever temperature is below the ice
// cutoff.
var IceColor = color.NRGBA{R: 232, G: 240, B: 248, A: 255}

// iceBand is the temperature band above the cutoff that fades toward ice.
const iceBand = 0.02

// TextureInput is the read-only input set of the albedo stage.
type TextureInput struct {
	Height      Fields
	Moisture    Fields
	Temperature Fields
	Biome       biome.Lookup
	IceCutoff   float64
}

// Texture composites the albedo texture of every face: the biome colour at
// (moisture, height), replaced by ice below the cutoff and blended toward ice
// just above it.
func Texture(ctx context.Context, res core.Resolution, in TextureInput) (Textures, error) {
	var out Textures
	if err := checkFields(res, "height", in.Height); err != nil {
		return out, err
	}
	if err := checkFields(res, "moisture", in.Moisture); err != nil {
		return out, err
	}
	if err := checkFields(res, "temperature", in.Temperature); err != nil {
		return out, err
	}
	n := int(res)
	err := eachFace(ctx, func(ctx context.Context, face cube.Face) error {
		img := newTexture(res)
		h := in.Height[face].Values()
		m := in.Moisture[face].Values()
		t := in.Temperature[face].Values()
		for y := 0; y < n; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < n; x++ {
				i := y*n + x
				c := albedo(in.Biome, float64(h[i]), float64(m[i]), float64(t[i]), in.IceCutoff)
				o := img.PixOffset(x, y)
				img.Pix[o+0], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, c.A
			}
		}
		out[face] = img
		return nil
	})
	if err != nil {
		return Textures{}, err
	}
	return out, nil
}

func albedo(lookup biome.Lookup, h, m, t, cutoff float64) color.NRGBA {
	if t < cutoff {
		return IceColor
	}
	c := lookup.At(m, h)
	if t < cutoff+iceBand {
		k := 0.5 * (1 - (t-cutoff)/iceBand)
		c = blend(c, IceColor, k)
	}
	return c
}

func blend(a, b color.NRGBA, k float64) color.NRGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-k) + float64(y)*k + 0.5) }
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// IceFraction returns the share of texels across all faces that carry the
// ice colour.
func IceFraction(textures Textures) float64 {
	var ice, total int
	for _, img := range textures {
		if img == nil {
			continue
		}
		for o := 0; o+3 < len(img.Pix); o += 4 {
			total++
			if img.Pix[o] == IceColor.R && img.Pix[o+1] == IceColor.G && img.Pix[o+2] == IceColor.B && img.Pix[o+3] == IceColor.A {
				ice++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ice) / float64(total)
}
