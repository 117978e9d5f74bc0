package stages

import (
	"context"
	"image"
	"math"

	"procplanet/internal/core"
	"procplanet/internal/cube"
)

const (
	// NormalStrength converts per-texel height differences into slopes.
	NormalStrength = 100.0

	// albedoDetail weighs albedo luminance into the land surface.
	albedoDetail = 0.02
)

// NormalInput is the read-only input set of the normal-map stage.
type NormalInput struct {
	Height     Fields
	Albedo     Textures
	WaterLevel float64
}

// Normal computes tangent-space normals from central differences of the
// height field. Water is flattened to the water level; land picks up a little
// relief from the albedo luminance. The map is baked at normal scale 1; the
// resolution's scale is applied once by whoever binds it (see ScaleNormals).
func Normal(ctx context.Context, res core.Resolution, in NormalInput) (Textures, error) {
	var out Textures
	if err := checkFields(res, "height", in.Height); err != nil {
		return out, err
	}
	if err := checkTextures(res, "albedo", in.Albedo); err != nil {
		return out, err
	}
	k := NormalStrength
	n := int(res)
	err := eachFace(ctx, func(ctx context.Context, face cube.Face) error {
		surf := surface(in.Height[face], in.Albedo[face], in.WaterLevel)
		img := newTexture(res)
		at := func(x, y int) float64 { return surf[clampIdx(y, n)*n+clampIdx(x, n)] }
		for y := 0; y < n; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < n; x++ {
				dx := (at(x+1, y) - at(x-1, y)) / 2
				dy := (at(x, y+1) - at(x, y-1)) / 2
				nx, ny, nz := -dx*k, -dy*k, 1.0
				l := math.Sqrt(nx*nx + ny*ny + nz*nz)
				o := img.PixOffset(x, y)
				img.Pix[o+0] = encodeUnit(nx / l)
				img.Pix[o+1] = encodeUnit(ny / l)
				img.Pix[o+2] = encodeUnit(nz / l)
				img.Pix[o+3] = 255
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

// surface returns the relief used for gradients: height clamped to the water
// level, plus albedo detail on land.
func surface(height *core.Field, albedo *image.NRGBA, waterLevel float64) []float64 {
	h := height.Values()
	out := make([]float64, len(h))
	for i, v := range h {
		hv := float64(v)
		if hv < waterLevel {
			out[i] = waterLevel
			continue
		}
		o := i * 4
		luma := (0.2126*float64(albedo.Pix[o]) + 0.7152*float64(albedo.Pix[o+1]) + 0.0722*float64(albedo.Pix[o+2])) / 255
		out[i] = hv + luma*albedoDetail
	}
	return out
}

// ScaleNormals returns a copy of img with every tangent-space slope
// multiplied by scale and the normals renormalized. Scale 1 returns an equal
// copy up to quantization.
func ScaleNormals(img *image.NRGBA, scale float64) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			nx, ny, nz := DecodeNormal(img, x, y)
			nx, ny = nx*scale, ny*scale
			l := math.Sqrt(nx*nx + ny*ny + nz*nz)
			o := out.PixOffset(x, y)
			if l == 0 {
				out.Pix[o], out.Pix[o+1], out.Pix[o+2] = 128, 128, 255
			} else {
				out.Pix[o+0] = encodeUnit(nx / l)
				out.Pix[o+1] = encodeUnit(ny / l)
				out.Pix[o+2] = encodeUnit(nz / l)
			}
			out.Pix[o+3] = 255
		}
	}
	return out
}

// encodeUnit maps [-1, 1] to [0, 255].
func encodeUnit(v float64) uint8 {
	return uint8(math.Round(core.Clamp01(v*0.5+0.5) * 255))
}

// DecodeNormal returns the unit normal stored at (x, y).
func DecodeNormal(img *image.NRGBA, x, y int) (nx, ny, nz float64) {
	o := img.PixOffset(x, y)
	dec := func(b uint8) float64 { return float64(b)/255*2 - 1 }
	return dec(img.Pix[o]), dec(img.Pix[o+1]), dec(img.Pix[o+2])
}

func clampIdx(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
