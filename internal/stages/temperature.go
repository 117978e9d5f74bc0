package stages

import (
	"context"
	"math"

	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/settings"
)

// Temperature derives the temperature field from height and latitude:
//
//	t = 1 - pole*|lat| - heightFactor*h - iciness
//
// where pole is Pole1Factor in the northern hemisphere and Pole2Factor in
// the southern one. The result is clamped to [0, 1].
func Temperature(ctx context.Context, res core.Resolution, height Fields, p settings.TemperatureParams) (Fields, error) {
	var out Fields
	if err := checkFields(res, "height", height); err != nil {
		return out, err
	}
	n := int(res)
	err := eachFace(ctx, func(ctx context.Context, face cube.Face) error {
		field := core.NewField(res)
		vals := field.Values()
		h := height[face].Values()
		for y := 0; y < n; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < n; x++ {
				i := y*n + x
				vals[i] = float32(TemperatureAt(face.TexelDirection(n, x, y), float64(h[i]), p))
			}
		}
		out[face] = field
		return nil
	})
	if err != nil {
		return Fields{}, err
	}
	return out, nil
}

// TemperatureAt evaluates the temperature formula for one sample.
func TemperatureAt(dir cube.Vec3, height float64, p settings.TemperatureParams) float64 {
	lat := cube.Latitude(dir)
	pole := p.Pole1Factor
	if lat < 0 {
		pole = p.Pole2Factor
	}
	return core.Clamp01(1 - pole*math.Abs(lat) - p.HeightFactor*height - p.Iciness)
}
