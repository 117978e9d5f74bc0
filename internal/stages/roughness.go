package stages

import (
	"context"

	"procplanet/internal/core"
	"procplanet/internal/cube"
)

// RoughnessInput is the read-only input set of the roughness stage.
type RoughnessInput struct {
	Height         Fields
	WaterLevel     float64
	WaterRoughness float64
	LandRoughness  float64
	// Band is the half-width of the smooth transition around the water
	// level. Zero gives a hard step.
	Band float64
}

// Roughness blends water and land roughness by height relative to the water
// level. Every output lies between the two constants.
func Roughness(ctx context.Context, res core.Resolution, in RoughnessInput) (Fields, error) {
	var out Fields
	if err := checkFields(res, "height", in.Height); err != nil {
		return out, err
	}
	lo, hi := min(in.WaterRoughness, in.LandRoughness), max(in.WaterRoughness, in.LandRoughness)
	err := eachFace(ctx, func(ctx context.Context, face cube.Face) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := core.NewField(res)
		vals := field.Values()
		for i, h := range in.Height[face].Values() {
			r := in.WaterRoughness + (in.LandRoughness-in.WaterRoughness)*landWeight(float64(h), in.WaterLevel, in.Band)
			vals[i] = float32(max(lo, min(hi, r)))
		}
		out[face] = field
		return nil
	})
	if err != nil {
		return Fields{}, err
	}
	return out, nil
}

func landWeight(h, waterLevel, band float64) float64 {
	if band <= 0 {
		if h < waterLevel {
			return 0
		}
		return 1
	}
	return smoothstep(waterLevel-band, waterLevel+band, h)
}
