// Package noise synthesizes the seamless per-face scalar fields (height,
// moisture) from 3-D OpenSimplex noise sampled on the unit sphere.
package noise

import (
	"context"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"golang.org/x/sync/errgroup"

	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/settings"
)

const (
	octaves     = 6
	lacunarity  = 2.0
	persistence = 0.5

	// calibrationPoints is the number of sphere directions used to measure
	// the mean fold depth of a ridged source.
	calibrationPoints = 2048
)

// Field generates one scalar field from a FieldParams set. It holds only
// read-only noise tables and is safe to sample from several goroutines.
type Field struct {
	params settings.FieldParams
	first  opensimplex.Noise
	second opensimplex.Noise

	// Mean |fbm| of each source, set only for ridged fields.
	firstDepth  float64
	secondDepth float64
}

// New prepares the two independent noise sources for p.
func New(p settings.FieldParams) *Field {
	f := &Field{
		params: p,
		first:  opensimplex.New(p.Seed),
		second: opensimplex.New(p.Seed + 1),
	}
	if p.Ridged {
		f.firstDepth = meanDepth(f.first, p.Res1)
		f.secondDepth = meanDepth(f.second, p.Res2)
	}
	return f
}

// Sample returns the field value in [0, 1] at a unit-sphere direction.
// Faces never sample from 2-D coordinates, so edges are continuous.
func (f *Field) Sample(dir cube.Vec3) float64 {
	p := f.params
	a := fbm(f.first, dir, p.Res1)
	b := fbm(f.second, dir, p.Res2)
	if p.Ridged {
		a, b = ridge(a, f.firstDepth), ridge(b, f.secondDepth)
	} else {
		a, b = (a+1)/2, (b+1)/2
	}
	n := a*(1-p.ResMix) + b*p.ResMix
	return core.Clamp01(0.5 + (n-0.5)*(1+p.MixScale))
}

// Render fills a new field for every face at resolution res. Faces are
// generated concurrently; each goroutine writes only its own grid.
func (f *Field) Render(ctx context.Context, res core.Resolution) ([cube.Count]*core.Field, error) {
	var out [cube.Count]*core.Field
	g, ctx := errgroup.WithContext(ctx)
	for _, face := range cube.Faces {
		g.Go(func() error {
			field, err := f.renderFace(ctx, face, res)
			if err != nil {
				return err
			}
			out[face] = field
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return [cube.Count]*core.Field{}, err
	}
	return out, nil
}

func (f *Field) renderFace(ctx context.Context, face cube.Face, res core.Resolution) (*core.Field, error) {
	field := core.NewField(res)
	n := int(res)
	vals := field.Values()
	for y := 0; y < n; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := vals[y*n : (y+1)*n]
		for x := range row {
			row[x] = float32(f.Sample(face.TexelDirection(n, x, y)))
		}
	}
	return field, nil
}

// fbm sums octaves of 3-D noise at a base frequency, normalized to [-1, 1].
func fbm(src opensimplex.Noise, dir cube.Vec3, freq float64) float64 {
	var sum, norm float64
	amp := 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * src.Eval3(dir.X*freq, dir.Y*freq, dir.Z*freq)
		norm += amp
		amp *= persistence
		freq *= lacunarity
	}
	return sum / norm
}

// ridge folds negative values up and inverts, turning zero crossings into
// crests. The fold is re-centred on 0.5 using the source's mean depth and
// keeps the same spread as the smooth mapping (v+1)/2.
func ridge(v, depth float64) float64 {
	return 0.5 + (depth-math.Abs(v))/2
}

// meanDepth is the mean of |fbm| over a Fibonacci lattice on the sphere.
// It depends only on the source and frequency, not on the resolution.
func meanDepth(src opensimplex.Noise, freq float64) float64 {
	golden := math.Pi * (3 - math.Sqrt(5))
	var sum float64
	for i := 0; i < calibrationPoints; i++ {
		z := 1 - (2*float64(i)+1)/calibrationPoints
		r := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		dir := cube.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
		sum += math.Abs(fbm(src, dir, freq))
	}
	return sum / calibrationPoints
}
