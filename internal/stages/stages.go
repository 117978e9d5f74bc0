// Package stages holds the derived stages of the surface pipeline. Each stage
// is a pure function of its declared inputs and writes fresh outputs.
package stages

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"procplanet/internal/core"
	"procplanet/internal/cube"
)

// ErrResolutionMismatch is returned when a stage receives inputs that were
// produced at a different resolution than the one it is asked to render.
var ErrResolutionMismatch = errors.New("resolution mismatch")

// Fields is one field per cube face.
type Fields = [cube.Count]*core.Field

// Textures is one RGBA texture per cube face.
type Textures = [cube.Count]*image.NRGBA

// eachFace runs fn for every face concurrently and waits for all of them.
func eachFace(ctx context.Context, fn func(ctx context.Context, face cube.Face) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, face := range cube.Faces {
		g.Go(func() error { return fn(ctx, face) })
	}
	return g.Wait()
}

func checkFields(res core.Resolution, name string, fields Fields) error {
	for _, face := range cube.Faces {
		f := fields[face]
		if f == nil {
			return fmt.Errorf("%w: %s face %s missing", ErrResolutionMismatch, name, face)
		}
		if f.Res != res {
			return fmt.Errorf("%w: %s face %s is %d, want %d", ErrResolutionMismatch, name, face, f.Res, res)
		}
	}
	return nil
}

func checkTextures(res core.Resolution, name string, textures Textures) error {
	for _, face := range cube.Faces {
		img := textures[face]
		if img == nil {
			return fmt.Errorf("%w: %s face %s missing", ErrResolutionMismatch, name, face)
		}
		if b := img.Bounds(); b.Dx() != int(res) || b.Dy() != int(res) {
			return fmt.Errorf("%w: %s face %s is %dx%d, want %d", ErrResolutionMismatch, name, face, b.Dx(), b.Dy(), res)
		}
	}
	return nil
}

func newTexture(res core.Resolution) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, int(res), int(res)))
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := core.Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
