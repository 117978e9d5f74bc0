// Package export writes generated passes to disk.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/pipeline"
	"procplanet/internal/render"
)

// ErrUnknownFormat is returned for an unsupported image format.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output image encoding.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

// ParseFormat validates an image format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, TIFF, BMP:
		return f, nil
	case "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WriteImage encodes img into path, creating parent directories.
func WriteImage(path string, img image.Image, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

// Options selects what WritePass emits.
type Options struct {
	Format Format
	// Dumps also writes the raw scalar fields as zstd-compressed float32.
	Dumps bool
	// AtlasSize is the tile edge of the unfolded-cube previews. Zero uses
	// the pass resolution.
	AtlasSize int
}

// WritePass writes every map of pass under dir and returns the written paths.
func WritePass(dir string, pass *pipeline.Pass, opts Options) ([]string, error) {
	if opts.Format == "" {
		opts.Format = PNG
	}
	ext := "." + string(opts.Format)
	var written []string
	emit := func(name string, img image.Image) error {
		path := filepath.Join(dir, name+ext)
		if err := WriteImage(path, img, opts.Format); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	scalars := []pipeline.Display{
		pipeline.DisplayHeight,
		pipeline.DisplayMoisture,
		pipeline.DisplayRoughness,
		pipeline.DisplayTemperature,
	}
	for _, face := range cube.Faces {
		if err := emit(face.String()+"_albedo", pass.Albedo[face]); err != nil {
			return written, err
		}
		if err := emit(face.String()+"_normal", pass.Normal[face]); err != nil {
			return written, err
		}
		for _, d := range scalars {
			name := string(d)
			f := pass.Field(d, face)
			img := render.Gray(f)
			if d == pipeline.DisplayTemperature {
				img = render.Palette(f, render.HeatPalette)
			}
			if err := emit(face.String()+"_"+name, img); err != nil {
				return written, err
			}
			if !opts.Dumps {
				continue
			}
			path := filepath.Join(dir, face.String()+"_"+name+DumpExt)
			if err := WriteField(path, f); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}

	size := opts.AtlasSize
	if size <= 0 {
		size = int(pass.Resolution)
	}
	if err := emit("atlas_albedo", render.Atlas(pass.Albedo, size)); err != nil {
		return written, err
	}
	if err := emit("atlas_normal", render.Atlas(pass.Normal, size)); err != nil {
		return written, err
	}
	if err := emit("atlas_height", render.Atlas(grayFields(pass.Height), size)); err != nil {
		return written, err
	}
	if pass.Biome != nil {
		if err := emit("biome", pass.Biome.Image()); err != nil {
			return written, err
		}
	}
	return written, nil
}

// grayFields renders one scalar set as greyscale images.
func grayFields(fields [cube.Count]*core.Field) [cube.Count]*image.NRGBA {
	var out [cube.Count]*image.NRGBA
	for _, face := range cube.Faces {
		if fields[face] != nil {
			out[face] = render.Gray(fields[face])
		}
	}
	return out
}
