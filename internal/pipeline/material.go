package pipeline

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/render"
	"procplanet/internal/stages"
)

// ErrUnknownDisplay is returned when a display selector is not recognised.
var ErrUnknownDisplay = errors.New("unknown display map")

// Display selects which output is bound as the visible surface.
type Display string

const (
	DisplayTexture     Display = "texture"
	DisplayHeight      Display = "height"
	DisplayMoisture    Display = "moisture"
	DisplayNormal      Display = "normal"
	DisplayRoughness   Display = "roughness"
	DisplayTemperature Display = "temperature"
)

var displays = []Display{DisplayTexture, DisplayHeight, DisplayMoisture, DisplayNormal, DisplayRoughness, DisplayTemperature}

// Displays lists every selector in cycling order.
func Displays() []Display {
	out := make([]Display, len(displays))
	copy(out, displays)
	return out
}

// ParseDisplay accepts a selector name, with or without the "Map" suffix.
func ParseDisplay(s string) (Display, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "map")
	if name == "" {
		return DisplayTexture, nil
	}
	for _, d := range displays {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDisplay, s)
}

// Next returns the selector after d, wrapping around.
func (d Display) Next() Display {
	for i, c := range displays {
		if c == d {
			return displays[(i+1)%len(displays)]
		}
	}
	return DisplayTexture
}

// MaterialOptions are the user-facing material scalars.
type MaterialOptions struct {
	Roughness float64
	Metalness float64
	Display   Display
}

// DefaultMaterial returns the material defaults.
func DefaultMaterial() MaterialOptions {
	return MaterialOptions{Roughness: 0.8, Metalness: 0.5, Display: DisplayTexture}
}

// Material is what the renderer binds for one cube face.
type Material struct {
	Face    cube.Face
	Display Display

	// Map is the visible colour slot. Debug displays bind an intermediate
	// output here directly.
	Map image.Image
	// NormalMap and RoughnessMap are nil for debug displays.
	NormalMap    image.Image
	RoughnessMap *core.Field

	Roughness float64
	Metalness float64
	// NormalScale multiplies the slopes of NormalMap. The map itself is
	// baked at scale 1, so this is the only place the scale is applied.
	NormalScale float64
}

func bind(p *Pass, face cube.Face, opts MaterialOptions, normalScale float64) Material {
	m := Material{
		Face:        face,
		Display:     opts.Display,
		Roughness:   opts.Roughness,
		Metalness:   opts.Metalness,
		NormalScale: normalScale,
	}
	switch opts.Display {
	case DisplayNormal:
		m.Map = stages.ScaleNormals(p.Normal[face], normalScale)
	case DisplayTemperature:
		m.Map = render.Palette(p.Temperature[face], render.HeatPalette)
	case DisplayHeight, DisplayMoisture, DisplayRoughness:
		m.Map = render.Gray(p.Field(opts.Display, face))
	default:
		m.Display = DisplayTexture
		m.Map = p.Albedo[face]
		m.NormalMap = p.Normal[face]
		m.RoughnessMap = p.Roughness[face]
	}
	return m
}
