// Package config holds the command-line and file configuration shared by the
// viewer and the baker.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"procplanet/internal/core"
	"procplanet/internal/pipeline"
	"procplanet/internal/settings"
)

// ErrInvalidConfig reports a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the user-facing options.
type Config struct {
	Seed       string `yaml:"seed"`
	Archetype  string `yaml:"archetype"`
	Catalog    string `yaml:"catalog"`
	CacheDir   string `yaml:"cache_dir"`
	Resolution int    `yaml:"resolution"`

	// Negative values keep the seed-derived setting.
	WaterLevel float64 `yaml:"water_level"`
	IceCutoff  float64 `yaml:"ice_cutoff"`

	Roughness   float64 `yaml:"roughness"`
	Metalness   float64 `yaml:"metalness"`
	NormalScale float64 `yaml:"normal_scale"`
	Display     string  `yaml:"display_map"`

	Scale        int  `yaml:"scale"`
	TPS          int  `yaml:"tps"`
	AutoGenerate bool `yaml:"auto_generate"`
	AutoGenTime  int  `yaml:"auto_gen_time"`

	OutDir string `yaml:"out_dir"`
	Format string `yaml:"format"`
	Index  string `yaml:"index"`
	Dumps  bool   `yaml:"dumps"`
	Force  bool   `yaml:"force"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Seed:        "Scarlett",
		Archetype:   "",
		CacheDir:    os.TempDir(),
		Resolution:  int(core.DefaultResolution),
		WaterLevel:  -1,
		IceCutoff:   -1,
		Roughness:   0.8,
		Metalness:   0.5,
		Display:     string(pipeline.DisplayTexture),
		Scale:       1,
		TPS:         60,
		AutoGenTime: 10,
		OutDir:      "out",
		Format:      "png",
		Index:       "bakes.db",
	}
}

// FromMap populates a Config from a string map. Unparseable values keep the
// default.
func FromMap(m map[string]string) Config {
	c := DefaultConfig()
	if m == nil {
		return c
	}
	str := func(key string, dst *string) {
		if v, ok := m[key]; ok {
			*dst = v
		}
	}
	num := func(key string, dst *float64) {
		if v, ok := m[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := m[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				*dst = parsed
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := m[key]; ok {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*dst = parsed
			}
		}
	}
	str("seed", &c.Seed)
	str("archetype", &c.Archetype)
	str("catalog", &c.Catalog)
	str("cache_dir", &c.CacheDir)
	integer("resolution", &c.Resolution)
	num("water_level", &c.WaterLevel)
	num("ice_cutoff", &c.IceCutoff)
	num("roughness", &c.Roughness)
	num("metalness", &c.Metalness)
	num("normal_scale", &c.NormalScale)
	str("display_map", &c.Display)
	integer("scale", &c.Scale)
	integer("tps", &c.TPS)
	boolean("auto_generate", &c.AutoGenerate)
	integer("auto_gen_time", &c.AutoGenTime)
	str("out_dir", &c.OutDir)
	str("format", &c.Format)
	str("index", &c.Index)
	boolean("dumps", &c.Dumps)
	boolean("force", &c.Force)
	return c
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	c := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Seed, "seed", c.Seed, "planet seed")
	fs.StringVar(&c.Archetype, "archetype", c.Archetype, "archetype name, empty for none")
	fs.StringVar(&c.Catalog, "catalog", c.Catalog, "archetype catalog path or URL")
	fs.StringVar(&c.CacheDir, "cache-dir", c.CacheDir, "directory for fetched catalogs")
	fs.IntVar(&c.Resolution, "res", c.Resolution, "face resolution")
	fs.Float64Var(&c.WaterLevel, "water-level", c.WaterLevel, "water level override, negative keeps the derived value")
	fs.Float64Var(&c.IceCutoff, "ice-cutoff", c.IceCutoff, "ice cutoff override, negative keeps the derived value")
	fs.Float64Var(&c.Roughness, "roughness", c.Roughness, "material roughness")
	fs.Float64Var(&c.Metalness, "metalness", c.Metalness, "material metalness")
	fs.Float64Var(&c.NormalScale, "normal-scale", c.NormalScale, "normal scale, 0 uses the resolution table")
	fs.StringVar(&c.Display, "display", c.Display, "display map: texture, height, moisture, normal, roughness, temperature")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.BoolVar(&c.AutoGenerate, "auto", c.AutoGenerate, "generate a new planet periodically")
	fs.IntVar(&c.AutoGenTime, "auto-time", c.AutoGenTime, "seconds between auto-generated planets")
	fs.StringVar(&c.OutDir, "out", c.OutDir, "output directory")
	fs.StringVar(&c.Format, "format", c.Format, "image format: png, tiff, bmp")
	fs.StringVar(&c.Index, "index", c.Index, "bake index database")
	fs.BoolVar(&c.Dumps, "dumps", c.Dumps, "write compressed raw field dumps")
	fs.BoolVar(&c.Force, "force", c.Force, "bake even when the digest is already indexed")
}

// Merge returns file with every flag that was set explicitly on fs taken from
// flags.
func Merge(file, flags Config, fs *flag.FlagSet) Config {
	out := file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			out.Seed = flags.Seed
		case "archetype":
			out.Archetype = flags.Archetype
		case "catalog":
			out.Catalog = flags.Catalog
		case "cache-dir":
			out.CacheDir = flags.CacheDir
		case "res":
			out.Resolution = flags.Resolution
		case "water-level":
			out.WaterLevel = flags.WaterLevel
		case "ice-cutoff":
			out.IceCutoff = flags.IceCutoff
		case "roughness":
			out.Roughness = flags.Roughness
		case "metalness":
			out.Metalness = flags.Metalness
		case "normal-scale":
			out.NormalScale = flags.NormalScale
		case "display":
			out.Display = flags.Display
		case "scale":
			out.Scale = flags.Scale
		case "tps":
			out.TPS = flags.TPS
		case "auto":
			out.AutoGenerate = flags.AutoGenerate
		case "auto-time":
			out.AutoGenTime = flags.AutoGenTime
		case "out":
			out.OutDir = flags.OutDir
		case "format":
			out.Format = flags.Format
		case "index":
			out.Index = flags.Index
		case "dumps":
			out.Dumps = flags.Dumps
		case "force":
			out.Force = flags.Force
		}
	})
	return out
}

func unitRange(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s %v outside [0, 1]", ErrInvalidConfig, name, v)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := core.Resolution(c.Resolution).Validate(); err != nil {
		return err
	}
	if _, err := pipeline.ParseDisplay(c.Display); err != nil {
		return err
	}
	if err := unitRange("roughness", c.Roughness); err != nil {
		return err
	}
	if err := unitRange("metalness", c.Metalness); err != nil {
		return err
	}
	if c.WaterLevel > 1 {
		return fmt.Errorf("%w: water_level %v above 1", ErrInvalidConfig, c.WaterLevel)
	}
	if c.IceCutoff > 1 {
		return fmt.Errorf("%w: ice_cutoff %v above 1", ErrInvalidConfig, c.IceCutoff)
	}
	if c.NormalScale < 0 {
		return fmt.Errorf("%w: normal_scale %v is negative", ErrInvalidConfig, c.NormalScale)
	}
	if c.Scale <= 0 || c.TPS <= 0 || c.AutoGenTime <= 0 {
		return fmt.Errorf("%w: scale, tps and auto_gen_time must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Format) {
	case "png", "tiff", "bmp":
	default:
		return fmt.Errorf("%w: unknown image format %q", ErrInvalidConfig, c.Format)
	}
	return nil
}

// Overrides converts the settings options into a sparse override set.
func (c Config) Overrides() settings.Overrides {
	var o settings.Overrides
	if c.WaterLevel >= 0 {
		o.WaterLevel = settings.Float(c.WaterLevel)
	}
	if c.IceCutoff >= 0 {
		o.IceCutoff = settings.Float(c.IceCutoff)
	}
	return o
}

// Request builds the initial pipeline request.
func (c Config) Request() pipeline.Request {
	return pipeline.Request{
		Seed:       c.Seed,
		Archetype:  c.Archetype,
		Resolution: core.Resolution(c.Resolution),
		Overrides:  c.Overrides(),
	}
}

// Material returns the material options. Call after Validate.
func (c Config) Material() pipeline.MaterialOptions {
	d, _ := pipeline.ParseDisplay(c.Display)
	return pipeline.MaterialOptions{Roughness: c.Roughness, Metalness: c.Metalness, Display: d}
}

// Layered resolves the effective configuration: defaults, then the YAML file
// at path when given, then flags set explicitly on fs. The result is
// validated.
func Layered(path string, flags Config, fs *flag.FlagSet) (Config, error) {
	c := flags
	if path != "" {
		file, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		c = Merge(file, flags, fs)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
