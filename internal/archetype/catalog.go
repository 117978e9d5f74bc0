// Package archetype loads the catalog of named planet presets.
package archetype

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"procplanet/internal/settings"
	"procplanet/pkg/core"
)

// None is the archetype name meaning "derive everything from the seed hash".
const None = "NONE"

var (
	// ErrUnknownArchetype is returned when a name is not in the catalog.
	ErrUnknownArchetype = errors.New("unknown archetype")
	// ErrInvalidCatalog is returned when a catalog document fails validation.
	ErrInvalidCatalog = errors.New("invalid archetype catalog")
	// ErrNoSeeds is returned when an archetype without seeds is asked for one.
	ErrNoSeeds = errors.New("archetype has no seeds")
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed schema.json
var catalogSchema string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Archetype is a named preset of generation overrides and candidate seeds.
type Archetype struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Seeds       []string           `yaml:"seeds,omitempty"`
	Overrides   settings.Overrides `yaml:"overrides,omitempty"`
}

type document struct {
	Archetypes []Archetype `yaml:"archetypes"`
}

// Catalog is a read-only table of archetypes keyed by case-insensitive name.
type Catalog struct {
	entries []Archetype
	byName  map[string]int
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded archetype catalog: %v", err))
	}
	return c
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates a YAML catalog document against the catalog schema and
// decodes it.
func Parse(raw []byte) (*Catalog, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	c := &Catalog{byName: make(map[string]int, len(doc.Archetypes))}
	for _, a := range doc.Archetypes {
		key := strings.ToLower(a.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate archetype %q", ErrInvalidCatalog, a.Name)
		}
		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, a)
	}
	return c, nil
}

func validate(raw []byte) error {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("archetype-catalog.json", catalogSchema)
	})
	if schemaErr != nil {
		return schemaErr
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	// Round-trip through JSON so the validator sees plain JSON types.
	js, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}

// IsNone reports whether name selects no archetype.
func IsNone(name string) bool {
	return name == "" || strings.EqualFold(name, None)
}

// Len returns the number of archetypes.
func (c *Catalog) Len() int { return len(c.entries) }

// Names returns the archetype names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, a := range c.entries {
		out[i] = a.Name
	}
	return out
}

// Lookup returns the archetype with the given case-insensitive name.
func (c *Catalog) Lookup(name string) (Archetype, error) {
	if idx, ok := c.byName[strings.ToLower(name)]; ok {
		return c.entries[idx], nil
	}
	return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
}

// Random returns a uniformly chosen archetype.
func (c *Catalog) Random(rng *core.RNG) (Archetype, error) {
	if len(c.entries) == 0 {
		return Archetype{}, fmt.Errorf("%w: empty catalog", ErrUnknownArchetype)
	}
	return c.entries[rng.IntN(len(c.entries))], nil
}

// RandomSeed returns a random seed of a.
func (a Archetype) RandomSeed(rng *core.RNG) (string, error) {
	if len(a.Seeds) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoSeeds, a.Name)
	}
	return a.Seeds[rng.IntN(len(a.Seeds))], nil
}

// PickSeed resolves the seed to use for archetype name. A selected choice is
// reused unless it is empty; an empty choice draws a random catalog seed of
// that archetype.
func (c *Catalog) PickSeed(name, choice string, rng *core.RNG) (string, error) {
	a, err := c.Lookup(name)
	if err != nil {
		return "", err
	}
	if choice != "" {
		return choice, nil
	}
	return a.RandomSeed(rng)
}
