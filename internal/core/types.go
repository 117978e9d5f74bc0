package core

import (
	"errors"
	"fmt"
	"strconv"
)

// Resolution is the per-face texel edge length of a generation pass.
type Resolution int

// ErrUnsupportedResolution is returned for resolutions outside the fixed set.
var ErrUnsupportedResolution = errors.New("unsupported resolution")

// DefaultResolution is used when no resolution is configured.
const DefaultResolution Resolution = 1024

var resolutions = []Resolution{64, 128, 256, 512, 1024, 2048, 4096}

// normalScales is the resolution -> normal-scale table. Lower resolutions use
// a smaller scale to avoid aliasing.
var normalScales = map[Resolution]float64{
	64:   0.0625,
	128:  0.125,
	256:  0.25,
	512:  0.5,
	1024: 1.0,
	2048: 1.5,
	4096: 3.0,
}

// Resolutions lists the supported resolutions in ascending order.
func Resolutions() []Resolution {
	return append([]Resolution(nil), resolutions...)
}

// Valid reports whether r is one of the supported resolutions.
func (r Resolution) Valid() bool {
	_, ok := normalScales[r]
	return ok
}

// Validate returns ErrUnsupportedResolution when r is not supported.
func (r Resolution) Validate() error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedResolution, int(r))
	}
	return nil
}

// NormalScale returns the fixed normal-scale factor for r, or 0 when r is not
// a supported resolution.
func (r Resolution) NormalScale() float64 { return normalScales[r] }

// Next returns the next larger supported resolution, wrapping to the smallest.
func (r Resolution) Next() Resolution {
	for i, v := range resolutions {
		if v == r {
			return resolutions[(i+1)%len(resolutions)]
		}
	}
	return DefaultResolution
}

// Prev returns the next smaller supported resolution, wrapping to the largest.
func (r Resolution) Prev() Resolution {
	for i, v := range resolutions {
		if v == r {
			return resolutions[(i+len(resolutions)-1)%len(resolutions)]
		}
	}
	return DefaultResolution
}

// ParseResolution parses a decimal resolution and validates it.
func ParseResolution(s string) (Resolution, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedResolution, s)
	}
	r := Resolution(n)
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r, nil
}
