package core

import "math"

// Field stores one face's scalar samples in row-major order. A field is
// created by a generation pass and never updated incrementally.
type Field struct {
	Res  Resolution
	data []float32
}

// NewField allocates a zeroed field at the given resolution.
func NewField(res Resolution) *Field {
	n := int(res)
	if n <= 0 {
		n = 1
	}
	return &Field{Res: res, data: make([]float32, n*n)}
}

// Size returns the edge length of the field in texels.
func (f *Field) Size() int { return int(f.Res) }

// Values exposes the backing slice so stages can write samples directly.
func (f *Field) Values() []float32 { return f.data }

// Index returns the linear slice index for coordinates (x, y).
func (f *Field) Index(x, y int) int { return y*int(f.Res) + x }

// At returns the sample at (x, y).
func (f *Field) At(x, y int) float32 { return f.data[f.Index(x, y)] }

// Set stores v at (x, y).
func (f *Field) Set(x, y int, v float32) { f.data[f.Index(x, y)] = v }

// Clamped returns the sample nearest to (x, y), clamping to the grid border.
func (f *Field) Clamped(x, y int) float32 {
	n := int(f.Res)
	if x < 0 {
		x = 0
	} else if x >= n {
		x = n - 1
	}
	if y < 0 {
		y = 0
	} else if y >= n {
		y = n - 1
	}
	return f.data[y*n+x]
}

// Range returns the smallest and largest sample in the field.
func (f *Field) Range() (lo, hi float32) {
	if len(f.data) == 0 {
		return 0, 0
	}
	lo, hi = f.data[0], f.data[0]
	for _, v := range f.data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Equal reports whether both fields have the same resolution and
// bit-identical samples.
func (f *Field) Equal(o *Field) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Res != o.Res || len(f.data) != len(o.data) {
		return false
	}
	for i, v := range f.data {
		if math.Float32bits(v) != math.Float32bits(o.data[i]) {
			return false
		}
	}
	return true
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
