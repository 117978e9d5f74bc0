package cube

import (
	"fmt"
	"math"
)

// Face identifies one of the six cube faces.
type Face uint8

const (
	PosX Face = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// Count is the number of cube faces.
const Count = 6

// Faces lists every face in index order. Stages loop over this array.
var Faces = [Count]Face{PosX, NegX, PosY, NegY, PosZ, NegZ}

// Basis maps a face's 2-D parameter domain into 3-D space:
// p = Normal + u*Right + v*Up with u, v in [-1, 1].
type Basis struct {
	Normal Vec3
	Right  Vec3
	Up     Vec3
}

// bases is shared by every stage; adjacent faces agree on their common edge.
var bases = [Count]Basis{
	PosX: {Normal: Vec3{1, 0, 0}, Right: Vec3{0, 0, -1}, Up: Vec3{0, 1, 0}},
	NegX: {Normal: Vec3{-1, 0, 0}, Right: Vec3{0, 0, 1}, Up: Vec3{0, 1, 0}},
	PosY: {Normal: Vec3{0, 1, 0}, Right: Vec3{1, 0, 0}, Up: Vec3{0, 0, -1}},
	NegY: {Normal: Vec3{0, -1, 0}, Right: Vec3{1, 0, 0}, Up: Vec3{0, 0, 1}},
	PosZ: {Normal: Vec3{0, 0, 1}, Right: Vec3{1, 0, 0}, Up: Vec3{0, 1, 0}},
	NegZ: {Normal: Vec3{0, 0, -1}, Right: Vec3{-1, 0, 0}, Up: Vec3{0, 1, 0}},
}

var faceNames = [Count]string{"px", "nx", "py", "ny", "pz", "nz"}

// String returns the short face name used in file names and logs.
func (f Face) String() string {
	if int(f) < Count {
		return faceNames[f]
	}
	return fmt.Sprintf("face(%d)", uint8(f))
}

// Valid reports whether f names a real face.
func (f Face) Valid() bool { return int(f) < Count }

// Basis returns the face-basis vectors of f.
func (f Face) Basis() Basis { return bases[f] }

// Point returns the unnormalized cube-surface point for (u, v).
func (f Face) Point(u, v float64) Vec3 {
	b := bases[f]
	return Vec3{
		X: b.Normal.X + u*b.Right.X + v*b.Up.X,
		Y: b.Normal.Y + u*b.Right.Y + v*b.Up.Y,
		Z: b.Normal.Z + u*b.Right.Z + v*b.Up.Z,
	}
}

// Direction returns the unit-sphere direction for face parameters (u, v).
func (f Face) Direction(u, v float64) Vec3 {
	return f.Point(u, v).Normalize()
}

// TexelUV returns the face parameters of texel (x, y) at resolution res.
// Column 0 and column res-1 lie exactly on the face edges, so texels on a
// shared edge resolve to the same direction on both faces. Row 0 is the top
// of the face (v = +1).
func TexelUV(res, x, y int) (u, v float64) {
	if res < 2 {
		return 0, 0
	}
	span := float64(res - 1)
	u = 2*float64(x)/span - 1
	v = 1 - 2*float64(y)/span
	return u, v
}

// TexelDirection is shorthand for f.Direction(TexelUV(res, x, y)).
func (f Face) TexelDirection(res, x, y int) Vec3 {
	u, v := TexelUV(res, x, y)
	return f.Direction(u, v)
}

// Project returns the face parameters of dir on face f. ok is false when dir
// points away from the face.
func (f Face) Project(dir Vec3) (u, v float64, ok bool) {
	b := bases[f]
	d := dir.Dot(b.Normal)
	if d <= 0 {
		return 0, 0, false
	}
	t := 1 / d
	return dir.Dot(b.Right) * t, dir.Dot(b.Up) * t, true
}

// Locate returns the face whose dominant axis matches dir along with the
// face parameters of dir on it.
func Locate(dir Vec3) (Face, float64, float64) {
	ax, ay, az := math.Abs(dir.X), math.Abs(dir.Y), math.Abs(dir.Z)
	var f Face
	switch {
	case ax >= ay && ax >= az:
		f = PosX
		if dir.X < 0 {
			f = NegX
		}
	case ay >= az:
		f = PosY
		if dir.Y < 0 {
			f = NegY
		}
	default:
		f = PosZ
		if dir.Z < 0 {
			f = NegZ
		}
	}
	u, v, _ := f.Project(dir)
	return f, u, v
}

// UVTexel converts face parameters back into texel coordinates, rounding to
// the nearest texel and clamping to the grid.
func UVTexel(res int, u, v float64) (x, y int) {
	span := float64(res - 1)
	x = int(math.Round((u + 1) / 2 * span))
	y = int(math.Round((1 - v) / 2 * span))
	return clampInt(x, 0, res-1), clampInt(y, 0, res-1)
}

// Latitude returns the component of dir along the polar axis (+Y), in [-1, 1].
func Latitude(dir Vec3) float64 { return dir.Y }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
