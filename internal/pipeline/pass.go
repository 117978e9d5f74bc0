package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"image"
	"math"

	"procplanet/internal/biome"
	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/settings"
	"procplanet/internal/stages"
)

//go:generate go test -run TestScarlettReference -update .

// Pass holds every output of one completed generation pass. A pass is never
// modified after it has been published.
type Pass struct {
	Settings    settings.GeneratorSettings
	Resolution  core.Resolution
	// NormalScale is the table scale for Resolution. Normal is baked at
	// scale 1.
	NormalScale float64

	Height      stages.Fields
	Moisture    stages.Fields
	Temperature stages.Fields
	Roughness   stages.Fields

	Biome  *biome.Table
	Albedo stages.Textures
	Normal stages.Textures
}

// Field returns the scalar field shown by display d, or nil when d is not a
// scalar view.
func (p *Pass) Field(d Display, face cube.Face) *core.Field {
	switch d {
	case DisplayHeight:
		return p.Height[face]
	case DisplayMoisture:
		return p.Moisture[face]
	case DisplayTemperature:
		return p.Temperature[face]
	case DisplayRoughness:
		return p.Roughness[face]
	}
	return nil
}

// Digest is the hex SHA-256 of every field and texture in face order.
func (p *Pass) Digest() string {
	h := sha256.New()
	writeInt(h, int(p.Resolution))
	for _, set := range []stages.Fields{p.Height, p.Moisture, p.Temperature, p.Roughness} {
		for _, f := range set {
			writeField(h, f)
		}
	}
	for _, set := range []stages.Textures{p.Albedo, p.Normal} {
		for _, img := range set {
			writeImage(h, img)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FaceDigest hashes the height field and albedo texture of one face.
func (p *Pass) FaceDigest(face cube.Face) string {
	h := sha256.New()
	writeInt(h, int(p.Resolution))
	writeField(h, p.Height[face])
	writeImage(h, p.Albedo[face])
	return hex.EncodeToString(h.Sum(nil))
}

func writeInt(h hash.Hash, v int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	h.Write(b[:])
}

func writeField(h hash.Hash, f *core.Field) {
	if f == nil {
		return
	}
	vals := f.Values()
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	h.Write(buf)
}

func writeImage(h hash.Hash, img *image.NRGBA) {
	if img == nil {
		return
	}
	h.Write(img.Pix)
}
