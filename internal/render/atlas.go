package render

import (
	"image"
	"image/draw"

	"procplanet/internal/cube"
)

// cell is a face position in the 4x3 unfolded-cube layout.
type cell struct{ col, row int }

// crossLayout places every face so that neighbouring tiles share the cube
// edge they touch.
var crossLayout = [cube.Count]cell{
	cube.PosX: {2, 1},
	cube.NegX: {0, 1},
	cube.PosY: {1, 0},
	cube.NegY: {1, 2},
	cube.PosZ: {1, 1},
	cube.NegZ: {3, 1},
}

// AtlasBounds returns the size of an unfolded cube with tiles of edge size.
func AtlasBounds(size int) image.Rectangle {
	return image.Rect(0, 0, 4*size, 3*size)
}

// TileRect returns where face lands inside an atlas of tiles of edge size.
func TileRect(face cube.Face, size int) image.Rectangle {
	c := crossLayout[face]
	return image.Rect(c.col*size, c.row*size, (c.col+1)*size, (c.row+1)*size)
}

// Atlas unfolds six face images into one cross-shaped image. Tiles are scaled
// down by nearest sampling when size is smaller than the source.
func Atlas(faces [cube.Count]*image.NRGBA, size int) *image.NRGBA {
	dst := image.NewNRGBA(AtlasBounds(size))
	for _, face := range cube.Faces {
		src := faces[face]
		if src == nil {
			continue
		}
		r := TileRect(face, size)
		if src.Bounds().Dx() == size {
			draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
			continue
		}
		downsample(dst, r, src)
	}
	return dst
}

func downsample(dst *image.NRGBA, r image.Rectangle, src *image.NRGBA) {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	for y := 0; y < r.Dy(); y++ {
		sy := y * sh / r.Dy()
		for x := 0; x < r.Dx(); x++ {
			sx := x * sw / r.Dx()
			so := src.PixOffset(src.Bounds().Min.X+sx, src.Bounds().Min.Y+sy)
			do := dst.PixOffset(r.Min.X+x, r.Min.Y+y)
			copy(dst.Pix[do:do+4], src.Pix[so:so+4])
		}
	}
}
