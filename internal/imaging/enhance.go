package imaging

import (
	"image"
	"image/color"
)

// CLAHE parameters tuned for the faint embossed ghost photo: an aggressive
// clip limit on an 8x8 tile grid.
const (
	claheTiles     = 8
	claheClipLimit = 3.0
)

// EnhanceFaceRegion applies contrast-limited adaptive histogram equalization
// to the luminance channel of a face crop. The ghost photo is typically a
// faint secondary print and encodes much better after local contrast
// stretching; the primary portrait is used unmodified.
func EnhanceFaceRegion(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	// Extract luminance once; chroma is carried through untouched.
	luma := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			yy, _, _ := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			luma[y*w+x] = yy
		}
	}

	mapped := claheLuma(luma, w, h)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			_, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			nr, ng, nb := color.YCbCrToRGB(mapped[y*w+x], cb, cr)
			out.SetRGBA(x, y, color.RGBA{R: nr, G: ng, B: nb, A: uint8(a >> 8)})
		}
	}
	return out
}

// claheLuma equalizes the luminance plane tile by tile with a clipped
// histogram, interpolating bilinearly between neighboring tile mappings to
// avoid visible tile seams.
func claheLuma(luma []uint8, w, h int) []uint8 {
	tilesX, tilesY := claheTiles, claheTiles
	if w < tilesX {
		tilesX = 1
	}
	if h < tilesY {
		tilesY = 1
	}
	tileW := (w + tilesX - 1) / tilesX
	tileH := (h + tilesY - 1) / tilesY

	// Per-tile clipped-CDF lookup tables.
	luts := make([][256]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := min(x0+tileW, w), min(y0+tileH, h)

			var hist [256]int
			count := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[luma[y*w+x]]++
					count++
				}
			}
			if count == 0 {
				continue
			}

			// Clip the histogram and redistribute the excess uniformly.
			clip := int(claheClipLimit * float64(count) / 256.0)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			bonus := excess / 256
			for i := range hist {
				hist[i] += bonus
			}

			cdf := 0
			for i := 0; i < 256; i++ {
				cdf += hist[i]
				luts[ty*tilesX+tx][i] = uint8(min(255, cdf*255/count))
			}
		}
	}

	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Tile-center coordinates for interpolation.
			fx := (float64(x) - float64(tileW)/2) / float64(tileW)
			fy := (float64(y) - float64(tileH)/2) / float64(tileH)

			tx0 := clampInt(int(fx), 0, tilesX-1)
			ty0 := clampInt(int(fy), 0, tilesY-1)
			tx1 := clampInt(tx0+1, 0, tilesX-1)
			ty1 := clampInt(ty0+1, 0, tilesY-1)

			wx := fx - float64(tx0)
			wy := fy - float64(ty0)
			wx = clampFloat(wx, 0, 1)
			wy = clampFloat(wy, 0, 1)

			v := luma[y*w+x]
			v00 := float64(luts[ty0*tilesX+tx0][v])
			v10 := float64(luts[ty0*tilesX+tx1][v])
			v01 := float64(luts[ty1*tilesX+tx0][v])
			v11 := float64(luts[ty1*tilesX+tx1][v])

			top := v00*(1-wx) + v10*wx
			bot := v01*(1-wx) + v11*wx
			out[y*w+x] = uint8(top*(1-wy) + bot*wy)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
