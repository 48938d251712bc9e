package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lumaRange(img image.Image) int {
	b := img.Bounds()
	lo, hi := 255, 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			yy, _, _ := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			if int(yy) < lo {
				lo = int(yy)
			}
			if int(yy) > hi {
				hi = int(yy)
			}
		}
	}
	return hi - lo
}

func TestEnhanceFaceRegion_PreservesDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 160))
	out := EnhanceFaceRegion(src)

	assert.Equal(t, 120, out.Bounds().Dx())
	assert.Equal(t, 160, out.Bounds().Dy())
}

func TestEnhanceFaceRegion_StretchesLowContrast(t *testing.T) {
	// Alternating mid-gray columns: the faint-print case the enhancement
	// exists for.
	src := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			v := uint8(100)
			if x%2 == 1 {
				v = 150
			}
			src.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	out := EnhanceFaceRegion(src)
	assert.GreaterOrEqual(t, lumaRange(out), lumaRange(src))
}

func TestEnhanceFaceRegion_EmptyImage(t *testing.T) {
	out := EnhanceFaceRegion(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Equal(t, 0, out.Bounds().Dx())
}
