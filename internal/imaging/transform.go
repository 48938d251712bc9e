package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"

	"github.com/docuguard/docuguard/internal/domain"
)

// maxAnalysisSide bounds the longest document side before detection; larger
// scans gain nothing but latency.
const maxAnalysisSide = 1500

// jpegQuality is used whenever a crop is staged for a model encode.
const jpegQuality = 95

// Decode decodes an uploaded document image into pixels.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode document image: %w", err)
	}
	return img, nil
}

// Downscale shrinks the image so its longest side is at most maxAnalysisSide,
// preserving aspect ratio. Images already within bounds pass through.
func Downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= maxAnalysisSide {
		return img
	}

	scale := float64(maxAnalysisSide) / float64(longest)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// Crop copies the boxed region out of the document image. Boxes that reach
// past the image edge are clamped rather than rejected; detectors routinely
// overshoot by a few pixels.
func Crop(img image.Image, box domain.BoundingBox) *image.RGBA {
	b := img.Bounds()
	r := image.Rect(
		b.Min.X+box.X,
		b.Min.Y+box.Y,
		b.Min.X+box.X+box.Width,
		b.Min.Y+box.Y+box.Height,
	).Intersect(b)

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Copy(dst, image.Point{}, img, r, xdraw.Src, nil)
	return dst
}

// EncodeJPEG serializes an image for model I/O staging.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
