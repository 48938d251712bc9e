package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/docuguard/docuguard/internal/domain"
)

var (
	primaryColor = color.RGBA{R: 0, G: 255, B: 255, A: 255} // cyan
	ghostColor   = color.RGBA{R: 255, G: 0, B: 0, A: 255}   // red
	labelText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotate renders a labeled bounding box for every detected face onto a
// copy of the document: primary and ghost get distinct colors and the pixel
// area is printed under each label. The annotation exists for audit and demo
// review, so it is produced even when verification is going to fail.
func Annotate(doc image.Image, faces []domain.DetectedFace) *image.RGBA {
	b := doc.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), doc, b.Min, draw.Src)

	borderWidth := max(2, b.Dx()/200)

	for _, face := range faces {
		var c color.RGBA
		var label string
		switch face.Role {
		case domain.RolePrimary:
			c, label = primaryColor, "Primary Face"
		case domain.RoleGhost:
			c, label = ghostColor, "Ghost Face"
		default:
			continue
		}

		drawRect(out, face.Box, c, borderWidth)

		labelY := max(12, face.Box.Y-6)
		drawLabel(out, face.Box.X, labelY, label, c)
		drawLabel(out, face.Box.X, labelY+14, fmt.Sprintf("%dpx2", face.Area), c)
	}

	return out
}

func drawRect(img *image.RGBA, box domain.BoundingBox, c color.RGBA, width int) {
	x0, y0 := box.X, box.Y
	x1, y1 := box.X+box.Width, box.Y+box.Height

	for off := 0; off < width; off++ {
		for x := x0 - off; x <= x1+off; x++ {
			setIfInside(img, x, y0-off, c)
			setIfInside(img, x, y1+off, c)
		}
		for y := y0 - off; y <= y1+off; y++ {
			setIfInside(img, x0-off, y, c)
			setIfInside(img, x1+off, y, c)
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func drawLabel(img *image.RGBA, x, y int, text string, bg color.RGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()

	// Filled backdrop so the label stays readable on any card art.
	backdrop := image.Rect(x-2, y-11, x+w+2, y+3).Intersect(img.Bounds())
	draw.Draw(img, backdrop, &image.Uniform{C: bg}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: labelText},
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
