package imaging

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docuguard/docuguard/internal/domain"
)

func TestAnnotate(t *testing.T) {
	doc := image.NewRGBA(image.Rect(0, 0, 400, 300))
	faces := []domain.DetectedFace{
		{Box: domain.BoundingBox{X: 50, Y: 50, Width: 120, Height: 150}, Area: 18000, Role: domain.RolePrimary},
		{Box: domain.BoundingBox{X: 300, Y: 100, Width: 40, Height: 50}, Area: 2000, Role: domain.RoleGhost},
	}

	out := Annotate(doc, faces)

	assert.Equal(t, 400, out.Bounds().Dx())
	assert.Equal(t, 300, out.Bounds().Dy())

	// The primary border must actually be drawn in its color
	assert.Equal(t, primaryColor, out.RGBAAt(50, 50))
	assert.Equal(t, ghostColor, out.RGBAAt(300, 100))
}

func TestAnnotate_SkipsUnclassified(t *testing.T) {
	doc := image.NewRGBA(image.Rect(0, 0, 400, 300))
	faces := []domain.DetectedFace{
		{Box: domain.BoundingBox{X: 10, Y: 10, Width: 20, Height: 20}, Area: 400, Role: domain.RoleUnclassified},
	}

	out := Annotate(doc, faces)
	assert.NotEqual(t, primaryColor, out.RGBAAt(10, 10))
}

func TestAnnotate_NoFaces(t *testing.T) {
	doc := image.NewRGBA(image.Rect(0, 0, 320, 240))
	out := Annotate(doc, nil)
	assert.Equal(t, 320, out.Bounds().Dx())
}
