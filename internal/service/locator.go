package service

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/imaging"
	"github.com/docuguard/docuguard/internal/provider"
)

// FaceLocator finds the face regions on a document image and assigns their
// card roles. Role assignment is positional: after sorting by descending
// pixel area, the largest region is the primary portrait and the second
// largest is the ghost security photo.
type FaceLocator struct {
	provider provider.FaceProvider
	logger   *slog.Logger
}

func NewFaceLocator(faceProvider provider.FaceProvider, logger *slog.Logger) *FaceLocator {
	return &FaceLocator{
		provider: faceProvider,
		logger:   logger,
	}
}

// Locate detects every face on the document, sorts them by area, assigns
// roles, crops the regions, and renders the annotated audit image. Zero
// detections is a valid result; the caller classifies the count.
func (l *FaceLocator) Locate(ctx context.Context, doc image.Image) (*domain.LocatedFaces, error) {
	encoded, err := imaging.EncodeJPEG(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document for detection: %w", err)
	}

	detected, err := l.provider.DetectFaces(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]domain.DetectedFace, 0, len(detected))
	for _, d := range detected {
		box := domain.BoundingBox{
			X:      d.Box.X,
			Y:      d.Box.Y,
			Width:  d.Box.Width,
			Height: d.Box.Height,
		}
		if box.Area() == 0 {
			continue
		}
		faces = append(faces, domain.DetectedFace{
			Box:  box,
			Area: box.Area(),
		})
	}

	sort.SliceStable(faces, func(i, j int) bool {
		return faces[i].Area > faces[j].Area
	})

	for i := range faces {
		switch i {
		case 0:
			faces[i].Role = domain.RolePrimary
		case 1:
			faces[i].Role = domain.RoleGhost
		default:
			faces[i].Role = domain.RoleUnclassified
		}
		faces[i].Crop = imaging.Crop(doc, faces[i].Box)
	}

	l.logger.DebugContext(ctx, "faces located",
		slog.Int("count", len(faces)),
	)

	return &domain.LocatedFaces{
		Faces:     faces,
		Annotated: imaging.Annotate(doc, faces),
	}, nil
}
