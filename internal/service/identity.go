package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/embedding"
	"github.com/docuguard/docuguard/internal/imaging"
	"github.com/docuguard/docuguard/internal/provider"
	"github.com/docuguard/docuguard/internal/repository"
)

// IdentityService manages the enrolled-identity gallery that verification
// matches against.
type IdentityService struct {
	provider provider.FaceProvider
	gallery  repository.GalleryRepositoryInterface
	logger   *slog.Logger

	maxImageSizeMB float64
}

func NewIdentityService(faceProvider provider.FaceProvider, gallery repository.GalleryRepositoryInterface, maxImageSizeMB float64, logger *slog.Logger) *IdentityService {
	if maxImageSizeMB <= 0 {
		maxImageSizeMB = imaging.DefaultMaxSizeMB
	}
	return &IdentityService{
		provider:       faceProvider,
		gallery:        gallery,
		logger:         logger,
		maxImageSizeMB: maxImageSizeMB,
	}
}

// Enroll validates the photo, encodes its largest face under the canonical
// model, and stores the identity. Enrollment photos are portraits, not
// documents, so any face count of at least one is accepted and the largest
// region wins.
func (s *IdentityService) Enroll(ctx context.Context, externalID, name string, photo []byte) (*domain.EnrolledIdentity, error) {
	if validation := imaging.ValidateBytes(photo, s.maxImageSizeMB); validation.Failed() {
		return nil, domain.ErrValidationFailed.WithDetails(map[string]any{
			"error_code": validation.ErrorCode,
			"message":    validation.Message,
		})
	}

	detected, err := s.provider.DetectFaces(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("detect faces for enrollment: %w", err)
	}
	if len(detected) == 0 {
		return nil, domain.ErrValidationFailed.WithDetails(map[string]any{
			"message": "No face detected in the enrollment photo.",
		})
	}

	vector, err := s.provider.Represent(ctx, photo, CanonicalModel)
	if err != nil {
		return nil, fmt.Errorf("encode enrollment face: %w", err)
	}

	identity := &domain.EnrolledIdentity{
		ExternalID: externalID,
		Name:       name,
		Embedding:  embedding.Normalize(vector),
	}
	if err := s.gallery.Create(ctx, identity); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "identity enrolled",
		slog.String("external_id", externalID),
		slog.Int("embedding_dims", len(identity.Embedding)),
	)

	return identity, nil
}

// Get returns an enrolled identity by its external id.
func (s *IdentityService) Get(ctx context.Context, externalID string) (*domain.EnrolledIdentity, error) {
	return s.gallery.GetByExternalID(ctx, externalID)
}

// Delete removes an identity from the gallery.
func (s *IdentityService) Delete(ctx context.Context, externalID string) error {
	return s.gallery.Delete(ctx, externalID)
}
