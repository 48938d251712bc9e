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

// CanonicalModel is the single model used for gallery matching. Gallery
// embeddings are stored under this model, so query faces must be encoded
// with it too; the authenticity ensemble's models are not comparable.
const CanonicalModel = "Facenet512"

// GalleryMatcher searches the enrolled-identity gallery for the person on
// the document's primary portrait.
type GalleryMatcher struct {
	provider provider.FaceProvider
	gallery  repository.GalleryRepositoryInterface
	logger   *slog.Logger
}

func NewGalleryMatcher(faceProvider provider.FaceProvider, gallery repository.GalleryRepositoryInterface, logger *slog.Logger) *GalleryMatcher {
	return &GalleryMatcher{
		provider: faceProvider,
		gallery:  gallery,
		logger:   logger,
	}
}

// Match encodes the primary face under the canonical model and scores it
// against every enrolled identity. It returns the best candidate at or
// above the threshold plus every computed score, so a NO_MATCH caller can
// see how close the nearest miss was. An empty gallery is a configuration
// problem and fails fast before any model work.
func (m *GalleryMatcher) Match(ctx context.Context, primary *domain.DetectedFace, threshold float64) (*domain.MatchResult, error) {
	if primary == nil {
		return nil, fmt.Errorf("gallery match requires a primary face")
	}

	enrolled, err := m.gallery.LoadEnrolled(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}
	if len(enrolled) == 0 {
		return nil, domain.ErrNoEnrolledEncodings
	}

	queryBytes, err := imaging.EncodeJPEG(primary.Crop)
	if err != nil {
		return nil, fmt.Errorf("encode primary crop: %w", err)
	}

	query, err := m.provider.Represent(ctx, queryBytes, CanonicalModel)
	if err != nil {
		return nil, fmt.Errorf("encode query face: %w", err)
	}

	result := &domain.MatchResult{
		AllScores: make([]domain.MatchCandidate, 0, len(enrolled)),
		Threshold: threshold,
	}

	for _, identity := range enrolled {
		// A malformed stored embedding is skipped, not fatal: one bad
		// enrollment must not block matching against the rest.
		if len(identity.Embedding) != len(query) {
			m.logger.WarnContext(ctx, "skipping identity with malformed embedding",
				slog.String("external_id", identity.ExternalID),
				slog.Int("stored_dims", len(identity.Embedding)),
				slog.Int("query_dims", len(query)),
			)
			continue
		}

		candidate := domain.MatchCandidate{
			IdentityID: identity.ID,
			ExternalID: identity.ExternalID,
			Name:       identity.Name,
			Similarity: embedding.Cosine(query, identity.Embedding),
		}
		result.AllScores = append(result.AllScores, candidate)

		if candidate.Similarity >= threshold {
			if result.Best == nil || candidate.Similarity > result.Best.Similarity {
				best := candidate
				result.Best = &best
			}
		}
	}

	m.logger.InfoContext(ctx, "gallery match complete",
		slog.Int("gallery_size", len(enrolled)),
		slog.Int("scored", len(result.AllScores)),
		slog.Bool("matched", result.Best != nil),
		slog.Float64("best_observed", result.BestObserved()),
		slog.Float64("threshold", threshold),
	)

	return result, nil
}
