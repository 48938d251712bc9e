package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/imaging"
	"github.com/docuguard/docuguard/internal/provider"
	"github.com/docuguard/docuguard/internal/resource"
)

// EnsembleModel pairs an embedding model with its calibrated cosine-distance
// threshold. The thresholds were tuned per model on document photo pairs and
// are not interchangeable.
type EnsembleModel struct {
	Name      string
	Threshold float64
}

// DefaultEnsemble is the calibrated authenticity ensemble. Order is stable
// so vote lists read the same across attempts.
func DefaultEnsemble() []EnsembleModel {
	return []EnsembleModel{
		{Name: "Facenet", Threshold: 0.80},
		{Name: "VGG-Face", Threshold: 0.95},
		{Name: "ArcFace", Threshold: 1.00},
		{Name: "OpenFace", Threshold: 0.85},
	}
}

// AuthenticityVerifier decides whether the primary portrait and the ghost
// security photo show the same person. Each ensemble model votes
// independently; a simple majority of matched votes verifies the document.
type AuthenticityVerifier struct {
	provider provider.FaceProvider
	models   []EnsembleModel
	logger   *slog.Logger
}

func NewAuthenticityVerifier(faceProvider provider.FaceProvider, logger *slog.Logger) *AuthenticityVerifier {
	return &AuthenticityVerifier{
		provider: faceProvider,
		models:   DefaultEnsemble(),
		logger:   logger,
	}
}

// WithModels overrides the ensemble, for tests and calibration runs.
func (v *AuthenticityVerifier) WithModels(models []EnsembleModel) *AuthenticityVerifier {
	v.models = models
	return v
}

// Verify runs the ensemble over the primary and ghost crops. The ghost is
// contrast-enhanced first; it is typically a faint secondary print and
// encodes poorly as-is. A model that errors records a failed vote rather
// than aborting the ensemble, so one flaky backend cannot kill an attempt.
func (v *AuthenticityVerifier) Verify(ctx context.Context, primary, ghost *domain.DetectedFace) (*domain.AuthenticityResult, error) {
	if primary == nil || ghost == nil {
		return nil, fmt.Errorf("authenticity requires both primary and ghost faces")
	}

	scope := resource.NewTempScope(v.logger)
	defer scope.Close()

	primaryBytes, err := imaging.EncodeJPEG(primary.Crop)
	if err != nil {
		return nil, fmt.Errorf("encode primary crop: %w", err)
	}
	ghostBytes, err := imaging.EncodeJPEG(imaging.EnhanceFaceRegion(ghost.Crop))
	if err != nil {
		return nil, fmt.Errorf("encode ghost crop: %w", err)
	}

	// Crops are staged to disk for the duration of the ensemble so a failed
	// attempt can be reproduced from the exact inputs.
	if _, err := scope.Stage("primary-*.jpg", primaryBytes); err != nil {
		return nil, err
	}
	if _, err := scope.Stage("ghost-*.jpg", ghostBytes); err != nil {
		return nil, err
	}

	votes := make([]domain.ModelVote, 0, len(v.models))
	verifiedCount := 0

	for _, m := range v.models {
		vote := domain.ModelVote{Model: m.Name, Threshold: m.Threshold}

		distance, err := v.provider.CompareFaces(ctx, primaryBytes, ghostBytes, m.Name)
		if err != nil {
			vote.Error = err.Error()
			v.logger.WarnContext(ctx, "ensemble model failed",
				slog.String("model", m.Name),
				slog.Any("error", err),
			)
			votes = append(votes, vote)
			continue
		}

		vote.Distance = distance
		vote.Matched = distance <= m.Threshold
		if vote.Matched {
			verifiedCount++
		}
		votes = append(votes, vote)
	}

	result := &domain.AuthenticityResult{
		Verified:      domain.MajorityVerified(verifiedCount, len(v.models)),
		Votes:         votes,
		VerifiedCount: verifiedCount,
		Confidence:    domain.ConfidenceScore(verifiedCount, len(v.models)),
	}

	v.logger.InfoContext(ctx, "authenticity ensemble complete",
		slog.Bool("verified", result.Verified),
		slog.Int("verified_count", verifiedCount),
		slog.Int("total_models", len(v.models)),
		slog.Float64("confidence", result.Confidence),
	)

	return result, nil
}
