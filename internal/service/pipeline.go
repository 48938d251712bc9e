package service

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/docuguard/docuguard/internal/audit"
	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/imaging"
	"github.com/docuguard/docuguard/internal/provider"
	"github.com/docuguard/docuguard/internal/repository"
	"github.com/docuguard/docuguard/internal/resource"
)

// verificationMethod tags audit records produced by this pipeline, as
// opposed to future manual-override flows.
const verificationMethod = "automatic"

// VerificationService runs the full document verification pipeline:
// resource preflight, image validation, face location, primary-vs-ghost
// authenticity, and gallery matching. Deterministic end states come back as
// a VerificationOutcome; environmental failures that survive the retry
// policy come back as errors.
type VerificationService struct {
	provider  provider.FaceProvider
	locator   *FaceLocator
	verifier  *AuthenticityVerifier
	matcher   *GalleryMatcher
	auditRepo repository.VerificationAuditRepositoryInterface
	auditLog  audit.Logger
	monitor   resource.Monitor
	retry     resource.RetryPolicy
	logger    *slog.Logger

	maxImageSizeMB   float64
	defaultThreshold float64

	mu    sync.Mutex
	ready bool
}

type VerificationServiceConfig struct {
	MaxImageSizeMB   float64
	DefaultThreshold float64
}

func NewVerificationService(
	faceProvider provider.FaceProvider,
	gallery repository.GalleryRepositoryInterface,
	auditRepo repository.VerificationAuditRepositoryInterface,
	auditLog audit.Logger,
	monitor resource.Monitor,
	retry resource.RetryPolicy,
	cfg VerificationServiceConfig,
	logger *slog.Logger,
) *VerificationService {
	if cfg.MaxImageSizeMB <= 0 {
		cfg.MaxImageSizeMB = imaging.DefaultMaxSizeMB
	}
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = 0.5
	}
	return &VerificationService{
		provider:         faceProvider,
		locator:          NewFaceLocator(faceProvider, logger),
		verifier:         NewAuthenticityVerifier(faceProvider, logger),
		matcher:          NewGalleryMatcher(faceProvider, gallery, logger),
		auditRepo:        auditRepo,
		auditLog:         auditLog,
		monitor:          monitor,
		retry:            retry,
		logger:           logger,
		maxImageSizeMB:   cfg.MaxImageSizeMB,
		defaultThreshold: cfg.DefaultThreshold,
	}
}

// EnsureReady warms the face backend so the first real verification does not
// pay the model cold-start. Safe to call concurrently; only the first caller
// does the work.
func (s *VerificationService) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	probe := image.NewRGBA(image.Rect(0, 0, 64, 64))
	encoded, err := imaging.EncodeJPEG(probe)
	if err != nil {
		return domain.ErrModelLoadingFailed.WithError(err)
	}

	err = s.retry.Do(ctx, "warmup", func() error {
		_, derr := s.provider.DetectFaces(ctx, encoded)
		return derr
	})
	if err != nil {
		return domain.ErrModelLoadingFailed.WithError(err)
	}

	s.ready = true
	s.logger.InfoContext(ctx, "face backend warmed up")
	return nil
}

// ValidateDocument runs only the pre-processing checks, for callers that
// want a cheap dry run before submitting a full verification.
func (s *VerificationService) ValidateDocument(data []byte) domain.ValidationResult {
	return imaging.ValidateBytes(data, s.maxImageSizeMB)
}

// VerifyDocument runs the pipeline end to end over an uploaded document
// image. A zero threshold selects the configured default. Every returned
// outcome carries the partial artifacts produced before its terminal state,
// so a failed attempt is still reviewable.
func (s *VerificationService) VerifyDocument(ctx context.Context, data []byte, threshold float64) (*domain.VerificationOutcome, error) {
	if threshold == 0 {
		threshold = s.defaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, domain.ErrInvalidThreshold
	}

	if st, ok := resource.OK(s.monitor); !ok {
		return nil, domain.ErrInsufficientMemory.WithDetails(map[string]any{
			"available_memory_mb": st.AvailableMemoryMB,
		})
	}

	validation := imaging.ValidateBytes(data, s.maxImageSizeMB)
	if validation.Failed() {
		outcome := &domain.VerificationOutcome{
			Status:     domain.StatusValidationFailed,
			Message:    validation.Message,
			Validation: &validation,
		}
		s.recordAttempt(ctx, outcome, 0)
		return outcome, nil
	}

	doc, err := imaging.Decode(data)
	if err != nil {
		validation = domain.NewValidationFailure(domain.ErrImageCorrupted, validation.Details)
		outcome := &domain.VerificationOutcome{
			Status:     domain.StatusValidationFailed,
			Message:    validation.Message,
			Validation: &validation,
		}
		s.recordAttempt(ctx, outcome, 0)
		return outcome, nil
	}
	doc = imaging.Downscale(doc)

	var located *domain.LocatedFaces
	err = s.retry.Do(ctx, "locate_faces", func() error {
		var lerr error
		located, lerr = s.locator.Locate(ctx, doc)
		return lerr
	})
	if err != nil {
		return nil, s.asServiceError(err)
	}

	faceCount := len(located.Faces)
	partial := &domain.AuthenticityResult{
		FacesDetected: faceCount,
		Annotated:     located.Annotated,
	}

	if count := domain.ClassifyFaceCount(faceCount); !count.OK {
		outcome := &domain.VerificationOutcome{
			Status:       count.Status,
			Message:      count.Message,
			Validation:   &validation,
			FaceCount:    &count,
			Authenticity: partial,
		}
		s.recordAttempt(ctx, outcome, faceCount)
		return outcome, nil
	}

	var authenticity *domain.AuthenticityResult
	err = s.retry.Do(ctx, "authenticity", func() error {
		var verr error
		authenticity, verr = s.verifier.Verify(ctx, located.Primary(), located.Ghost())
		return verr
	})
	if err != nil {
		return nil, s.asServiceError(err)
	}
	authenticity.FacesDetected = faceCount
	authenticity.Annotated = located.Annotated

	if !authenticity.Verified {
		outcome := &domain.VerificationOutcome{
			Status:       domain.StatusAuthenticityFailed,
			Message:      "Primary and ghost photos do not appear to show the same person.",
			Validation:   &validation,
			Authenticity: authenticity,
		}
		s.recordAttempt(ctx, outcome, faceCount)
		return outcome, nil
	}

	var match *domain.MatchResult
	err = s.retry.Do(ctx, "gallery_match", func() error {
		var merr error
		match, merr = s.matcher.Match(ctx, located.Primary(), threshold)
		return merr
	})
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Code == domain.ErrNoEnrolledEncodings.Code {
			return nil, appErr
		}
		return nil, s.asServiceError(err)
	}

	if match.Best == nil {
		outcome := &domain.VerificationOutcome{
			Status:       domain.StatusNoMatch,
			Message:      "Document is authentic but no enrolled identity matched.",
			Validation:   &validation,
			Authenticity: authenticity,
			Match:        match,
		}
		s.recordAttempt(ctx, outcome, faceCount)
		return outcome, nil
	}

	matched := &domain.EnrolledIdentity{
		ID:         match.Best.IdentityID,
		ExternalID: match.Best.ExternalID,
		Name:       match.Best.Name,
	}
	outcome := &domain.VerificationOutcome{
		Status:       domain.StatusSuccess,
		Validation:   &validation,
		Authenticity: authenticity,
		Match:        match,
		Matched:      matched,
		Similarity:   match.Best.Similarity,
	}
	s.recordAttempt(ctx, outcome, faceCount)
	return outcome, nil
}

// recordAttempt persists the audit row and emits the audit log entry.
// Best-effort on both sinks: a finished verification is never failed by its
// own paper trail.
func (s *VerificationService) recordAttempt(ctx context.Context, outcome *domain.VerificationOutcome, facesDetected int) {
	rec := &domain.VerificationRecord{
		Success:         outcome.Success(),
		IdentityMatched: outcome.Matched != nil,
		FacesDetected:   facesDetected,
		Method:          verificationMethod,
	}

	if s.auditRepo != nil {
		if err := s.auditRepo.Create(ctx, rec); err != nil {
			s.logger.WarnContext(ctx, "could not persist verification record",
				slog.Any("error", err),
			)
		}
	}

	if s.auditLog != nil {
		_ = s.auditLog.Log(ctx, audit.Event{
			ID:              rec.ID,
			Timestamp:       rec.Timestamp,
			Success:         rec.Success,
			IdentityMatched: rec.IdentityMatched,
			FacesDetected:   rec.FacesDetected,
			Method:          rec.Method,
		})
	}
}

// asServiceError maps exhausted environmental failures to a typed kind so
// the HTTP surface renders a structured payload instead of a bare 500.
func (s *VerificationService) asServiceError(err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return domain.ErrFaceServiceUnavailable.WithError(err)
}
