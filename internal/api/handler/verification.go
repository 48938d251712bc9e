package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/imaging"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// VerificationService is the pipeline surface the handler depends on.
type VerificationService interface {
	VerifyDocument(ctx context.Context, data []byte, threshold float64) (*domain.VerificationOutcome, error)
	ValidateDocument(data []byte) domain.ValidationResult
}

// VerificationHandler handles document verification requests
type VerificationHandler struct {
	service VerificationService
	logger  *slog.Logger
}

func NewVerificationHandler(service VerificationService, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		service: service,
		logger:  logger,
	}
}

// VoteResponse is one ensemble model's vote in the response payload.
type VoteResponse struct {
	Model     string  `json:"model"`
	Distance  float64 `json:"distance"`
	Threshold float64 `json:"threshold"`
	Matched   bool    `json:"matched"`
	Error     string  `json:"error,omitempty"`
}

// AuthenticityResponse is the ensemble verdict plus the annotated audit
// image, base64-encoded JPEG.
type AuthenticityResponse struct {
	FacesDetected  int            `json:"faces_detected"`
	Verified       bool           `json:"verified"`
	Votes          []VoteResponse `json:"votes"`
	VerifiedCount  int            `json:"verified_count"`
	Confidence     float64        `json:"confidence"`
	AnnotatedImage string         `json:"annotated_image,omitempty"`
}

// MatchCandidateResponse is one gallery score.
type MatchCandidateResponse struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// MatchResponse is the gallery search breakdown.
type MatchResponse struct {
	AllScores []MatchCandidateResponse `json:"all_scores"`
	Threshold float64                  `json:"threshold"`
}

// MatchedIdentityResponse identifies the matched person on SUCCESS.
type MatchedIdentityResponse struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// VerifyDocumentResponse is the full pipeline outcome.
type VerifyDocumentResponse struct {
	Status              string                   `json:"status"`
	Message             string                   `json:"message,omitempty"`
	Suggestion          string                   `json:"suggestion,omitempty"`
	AllowManualOverride bool                     `json:"allow_manual_override,omitempty"`
	WarningOnly         bool                     `json:"warning_only,omitempty"`
	Validation          *domain.ValidationResult `json:"validation,omitempty"`
	Authenticity        *AuthenticityResponse    `json:"authenticity,omitempty"`
	Match               *MatchResponse           `json:"match,omitempty"`
	Matched             *MatchedIdentityResponse `json:"matched,omitempty"`
	Similarity          float64                  `json:"similarity,omitempty"`
}

// Verify POST /v1/verifications - run the full document verification pipeline
func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c)
	if err != nil {
		return fmt.Errorf("verify document: %w", err)
	}

	threshold, err := parseThreshold(c)
	if err != nil {
		return err
	}

	outcome, err := h.service.VerifyDocument(c.Context(), imageBytes, threshold)
	if err != nil {
		return err
	}

	return c.JSON(toVerifyResponse(outcome))
}

// Validate POST /v1/validations - run only the image pre-checks
func (h *VerificationHandler) Validate(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c)
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}

	result := h.service.ValidateDocument(imageBytes)
	status := fiber.StatusOK
	if result.Failed() {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(result)
}

func toVerifyResponse(outcome *domain.VerificationOutcome) VerifyDocumentResponse {
	resp := VerifyDocumentResponse{
		Status:     string(outcome.Status),
		Message:    outcome.Message,
		Validation: outcome.Validation,
		Similarity: outcome.Similarity,
	}

	if fc := outcome.FaceCount; fc != nil {
		resp.Suggestion = fc.Suggestion
		resp.AllowManualOverride = fc.AllowManualOverride
		resp.WarningOnly = fc.WarningOnly
	}

	if a := outcome.Authenticity; a != nil {
		ar := &AuthenticityResponse{
			FacesDetected: a.FacesDetected,
			Verified:      a.Verified,
			VerifiedCount: a.VerifiedCount,
			Confidence:    a.Confidence,
			Votes:         make([]VoteResponse, 0, len(a.Votes)),
		}
		for _, v := range a.Votes {
			ar.Votes = append(ar.Votes, VoteResponse(v))
		}
		if a.Annotated != nil {
			if encoded, err := imaging.EncodeJPEG(a.Annotated); err == nil {
				ar.AnnotatedImage = base64.StdEncoding.EncodeToString(encoded)
			}
		}
		resp.Authenticity = ar
	}

	if m := outcome.Match; m != nil {
		mr := &MatchResponse{
			Threshold: m.Threshold,
			AllScores: make([]MatchCandidateResponse, 0, len(m.AllScores)),
		}
		for _, s := range m.AllScores {
			mr.AllScores = append(mr.AllScores, MatchCandidateResponse{
				ExternalID: s.ExternalID,
				Name:       s.Name,
				Similarity: s.Similarity,
			})
		}
		resp.Match = mr
	}

	if outcome.Matched != nil {
		resp.Matched = &MatchedIdentityResponse{
			ID:         outcome.Matched.ID.String(),
			ExternalID: outcome.Matched.ExternalID,
			Name:       outcome.Matched.Name,
		}
	}

	return resp
}

func parseThreshold(c *fiber.Ctx) (float64, error) {
	raw := strings.TrimSpace(c.FormValue("threshold", c.Query("threshold")))
	if raw == "" {
		return 0, nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || threshold < 0 || threshold > 1 {
		return 0, domain.ErrInvalidThreshold
	}
	return threshold, nil
}

func extractImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if file.Size == 0 {
		return nil, domain.ErrImageCorrupted
	}
	if file.Size > maxUploadSize {
		return nil, domain.ErrFileSizeTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !validImageTypes[contentType] {
		return nil, domain.ErrInvalidFileFormat
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrImageCorrupted.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrImageCorrupted.WithError(err)
	}

	return imageBytes, nil
}
