package domain

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// OutcomeStatus tags the terminal state of a verification attempt.
type OutcomeStatus string

const (
	StatusValidationFailed   OutcomeStatus = "VALIDATION_FAILED"
	StatusNoFaces            OutcomeStatus = "NO_FACES"
	StatusOneFace            OutcomeStatus = "ONE_FACE"
	StatusTooManyFaces       OutcomeStatus = "TOO_MANY_FACES"
	StatusAuthenticityFailed OutcomeStatus = "AUTHENTICITY_FAILED"
	StatusNoMatch            OutcomeStatus = "NO_MATCH"
	StatusSuccess            OutcomeStatus = "SUCCESS"
)

// ModelVote is one ensemble member's judgment. Created once per model per
// attempt and never mutated. A model that failed to encode records its error
// string instead of aborting the whole ensemble.
type ModelVote struct {
	Model     string  `json:"model"`
	Distance  float64 `json:"distance"`
	Threshold float64 `json:"threshold"`
	Matched   bool    `json:"matched"`
	Error     string  `json:"error,omitempty"`
}

// AuthenticityResult is the ensemble's aggregated verdict along with the full
// per-model breakdown for audit display.
type AuthenticityResult struct {
	FacesDetected int         `json:"faces_detected"`
	Verified      bool        `json:"verified"`
	Votes         []ModelVote `json:"votes"`
	VerifiedCount int         `json:"verified_count"`
	Confidence    float64     `json:"confidence"`
	Annotated     image.Image `json:"-"`
}

// MajorityVerified reports whether matched votes reach half the ensemble.
// Exactly 50% passes on even model counts; this boundary is calibrated
// behavior and must not be rounded up.
func MajorityVerified(verifiedCount, totalModels int) bool {
	if totalModels == 0 {
		return false
	}
	return 2*verifiedCount >= totalModels
}

// ConfidenceScore is the matched-vote share as a 0-100 percentage.
func ConfidenceScore(verifiedCount, totalModels int) float64 {
	if totalModels == 0 {
		return 0
	}
	return float64(verifiedCount) / float64(totalModels) * 100
}

// EnrolledIdentity is a gallery entry: a previously enrolled person with a
// stored face embedding. Read-only to the verification pipeline.
type EnrolledIdentity struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Embedding  []float64 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchCandidate is one gallery entry's similarity against the query face.
type MatchCandidate struct {
	IdentityID uuid.UUID `json:"identity_id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Similarity float64   `json:"similarity"`
}

// MatchResult holds the best above-threshold candidate (nil when none
// cleared the threshold) plus every computed score for diagnostics.
type MatchResult struct {
	Best      *MatchCandidate  `json:"best,omitempty"`
	AllScores []MatchCandidate `json:"all_scores"`
	Threshold float64          `json:"threshold"`
}

// BestObserved returns the highest similarity seen regardless of threshold,
// useful for suggesting a workable threshold after a NO_MATCH.
func (m *MatchResult) BestObserved() float64 {
	best := 0.0
	for _, s := range m.AllScores {
		if s.Similarity > best {
			best = s.Similarity
		}
	}
	return best
}

// VerificationOutcome is the terminal object returned to the caller: a
// tagged union over the pipeline's possible end states. Every failure state
// still carries whatever partial artifacts were produced before it.
type VerificationOutcome struct {
	Status       OutcomeStatus       `json:"status"`
	Message      string              `json:"message,omitempty"`
	Validation   *ValidationResult   `json:"validation,omitempty"`
	FaceCount    *FaceCountResult    `json:"face_count,omitempty"`
	Authenticity *AuthenticityResult `json:"authenticity,omitempty"`
	Match        *MatchResult        `json:"match,omitempty"`
	Matched      *EnrolledIdentity   `json:"matched,omitempty"`
	Similarity   float64             `json:"similarity,omitempty"`
}

// Success reports whether the attempt ran the full pipeline and matched.
func (o *VerificationOutcome) Success() bool {
	return o.Status == StatusSuccess
}

// VerificationRecord is the audit row persisted (best-effort) after every
// attempt, matched or not.
type VerificationRecord struct {
	ID              uuid.UUID `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Success         bool      `json:"success"`
	IdentityMatched bool      `json:"identity_matched"`
	FacesDetected   int       `json:"faces_detected"`
	Method          string    `json:"method"`
}
