package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// VoteData is one ensemble model's vote
type VoteData struct {
	Model     string  `json:"model" example:"Facenet"`
	Distance  float64 `json:"distance" example:"0.42"`
	Threshold float64 `json:"threshold" example:"0.8"`
	Matched   bool    `json:"matched" example:"true"`
	Error     string  `json:"error,omitempty"`
}

// AuthenticityData is the ensemble verdict
type AuthenticityData struct {
	FacesDetected  int        `json:"faces_detected" example:"2"`
	Verified       bool       `json:"verified" example:"true"`
	Votes          []VoteData `json:"votes"`
	VerifiedCount  int        `json:"verified_count" example:"3"`
	Confidence     float64    `json:"confidence" example:"75.0"`
	AnnotatedImage string     `json:"annotated_image,omitempty" example:"<base64 jpeg>"`
}

// MatchScoreData is one gallery candidate's similarity
type MatchScoreData struct {
	ExternalID string  `json:"external_id" example:"emp-1042"`
	Name       string  `json:"name" example:"Maria Silva"`
	Similarity float64 `json:"similarity" example:"0.72"`
}

// MatchData is the gallery search breakdown
type MatchData struct {
	AllScores []MatchScoreData `json:"all_scores"`
	Threshold float64          `json:"threshold" example:"0.5"`
}

// MatchedIdentityData identifies the matched person
type MatchedIdentityData struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ExternalID string `json:"external_id" example:"emp-1042"`
	Name       string `json:"name" example:"Maria Silva"`
}

// VerifyDocumentData is the full verification outcome
type VerifyDocumentData struct {
	Status       string               `json:"status" example:"SUCCESS"`
	Message      string               `json:"message,omitempty"`
	Authenticity *AuthenticityData    `json:"authenticity,omitempty"`
	Match        *MatchData           `json:"match,omitempty"`
	Matched      *MatchedIdentityData `json:"matched,omitempty"`
	Similarity   float64              `json:"similarity,omitempty" example:"0.72"`
}

// ValidationData is the image pre-check result
type ValidationData struct {
	Valid      bool   `json:"valid" example:"false"`
	ErrorCode  string `json:"error_code,omitempty" example:"IMAGE_TOO_SMALL"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// IdentityData describes one enrolled identity
type IdentityData struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ExternalID string `json:"external_id" example:"emp-1042"`
	Name       string `json:"name" example:"Maria Silva"`
	CreatedAt  string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code       string `json:"code" example:"VALIDATION_FAILED"`
	Message    string `json:"message" example:"Request validation failed"`
	Suggestion string `json:"suggestion,omitempty"`
}

// HealthData is the probe payload
type HealthData struct {
	Status string `json:"status" example:"ok"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "DocuGuard Document Verification API",
		Version:     "v1.0.0",
		Description: "Identity-card authenticity verification (primary vs ghost photo ensemble) with gallery face matching",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/verifications - full pipeline
		endpoint.New(
			endpoint.POST,
			"/verifications",
			endpoint.WithTags("Verifications"),
			endpoint.WithSummary("Verify an identity document"),
			endpoint.WithDescription("Runs validation, face location, primary-vs-ghost authenticity voting, and gallery matching over an uploaded document image."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("threshold", parameter.Query, parameter.WithDescription("Minimum gallery similarity (0-1, default 0.5)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerifyDocumentData{}, "200", "Pipeline completed; see status for the outcome"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "NO_STUDENTS_WITH_ENCODINGS", Message: "No enrolled identities with face encodings found in the gallery."}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INVALID_THRESHOLD", Message: "Threshold must be between 0 and 1"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "FACE_SERVICE_UNAVAILABLE", Message: "Face recognition service is temporarily unavailable."}, "503", "Service Unavailable"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/validations - pre-checks only
		endpoint.New(
			endpoint.POST,
			"/validations",
			endpoint.WithTags("Verifications"),
			endpoint.WithSummary("Validate a document image"),
			endpoint.WithDescription("Runs only the dimension, format, and size pre-checks without any model work."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ValidationData{Valid: true}, "200", "Image passed all checks"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ValidationData{}, "422", "Image failed a check"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
			}),
		),

		// POST /v1/identities - enroll
		endpoint.New(
			endpoint.POST,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Enroll an identity"),
			endpoint.WithDescription("Adds a person to the matching gallery from a portrait photo."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "201", "Identity enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "IDENTITY_ALREADY_EXISTS", Message: "Identity already enrolled for this external_id"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/identities/{external_id}
		endpoint.New(
			endpoint.GET,
			"/identities/{external_id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Get an enrolled identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("external_id", parameter.Path, parameter.WithDescription("External identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "200", "Identity found"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Enrolled identity not found"}, "404", "Not Found"),
			}),
		),

		// DELETE /v1/identities/{external_id}
		endpoint.New(
			endpoint.DELETE,
			"/identities/{external_id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Delete an enrolled identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("external_id", parameter.Path, parameter.WithDescription("External identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Identity deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Enrolled identity not found"}, "404", "Not Found"),
			}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthData{Status: "ok"}, "200", "Service is alive"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthData{Status: "ready"}, "200", "Dependencies are reachable"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthData{Status: "not ready"}, "503", "A dependency is unavailable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
