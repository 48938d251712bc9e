package domain

import (
	"fmt"
)

// AppError is the structured error carried to callers. Every kind has a
// fixed user-facing message plus a recovery suggestion; Details holds
// structured data (measured dimensions, sizes) for a technical panel.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	StatusCode int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		Suggestion: e.Suggestion,
		StatusCode: e.StatusCode,
		Details:    e.Details,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		Suggestion: e.Suggestion,
		StatusCode: e.StatusCode,
		Details:    details,
		Err:        e.Err,
	}
}

// Transient reports whether the error kind is environmental and worth
// retrying with backoff. Validation and gallery kinds never retry.
func (e *AppError) Transient() bool {
	switch e.Code {
	case "FACE_SERVICE_UNAVAILABLE", "INSUFFICIENT_MEMORY", "PERMISSION_ERROR", "UNEXPECTED_ERROR":
		return true
	}
	return false
}

// Pre-defined errors

// Validation kinds: surfaced immediately, never retried.
var (
	ErrImageTooSmall = &AppError{
		Code:       "IMAGE_TOO_SMALL",
		Message:    "Document image is too small. Minimum size required: 300x200 pixels.",
		Suggestion: "Use a higher resolution camera or scanner.",
		StatusCode: 422,
	}

	ErrImageTooLarge = &AppError{
		Code:       "IMAGE_TOO_LARGE",
		Message:    "Document image is too large. Maximum size allowed: 5000x5000 pixels.",
		Suggestion: "Resize the image or reduce camera resolution.",
		StatusCode: 422,
	}

	ErrImageCorrupted = &AppError{
		Code:       "IMAGE_CORRUPTED",
		Message:    "Document image appears to be corrupted or unreadable.",
		Suggestion: "Re-capture or re-upload the document image.",
		StatusCode: 422,
	}

	ErrInvalidFileFormat = &AppError{
		Code:       "INVALID_FILE_FORMAT",
		Message:    "Invalid file format. Please upload JPG, PNG, or JPEG images only.",
		Suggestion: "Convert the image to JPG or PNG format.",
		StatusCode: 422,
	}

	ErrFileSizeTooLarge = &AppError{
		Code:       "FILE_SIZE_TOO_LARGE",
		Message:    "File size too large. Maximum allowed: 10MB.",
		Suggestion: "Compress the image or use a smaller resolution.",
		StatusCode: 422,
	}
)

// Transient/environmental kinds: wrapped in retry-with-backoff before surfacing.
var (
	ErrFaceServiceUnavailable = &AppError{
		Code:       "FACE_SERVICE_UNAVAILABLE",
		Message:    "Face recognition service is temporarily unavailable. Please try again later.",
		Suggestion: "Wait a moment and try again, or contact support.",
		StatusCode: 503,
	}

	ErrModelLoadingFailed = &AppError{
		Code:       "MODEL_LOADING_FAILED",
		Message:    "Face recognition models failed to load.",
		Suggestion: "Restart the application or contact technical support.",
		StatusCode: 503,
	}

	ErrInsufficientMemory = &AppError{
		Code:       "INSUFFICIENT_MEMORY",
		Message:    "Insufficient memory to process the document image.",
		Suggestion: "Close other applications or use a smaller image.",
		StatusCode: 503,
	}

	ErrPermission = &AppError{
		Code:       "PERMISSION_ERROR",
		Message:    "Permission denied accessing temporary files.",
		Suggestion: "Check file permissions of the temp directory.",
		StatusCode: 500,
	}

	ErrUnexpected = &AppError{
		Code:       "UNEXPECTED_ERROR",
		Message:    "An unexpected error occurred during verification.",
		Suggestion: "Please try again or contact support.",
		StatusCode: 500,
	}
)

// Gallery kinds: never retried. A below-threshold search is not an error at
// all; it is the NO_MATCH outcome.
var (
	ErrNoEnrolledEncodings = &AppError{
		Code:       "NO_STUDENTS_WITH_ENCODINGS",
		Message:    "No enrolled identities with face encodings found in the gallery.",
		Suggestion: "Ensure identities are enrolled with face photos.",
		StatusCode: 409,
	}
)

// HTTP-surface kinds.
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrIdentityNotFound = &AppError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "Enrolled identity not found",
		StatusCode: 404,
	}

	ErrIdentityExists = &AppError{
		Code:       "IDENTITY_ALREADY_EXISTS",
		Message:    "Identity already enrolled for this external_id",
		StatusCode: 409,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Threshold must be between 0 and 1",
		StatusCode: 422,
	}
)
