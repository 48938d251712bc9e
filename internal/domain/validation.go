package domain

// SizeSource records which measurement backed the size-limit check.
type SizeSource string

const (
	// SizeSourceActualFile means the uploaded file's real byte size was used.
	SizeSourceActualFile SizeSource = "actual_file"
	// SizeSourceEstimatedMemory means an uncompressed width*height*3 estimate
	// was used because only a decoded pixel buffer was available.
	SizeSourceEstimatedMemory SizeSource = "estimated_memory"
)

// ValidationDetails carries the measurements behind a validation decision.
type ValidationDetails struct {
	Width             int        `json:"width"`
	Height            int        `json:"height"`
	ActualFileSizeMB  float64    `json:"actual_file_size_mb,omitempty"`
	EstimatedMemoryMB float64    `json:"estimated_memory_size_mb,omitempty"`
	SizeSource        SizeSource `json:"size_source,omitempty"`
}

// ValidationResult is the outcome of the pre-processing image checks.
// It is a value, not an error: callers branch on Valid.
type ValidationResult struct {
	Valid      bool               `json:"valid"`
	ErrorCode  string             `json:"error_code,omitempty"`
	Message    string             `json:"message,omitempty"`
	Suggestion string             `json:"suggestion,omitempty"`
	Details    *ValidationDetails `json:"details,omitempty"`
}

// Failed builds a failing result from a validation-kind AppError.
func (v ValidationResult) Failed() bool { return !v.Valid }

func NewValidationFailure(appErr *AppError, details *ValidationDetails) ValidationResult {
	return ValidationResult{
		Valid:      false,
		ErrorCode:  appErr.Code,
		Message:    appErr.Message,
		Suggestion: appErr.Suggestion,
		Details:    details,
	}
}
