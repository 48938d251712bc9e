package rekognition

import (
	"errors"

	"github.com/aws/smithy-go"
)

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrInvalidImage indicates the image cannot be processed by Rekognition
	ErrInvalidImage = errors.New("invalid image for rekognition")

	// ErrNoFaceDetected indicates that no face was found in the provided image
	ErrNoFaceDetected = errors.New("no face detected in image")
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidParameter = "InvalidParameterException"
)

// parseAPIError maps well-known Rekognition API error codes to sentinel
// errors, preserving the original for anything unrecognized.
func parseAPIError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case errCodeAccessDenied:
		return ErrInvalidCredentials
	case errCodeInvalidParameter:
		// Rekognition reports "no face in source/target image" as an
		// invalid parameter.
		return ErrNoFaceDetected
	}
	return err
}
