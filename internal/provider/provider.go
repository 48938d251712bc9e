package provider

import (
	"context"
	"errors"
)

// ErrModelNotSupported is returned by providers that cannot serve a named
// embedding model. The ensemble records it as a failed vote; the gallery
// matcher surfaces it as a service problem.
var ErrModelNotSupported = errors.New("embedding model not supported by provider")

// FaceProvider abstracts the face detection and embedding engines. Backends
// are process-local or remote, synchronous, and configured for accuracy on
// document photos: zero detected faces is a result, never an error.
type FaceProvider interface {
	// DetectFaces returns every face region found in the image, in pixel
	// coordinates.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)

	// Represent encodes the face image into an embedding vector using the
	// named model.
	Represent(ctx context.Context, image []byte, model string) ([]float64, error)

	// CompareFaces computes the cosine distance between two face images
	// under the named model. 0 is identical; the usable range depends on
	// the model, which is why thresholds are calibrated per model.
	CompareFaces(ctx context.Context, img1, img2 []byte, model string) (float64, error)
}

// DetectedFace is a detected face region as reported by a provider.
type DetectedFace struct {
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
}

// Box is a face area in pixel coordinates of the analyzed image.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}
