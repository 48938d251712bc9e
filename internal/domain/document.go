package domain

import (
	"image"
)

// FaceRole tags a detected region's function on the card. Role assignment is
// purely positional: the largest region is the primary portrait and the
// second largest is the ghost security photo. This is a heuristic carried
// over from the card layouts this system was calibrated on; nothing checks
// that the second region really is an embossed ghost photo.
type FaceRole string

const (
	RolePrimary      FaceRole = "primary"
	RoleGhost        FaceRole = "ghost"
	RoleUnclassified FaceRole = "unclassified"
)

// BoundingBox is a face region in pixel coordinates.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Area returns the pixel area of the box.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// DetectedFace is one region returned by the face locator, with its crop.
type DetectedFace struct {
	Box  BoundingBox `json:"box"`
	Area int         `json:"area"`
	Role FaceRole    `json:"role"`
	Crop image.Image `json:"-"`
}

// LocatedFaces is the face locator output: faces sorted by descending area
// and an annotated copy of the document for audit display. The annotated
// image is produced even when the face count makes verification impossible.
type LocatedFaces struct {
	Faces     []DetectedFace
	Annotated image.Image
}

// Primary returns the largest detected face, or nil.
func (l *LocatedFaces) Primary() *DetectedFace {
	if len(l.Faces) == 0 {
		return nil
	}
	return &l.Faces[0]
}

// Ghost returns the second-largest detected face, or nil.
func (l *LocatedFaces) Ghost() *DetectedFace {
	if len(l.Faces) < 2 {
		return nil
	}
	return &l.Faces[1]
}

// FaceCountResult classifies a detection count into a pipeline decision.
// These are expected outcomes, not errors: the caller may offer a
// human-in-the-loop fallback when AllowManualOverride is set.
type FaceCountResult struct {
	OK                  bool          `json:"ok"`
	Status              OutcomeStatus `json:"status,omitempty"`
	Message             string        `json:"message,omitempty"`
	Suggestion          string        `json:"suggestion,omitempty"`
	AllowManualOverride bool          `json:"allow_manual_override"`
	WarningOnly         bool          `json:"warning_only"`
}

// ClassifyFaceCount maps the number of detected faces to an outcome.
// 2-5 faces is the normal path; more than that means the photo almost
// certainly contains more than the card.
func ClassifyFaceCount(n int) FaceCountResult {
	switch {
	case n == 0:
		return FaceCountResult{
			Status:              StatusNoFaces,
			Message:             "No faces detected on the document. Please ensure the card is clear and well-lit.",
			Suggestion:          "Ensure good lighting and the card is clearly visible.",
			AllowManualOverride: true,
		}
	case n == 1:
		return FaceCountResult{
			Status:              StatusOneFace,
			Message:             "Only one face detected. Verification requires both the primary and the ghost photo.",
			Suggestion:          "This may be normal for some card variants. Use manual verification if needed.",
			AllowManualOverride: true,
			WarningOnly:         true,
		}
	case n > 5:
		return FaceCountResult{
			Status:     StatusTooManyFaces,
			Message:    "Too many faces detected. Please ensure only the card is visible in the image.",
			Suggestion: "Crop the image to show only the card.",
		}
	default:
		return FaceCountResult{OK: true}
	}
}
