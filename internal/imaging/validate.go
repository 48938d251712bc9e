// Package imaging implements the document-image pre-checks and pixel
// transforms that run before and between the face pipeline stages.
package imaging

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/docuguard/docuguard/internal/domain"
)

// Dimension and size limits for incoming document images.
const (
	MinWidth  = 300
	MinHeight = 200
	MaxWidth  = 5000
	MaxHeight = 5000

	DefaultMaxSizeMB = 10.0
)

var supportedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// ValidateBytes validates a raw uploaded image. The upload's actual byte
// size is the most precise measurement available, so it is preferred over
// any in-memory estimate for the size-limit check. Pure function; safe to
// call repeatedly on the same input.
func ValidateBytes(data []byte, maxSizeMB float64) domain.ValidationResult {
	if len(data) == 0 {
		return domain.NewValidationFailure(domain.ErrImageCorrupted, nil)
	}

	actualMB := float64(len(data)) / (1024 * 1024)
	if actualMB > maxSizeMB {
		return domain.NewValidationFailure(domain.ErrFileSizeTooLarge, &domain.ValidationDetails{
			ActualFileSizeMB: actualMB,
			SizeSource:       domain.SizeSourceActualFile,
		})
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if err == image.ErrFormat {
			return domain.NewValidationFailure(domain.ErrInvalidFileFormat, nil)
		}
		return domain.NewValidationFailure(domain.ErrImageCorrupted, nil)
	}
	if !supportedFormats[format] {
		return domain.NewValidationFailure(domain.ErrInvalidFileFormat, nil)
	}

	return checkDimensions(cfg.Width, cfg.Height, actualMB, domain.SizeSourceActualFile)
}

// ValidateImage validates an already-decoded pixel buffer. Without a file
// handle there is no real byte size, so the check falls back to the
// estimated uncompressed size (width*height*3) and tags the result so
// downstream consumers can judge the precision.
func ValidateImage(img image.Image, maxSizeMB float64) domain.ValidationResult {
	if img == nil {
		return domain.NewValidationFailure(domain.ErrImageCorrupted, nil)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	estimatedMB := float64(width) * float64(height) * 3 / (1024 * 1024)

	if res := checkDimensions(width, height, estimatedMB, domain.SizeSourceEstimatedMemory); res.Failed() {
		return res
	}

	if estimatedMB > maxSizeMB {
		return domain.NewValidationFailure(domain.ErrFileSizeTooLarge, &domain.ValidationDetails{
			Width:             width,
			Height:            height,
			EstimatedMemoryMB: estimatedMB,
			SizeSource:        domain.SizeSourceEstimatedMemory,
		})
	}

	return validResult(width, height, estimatedMB, domain.SizeSourceEstimatedMemory)
}

func checkDimensions(width, height int, sizeMB float64, source domain.SizeSource) domain.ValidationResult {
	details := &domain.ValidationDetails{Width: width, Height: height}

	if width < MinWidth || height < MinHeight {
		return domain.NewValidationFailure(domain.ErrImageTooSmall, details)
	}
	if width > MaxWidth || height > MaxHeight {
		return domain.NewValidationFailure(domain.ErrImageTooLarge, details)
	}

	return validResult(width, height, sizeMB, source)
}

func validResult(width, height int, sizeMB float64, source domain.SizeSource) domain.ValidationResult {
	details := &domain.ValidationDetails{
		Width:      width,
		Height:     height,
		SizeSource: source,
	}
	if source == domain.SizeSourceActualFile {
		details.ActualFileSizeMB = sizeMB
	} else {
		details.EstimatedMemoryMB = sizeMB
	}
	return domain.ValidationResult{Valid: true, Details: details}
}
