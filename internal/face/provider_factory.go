package face

import (
	"context"
	"fmt"

	"github.com/docuguard/docuguard/internal/config"
	"github.com/docuguard/docuguard/internal/provider"
	"github.com/docuguard/docuguard/internal/provider/deepface"
	"github.com/docuguard/docuguard/internal/provider/mock"
	"github.com/docuguard/docuguard/internal/provider/rekognition"
)

// ProviderType defines supported face recognition provider types
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace provider (local service, full
	// embedding support for ensemble and gallery matching)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is the AWS Rekognition provider (cloud;
	// detection and comparison only, no raw embeddings)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the deterministic in-process provider for tests
	ProviderTypeMock ProviderType = "mock"
)

// NewFaceProvider creates a FaceProvider instance based on configuration.
//
// Environment variables:
//   - FACE_PROVIDER: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5000")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
func NewFaceProvider(ctx context.Context, cfg *config.Config) (provider.FaceProvider, error) {
	providerType := ProviderType(cfg.FaceProvider)

	switch providerType {
	case ProviderTypeRekognition:
		prov, err := rekognition.NewProvider(ctx, rekognition.Config{Region: cfg.AWSRegion})
		if err != nil {
			return nil, fmt.Errorf("create rekognition provider: %w", err)
		}
		return prov, nil

	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeDeepFace, "":
		deepfaceConfig := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			deepfaceConfig.BaseURL = cfg.DeepFaceURL
		}
		return deepface.NewProvider(deepfaceConfig), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.FaceProvider, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}
