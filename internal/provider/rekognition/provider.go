package rekognition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/docuguard/docuguard/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// Provider implements provider.FaceProvider using AWS Rekognition. It can
// detect faces and compare face images, but Rekognition does not expose raw
// embeddings, so Represent reports ErrModelNotSupported: the ensemble still
// gets a distance vote out of CompareFaces, while gallery matching requires
// an embedding-capable provider.
type Provider struct {
	client *rekognition.Client
}

var _ provider.FaceProvider = (*Provider)(nil)

// NewProvider creates a Rekognition provider using the AWS default
// credential chain.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Provider{
		client: rekognition.NewFromConfig(awsCfg),
	}, nil
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(img []byte) error {
	if len(img) == 0 {
		return ErrInvalidImage
	}
	if len(img) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(img), minImageSize)
	}
	if len(img) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(img), maxImageSize)
	}
	return nil
}

// DetectFaces detects faces via the Rekognition DetectFaces API. Boxes come
// back as image-relative ratios and are converted to pixel coordinates.
// An empty slice means no faces; that is not an error.
func (p *Provider) DetectFaces(ctx context.Context, img []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: img,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := p.client.DetectFaces(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", parseAPIError(err))
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil {
			continue
		}
		faces = append(faces, provider.DetectedFace{
			Box: provider.Box{
				X:      int(float64(aws.ToFloat32(detail.BoundingBox.Left)) * float64(cfg.Width)),
				Y:      int(float64(aws.ToFloat32(detail.BoundingBox.Top)) * float64(cfg.Height)),
				Width:  int(float64(aws.ToFloat32(detail.BoundingBox.Width)) * float64(cfg.Width)),
				Height: int(float64(aws.ToFloat32(detail.BoundingBox.Height)) * float64(cfg.Height)),
			},
			Confidence: float64(aws.ToFloat32(detail.Confidence)) / 100.0,
		})
	}

	return faces, nil
}

// Represent is not supported: Rekognition never exposes embedding vectors.
func (p *Provider) Represent(ctx context.Context, img []byte, model string) ([]float64, error) {
	return nil, fmt.Errorf("rekognition %s: %w", model, provider.ErrModelNotSupported)
}

// CompareFaces compares two face images via the Rekognition CompareFaces
// API and converts the 0-100 similarity into a cosine-style distance. No
// reported match counts as maximum distance.
func (p *Provider) CompareFaces(ctx context.Context, img1, img2 []byte, model string) (float64, error) {
	if err := validateImage(img1); err != nil {
		return 0, fmt.Errorf("source image: %w", err)
	}
	if err := validateImage(img2); err != nil {
		return 0, fmt.Errorf("target image: %w", err)
	}

	input := &rekognition.CompareFacesInput{
		SourceImage: &types.Image{
			Bytes: img1,
		},
		TargetImage: &types.Image{
			Bytes: img2,
		},
		// Report every candidate pair; thresholding happens in the ensemble.
		SimilarityThreshold: aws.Float32(0),
	}

	output, err := p.client.CompareFaces(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("compare faces: %w", parseAPIError(err))
	}

	if len(output.FaceMatches) == 0 {
		return 1.0, nil
	}

	similarity := float64(aws.ToFloat32(output.FaceMatches[0].Similarity)) / 100.0
	return 1.0 - similarity, nil
}
