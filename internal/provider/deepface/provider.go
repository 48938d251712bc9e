package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/docuguard/docuguard/internal/embedding"
	"github.com/docuguard/docuguard/internal/provider"
)

// Provider implements provider.FaceProvider using the DeepFace API
type Provider struct {
	client *Client
}

var _ provider.FaceProvider = (*Provider)(nil)

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces runs the configured detector over the image. An empty result
// is a valid answer, not an error.
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	resp, err := p.client.Analyze(ctx, base64.StdEncoding.EncodeToString(image))
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, r := range resp.Results {
		// A zero-sized region is the detector's way of reporting "no face"
		// when enforcement is off.
		if r.Region.W == 0 || r.Region.H == 0 {
			continue
		}
		faces = append(faces, provider.DetectedFace{
			Box: provider.Box{
				X:      r.Region.X,
				Y:      r.Region.Y,
				Width:  r.Region.W,
				Height: r.Region.H,
			},
			Confidence: r.Confidence,
		})
	}

	return faces, nil
}

// Represent encodes the face image with the named model.
func (p *Provider) Represent(ctx context.Context, image []byte, model string) ([]float64, error) {
	resp, err := p.client.Represent(ctx, base64.StdEncoding.EncodeToString(image), model)
	if err != nil {
		return nil, fmt.Errorf("represent with %s: %w", model, err)
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Embedding) == 0 {
		return nil, ErrNoFaceInResponse
	}

	return resp.Results[0].Embedding, nil
}

// CompareFaces encodes both images with the named model and returns their
// cosine distance.
func (p *Provider) CompareFaces(ctx context.Context, img1, img2 []byte, model string) (float64, error) {
	emb1, err := p.Represent(ctx, img1, model)
	if err != nil {
		return 0, err
	}

	emb2, err := p.Represent(ctx, img2, model)
	if err != nil {
		return 0, err
	}

	return embedding.CosineDistance(emb1, emb2), nil
}
