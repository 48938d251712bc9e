// Package mock provides a deterministic FaceProvider for tests and local
// development: no network, no models, stable outputs per input image.
package mock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/embedding"
	"github.com/docuguard/docuguard/internal/provider"
)

const embeddingDimension = 512

// Provider implements provider.FaceProvider for tests and development
type Provider struct{}

var _ provider.FaceProvider = (*Provider)(nil)

// New creates a new mock Provider
func New() *Provider {
	return &Provider{}
}

// DetectFaces simulates document layout detection: a large portrait on the
// left and a smaller ghost photo on the right, scaled to the image size.
func (p *Provider) DetectFaces(ctx context.Context, img []byte) ([]provider.DetectedFace, error) {
	if len(img) < 1000 {
		return nil, domain.ErrImageCorrupted
	}

	w, h := 800, 500
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(img)); err == nil {
		w, h = cfg.Width, cfg.Height
	}

	return []provider.DetectedFace{
		{
			Box: provider.Box{
				X:      w / 10,
				Y:      h / 5,
				Width:  w / 4,
				Height: h / 2,
			},
			Confidence: 0.99,
		},
		{
			Box: provider.Box{
				X:      w * 7 / 10,
				Y:      h / 2,
				Width:  w / 8,
				Height: h / 4,
			},
			Confidence: 0.93,
		},
	}, nil
}

// Represent generates a deterministic embedding from the image and model
// name hash, so the same crop always encodes to the same vector.
func (p *Provider) Represent(ctx context.Context, img []byte, model string) ([]float64, error) {
	if len(img) < 1000 {
		return nil, domain.ErrImageCorrupted
	}

	return generateEmbedding(img, model), nil
}

// CompareFaces computes the cosine distance between the deterministic
// embeddings of both images.
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

func generateEmbedding(img []byte, model string) []float64 {
	hash := sha256.Sum256(append([]byte(model+":"), img...))
	vec := make([]float64, embeddingDimension)
	hashLen := len(hash)

	for i := 0; i < embeddingDimension; i++ {
		idx := i % hashLen
		vec[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	return embedding.Normalize(vec)
}
