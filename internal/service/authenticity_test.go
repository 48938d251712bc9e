package service

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docuguard/docuguard/internal/domain"
)

func testFaces() (*domain.DetectedFace, *domain.DetectedFace) {
	primary := &domain.DetectedFace{
		Box:  domain.BoundingBox{X: 40, Y: 60, Width: 120, Height: 150},
		Role: domain.RolePrimary,
		Crop: image.NewRGBA(image.Rect(0, 0, 120, 150)),
	}
	ghost := &domain.DetectedFace{
		Box:  domain.BoundingBox{X: 300, Y: 100, Width: 40, Height: 50},
		Role: domain.RoleGhost,
		Crop: image.NewRGBA(image.Rect(0, 0, 40, 50)),
	}
	return primary, ghost
}

func scriptDistances(mockProvider *MockFaceProvider, distances map[string]float64) {
	for model, distance := range distances {
		mockProvider.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, model).
			Return(distance, nil)
	}
}

func TestAuthenticityVerifier_MajorityVerifies(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	scriptDistances(mockProvider, map[string]float64{
		"Facenet":  0.50, // <= 0.80, match
		"VGG-Face": 0.90, // <= 0.95, match
		"ArcFace":  1.20, // > 1.00, miss
		"OpenFace": 0.70, // <= 0.85, match
	})

	verifier := NewAuthenticityVerifier(mockProvider, testLogger())
	primary, ghost := testFaces()

	result, err := verifier.Verify(context.Background(), primary, ghost)
	require.NoError(t, err)

	assert.True(t, result.Verified)
	assert.Equal(t, 3, result.VerifiedCount)
	assert.InDelta(t, 75.0, result.Confidence, 1e-9)
	require.Len(t, result.Votes, 4)
	assert.Equal(t, "Facenet", result.Votes[0].Model)
	assert.True(t, result.Votes[0].Matched)
	assert.False(t, result.Votes[2].Matched)
}

func TestAuthenticityVerifier_MinorityFails(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	scriptDistances(mockProvider, map[string]float64{
		"Facenet":  0.90,
		"VGG-Face": 1.00,
		"ArcFace":  1.10,
		"OpenFace": 0.80, // only match
	})

	verifier := NewAuthenticityVerifier(mockProvider, testLogger())
	primary, ghost := testFaces()

	result, err := verifier.Verify(context.Background(), primary, ghost)
	require.NoError(t, err)

	assert.False(t, result.Verified)
	assert.Equal(t, 1, result.VerifiedCount)
	assert.InDelta(t, 25.0, result.Confidence, 1e-9)
}

func TestAuthenticityVerifier_ExactlyHalfVerifies(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	scriptDistances(mockProvider, map[string]float64{
		"Facenet":  0.50,
		"VGG-Face": 0.90,
		"ArcFace":  1.50,
		"OpenFace": 1.50,
	})

	verifier := NewAuthenticityVerifier(mockProvider, testLogger())
	primary, ghost := testFaces()

	result, err := verifier.Verify(context.Background(), primary, ghost)
	require.NoError(t, err)

	// 2 of 4 is exactly half; the calibrated boundary passes.
	assert.True(t, result.Verified)
	assert.InDelta(t, 50.0, result.Confidence, 1e-9)
}

func TestAuthenticityVerifier_ModelErrorIsFailedVote(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, "Facenet").
		Return(0.0, errors.New("model load timeout"))
	scriptDistances(mockProvider, map[string]float64{
		"VGG-Face": 0.50,
		"ArcFace":  0.50,
		"OpenFace": 0.50,
	})

	verifier := NewAuthenticityVerifier(mockProvider, testLogger())
	primary, ghost := testFaces()

	result, err := verifier.Verify(context.Background(), primary, ghost)
	require.NoError(t, err)

	// One model down, the other three still carry the majority.
	assert.True(t, result.Verified)
	assert.Equal(t, 3, result.VerifiedCount)
	require.Len(t, result.Votes, 4)
	assert.Contains(t, result.Votes[0].Error, "model load timeout")
	assert.False(t, result.Votes[0].Matched)
}

func TestAuthenticityVerifier_RequiresBothFaces(t *testing.T) {
	verifier := NewAuthenticityVerifier(new(MockFaceProvider), testLogger())
	primary, _ := testFaces()

	_, err := verifier.Verify(context.Background(), primary, nil)
	assert.Error(t, err)
}

func TestDefaultEnsemble_Calibration(t *testing.T) {
	models := DefaultEnsemble()
	require.Len(t, models, 4)

	thresholds := map[string]float64{}
	for _, m := range models {
		thresholds[m.Name] = m.Threshold
	}
	assert.InDelta(t, 0.80, thresholds["Facenet"], 1e-9)
	assert.InDelta(t, 0.95, thresholds["VGG-Face"], 1e-9)
	assert.InDelta(t, 1.00, thresholds["ArcFace"], 1e-9)
	assert.InDelta(t, 0.85, thresholds["OpenFace"], 1e-9)
}
