package service

import (
	"context"
	"image"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFaceLocator_AssignsRolesByArea(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	// Detector reports the smaller region first; the locator must re-sort.
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
		{Box: provider.Box{X: 300, Y: 100, Width: 40, Height: 50}, Confidence: 0.93},
		{Box: provider.Box{X: 40, Y: 60, Width: 120, Height: 150}, Confidence: 0.99},
	}, nil)

	locator := NewFaceLocator(mockProvider, testLogger())
	doc := image.NewRGBA(image.Rect(0, 0, 500, 300))

	located, err := locator.Locate(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, located.Faces, 2)

	assert.Equal(t, domain.RolePrimary, located.Faces[0].Role)
	assert.Equal(t, 120*150, located.Faces[0].Area)
	assert.Equal(t, domain.RoleGhost, located.Faces[1].Role)
	assert.Equal(t, 40*50, located.Faces[1].Area)

	// Descending area ordering must hold
	for i := 1; i < len(located.Faces); i++ {
		assert.GreaterOrEqual(t, located.Faces[i-1].Area, located.Faces[i].Area)
	}

	assert.NotNil(t, located.Annotated)
	assert.NotNil(t, located.Primary().Crop)
	assert.Equal(t, 120, located.Primary().Crop.Bounds().Dx())
}

func TestFaceLocator_ExtraFacesUnclassified(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
		{Box: provider.Box{X: 0, Y: 0, Width: 100, Height: 100}},
		{Box: provider.Box{X: 200, Y: 0, Width: 50, Height: 50}},
		{Box: provider.Box{X: 300, Y: 0, Width: 20, Height: 20}},
	}, nil)

	locator := NewFaceLocator(mockProvider, testLogger())
	located, err := locator.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 400, 200)))
	require.NoError(t, err)
	require.Len(t, located.Faces, 3)
	assert.Equal(t, domain.RoleUnclassified, located.Faces[2].Role)
}

func TestFaceLocator_NoFacesIsNotAnError(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil)

	locator := NewFaceLocator(mockProvider, testLogger())
	located, err := locator.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 400, 200)))
	require.NoError(t, err)
	assert.Empty(t, located.Faces)
	assert.NotNil(t, located.Annotated)
	assert.Nil(t, located.Primary())
}

func TestFaceLocator_DropsZeroAreaRegions(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{
		{Box: provider.Box{X: 10, Y: 10, Width: 0, Height: 50}},
		{Box: provider.Box{X: 40, Y: 60, Width: 80, Height: 90}},
	}, nil)

	locator := NewFaceLocator(mockProvider, testLogger())
	located, err := locator.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 400, 200)))
	require.NoError(t, err)
	require.Len(t, located.Faces, 1)
	assert.Equal(t, domain.RolePrimary, located.Faces[0].Role)
}
