package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/provider"
	"github.com/docuguard/docuguard/internal/resource"
)

type MockFaceProvider struct {
	mock.Mock
}

func (m *MockFaceProvider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.DetectedFace), args.Error(1)
}

func (m *MockFaceProvider) Represent(ctx context.Context, image []byte, model string) ([]float64, error) {
	args := m.Called(ctx, image, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockFaceProvider) CompareFaces(ctx context.Context, img1, img2 []byte, model string) (float64, error) {
	args := m.Called(ctx, img1, img2, model)
	return args.Get(0).(float64), args.Error(1)
}

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) Create(ctx context.Context, identity *domain.EnrolledIdentity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockGalleryRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.EnrolledIdentity, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnrolledIdentity), args.Error(1)
}

func (m *MockGalleryRepository) LoadEnrolled(ctx context.Context) ([]domain.EnrolledIdentity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EnrolledIdentity), args.Error(1)
}

func (m *MockGalleryRepository) Delete(ctx context.Context, externalID string) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, rec *domain.VerificationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func fastRetry() resource.RetryPolicy {
	return resource.RetryPolicy{
		MaxAttempts: 1,
		Delay:       time.Millisecond,
		Backoff:     2.0,
	}
}
