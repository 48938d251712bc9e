package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docuguard/docuguard/internal/domain"
	"github.com/docuguard/docuguard/internal/provider"
	"github.com/docuguard/docuguard/internal/resource"
)

func documentJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil))
	return buf.Bytes()
}

func documentBoxes() []provider.DetectedFace {
	return []provider.DetectedFace{
		{Box: provider.Box{X: 40, Y: 60, Width: 150, Height: 200}, Confidence: 0.99},
		{Box: provider.Box{X: 500, Y: 200, Width: 60, Height: 80}, Confidence: 0.93},
	}
}

func newTestService(mockProvider *MockFaceProvider, gallery *MockGalleryRepository, auditRepo *MockAuditRepository, monitor resource.Monitor) *VerificationService {
	return NewVerificationService(
		mockProvider,
		gallery,
		auditRepo,
		nil,
		monitor,
		fastRetry(),
		VerificationServiceConfig{MaxImageSizeMB: 10, DefaultThreshold: 0.5},
		testLogger(),
	)
}

func TestVerifyDocument_Success(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return(documentBoxes(), nil)
	for _, m := range DefaultEnsemble() {
		mockProvider.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, m.Name).Return(0.10, nil)
	}
	mockProvider.On("Represent", mock.Anything, mock.Anything, CanonicalModel).Return(queryVec, nil)

	gallery := new(MockGalleryRepository)
	matchedID := uuid.New()
	gallery.On("LoadEnrolled", mock.Anything).Return([]domain.EnrolledIdentity{
		{ID: matchedID, ExternalID: "emp-1", Name: "Alice", Embedding: vec072},
	}, nil)

	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(mockProvider, gallery, auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, outcome.Status)
	require.NotNil(t, outcome.Matched)
	assert.Equal(t, "emp-1", outcome.Matched.ExternalID)
	assert.Equal(t, matchedID, outcome.Matched.ID)
	assert.InDelta(t, 0.72, outcome.Similarity, 1e-6)

	require.NotNil(t, outcome.Authenticity)
	assert.True(t, outcome.Authenticity.Verified)
	assert.Equal(t, 2, outcome.Authenticity.FacesDetected)
	assert.NotNil(t, outcome.Authenticity.Annotated)

	require.NotNil(t, outcome.Validation)
	assert.True(t, outcome.Validation.Valid)

	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(rec *domain.VerificationRecord) bool {
		return rec.Success && rec.IdentityMatched && rec.FacesDetected == 2 && rec.Method == "automatic"
	}))
}

func TestVerifyDocument_ValidationFailed(t *testing.T) {
	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(new(MockFaceProvider), new(MockGalleryRepository), auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 200, 150), 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusValidationFailed, outcome.Status)
	require.NotNil(t, outcome.Validation)
	assert.Equal(t, "IMAGE_TOO_SMALL", outcome.Validation.ErrorCode)
	require.NotNil(t, outcome.Validation.Details)
	assert.Equal(t, 200, outcome.Validation.Details.Width)
	assert.Nil(t, outcome.Authenticity)
}

func TestVerifyDocument_NoFaces(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil)

	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(mockProvider, new(MockGalleryRepository), auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoFaces, outcome.Status)
	require.NotNil(t, outcome.FaceCount)
	assert.True(t, outcome.FaceCount.AllowManualOverride)
	assert.False(t, outcome.FaceCount.WarningOnly)

	// The annotated document is still produced for review
	require.NotNil(t, outcome.Authenticity)
	assert.NotNil(t, outcome.Authenticity.Annotated)
	assert.Equal(t, 0, outcome.Authenticity.FacesDetected)
}

func TestVerifyDocument_OneFaceIsWarning(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return(documentBoxes()[:1], nil)

	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(mockProvider, new(MockGalleryRepository), auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOneFace, outcome.Status)
	require.NotNil(t, outcome.FaceCount)
	assert.True(t, outcome.FaceCount.WarningOnly)
	assert.True(t, outcome.FaceCount.AllowManualOverride)
}

func TestVerifyDocument_TooManyFaces(t *testing.T) {
	boxes := make([]provider.DetectedFace, 6)
	for i := range boxes {
		boxes[i] = provider.DetectedFace{Box: provider.Box{X: i * 50, Y: 10, Width: 40, Height: 40 + i}}
	}

	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return(boxes, nil)

	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(mockProvider, new(MockGalleryRepository), auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusTooManyFaces, outcome.Status)
	require.NotNil(t, outcome.FaceCount)
	assert.False(t, outcome.FaceCount.AllowManualOverride)
}

func TestVerifyDocument_AuthenticityFailed(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return(documentBoxes(), nil)
	for _, m := range DefaultEnsemble() {
		mockProvider.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, m.Name).Return(1.60, nil)
	}

	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(mockProvider, new(MockGalleryRepository), auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAuthenticityFailed, outcome.Status)
	require.NotNil(t, outcome.Authenticity)
	assert.False(t, outcome.Authenticity.Verified)
	assert.Equal(t, 0, outcome.Authenticity.VerifiedCount)
	assert.Len(t, outcome.Authenticity.Votes, 4)
	assert.Nil(t, outcome.Match)

	// Gallery work never happens for an inauthentic document
	mockProvider.AssertNotCalled(t, "Represent", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyDocument_NoMatch(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return(documentBoxes(), nil)
	for _, m := range DefaultEnsemble() {
		mockProvider.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, m.Name).Return(0.10, nil)
	}
	mockProvider.On("Represent", mock.Anything, mock.Anything, CanonicalModel).Return(queryVec, nil)

	gallery := new(MockGalleryRepository)
	gallery.On("LoadEnrolled", mock.Anything).Return([]domain.EnrolledIdentity{
		{ID: uuid.New(), ExternalID: "emp-1", Name: "Alice", Embedding: vec042},
	}, nil)

	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(mockProvider, gallery, auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0.5)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoMatch, outcome.Status)
	require.NotNil(t, outcome.Match)
	assert.Nil(t, outcome.Match.Best)
	require.Len(t, outcome.Match.AllScores, 1)
	assert.InDelta(t, 0.42, outcome.Match.BestObserved(), 1e-6)
	assert.Nil(t, outcome.Matched)

	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(rec *domain.VerificationRecord) bool {
		return !rec.Success && !rec.IdentityMatched
	}))
}

func TestVerifyDocument_EmptyGallery(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return(documentBoxes(), nil)
	for _, m := range DefaultEnsemble() {
		mockProvider.On("CompareFaces", mock.Anything, mock.Anything, mock.Anything, m.Name).Return(0.10, nil)
	}

	gallery := new(MockGalleryRepository)
	gallery.On("LoadEnrolled", mock.Anything).Return([]domain.EnrolledIdentity{}, nil)

	svc := newTestService(mockProvider, gallery, new(MockAuditRepository), nil)
	_, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NO_STUDENTS_WITH_ENCODINGS", appErr.Code)
}

func TestVerifyDocument_InsufficientMemory(t *testing.T) {
	svc := newTestService(new(MockFaceProvider), new(MockGalleryRepository), new(MockAuditRepository),
		stubMonitor{status: resource.Status{MemoryOK: false, AvailableMemoryMB: 120}})

	_, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_MEMORY", appErr.Code)
}

func TestVerifyDocument_InvalidThreshold(t *testing.T) {
	svc := newTestService(new(MockFaceProvider), new(MockGalleryRepository), new(MockAuditRepository), nil)
	_, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 1.5)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_THRESHOLD", appErr.Code)
}

func TestVerifyDocument_AuditFailureDoesNotFailOutcome(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil)

	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := newTestService(mockProvider, new(MockGalleryRepository), auditRepo, nil)
	outcome, err := svc.VerifyDocument(context.Background(), documentJPEG(t, 800, 500), 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoFaces, outcome.Status)
}

func TestEnsureReady(t *testing.T) {
	mockProvider := new(MockFaceProvider)
	mockProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil).Once()

	svc := newTestService(mockProvider, new(MockGalleryRepository), new(MockAuditRepository), nil)

	require.NoError(t, svc.EnsureReady(context.Background()))
	// Second call is a no-op; the Once expectation would fail otherwise
	require.NoError(t, svc.EnsureReady(context.Background()))
	mockProvider.AssertExpectations(t)
}

type stubMonitor struct {
	status resource.Status
}

func (s stubMonitor) Check() resource.Status { return s.status }
