package mocks

import (
	"context"
	"image"

	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/service"
	"github.com/pageza/nutrilens/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockTextExtractor is a mock OCR engine
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, img *image.Gray) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *MockTextExtractor) Available() bool {
	return m.Called().Bool(0)
}

// MockAnalysisProvider is a mock language model client
type MockAnalysisProvider struct {
	mock.Mock
}

func (m *MockAnalysisProvider) AnalyzeLabel(ctx context.Context, text string, profile *models.Profile) (*types.AnalysisResult, error) {
	args := m.Called(ctx, text, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AnalysisResult), args.Error(1)
}

// MockLabelArchive is a mock label image store
type MockLabelArchive struct {
	mock.Mock
}

func (m *MockLabelArchive) Store(ctx context.Context, data []byte, contentType, extension string) (string, error) {
	args := m.Called(ctx, data, contentType, extension)
	return args.String(0), args.Error(1)
}

// MockAnalysisService is a mock implementation of the label analysis pipeline
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, data []byte, profile *models.Profile) (*service.AnalysisOutcome, error) {
	args := m.Called(ctx, data, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisOutcome), args.Error(1)
}

var (
	_ service.TextExtractor    = (*MockTextExtractor)(nil)
	_ service.AnalysisProvider = (*MockAnalysisProvider)(nil)
	_ service.LabelArchive     = (*MockLabelArchive)(nil)
	_ service.IAnalysisService = (*MockAnalysisService)(nil)
	_ service.IAuthService     = (*MockAuthService)(nil)
	_ service.IProfileService  = (*MockProfileService)(nil)
)
