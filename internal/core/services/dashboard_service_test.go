package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DashboardRepository ---
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) FetchDashboardCounts(ctx context.Context, userID string) (*portsrepo.DashboardCounts, error) {
	args := m.Called(ctx, userID)
	var counts *portsrepo.DashboardCounts
	if args.Get(0) != nil {
		counts = args.Get(0).(*portsrepo.DashboardCounts)
	}
	return counts, args.Error(1)
}

// --- Mock DashboardCache ---
type MockDashboardCache struct {
	mock.Mock
}

func (m *MockDashboardCache) GetCounts(ctx context.Context, userID string) (*portsrepo.DashboardCounts, error) {
	args := m.Called(ctx, userID)
	var counts *portsrepo.DashboardCounts
	if args.Get(0) != nil {
		counts = args.Get(0).(*portsrepo.DashboardCounts)
	}
	return counts, args.Error(1)
}

func (m *MockDashboardCache) SetCounts(ctx context.Context, userID string, counts *portsrepo.DashboardCounts, ttl time.Duration) error {
	args := m.Called(ctx, userID, counts, ttl)
	return args.Error(0)
}

func (m *MockDashboardCache) InvalidateCounts(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite ---
type DashboardServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockDashboardRepository
	mockCache *MockDashboardCache
	service   portssvc.DashboardSvcFacade
	userID    string
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDashboardRepository)
	suite.mockCache = new(MockDashboardCache)
	suite.service = services.NewDashboardService(suite.mockRepo, suite.mockCache, time.Minute)
	suite.userID = uuid.NewString()
}

func sampleCounts() *portsrepo.DashboardCounts {
	return &portsrepo.DashboardCounts{
		MemosByStatus:  map[domain.MemoStatus]int64{domain.MemoPending: 3, domain.MemoApproved: 7},
		FinancialMemos: 2,
		ArchivedMemos:  1,
		Folders:        5,
		FiledDocuments: 12,
	}
}

func (suite *DashboardServiceTestSuite) TestGetCounts_CacheHit() {
	ctx := context.Background()
	cached := sampleCounts()

	suite.mockCache.On("GetCounts", ctx, suite.userID).Return(cached, nil).Once()

	counts, fromCache, err := suite.service.GetCounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.True(fromCache)
	suite.Equal(cached, counts)
	suite.mockRepo.AssertNotCalled(suite.T(), "FetchDashboardCounts", mock.Anything, mock.Anything)
}

func (suite *DashboardServiceTestSuite) TestGetCounts_CacheMissPopulatesCache() {
	ctx := context.Background()
	fresh := sampleCounts()

	suite.mockCache.On("GetCounts", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FetchDashboardCounts", ctx, suite.userID).Return(fresh, nil).Once()
	suite.mockCache.On("SetCounts", ctx, suite.userID, fresh, time.Minute).Return(nil).Once()

	counts, fromCache, err := suite.service.GetCounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.False(fromCache)
	suite.Equal(fresh, counts)
	suite.mockCache.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DashboardServiceTestSuite) TestGetCounts_CacheErrorFallsBackToStore() {
	ctx := context.Background()
	fresh := sampleCounts()

	suite.mockCache.On("GetCounts", ctx, suite.userID).Return(nil, assert.AnError).Once()
	suite.mockRepo.On("FetchDashboardCounts", ctx, suite.userID).Return(fresh, nil).Once()
	suite.mockCache.On("SetCounts", ctx, suite.userID, fresh, time.Minute).Return(nil).Once()

	counts, fromCache, err := suite.service.GetCounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.False(fromCache)
	suite.Equal(fresh, counts)
}

func (suite *DashboardServiceTestSuite) TestGetCounts_CacheWriteFailureIsSwallowed() {
	ctx := context.Background()
	fresh := sampleCounts()

	suite.mockCache.On("GetCounts", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FetchDashboardCounts", ctx, suite.userID).Return(fresh, nil).Once()
	suite.mockCache.On("SetCounts", ctx, suite.userID, fresh, time.Minute).Return(assert.AnError).Once()

	counts, _, err := suite.service.GetCounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(fresh, counts)
}

func (suite *DashboardServiceTestSuite) TestGetCounts_StoreErrorPropagates() {
	ctx := context.Background()

	suite.mockCache.On("GetCounts", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FetchDashboardCounts", ctx, suite.userID).Return(nil, assert.AnError).Once()

	counts, _, err := suite.service.GetCounts(ctx, suite.userID)

	suite.Require().Error(err)
	suite.Nil(counts)
	suite.mockCache.AssertNotCalled(suite.T(), "SetCounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DashboardServiceTestSuite) TestGetCounts_NilCacheGoesStraightToStore() {
	ctx := context.Background()
	fresh := sampleCounts()
	service := services.NewDashboardService(suite.mockRepo, nil, time.Minute)

	suite.mockRepo.On("FetchDashboardCounts", ctx, suite.userID).Return(fresh, nil).Once()

	counts, fromCache, err := service.GetCounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.False(fromCache)
	suite.Equal(fresh, counts)
}

func (suite *DashboardServiceTestSuite) TestInvalidateCounts_ErrorIsSwallowed() {
	ctx := context.Background()

	suite.mockCache.On("InvalidateCounts", ctx, suite.userID).Return(assert.AnError).Once()

	suite.NotPanics(func() {
		suite.service.InvalidateCounts(ctx, suite.userID)
	})
	suite.mockCache.AssertExpectations(suite.T())
}

func TestDashboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
