package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
)

// dashboardService serves dashboard aggregates through a read-through cache.
// Cache failures degrade to direct store reads; they never fail the request.
type dashboardService struct {
	BaseService
	dashboardRepo portsrepo.DashboardRepository
	cache         portsrepo.DashboardCache
	cacheTTL      time.Duration
}

// NewDashboardService creates a new dashboard service. A nil cache disables
// caching entirely.
func NewDashboardService(dashboardRepo portsrepo.DashboardRepository, cache portsrepo.DashboardCache, cacheTTL time.Duration) portssvc.DashboardSvcFacade {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

// Ensure dashboardService implements the DashboardSvcFacade interface
var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// GetCounts returns the dashboard aggregates. The second return reports
// whether the cache served them.
func (s *dashboardService) GetCounts(ctx context.Context, userID string) (*portsrepo.DashboardCounts, bool, error) {
	if s.cache != nil {
		counts, err := s.cache.GetCounts(ctx, userID)
		if err == nil {
			return counts, true, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Dashboard cache read failed, falling back to store",
				slog.String("user_id", userID))
		}
	}

	counts, err := s.dashboardRepo.FetchDashboardCounts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch dashboard counts",
			slog.String("user_id", userID))
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.SetCounts(ctx, userID, counts, s.cacheTTL); err != nil {
			s.LogError(ctx, err, "Failed to populate dashboard cache",
				slog.String("user_id", userID))
		}
	}
	return counts, false, nil
}

// InvalidateCounts drops the cached aggregates for a user.
func (s *dashboardService) InvalidateCounts(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCounts(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate dashboard cache",
			slog.String("user_id", userID))
	}
}
