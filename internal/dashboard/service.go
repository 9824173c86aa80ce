package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// RepositoryPort sums posted revenue over a window.
type RepositoryPort interface {
	RevenueBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// RevenueSummary is the dashboard's headline roll-up: posted revenue for
// today, this month, and this year.
type RevenueSummary struct {
	Today     int64 `json:"today"`
	ThisMonth int64 `json:"thisMonth"`
	ThisYear  int64 `json:"thisYear"`
	AsOfMs    int64 `json:"asOf"`
}

// Service computes dashboard aggregates.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	now   func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// RevenueSummary returns the cached roll-up, computing the three windows
// concurrently on a miss.
func (s *Service) RevenueSummary(ctx context.Context) (RevenueSummary, error) {
	now := s.now().UTC()
	key := fmt.Sprintf("dashboard:revenue:%s", now.Format("2006-01-02T15:04"))

	var summary RevenueSummary
	err := s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		return s.computeRevenue(ctx, now)
	})
	if err != nil {
		return RevenueSummary{}, err
	}
	return summary, nil
}

func (s *Service) computeRevenue(ctx context.Context, now time.Time) (RevenueSummary, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	summary := RevenueSummary{AsOfMs: now.UnixMilli()}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.RevenueBetween(ctx, dayStart, now)
		summary.Today = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.RevenueBetween(ctx, monthStart, now)
		summary.ThisMonth = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.RevenueBetween(ctx, yearStart, now)
		summary.ThisYear = v
		return err
	})
	if err := g.Wait(); err != nil {
		return RevenueSummary{}, err
	}
	return summary, nil
}

// InvalidateCache drops the cached roll-ups after a posting or void.
func (s *Service) InvalidateCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx, "dashboard:revenue:")
}
