package analytics

import (
	"context"
	"time"

	"printshop/internal/domain"
	analyticsrepo "printshop/internal/repository/analytics"
)

type Service struct {
	repo analyticsrepo.Repository
	now  func() time.Time
}

func New(repo analyticsrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Dashboard returns aggregates for a named period: day, week, month,
// or year. Anything else falls back to month.
func (s *Service) Dashboard(ctx context.Context, period string) (*domain.DashboardStats, error) {
	now := s.now()
	var since time.Time
	switch period {
	case "day":
		since = now.AddDate(0, 0, -1)
	case "week":
		since = now.AddDate(0, 0, -7)
	case "year":
		since = now.AddDate(-1, 0, 0)
	default:
		since = now.AddDate(0, -1, 0)
	}
	return s.repo.Dashboard(ctx, since)
}
