package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

// ReportService runs read-only aggregations. Backend errors are returned
// untranslated.
type ReportService interface {
	EnrollmentStatistics(ctx context.Context) ([]domain.CategoryEnrollmentStats, error)
	StudentPerformance(ctx context.Context) ([]domain.StudentPerformance, error)
	InstructorAnalytics(ctx context.Context) ([]domain.InstructorAnalytics, error)
	AdvancedAnalytics(ctx context.Context) (*domain.AdvancedAnalytics, error)
}

type reportService struct {
	log     *logger.Logger
	reports repos.ReportRepo
	now     func() time.Time
}

func NewReportService(baseLog *logger.Logger, reports repos.ReportRepo, now func() time.Time) ReportService {
	return &reportService{
		log:     baseLog.With("service", "ReportService"),
		reports: reports,
		now:     now,
	}
}

func (s *reportService) EnrollmentStatistics(ctx context.Context) (out []domain.CategoryEnrollmentStats, err error) {
	ctx, sc := beginRead(ctx, s.log, "EnrollmentStatistics")
	defer func() { err = sc.done(err, "rows", len(out)) }()
	return s.reports.EnrollmentStatistics(ctx)
}

func (s *reportService) StudentPerformance(ctx context.Context) (out []domain.StudentPerformance, err error) {
	ctx, sc := beginRead(ctx, s.log, "StudentPerformance")
	defer func() { err = sc.done(err, "rows", len(out)) }()
	return s.reports.StudentPerformance(ctx)
}

func (s *reportService) InstructorAnalytics(ctx context.Context) (out []domain.InstructorAnalytics, err error) {
	ctx, sc := beginRead(ctx, s.log, "InstructorAnalytics")
	defer func() { err = sc.done(err, "rows", len(out)) }()
	return s.reports.InstructorAnalytics(ctx)
}

// AdvancedAnalytics reads its three parts concurrently; the first failure
// cancels the others.
func (s *reportService) AdvancedAnalytics(ctx context.Context) (out *domain.AdvancedAnalytics, err error) {
	ctx, sc := beginRead(ctx, s.log, "AdvancedAnalytics")
	defer func() { err = sc.done(err) }()

	res := &domain.AdvancedAnalytics{GeneratedAt: domain.Millis(s.now())}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.MonthlyTrend, err = s.reports.MonthlyEnrollmentTrend(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		res.CategoryPopularity, err = s.reports.CategoryPopularity(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		res.Engagement, err = s.reports.EngagementByStatus(gctx)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
