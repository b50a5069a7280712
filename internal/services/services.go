package services

import (
	"context"
	"time"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/observability"
	"github.com/yungbote/eduhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

// Services is the operation surface over one repository set.
type Services struct {
	Users       UserService
	Courses     CourseService
	Lessons     LessonService
	Assignments AssignmentService
	Enrollments EnrollmentService
	Submissions SubmissionService
	Reports     ReportService
	Setup       SetupService
	IDs         *IDAllocator

	log *logger.Logger
}

type options struct {
	counters repos.CounterRepo
	now      func() time.Time
}

type Option func(*options)

// WithCounters replaces the set's counter authority, e.g. with redis.
func WithCounters(c repos.CounterRepo) Option {
	return func(o *options) { o.counters = c }
}

// WithClock fixes the clock used for creation and update stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(set repos.Set, log *logger.Logger, opts ...Option) *Services {
	o := options{counters: set.Counters, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	v := NewValidator()
	ids := NewIDAllocator(o.counters, set.Collections, log)
	return &Services{
		Users:       NewUserService(log, set.Users, ids, v, o.now),
		Courses:     NewCourseService(log, set.Courses, set.Users, ids, v, o.now),
		Lessons:     NewLessonService(log, set.Lessons, set.Courses, ids, v, o.now),
		Assignments: NewAssignmentService(log, set.Assignments, set.Courses, set.Submissions, ids, v, o.now),
		Enrollments: NewEnrollmentService(log, set.Enrollments, set.Users, set.Courses, ids, v, o.now),
		Submissions: NewSubmissionService(log, set.Submissions, set.Assignments, set.Users, ids, v, o.now),
		Reports:     NewReportService(log, set.Reports, o.now),
		Setup:       NewSetupService(log, set.Collections, ids),
		IDs:         ids,
		log:         log.With("service", "Populate"),
	}
}

// scope brackets one operation: a span, a metrics sample and a boundary
// log line.
type scope struct {
	log   *logger.Logger
	op    string
	kv    []any
	quiet bool
	end   func(error)
}

func begin(ctx context.Context, log *logger.Logger, op string, kv ...any) (context.Context, *scope) {
	ctx, end := observability.Start(ctx, op)
	if rd := ctxutil.GetRunData(ctx); rd != nil {
		log = log.With("run_id", rd.RunID)
	}
	return ctx, &scope{log: log, op: op, kv: kv, end: end}
}

// beginRead is begin for lookups; success is logged at debug level.
func beginRead(ctx context.Context, log *logger.Logger, op string, kv ...any) (context.Context, *scope) {
	ctx, sc := begin(ctx, log, op, kv...)
	sc.quiet = true
	return ctx, sc
}

func (s *scope) done(err error, kv ...any) error {
	s.end(err)
	fields := append(append([]any{"op", s.op}, s.kv...), kv...)
	switch {
	case err != nil:
		s.log.Warn("operation failed", append(fields, "error", err)...)
	case s.quiet:
		s.log.Debug("operation succeeded", fields...)
	default:
		s.log.Info("operation succeeded", fields...)
	}
	return err
}
