package repos

import (
	"context"
	"time"

	"github.com/yungbote/eduhub-backend/internal/domain"
)

// Lookups return (nil, nil) when the record does not exist. Mutations
// return the number of matched records; zero means not found.

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, f domain.UserFilter) ([]*domain.User, error)
	Update(ctx context.Context, userID string, c domain.UserChanges) (int64, error)
}

type CourseRepo interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, courseID string) (*domain.Course, error)
	List(ctx context.Context, f domain.CourseFilter) ([]*domain.Course, error)
	Search(ctx context.Context, text string) ([]*domain.Course, error)
	Update(ctx context.Context, courseID string, c domain.CourseChanges) (int64, error)
}

type LessonRepo interface {
	Create(ctx context.Context, l *domain.Lesson) error
	GetByID(ctx context.Context, lessonID string) (*domain.Lesson, error)
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error)
	MaxOrder(ctx context.Context, courseID string) (int, error)
	Delete(ctx context.Context, lessonID string) (int64, error)
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, assignmentID string) (*domain.Assignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Assignment, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Assignment, error)
}

type EnrollmentRepo interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByID(ctx context.Context, enrollmentID string) (*domain.Enrollment, error)
	GetByStudentCourse(ctx context.Context, studentID, courseID string) (*domain.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Enrollment, error)
	Update(ctx context.Context, enrollmentID string, c domain.EnrollmentChanges) (int64, error)
	Delete(ctx context.Context, enrollmentID string) (int64, error)
}

type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, submissionID string) (*domain.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*domain.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Submission, error)
	Grade(ctx context.Context, submissionID string, grade float64, feedback string, gradedAt time.Time) (int64, error)
}

// CounterRepo is the single authority for ID sequences.
type CounterRepo interface {
	// Next atomically increments and returns the sequence for prefix.
	Next(ctx context.Context, prefix domain.IDPrefix) (int64, error)
	// Floor raises the sequence for prefix to at least min.
	Floor(ctx context.Context, prefix domain.IDPrefix, min int64) error
}

// ReportRepo runs the read-only aggregations. Errors are returned as the
// backend produced them.
type ReportRepo interface {
	EnrollmentStatistics(ctx context.Context) ([]domain.CategoryEnrollmentStats, error)
	StudentPerformance(ctx context.Context) ([]domain.StudentPerformance, error)
	InstructorAnalytics(ctx context.Context) ([]domain.InstructorAnalytics, error)
	MonthlyEnrollmentTrend(ctx context.Context) ([]domain.MonthlyEnrollments, error)
	CategoryPopularity(ctx context.Context) ([]domain.CategoryPopularity, error)
	EngagementByStatus(ctx context.Context) ([]domain.StatusEngagement, error)
}

// CollectionManager owns collection and index lifecycle plus raw access.
type CollectionManager interface {
	EnsureCollections(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
	// InsertDocument stores doc as-is, without typed defaults.
	InsertDocument(ctx context.Context, collection string, doc map[string]any) error
	// IDs returns every value of the collection's ID field.
	IDs(ctx context.Context, collection string) ([]string, error)
	// Dump returns every document of collection as a plain field map.
	Dump(ctx context.Context, collection string) ([]map[string]any, error)
}

// Set is one backend's implementation of every repository.
type Set struct {
	Backend     string
	Collections CollectionManager
	Users       UserRepo
	Courses     CourseRepo
	Lessons     LessonRepo
	Assignments AssignmentRepo
	Enrollments EnrollmentRepo
	Submissions SubmissionRepo
	Counters    CounterRepo
	Reports     ReportRepo
	Close       func(ctx context.Context) error
}
