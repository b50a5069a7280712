package services

import (
	"context"
	"time"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

// NewEnrollment records an enrollment with an explicit history, as bulk
// population does. EnrollStudent covers the plain case.
type NewEnrollment struct {
	StudentID      string                  `json:"studentId" validate:"notblank"`
	CourseID       string                  `json:"courseId" validate:"notblank"`
	EnrollmentDate time.Time               `json:"enrollmentDate"`
	Status         domain.EnrollmentStatus `json:"status" validate:"omitempty,oneof=active completed dropped"`
	Progress       float64                 `json:"progress" validate:"gte=0,lte=100"`
	CompletionDate *time.Time              `json:"completionDate"`
}

type EnrollmentService interface {
	EnrollStudent(ctx context.Context, studentID, courseID string) (*domain.Enrollment, error)
	RecordEnrollment(ctx context.Context, in NewEnrollment) (*domain.Enrollment, error)
	GetEnrollment(ctx context.Context, enrollmentID string) (*domain.Enrollment, error)
	ListStudentEnrollments(ctx context.Context, studentID string) ([]*domain.Enrollment, error)
	ListCourseEnrollments(ctx context.Context, courseID string) ([]*domain.Enrollment, error)
	UpdateEnrollmentProgress(ctx context.Context, enrollmentID string, progress float64) (int64, error)
	DropEnrollment(ctx context.Context, enrollmentID string) (int64, error)
	DeleteEnrollment(ctx context.Context, enrollmentID string) (int64, error)
}

type enrollmentService struct {
	log         *logger.Logger
	enrollments repos.EnrollmentRepo
	users       repos.UserRepo
	courses     repos.CourseRepo
	ids         *IDAllocator
	v           *Validator
	now         func() time.Time
}

func NewEnrollmentService(
	baseLog *logger.Logger,
	enrollments repos.EnrollmentRepo,
	users repos.UserRepo,
	courses repos.CourseRepo,
	ids *IDAllocator,
	v *Validator,
	now func() time.Time,
) EnrollmentService {
	return &enrollmentService{
		log:         baseLog.With("service", "EnrollmentService"),
		enrollments: enrollments,
		users:       users,
		courses:     courses,
		ids:         ids,
		v:           v,
		now:         now,
	}
}

func enrollmentID(e *domain.Enrollment) string {
	if e == nil {
		return ""
	}
	return e.EnrollmentID
}

func (s *enrollmentService) EnrollStudent(ctx context.Context, studentID, courseID string) (e *domain.Enrollment, err error) {
	ctx, sc := begin(ctx, s.log, "EnrollStudent", "student_id", studentID, "course_id", courseID)
	defer func() { err = sc.done(err, "enrollment_id", enrollmentID(e)) }()

	return s.create(ctx, "EnrollStudent", NewEnrollment{StudentID: studentID, CourseID: courseID})
}

func (s *enrollmentService) RecordEnrollment(ctx context.Context, in NewEnrollment) (e *domain.Enrollment, err error) {
	ctx, sc := begin(ctx, s.log, "RecordEnrollment", "student_id", in.StudentID, "course_id", in.CourseID)
	defer func() { err = sc.done(err, "enrollment_id", enrollmentID(e), "status", in.Status) }()

	return s.create(ctx, "RecordEnrollment", in)
}

// create checks the pair before writing; the unique (studentId, courseId)
// index still catches a concurrent duplicate as DuplicateKey.
func (s *enrollmentService) create(ctx context.Context, op string, in NewEnrollment) (*domain.Enrollment, error) {
	if err := s.v.Struct(op, in); err != nil {
		return nil, err
	}
	existing, err := s.enrollments.GetByStudentCourse(ctx, in.StudentID, in.CourseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewError(domain.CodeDuplicateEnrollment, op,
			"student "+in.StudentID+" is already enrolled in "+in.CourseID+" ("+existing.EnrollmentID+")", nil)
	}

	student, err := s.users.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != domain.RoleStudent || !student.IsActive {
		return nil, invalid(op, "studentId", "studentId must reference an active student")
	}
	course, err := s.courses.GetByID(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, invalid(op, "courseId", "courseId must reference an existing course")
	}

	id, err := s.ids.Next(ctx, domain.PrefixEnrollment)
	if err != nil {
		return nil, err
	}
	e := &domain.Enrollment{
		EnrollmentID:   id,
		StudentID:      in.StudentID,
		CourseID:       in.CourseID,
		EnrollmentDate: in.EnrollmentDate,
		Status:         in.Status,
		Progress:       in.Progress,
		CompletionDate: in.CompletionDate,
	}
	if e.EnrollmentDate.IsZero() {
		e.EnrollmentDate = s.now()
	}
	if e.Status == "" {
		e.Status = domain.StatusActive
	}
	if e.Status == domain.StatusCompleted && e.CompletionDate == nil {
		done := s.now()
		e.CompletionDate = &done
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, id string) (e *domain.Enrollment, err error) {
	ctx, sc := beginRead(ctx, s.log, "GetEnrollment", "enrollment_id", id)
	defer func() { err = sc.done(err) }()
	return s.enrollments.GetByID(ctx, id)
}

func (s *enrollmentService) ListStudentEnrollments(ctx context.Context, studentID string) (out []*domain.Enrollment, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListStudentEnrollments", "student_id", studentID)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.enrollments.ListByStudent(ctx, studentID)
}

func (s *enrollmentService) ListCourseEnrollments(ctx context.Context, courseID string) (out []*domain.Enrollment, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListCourseEnrollments", "course_id", courseID)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.enrollments.ListByCourse(ctx, courseID)
}

// UpdateEnrollmentProgress completes the enrollment when progress reaches
// 100; below that the status is left alone.
func (s *enrollmentService) UpdateEnrollmentProgress(ctx context.Context, id string, progress float64) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "UpdateEnrollmentProgress", "enrollment_id", id, "progress", progress)
	defer func() { err = sc.done(err, "affected", n) }()

	if progress < domain.MinProgress || progress > domain.MaxProgress {
		return 0, invalid("UpdateEnrollmentProgress", "progress", "progress must be between 0 and 100")
	}
	changes := domain.EnrollmentChanges{Progress: &progress}
	if progress == domain.MaxProgress {
		status := domain.StatusCompleted
		done := s.now()
		changes.Status = &status
		changes.CompletionDate = &done
	}
	return s.enrollments.Update(ctx, id, changes)
}

func (s *enrollmentService) DropEnrollment(ctx context.Context, id string) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "DropEnrollment", "enrollment_id", id)
	defer func() { err = sc.done(err, "affected", n) }()

	status := domain.StatusDropped
	return s.enrollments.Update(ctx, id, domain.EnrollmentChanges{Status: &status})
}

func (s *enrollmentService) DeleteEnrollment(ctx context.Context, id string) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "DeleteEnrollment", "enrollment_id", id)
	defer func() { err = sc.done(err, "affected", n) }()
	return s.enrollments.Delete(ctx, id)
}
