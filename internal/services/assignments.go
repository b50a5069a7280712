package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type NewAssignment struct {
	Title        string    `json:"title" validate:"notblank"`
	Description  string    `json:"description" validate:"notblank"`
	DueDate      time.Time `json:"dueDate" validate:"required"`
	MaxPoints    float64   `json:"maxPoints" validate:"gte=0"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AssignmentService interface {
	CreateAssignment(ctx context.Context, courseID string, in NewAssignment) (*domain.Assignment, error)
	GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error)
	ListCourseAssignments(ctx context.Context, courseID string) ([]*domain.Assignment, error)
	ListUpcomingAssignments(ctx context.Context, within time.Duration) ([]*domain.Assignment, error)
	// UpdateAssignmentGrade grades a submission against its assignment.
	UpdateAssignmentGrade(ctx context.Context, submissionID string, grade float64, feedback string) (int64, error)
}

type assignmentService struct {
	log         *logger.Logger
	assignments repos.AssignmentRepo
	courses     repos.CourseRepo
	submissions repos.SubmissionRepo
	ids         *IDAllocator
	v           *Validator
	now         func() time.Time
}

func NewAssignmentService(
	baseLog *logger.Logger,
	assignments repos.AssignmentRepo,
	courses repos.CourseRepo,
	submissions repos.SubmissionRepo,
	ids *IDAllocator,
	v *Validator,
	now func() time.Time,
) AssignmentService {
	return &assignmentService{
		log:         baseLog.With("service", "AssignmentService"),
		assignments: assignments,
		courses:     courses,
		submissions: submissions,
		ids:         ids,
		v:           v,
		now:         now,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, courseID string, in NewAssignment) (a *domain.Assignment, err error) {
	ctx, sc := begin(ctx, s.log, "CreateAssignment", "course_id", courseID)
	defer func() {
		id := ""
		if a != nil {
			id = a.AssignmentID
		}
		err = sc.done(err, "assignment_id", id)
	}()

	if in.MaxPoints == 0 {
		in.MaxPoints = domain.DefaultMaxPoints
	}
	if err = s.v.Struct("CreateAssignment", in); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, invalid("CreateAssignment", "courseId", "courseId must reference an existing course")
	}
	id, err := s.ids.Next(ctx, domain.PrefixAssignment)
	if err != nil {
		return nil, err
	}
	created := in.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	a = &domain.Assignment{
		AssignmentID: id,
		CourseID:     courseID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		DueDate:      in.DueDate,
		MaxPoints:    in.MaxPoints,
		CreatedAt:    created,
		Instructions: in.Instructions,
	}
	if err = s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id string) (a *domain.Assignment, err error) {
	ctx, sc := beginRead(ctx, s.log, "GetAssignment", "assignment_id", id)
	defer func() { err = sc.done(err) }()
	return s.assignments.GetByID(ctx, id)
}

func (s *assignmentService) ListCourseAssignments(ctx context.Context, courseID string) (out []*domain.Assignment, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListCourseAssignments", "course_id", courseID)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.assignments.ListByCourse(ctx, courseID)
}

// ListUpcomingAssignments returns assignments due between now and
// now+within, soonest first.
func (s *assignmentService) ListUpcomingAssignments(ctx context.Context, within time.Duration) (out []*domain.Assignment, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListUpcomingAssignments", "within", within.String())
	defer func() { err = sc.done(err, "count", len(out)) }()

	if within < 0 {
		return nil, invalid("ListUpcomingAssignments", "within", "within must not be negative")
	}
	from := s.now()
	return s.assignments.ListDueBetween(ctx, from, from.Add(within))
}

func (s *assignmentService) UpdateAssignmentGrade(ctx context.Context, submissionID string, grade float64, feedback string) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "UpdateAssignmentGrade", "submission_id", submissionID)
	defer func() { err = sc.done(err, "affected", n) }()

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return 0, err
	}
	if sub == nil {
		return 0, nil
	}
	maxPoints := domain.DefaultMaxPoints
	assignment, err := s.assignments.GetByID(ctx, sub.AssignmentID)
	if err != nil {
		return 0, err
	}
	if assignment != nil && assignment.MaxPoints > 0 {
		maxPoints = assignment.MaxPoints
	}
	if grade < 0 || grade > maxPoints {
		return 0, invalid("UpdateAssignmentGrade", "grade", fmt.Sprintf("grade must be between 0 and %g", maxPoints))
	}
	return s.submissions.Grade(ctx, submissionID, grade, feedback, s.now())
}
