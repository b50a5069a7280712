package services

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type NewSubmission struct {
	Content        string    `json:"content" validate:"notblank"`
	Attachments    []string  `json:"attachments" validate:"dive,notblank"`
	SubmissionDate time.Time `json:"submissionDate"`
}

type SubmissionService interface {
	SubmitAssignment(ctx context.Context, assignmentID, studentID string, in NewSubmission) (*domain.Submission, error)
	GetSubmission(ctx context.Context, submissionID string) (*domain.Submission, error)
	ListAssignmentSubmissions(ctx context.Context, assignmentID string) ([]*domain.Submission, error)
	ListStudentSubmissions(ctx context.Context, studentID string) ([]*domain.Submission, error)
}

type submissionService struct {
	log         *logger.Logger
	submissions repos.SubmissionRepo
	assignments repos.AssignmentRepo
	users       repos.UserRepo
	ids         *IDAllocator
	v           *Validator
	now         func() time.Time
}

func NewSubmissionService(
	baseLog *logger.Logger,
	submissions repos.SubmissionRepo,
	assignments repos.AssignmentRepo,
	users repos.UserRepo,
	ids *IDAllocator,
	v *Validator,
	now func() time.Time,
) SubmissionService {
	return &submissionService{
		log:         baseLog.With("service", "SubmissionService"),
		submissions: submissions,
		assignments: assignments,
		users:       users,
		ids:         ids,
		v:           v,
		now:         now,
	}
}

// SubmitAssignment stores an ungraded submission. Whether the student is
// enrolled in the assignment's course is not checked.
func (s *submissionService) SubmitAssignment(ctx context.Context, assignmentID, studentID string, in NewSubmission) (sub *domain.Submission, err error) {
	ctx, sc := begin(ctx, s.log, "SubmitAssignment", "assignment_id", assignmentID, "student_id", studentID)
	defer func() {
		id := ""
		if sub != nil {
			id = sub.SubmissionID
		}
		err = sc.done(err, "submission_id", id)
	}()

	if err = s.v.Struct("SubmitAssignment", in); err != nil {
		return nil, err
	}
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, invalid("SubmitAssignment", "assignmentId", "assignmentId must reference an existing assignment")
	}
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, invalid("SubmitAssignment", "studentId", "studentId must reference an existing user")
	}

	id, err := s.ids.Next(ctx, domain.PrefixSubmission)
	if err != nil {
		return nil, err
	}
	submitted := in.SubmissionDate
	if submitted.IsZero() {
		submitted = s.now()
	}
	attachments := in.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	sub = &domain.Submission{
		SubmissionID:   id,
		AssignmentID:   assignmentID,
		StudentID:      studentID,
		SubmissionDate: submitted,
		Content:        in.Content,
		Attachments:    datatypes.JSONSlice[string](attachments),
	}
	if err = s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) GetSubmission(ctx context.Context, id string) (sub *domain.Submission, err error) {
	ctx, sc := beginRead(ctx, s.log, "GetSubmission", "submission_id", id)
	defer func() { err = sc.done(err) }()
	return s.submissions.GetByID(ctx, id)
}

func (s *submissionService) ListAssignmentSubmissions(ctx context.Context, assignmentID string) (out []*domain.Submission, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListAssignmentSubmissions", "assignment_id", assignmentID)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.submissions.ListByAssignment(ctx, assignmentID)
}

func (s *submissionService) ListStudentSubmissions(ctx context.Context, studentID string) (out []*domain.Submission, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListStudentSubmissions", "student_id", studentID)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.submissions.ListByStudent(ctx, studentID)
}
