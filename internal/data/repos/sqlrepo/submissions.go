package sqlrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) repos.SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (r *submissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	s.Normalize()
	if err := schema.Validate(domain.CollectionSubmissions, schema.DocumentOf(s)); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return mapError("insert submissions", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	return first[domain.Submission](r.db.WithContext(ctx).Where("submission_id = ?", submissionID))
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]*domain.Submission, error) {
	var results []*domain.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submission_date ASC, submission_id ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("list submissions", err)
	}
	return results, nil
}

func (r *submissionRepo) ListByStudent(ctx context.Context, studentID string) ([]*domain.Submission, error) {
	var results []*domain.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submission_date ASC, submission_id ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("list submissions", err)
	}
	return results, nil
}

// Grade sets grade, feedback and gradedDate in one statement.
func (r *submissionRepo) Grade(ctx context.Context, submissionID string, grade float64, feedback string, gradedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]any{
			"grade":       grade,
			"feedback":    feedback,
			"graded_date": domain.Millis(gradedAt),
		})
	if res.Error != nil {
		return 0, mapError("grade submissions", res.Error)
	}
	return res.RowsAffected, nil
}
