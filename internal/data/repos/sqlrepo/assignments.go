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

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) repos.AssignmentRepo {
	repoLog := baseLog.With("repo", "AssignmentRepo")
	return &assignmentRepo{db: db, log: repoLog}
}

func (r *assignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	a.Normalize()
	if err := schema.Validate(domain.CollectionAssignments, schema.DocumentOf(a)); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return mapError("insert assignments", err)
	}
	return nil
}

func (r *assignmentRepo) GetByID(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	return first[domain.Assignment](r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID))
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Assignment, error) {
	var results []*domain.Assignment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC, assignment_id ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("list assignments", err)
	}
	return results, nil
}

func (r *assignmentRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Assignment, error) {
	var results []*domain.Assignment
	if err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", domain.Millis(from), domain.Millis(to)).
		Order("due_date ASC, assignment_id ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("list upcoming assignments", err)
	}
	return results, nil
}
