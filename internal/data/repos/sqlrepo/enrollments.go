package sqlrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) repos.EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	e.Normalize()
	if err := schema.Validate(domain.CollectionEnrollments, schema.DocumentOf(e)); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return mapError("insert enrollments", err)
	}
	return nil
}

func (r *enrollmentRepo) GetByID(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	return first[domain.Enrollment](r.db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID))
}

func (r *enrollmentRepo) GetByStudentCourse(ctx context.Context, studentID, courseID string) (*domain.Enrollment, error) {
	return first[domain.Enrollment](r.db.WithContext(ctx).Where("student_id = ? AND course_id = ?", studentID, courseID))
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*domain.Enrollment, error) {
	var results []*domain.Enrollment
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("enrollment_date DESC, enrollment_id ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("list enrollments", err)
	}
	return results, nil
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Enrollment, error) {
	var results []*domain.Enrollment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrollment_date DESC, enrollment_id ASC").
		Find(&results).Error; err != nil {
		return nil, mapError("list enrollments", err)
	}
	return results, nil
}

func (r *enrollmentRepo) Update(ctx context.Context, enrollmentID string, c domain.EnrollmentChanges) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e domain.Enrollment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("enrollment_id = ?", enrollmentID).Take(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if c.Status != nil {
			e.Status = *c.Status
		}
		if c.Progress != nil {
			e.Progress = *c.Progress
		}
		if c.CompletionDate != nil {
			t := *c.CompletionDate
			e.CompletionDate = &t
		}
		e.Normalize()
		if err := schema.Validate(domain.CollectionEnrollments, schema.DocumentOf(&e)); err != nil {
			return err
		}
		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		affected = 1
		return nil
	})
	if err != nil {
		return 0, mapError("update enrollments", err)
	}
	return affected, nil
}

func (r *enrollmentRepo) Delete(ctx context.Context, enrollmentID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).Delete(&domain.Enrollment{})
	if res.Error != nil {
		return 0, mapError("delete enrollments", res.Error)
	}
	return res.RowsAffected, nil
}
