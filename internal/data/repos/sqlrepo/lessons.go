package sqlrepo

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) repos.LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, l *domain.Lesson) error {
	l.Normalize()
	if err := schema.Validate(domain.CollectionLessons, schema.DocumentOf(l)); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return mapError("insert lessons", err)
	}
	return nil
}

func (r *lessonRepo) GetByID(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	return first[domain.Lesson](r.db.WithContext(ctx).Where("lesson_id = ?", lessonID))
}

func (r *lessonRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error) {
	var results []*domain.Lesson
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(`"order" ASC, lesson_id ASC`).
		Find(&results).Error; err != nil {
		return nil, mapError("list lessons", err)
	}
	return results, nil
}

func (r *lessonRepo) MaxOrder(ctx context.Context, courseID string) (int, error) {
	var max sql.NullInt64
	if err := r.db.WithContext(ctx).
		Model(&domain.Lesson{}).
		Where("course_id = ?", courseID).
		Select(`MAX("order")`).
		Scan(&max).Error; err != nil {
		return 0, mapError("max lesson order", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

func (r *lessonRepo) Delete(ctx context.Context, lessonID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("lesson_id = ?", lessonID).Delete(&domain.Lesson{})
	if res.Error != nil {
		return 0, mapError("delete lessons", res.Error)
	}
	return res.RowsAffected, nil
}
