package sqlrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) repos.CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(ctx context.Context, c *domain.Course) error {
	c.Normalize()
	if err := schema.Validate(domain.CollectionCourses, schema.DocumentOf(c)); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return mapError("insert courses", err)
	}
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, courseID string) (*domain.Course, error) {
	return first[domain.Course](r.db.WithContext(ctx).Where("course_id = ?", courseID))
}

func (r *courseRepo) List(ctx context.Context, f domain.CourseFilter) ([]*domain.Course, error) {
	q := r.db.WithContext(ctx).Model(&domain.Course{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.InstructorID != "" {
		q = q.Where("instructor_id = ?", f.InstructorID)
	}
	if f.Published != nil {
		q = q.Where("is_published = ?", *f.Published)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	var results []*domain.Course
	if err := q.Order("course_id").Find(&results).Error; err != nil {
		return nil, mapError("list courses", err)
	}
	return results, nil
}

// Search matches title and description. Postgres uses the GIN text index;
// other dialects fall back to a case-insensitive substring match.
func (r *courseRepo) Search(ctx context.Context, text string) ([]*domain.Course, error) {
	text = strings.TrimSpace(text)
	var results []*domain.Course
	if text == "" {
		return results, nil
	}
	q := r.db.WithContext(ctx).Model(&domain.Course{})
	if isPostgres(r.db) {
		q = q.Where(`to_tsvector('english', coalesce("title", '') || ' ' || coalesce("description", '')) @@ plainto_tsquery('english', ?)`, text)
	} else {
		like := "%" + strings.ToLower(text) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if err := q.Order("course_id").Find(&results).Error; err != nil {
		return nil, mapError("search courses", err)
	}
	return results, nil
}

func (r *courseRepo) Update(ctx context.Context, courseID string, c domain.CourseChanges) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course domain.Course
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("course_id = ?", courseID).Take(&course).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		applyCourseChanges(&course, c)
		course.Normalize()
		if err := schema.Validate(domain.CollectionCourses, schema.DocumentOf(&course)); err != nil {
			return err
		}
		if err := tx.Save(&course).Error; err != nil {
			return err
		}
		affected = 1
		return nil
	})
	if err != nil {
		return 0, mapError("update courses", err)
	}
	return affected, nil
}

func applyCourseChanges(course *domain.Course, c domain.CourseChanges) {
	if c.Title != nil {
		course.Title = *c.Title
	}
	if c.Description != nil {
		course.Description = *c.Description
	}
	if c.Category != nil {
		course.Category = *c.Category
	}
	if c.Level != nil {
		course.Level = *c.Level
	}
	if c.Duration != nil {
		course.Duration = *c.Duration
	}
	if c.Price != nil {
		course.Price = *c.Price
	}
	if c.Rating != nil {
		course.Rating = *c.Rating
	}
	if c.IsPublished != nil {
		course.IsPublished = *c.IsPublished
	}
	for _, tag := range c.AddTags {
		if !course.HasTag(tag) {
			course.Tags = append(course.Tags, tag)
		}
	}
	if !c.UpdatedAt.IsZero() {
		course.UpdatedAt = c.UpdatedAt
	}
}
