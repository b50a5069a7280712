package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type NewLesson struct {
	Title     string   `json:"title" validate:"notblank"`
	Content   string   `json:"content" validate:"notblank"`
	Duration  float64  `json:"duration" validate:"gte=0"`
	VideoURL  string   `json:"videoUrl" validate:"omitempty,url"`
	Materials []string `json:"materials" validate:"dive,notblank"`
	// Order pins the position; nil appends after the course's last lesson.
	Order     *int      `json:"order" validate:"omitnil,gte=1"`
	CreatedAt time.Time `json:"createdAt"`
}

type LessonService interface {
	AddLessonToCourse(ctx context.Context, courseID string, in NewLesson) (*domain.Lesson, error)
	GetLesson(ctx context.Context, lessonID string) (*domain.Lesson, error)
	ListCourseLessons(ctx context.Context, courseID string) ([]*domain.Lesson, error)
	RemoveLessonFromCourse(ctx context.Context, lessonID string) (int64, error)
}

type lessonService struct {
	log     *logger.Logger
	lessons repos.LessonRepo
	courses repos.CourseRepo
	ids     *IDAllocator
	v       *Validator
	now     func() time.Time
}

func NewLessonService(baseLog *logger.Logger, lessons repos.LessonRepo, courses repos.CourseRepo, ids *IDAllocator, v *Validator, now func() time.Time) LessonService {
	return &lessonService{
		log:     baseLog.With("service", "LessonService"),
		lessons: lessons,
		courses: courses,
		ids:     ids,
		v:       v,
		now:     now,
	}
}

// AddLessonToCourse draws the lesson ID from the global sequence while the
// order is counted per course.
func (s *lessonService) AddLessonToCourse(ctx context.Context, courseID string, in NewLesson) (l *domain.Lesson, err error) {
	ctx, sc := begin(ctx, s.log, "AddLessonToCourse", "course_id", courseID)
	defer func() {
		id, order := "", 0
		if l != nil {
			id, order = l.LessonID, l.Order
		}
		err = sc.done(err, "lesson_id", id, "order", order)
	}()

	if err = s.v.Struct("AddLessonToCourse", in); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, invalid("AddLessonToCourse", "courseId", "courseId must reference an existing course")
	}
	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		max, err := s.lessons.MaxOrder(ctx, courseID)
		if err != nil {
			return nil, err
		}
		order = max + 1
	}
	id, err := s.ids.Next(ctx, domain.PrefixLesson)
	if err != nil {
		return nil, err
	}
	created := in.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	materials := in.Materials
	if materials == nil {
		materials = []string{}
	}
	l = &domain.Lesson{
		LessonID:  id,
		CourseID:  courseID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Duration:  in.Duration,
		Order:     order,
		VideoURL:  in.VideoURL,
		Materials: datatypes.JSONSlice[string](materials),
		CreatedAt: created,
	}
	if err = s.lessons.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *lessonService) GetLesson(ctx context.Context, id string) (l *domain.Lesson, err error) {
	ctx, sc := beginRead(ctx, s.log, "GetLesson", "lesson_id", id)
	defer func() { err = sc.done(err) }()
	return s.lessons.GetByID(ctx, id)
}

func (s *lessonService) ListCourseLessons(ctx context.Context, courseID string) (out []*domain.Lesson, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListCourseLessons", "course_id", courseID)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.lessons.ListByCourse(ctx, courseID)
}

func (s *lessonService) RemoveLessonFromCourse(ctx context.Context, id string) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "RemoveLessonFromCourse", "lesson_id", id)
	defer func() { err = sc.done(err, "affected", n) }()
	return s.lessons.Delete(ctx, id)
}
