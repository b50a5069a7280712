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

type NewCourse struct {
	Title        string       `json:"title" validate:"notblank"`
	Description  string       `json:"description"`
	InstructorID string       `json:"instructorId" validate:"notblank"`
	Category     string       `json:"category" validate:"notblank"`
	Level        domain.Level `json:"level" validate:"level"`
	Duration     float64      `json:"duration" validate:"gte=0"`
	Price        float64      `json:"price" validate:"gte=0"`
	Tags         []string     `json:"tags" validate:"dive,notblank"`
	Rating       float64      `json:"rating" validate:"gte=0,lte=5"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type UpdateCourse struct {
	Title       *string       `json:"title" validate:"omitnil,notblank"`
	Description *string       `json:"description"`
	Category    *string       `json:"category" validate:"omitnil,notblank"`
	Level       *domain.Level `json:"level" validate:"omitnil,level"`
	Duration    *float64      `json:"duration" validate:"omitnil,gte=0"`
	Price       *float64      `json:"price" validate:"omitnil,gte=0"`
	Rating      *float64      `json:"rating" validate:"omitnil,gte=0,lte=5"`
}

type addTagsInput struct {
	Tags []string `json:"tags" validate:"required,dive,notblank"`
}

type CourseService interface {
	CreateCourse(ctx context.Context, in NewCourse) (*domain.Course, error)
	GetCourse(ctx context.Context, courseID string) (*domain.Course, error)
	ListCourses(ctx context.Context, f domain.CourseFilter) ([]*domain.Course, error)
	SearchCourses(ctx context.Context, text string) ([]*domain.Course, error)
	UpdateCourse(ctx context.Context, courseID string, in UpdateCourse) (int64, error)
	MarkCoursePublished(ctx context.Context, courseID string) (int64, error)
	AddTagsToCourse(ctx context.Context, courseID string, tags []string) (int64, error)
}

type courseService struct {
	log     *logger.Logger
	courses repos.CourseRepo
	users   repos.UserRepo
	ids     *IDAllocator
	v       *Validator
	now     func() time.Time
}

func NewCourseService(baseLog *logger.Logger, courses repos.CourseRepo, users repos.UserRepo, ids *IDAllocator, v *Validator, now func() time.Time) CourseService {
	return &courseService{
		log:     baseLog.With("service", "CourseService"),
		courses: courses,
		users:   users,
		ids:     ids,
		v:       v,
		now:     now,
	}
}

// CreateCourse stores an unpublished course owned by an existing instructor.
func (s *courseService) CreateCourse(ctx context.Context, in NewCourse) (c *domain.Course, err error) {
	ctx, sc := begin(ctx, s.log, "CreateCourse", "instructor_id", in.InstructorID)
	defer func() {
		id := ""
		if c != nil {
			id = c.CourseID
		}
		err = sc.done(err, "course_id", id)
	}()

	if in.Level == "" {
		in.Level = domain.LevelBeginner
	}
	if err = s.v.Struct("CreateCourse", in); err != nil {
		return nil, err
	}
	instructor, err := s.users.GetByID(ctx, in.InstructorID)
	if err != nil {
		return nil, err
	}
	if instructor == nil || instructor.Role != domain.RoleInstructor {
		return nil, invalid("CreateCourse", "instructorId", "instructorId must reference an existing instructor")
	}
	id, err := s.ids.Next(ctx, domain.PrefixCourse)
	if err != nil {
		return nil, err
	}
	created := in.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	created = domain.Millis(created)
	c = &domain.Course{
		CourseID:     id,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		InstructorID: in.InstructorID,
		Category:     strings.TrimSpace(in.Category),
		Level:        in.Level,
		Duration:     in.Duration,
		Price:        in.Price,
		Tags:         datatypes.JSONSlice[string](domain.UniqueTags(in.Tags)),
		CreatedAt:    created,
		UpdatedAt:    created,
		IsPublished:  false,
		Rating:       in.Rating,
	}
	if err = s.courses.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (c *domain.Course, err error) {
	ctx, sc := beginRead(ctx, s.log, "GetCourse", "course_id", id)
	defer func() { err = sc.done(err) }()
	return s.courses.GetByID(ctx, id)
}

func (s *courseService) ListCourses(ctx context.Context, f domain.CourseFilter) (out []*domain.Course, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListCourses", "category", f.Category)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.courses.List(ctx, f)
}

func (s *courseService) SearchCourses(ctx context.Context, text string) (out []*domain.Course, err error) {
	ctx, sc := beginRead(ctx, s.log, "SearchCourses", "query", text)
	defer func() { err = sc.done(err, "count", len(out)) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return []*domain.Course{}, nil
	}
	return s.courses.Search(ctx, text)
}

// touch applies changes with an updatedAt strictly after the stored one.
// A missing course yields zero.
func (s *courseService) touch(ctx context.Context, id string, changes domain.CourseChanges) (int64, error) {
	current, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, nil
	}
	changes.UpdatedAt = domain.NextUpdatedAt(current.UpdatedAt, s.now())
	return s.courses.Update(ctx, id, changes)
}

func (s *courseService) UpdateCourse(ctx context.Context, id string, in UpdateCourse) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "UpdateCourse", "course_id", id)
	defer func() { err = sc.done(err, "affected", n) }()

	if err = s.v.Struct("UpdateCourse", in); err != nil {
		return 0, err
	}
	return s.touch(ctx, id, domain.CourseChanges{
		Title:       trimmed(in.Title),
		Description: in.Description,
		Category:    trimmed(in.Category),
		Level:       in.Level,
		Duration:    in.Duration,
		Price:       in.Price,
		Rating:      in.Rating,
	})
}

func (s *courseService) MarkCoursePublished(ctx context.Context, id string) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "MarkCoursePublished", "course_id", id)
	defer func() { err = sc.done(err, "affected", n) }()

	published := true
	return s.touch(ctx, id, domain.CourseChanges{IsPublished: &published})
}

// AddTagsToCourse merges tags into the course's tag set.
func (s *courseService) AddTagsToCourse(ctx context.Context, id string, tags []string) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "AddTagsToCourse", "course_id", id, "tags", len(tags))
	defer func() { err = sc.done(err, "affected", n) }()

	if err = s.v.Struct("AddTagsToCourse", addTagsInput{Tags: tags}); err != nil {
		return 0, err
	}
	return s.touch(ctx, id, domain.CourseChanges{AddTags: domain.UniqueTags(tags)})
}
