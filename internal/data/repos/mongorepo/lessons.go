package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type lessonRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewLessonRepo(db *mongo.Database, baseLog *logger.Logger) repos.LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{coll: db.Collection(domain.CollectionLessons), log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, l *domain.Lesson) error {
	l.Normalize()
	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return mapError("insert lessons", err)
	}
	return nil
}

func (r *lessonRepo) GetByID(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	return findOne[domain.Lesson](ctx, r.coll, bson.M{"lessonId": lessonID})
}

func (r *lessonRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error) {
	out, err := findMany[domain.Lesson](ctx, r.coll, bson.M{"courseId": courseID}, "order")
	if err != nil {
		return nil, mapError("list lessons", err)
	}
	return out, nil
}

// MaxOrder returns the highest order in the course, or 0 when it has no
// lessons.
func (r *lessonRepo) MaxOrder(ctx context.Context, courseID string) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})
	last, err := findOne[domain.Lesson](ctx, r.coll, bson.M{"courseId": courseID}, opts)
	if err != nil {
		return 0, mapError("max lesson order", err)
	}
	if last == nil {
		return 0, nil
	}
	return last.Order, nil
}

func (r *lessonRepo) Delete(ctx context.Context, lessonID string) (int64, error) {
	n, err := deleteOne(ctx, r.coll, "lessonId", lessonID)
	if err != nil {
		return 0, mapError("delete lessons", err)
	}
	return n, nil
}
