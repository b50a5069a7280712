package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type assignmentRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewAssignmentRepo(db *mongo.Database, baseLog *logger.Logger) repos.AssignmentRepo {
	repoLog := baseLog.With("repo", "AssignmentRepo")
	return &assignmentRepo{coll: db.Collection(domain.CollectionAssignments), log: repoLog}
}

func (r *assignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	a.Normalize()
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return mapError("insert assignments", err)
	}
	return nil
}

func (r *assignmentRepo) GetByID(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	return findOne[domain.Assignment](ctx, r.coll, bson.M{"assignmentId": assignmentID})
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Assignment, error) {
	out, err := findMany[domain.Assignment](ctx, r.coll, bson.M{"courseId": courseID}, "dueDate")
	if err != nil {
		return nil, mapError("list assignments", err)
	}
	return out, nil
}

func (r *assignmentRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Assignment, error) {
	filter := bson.M{"dueDate": bson.M{"$gte": domain.Millis(from), "$lte": domain.Millis(to)}}
	out, err := findMany[domain.Assignment](ctx, r.coll, filter, "dueDate")
	if err != nil {
		return nil, mapError("list due assignments", err)
	}
	return out, nil
}
