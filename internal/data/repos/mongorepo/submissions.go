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

type submissionRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewSubmissionRepo(db *mongo.Database, baseLog *logger.Logger) repos.SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{coll: db.Collection(domain.CollectionSubmissions), log: repoLog}
}

func (r *submissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	s.Normalize()
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return mapError("insert submissions", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	return findOne[domain.Submission](ctx, r.coll, bson.M{"submissionId": submissionID})
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]*domain.Submission, error) {
	out, err := findMany[domain.Submission](ctx, r.coll, bson.M{"assignmentId": assignmentID}, "submissionId")
	if err != nil {
		return nil, mapError("list submissions", err)
	}
	return out, nil
}

func (r *submissionRepo) ListByStudent(ctx context.Context, studentID string) ([]*domain.Submission, error) {
	out, err := findMany[domain.Submission](ctx, r.coll, bson.M{"studentId": studentID}, "submissionId")
	if err != nil {
		return nil, mapError("list submissions", err)
	}
	return out, nil
}

func (r *submissionRepo) Grade(ctx context.Context, submissionID string, grade float64, feedback string, gradedAt time.Time) (int64, error) {
	update := bson.M{"$set": bson.M{
		"grade":      grade,
		"feedback":   feedback,
		"gradedDate": domain.Millis(gradedAt),
	}}
	n, err := updateOne(ctx, r.coll, "submissionId", submissionID, update)
	if err != nil {
		return 0, mapError("grade submissions", err)
	}
	return n, nil
}
