package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type enrollmentRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewEnrollmentRepo(db *mongo.Database, baseLog *logger.Logger) repos.EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{coll: db.Collection(domain.CollectionEnrollments), log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	e.Normalize()
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return mapError("insert enrollments", err)
	}
	return nil
}

func (r *enrollmentRepo) GetByID(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	return findOne[domain.Enrollment](ctx, r.coll, bson.M{"enrollmentId": enrollmentID})
}

func (r *enrollmentRepo) GetByStudentCourse(ctx context.Context, studentID, courseID string) (*domain.Enrollment, error) {
	return findOne[domain.Enrollment](ctx, r.coll, bson.M{"studentId": studentID, "courseId": courseID})
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*domain.Enrollment, error) {
	out, err := findMany[domain.Enrollment](ctx, r.coll, bson.M{"studentId": studentID}, "enrollmentId")
	if err != nil {
		return nil, mapError("list enrollments", err)
	}
	return out, nil
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Enrollment, error) {
	out, err := findMany[domain.Enrollment](ctx, r.coll, bson.M{"courseId": courseID}, "enrollmentId")
	if err != nil {
		return nil, mapError("list enrollments", err)
	}
	return out, nil
}

func (r *enrollmentRepo) Update(ctx context.Context, enrollmentID string, c domain.EnrollmentChanges) (int64, error) {
	set := bson.M{}
	if c.Status != nil {
		set["status"] = *c.Status
	}
	if c.Progress != nil {
		set["progress"] = *c.Progress
	}
	if c.CompletionDate != nil {
		set["completionDate"] = domain.Millis(*c.CompletionDate)
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	n, err := updateOne(ctx, r.coll, "enrollmentId", enrollmentID, update)
	if err != nil {
		return 0, mapError("update enrollments", err)
	}
	return n, nil
}

func (r *enrollmentRepo) Delete(ctx context.Context, enrollmentID string) (int64, error) {
	n, err := deleteOne(ctx, r.coll, "enrollmentId", enrollmentID)
	if err != nil {
		return 0, mapError("delete enrollments", err)
	}
	return n, nil
}
