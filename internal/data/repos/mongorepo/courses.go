package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type courseRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewCourseRepo(db *mongo.Database, baseLog *logger.Logger) repos.CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{coll: db.Collection(domain.CollectionCourses), log: repoLog}
}

func (r *courseRepo) Create(ctx context.Context, c *domain.Course) error {
	c.Normalize()
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return mapError("insert courses", err)
	}
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, courseID string) (*domain.Course, error) {
	return findOne[domain.Course](ctx, r.coll, bson.M{"courseId": courseID})
}

func (r *courseRepo) List(ctx context.Context, f domain.CourseFilter) ([]*domain.Course, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.InstructorID != "" {
		filter["instructorId"] = f.InstructorID
	}
	if f.Published != nil {
		filter["isPublished"] = *f.Published
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	out, err := findMany[domain.Course](ctx, r.coll, filter, "courseId")
	if err != nil {
		return nil, mapError("list courses", err)
	}
	return out, nil
}

// Search relies on the courses_text index over title and description.
func (r *courseRepo) Search(ctx context.Context, text string) ([]*domain.Course, error) {
	out, err := findMany[domain.Course](ctx, r.coll, bson.M{"$text": bson.M{"$search": text}}, "courseId")
	if err != nil {
		return nil, mapError("search courses", err)
	}
	return out, nil
}

func (r *courseRepo) Update(ctx context.Context, courseID string, c domain.CourseChanges) (int64, error) {
	set := bson.M{}
	if c.Title != nil {
		set["title"] = *c.Title
	}
	if c.Description != nil {
		set["description"] = *c.Description
	}
	if c.Category != nil {
		set["category"] = *c.Category
	}
	if c.Level != nil {
		set["level"] = *c.Level
	}
	if c.Duration != nil {
		set["duration"] = *c.Duration
	}
	if c.Price != nil {
		set["price"] = *c.Price
	}
	if c.Rating != nil {
		set["rating"] = *c.Rating
	}
	if c.IsPublished != nil {
		set["isPublished"] = *c.IsPublished
	}
	if !c.UpdatedAt.IsZero() {
		set["updatedAt"] = domain.Millis(c.UpdatedAt)
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if tags := domain.UniqueTags(c.AddTags); len(tags) > 0 {
		update["$addToSet"] = bson.M{"tags": bson.M{"$each": tags}}
	}
	n, err := updateOne(ctx, r.coll, "courseId", courseID, update)
	if err != nil {
		return 0, mapError("update courses", err)
	}
	return n, nil
}
