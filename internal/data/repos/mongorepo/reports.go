package mongorepo

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type reportRepo struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewReportRepo(db *mongo.Database, baseLog *logger.Logger) repos.ReportRepo {
	repoLog := baseLog.With("repo", "ReportRepo")
	return &reportRepo{db: db, log: repoLog}
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// lookupEnrollments joins each course with its enrollments and projects the
// count, keeping courses without enrollments.
func lookupEnrollments() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         domain.CollectionEnrollments,
			"localField":   "courseId",
			"foreignField": "courseId",
			"as":           "enrollmentDocs",
		}}},
		{{Key: "$addFields", Value: bson.M{"enrollmentCount": bson.M{"$size": "$enrollmentDocs"}}}},
		{{Key: "$project", Value: bson.M{"enrollmentDocs": 0}}},
	}
}

func lookupUserNames() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         domain.CollectionUsers,
			"localField":   "_id",
			"foreignField": "userId",
			"as":           "user",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"firstName": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$user.firstName", 0}}, ""}},
			"lastName":  bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$user.lastName", 0}}, ""}},
		}}},
		{{Key: "$project", Value: bson.M{"user": 0}}},
	}
}

func (r *reportRepo) EnrollmentStatistics(ctx context.Context) ([]domain.CategoryEnrollmentStats, error) {
	pipeline := mongo.Pipeline{}
	pipeline = append(pipeline, lookupEnrollments()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":              "$category",
			"totalCourses":     bson.M{"$sum": 1},
			"totalEnrollments": bson.M{"$sum": "$enrollmentCount"},
			"avgRating":        bson.M{"$avg": "$rating"},
			"avgPrice":         bson.M{"$avg": "$price"},
			"courses": bson.M{"$push": bson.M{
				"courseId":    "$courseId",
				"title":       "$title",
				"enrollments": "$enrollmentCount",
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalEnrollments", Value: -1}, {Key: "_id", Value: 1}}}},
	)
	out, err := aggregate[domain.CategoryEnrollmentStats](ctx, r.db.Collection(domain.CollectionCourses), pipeline)
	if err != nil {
		return nil, err
	}
	for i := range out {
		courses := out[i].Courses
		sort.SliceStable(courses, func(a, b int) bool {
			if courses[a].Enrollments != courses[b].Enrollments {
				return courses[a].Enrollments > courses[b].Enrollments
			}
			return courses[a].CourseID < courses[b].CourseID
		})
	}
	return out, nil
}

// StudentPerformance only considers graded submissions.
func (r *reportRepo) StudentPerformance(ctx context.Context) ([]domain.StudentPerformance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"grade": bson.M{"$ne": nil}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         domain.CollectionAssignments,
			"localField":   "assignmentId",
			"foreignField": "assignmentId",
			"as":           "assignment",
		}}},
		{{Key: "$unwind", Value: "$assignment"}},
		{{Key: "$group", Value: bson.M{
			"_id":              "$studentId",
			"averageGrade":     bson.M{"$avg": "$grade"},
			"totalSubmissions": bson.M{"$sum": 1},
			"courses":          bson.M{"$addToSet": "$assignment.courseId"},
		}}},
		{{Key: "$addFields", Value: bson.M{"coursesCount": bson.M{"$size": "$courses"}}}},
		{{Key: "$project", Value: bson.M{"courses": 0}}},
	}
	pipeline = append(pipeline, lookupUserNames()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "averageGrade", Value: -1}, {Key: "_id", Value: 1}}}},
	)
	return aggregate[domain.StudentPerformance](ctx, r.db.Collection(domain.CollectionSubmissions), pipeline)
}

func (r *reportRepo) InstructorAnalytics(ctx context.Context) ([]domain.InstructorAnalytics, error) {
	pipeline := mongo.Pipeline{}
	pipeline = append(pipeline, lookupEnrollments()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$instructorId",
			"totalCourses":  bson.M{"$sum": 1},
			"totalStudents": bson.M{"$sum": "$enrollmentCount"},
			"averageRating": bson.M{"$avg": "$rating"},
			"totalRevenue":  bson.M{"$sum": bson.M{"$multiply": bson.A{"$price", "$enrollmentCount"}}},
		}}},
	)
	pipeline = append(pipeline, lookupUserNames()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalRevenue", Value: -1}, {Key: "_id", Value: 1}}}},
	)
	return aggregate[domain.InstructorAnalytics](ctx, r.db.Collection(domain.CollectionCourses), pipeline)
}

func countStatus(status domain.EnrollmentStatus) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(status)}}, 1, 0}}}
}

func (r *reportRepo) MonthlyEnrollmentTrend(ctx context.Context) ([]domain.MonthlyEnrollments, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$enrollmentDate"},
				"month": bson.M{"$month": "$enrollmentDate"},
			},
			"enrollments": bson.M{"$sum": 1},
			"active":      countStatus(domain.StatusActive),
			"completed":   countStatus(domain.StatusCompleted),
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"year":        "$_id.year",
			"month":       "$_id.month",
			"enrollments": 1,
			"active":      1,
			"completed":   1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}}}},
	}
	return aggregate[domain.MonthlyEnrollments](ctx, r.db.Collection(domain.CollectionEnrollments), pipeline)
}

// CategoryPopularity averages course ratings per enrollment, so heavily
// enrolled courses weigh more.
func (r *reportRepo) CategoryPopularity(ctx context.Context) ([]domain.CategoryPopularity, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         domain.CollectionCourses,
			"localField":   "courseId",
			"foreignField": "courseId",
			"as":           "course",
		}}},
		{{Key: "$unwind", Value: "$course"}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$course.category",
			"enrollments": bson.M{"$sum": 1},
			"avgRating":   bson.M{"$avg": "$course.rating"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "enrollments", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	return aggregate[domain.CategoryPopularity](ctx, r.db.Collection(domain.CollectionEnrollments), pipeline)
}

func (r *reportRepo) EngagementByStatus(ctx context.Context) ([]domain.StatusEngagement, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$status",
			"count":       bson.M{"$sum": 1},
			"avgProgress": bson.M{"$avg": "$progress"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	return aggregate[domain.StatusEngagement](ctx, r.db.Collection(domain.CollectionEnrollments), pipeline)
}
