package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

const Backend = "mongo"

// NewSet wires every repository onto db. Close disconnects the client.
func NewSet(client *mongo.Client, db *mongo.Database, log *logger.Logger) repos.Set {
	return repos.Set{
		Backend:     Backend,
		Collections: NewCollectionManager(db, log),
		Users:       NewUserRepo(db, log),
		Courses:     NewCourseRepo(db, log),
		Lessons:     NewLessonRepo(db, log),
		Assignments: NewAssignmentRepo(db, log),
		Enrollments: NewEnrollmentRepo(db, log),
		Submissions: NewSubmissionRepo(db, log),
		Counters:    NewCounterRepo(db, log),
		Reports:     NewReportRepo(db, log),
		Close: func(ctx context.Context) error {
			if client == nil {
				return nil
			}
			return client.Disconnect(ctx)
		},
	}
}
