package sqlrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

const Backend = "sql"

// NewSet wires every repository onto db. Close releases the pool.
func NewSet(db *gorm.DB, log *logger.Logger) repos.Set {
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
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
