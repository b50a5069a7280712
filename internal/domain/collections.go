package domain

const (
	CollectionUsers       = "users"
	CollectionCourses     = "courses"
	CollectionLessons     = "lessons"
	CollectionAssignments = "assignments"
	CollectionEnrollments = "enrollments"
	CollectionSubmissions = "submissions"
	CollectionCounters    = "counters"
)

// Collections lists the entity collections in dependency order.
var Collections = []string{
	CollectionUsers,
	CollectionCourses,
	CollectionLessons,
	CollectionAssignments,
	CollectionEnrollments,
	CollectionSubmissions,
}
