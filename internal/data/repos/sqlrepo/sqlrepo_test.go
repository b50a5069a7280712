package sqlrepo

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
)

func newTestSet(t *testing.T, db *gorm.DB) repos.Set {
	t.Helper()
	ctx := context.Background()
	set := NewSet(db, testutil.Logger(t))
	if err := set.Collections.EnsureCollections(ctx); err != nil {
		t.Fatalf("EnsureCollections: %v", err)
	}
	if err := set.Collections.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return set
}

func TestEnsureCollectionsIdempotent(t *testing.T) {
	db := testutil.SQLite(t)
	set := newTestSet(t, db)
	ctx := context.Background()

	if err := set.Collections.EnsureCollections(ctx); err != nil {
		t.Fatalf("EnsureCollections again: %v", err)
	}
	if err := set.Collections.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes again: %v", err)
	}
	for _, c := range domain.Collections {
		if !db.Migrator().HasTable(c) {
			t.Fatalf("missing table %s", c)
		}
	}
	if !db.Migrator().HasIndex(&domain.Enrollment{}, "enrollments_studentId_courseId_unique") {
		t.Fatal("missing enrollments pair index")
	}
}

func rawDocs(now time.Time) map[string]map[string]any {
	return map[string]map[string]any{
		domain.CollectionUsers: {
			"userId": "ST_900", "email": "raw@example.com", "firstName": "Raw", "lastName": "Doc", "role": "student",
		},
		domain.CollectionCourses: {
			"courseId": "CO_900", "title": "Raw", "instructorId": "IN_900",
		},
		domain.CollectionLessons: {
			"lessonId": "LE_900", "courseId": "CO_900", "title": "Raw", "content": "body",
		},
		domain.CollectionAssignments: {
			"assignmentId": "AS_900", "courseId": "CO_900", "title": "Raw", "description": "desc",
		},
		domain.CollectionEnrollments: {
			"enrollmentId": "EN_900", "studentId": "ST_900", "courseId": "CO_900", "enrollmentDate": now,
		},
		domain.CollectionSubmissions: {
			"submissionId": "SU_900", "assignmentId": "AS_900", "studentId": "ST_900",
		},
	}
}

func TestInsertDocumentMissingRequiredField(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	for _, d := range schema.All() {
		for _, field := range d.Required {
			doc := map[string]any{}
			for k, v := range rawDocs(time.Now().UTC())[d.Collection] {
				doc[k] = v
			}
			delete(doc, field)
			err := set.Collections.InsertDocument(ctx, d.Collection, doc)
			if !domain.IsCode(err, domain.CodeSchemaViolation) {
				t.Fatalf("%s without %s: expected schema_violation, got %v", d.Collection, field, err)
			}
		}
	}

	for collection, doc := range rawDocs(time.Now().UTC()) {
		if err := set.Collections.InsertDocument(ctx, collection, doc); err != nil {
			t.Fatalf("InsertDocument(%s): %v", collection, err)
		}
	}
	if ids, err := set.Collections.IDs(ctx, domain.CollectionUsers); err != nil || !reflect.DeepEqual(ids, []string{"ST_900"}) {
		t.Fatalf("IDs(users): ids=%v err=%v", ids, err)
	}
}

func TestDuplicateEmailIsDuplicateKey(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, set, "ST_001", domain.RoleStudent)
	dup := &domain.User{UserID: "ST_002", Email: u.Email, FirstName: "B", LastName: "C", Role: domain.RoleStudent}
	err := set.Users.Create(ctx, dup)
	if !domain.IsCode(err, domain.CodeDuplicateKey) {
		t.Fatalf("expected duplicate_key, got %q (%v)", domain.CodeOf(err), err)
	}
}

func TestEnrollmentPairUniqueAtStore(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()
	now := time.Now().UTC()

	testutil.SeedEnrollment(t, ctx, set, "EN_001", "ST_001", "CO_001", domain.StatusActive, 0, now)
	err := set.Enrollments.Create(ctx, &domain.Enrollment{
		EnrollmentID: "EN_002", StudentID: "ST_001", CourseID: "CO_001", EnrollmentDate: now, Status: domain.StatusActive,
	})
	if !domain.IsCode(err, domain.CodeDuplicateKey) {
		t.Fatalf("expected duplicate_key, got %q (%v)", domain.CodeOf(err), err)
	}
}

func TestCounters(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	steps := []struct {
		prefix domain.IDPrefix
		floor  int64
		want   int64
	}{
		{domain.PrefixCourse, 0, 1},
		{domain.PrefixCourse, 41, 42},
		{domain.PrefixCourse, 5, 43},
		{domain.PrefixLesson, 7, 8},
	}
	for _, st := range steps {
		if st.floor > 0 {
			if err := set.Counters.Floor(ctx, st.prefix, st.floor); err != nil {
				t.Fatalf("Floor(%s, %d): %v", st.prefix, st.floor, err)
			}
		}
		if n, err := set.Counters.Next(ctx, st.prefix); err != nil || n != st.want {
			t.Fatalf("Next(%s) after floor %d: n=%d err=%v want %d", st.prefix, st.floor, n, err, st.want)
		}
	}
}

func TestCountersConcurrentNextAreDistinct(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	const workers = 16
	var (
		mu   sync.Mutex
		seen = map[int64]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := set.Counters.Next(ctx, domain.PrefixStudent)
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != workers {
		t.Fatalf("distinct values: got %d want %d", len(seen), workers)
	}
	for i := int64(1); i <= workers; i++ {
		if !seen[i] {
			t.Fatalf("missing sequence %d", i)
		}
	}
}

func TestCourseUpdateAddsTagsAsSet(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	c := testutil.SeedCourse(t, ctx, set, "CO_001", "IN_001", "Programming", 50, 4)
	if _, err := set.Courses.Update(ctx, c.CourseID, domain.CourseChanges{AddTags: []string{"python"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	bump := c.UpdatedAt.Add(time.Second)
	if n, err := set.Courses.Update(ctx, c.CourseID, domain.CourseChanges{AddTags: []string{"python", "python", "ml"}, UpdatedAt: bump}); err != nil || n != 1 {
		t.Fatalf("Update: n=%d err=%v", n, err)
	}

	got, err := set.Courses.GetByID(ctx, c.CourseID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual([]string(got.Tags), []string{"python", "ml"}) {
		t.Fatalf("tags = %v", got.Tags)
	}
	if !got.UpdatedAt.Equal(domain.Millis(bump)) {
		t.Fatalf("updatedAt = %s, want %s", got.UpdatedAt, domain.Millis(bump))
	}

	if n, err := set.Courses.Update(ctx, "CO_404", domain.CourseChanges{AddTags: []string{"x"}}); err != nil || n != 0 {
		t.Fatalf("Update(missing): n=%d err=%v", n, err)
	}
}

func TestCourseSearchAndFilter(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	testutil.SeedCourse(t, ctx, set, "CO_001", "IN_001", "Programming", 20, 4)
	testutil.SeedCourse(t, ctx, set, "CO_002", "IN_001", "Design", 80, 3)

	found, err := set.Courses.Search(ctx, "design")
	if err != nil || len(found) != 1 || found[0].CourseID != "CO_002" {
		t.Fatalf("Search: err=%v found=%v", err, found)
	}

	min := 50.0
	list, err := set.Courses.List(ctx, domain.CourseFilter{InstructorID: "IN_001", MinPrice: &min})
	if err != nil || len(list) != 1 || list[0].CourseID != "CO_002" {
		t.Fatalf("List: err=%v list=%v", err, list)
	}
}

func TestLessonOrdering(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	if max, err := set.Lessons.MaxOrder(ctx, "CO_001"); err != nil || max != 0 {
		t.Fatalf("MaxOrder(empty): max=%d err=%v", max, err)
	}

	for i, id := range []string{"LE_001", "LE_002"} {
		if err := set.Lessons.Create(ctx, &domain.Lesson{LessonID: id, CourseID: "CO_001", Title: id, Content: "c", Order: (i + 1) * 5}); err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}
	if max, err := set.Lessons.MaxOrder(ctx, "CO_001"); err != nil || max != 10 {
		t.Fatalf("MaxOrder: max=%d err=%v", max, err)
	}

	for _, want := range []int64{1, 0} {
		if n, err := set.Lessons.Delete(ctx, "LE_002"); err != nil || n != want {
			t.Fatalf("Delete: n=%d err=%v want %d", n, err, want)
		}
	}
}

func TestUserUpdateProfileAndSoftDelete(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, set, "ST_001", domain.RoleStudent)
	bio := "Learner"
	if n, err := set.Users.Update(ctx, u.UserID, domain.UserChanges{Bio: &bio, Skills: []string{"go"}}); err != nil || n != 1 {
		t.Fatalf("Update(profile): n=%d err=%v", n, err)
	}

	inactive := false
	if _, err := set.Users.Update(ctx, u.UserID, domain.UserChanges{IsActive: &inactive}); err != nil {
		t.Fatalf("Update(isActive): %v", err)
	}

	got, err := set.Users.GetByID(ctx, u.UserID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.IsActive || got.Profile.Bio != "Learner" || got.Email != u.Email {
		t.Fatalf("user after update: %+v", got)
	}
	if !reflect.DeepEqual([]string(got.Profile.Skills), []string{"go"}) {
		t.Fatalf("skills = %v", got.Profile.Skills)
	}

	if missing, err := set.Users.GetByID(ctx, "ST_404"); err != nil || missing != nil {
		t.Fatalf("GetByID(missing): %+v err=%v", missing, err)
	}
}

func TestGradeSetsAllGradeFields(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	s := testutil.SeedSubmission(t, ctx, set, "SU_001", "AS_001", "ST_001", nil)
	at := time.Now().UTC()
	if n, err := set.Submissions.Grade(ctx, s.SubmissionID, 88, "good", at); err != nil || n != 1 {
		t.Fatalf("Grade: n=%d err=%v", n, err)
	}

	got, err := set.Submissions.GetByID(ctx, s.SubmissionID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Grade == nil || got.GradedDate == nil || got.Feedback == nil {
		t.Fatalf("grade fields not all set: %+v", got)
	}
	if *got.Grade != 88 || *got.Feedback != "good" {
		t.Fatalf("grade=%v feedback=%q", *got.Grade, *got.Feedback)
	}
}

func TestDumpUsesDocumentFieldNames(t *testing.T) {
	set := newTestSet(t, testutil.SQLite(t))
	ctx := context.Background()

	testutil.SeedEnrollment(t, ctx, set, "EN_001", "ST_001", "CO_001", domain.StatusActive, 10, time.Now().UTC())
	docs, err := set.Collections.Dump(ctx, domain.CollectionEnrollments)
	if err != nil || len(docs) != 1 {
		t.Fatalf("Dump: err=%v len=%d", err, len(docs))
	}
	if docs[0]["enrollmentId"] != "EN_001" {
		t.Fatalf("enrollmentId = %v", docs[0]["enrollmentId"])
	}
	if _, isTime := docs[0]["enrollmentDate"].(time.Time); !isTime {
		t.Fatalf("enrollmentDate is %T", docs[0]["enrollmentDate"])
	}
	if docs[0]["completionDate"] != nil {
		t.Fatalf("completionDate = %v, want nil", docs[0]["completionDate"])
	}
}

func TestPostgresSmoke(t *testing.T) {
	db := testutil.Postgres(t)
	ctx := context.Background()
	set := newTestSet(t, db)

	if n, err := set.Counters.Next(ctx, domain.IDPrefix("ZZ")); err != nil || n <= 0 {
		t.Fatalf("Next: n=%d err=%v", n, err)
	}
}
