package services

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/repos/sqlrepo"
	"github.com/yungbote/eduhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/sampledata"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*Services, repos.Set) {
	t.Helper()
	set := sqlrepo.NewSet(testutil.SQLite(t), testutil.Logger(t))
	svc := New(set, testutil.Logger(t), WithClock(func() time.Time { return testNow }))
	if err := svc.Setup.Run(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return svc, set
}

func createStudent(t *testing.T, svc *Services, email string) *domain.User {
	t.Helper()
	u, err := svc.Users.CreateUser(context.Background(), NewUser{
		Email: email, FirstName: "Stu", LastName: "Dent", Role: domain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", email, err)
	}
	return u
}

// createCourse creates a course owned by a fresh instructor whose email is
// derived from the title.
func createCourse(t *testing.T, svc *Services, title string) *domain.Course {
	t.Helper()
	ctx := context.Background()
	local := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	inst, err := svc.Users.CreateUser(ctx, NewUser{
		Email: local + "@teach.example", FirstName: "In", LastName: "Structor", Role: domain.RoleInstructor,
	})
	if err != nil {
		t.Fatalf("create instructor for %q: %v", title, err)
	}
	c, err := svc.Courses.CreateCourse(ctx, NewCourse{
		Title: title, Description: "d", InstructorID: inst.UserID, Category: "Programming", Price: 10, Rating: 4,
	})
	if err != nil {
		t.Fatalf("CreateCourse(%q): %v", title, err)
	}
	return c
}

func fieldNames(err error) []string {
	var out []string
	for _, f := range domain.FieldsOf(err) {
		out = append(out, f.Field)
	}
	return out
}

func wantField(t *testing.T, op string, err error, field string) {
	t.Helper()
	if !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("%s: want validation error on %q, got %v", op, field, err)
	}
	for _, f := range fieldNames(err) {
		if f == field {
			return
		}
	}
	t.Fatalf("%s: want field %q, got %v", op, field, fieldNames(err))
}

func wantCount(t *testing.T, op string, n int64, err error, want int64) {
	t.Helper()
	if err != nil || n != want {
		t.Fatalf("%s: n=%d err=%v, want n=%d", op, n, err, want)
	}
}

func TestCreateUserAllocatesPrefixedIDs(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	st := createStudent(t, svc, "  Ada@Example.COM ")
	if st.UserID != "ST_001" || st.Email != "ada@example.com" || !st.IsActive {
		t.Fatalf("student: id=%s email=%q active=%v", st.UserID, st.Email, st.IsActive)
	}
	if st.Profile.Skills == nil || len(st.Profile.Skills) != 0 {
		t.Fatalf("student skills: want empty, got %#v", st.Profile.Skills)
	}

	in, err := svc.Users.CreateUser(ctx, NewUser{Email: "b@example.com", FirstName: "B", LastName: "C", Role: domain.RoleInstructor})
	if err != nil || in.UserID != "IN_001" {
		t.Fatalf("instructor: got=%v err=%v", in, err)
	}

	got, err := svc.Users.GetUserByEmail(ctx, "ADA@example.com")
	if err != nil || got == nil || got.UserID != "ST_001" {
		t.Fatalf("GetUserByEmail: got=%v err=%v", got, err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Users.CreateUser(context.Background(), NewUser{
		Email: "not-an-email", FirstName: "  ", LastName: "x", Role: "admin",
	})
	for _, field := range []string{"email", "firstName", "role"} {
		wantField(t, "CreateUser", err, field)
	}
	for _, f := range fieldNames(err) {
		if f == "lastName" {
			t.Fatalf("CreateUser: lastName should be valid, fields=%v", fieldNames(err))
		}
	}
}

func TestSoftDeleteUserOnlyClearsActive(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")

	n, err := svc.Users.SoftDeleteUser(ctx, st.UserID)
	wantCount(t, "SoftDeleteUser", n, err, 1)

	got, err := svc.Users.GetUser(ctx, st.UserID)
	if err != nil || got == nil {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got.IsActive || got.Email != st.Email || got.FirstName != st.FirstName {
		t.Fatalf("after soft delete: active=%v email=%q first=%q", got.IsActive, got.Email, got.FirstName)
	}

	n, err = svc.Users.SoftDeleteUser(ctx, "ST_999")
	wantCount(t, "SoftDeleteUser missing", n, err, 0)
}

func TestUpdateUserProfilePartial(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")

	bio := "Learning Go"
	n, err := svc.Users.UpdateUserProfile(ctx, st.UserID, UpdateUserProfile{Bio: &bio, Skills: []string{"go"}})
	wantCount(t, "UpdateUserProfile", n, err, 1)

	got, err := svc.Users.GetUser(ctx, st.UserID)
	if err != nil || got == nil {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got.Profile.Bio != "Learning Go" || !reflect.DeepEqual([]string(got.Profile.Skills), []string{"go"}) || got.FirstName != "Stu" {
		t.Fatalf("after update: bio=%q skills=%v first=%q", got.Profile.Bio, got.Profile.Skills, got.FirstName)
	}

	blank := " "
	_, err = svc.Users.UpdateUserProfile(ctx, st.UserID, UpdateUserProfile{FirstName: &blank})
	wantField(t, "UpdateUserProfile blank", err, "firstName")
}

func TestCreateCourseRequiresInstructor(t *testing.T) {
	svc, _ := newTestServices(t)
	st := createStudent(t, svc, "a@example.com")

	_, err := svc.Courses.CreateCourse(context.Background(), NewCourse{
		Title: "Go", InstructorID: st.UserID, Category: "Programming",
	})
	wantField(t, "CreateCourse", err, "instructorId")
	if len(domain.FieldsOf(err)) != 1 {
		t.Fatalf("CreateCourse: want one field error, got %v", fieldNames(err))
	}
}

func TestCreateCourseDefaults(t *testing.T) {
	svc, _ := newTestServices(t)
	c := createCourse(t, svc, "Go Basics")

	if c.CourseID != "CO_001" || c.Level != domain.LevelBeginner || c.IsPublished {
		t.Fatalf("course: id=%s level=%s published=%v", c.CourseID, c.Level, c.IsPublished)
	}
	if !c.CreatedAt.Equal(testNow) || !c.UpdatedAt.Equal(c.CreatedAt) {
		t.Fatalf("course times: created=%s updated=%s", c.CreatedAt, c.UpdatedAt)
	}
}

func TestAddTagsToCourseIsSetUnionAndRefreshesUpdatedAt(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "Go Basics")

	n, err := svc.Courses.AddTagsToCourse(ctx, c.CourseID, []string{"go", "go", " backend "})
	wantCount(t, "AddTagsToCourse", n, err, 1)
	n, err = svc.Courses.AddTagsToCourse(ctx, c.CourseID, []string{"go", "api"})
	wantCount(t, "AddTagsToCourse again", n, err, 1)

	got, err := svc.Courses.GetCourse(ctx, c.CourseID)
	if err != nil || got == nil {
		t.Fatalf("GetCourse: got=%v err=%v", got, err)
	}
	tags := append([]string(nil), got.Tags...)
	sort.Strings(tags)
	if !reflect.DeepEqual(tags, []string{"api", "backend", "go"}) {
		t.Fatalf("tags: got %v", got.Tags)
	}
	// the clock is frozen, so each touch moves updatedAt by one millisecond
	if want := c.UpdatedAt.Add(2 * time.Millisecond); !got.UpdatedAt.Equal(want) {
		t.Fatalf("updatedAt: got %s want %s", got.UpdatedAt, want)
	}

	n, err = svc.Courses.AddTagsToCourse(ctx, "CO_404", []string{"x"})
	wantCount(t, "AddTagsToCourse missing", n, err, 0)

	_, err = svc.Courses.AddTagsToCourse(ctx, c.CourseID, nil)
	if !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("AddTagsToCourse(nil): want validation error, got %v", err)
	}
}

func TestMarkCoursePublished(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "Go Basics")

	n, err := svc.Courses.MarkCoursePublished(ctx, c.CourseID)
	wantCount(t, "MarkCoursePublished", n, err, 1)

	got, err := svc.Courses.GetCourse(ctx, c.CourseID)
	if err != nil || got == nil || !got.IsPublished || !got.UpdatedAt.After(c.UpdatedAt) {
		t.Fatalf("GetCourse after publish: got=%+v err=%v", got, err)
	}

	published := true
	if list, err := svc.Courses.ListCourses(ctx, domain.CourseFilter{Published: &published}); err != nil || len(list) != 1 {
		t.Fatalf("ListCourses(published): err=%v len=%d", err, len(list))
	}
	if found, err := svc.Courses.SearchCourses(ctx, "basics"); err != nil || len(found) != 1 {
		t.Fatalf("SearchCourses: err=%v len=%d", err, len(found))
	}
	if empty, err := svc.Courses.SearchCourses(ctx, "   "); err != nil || len(empty) != 0 {
		t.Fatalf("SearchCourses(blank): err=%v len=%d", err, len(empty))
	}
}

func TestLessonOrderIsPerCourse(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	a := createCourse(t, svc, "A")
	b := createCourse(t, svc, "B")

	add := func(courseID string) *domain.Lesson {
		l, err := svc.Lessons.AddLessonToCourse(ctx, courseID, NewLesson{Title: "t", Content: "c"})
		if err != nil {
			t.Fatalf("AddLessonToCourse(%s): %v", courseID, err)
		}
		return l
	}
	a1, b1, a2, a3 := add(a.CourseID), add(b.CourseID), add(a.CourseID), add(a.CourseID)
	if orders := []int{a1.Order, b1.Order, a2.Order, a3.Order}; !reflect.DeepEqual(orders, []int{1, 1, 2, 3}) {
		t.Fatalf("orders: got %v", orders)
	}
	if ids := []string{a1.LessonID, b1.LessonID, a2.LessonID, a3.LessonID}; !reflect.DeepEqual(ids, []string{"LE_001", "LE_002", "LE_003", "LE_004"}) {
		t.Fatalf("ids: got %v", ids)
	}
	if a1.Materials == nil || len(a1.Materials) != 0 {
		t.Fatalf("materials: want empty, got %#v", a1.Materials)
	}

	pinned := 10
	l, err := svc.Lessons.AddLessonToCourse(ctx, b.CourseID, NewLesson{Title: "t", Content: "c", Order: &pinned})
	if err != nil || l.Order != 10 {
		t.Fatalf("pinned order: got=%v err=%v", l, err)
	}

	_, err = svc.Lessons.AddLessonToCourse(ctx, "CO_404", NewLesson{Title: "t", Content: "c"})
	wantField(t, "AddLessonToCourse missing course", err, "courseId")

	n, err := svc.Lessons.RemoveLessonFromCourse(ctx, a2.LessonID)
	wantCount(t, "RemoveLessonFromCourse", n, err, 1)
	n, err = svc.Lessons.RemoveLessonFromCourse(ctx, a2.LessonID)
	wantCount(t, "RemoveLessonFromCourse again", n, err, 0)

	lessons, err := svc.Lessons.ListCourseLessons(ctx, a.CourseID)
	if err != nil || len(lessons) != 2 || lessons[0].Order != 1 || lessons[1].Order != 3 {
		t.Fatalf("ListCourseLessons: err=%v lessons=%v", err, lessons)
	}
}

func TestEnrollStudentRejectsDuplicatePair(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")
	c := createCourse(t, svc, "Go")

	e, err := svc.Enrollments.EnrollStudent(ctx, st.UserID, c.CourseID)
	if err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}
	if e.Status != domain.StatusActive || e.Progress != 0 || e.CompletionDate != nil {
		t.Fatalf("enrollment: %+v", e)
	}

	_, err = svc.Enrollments.EnrollStudent(ctx, st.UserID, c.CourseID)
	if !domain.IsCode(err, domain.CodeDuplicateEnrollment) {
		t.Fatalf("second EnrollStudent: want duplicate_enrollment, got %v", err)
	}

	if all, err := svc.Enrollments.ListCourseEnrollments(ctx, c.CourseID); err != nil || len(all) != 1 {
		t.Fatalf("ListCourseEnrollments: err=%v len=%d", err, len(all))
	}
}

func TestEnrollStudentChecksParties(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")
	c := createCourse(t, svc, "Go")

	_, err := svc.Enrollments.EnrollStudent(ctx, st.UserID, "CO_404")
	wantField(t, "EnrollStudent missing course", err, "courseId")

	_, err = svc.Enrollments.EnrollStudent(ctx, c.InstructorID, c.CourseID)
	wantField(t, "EnrollStudent instructor", err, "studentId")

	if _, err := svc.Users.SoftDeleteUser(ctx, st.UserID); err != nil {
		t.Fatalf("SoftDeleteUser: %v", err)
	}
	_, err = svc.Enrollments.EnrollStudent(ctx, st.UserID, c.CourseID)
	wantField(t, "EnrollStudent inactive", err, "studentId")
}

func TestEnrollmentProgressLifecycle(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")
	c := createCourse(t, svc, "Go")
	e, err := svc.Enrollments.EnrollStudent(ctx, st.UserID, c.CourseID)
	if err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}

	n, err := svc.Enrollments.UpdateEnrollmentProgress(ctx, e.EnrollmentID, 40)
	wantCount(t, "UpdateEnrollmentProgress(40)", n, err, 1)
	got, err := svc.Enrollments.GetEnrollment(ctx, e.EnrollmentID)
	if err != nil || got.Status != domain.StatusActive || got.Progress != 40 {
		t.Fatalf("after 40%%: got=%+v err=%v", got, err)
	}

	_, err = svc.Enrollments.UpdateEnrollmentProgress(ctx, e.EnrollmentID, 101)
	if !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("UpdateEnrollmentProgress(101): want validation error, got %v", err)
	}

	if _, err := svc.Enrollments.UpdateEnrollmentProgress(ctx, e.EnrollmentID, 100); err != nil {
		t.Fatalf("UpdateEnrollmentProgress(100): %v", err)
	}
	got, err = svc.Enrollments.GetEnrollment(ctx, e.EnrollmentID)
	if err != nil || got.Status != domain.StatusCompleted || got.CompletionDate == nil || !got.CompletionDate.Equal(testNow) {
		t.Fatalf("after 100%%: got=%+v err=%v", got, err)
	}

	n, err = svc.Enrollments.DeleteEnrollment(ctx, e.EnrollmentID)
	wantCount(t, "DeleteEnrollment", n, err, 1)
	n, err = svc.Enrollments.DeleteEnrollment(ctx, e.EnrollmentID)
	wantCount(t, "DeleteEnrollment again", n, err, 0)
}

func TestDropEnrollment(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")
	c := createCourse(t, svc, "Go")
	e, err := svc.Enrollments.EnrollStudent(ctx, st.UserID, c.CourseID)
	if err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}

	n, err := svc.Enrollments.DropEnrollment(ctx, e.EnrollmentID)
	wantCount(t, "DropEnrollment", n, err, 1)
	mine, err := svc.Enrollments.ListStudentEnrollments(ctx, st.UserID)
	if err != nil || len(mine) != 1 || mine[0].Status != domain.StatusDropped {
		t.Fatalf("ListStudentEnrollments: err=%v rows=%v", err, mine)
	}
}

func TestSubmitAndGrade(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")
	c := createCourse(t, svc, "Go")

	a, err := svc.Assignments.CreateAssignment(ctx, c.CourseID, NewAssignment{
		Title: "HW1", Description: "d", DueDate: testNow.Add(72 * time.Hour),
	})
	if err != nil || a.MaxPoints != domain.DefaultMaxPoints {
		t.Fatalf("CreateAssignment: got=%+v err=%v", a, err)
	}

	sub, err := svc.Submissions.SubmitAssignment(ctx, a.AssignmentID, st.UserID, NewSubmission{Content: "answer"})
	if err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}
	if sub.Grade != nil || sub.Feedback != nil || sub.GradedDate != nil {
		t.Fatalf("new submission should be ungraded: %+v", sub)
	}

	_, err = svc.Assignments.UpdateAssignmentGrade(ctx, sub.SubmissionID, 120, "too much")
	wantField(t, "UpdateAssignmentGrade(120)", err, "grade")
	_, err = svc.Assignments.UpdateAssignmentGrade(ctx, sub.SubmissionID, -1, "")
	wantField(t, "UpdateAssignmentGrade(-1)", err, "grade")

	n, err := svc.Assignments.UpdateAssignmentGrade(ctx, sub.SubmissionID, 88.5, "Good work")
	wantCount(t, "UpdateAssignmentGrade", n, err, 1)
	got, err := svc.Submissions.GetSubmission(ctx, sub.SubmissionID)
	if err != nil || got.Grade == nil || *got.Grade != 88.5 || got.Feedback == nil || *got.Feedback != "Good work" {
		t.Fatalf("graded submission: got=%+v err=%v", got, err)
	}
	if got.GradedDate == nil || !got.GradedDate.Equal(testNow) {
		t.Fatalf("gradedDate: got %v", got.GradedDate)
	}

	n, err = svc.Assignments.UpdateAssignmentGrade(ctx, "SU_404", 50, "")
	wantCount(t, "UpdateAssignmentGrade missing", n, err, 0)

	_, err = svc.Submissions.SubmitAssignment(ctx, "AS_404", st.UserID, NewSubmission{Content: "x"})
	wantField(t, "SubmitAssignment missing assignment", err, "assignmentId")
}

func TestUpdateAssignmentGradeUsesAssignmentMaxPoints(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := createStudent(t, svc, "a@example.com")
	c := createCourse(t, svc, "Go")

	a, err := svc.Assignments.CreateAssignment(ctx, c.CourseID, NewAssignment{
		Title: "Quiz", Description: "d", DueDate: testNow.Add(24 * time.Hour), MaxPoints: 50,
	})
	if err != nil || a.MaxPoints != 50 {
		t.Fatalf("CreateAssignment: got=%+v err=%v", a, err)
	}
	sub, err := svc.Submissions.SubmitAssignment(ctx, a.AssignmentID, st.UserID, NewSubmission{Content: "answer"})
	if err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}

	_, err = svc.Assignments.UpdateAssignmentGrade(ctx, sub.SubmissionID, 50.5, "")
	wantField(t, "UpdateAssignmentGrade above max", err, "grade")

	n, err := svc.Assignments.UpdateAssignmentGrade(ctx, sub.SubmissionID, 50, "Full marks")
	wantCount(t, "UpdateAssignmentGrade at max", n, err, 1)
}

func TestListUpcomingAssignments(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	c := createCourse(t, svc, "Go")
	for _, due := range []time.Duration{-24 * time.Hour, 48 * time.Hour, 24 * time.Hour, 30 * 24 * time.Hour} {
		_, err := svc.Assignments.CreateAssignment(ctx, c.CourseID, NewAssignment{
			Title: "HW", Description: "d", DueDate: testNow.Add(due),
		})
		if err != nil {
			t.Fatalf("CreateAssignment(due %s): %v", due, err)
		}
	}

	upcoming, err := svc.Assignments.ListUpcomingAssignments(ctx, 7*24*time.Hour)
	if err != nil || len(upcoming) != 2 {
		t.Fatalf("ListUpcomingAssignments: err=%v len=%d", err, len(upcoming))
	}
	if !upcoming[0].DueDate.Before(upcoming[1].DueDate) {
		t.Fatalf("upcoming not ordered by due date: %s, %s", upcoming[0].DueDate, upcoming[1].DueDate)
	}

	if all, err := svc.Assignments.ListCourseAssignments(ctx, c.CourseID); err != nil || len(all) != 4 {
		t.Fatalf("ListCourseAssignments: err=%v len=%d", err, len(all))
	}
}

func TestSetupFloorsCountersAboveExistingRecords(t *testing.T) {
	svc, set := newTestServices(t)
	ctx := context.Background()

	err := set.Collections.InsertDocument(ctx, domain.CollectionUsers, map[string]any{
		"userId": "ST_041", "email": "raw@example.com", "firstName": "Raw", "lastName": "Insert", "role": "student",
	})
	if err != nil {
		t.Fatalf("InsertDocument: %v", err)
	}
	if err := svc.Setup.Run(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if st := createStudent(t, svc, "next@example.com"); st.UserID != "ST_042" {
		t.Fatalf("next student id: got %s want ST_042", st.UserID)
	}
}

func TestPopulateCreatesRequestedCounts(t *testing.T) {
	svc, set := newTestServices(t)
	ctx := context.Background()
	content, err := sampledata.LoadContent()
	if err != nil {
		t.Fatalf("LoadContent: %v", err)
	}
	gen := sampledata.New(content, 42, sampledata.WithClock(func() time.Time { return testNow }))

	counts := DefaultPopulateCounts()
	res, err := svc.Populate(ctx, gen, counts)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}

	created := map[string][2]int{
		"students":    {len(res.Students), counts.Students},
		"instructors": {len(res.Instructors), counts.Instructors},
		"courses":     {len(res.Courses), counts.Courses},
		"lessons":     {len(res.Lessons), counts.Lessons},
		"assignments": {len(res.Assignments), counts.Assignments},
		"enrollments": {len(res.Enrollments), counts.Enrollments},
		"submissions": {len(res.Submissions), counts.Submissions},
	}
	for name, gotWant := range created {
		if gotWant[0] != gotWant[1] {
			t.Fatalf("%s: created %d want %d", name, gotWant[0], gotWant[1])
		}
	}

	for collection, want := range res.Counts() {
		docs, err := set.Collections.Dump(ctx, collection)
		if err != nil || len(docs) != want {
			t.Fatalf("Dump(%s): err=%v len=%d want %d", collection, err, len(docs), want)
		}
	}

	perf, err := svc.Reports.StudentPerformance(ctx)
	if err != nil {
		t.Fatalf("StudentPerformance: %v", err)
	}
	var graded int64
	for _, p := range perf {
		graded += p.TotalSubmissions
	}
	if graded != int64(res.Graded) {
		t.Fatalf("graded submissions: report %d populate %d", graded, res.Graded)
	}
}

func TestAdvancedAnalytics(t *testing.T) {
	svc, set := newTestServices(t)
	ctx := context.Background()
	testutil.SeedUser(t, ctx, set, "IN_001", domain.RoleInstructor)
	testutil.SeedCourse(t, ctx, set, "CO_001", "IN_001", "A", 10, 4)
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	testutil.SeedEnrollment(t, ctx, set, "EN_001", "ST_001", "CO_001", domain.StatusActive, 50, jan)
	testutil.SeedEnrollment(t, ctx, set, "EN_002", "ST_002", "CO_001", domain.StatusCompleted, 100, jan)

	res, err := svc.Reports.AdvancedAnalytics(ctx)
	if err != nil {
		t.Fatalf("AdvancedAnalytics: %v", err)
	}
	if !res.GeneratedAt.Equal(testNow) {
		t.Fatalf("generatedAt: got %s", res.GeneratedAt)
	}
	if len(res.MonthlyTrend) != 1 || res.MonthlyTrend[0].Enrollments != 2 {
		t.Fatalf("monthly trend: %+v", res.MonthlyTrend)
	}
	if len(res.CategoryPopularity) != 1 || res.CategoryPopularity[0].Category != "A" {
		t.Fatalf("category popularity: %+v", res.CategoryPopularity)
	}
	if len(res.Engagement) != 2 || res.Engagement[0].Status != domain.StatusActive {
		t.Fatalf("engagement: %+v", res.Engagement)
	}
}
